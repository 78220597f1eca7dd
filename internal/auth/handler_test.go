package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporan-latin/laporan-latin/internal/auth"
	"github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
	"github.com/laporan-latin/laporan-latin/internal/view"
	_ "github.com/laporan-latin/laporan-latin/testing"
)

type stubAuthenticator struct {
	token string
	err   error
	calls int
}

func (s *stubAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	s.calls++
	return s.token, s.err
}

func newAuthHandler(t *testing.T, authn auth.Authenticator) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	templates, err := view.NewEngine()
	require.NoError(t, err)
	handler := auth.NewHandler(nil, auth.NewService(authn), templates, sessionManager, shared.NewCSRFManager("csrfsecret"))
	return handler, sessionManager
}

func withSession(req *http.Request, sess *shared.Session) *http.Request {
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func postLogin(username, password, from string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("from", from)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginPage(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/auth/login?from=/laporan-latin", nil)
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = withSession(req, sess)

	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, `value="/laporan-latin"`)
	assert.NotEmpty(t, sess.Get(shared.CSRFSessionKey))
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubAuthenticator{})
	sess := &shared.Session{}
	sess.SetToken("tok", time.Time{})

	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, withSession(httptest.NewRequest(http.MethodGet, "/auth/login", nil), sess))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, auth.DefaultLanding, res.Header().Get("Location"))
}

func TestLoginSuccessStoresToken(t *testing.T) {
	authn := &stubAuthenticator{token: "opaque-token"}
	handler, _ := newAuthHandler(t, authn)
	sess := &shared.Session{ID: "s1"}

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, withSession(postLogin("operator", "rahasia", "/laporan-latin?mode=flo"), sess))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/laporan-latin?mode=flo", res.Header().Get("Location"))
	assert.Equal(t, "opaque-token", sess.Token(time.Now()))
	assert.Equal(t, "operator", sess.User())
	assert.NotContains(t, res.Header().Get("Set-Cookie"), "opaque-token")
}

func TestLoginRotatesSessionID(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubAuthenticator{token: "opaque-token"})
	ctx := context.Background()

	sess, err := sessions.Load(ctx, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.NoError(t, err)
	require.NoError(t, sessions.Commit(ctx, httptest.NewRecorder(), sess))
	planted := sess.ID

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: planted})
	loaded, err := sessions.Load(ctx, req)
	require.NoError(t, err)
	require.Equal(t, planted, loaded.ID)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, withSession(postLogin("operator", "rahasia", ""), loaded))
	require.NoError(t, sessions.Commit(ctx, res, loaded))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.NotEqual(t, planted, loaded.ID)

	stale := httptest.NewRequest(http.MethodGet, "/", nil)
	stale.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: planted})
	again, err := sessions.Load(ctx, stale)
	require.NoError(t, err)
	assert.Empty(t, again.Token(time.Now()), "the pre-login id must not carry the token")
}

func TestLoginRejectsOpenRedirect(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubAuthenticator{token: "tok"})
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, withSession(postLogin("operator", "pw", "//evil.example/x"), &shared.Session{}))
	assert.Equal(t, auth.DefaultLanding, res.Header().Get("Location"))
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubAuthenticator{err: upstream.ErrInvalidCredentials})
	sess := &shared.Session{}

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, withSession(postLogin("operator", "wrong", ""), sess))

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "Username atau password salah")
	assert.Empty(t, sess.Token(time.Now()))
}

func TestLoginValidation(t *testing.T) {
	authn := &stubAuthenticator{token: "tok"}
	handler, _ := newAuthHandler(t, authn)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, withSession(postLogin("  ", "", ""), &shared.Session{}))

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Wajib diisi")
	assert.Zero(t, authn.calls, "invalid forms never reach the upstream API")
}

func TestLoginUpstreamFailure(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubAuthenticator{err: errors.New("connection refused")})
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, withSession(postLogin("operator", "pw", ""), &shared.Session{}))
	assert.Equal(t, http.StatusBadGateway, res.Code)
}

func TestLogout(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubAuthenticator{})
	sess := &shared.Session{ID: "gone"}
	sess.SetToken("tok", time.Time{})

	res := httptest.NewRecorder()
	handler.HandleLogoutForTest(res, withSession(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), sess))
	require.NoError(t, sessions.Commit(context.Background(), res, sess))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, auth.LoginPath, res.Header().Get("Location"))
}
