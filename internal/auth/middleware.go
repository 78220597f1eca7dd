package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/laporan-latin/laporan-latin/internal/platform/httpx"
	"github.com/laporan-latin/laporan-latin/internal/shared"
)

var publicPrefixes = []string{"/auth/", "/static/"}

var publicPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// IsPublic reports whether path is reachable without a token.
func IsPublic(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsAPI reports whether path answers JSON rather than HTML.
func IsAPI(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// RequireToken lets a request through only when its session holds a live
// upstream token, which it places on the request context.
func RequireToken(now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			sess := shared.SessionFromContext(r.Context())
			token := sess.Token(now())
			if token == "" {
				if sess.User() != "" {
					sess.ClearToken()
				}
				Reject(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithToken(r.Context(), token)))
		})
	}
}

// Reject answers an unauthenticated request: JSON routes get a 401
// problem, pages are redirected to the login form.
func Reject(w http.ResponseWriter, r *http.Request) {
	if IsAPI(r.URL.Path) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
}

// Expire clears the session token after the upstream API rejected it and
// sends the client back to login.
func Expire(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.ClearToken()
		if !IsAPI(r.URL.Path) {
			sess.AddFlash(shared.FlashMessage{Kind: "warning", Message: "Sesi berakhir, silakan masuk kembali"})
		}
	}
	Reject(w, r)
}
