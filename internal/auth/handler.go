package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	now            func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		now:            time.Now,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginPageData struct {
	Username string
	From     string
	Errors   map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	from := SanitizeFrom(r.URL.Query().Get("from"))
	if sess.Token(h.now()) != "" {
		http.Redirect(w, r, from, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, sess, http.StatusOK, loginPageData{From: from, Errors: map[string]string{}})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	creds := Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	data := loginPageData{
		Username: creds.Username,
		From:     SanitizeFrom(r.PostFormValue("from")),
		Errors:   map[string]string{},
	}

	grant, err := h.service.Login(r.Context(), creds)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			data.Errors = verr.Fields
			h.renderLogin(w, sess, http.StatusBadRequest, data)
		case errors.Is(err, ErrInvalidCredentials):
			data.Errors["general"] = "Username atau password salah"
			h.renderLogin(w, sess, http.StatusUnauthorized, data)
		default:
			h.logger.Error("upstream login", slog.Any("error", err))
			data.Errors["general"] = "Layanan autentikasi tidak tersedia, coba lagi nanti"
			h.renderLogin(w, sess, http.StatusBadGateway, data)
		}
		return
	}

	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.sessionManager.Renew(sess)
	sess.SetUser(creds.Username)
	sess.SetToken(grant.Token, grant.ExpiresAt)
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Selamat datang, " + creds.Username})
	h.logger.Info("user signed in", slog.String("user", creds.Username))
	http.Redirect(w, r, data.From, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, sess *shared.Session, status int, data loginPageData) {
	csrfToken, _ := h.csrfManager.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Masuk",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: LoginPath,
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// ShowLoginForTest exposes the GET handler for tests.
func (h *Handler) ShowLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.showLogin(w, r)
}

// HandleLoginForTest exposes the POST handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleLogoutForTest exposes the logout handler for tests.
func (h *Handler) HandleLogoutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}
