package lalinhttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/laporan-latin/laporan-latin/internal/shared"
)

// MountRoutes registers the report pages, exports and JSON API.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get(dashboardPath, h.handleDashboard)
	r.Get(reportPath, h.handleReport)
	r.Get(dailyPath, h.handleDaily)
	r.Get("/api/laporan-latin", h.handleAPIReport)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get(reportPath+"/export.csv", h.handleExport(csvFormat))
		gr.Get(reportPath+"/export.xlsx", h.handleExport(xlsxFormat))
		gr.Get(reportPath+"/export.pdf", h.handleExport(pdfFormat))
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if user := strings.TrimSpace(sess.User()); user != "" {
		return "user:" + user, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
