package lalinhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/laporan-latin/laporan-latin/internal/auth"
	"github.com/laporan-latin/laporan-latin/internal/lalin"
	"github.com/laporan-latin/laporan-latin/internal/lalin/export"
	"github.com/laporan-latin/laporan-latin/internal/lalin/svg"
	"github.com/laporan-latin/laporan-latin/internal/lalin/ui"
	"github.com/laporan-latin/laporan-latin/internal/platform/httpx"
	"github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
	"github.com/laporan-latin/laporan-latin/internal/view"
)

const (
	reportPath     = "/laporan-latin"
	dailyPath      = "/laporan-latin/per-hari"
	dashboardPath  = "/dashboard"
	defaultTimeout = 15 * time.Second
)

// ReportService is the slice of lalin.Service the pages depend on.
type ReportService interface {
	Page(ctx context.Context, token string, q lalin.Query) (lalin.Page, error)
	Report(ctx context.Context, token string, q lalin.Query, mode lalin.PaymentMode) (lalin.ReportResult, error)
	Dashboard(ctx context.Context, token, date string) (lalin.Dashboard, error)
}

// Options tunes request handling.
type Options struct {
	DefaultDate    string
	RequestTimeout time.Duration
}

// Handler serves the traffic report pages, exports and JSON API.
type Handler struct {
	logger      *slog.Logger
	service     ReportService
	templates   *view.Engine
	csrf        *shared.CSRFManager
	bar         ui.BarRenderer
	donut       ui.DonutRenderer
	defaultDate string
	timeout     time.Duration
	bufPool     sync.Pool
	now         func() time.Time
}

// NewHandler constructs the report handler.
func NewHandler(logger *slog.Logger, service ReportService, templates *view.Engine, csrf *shared.CSRFManager, bar ui.BarRenderer, donut ui.DonutRenderer, opts Options) *Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultTimeout
	}
	h := &Handler{
		logger:      logger,
		service:     service,
		templates:   templates,
		csrf:        csrf,
		bar:         bar,
		donut:       donut,
		defaultDate: opts.DefaultDate,
		timeout:     opts.RequestTimeout,
		now:         time.Now,
	}
	h.bufPool.New = func() any { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.Report(ctx, shared.TokenFromContext(r.Context()), filters.Query(), filters.Mode)
	if err != nil {
		h.handleLoadError(w, r, "load report", err)
		return
	}

	vm := ui.ReportViewModel{
		Filters: filters,
		Tabs:    ui.BuildTabs(reportPath, filters),
		Report:  result.Report,
		Count:   result.Count,
		Pager:   ui.BuildPager(reportPath, filters, result.CurrentPage, result.TotalPages),
		Exports: ui.BuildExports(reportPath, filters),
	}
	h.render(w, r, "pages/laporan.html", "Laporan Lalin "+filters.Mode.Label(), vm)
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := h.service.Page(ctx, shared.TokenFromContext(r.Context()), filters.Query())
	if err != nil {
		h.handleLoadError(w, r, "load records", err)
		return
	}

	vm := ui.DailyViewModel{
		Filters: filters,
		Rows:    ui.ToRecordRows(page.Records),
		Count:   page.Count,
		Pager:   ui.BuildPager(dailyPath, filters, page.CurrentPage, page.TotalPages),
	}
	h.render(w, r, "pages/laporan_per_hari.html", "Lalin Per Hari", vm)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx, shared.TokenFromContext(r.Context()), date)
	if err != nil {
		h.handleLoadError(w, r, "load dashboard", err)
		return
	}

	vm, err := h.buildDashboard(dash)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}
	h.render(w, r, "pages/dashboard.html", "Dashboard Lalin", vm)
}

func (h *Handler) buildDashboard(dash lalin.Dashboard) (ui.DashboardViewModel, error) {
	if h.bar == nil || h.donut == nil {
		return ui.DashboardViewModel{}, errors.New("svg renderer missing")
	}
	vm := ui.DashboardViewModel{Date: dash.Date, Records: dash.Records, Charged: dash.Charged}

	bars := func(title, desc string, slices []lalin.Slice) (ui.Chart, error) {
		if len(slices) == 0 {
			return ui.Chart{Title: title}, nil
		}
		values, labels := ui.SliceSeries(slices)
		out, err := h.bar.Bars(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.BarOpts{Title: title, Description: desc, ShowValues: true})
		return ui.Chart{Title: title, SVG: out, Slices: slices}, err
	}
	donut := func(title, desc string, slices []lalin.Slice) (ui.Chart, error) {
		values, labels := ui.SliceSeries(slices)
		out, err := h.donut.Donut(svg.DefaultSize, values, labels, svg.DonutOpts{Title: title, Description: desc})
		return ui.Chart{Title: title, SVG: out, Slices: slices}, err
	}

	var err error
	if vm.ETollBy, err = bars("E-Toll per Bank", "Lalu lintas e-toll per bank penerbit", dash.ETollBy); err != nil {
		return vm, err
	}
	if vm.ByShift, err = donut("Per Shift", "Proporsi lalu lintas per shift", dash.ByShift); err != nil {
		return vm, err
	}
	if vm.ByGate, err = bars("Per Gerbang", "Lalu lintas per gerbang", dash.ByGate); err != nil {
		return vm, err
	}
	if vm.ByBranch, err = donut("Per Ruas", "Proporsi lalu lintas per ruas", dash.ByBranch); err != nil {
		return vm, err
	}
	return vm, nil
}

func (h *Handler) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.Report(ctx, shared.TokenFromContext(r.Context()), filters.Query(), filters.Mode)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			auth.Expire(w, r)
			return
		}
		h.logError("api report", err)
		httpx.RespondError(w, classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type exportFormat struct {
	ext         string
	contentType string
	write       func(buf *bytes.Buffer, report lalin.Report, title string) error
}

var (
	csvFormat = exportFormat{
		ext:         "csv",
		contentType: "text/csv; charset=utf-8",
		write: func(buf *bytes.Buffer, report lalin.Report, _ string) error {
			return export.WriteReportCSV(buf, report)
		},
	}
	xlsxFormat = exportFormat{
		ext:         "xlsx",
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		write: func(buf *bytes.Buffer, report lalin.Report, _ string) error {
			return export.WriteReportXLSX(buf, report)
		},
	}
	pdfFormat = exportFormat{
		ext:         "pdf",
		contentType: "application/pdf",
		write: func(buf *bytes.Buffer, report lalin.Report, title string) error {
			return export.WriteReportPDF(buf, report, title)
		},
	}
)

func (h *Handler) handleExport(format exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := h.parseFilters(r)
		if err != nil {
			h.handleFilterError(w, err)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		result, err := h.service.Report(ctx, shared.TokenFromContext(r.Context()), filters.Query(), filters.Mode)
		if err != nil {
			h.handleLoadError(w, r, "load export", err)
			return
		}

		buf := h.bufPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer func() {
			buf.Reset()
			h.bufPool.Put(buf)
		}()

		title := fmt.Sprintf("Laporan Lalin %s - %s (halaman %d)", filters.Mode.Label(), filters.Date, filters.Page)
		if err := format.write(buf, result.Report, title); err != nil {
			h.handleServerError(w, "write "+format.ext, err)
			return
		}

		filename := export.Filename(filters.Query(), filters.Mode, format.ext)
		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		if _, err := w.Write(buf.Bytes()); err != nil {
			h.logError("stream "+format.ext, err)
		}
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken := ""
	if h.csrf != nil && sess != nil {
		if token, err := h.csrf.EnsureToken(sess); err == nil {
			csrfToken = token
		}
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        sess.User(),
		Data:        data,
	}
	if err := h.templates.Render(w, name, viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) parseDate(r *http.Request) (string, error) {
	date := strings.TrimSpace(r.URL.Query().Get("tanggal"))
	if date == "" {
		date = h.defaultDate
	}
	if date == "" {
		date = h.now().UTC().Format(lalin.DateLayout)
	}
	if _, err := lalin.ParseDate(date); err != nil {
		return "", validationError{field: "tanggal"}
	}
	return date, nil
}

func (h *Handler) parseFilters(r *http.Request) (ui.ReportFilters, error) {
	date, err := h.parseDate(r)
	if err != nil {
		return ui.ReportFilters{}, err
	}

	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ui.ReportFilters{}, validationError{field: "page"}
		}
	}

	mode := lalin.ModeCash
	if raw := strings.TrimSpace(r.URL.Query().Get("mode")); raw != "" {
		mode, err = lalin.ParseMode(raw)
		if err != nil {
			return ui.ReportFilters{}, validationError{field: "mode"}
		}
	}
	return ui.ReportFilters{Date: date, Page: page, Mode: mode}, nil
}

func (h *Handler) handleFilterError(w http.ResponseWriter, err error) {
	var vErr validationError
	if errors.As(err, &vErr) {
		http.Error(w, "Parameter tidak valid: "+vErr.field, http.StatusBadRequest)
		return
	}
	h.handleServerError(w, "parse filters", err)
}

// handleLoadError maps service failures on HTML routes. A rejected token
// sends the user back to login.
func (h *Handler) handleLoadError(w http.ResponseWriter, r *http.Request, context string, err error) {
	if errors.Is(err, upstream.ErrUnauthorized) {
		auth.Expire(w, r)
		return
	}
	h.logError(context, err)
	switch mapped := classify(err); {
	case errors.Is(mapped, httpx.ErrTimeout):
		http.Error(w, "Layanan lalu lintas tidak merespons", http.StatusGatewayTimeout)
	default:
		http.Error(w, "Data lalu lintas tidak dapat dimuat", http.StatusBadGateway)
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}

// classify tags a service error with the httpx sentinel for its status.
func classify(err error) error {
	var apiErr *upstream.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", httpx.ErrTimeout, err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %s", httpx.ErrUpstream, apiErr.Message)
	default:
		return fmt.Errorf("%w: %v", httpx.ErrUpstream, err)
	}
}

type validationError struct {
	field string
}

func (v validationError) Error() string {
	return fmt.Sprintf("invalid %s", v.field)
}

// HandleReportForTest exposes the report page handler for tests.
func (h *Handler) HandleReportForTest(w http.ResponseWriter, r *http.Request) { h.handleReport(w, r) }

// HandleDailyForTest exposes the per-day listing handler for tests.
func (h *Handler) HandleDailyForTest(w http.ResponseWriter, r *http.Request) { h.handleDaily(w, r) }

// HandleDashboardForTest exposes the dashboard handler for tests.
func (h *Handler) HandleDashboardForTest(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r)
}

// HandleAPIReportForTest exposes the JSON report handler for tests.
func (h *Handler) HandleAPIReportForTest(w http.ResponseWriter, r *http.Request) {
	h.handleAPIReport(w, r)
}

// HandleExportForTest exposes an export handler by extension for tests.
func (h *Handler) HandleExportForTest(ext string) http.HandlerFunc {
	switch ext {
	case "xlsx":
		return h.handleExport(xlsxFormat)
	case "pdf":
		return h.handleExport(pdfFormat)
	default:
		return h.handleExport(csvFormat)
	}
}
