package gerbang

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/shared"
	internalShared "github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/internal/view"
)

const basePath = "/master-gerbang"

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *internalShared.CSRFManager
}

func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *internalShared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountRoutes registers the gate CRUD pages under /master-gerbang.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route(basePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/new", h.Form)
		r.Post("/", h.Create)
		r.Get("/{cabang}/{id}/edit", h.EditForm)
		r.Post("/{cabang}/{id}", h.Update)
		r.Post("/{cabang}/{id}/delete", h.Delete)
	})
}

type listPage struct {
	Gates      []Gerbang
	Filters    shared.ListFilters
	Total      int
	Pagination internalShared.Pagination
	Pages      []int
}

type formPage struct {
	Form   GerbangForm
	Errors map[string]string
	Action string
	IsEdit bool
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filters := shared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}
	if raw := q.Get("id_cabang"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			filters.BranchID = &parsed
		}
	}
	filters = filters.Normalize()

	gates, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list gerbang failed", slog.Any("error", err))
		http.Error(w, "Gagal memuat data gerbang", http.StatusInternalServerError)
		return
	}

	pagination := internalShared.NewPagination(filters.Page, filters.Limit, total)
	h.render(w, r, "pages/gerbang_list.html", "Master Gerbang", listPage{
		Gates:      gates,
		Filters:    filters,
		Total:      total,
		Pagination: pagination,
		Pages:      internalShared.PageWindow(pagination.Page, pagination.TotalPages, internalShared.DefaultWindow),
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/gerbang_form.html", "Tambah Gerbang", formPage{
		Errors: map[string]string{},
		Action: basePath,
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := FormFromValues(r.PostForm)

	created, err := h.service.Create(r.Context(), form.Gerbang())
	if err != nil {
		h.logger.Warn("create gerbang failed", slog.Any("error", err))
		h.render(w, r, "pages/gerbang_form.html", "Tambah Gerbang", formPage{
			Form:   form,
			Errors: formErrors(err),
			Action: basePath,
		}, statusFor(err))
		return
	}

	h.redirectWithFlash(w, r, basePath, "success", "Gerbang "+created.GateName+" ditambahkan")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, branchID, ok := keyParams(r)
	if !ok {
		http.Error(w, "ID gerbang tidak valid", http.StatusBadRequest)
		return
	}

	g, err := h.service.Get(r.Context(), id, branchID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.Error(w, "Gerbang tidak ditemukan", http.StatusNotFound)
			return
		}
		h.logger.Error("get gerbang failed", slog.Any("error", err), slog.Int64("id", id), slog.Int64("id_cabang", branchID))
		http.Error(w, "Gagal memuat gerbang", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/gerbang_form.html", "Ubah Gerbang", formPage{
		Form:   FormFromGerbang(g),
		Errors: map[string]string{},
		Action: memberPath(id, branchID),
		IsEdit: true,
	}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, branchID, ok := keyParams(r)
	if !ok {
		http.Error(w, "ID gerbang tidak valid", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := FormFromValues(r.PostForm)

	if err := h.service.Update(r.Context(), id, branchID, form.Gerbang()); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.redirectWithFlash(w, r, basePath, "error", "Gerbang tidak ditemukan")
			return
		}
		h.logger.Warn("update gerbang failed", slog.Any("error", err), slog.Int64("id", id), slog.Int64("id_cabang", branchID))
		h.render(w, r, "pages/gerbang_form.html", "Ubah Gerbang", formPage{
			Form:   form,
			Errors: formErrors(err),
			Action: memberPath(id, branchID),
			IsEdit: true,
		}, statusFor(err))
		return
	}

	h.redirectWithFlash(w, r, basePath, "success", "Gerbang "+form.GateName+" diperbarui")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, branchID, ok := keyParams(r)
	if !ok {
		http.Error(w, "ID gerbang tidak valid", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id, branchID); err != nil {
		h.logger.Warn("delete gerbang failed", slog.Any("error", err), slog.Int64("id", id), slog.Int64("id_cabang", branchID))
		h.redirectWithFlash(w, r, basePath, "error", userMessage(err))
		return
	}

	h.redirectWithFlash(w, r, basePath, "success", "Gerbang dihapus")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	sess := internalShared.SessionFromContext(r.Context())
	csrfToken := ""
	if sess != nil && h.csrf != nil {
		csrfToken, _ = h.csrf.EnsureToken(sess)
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        sess.User(),
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, name, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", name))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := internalShared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(internalShared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func keyParams(r *http.Request) (id, branchID int64, ok bool) {
	branchID, err := strconv.ParseInt(chi.URLParam(r, "cabang"), 10, 64)
	if err != nil || branchID <= 0 {
		return 0, 0, false
	}
	id, err = strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, false
	}
	return id, branchID, true
}

func memberPath(id, branchID int64) string {
	return basePath + "/" + strconv.FormatInt(branchID, 10) + "/" + strconv.FormatInt(id, 10)
}

func formErrors(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{"general": userMessage(err)}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrDuplicate):
		return "Gerbang dengan ID dan ruas tersebut sudah ada"
	case errors.Is(err, shared.ErrNotFound):
		return "Gerbang tidak ditemukan"
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidID):
		return "Data gerbang tidak valid"
	default:
		return "Terjadi kesalahan, coba lagi"
	}
}
