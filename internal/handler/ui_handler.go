package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/middleware"
	"github.com/evyataryagoni/geoconsole/internal/service"
	"github.com/evyataryagoni/geoconsole/internal/view"
	"github.com/go-chi/chi/v5"
)

// UIHandler serves the HTML console
// Actions are plain form posts answered with a redirect back to "/";
// their outcome travels to the next render as a flash toast.
type UIHandler struct {
	service  *service.ConsoleService
	renderer *view.Renderer
	logger   *logger.Logger
}

// NewUIHandler creates a new HTML console handler
func NewUIHandler(svc *service.ConsoleService, renderer *view.Renderer, log *logger.Logger) *UIHandler {
	if log == nil {
		log = logger.NewDefault()
	}
	return &UIHandler{
		service:  svc,
		renderer: renderer,
		logger:   log.WithComponent("UIHandler"),
	}
}

// Index handles GET /
func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	toast := popFlash(w, r)

	sess, err := h.service.Session(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, view.Page{View: view.Build(sess), Toast: toast}); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render console")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Query handles POST /ui/query
func (h *UIHandler) Query(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Query(r.Context(), middleware.SessionID(r.Context()), r.FormValue("coords"))
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}

	h.succeed(w, r, fmt.Sprintf("Query finished: %d records", len(sess.Records)))
}

// GoToPage handles POST /ui/page/{n}
func (h *UIHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		setFlash(w, view.ToastError, "Page must be a number")
		h.redirect(w, r)
		return
	}

	if _, err := h.service.GoToPage(r.Context(), middleware.SessionID(r.Context()), page); err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.redirect(w, r)
}

// DeleteRecord handles POST /ui/delete/{id}
func (h *UIHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.service.DeleteRecord(r.Context(), middleware.SessionID(r.Context()), id); err != nil {
		h.redirectWithError(w, r, err)
		return
	}

	h.succeed(w, r, "Deleted record "+id)
}

// succeed flashes a success toast carrying the refreshed total entries
// A failed count only drops the total, the action itself already succeeded.
func (h *UIHandler) succeed(w http.ResponseWriter, r *http.Request, message string) {
	toast := view.Toast{Level: view.ToastSuccess, Message: message}
	if resp, err := h.service.Count(r.Context()); err != nil {
		h.logger.WithSession(middleware.SessionID(r.Context())).Warn().Err(err).Msg("Failed to refresh total entries")
	} else {
		toast.TotalEntries = &resp.TotalEntries
	}
	storeFlash(w, toast)
	h.redirect(w, r)
}

func (h *UIHandler) redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithSession(middleware.SessionID(r.Context())).Error().Err(err).Str("path", r.URL.Path).Msg("Console action failed")
	}
	setFlash(w, view.ToastError, message)
	h.redirect(w, r)
}

func (h *UIHandler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
