package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/export"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/middleware"
	"github.com/evyataryagoni/geoconsole/internal/models"
	"github.com/evyataryagoni/geoconsole/internal/service"
	"github.com/evyataryagoni/geoconsole/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// DeleteRandomResponse is returned by POST /v1/delete-random
type DeleteRandomResponse struct {
	DeletedCount int            `json:"deleted_count"`
	Message      string         `json:"message,omitempty"`
	Refreshed    bool           `json:"refreshed"`               // true when the last query was re-run
	RefreshError string         `json:"refresh_error,omitempty"` // set when the re-run failed
	View         *view.PageView `json:"view,omitempty"`
}

// ConsoleHandler serves the JSON console API
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Parse HTTP requests (path, body, session cookie)
//   - Call service methods
//   - Format HTTP responses (JSON, CSV)
//   - Map service errors to status codes
type ConsoleHandler struct {
	service   *service.ConsoleService
	validator *validator.Validate
	logger    *logger.Logger
}

// NewConsoleHandler creates a new console handler with the given service
func NewConsoleHandler(svc *service.ConsoleService, log *logger.Logger) *ConsoleHandler {
	if log == nil {
		log = logger.NewDefault()
	}
	return &ConsoleHandler{
		service:   svc,
		validator: validator.New(),
		logger:    log.WithComponent("ConsoleHandler"),
	}
}

// GetSession handles GET /v1/session
// @Summary      Current console view
// @Description  Returns the visible page of the visitor's last query result
// @Tags         Console
// @Produce      json
// @Success      200  {object}   view.PageView
// @Failure      500  {object}   models.ErrorResponse  "Internal server error"
// @Router       /v1/session [get]
func (h *ConsoleHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Session(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.Build(sess))
}

// Query handles POST /v1/query
// @Summary      Run a polygon query
// @Description  Parses "lng,lat lng,lat ..." (malformed pairs are dropped), requires at least 3 points and replaces the visitor's record list with the result
// @Tags         Console
// @Accept       json
// @Produce      json
// @Param        request  body      models.ConsoleQueryRequest  true  "Polygon"
// @Success      200      {object}  view.PageView
// @Failure      400      {object}  models.ErrorResponse  "Fewer than 3 valid points"
// @Failure      429      {object}  models.ErrorResponse  "Rate limit exceeded"
// @Failure      502      {object}  models.ErrorResponse  "Geo service error"
// @Router       /v1/query [post]
func (h *ConsoleHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.ConsoleQueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing 'coordinates'")
		return
	}

	sess, err := h.service.Query(r.Context(), middleware.SessionID(r.Context()), req.Coordinates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.Build(sess))
}

// GoToPage handles GET /v1/page/{n}
// @Summary      Select a result page
// @Tags         Console
// @Produce      json
// @Param        n    path      int  true  "Page number (1-based)"
// @Success      200  {object}  view.PageView
// @Failure      400  {object}  models.ErrorResponse  "Page out of range"
// @Router       /v1/page/{n} [get]
func (h *ConsoleHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Page must be a number")
		return
	}

	sess, err := h.service.GoToPage(r.Context(), middleware.SessionID(r.Context()), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.Build(sess))
}

// DeleteRecord handles DELETE /v1/records/{id}
// @Summary      Delete one record
// @Description  Deletes the record on the geo service and removes it from the visitor's list, staying on the current page when it still exists. A record the geo service reports as missing is removed too
// @Tags         Console
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  view.PageView
// @Failure      502  {object}  models.ErrorResponse  "Geo service error"
// @Router       /v1/records/{id} [delete]
func (h *ConsoleHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.DeleteRecord(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.Build(sess))
}

// Insert handles POST /v1/insert
// @Summary      Generate random records
// @Description  num 0 (or no body) picks a random count in [10000, 99999]; otherwise num must be within [10000, 100000]
// @Tags         Test data
// @Accept       json
// @Produce      json
// @Param        request  body      models.InsertRequest  false  "Number of records"
// @Success      200      {object}  service.InsertResult
// @Failure      400      {object}  models.ErrorResponse  "Count out of range"
// @Failure      429      {object}  models.ErrorResponse  "Rate limit exceeded"
// @Failure      502      {object}  models.ErrorResponse  "Geo service error"
// @Router       /v1/insert [post]
func (h *ConsoleHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var req models.InsertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.service.GenerateRandom(r.Context(), req.Num)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// DeleteRandom handles POST /v1/delete-random
// @Summary      Delete random records
// @Description  Deletes num random records, then re-runs the visitor's last query
// @Tags         Test data
// @Accept       json
// @Produce      json
// @Param        request  body      models.DeleteRandomRequest  true  "Number of records"
// @Success      200      {object}  DeleteRandomResponse
// @Failure      400      {object}  models.ErrorResponse  "Count below 1"
// @Failure      429      {object}  models.ErrorResponse  "Rate limit exceeded"
// @Failure      502      {object}  models.ErrorResponse  "Geo service error"
// @Router       /v1/delete-random [post]
func (h *ConsoleHandler) DeleteRandom(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteRandomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.service.DeleteRandom(r.Context(), middleware.SessionID(r.Context()), req.Num)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := DeleteRandomResponse{
		DeletedCount: result.DeletedCount,
		Message:      result.Message,
	}
	if result.Session != nil {
		v := view.Build(result.Session)
		resp.Refreshed = true
		resp.View = &v
	}
	if result.RefreshError != nil {
		_, resp.RefreshError = statusFor(result.RefreshError)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Count handles GET /v1/count
// @Summary      Total number of records
// @Tags         Test data
// @Produce      json
// @Success      200  {object}  models.CountResponse
// @Failure      502  {object}  models.ErrorResponse  "Geo service error"
// @Router       /v1/count [get]
func (h *ConsoleHandler) Count(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Count(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Export handles GET /v1/export
// @Summary      Download the current result as CSV
// @Description  File geo_data_<date>.csv with header "ID,类型,坐标"
// @Tags         Console
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      409  {object}  models.ErrorResponse  "No query has been run yet"
// @Router       /v1/export [get]
func (h *ConsoleHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), middleware.SessionID(r.Context()), &buf); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// fail maps err to a JSON error response
func (h *ConsoleHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithSession(middleware.SessionID(r.Context())).Error().
			Err(err).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("Request failed")
	}
	respondError(w, status, message)
}
