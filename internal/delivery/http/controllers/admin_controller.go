package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"colloquium/internal/delivery/http/helpers"
	"colloquium/internal/domain"
	"colloquium/internal/services"
)

type AdminController struct {
	Logger    *slog.Logger
	Dashboard *services.Dashboard
	Exporter  *services.Exporter
}

func NewAdminController(logger *slog.Logger, dashboard *services.Dashboard, exporter *services.Exporter) *AdminController {
	return &AdminController{Logger: logger, Dashboard: dashboard, Exporter: exporter}
}

// ViewData is the current dashboard view: the visible registrations under
// the active filter and search, plus the empty/error message when there is
// nothing to show.
type ViewData struct {
	Filter        string                 `json:"filter"`
	Registrations []*domain.Registration `json:"registrations"`
	Message       string                 `json:"message,omitempty"`
}

// ViewSuccessResponse is the success envelope for dashboard view endpoints (200).
type ViewSuccessResponse struct {
	Data  *ViewData         `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func (c *AdminController) writeView(w http.ResponseWriter) {
	regs := c.Dashboard.View()
	view := &ViewData{
		Filter:        c.Dashboard.Filter(),
		Registrations: regs,
	}
	if msg := c.Dashboard.Message(); msg != "" {
		view.Message = msg
	} else if len(regs) == 0 {
		view.Message = "No registrations found for this filter"
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Refresh godoc
// @Summary Reload registrations from the database
// @Description Fetches the full collection and atomically replaces the in-memory set, newest first. A fetch failure is reported through the view message, not a distinct error code.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ViewSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/registrations/refresh [post]
func (c *AdminController) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := c.Dashboard.Load(r.Context()); err != nil {
		c.Logger.ErrorContext(r.Context(), "registration load failed", "err", err)
	}
	c.writeView(w)
}

// List godoc
// @Summary Current dashboard view
// @Description Returns the registrations visible under the active event filter and search text.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ViewSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/registrations [get]
func (c *AdminController) List(w http.ResponseWriter, r *http.Request) {
	c.writeView(w)
}

// SetFilterRequest is the request body for PUT /admin/filter.
type SetFilterRequest struct {
	Event string `json:"event"`
}

// SetFilter godoc
// @Summary Set the active event filter
// @Description Restricts the view to one event. "all" (or empty) clears the filter. The filter persists across searches and status updates.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SetFilterRequest true "Event name or \"all\""
// @Success 200 {object} controllers.ViewSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/filter [put]
func (c *AdminController) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req SetFilterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.Dashboard.SetFilter(req.Event)
	c.writeView(w)
}

// SetSearchRequest is the request body for PUT /admin/search.
type SetSearchRequest struct {
	Query string `json:"query"`
}

// SetSearch godoc
// @Summary Set the active search text
// @Description Case-insensitive substring match across name, email, phone, college, department, year, event, and transaction id. Applied after the event filter.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SetSearchRequest true "Search text"
// @Success 200 {object} controllers.ViewSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/search [put]
func (c *AdminController) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SetSearchRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.Dashboard.SetSearch(req.Query)
	c.writeView(w)
}

// RegistrationDetails is a registration with the department field decomposed
// for display.
type RegistrationDetails struct {
	*domain.Registration
	DepartmentName string `json:"department_name"`
	Semester       string `json:"semester"`
}

// DetailsSuccessResponse is the success envelope for GET /admin/registrations/{id} (200).
type DetailsSuccessResponse struct {
	Data  *RegistrationDetails `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Details godoc
// @Summary Registration details
// @Description Returns one loaded registration with "Department - Semester" split into its parts.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.DetailsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/registrations/{id} [get]
func (c *AdminController) Details(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	reg, err := c.Dashboard.Get(id)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		return
	}
	department, semester := services.SplitDepartment(reg.Department)
	helpers.WriteJSONSuccess(w, http.StatusOK, &RegistrationDetails{
		Registration:   reg,
		DepartmentName: department,
		Semester:       semester,
	})
}

// UpdateStatusRequest is the request body for PATCH /admin/registrations/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusSuccessResponse is the success envelope for the status update (200).
type UpdateStatusSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UpdateStatus godoc
// @Summary Approve or reject a registration
// @Description Transitions the record's status. Every status is reachable from every other; the change is persisted before the in-memory copy is mutated. Last write wins on concurrent updates.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param body body controllers.UpdateStatusRequest true "New status: pending, approved, or rejected"
// @Success 200 {object} controllers.UpdateStatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id}/status [patch]
func (c *AdminController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}

	var req UpdateStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be pending, approved, or rejected")
		return
	}

	if err := c.Dashboard.SetStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	reg, err := c.Dashboard.Get(id)
	if err != nil {
		// Persisted but not loaded in memory; report the transition anyway.
		reg = &domain.Registration{ID: id, Status: status}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// StatsSuccessResponse is the success envelope for GET /admin/stats (200).
type StatsSuccessResponse struct {
	Data  *services.Stats   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Stats godoc
// @Summary Registration statistics
// @Description Total, approved, and pending counts over the loaded set. A missing status counts as pending.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/stats [get]
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats := c.Dashboard.Stats()
	helpers.WriteJSONSuccess(w, http.StatusOK, &stats)
}

// EventCountsSuccessResponse is the success envelope for GET /admin/event-counts (200).
type EventCountsSuccessResponse struct {
	Data  *services.EventCounts `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// EventCounts godoc
// @Summary Per-event registration counts
// @Description Counts per catalog event plus the grand total. Events with no registrations report zero.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventCountsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/event-counts [get]
func (c *AdminController) EventCounts(w http.ResponseWriter, r *http.Request) {
	counts := c.Dashboard.EventCounts()
	helpers.WriteJSONSuccess(w, http.StatusOK, &counts)
}

// Export godoc
// @Summary Export the current view as CSV
// @Description Serializes the filter-only view (search is ignored) to CSV with every field quoted. Responds with a download filename of the form colloquium-2026-<filter-slug>-<date>.csv.
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (no data to export)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/export [get]
func (c *AdminController) Export(w http.ResponseWriter, r *http.Request) {
	regs := c.Dashboard.FilterOnlyView()
	if len(regs) == 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "No data to export")
		return
	}

	csv := c.Exporter.ExportCSV(regs)
	filename := c.Exporter.Filename(c.Dashboard.Filter(), time.Now())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
