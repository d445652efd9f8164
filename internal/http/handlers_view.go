package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	"github.com/novahq/nova-dashboard/internal/domain/view"
	"github.com/novahq/nova-dashboard/internal/service"
)

// ViewHandlers provides HTTP handlers for the dashboard view and its
// view-state mutators. All routes here sit behind RequireAuth, so the
// session is always present in the request context.
type ViewHandlers struct {
	Views    *service.ViewRegistry
	Datasets *service.DatasetService
	Logger   *slog.Logger
}

func (h *ViewHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// dashboardStats summarizes both datasets and the active projection.
type dashboardStats struct {
	TotalProfiles int `json:"total_profiles"`
	TotalCards    int `json:"total_cards"`
	FilteredCount int `json:"filtered_count"`
	VisibleCount  int `json:"visible_count"`
}

// dashboardResponse is the payload every view endpoint returns: the state,
// the visible page under that state, and per-dataset status including any
// inline fetch error.
type dashboardResponse struct {
	View     view.State                       `json:"view"`
	Page     view.Page                        `json:"page"`
	Stats    dashboardStats                   `json:"stats"`
	Datasets map[string]service.DatasetStatus `json:"datasets"`
}

// Dashboard returns the current projection page for the session's view state.
// GET /api/dashboard.
func (h *ViewHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r)
}

// modeRequest selects the active dataset.
type modeRequest struct {
	Mode string `json:"mode"`
}

// SetMode switches the active dataset for the session.
// POST /api/view/mode with body {"mode": "profiles"|"cards"}.
func (h *ViewHandlers) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.controller(r).SetMode(dataset.Mode(req.Mode)); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_mode", Err: err})
		return
	}
	h.render(w, r)
}

// queryRequest carries the filter text.
type queryRequest struct {
	Query string `json:"query"`
}

// SetQuery sets the session's filter query.
// POST /api/view/query with body {"query": "..."}.
func (h *ViewHandlers) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	h.controller(r).SetQuery(req.Query)
	h.render(w, r)
}

// ClearQuery removes the session's filter query.
// DELETE /api/view/query.
func (h *ViewHandlers) ClearQuery(w http.ResponseWriter, r *http.Request) {
	h.controller(r).ClearQuery()
	h.render(w, r)
}

// pageRequest carries the 0-based page index.
type pageRequest struct {
	PageIndex int `json:"page_index"`
}

// SetPage moves the session to another page.
// POST /api/view/page with body {"page_index": n}.
func (h *ViewHandlers) SetPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	h.controller(r).SetPageIndex(req.PageIndex)
	h.render(w, r)
}

// pageSizeRequest carries the rows-per-page setting.
type pageSizeRequest struct {
	PageSize int `json:"page_size"`
}

// SetPageSize changes the session's rows-per-page setting.
// POST /api/view/page-size with body {"page_size": 10|20|50}.
func (h *ViewHandlers) SetPageSize(w http.ResponseWriter, r *http.Request) {
	var req pageSizeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.controller(r).SetPageSize(req.PageSize); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_page_size", Err: err})
		return
	}
	h.render(w, r)
}

// Refresh forces a refetch of the session's active dataset.
// POST /api/datasets/refresh.
func (h *ViewHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	state := h.controller(r).State()
	if err := h.Datasets.Refresh(r.Context(), state.Mode); err != nil {
		h.logger().WarnContext(r.Context(), "forced dataset refresh failed", "mode", state.Mode, "error", err)
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "dataset_unavailable", Err: err})
		return
	}
	h.render(w, r)
}

// controller returns the view controller for the request's session.
func (h *ViewHandlers) controller(r *http.Request) *service.ViewController {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		// RequireAuth guarantees a session on these routes.
		panic(errors.New("view handler invoked without session"))
	}
	return h.Views.For(session.ID)
}

// render responds with the session's current dashboard payload. A dataset
// that cannot be fetched at all renders as an empty page with the error
// carried in that dataset's status, not as a request failure.
func (h *ViewHandlers) render(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(r)
	state := ctrl.State()

	records, err := h.Datasets.Records(r.Context(), state.Mode)
	if err != nil {
		h.logger().WarnContext(r.Context(), "dataset unavailable", "mode", state.Mode, "error", err)
		records = nil
	}
	page := ctrl.Project(records)

	profiles := h.Datasets.Status(dataset.ModeProfiles)
	cards := h.Datasets.Status(dataset.ModeCards)

	WriteJSON(w, http.StatusOK, dashboardResponse{
		View: state,
		Page: page,
		Stats: dashboardStats{
			TotalProfiles: profiles.Count,
			TotalCards:    cards.Count,
			FilteredCount: page.TotalCount,
			VisibleCount:  len(page.Items),
		},
		Datasets: map[string]service.DatasetStatus{
			string(dataset.ModeProfiles): profiles,
			string(dataset.ModeCards):    cards,
		},
	})
}
