package service

import (
	"sync"

	apperrors "github.com/novahq/nova-dashboard/internal/errors"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	"github.com/novahq/nova-dashboard/internal/domain/view"
)

// ViewController owns one session's view state and applies the mutation
// rules that keep it coherent. HTTP handlers run concurrently, so every
// operation takes the lock.
type ViewController struct {
	mu    sync.Mutex
	state view.State
}

// NewViewController returns a controller holding the default view state.
func NewViewController() *ViewController {
	return &ViewController{state: view.DefaultState()}
}

// State returns a copy of the current view state.
func (c *ViewController) State() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetMode switches the active dataset. Switching resets the query and page
// index so the new dataset is seen unfiltered from its first page; the page
// size is a cross-dataset display preference and survives. Setting the mode
// it already has changes nothing, including query and page index.
func (c *ViewController) SetMode(mode dataset.Mode) error {
	if !mode.Valid() {
		return apperrors.Validationf("unknown dataset mode: %q", mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode == mode {
		return nil
	}
	c.state.Mode = mode
	c.state.Query = ""
	c.state.PageIndex = 0
	return nil
}

// SetQuery stores the query verbatim and returns to the first page.
// Trimming happens at filter time, not here.
func (c *ViewController) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	c.state.PageIndex = 0
}

// ClearQuery removes the filter and returns to the first page.
func (c *ViewController) ClearQuery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = ""
	c.state.PageIndex = 0
}

// SetPageIndex moves to the given 0-based page. Negative values floor to 0.
// No upper clamp: a page beyond the current projection renders empty rather
// than failing, since the projection can shrink underneath any stored index.
func (c *ViewController) SetPageIndex(pageIndex int) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PageIndex = pageIndex
}

// SetPageSize changes the rows-per-page setting and returns to the first
// page so the window stays within range. Only the offered sizes are
// accepted.
func (c *ViewController) SetPageSize(pageSize int) error {
	if !view.ValidPageSize(pageSize) {
		return apperrors.Validationf("page size must be one of %v", view.PageSizes)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PageSize = pageSize
	c.state.PageIndex = 0
	return nil
}

// Project filters and paginates records under the current state.
func (c *ViewController) Project(records []dataset.Record) view.Page {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	projection := view.ComputeProjection(records, state.Query)
	return view.Paginate(projection, state.PageIndex, state.PageSize)
}

// ViewRegistry hands out the per-session view controller. View state lives
// only as long as the process and the session; neither survives a restart.
type ViewRegistry struct {
	mu          sync.Mutex
	controllers map[string]*ViewController
}

// NewViewRegistry constructs an empty registry.
func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{controllers: make(map[string]*ViewController)}
}

// For returns the controller for sessionID, creating one with default state
// on first use.
func (r *ViewRegistry) For(sessionID string) *ViewController {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctrl, ok := r.controllers[sessionID]
	if !ok {
		ctrl = NewViewController()
		r.controllers[sessionID] = ctrl
	}
	return ctrl
}

// Drop discards the controller for sessionID. Called on logout; dropping an
// unknown session is a no-op.
func (r *ViewRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, sessionID)
}
