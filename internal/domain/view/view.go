package view

// Package view holds the pure filter and pagination algorithms shared by
// both dataset views. State mutation rules live in the view-state
// controller in internal/service.

import (
	"strings"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
)

// PageSizes are the page sizes the dashboard offers.
var PageSizes = []int{10, 20, 50}

// DefaultPageSize is the initial rows-per-page setting.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of the offered page sizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// State is the view state shared by both dataset views. PageIndex is
// 0-based. Query is stored verbatim; trimming happens only at
// filter-evaluation time.
type State struct {
	Mode      dataset.Mode `json:"mode"`
	Query     string       `json:"query"`
	PageIndex int          `json:"page_index"`
	PageSize  int          `json:"page_size"`
}

// DefaultState returns the state a fresh dashboard session starts with.
func DefaultState() State {
	return State{Mode: dataset.ModeProfiles, PageSize: DefaultPageSize}
}

// Projection is the filtered view of a dataset, order preserved. It is
// derived, never stored.
type Projection struct {
	Items      []dataset.Record
	TotalCount int
}

// ComputeProjection retains every record with at least one field value
// containing the trimmed query as a case-insensitive substring. An empty or
// all-whitespace query projects the full dataset. The filter is stable:
// matches keep their original relative order, and no ranking is applied.
func ComputeProjection(records []dataset.Record, query string) Projection {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return Projection{Items: records, TotalCount: len(records)}
	}

	matched := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if rec.Matches(term) {
			matched = append(matched, rec)
		}
	}
	return Projection{Items: matched, TotalCount: len(matched)}
}

// Page is one visible slice of a projection plus its pagination metadata.
// StartIndex/EndIndex are 1-based ("Showing 11 to 20 of 150"); both are 0
// when the slice is empty.
type Page struct {
	Items      []dataset.Record `json:"items"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
	PageIndex  int              `json:"page_index"`
	PageSize   int              `json:"page_size"`
	StartIndex int              `json:"start_index"`
	EndIndex   int              `json:"end_index"`
	HasPrev    bool             `json:"has_prev"`
	HasNext    bool             `json:"has_next"`
}

// Paginate slices the projection for pageIndex/pageSize. An empty projection
// still reports exactly one page (the empty page), so the UI never shows
// "page 1 of 0". A pageIndex beyond the available range yields an empty
// slice rather than an error; clamping proactively is the caller's concern.
func Paginate(p Projection, pageIndex, pageSize int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageIndex < 0 {
		pageIndex = 0
	}

	totalPages := (p.TotalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if start > p.TotalCount {
		start = p.TotalCount
	}
	if end > p.TotalCount {
		end = p.TotalCount
	}

	page := Page{
		Items:      p.Items[start:end],
		TotalCount: p.TotalCount,
		TotalPages: totalPages,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		HasPrev:    pageIndex > 0,
		HasNext:    pageIndex < totalPages-1,
	}
	if len(page.Items) > 0 {
		page.StartIndex = pageIndex*pageSize + 1
		page.EndIndex = pageIndex*pageSize + len(page.Items)
	}
	return page
}
