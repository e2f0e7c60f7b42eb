// Package view derives the visible page of builds from a snapshot and the operator's view controls.
package view

import (
	"fmt"
	"strings"

	"github.com/bnema/buildsel/internal/domain/entity"
)

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 50

// StatusFilter restricts the view by patch status.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterPatched StatusFilter = "patched"
	FilterPending StatusFilter = "pending"
)

// ParseStatusFilter converts user input into a StatusFilter.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPatched:
		return FilterPatched, nil
	case FilterPending:
		return FilterPending, nil
	default:
		return FilterAll, fmt.Errorf("unknown status filter %q (want all, patched or pending)", s)
	}
}

// Next cycles all -> patched -> pending -> all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case FilterAll:
		return FilterPatched
	case FilterPatched:
		return FilterPending
	default:
		return FilterAll
	}
}

// Matches reports whether the build passes the status predicate.
func (f StatusFilter) Matches(b entity.Build) bool {
	switch f {
	case FilterPatched:
		return b.IsPatched
	case FilterPending:
		return !b.IsPatched
	default:
		return true
	}
}

// State holds the operator's view controls.
type State struct {
	Search string
	Filter StatusFilter
	Page   int
}

// DefaultState returns the startup view: no search, all builds, first page.
func DefaultState() State {
	return State{Filter: FilterAll, Page: 1}
}

// Page is the derived view for one render.
type Page struct {
	// Filtered holds every record matching both predicates, in snapshot order.
	Filtered []entity.Build
	// Rows holds the records of the current page.
	Rows       []entity.Build
	Number     int
	TotalPages int
}

// Empty reports whether there is nothing to show on this page.
func (p Page) Empty() bool {
	return len(p.Rows) == 0
}

// Derive filters the snapshot and cuts out the requested page.
// It performs no I/O and never mutates its inputs.
func Derive(snapshot []entity.Build, st State, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := make([]entity.Build, 0, len(snapshot))
	for _, b := range snapshot {
		if !b.MatchesSearch(st.Search) || !st.Filter.Matches(b) {
			continue
		}
		filtered = append(filtered, b)
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize

	number := st.Page
	if number < 1 {
		number = 1
	}

	page := Page{
		Filtered:   filtered,
		Number:     number,
		TotalPages: totalPages,
	}

	start := (number - 1) * pageSize
	if start >= len(filtered) {
		page.Rows = []entity.Build{}
		return page
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Rows = filtered[start:end]
	return page
}
