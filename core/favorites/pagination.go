package favorites

import (
	"errors"
	"fmt"
)

// AllItems is the sentinel page size meaning "no paging, fetch everything".
// Any limit above allItemsThreshold is treated the same way.
const AllItems = 9999

const allItemsThreshold = 1000

// Page size bounds for regular (non-sentinel) paging.
const (
	MinPageSize = 20
	MaxPageSize = 100
)

// Sort keys accepted by the favorites listing. SortDefault keeps the
// vendor's own order (most recently added first).
const (
	SortDefault    = "default"
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortArtistAsc  = "artist-asc"
	SortArtistDesc = "artist-desc"
)

var (
	// ErrPageOutOfRange is returned when a page outside [1, totalPages]
	// is requested. The check happens before any network call.
	ErrPageOutOfRange = errors.New("requested page is out of range")

	// ErrLoadInFlight is returned when a load starts while another one
	// has not finished yet.
	ErrLoadInFlight = errors.New("a page load is already in flight")

	// ErrInvalidSort is returned for an unknown sort key.
	ErrInvalidSort = errors.New("invalid sort key")
)

// ValidSort reports whether s is an accepted sort key.
func ValidSort(s string) bool {
	switch s {
	case SortDefault, SortNameAsc, SortNameDesc, SortArtistAsc, SortArtistDesc:
		return true
	}
	return false
}

// ClampPageSize normalizes a requested page size: anything above the
// fetch-all threshold collapses to the AllItems sentinel, everything else
// is clamped into [MinPageSize, MaxPageSize].
func ClampPageSize(limit int) int {
	if limit > allItemsThreshold {
		return AllItems
	}
	if limit < MinPageSize {
		return MinPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Pagination holds the favorites paging state. After any successful load
// the invariant 1 <= CurrentPage <= TotalPages holds; the server-reported
// values are authoritative and replace local guesses wholesale.
type Pagination struct {
	CurrentPage  int `json:"page"`
	ItemsPerPage int `json:"limit"`
	TotalItems   int `json:"total"`
	TotalPages   int `json:"total_pages"`
}

// NewPagination returns the initial paging state before the first load.
func NewPagination(itemsPerPage int) Pagination {
	return Pagination{
		CurrentPage:  1,
		ItemsPerPage: ClampPageSize(itemsPerPage),
		TotalItems:   0,
		TotalPages:   1,
	}
}

// AllMode reports whether paging is disabled via the sentinel.
func (p Pagination) AllMode() bool {
	return p.ItemsPerPage == AllItems
}

// CheckPage validates a requested page number against the currently known
// total. It does not consult the server; a stale total can admit a page
// the server will later report differently, and the server wins then.
func (p Pagination) CheckPage(page int) error {
	if page < 1 || page > p.TotalPages {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, p.TotalPages)
	}
	return nil
}

// TotalPagesFor derives the page count for a total and page size. The
// result is never below 1 so an empty library still has one (empty) page.
func TotalPagesFor(totalItems, itemsPerPage int) int {
	if itemsPerPage == AllItems || itemsPerPage < 1 {
		return 1
	}
	pages := (totalItems + itemsPerPage - 1) / itemsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}
