package pagination

import (
	"errors"
	"fmt"
)

// ErrPageOutOfRange is returned by GoTo for pages that do not exist
var ErrPageOutOfRange = errors.New("page out of range")

// State tracks which page of a record list is being shown
//
// Invariant: after any method call CurrentPage is within
// [1, max(1, TotalPages())].
type State struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
}

// NewState creates a state for an empty list
// A non-positive pageSize falls back to ItemsPerPage
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = ItemsPerPage
	}
	return State{CurrentPage: 1, ItemsPerPage: pageSize}
}

// TotalPages returns the number of pages for the current item count
func (s *State) TotalPages() int {
	return TotalPages(s.TotalItems, s.pageSize())
}

// Reset is used when a new query replaces the list: back to page 1
func (s *State) Reset(totalItems int) {
	s.TotalItems = max(0, totalItems)
	s.CurrentPage = 1
}

// SetTotal updates the item count after deletions and clamps the current page
// to the new last page
func (s *State) SetTotal(totalItems int) {
	s.TotalItems = max(0, totalItems)
	s.clamp()
}

// GoTo selects a page explicitly
// Returns an error when the page does not exist; the state is left unchanged.
func (s *State) GoTo(page int) error {
	totalPages := s.TotalPages()
	if page < 1 || page > max(1, totalPages) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrPageOutOfRange, page, max(1, totalPages))
	}
	s.CurrentPage = page
	return nil
}

// Offset returns the index of the first item on the current page
func (s *State) Offset() int {
	return (s.CurrentPage - 1) * s.pageSize()
}

func (s *State) clamp() {
	totalPages := s.TotalPages()
	if s.CurrentPage > totalPages {
		s.CurrentPage = max(1, totalPages)
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
}

func (s *State) pageSize() int {
	if s.ItemsPerPage <= 0 {
		return ItemsPerPage
	}
	return s.ItemsPerPage
}
