// Package pagination computes the visible slice of a record list and the
// page selector shown under it.
package pagination

import "strconv"

const (
	// ItemsPerPage is the fixed page size of the console table
	ItemsPerPage = 10

	// WindowSize is how many consecutive page numbers the selector shows
	WindowSize = 5

	// EllipsisPage is the page number carried by non-clickable "..." entries
	EllipsisPage = -1
)

// PageButton is one entry of the page selector
type PageButton struct {
	Label    string `json:"label"`
	Page     int    `json:"page"`
	Ellipsis bool   `json:"ellipsis"`
	Active   bool   `json:"active"`
}

// TotalPages returns ceil(totalItems / pageSize), 0 for an empty list
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// VisiblePage returns items[(page-1)*pageSize : page*pageSize], clipped to bounds
// An out of range page yields an empty slice, never a panic.
func VisiblePage[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return []T{}
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageButtons builds the page selector for the current page
//
// The selector always shows the first and the last page, plus a window of up
// to windowSize pages around currentPage. The window is shifted at the edges
// so it stays full, and gaps are marked with ellipsis entries:
//
//	total=10, current=1 -> 1 2 3 4 5 ... 10
//	total=10, current=6 -> 1 ... 4 5 6 7 8 ... 10
//	total=10, current=9 -> 1 ... 6 7 8 9 10
func PageButtons(totalItems, currentPage, pageSize, windowSize int) []PageButton {
	totalPages := TotalPages(totalItems, pageSize)
	if totalPages == 0 {
		return []PageButton{}
	}
	if windowSize < 1 {
		windowSize = WindowSize
	}

	// The current page sits in the middle, or left of middle for even windows
	startPage := currentPage - (windowSize-1)/2
	endPage := startPage + windowSize - 1
	if startPage < 1 {
		startPage = 1
		endPage = windowSize
	}
	if endPage > totalPages {
		endPage = totalPages
		startPage = max(1, totalPages-windowSize+1)
	}

	buttons := make([]PageButton, 0, windowSize+4)
	add := func(page int) {
		buttons = append(buttons, PageButton{
			Label:  strconv.Itoa(page),
			Page:   page,
			Active: page == currentPage,
		})
	}
	gap := func() {
		buttons = append(buttons, PageButton{Label: "...", Page: EllipsisPage, Ellipsis: true})
	}

	if startPage > 1 {
		add(1)
	}
	if startPage > 2 {
		gap()
	}
	for page := startPage; page <= endPage; page++ {
		add(page)
	}
	if endPage < totalPages-1 {
		gap()
	}
	if endPage < totalPages {
		add(totalPages)
	}

	return buttons
}
