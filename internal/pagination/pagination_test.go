package pagination

import (
	"reflect"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// TestVisiblePage tests slicing of the record list
func TestVisiblePage(t *testing.T) {
	items := seq(25)

	tests := []struct {
		name     string
		page     int
		pageSize int
		expected []int
	}{
		{"first page", 1, 10, items[0:10]},
		{"last partial page", 3, 10, items[20:25]},
		{"out of range", 4, 10, []int{}},
		{"zero page", 0, 10, []int{}},
		{"negative page", -1, 10, []int{}},
		{"zero page size", 1, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisiblePage(items, tt.page, tt.pageSize)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// TestVisiblePage_Empty tests an empty list
func TestVisiblePage_Empty(t *testing.T) {
	got := VisiblePage([]string(nil), 1, 10)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

// labels flattens buttons into their labels for compact assertions
func labels(buttons []PageButton) []string {
	out := make([]string, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, b.Label)
	}
	return out
}

// TestPageButtons tests the selector window and ellipsis placement
func TestPageButtons(t *testing.T) {
	tests := []struct {
		name        string
		totalItems  int
		currentPage int
		expected    []string
	}{
		{"empty", 0, 1, []string{}},
		{"single page", 5, 1, []string{"1"}},
		{"three pages", 30, 2, []string{"1", "2", "3"}},
		{"first of ten", 100, 1, []string{"1", "2", "3", "4", "5", "...", "10"}},
		{"third of ten", 100, 3, []string{"1", "2", "3", "4", "5", "...", "10"}},
		{"fourth of ten", 100, 4, []string{"1", "2", "3", "4", "5", "6", "...", "10"}},
		{"middle of ten", 100, 6, []string{"1", "...", "4", "5", "6", "7", "8", "...", "10"}},
		{"eighth of ten", 100, 8, []string{"1", "...", "6", "7", "8", "9", "10"}},
		{"last of ten", 100, 10, []string{"1", "...", "6", "7", "8", "9", "10"}},
		{"six pages at four", 60, 4, []string{"1", "2", "3", "4", "5", "6"}},
		{"seven pages at four", 70, 4, []string{"1", "2", "3", "4", "5", "6", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(PageButtons(tt.totalItems, tt.currentPage, ItemsPerPage, WindowSize))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// TestPageButtons_ActiveAndEllipsis tests button flags
func TestPageButtons_ActiveAndEllipsis(t *testing.T) {
	buttons := PageButtons(100, 1, 10, 5)

	if !buttons[0].Active || buttons[0].Page != 1 {
		t.Errorf("expected page 1 to be active, got %+v", buttons[0])
	}
	for _, b := range buttons[1:] {
		if b.Active {
			t.Errorf("expected only page 1 active, got %+v", b)
		}
	}

	gap := buttons[5]
	if !gap.Ellipsis || gap.Page != EllipsisPage {
		t.Errorf("expected ellipsis entry with page %d, got %+v", EllipsisPage, gap)
	}

	last := buttons[len(buttons)-1]
	if last.Page != 10 || last.Ellipsis {
		t.Errorf("expected last page 10, got %+v", last)
	}
}

// TestPageButtons_WindowSizes tests that the window never exceeds windowSize pages
func TestPageButtons_WindowSizes(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		windowSize  int
		expected    []string
	}{
		{"even window in the middle", 5, 4, []string{"1", "...", "4", "5", "6", "7", "...", "10"}},
		{"even window at the start", 1, 4, []string{"1", "2", "3", "4", "...", "10"}},
		{"even window at the end", 10, 4, []string{"1", "...", "7", "8", "9", "10"}},
		{"window of two", 6, 2, []string{"1", "...", "6", "7", "...", "10"}},
		{"window of one", 5, 1, []string{"1", "...", "5", "...", "10"}},
		{"window wider than the list", 3, 20, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buttons := PageButtons(100, tt.currentPage, 10, tt.windowSize)
			got := labels(buttons)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// TestPageButtons_DefaultWindow tests that a non-positive window falls back to WindowSize
func TestPageButtons_DefaultWindow(t *testing.T) {
	got := labels(PageButtons(100, 1, 10, 0))
	expected := []string{"1", "2", "3", "4", "5", "...", "10"}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

// TestTotalPages tests ceiling division
func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.expected {
			t.Errorf("TotalPages(%d, %d) = %d, expected %d", tt.total, tt.size, got, tt.expected)
		}
	}
}
