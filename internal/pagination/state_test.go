package pagination

import (
	"errors"
	"testing"
)

// TestState_ResetGoesToFirstPage tests that a new query starts on page 1
func TestState_ResetGoesToFirstPage(t *testing.T) {
	s := NewState(10)
	s.Reset(100)
	if err := s.GoTo(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Reset(40)

	if s.CurrentPage != 1 {
		t.Errorf("expected page 1 after reset, got %d", s.CurrentPage)
	}
	if s.TotalItems != 40 {
		t.Errorf("expected 40 items, got %d", s.TotalItems)
	}
}

// TestState_SetTotalClamps tests clamping after deletions
func TestState_SetTotalClamps(t *testing.T) {
	tests := []struct {
		name         string
		pageSize     int
		total        int
		page         int
		newTotal     int
		expectedPage int
	}{
		{"last item of last page removed", 5, 6, 2, 5, 1},
		{"eleven items on third page", 5, 11, 3, 10, 2},
		{"page still exists", 5, 11, 2, 10, 2},
		{"everything removed", 10, 3, 1, 0, 1},
		{"first page untouched", 10, 25, 1, 24, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(tt.pageSize)
			s.Reset(tt.total)
			if err := s.GoTo(tt.page); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s.SetTotal(tt.newTotal)

			if s.CurrentPage != tt.expectedPage {
				t.Errorf("expected page %d, got %d", tt.expectedPage, s.CurrentPage)
			}
		})
	}
}

// TestState_GoTo tests explicit page selection
func TestState_GoTo(t *testing.T) {
	s := NewState(10)
	s.Reset(25)

	if err := s.GoTo(3); err != nil {
		t.Errorf("expected page 3 to exist: %v", err)
	}
	if s.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", s.Offset())
	}

	if err := s.GoTo(4); !errors.Is(err, ErrPageOutOfRange) {
		t.Error("expected error for page 4 of 3")
	}
	if err := s.GoTo(0); err == nil {
		t.Error("expected error for page 0")
	}
	if err := s.GoTo(-1); err == nil {
		t.Error("expected error for a negative page")
	}
	if s.CurrentPage != 3 {
		t.Errorf("expected failed GoTo to keep page 3, got %d", s.CurrentPage)
	}
}

// TestState_EmptyListStaysOnFirstPage tests page 1 of an empty list
func TestState_EmptyListStaysOnFirstPage(t *testing.T) {
	s := NewState(0)

	if s.ItemsPerPage != ItemsPerPage {
		t.Errorf("expected default page size %d, got %d", ItemsPerPage, s.ItemsPerPage)
	}
	if err := s.GoTo(1); err != nil {
		t.Errorf("expected page 1 to be selectable on an empty list: %v", err)
	}
	if s.TotalPages() != 0 {
		t.Errorf("expected 0 pages, got %d", s.TotalPages())
	}
}
