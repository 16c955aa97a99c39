package orders

import (
	"testing"
	"time"
)

func TestDueDate(t *testing.T) {
	arrival := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	days := 7

	due, err := DueDate(&arrival, &days)
	if err != nil {
		t.Fatalf("due date: %v", err)
	}
	expected := time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC)
	if due == nil || !due.Equal(expected) {
		t.Fatalf("unexpected due date %v", due)
	}
}

func TestDueDateZeroWindow(t *testing.T) {
	arrival := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	days := 0

	due, err := DueDate(&arrival, &days)
	if err != nil {
		t.Fatalf("due date: %v", err)
	}
	if due == nil || !due.Equal(arrival) {
		t.Fatalf("zero window should yield the arrival date, got %v", due)
	}
}

func TestDueDateMissingInputs(t *testing.T) {
	arrival := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	days := 7

	due, err := DueDate(nil, &days)
	if err != nil || due != nil {
		t.Fatalf("nil arrival should yield nil, got %v %v", due, err)
	}

	due, err = DueDate(&arrival, nil)
	if err != nil || due != nil {
		t.Fatalf("nil due days should yield nil, got %v %v", due, err)
	}
}

func TestDueDateOutOfRange(t *testing.T) {
	arrival := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	for _, days := range []int{-1, 256} {
		days := days
		if _, err := DueDate(&arrival, &days); err == nil {
			t.Fatalf("expected error for %d due days", days)
		}
	}
}
