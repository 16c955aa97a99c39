package orders

import (
	"fmt"
	"time"
)

const (
	dueDaysMin = 0
	dueDaysMax = 255
)

// DueDate derives the pickup deadline from a product's arrival date and pickup
// window. Both inputs are optional; the deadline exists only once both are
// set. Out-of-range window values are reported rather than clamped so bad rows
// surface instead of shifting deadlines silently.
func DueDate(arrival *time.Time, dueDays *int) (*time.Time, error) {
	if arrival == nil || dueDays == nil {
		return nil, nil
	}
	if *dueDays < dueDaysMin || *dueDays > dueDaysMax {
		return nil, fmt.Errorf("due days %d out of range [%d,%d]", *dueDays, dueDaysMin, dueDaysMax)
	}
	due := arrival.AddDate(0, 0, *dueDays)
	return &due, nil
}
