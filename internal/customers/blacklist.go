package customers

// Adjust applies a blacklist delta to the current score. A zero delta resets
// the score outright; otherwise the result is clamped at zero. The reset
// behavior is load-bearing for clients that send delta 0 to clear a record.
func Adjust(current, delta int) int {
	if delta == 0 {
		return 0
	}
	next := current + delta
	if next < 0 {
		return 0
	}
	return next
}
