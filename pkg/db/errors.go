package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. Postgres names the violated constraint in its message;
// sqlite names the columns instead, so when the constraint name is absent the
// helper falls back to the generic duplicate-key markers of both drivers.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
