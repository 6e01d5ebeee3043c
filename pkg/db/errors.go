package db

import "strings"

// IsUniqueViolation reports whether err stems from a unique constraint.
// With a constraintName the check narrows to that constraint; otherwise any
// duplicate-key failure matches. The sqlite phrasing is recognized too so the
// dev driver behaves like postgres here.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
