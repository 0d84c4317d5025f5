package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateName is returned when a write violates a unique name constraint.
	ErrDuplicateName = errors.New("store: duplicate name")
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// TranslateError covers drivers that support it; the message check covers the rest.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
