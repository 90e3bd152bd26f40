package core

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Transaction is the sole persisted entity: one recorded spending event.
// The JSON field names are the persistence format and must not change.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Category    string    `json:"category"`
	Date        Date      `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrDuplicateID     = errors.New("duplicate transaction id")
	ErrNotFound        = errors.New("transaction not found")
	ErrBudgetExceeded  = errors.New("budget exceeded")
	ErrInvalidPattern  = errors.New("invalid search pattern")
	ErrMalformedImport = errors.New("malformed import document")
)

// FieldError is a per-field validation rejection. It names the offending
// field so callers can surface the error next to the right input.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// NewFieldError builds a FieldError for the given field.
func NewFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// NormalizeCategory converts a category to its stored form: first letter
// uppercase, remainder lowercase. Normalization happens once, at write time.
func NormalizeCategory(cat string) string {
	if cat == "" {
		return cat
	}
	runes := []rune(strings.ToLower(cat))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
