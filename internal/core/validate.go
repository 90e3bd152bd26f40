package core

import "regexp"

// Field validators are pure predicates over raw input strings. They have no
// side effects and no access to the store; callers decide which field to
// report when one rejects.
var (
	// At least one character, no leading or trailing whitespace.
	descriptionRe = regexp.MustCompile(`^\S(?:.*\S)?$`)

	// Non-negative integer or decimal with 1-2 fractional digits. No sign,
	// no scientific notation, no leading zeros.
	amountRe = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.[0-9]{1,2})?$`)

	// YYYY-MM-DD with month 01-12 and a generic 01-31 day. Per-month day
	// counts and leap years are deliberately not checked.
	dateRe = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

	// Alphabetic words separated by single spaces or hyphens.
	categoryRe = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)
)

// ValidDescription accepts non-empty descriptions without surrounding
// whitespace.
func ValidDescription(s string) bool {
	return descriptionRe.MatchString(s)
}

// ValidAmount accepts non-negative amounts with at most two decimals.
func ValidAmount(s string) bool {
	return amountRe.MatchString(s)
}

// ValidDate accepts YYYY-MM-DD calendar dates.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// ValidCategory accepts one or more alphabetic words separated by single
// spaces or hyphens.
func ValidCategory(s string) bool {
	return categoryRe.MatchString(s)
}
