// Package search compiles user-supplied patterns into reusable matchers and
// filters transaction snapshots with them. Pattern syntax is untrusted: a
// failed compile never propagates past this boundary as anything but
// core.ErrInvalidPattern. Go's regexp engine is RE2, so a compiled matcher
// runs in linear time regardless of the pattern.
package search

import (
	"regexp"
	"strings"

	"fintrack/internal/core"
)

// Matcher is a compiled, reusable pattern. A nil *Matcher means "no filter".
type Matcher struct {
	re *regexp.Regexp
}

// Compile builds a matcher from a user pattern. An empty (or all-whitespace)
// pattern returns (nil, nil): no filter. A syntactically invalid pattern
// returns (nil, core.ErrInvalidPattern) so callers can surface the failure
// distinctly from the empty case.
func Compile(pattern string, caseSensitive bool) (*Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}

	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, core.ErrInvalidPattern
	}
	return &Matcher{re: re}, nil
}

// Matches reports whether the matcher succeeds against the transaction's
// description, category, or two-decimal amount string.
func (m *Matcher) Matches(t core.Transaction) bool {
	return m.re.MatchString(t.Description) ||
		m.re.MatchString(t.Category) ||
		m.re.MatchString(t.Amount.String())
}

// Filter returns the subsequence of txs the matcher succeeds on, preserving
// input order. A nil matcher returns the input unchanged.
func Filter(txs []core.Transaction, m *Matcher) []core.Transaction {
	if m == nil {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if m.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Highlight wraps every non-overlapping match in text with <mark> markers.
// A nil matcher returns text unchanged.
func Highlight(text string, m *Matcher) string {
	if m == nil {
		return text
	}
	return m.re.ReplaceAllStringFunc(text, func(match string) string {
		return "<mark>" + match + "</mark>"
	})
}
