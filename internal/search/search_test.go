package search

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Description: "Food run", Category: "Groceries", Amount: core.Money{Cents: 1250}},
		{ID: "2", Description: "Bus ticket", Category: "Transport", Amount: core.Money{Cents: 275}},
		{ID: "3", Description: "Dinner", Category: "Food", Amount: core.Money{Cents: 4200}},
	}
}

func TestCompileEmptyPattern(t *testing.T) {
	for _, p := range []string{"", "   "} {
		m, err := Compile(p, false)
		if m != nil || err != nil {
			t.Fatalf("Compile(%q) = %v, %v; want nil, nil", p, m, err)
		}
	}
}

func TestCompileInvalidPattern(t *testing.T) {
	m, err := Compile("[", false)
	if m != nil {
		t.Fatalf("expected nil matcher for invalid pattern")
	}
	if !errors.Is(err, core.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	m, err := Compile("foo", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := Filter(sample(), m)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("expected transactions 1 and 3 in order, got %+v", got)
	}
}

func TestFilterCaseSensitive(t *testing.T) {
	m, err := Compile("foo", true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := Filter(sample(), m); len(got) != 0 {
		t.Fatalf("case-sensitive 'foo' should match nothing, got %+v", got)
	}
}

func TestFilterMatchesAmountString(t *testing.T) {
	m, err := Compile(`12\.50`, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := Filter(sample(), m)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected amount match on transaction 1, got %+v", got)
	}
}

func TestFilterNilMatcherReturnsInput(t *testing.T) {
	txs := sample()
	got := Filter(txs, nil)
	if len(got) != len(txs) {
		t.Fatalf("nil matcher must return input unchanged")
	}
}

func TestHighlight(t *testing.T) {
	m, err := Compile("o", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := Highlight("Food out", m)
	want := "F<mark>o</mark><mark>o</mark>d <mark>o</mark>ut"
	if got != want {
		t.Fatalf("Highlight = %q, want %q", got, want)
	}

	if got := Highlight("Food out", nil); got != "Food out" {
		t.Fatalf("nil matcher must return text unchanged, got %q", got)
	}
}
