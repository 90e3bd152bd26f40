package core

import (
	"testing"
	"time"
)

func tx(desc string, cents int64, cat string, date Date) Transaction {
	return Transaction{
		ID:          "txn_" + desc,
		Description: desc,
		Amount:      Money{Cents: cents},
		Category:    cat,
		Date:        date,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, Money{}, time.Now())
	if s.Count != 0 || s.TotalSpent.Cents != 0 || s.Last7Days.Cents != 0 {
		t.Fatalf("empty summary not zero: %+v", s)
	}
	if s.TopCategory != "none" {
		t.Fatalf("TopCategory = %q, want none", s.TopCategory)
	}
	if s.Budget.State != BudgetUnset {
		t.Fatalf("Budget.State = %q, want unset", s.Budget.State)
	}
}

func TestSummarizeWindowAndBudget(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)
	txs := []Transaction{
		tx("a", 1000, "Food", DateOf(now)),
		tx("b", 500, "Food", DateOf(now.AddDate(0, 0, -8))),
	}

	s := Summarize(txs, Money{Cents: 2000}, now)

	if s.Count != 2 {
		t.Fatalf("Count = %d, want 2", s.Count)
	}
	if s.TotalSpent.String() != "15.00" {
		t.Fatalf("TotalSpent = %s, want 15.00", s.TotalSpent)
	}
	if s.TopCategory != "Food" {
		t.Fatalf("TopCategory = %q, want Food", s.TopCategory)
	}
	if s.Last7Days.String() != "10.00" {
		t.Fatalf("Last7Days = %s, want 10.00 (8-day-old entry excluded)", s.Last7Days)
	}
	if s.Budget.State != BudgetRemaining || s.Budget.Amount.String() != "5.00" {
		t.Fatalf("Budget = %+v, want remaining 5.00", s.Budget)
	}
}

func TestSummarizeWindowIncludesLowerBound(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx("edge", 300, "Food", DateOf(now.AddDate(0, 0, -7))),
	}
	s := Summarize(txs, Money{}, now)
	if s.Last7Days.Cents != 300 {
		t.Fatalf("Last7Days = %d, want 300 (lower bound inclusive)", s.Last7Days.Cents)
	}
}

func TestSummarizeOverBudget(t *testing.T) {
	now := time.Now()
	txs := []Transaction{tx("a", 2500, "Rent", DateOf(now))}
	s := Summarize(txs, Money{Cents: 2000}, now)
	if s.Budget.State != BudgetOver || s.Budget.Amount.Cents != 500 {
		t.Fatalf("Budget = %+v, want over by 5.00", s.Budget)
	}
}

func TestSummarizeTopCategoryTieBreak(t *testing.T) {
	now := time.Now()
	today := DateOf(now)
	// Food reaches 5.00 across two entries; Travel hits 5.00 in one entry
	// that lands between them. First category to hold the max wins.
	txs := []Transaction{
		tx("a", 300, "Food", today),
		tx("b", 500, "Travel", today),
		tx("c", 200, "Food", today),
	}
	s := Summarize(txs, Money{}, now)
	if s.TopCategory != "Food" {
		t.Fatalf("TopCategory = %q, want Food (first-appearance tie-break)", s.TopCategory)
	}
}
