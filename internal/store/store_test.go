package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backend := kv.NewMemory()
	s := New(backend)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s, backend
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func sampleTx(id, desc string, cents int64, cat, date string, t *testing.T) core.Transaction {
	now := time.Now().UTC()
	return core.Transaction{
		ID:          id,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Date:        mustDate(t, date),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestAddListRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	before := s.List()

	tx := sampleTx("txn_1", "Lunch", 1250, "Food", "2024-03-01", t)
	if err := s.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := s.List(); len(got) != 1 || got[0].ID != "txn_1" {
		t.Fatalf("list after add = %+v", got)
	}

	if err := s.Remove(ctx, "txn_1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.List(); len(got) != len(before) {
		t.Fatalf("add then remove must restore prior state, got %+v", got)
	}

	// Removing an absent id is a silent no-op.
	if err := s.Remove(ctx, "txn_1"); err != nil {
		t.Fatalf("idempotent remove returned error: %v", err)
	}
}

func TestAddDuplicateID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	tx := sampleTx("txn_1", "Lunch", 1250, "Food", "2024-03-01", t)
	if err := s.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := s.Add(ctx, tx)
	if !errors.Is(err, core.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("duplicate add must not grow the collection")
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	tx := sampleTx("txn_1", "Lunch", 1250, "Food", "2024-03-01", t)
	if err := s.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}

	desc := "Late lunch"
	amount := core.Money{Cents: 1400}
	got, err := s.Update(ctx, "txn_1", Patch{Description: &desc, Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got.ID != tx.ID || !got.CreatedAt.Equal(tx.CreatedAt) {
		t.Fatalf("update must preserve id and createdAt: %+v", got)
	}
	if got.UpdatedAt.Equal(tx.UpdatedAt) || got.UpdatedAt.Before(tx.UpdatedAt) {
		t.Fatalf("update must refresh updatedAt")
	}
	if got.Description != desc || got.Amount.Cents != 1400 {
		t.Fatalf("patch fields not applied: %+v", got)
	}
	if got.Category != "Food" {
		t.Fatalf("unpatched field changed: %+v", got)
	}

	listed := s.List()
	if listed[0].Description != desc {
		t.Fatalf("update not reflected in list: %+v", listed[0])
	}

	_, err = s.Update(ctx, "missing", Patch{})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	txs := []core.Transaction{
		sampleTx("txn_2", "Dinner", 4200, "Food", "2024-03-02", t),
		sampleTx("txn_1", "Bus", 275, "Transport", "2024-03-01", t),
	}
	for _, tx := range txs {
		if err := s.Add(ctx, tx); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// A second store over the same backend sees the same collection,
	// insertion order included.
	s2 := New(backend)
	if err := s2.Init(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := s2.List()
	if len(got) != 2 || got[0].ID != "txn_2" || got[1].ID != "txn_1" {
		t.Fatalf("reload mismatch: %+v", got)
	}
	if got[0].Amount.Cents != 4200 || got[0].Date.String() != "2024-03-02" {
		t.Fatalf("reload lost fields: %+v", got[0])
	}
}

func TestSortBy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, tx := range []core.Transaction{
		sampleTx("txn_1", "banana", 300, "Food", "2024-03-05", t),
		sampleTx("txn_2", "Apple", 100, "Food", "2024-03-01", t),
		sampleTx("txn_3", "cherry", 200, "Food", "2024-03-03", t),
	} {
		if err := s.Add(ctx, tx); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := s.SortBy(SortByAmount, Ascending); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got := s.List()
	if got[0].ID != "txn_2" || got[1].ID != "txn_3" || got[2].ID != "txn_1" {
		t.Fatalf("amount asc order wrong: %+v", got)
	}

	if err := s.SortBy(SortByDate, Descending); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got = s.List()
	if got[0].ID != "txn_1" || got[2].ID != "txn_2" {
		t.Fatalf("date desc order wrong: %+v", got)
	}

	// Collation-aware: "Apple" < "banana" < "cherry" regardless of case.
	if err := s.SortBy(SortByDescription, Ascending); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got = s.List()
	if got[0].Description != "Apple" || got[1].Description != "banana" || got[2].Description != "cherry" {
		t.Fatalf("description order wrong: %+v", got)
	}

	if err := s.SortBy("bogus", Ascending); err == nil {
		t.Fatalf("expected error for unknown sort key")
	}
	if err := s.SortBy(SortByDate, "sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := s.GenerateID()
		if seen[id] {
			t.Fatalf("GenerateID produced duplicate %s", id)
		}
		seen[id] = true
		if err := s.Add(ctx, sampleTx(id, "x", 1, "Misc", "2024-01-01", t)); err != nil {
			t.Fatalf("add generated id: %v", err)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if err := s.Add(ctx, sampleTx("txn_1", "Lunch", 1250, "Food", "2024-03-01", t)); err != nil {
		t.Fatalf("add: %v", err)
	}

	incoming := []core.Transaction{
		sampleTx("txn_1", "Duplicate", 999, "Food", "2024-03-01", t),
		sampleTx("x", "A", 100, "B", "2024-01-01", t),
	}

	added, err := s.Merge(ctx, incoming)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if added != 1 || s.Count() != 2 {
		t.Fatalf("merge added %d, count %d; want 1 and 2", added, s.Count())
	}

	// Existing entries are never overwritten.
	existing, err := s.FindByID("txn_1")
	if err != nil || existing.Description != "Lunch" {
		t.Fatalf("merge overwrote existing entry: %+v (%v)", existing, err)
	}

	// Re-merging the same document is a no-op.
	added, err = s.Merge(ctx, incoming)
	if err != nil {
		t.Fatalf("re-merge: %v", err)
	}
	if added != 0 || s.Count() != 2 {
		t.Fatalf("re-merge added %d, count %d; want 0 and 2", added, s.Count())
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, set, err := s.Budget(ctx); err != nil || set {
		t.Fatalf("budget should start unset (set=%v err=%v)", set, err)
	}

	if err := s.SetBudget(ctx, "20"); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	budget, set, err := s.Budget(ctx)
	if err != nil || !set || budget.Cents != 2000 {
		t.Fatalf("budget = %v set=%v err=%v, want 20.00", budget, set, err)
	}

	if err := s.SetBudget(ctx, "-5"); err == nil {
		t.Fatalf("expected error for invalid budget")
	}

	// Zero budget reads as unset.
	if err := s.SetBudget(ctx, "0"); err != nil {
		t.Fatalf("set zero budget: %v", err)
	}
	if _, set, _ := s.Budget(ctx); set {
		t.Fatalf("zero budget must read as unset")
	}
}
