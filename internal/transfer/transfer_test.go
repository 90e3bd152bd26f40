package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(kv.NewMemory())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func seed(t *testing.T, s *store.Store, id string) {
	t.Helper()
	date, _ := core.ParseDate("2024-01-15")
	now := time.Now().UTC()
	err := s.Add(context.Background(), core.Transaction{
		ID:          id,
		Description: "Existing",
		Amount:      core.Money{Cents: 500},
		Category:    "Misc",
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestImportMergesNewEntries(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, "existing")

	doc := `[{"id":"x","description":"A","amount":1,"category":"b","date":"2024-01-01"}]`

	added, err := Import(ctx, s, []byte(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 1 || s.Count() != 2 {
		t.Fatalf("added=%d count=%d, want 1 and 2", added, s.Count())
	}

	got, err := s.FindByID("x")
	if err != nil {
		t.Fatalf("imported entry missing: %v", err)
	}
	if got.Category != "B" {
		t.Fatalf("import must normalize category, got %q", got.Category)
	}
	if got.Amount.Cents != 100 {
		t.Fatalf("amount = %d cents, want 100", got.Amount.Cents)
	}

	// Idempotent: re-importing the same document changes nothing.
	added, err = Import(ctx, s, []byte(doc))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if added != 0 || s.Count() != 2 {
		t.Fatalf("re-import added=%d count=%d, want 0 and 2", added, s.Count())
	}
}

func TestImportNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, "existing")

	doc := `[{"id":"existing","description":"Clobber","amount":9,"category":"Evil","date":"2024-01-01"}]`
	if _, err := Import(ctx, s, []byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, _ := s.FindByID("existing")
	if got.Description != "Existing" {
		t.Fatalf("import overwrote existing entry: %+v", got)
	}
}

func TestImportRejectsMalformedDocuments(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"id":"x"}`},
		{"not json", `hello`},
		{"missing amount", `[{"id":"x","description":"A","category":"B","date":"2024-01-01"}]`},
		{"missing id", `[{"description":"A","amount":1,"category":"B","date":"2024-01-01"}]`},
		{"bad date", `[{"id":"x","description":"A","amount":1,"category":"B","date":"01-01-2024"}]`},
		{"bad amount", `[{"id":"x","description":"A","amount":1.234,"category":"B","date":"2024-01-01"}]`},
		{"bad category", `[{"id":"x","description":"A","amount":1,"category":"B2B","date":"2024-01-01"}]`},
		{"one bad among good", `[
			{"id":"a","description":"A","amount":1,"category":"B","date":"2024-01-01"},
			{"id":"b","description":"  ","amount":1,"category":"B","date":"2024-01-01"}
		]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			seed(t, s, "existing")

			_, err := Import(ctx, s, []byte(tc.doc))
			if !errors.Is(err, core.ErrMalformedImport) {
				t.Fatalf("expected ErrMalformedImport, got %v", err)
			}
			// The whole import aborts; the store is untouched.
			if s.Count() != 1 {
				t.Fatalf("malformed import mutated store, count=%d", s.Count())
			}
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, "txn_1")

	out, err := Export(s.List())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(string(out), "[\n") {
		t.Fatalf("export should be pretty-printed, got %q", out)
	}

	var shape []map[string]any
	if err := json.Unmarshal(out, &shape); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, field := range []string{"id", "description", "amount", "category", "date", "createdAt", "updatedAt"} {
		if _, ok := shape[0][field]; !ok {
			t.Fatalf("export missing field %q", field)
		}
	}

	// An export imports cleanly into an empty store.
	s2 := newStore(t)
	added, err := Import(ctx, s2, out)
	if err != nil {
		t.Fatalf("import of export: %v", err)
	}
	if added != 1 || s2.Count() != 1 {
		t.Fatalf("round trip added=%d count=%d", added, s2.Count())
	}
}
