// Package store owns the canonical in-memory transaction collection and its
// persistence contract. Every mutation writes the whole collection back to
// the key-value store before returning, so the data is durable by the time
// the call completes. All reads hand out snapshots; nothing outside this
// package mutates the collection in place.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// Persistence keys. DataKey holds the JSON array of transactions, BudgetKey
// the raw budget string, matching the original storage layout.
const (
	DefaultDataKey   = "finance_tracker_data"
	DefaultBudgetKey = "budget"
)

// Store holds the live transaction collection. Operations run to completion
// one user action at a time; the mutex only guards against accidental
// concurrent use, it is not a throughput mechanism.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	dataKey   string
	budgetKey string
	coll      *collate.Collator
	txs       []core.Transaction
}

// New creates a Store over the given key-value backend with the default
// persistence keys.
func New(backend kv.Store) *Store {
	return NewWithKeys(backend, DefaultDataKey, DefaultBudgetKey)
}

// NewWithKeys creates a Store with custom persistence keys.
func NewWithKeys(backend kv.Store, dataKey, budgetKey string) *Store {
	return &Store{
		kv:        backend,
		dataKey:   dataKey,
		budgetKey: budgetKey,
		coll:      collate.New(language.Und, collate.Loose),
		txs:       []core.Transaction{},
	}
}

// Init loads the persisted collection into memory, replacing any prior
// in-memory state. An absent key means an empty collection. Called once at
// startup and again after a bulk import.
func (s *Store) Init(ctx context.Context) error {
	raw, found, err := s.kv.Get(ctx, s.dataKey)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found {
		s.txs = []core.Transaction{}
		return nil
	}

	var txs []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		return fmt.Errorf("decode transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	s.txs = txs

	slog.DebugContext(ctx, "Transactions loaded", "count", len(s.txs))
	return nil
}

// List returns a snapshot of the collection in its current order.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Count returns the collection size.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// FindByID returns the transaction with the given id, or core.ErrNotFound.
func (s *Store) FindByID(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.txs[i], nil
	}
	return core.Transaction{}, core.ErrNotFound
}

// Add appends a transaction and persists. It fails with core.ErrDuplicateID
// when the id is already held; ids are unique across the live collection at
// all times.
func (s *Store) Add(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(t.ID) >= 0 {
		return fmt.Errorf("add transaction %s: %w", t.ID, core.ErrDuplicateID)
	}

	s.txs = append(s.txs, t)
	if err := s.persist(ctx); err != nil {
		s.txs = s.txs[:len(s.txs)-1]
		return err
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", t.ID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)
	return nil
}

// Remove deletes the transaction with the given id and persists. Removing an
// absent id is a deliberate no-op: delete is idempotent.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	removed := s.txs[i]
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	if err := s.persist(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction removed", "id", removed.ID)
	return nil
}

// Patch carries the updatable fields of a transaction. Nil fields are left
// untouched by Update.
type Patch struct {
	Description *string
	Amount      *core.Money
	Category    *string
	Date        *core.Date
}

// Update merges patch into the stored transaction, preserving ID and
// CreatedAt and refreshing UpdatedAt, then persists. Fails with
// core.ErrNotFound when the id is absent.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, core.ErrNotFound)
	}

	prev := s.txs[i]
	next := prev
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	next.UpdatedAt = time.Now().UTC()

	s.txs[i] = next
	if err := s.persist(ctx); err != nil {
		s.txs[i] = prev
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id)
	return next, nil
}

// Merge appends every incoming transaction whose id is not already held,
// persists once, and reloads the collection from persistence. Existing
// entries are never overwritten. Returns the number of merged entries.
func (s *Store) Merge(ctx context.Context, incoming []core.Transaction) (int, error) {
	s.mu.Lock()

	added := 0
	for _, t := range incoming {
		if s.indexOf(t.ID) >= 0 {
			continue
		}
		s.txs = append(s.txs, t)
		added++
	}

	if added > 0 {
		if err := s.persist(ctx); err != nil {
			s.txs = s.txs[:len(s.txs)-added]
			s.mu.Unlock()
			return 0, err
		}
	}
	s.mu.Unlock()

	if err := s.Init(ctx); err != nil {
		return added, err
	}

	slog.InfoContext(ctx, "Transactions merged", "added", added, "total", s.Count())
	return added, nil
}

// GenerateID produces an id unique among the currently held ids. Ids are
// monotonic-time tokens; a same-millisecond collision bumps the counter
// until it clears.
func (s *Store) GenerateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := time.Now().UnixMilli()
	for {
		id := fmt.Sprintf("txn_%d", ms)
		if s.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// indexOf returns the position of id in the collection, or -1. Callers hold
// the mutex.
func (s *Store) indexOf(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the full collection under the data key. Callers hold the
// mutex.
func (s *Store) persist(ctx context.Context) error {
	b, err := json.Marshal(s.txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Set(ctx, s.dataKey, string(b)); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}
