// Package transfer implements the JSON import/export surface. Export mirrors
// the persisted shape; import is all-or-nothing: the whole document is
// validated before a single entry is merged, so a partially invalid file
// leaves the existing collection completely untouched.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Export renders the collection as a pretty-printed JSON document, identical
// in shape to the persisted array.
func Export(txs []core.Transaction) ([]byte, error) {
	b, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return b, nil
}

// importRecord is the inbound entry shape. Pointer fields distinguish
// missing from empty; amount stays a json.Number so the validator sees the
// digits as written.
type importRecord struct {
	ID          *string      `json:"id"`
	Description *string      `json:"description"`
	Amount      *json.Number `json:"amount"`
	Category    *string      `json:"category"`
	Date        *string      `json:"date"`
	CreatedAt   *time.Time   `json:"createdAt"`
	UpdatedAt   *time.Time   `json:"updatedAt"`
}

// Import merges a JSON document into the store. The document must be an
// array of entries each carrying id, description, amount, category and date;
// any missing or invalid field aborts the whole import with
// core.ErrMalformedImport and the store untouched. Entries whose id is
// already present are skipped, the batch persists once, and the store is
// reloaded from persistence. Returns the number of merged entries.
func Import(ctx context.Context, s *store.Store, data []byte) (int, error) {
	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("%w: not a JSON array of transactions", core.ErrMalformedImport)
	}

	now := time.Now().UTC()
	incoming := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		tx, err := r.toTransaction(now)
		if err != nil {
			return 0, fmt.Errorf("%w: entry %d: %v", core.ErrMalformedImport, i, err)
		}
		incoming = append(incoming, tx)
	}

	added, err := s.Merge(ctx, incoming)
	if err != nil {
		return 0, fmt.Errorf("merge import: %w", err)
	}

	slog.InfoContext(ctx, "Import completed", "entries", len(incoming), "added", added)
	return added, nil
}

func (r importRecord) toTransaction(now time.Time) (core.Transaction, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return core.Transaction{}, fmt.Errorf("missing id")
	case r.Description == nil:
		return core.Transaction{}, fmt.Errorf("missing description")
	case r.Amount == nil:
		return core.Transaction{}, fmt.Errorf("missing amount")
	case r.Category == nil:
		return core.Transaction{}, fmt.Errorf("missing category")
	case r.Date == nil:
		return core.Transaction{}, fmt.Errorf("missing date")
	}

	if !core.ValidDescription(*r.Description) {
		return core.Transaction{}, fmt.Errorf("invalid description %q", *r.Description)
	}
	if !core.ValidCategory(*r.Category) {
		return core.Transaction{}, fmt.Errorf("invalid category %q", *r.Category)
	}

	amount, err := core.ParseAmount(r.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", r.Amount.String())
	}
	date, err := core.ParseDate(*r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date %q", *r.Date)
	}

	createdAt := now
	if r.CreatedAt != nil {
		createdAt = *r.CreatedAt
	}
	updatedAt := createdAt
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return core.Transaction{
		ID:          *r.ID,
		Description: *r.Description,
		Amount:      amount,
		Category:    core.NormalizeCategory(*r.Category),
		Date:        date,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
