package store

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// Budget reads the configured spending cap. The second return value reports
// whether a usable budget is set: a missing key, an unparseable value, or a
// zero budget all read as unset rather than as errors.
func (s *Store) Budget(ctx context.Context) (core.Money, bool, error) {
	raw, found, err := s.kv.Get(ctx, s.budgetKey)
	if err != nil {
		return core.Money{}, false, fmt.Errorf("load budget: %w", err)
	}
	if !found || !core.ValidAmount(raw) {
		return core.Money{}, false, nil
	}
	budget, err := core.ParseAmount(raw)
	if err != nil || budget.Cents <= 0 {
		return core.Money{}, false, nil
	}
	return budget, true, nil
}

// SetBudget validates and persists the raw budget string under the budget
// key. The raw string is stored as entered.
func (s *Store) SetBudget(ctx context.Context, raw string) error {
	if !core.ValidAmount(raw) {
		return core.NewFieldError("budget", "must be a non-negative number with at most 2 decimals")
	}
	if err := s.kv.Set(ctx, s.budgetKey, raw); err != nil {
		return fmt.Errorf("persist budget: %w", err)
	}
	return nil
}
