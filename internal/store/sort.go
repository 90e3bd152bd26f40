package store

import (
	"fmt"
	"sort"
)

// SortKey selects the field a sort orders by.
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByAmount      SortKey = "amount"
	SortByDescription SortKey = "description"
)

// Direction selects ascending or descending order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortBy reorders the in-memory collection. The new order is visible to
// subsequent List calls until the next mutation or reload; it is not
// persisted. Description ordering is collation-aware rather than byte-wise.
func (s *Store) SortBy(key SortKey, dir Direction) error {
	if dir != Ascending && dir != Descending {
		return fmt.Errorf("unknown sort direction %q", dir)
	}

	var less func(a, b int) bool
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case SortByDate:
		less = func(a, b int) bool { return s.txs[a].Date.Before(s.txs[b].Date) }
	case SortByAmount:
		less = func(a, b int) bool { return s.txs[a].Amount.Cents < s.txs[b].Amount.Cents }
	case SortByDescription:
		less = func(a, b int) bool {
			return s.coll.CompareString(s.txs[a].Description, s.txs[b].Description) < 0
		}
	default:
		return fmt.Errorf("unknown sort key %q", key)
	}

	if dir == Descending {
		asc := less
		less = func(a, b int) bool { return asc(b, a) }
	}

	sort.SliceStable(s.txs, less)
	return nil
}
