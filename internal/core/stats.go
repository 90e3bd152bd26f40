package core

import "time"

// BudgetState classifies the budget delta in a stats snapshot.
type BudgetState string

const (
	// BudgetUnset means no budget is configured (absent or <= 0).
	BudgetUnset BudgetState = "unset"
	// BudgetRemaining means spending is at or under budget.
	BudgetRemaining BudgetState = "remaining"
	// BudgetOver means spending exceeds the budget.
	BudgetOver BudgetState = "over"
)

// BudgetStatus reports the budget delta. Amount holds the remaining budget
// for BudgetRemaining and the absolute overage for BudgetOver.
type BudgetStatus struct {
	State  BudgetState `json:"state"`
	Amount Money       `json:"amount"`
}

// Stats is the derived dashboard view of a collection snapshot.
type Stats struct {
	Count       int          `json:"count"`
	TotalSpent  Money        `json:"totalSpent"`
	TopCategory string       `json:"topCategory"`
	Last7Days   Money        `json:"last7Days"`
	Budget      BudgetStatus `json:"budget"`
}

// Summarize derives dashboard statistics from a collection snapshot. It is a
// pure function of (snapshot, budget, now): it never mutates its input and
// touches no persistence, so it is safe to call on every render.
//
// A budget of zero or less counts as unset. The trailing window covers the
// seven calendar days up to and including now's date.
func Summarize(txs []Transaction, budget Money, now time.Time) Stats {
	stats := Stats{
		Count:       len(txs),
		TopCategory: "none",
	}

	today := DateOf(now)
	windowStart := DateOf(now.AddDate(0, 0, -7))

	totals := make(map[string]int64)
	var order []string

	for _, t := range txs {
		stats.TotalSpent.Cents += t.Amount.Cents

		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount.Cents

		if !t.Date.Before(windowStart) && !t.Date.After(today) {
			stats.Last7Days.Cents += t.Amount.Cents
		}
	}

	// Ties break to the first category, in first-appearance order, to hold
	// the maximum. Strictly-greater keeps the scan stable.
	var max int64
	for _, cat := range order {
		if totals[cat] > max {
			max = totals[cat]
			stats.TopCategory = cat
		}
	}

	switch remaining := budget.Cents - stats.TotalSpent.Cents; {
	case budget.Cents <= 0:
		stats.Budget = BudgetStatus{State: BudgetUnset}
	case remaining >= 0:
		stats.Budget = BudgetStatus{State: BudgetRemaining, Amount: Money{Cents: remaining}}
	default:
		stats.Budget = BudgetStatus{State: BudgetOver, Amount: Money{Cents: -remaining}}
	}

	return stats
}
