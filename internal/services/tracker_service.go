// Package services orchestrates transaction mutations: input validation,
// the budget guard, persistence, and event publishing.
package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// TrackerService coordinates writes to the transaction store and publishes
// mutation events when a broker is configured.
type TrackerService struct {
	store      *store.Store
	amqpClient *amqp.Client
	logger     *log.Logger
}

func NewTrackerService(s *store.Store, amqpClient *amqp.Client, logger *log.Logger) *TrackerService {
	return &TrackerService{
		store:      s,
		amqpClient: amqpClient,
		logger:     logger.WithComponent(log.ComponentTracker),
	}
}

// TransactionInput carries raw user-entered fields. Everything arrives as a
// string and is validated before any parsing happens.
type TransactionInput struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// validate checks fields in entry order and reports the first failure.
func (in TransactionInput) validate() error {
	if !core.ValidDescription(in.Description) {
		return core.NewFieldError("description", "must contain at least one non-whitespace character")
	}
	if !core.ValidAmount(in.Amount) {
		return core.NewFieldError("amount", "must be a non-negative number with at most 2 decimals")
	}
	if !core.ValidCategory(in.Category) {
		return core.NewFieldError("category", "must be letters, optionally separated by single spaces or hyphens")
	}
	if !core.ValidDate(in.Date) {
		return core.NewFieldError("date", "must be a calendar date in YYYY-MM-DD format")
	}
	return nil
}

// Create validates the input, enforces the budget guard, and inserts a new
// transaction. The guard rejects an insert whose amount would push total
// spending past the configured budget; it never applies to edits.
func (s *TrackerService) Create(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	if err := in.validate(); err != nil {
		return core.Transaction{}, err
	}

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, core.NewFieldError("amount", err.Error())
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, core.NewFieldError("date", err.Error())
	}

	budget, budgetSet, err := s.store.Budget(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("check budget: %w", err)
	}
	if budgetSet {
		spent := s.totalSpent()
		if spent.Cents+amount.Cents > budget.Cents {
			return core.Transaction{}, fmt.Errorf("%w: %s spent of %s, adding %s",
				core.ErrBudgetExceeded, spent, budget, amount)
		}
	}

	now := time.Now().UTC()
	tx := core.Transaction{
		ID:          s.store.GenerateID(),
		Description: in.Description,
		Amount:      amount,
		Category:    core.NormalizeCategory(in.Category),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Add(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.ActionCreated, tx.ID)

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldTxID, tx.ID,
		log.FieldAmountCents, tx.Amount.Cents,
		log.FieldCategory, tx.Category)

	return tx, nil
}

// Update revalidates the full input and replaces the editable fields of an
// existing transaction. Edits are never subject to the budget guard, so an
// over-budget collection stays editable.
func (s *TrackerService) Update(ctx context.Context, id string, in TransactionInput) (core.Transaction, error) {
	if err := in.validate(); err != nil {
		return core.Transaction{}, err
	}

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, core.NewFieldError("amount", err.Error())
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, core.NewFieldError("date", err.Error())
	}
	category := core.NormalizeCategory(in.Category)

	tx, err := s.store.Update(ctx, id, store.Patch{
		Description: &in.Description,
		Amount:      &amount,
		Category:    &category,
		Date:        &date,
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.ActionUpdated, tx.ID)

	s.logger.InfoContext(ctx, "Transaction updated", log.FieldTxID, tx.ID)

	return tx, nil
}

// Delete removes a transaction. Deleting an absent id is a silent no-op and
// publishes nothing.
func (s *TrackerService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.FindByID(id); err != nil {
		return nil
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.ActionDeleted, id)

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTxID, id)

	return nil
}

// Stats summarizes the current collection against the configured budget.
func (s *TrackerService) Stats(ctx context.Context) (core.Stats, error) {
	budget, budgetSet, err := s.store.Budget(ctx)
	if err != nil {
		return core.Stats{}, fmt.Errorf("load budget: %w", err)
	}
	if !budgetSet {
		budget = core.Money{}
	}
	return core.Summarize(s.store.List(), budget, time.Now().UTC()), nil
}

func (s *TrackerService) totalSpent() core.Money {
	var total core.Money
	for _, tx := range s.store.List() {
		total = total.Add(tx.Amount)
	}
	return total
}

// publish sends a mutation event without blocking the request path. A
// publish failure is logged and swallowed: the local write already succeeded.
func (s *TrackerService) publish(ctx context.Context, action, id string) {
	if err := s.amqpClient.PublishTransactionEvent(ctx, action, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldOperation, action,
			log.FieldTxID, id,
			log.FieldError, err)
	}
}

// Close releases the AMQP connection. The store's backend is owned by the
// caller that built it.
func (s *TrackerService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close tracker service: amqp: %w", err)
		}
	}
	return nil
}
