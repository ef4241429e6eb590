package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"financas/internal/core"
)

// TransactionService owns the write path for incomes and expenses: it
// validates, assigns ids, persists, and publishes sync events for the
// report worker. A failed publish never fails the request; the record
// is already stored and the periodic export catches up.
type TransactionService struct {
	store     Store
	publisher SyncPublisher
}

func NewTransactionService(store Store, publisher SyncPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

func collectionFor(kind core.Kind) string {
	if kind == core.KindIncome {
		return "receitas"
	}
	return "despesas"
}

// Create validates and stores a new transaction, returning its id.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	s.publishSync(ctx, t.Kind, t.ID, t.OwnerID)
	return t.ID, nil
}

// Update validates and rewrites an existing transaction.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishSync(ctx, t.Kind, t.ID, t.OwnerID)
	return nil
}

// Delete removes a transaction owned by ownerID.
func (s *TransactionService) Delete(ctx context.Context, ownerID string, kind core.Kind, id string) error {
	if err := s.store.DeleteTransaction(ctx, ownerID, kind, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, collectionFor(kind), id, ownerID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message",
				"record_id", id, "error", err)
		}
	}
	return nil
}

// Get fetches one transaction scoped to the owner.
func (s *TransactionService) Get(ctx context.Context, ownerID string, kind core.Kind, id string) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, ownerID, kind, id)
}

// ListMonth returns the owner's non-installment records for a month.
func (s *TransactionService) ListMonth(ctx context.Context, ownerID string, kind core.Kind, year, month int) ([]core.Transaction, error) {
	return s.store.ListByMonth(ctx, ownerID, kind, year, month)
}

// ListInstallments returns every installment expense for the owner.
func (s *TransactionService) ListInstallments(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return s.store.ListInstallmentExpenses(ctx, ownerID)
}

func (s *TransactionService) publishSync(ctx context.Context, kind core.Kind, id, ownerID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message", "record_id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, collectionFor(kind), id, ownerID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"record_id", id, "error", err)
	}
}
