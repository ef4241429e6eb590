package services

import (
	"context"

	"financas/internal/core"
)

// Store is the slice of the repository the services depend on. The
// sqlite repository satisfies it; tests swap in fakes.
type Store interface {
	CreateTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID string, kind core.Kind, id string) error
	GetTransaction(ctx context.Context, ownerID string, kind core.Kind, id string) (*core.Transaction, error)
	ListByMonth(ctx context.Context, ownerID string, kind core.Kind, year, month int) ([]core.Transaction, error)
	ListInstallmentExpenses(ctx context.Context, ownerID string) ([]core.Transaction, error)
	SumAmounts(ctx context.Context, ownerID string, kind core.Kind) (core.Money, error)

	GetGoal(ctx context.Context, ownerID string) (*core.BalanceGoal, error)
	UpsertGoal(ctx context.Context, g core.BalanceGoal) error

	CreateInvestment(ctx context.Context, inv core.Investment) error
	DeleteInvestment(ctx context.Context, ownerID, id string) error
	ListInvestments(ctx context.Context, ownerID string) ([]core.Investment, error)
}

// SyncPublisher publishes sync events consumed by the report worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, collection, id, ownerID string) error
	PublishTransactionDelete(ctx context.Context, collection, id, ownerID string) error
}
