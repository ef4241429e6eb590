package sheets

import (
	"context"

	"financas/internal/core"
)

// Ports for outbound report adapters.
type (
	TransactionWriter interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, collection, id string) error
	}

	// SummaryWriter records the aggregated totals of one month for one owner.
	SummaryWriter interface {
		WriteMonthlySummary(ctx context.Context, ownerID string, year, month int, s core.MonthlySummary) error
	}
)
