package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/services"
	"financas/internal/sheets"
)

// ReportWorker mirrors stored records into the report spreadsheet and
// keeps a per-owner monthly summary row up to date.
type ReportWorker struct {
	store     services.Store
	planner   *services.MonthPlanner
	writer    sheets.TransactionWriter
	remover   sheets.TransactionRemover
	summaries sheets.SummaryWriter

	mu     sync.Mutex
	owners map[string]struct{}

	// cursor tracks the rotation position across export batches. Only
	// the exporter goroutine touches it.
	cursor int
}

func NewReportWorker(store services.Store, planner *services.MonthPlanner, writer sheets.TransactionWriter, remover sheets.TransactionRemover, summaries sheets.SummaryWriter) *ReportWorker {
	return &ReportWorker{
		store:     store,
		planner:   planner,
		writer:    writer,
		remover:   remover,
		summaries: summaries,
		owners:    make(map[string]struct{}),
	}
}

func kindForCollection(collection string) (core.Kind, error) {
	switch collection {
	case "receitas":
		return core.KindIncome, nil
	case "despesas":
		return core.KindExpense, nil
	}
	return "", fmt.Errorf("unknown collection: %q", collection)
}

// HandleSyncMessage exports one record to the spreadsheet.
func (w *ReportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"collection", msg.Collection,
		"id", msg.ID,
		"owner_id", msg.OwnerID)

	kind, err := kindForCollection(msg.Collection)
	if err != nil {
		return err
	}

	record, err := w.store.GetTransaction(ctx, msg.OwnerID, kind, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	rowRef, err := w.writer.AppendTransaction(ctx, *record)
	if err != nil {
		return fmt.Errorf("append transaction to sheet: %w", err)
	}

	w.rememberOwner(msg.OwnerID)

	slog.InfoContext(ctx, "Exported transaction",
		"collection", msg.Collection,
		"id", msg.ID,
		"row_ref", rowRef)

	return nil
}

// HandleDeleteMessage removes one record from the spreadsheet.
func (w *ReportWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message",
		"collection", msg.Collection,
		"id", msg.ID)

	if w.remover == nil {
		slog.WarnContext(ctx, "No remover configured, skipping sheet removal", "id", msg.ID)
		return nil
	}

	if _, err := kindForCollection(msg.Collection); err != nil {
		return err
	}

	if err := w.remover.RemoveTransaction(ctx, msg.Collection, msg.ID); err != nil {
		return fmt.Errorf("remove transaction from sheet: %w", err)
	}

	w.rememberOwner(msg.OwnerID)
	return nil
}

// ExportMonthlySummary recomputes and writes the totals row for one
// owner and month.
func (w *ReportWorker) ExportMonthlySummary(ctx context.Context, ownerID string, year, month int) error {
	if w.summaries == nil {
		return nil
	}

	view, err := w.planner.BuildMonth(ctx, ownerID, year, month)
	if err != nil {
		return fmt.Errorf("build month %d-%02d: %w", year, month, err)
	}

	if err := w.summaries.WriteMonthlySummary(ctx, ownerID, year, month, view.Summary); err != nil {
		return fmt.Errorf("write monthly summary: %w", err)
	}

	slog.InfoContext(ctx, "Exported monthly summary",
		"owner_id", ownerID,
		"year", year,
		"month", month,
		"balance_cents", view.Summary.Balance.Cents)

	return nil
}

// RunSummaryExporter periodically exports the current month summary for
// owners seen since startup, at most batchSize owners per tick. Messages
// already carry the owner, so no owner registry is needed beyond this
// process.
func (w *ReportWorker) RunSummaryExporter(ctx context.Context, interval time.Duration, batchSize int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			w.exportSummaryBatch(ctx, now.Year(), int(now.Month()), batchSize)
		}
	}
}

// exportSummaryBatch exports summaries for up to batchSize owners,
// resuming after the owner where the previous batch stopped. Owners are
// visited in sorted order so the rotation is deterministic. batchSize
// smaller than 1 means no limit.
func (w *ReportWorker) exportSummaryBatch(ctx context.Context, year, month, batchSize int) {
	owners := w.knownOwners()
	if len(owners) == 0 {
		return
	}
	sort.Strings(owners)
	if batchSize < 1 || batchSize > len(owners) {
		batchSize = len(owners)
	}
	for i := 0; i < batchSize; i++ {
		owner := owners[(w.cursor+i)%len(owners)]
		if err := w.ExportMonthlySummary(ctx, owner, year, month); err != nil {
			slog.ErrorContext(ctx, "Summary export failed", "owner_id", owner, "error", err)
		}
	}
	w.cursor = (w.cursor + batchSize) % len(owners)
}

func (w *ReportWorker) rememberOwner(ownerID string) {
	if ownerID == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.owners[ownerID] = struct{}{}
}

func (w *ReportWorker) knownOwners() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.owners))
	for owner := range w.owners {
		out = append(out, owner)
	}
	return out
}
