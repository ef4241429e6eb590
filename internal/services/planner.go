package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/core"
)

// MonthView is everything a dashboard needs for one reference month:
// the merged transaction list (month records plus projected installment
// occurrences, date-descending) and its summary.
type MonthView struct {
	Year         int
	Month        int
	Transactions []core.Transaction
	Summary      core.MonthlySummary
}

// MonthPlanner assembles month views. It only reads; every computation
// downstream of the two fetches is pure, so concurrent calls for
// different months or owners never interfere.
type MonthPlanner struct {
	store Store
}

func NewMonthPlanner(store Store) *MonthPlanner {
	return &MonthPlanner{store: store}
}

// BuildMonth fetches the owner's records and derives the view for the
// reference month. Incomes and non-installment expenses come bounded
// to the month; installment expenses come unbounded and are projected.
func (p *MonthPlanner) BuildMonth(ctx context.Context, ownerID string, year, month int) (MonthView, error) {
	if month < 1 || month > 12 {
		return MonthView{}, fmt.Errorf("invalid month %d", month)
	}

	incomes, err := p.store.ListByMonth(ctx, ownerID, core.KindIncome, year, month)
	if err != nil {
		return MonthView{}, fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := p.store.ListByMonth(ctx, ownerID, core.KindExpense, year, month)
	if err != nil {
		return MonthView{}, fmt.Errorf("list expenses: %w", err)
	}
	installments, err := p.store.ListInstallmentExpenses(ctx, ownerID)
	if err != nil {
		return MonthView{}, fmt.Errorf("list installment expenses: %w", err)
	}

	occurrences := core.ProjectInstallments(installments, year, month)

	nonInstallment := make([]core.Transaction, 0, len(incomes)+len(expenses))
	nonInstallment = append(nonInstallment, incomes...)
	nonInstallment = append(nonInstallment, expenses...)

	merged := make([]core.Transaction, 0, len(nonInstallment)+len(occurrences))
	merged = append(merged, nonInstallment...)
	merged = append(merged, occurrences...)
	core.SortTransactionsByDateDesc(merged)

	summary := core.BuildMonthlySummary(nonInstallment, occurrences)

	slog.DebugContext(ctx, "Month view built",
		"owner_id", ownerID,
		"year", year,
		"month", month,
		"transactions", len(merged),
		"occurrences", len(occurrences),
		"balance_cents", summary.Balance.Cents)

	return MonthView{
		Year:         year,
		Month:        month,
		Transactions: merged,
		Summary:      summary,
	}, nil
}

// LifetimeBalance is the owner's balance snapshot: every stored income
// minus every stored expense, over raw amounts. Installment rows count
// their full total here.
func (p *MonthPlanner) LifetimeBalance(ctx context.Context, ownerID string) (core.Money, error) {
	income, err := p.store.SumAmounts(ctx, ownerID, core.KindIncome)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum incomes: %w", err)
	}
	expense, err := p.store.SumAmounts(ctx, ownerID, core.KindExpense)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: income.Cents - expense.Cents}, nil
}
