package core

import "sort"

// MonthlySummary aggregates the transactions visible in one reference
// month: the month's own records plus the projected installment
// occurrences. All sums are accumulated in cents, so no intermediate
// rounding ever happens; rounding exists only at the display boundary.
type MonthlySummary struct {
	TotalIncome        Money
	TotalExpense       Money
	Balance            Money
	FixedIncome        Money
	FixedExpense       Money
	InstallmentExpense Money
}

// BuildMonthlySummary combines the month's non-installment transactions
// with the projected installment occurrences. The two lists are
// disjoint by construction, so plain concatenation is enough.
func BuildMonthlySummary(nonInstallment, occurrences []Transaction) MonthlySummary {
	var s MonthlySummary
	for _, list := range [][]Transaction{nonInstallment, occurrences} {
		for _, t := range list {
			switch t.Kind {
			case KindIncome:
				s.TotalIncome.Cents += t.Amount.Cents
				if t.IsFixed {
					s.FixedIncome.Cents += t.Amount.Cents
				}
			case KindExpense:
				s.TotalExpense.Cents += t.Amount.Cents
				if t.IsFixed {
					s.FixedExpense.Cents += t.Amount.Cents
				}
				if t.IsInstallment {
					s.InstallmentExpense.Cents += t.Amount.Cents
				}
			}
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpense.Cents
	return s
}

// SortTransactionsByDateDesc sorts in place by date, newest first.
// The sort is stable: entries sharing a date keep insertion order.
func SortTransactionsByDateDesc(list []Transaction) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date.Time)
	})
}

// GoalAchieved reports whether a balance meets the goal target. Stored
// on the goal as a snapshot when it is saved.
func GoalAchieved(g BalanceGoal, currentBalance Money) bool {
	return currentBalance.Cents >= g.TargetAmount.Cents
}

// GoalProgress returns the progress towards the goal in percent,
// capped at 100. A non-positive target counts as no progress.
func GoalProgress(g BalanceGoal, currentBalance Money) float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	p := float64(currentBalance.Cents) / float64(g.TargetAmount.Cents) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
