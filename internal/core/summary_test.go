package core

import "testing"

func tx(kind Kind, cents int64, fixed bool, date Date) Transaction {
	return Transaction{
		ID:          "t",
		OwnerID:     "u1",
		Kind:        kind,
		Amount:      Money{Cents: cents},
		Description: "x",
		Date:        date,
		IsFixed:     fixed,
	}
}

func TestBuildMonthlySummary(t *testing.T) {
	d := NewDate(2025, 5, 10)
	month := []Transaction{
		tx(KindIncome, 500000, true, d),   // salário, fixa
		tx(KindIncome, 120000, false, d),  // freela
		tx(KindExpense, 200000, true, d),  // aluguel, fixa
		tx(KindExpense, 35000, false, d),  // mercado
	}
	n := 10
	occ := Transaction{
		ID:                 "e_parcela_4",
		OwnerID:            "u1",
		Kind:               KindExpense,
		Amount:             Money{Cents: 25000},
		Description:        "TV (4/10)",
		Date:               d,
		IsInstallment:      true,
		TotalInstallments:  &n,
		CurrentInstallment: &n,
	}

	s := BuildMonthlySummary(month, []Transaction{occ})

	if s.TotalIncome.Cents != 620000 {
		t.Errorf("income = %d", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 260000 {
		t.Errorf("expense = %d", s.TotalExpense.Cents)
	}
	if s.Balance.Cents != s.TotalIncome.Cents-s.TotalExpense.Cents {
		t.Errorf("balance identity broken: %d", s.Balance.Cents)
	}
	if s.FixedIncome.Cents != 500000 || s.FixedExpense.Cents != 200000 {
		t.Errorf("fixed subtotals = %d/%d", s.FixedIncome.Cents, s.FixedExpense.Cents)
	}
	if s.InstallmentExpense.Cents != 25000 {
		t.Errorf("installment subtotal = %d", s.InstallmentExpense.Cents)
	}
	if s.FixedIncome.Cents > s.TotalIncome.Cents || s.FixedExpense.Cents > s.TotalExpense.Cents {
		t.Errorf("fixed subtotal exceeds total")
	}
	if s.InstallmentExpense.Cents > s.TotalExpense.Cents {
		t.Errorf("installment subtotal exceeds total expense")
	}
}

func TestBuildMonthlySummaryEmpty(t *testing.T) {
	s := BuildMonthlySummary(nil, nil)
	if s.Balance.Cents != 0 || s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 {
		t.Errorf("empty summary not zero: %+v", s)
	}
}

func TestSortTransactionsByDateDesc(t *testing.T) {
	list := []Transaction{
		{ID: "a", Date: NewDate(2025, 5, 1)},
		{ID: "b", Date: NewDate(2025, 5, 20)},
		{ID: "c", Date: NewDate(2025, 5, 10)},
		{ID: "d", Date: NewDate(2025, 5, 20)}, // same day as b, must stay after it
	}
	SortTransactionsByDateDesc(list)
	got := list[0].ID + list[1].ID + list[2].ID + list[3].ID
	if got != "bdca" {
		t.Errorf("order = %q, want bdca", got)
	}
}

func TestGoalProgressAndSnapshot(t *testing.T) {
	g := BalanceGoal{
		OwnerID:      "u1",
		TargetAmount: Money{Cents: 1000000},
		TargetDate:   NewDate(2026, 1, 1),
		Description:  "reserva",
	}
	if GoalAchieved(g, Money{Cents: 999999}) {
		t.Errorf("goal should not be achieved one cent short")
	}
	if !GoalAchieved(g, Money{Cents: 1000000}) {
		t.Errorf("goal should be achieved at target")
	}
	if p := GoalProgress(g, Money{Cents: 250000}); p != 25 {
		t.Errorf("progress = %v, want 25", p)
	}
	if p := GoalProgress(g, Money{Cents: 2000000}); p != 100 {
		t.Errorf("progress capped = %v, want 100", p)
	}
	if p := GoalProgress(g, Money{Cents: -50}); p != 0 {
		t.Errorf("negative balance progress = %v, want 0", p)
	}
}
