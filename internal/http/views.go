package http

import (
	"financas/internal/core"
	"financas/internal/services"
)

// View types returned by the JSON API. Amounts are sent both as cents
// and as a formatted BRL string so clients never re-implement the
// currency rules.

type transactionView struct {
	ID                 string `json:"id"`
	Kind               string `json:"kind"`
	AmountCents        int64  `json:"amount_cents"`
	Amount             string `json:"amount"`
	Description        string `json:"description"`
	Date               string `json:"date"`
	TagID              string `json:"tag_id,omitempty"`
	IsFixed            bool   `json:"is_fixed"`
	IsInstallment      bool   `json:"is_installment"`
	TotalInstallments  *int   `json:"total_installments,omitempty"`
	CurrentInstallment *int   `json:"current_installment,omitempty"`
}

type summaryView struct {
	TotalIncomeCents        int64  `json:"total_income_cents"`
	TotalIncome             string `json:"total_income"`
	TotalExpenseCents       int64  `json:"total_expense_cents"`
	TotalExpense            string `json:"total_expense"`
	BalanceCents            int64  `json:"balance_cents"`
	Balance                 string `json:"balance"`
	FixedIncomeCents        int64  `json:"fixed_income_cents"`
	FixedExpenseCents       int64  `json:"fixed_expense_cents"`
	InstallmentExpenseCents int64  `json:"installment_expense_cents"`
}

type dashboardView struct {
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	Transactions []transactionView `json:"transactions"`
	Summary      summaryView       `json:"summary"`
}

type tagView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type goalStatusView struct {
	ID              string  `json:"id"`
	TargetCents     int64   `json:"target_cents"`
	Target          string  `json:"target"`
	TargetDate      string  `json:"target_date"`
	Description     string  `json:"description"`
	Achieved        bool    `json:"achieved"`
	BalanceCents    int64   `json:"balance_cents"`
	ProgressPercent float64 `json:"progress_percent"`
	RemainingCents  int64   `json:"remaining_cents"`
}

type investmentView struct {
	ID                  string  `json:"id"`
	InitialCents        int64   `json:"initial_cents"`
	Initial             string  `json:"initial"`
	Type                string  `json:"type"`
	StartDate           string  `json:"start_date"`
	MonthlyYieldPercent float64 `json:"monthly_yield_percent"`
	MonthsInvested      int     `json:"months_invested"`
	ProfitCents         int64   `json:"profit_cents"`
	Profit              string  `json:"profit"`
	CurrentValueCents   int64   `json:"current_value_cents"`
}

type createdResponse struct {
	ID string `json:"id"`
}

func toTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:                 t.ID,
		Kind:               string(t.Kind),
		AmountCents:        t.Amount.Cents,
		Amount:             core.FormatBRL(t.Amount),
		Description:        t.Description,
		Date:               t.Date.FormatStorage(),
		TagID:              t.TagID,
		IsFixed:            t.IsFixed,
		IsInstallment:      t.IsInstallment,
		TotalInstallments:  t.TotalInstallments,
		CurrentInstallment: t.CurrentInstallment,
	}
}

func toTransactionViews(list []core.Transaction) []transactionView {
	out := make([]transactionView, len(list))
	for i, t := range list {
		out[i] = toTransactionView(t)
	}
	return out
}

func toSummaryView(s core.MonthlySummary) summaryView {
	return summaryView{
		TotalIncomeCents:        s.TotalIncome.Cents,
		TotalIncome:             core.FormatBRL(s.TotalIncome),
		TotalExpenseCents:       s.TotalExpense.Cents,
		TotalExpense:            core.FormatBRL(s.TotalExpense),
		BalanceCents:            s.Balance.Cents,
		Balance:                 core.FormatBRL(s.Balance),
		FixedIncomeCents:        s.FixedIncome.Cents,
		FixedExpenseCents:       s.FixedExpense.Cents,
		InstallmentExpenseCents: s.InstallmentExpense.Cents,
	}
}

func toDashboardView(v services.MonthView) dashboardView {
	return dashboardView{
		Year:         v.Year,
		Month:        v.Month,
		Transactions: toTransactionViews(v.Transactions),
		Summary:      toSummaryView(v.Summary),
	}
}

func toTagViews(tags []core.Tag) []tagView {
	out := make([]tagView, len(tags))
	for i, tg := range tags {
		out[i] = tagView{ID: tg.ID, Name: tg.Name, Kind: string(tg.Kind)}
	}
	return out
}

func toGoalStatusView(st services.GoalStatus) goalStatusView {
	return goalStatusView{
		ID:              st.Goal.ID,
		TargetCents:     st.Goal.TargetAmount.Cents,
		Target:          core.FormatBRL(st.Goal.TargetAmount),
		TargetDate:      st.Goal.TargetDate.FormatStorage(),
		Description:     st.Goal.Description,
		Achieved:        st.Goal.Achieved,
		BalanceCents:    st.CurrentBalance.Cents,
		ProgressPercent: st.ProgressPercent,
		RemainingCents:  st.Remaining.Cents,
	}
}

func toInvestmentViews(views []services.InvestmentView) []investmentView {
	out := make([]investmentView, len(views))
	for i, v := range views {
		out[i] = investmentView{
			ID:                  v.Investment.ID,
			InitialCents:        v.Investment.InitialAmount.Cents,
			Initial:             core.FormatBRL(v.Investment.InitialAmount),
			Type:                v.Investment.Type,
			StartDate:           v.Investment.StartDate.FormatStorage(),
			MonthlyYieldPercent: v.Investment.MonthlyYieldPercent,
			MonthsInvested:      v.MonthsInvested,
			ProfitCents:         v.CurrentProfit.Cents,
			Profit:              core.FormatBRL(v.CurrentProfit),
			CurrentValueCents:   v.CurrentValue.Cents,
		}
	}
	return out
}
