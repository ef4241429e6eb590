package http

import (
	"strings"
	"testing"

	"financas/internal/core"
)

func TestTransactionRequestToTransaction(t *testing.T) {
	twelve := 12

	tests := []struct {
		name    string
		req     transactionRequest
		kind    core.Kind
		wantErr bool
	}{
		{
			name: "valid expense with dot amount",
			req:  transactionRequest{Amount: "1234.56", Description: "Mercado", Date: "2025-03-10"},
			kind: core.KindExpense,
		},
		{
			name: "valid income with comma amount",
			req:  transactionRequest{Amount: "5000,00", Description: "Salario", Date: "2025-03-01", IsFixed: true},
			kind: core.KindIncome,
		},
		{
			name: "valid installment expense",
			req: transactionRequest{
				Amount: "1200.00", Description: "Notebook", Date: "2025-01-15",
				IsInstallment: true, TotalInstallments: &twelve,
			},
			kind: core.KindExpense,
		},
		{
			name:    "installment income rejected",
			req:     transactionRequest{Amount: "100.00", Description: "x", Date: "2025-01-15", IsInstallment: true, TotalInstallments: &twelve},
			kind:    core.KindIncome,
			wantErr: true,
		},
		{
			name:    "bad amount",
			req:     transactionRequest{Amount: "abc", Description: "x", Date: "2025-03-10"},
			kind:    core.KindExpense,
			wantErr: true,
		},
		{
			name:    "zero amount",
			req:     transactionRequest{Amount: "0", Description: "x", Date: "2025-03-10"},
			kind:    core.KindExpense,
			wantErr: true,
		},
		{
			name:    "bad date format",
			req:     transactionRequest{Amount: "10.00", Description: "x", Date: "10/03/2025"},
			kind:    core.KindExpense,
			wantErr: true,
		},
		{
			name:    "empty description",
			req:     transactionRequest{Amount: "10.00", Description: "   ", Date: "2025-03-10"},
			kind:    core.KindExpense,
			wantErr: true,
		},
		{
			name:    "installment without count",
			req:     transactionRequest{Amount: "10.00", Description: "x", Date: "2025-03-10", IsInstallment: true},
			kind:    core.KindExpense,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.toTransaction("u1", tt.kind)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("toTransaction() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("toTransaction() error = %v", err)
			}
			if got.OwnerID != "u1" || got.Kind != tt.kind {
				t.Errorf("toTransaction() owner/kind = %q/%q", got.OwnerID, got.Kind)
			}
		})
	}
}

func TestTransactionRequestAmountConversion(t *testing.T) {
	req := transactionRequest{Amount: "1234,56", Description: "x", Date: "2025-03-10"}
	got, err := req.toTransaction("u1", core.KindExpense)
	if err != nil {
		t.Fatalf("toTransaction() error = %v", err)
	}
	if got.Amount.Cents != 123456 {
		t.Errorf("Amount.Cents = %d, want 123456", got.Amount.Cents)
	}
	if got.Date.FormatStorage() != "2025-03-10" {
		t.Errorf("Date = %s, want 2025-03-10", got.Date.FormatStorage())
	}
}

func TestGoalRequestToGoal(t *testing.T) {
	req := goalRequest{TargetAmount: "10000.00", TargetDate: "2026-12-31", Description: "Reserva"}
	g, err := req.toGoal("u1")
	if err != nil {
		t.Fatalf("toGoal() error = %v", err)
	}
	if g.TargetAmount.Cents != 1000000 {
		t.Errorf("TargetAmount.Cents = %d, want 1000000", g.TargetAmount.Cents)
	}

	if _, err := (goalRequest{TargetAmount: "-5", TargetDate: "2026-12-31", Description: "x"}).toGoal("u1"); err == nil {
		t.Error("toGoal() should reject a negative target")
	}
}

func TestInvestmentRequestToInvestment(t *testing.T) {
	req := investmentRequest{InitialAmount: "10000.00", Type: "CDB", StartDate: "2025-01-01", MonthlyYieldPercent: 1.0}
	inv, err := req.toInvestment("u1")
	if err != nil {
		t.Fatalf("toInvestment() error = %v", err)
	}
	if inv.InitialAmount.Cents != 1000000 || inv.Type != "CDB" {
		t.Errorf("unexpected investment: %+v", inv)
	}

	if _, err := (investmentRequest{InitialAmount: "100", Type: "CDB", StartDate: "2025-01-01", MonthlyYieldPercent: -1}).toInvestment("u1"); err == nil {
		t.Error("toInvestment() should reject a negative yield")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  caf\x00e\x1b  "); got != "cafe" {
		t.Errorf("sanitizeInput() = %q, want %q", got, "cafe")
	}
	if got := sanitizeInput("linha1\nlinha2"); !strings.Contains(got, "\n") {
		t.Error("sanitizeInput() should keep newlines")
	}
}
