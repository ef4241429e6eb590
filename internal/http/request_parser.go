// This file implements parsing and validation of JSON request bodies.
// Amounts arrive as decimal strings ("1234.56" or "1234,56") and are
// converted to cents before the domain layer sees them; dates arrive
// as "YYYY-MM-DD".

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"financas/internal/core"
)

const maxBodySize = 64 << 10 // 64 KiB

type transactionRequest struct {
	Amount            string `json:"amount"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	TagID             string `json:"tag_id"`
	IsFixed           bool   `json:"is_fixed"`
	IsInstallment     bool   `json:"is_installment"`
	TotalInstallments *int   `json:"total_installments"`
}

type tagRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type goalRequest struct {
	TargetAmount string `json:"target_amount"`
	TargetDate   string `json:"target_date"`
	Description  string `json:"description"`
}

type investmentRequest struct {
	InitialAmount       string  `json:"initial_amount"`
	Type                string  `json:"type"`
	StartDate           string  `json:"start_date"`
	MonthlyYieldPercent float64 `json:"monthly_yield_percent"`
}

func decodeBody(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// toTransaction builds and validates a domain record from the request.
func (req transactionRequest) toTransaction(owner string, kind core.Kind) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(sanitizeInput(req.Amount))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	date, err := core.ParseStorage(sanitizeInput(req.Date))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date (want YYYY-MM-DD): %w", err)
	}

	t := core.Transaction{
		OwnerID:           owner,
		Kind:              kind,
		Amount:            core.Money{Cents: cents},
		Description:       sanitizeInput(req.Description),
		Date:              date,
		TagID:             sanitizeInput(req.TagID),
		IsFixed:           req.IsFixed,
		IsInstallment:     req.IsInstallment,
		TotalInstallments: req.TotalInstallments,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (req tagRequest) toTag(owner string) (core.Tag, error) {
	tg := core.Tag{
		OwnerID: owner,
		Name:    sanitizeInput(req.Name),
		Kind:    core.Kind(sanitizeInput(req.Kind)),
	}
	if err := tg.Validate(); err != nil {
		return core.Tag{}, err
	}
	return tg, nil
}

func (req goalRequest) toGoal(owner string) (core.BalanceGoal, error) {
	cents, err := core.ParseDecimalToCents(sanitizeInput(req.TargetAmount))
	if err != nil {
		return core.BalanceGoal{}, fmt.Errorf("invalid target amount: %w", err)
	}
	date, err := core.ParseStorage(sanitizeInput(req.TargetDate))
	if err != nil {
		return core.BalanceGoal{}, fmt.Errorf("invalid target date (want YYYY-MM-DD): %w", err)
	}

	g := core.BalanceGoal{
		OwnerID:      owner,
		TargetAmount: core.Money{Cents: cents},
		TargetDate:   date,
		Description:  sanitizeInput(req.Description),
	}
	if err := g.Validate(); err != nil {
		return core.BalanceGoal{}, err
	}
	return g, nil
}

func (req investmentRequest) toInvestment(owner string) (core.Investment, error) {
	cents, err := core.ParseDecimalToCents(sanitizeInput(req.InitialAmount))
	if err != nil {
		return core.Investment{}, fmt.Errorf("invalid initial amount: %w", err)
	}
	date, err := core.ParseStorage(sanitizeInput(req.StartDate))
	if err != nil {
		return core.Investment{}, fmt.Errorf("invalid start date (want YYYY-MM-DD): %w", err)
	}

	inv := core.Investment{
		OwnerID:             owner,
		InitialAmount:       core.Money{Cents: cents},
		Type:                sanitizeInput(req.Type),
		StartDate:           date,
		MonthlyYieldPercent: req.MonthlyYieldPercent,
	}
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	return inv, nil
}
