package core

import (
	"errors"
	"strings"
)

const (
	// KindIncome and KindExpense match the collection names used by the
	// store ("receitas"/"despesas") and scope tags.
	KindIncome  Kind = "receita"
	KindExpense Kind = "despesa"
)

type (
	Kind string

	// Transaction is a single income or expense record. For installment
	// expenses (IsInstallment), Amount is the total value of the obligation
	// and Date is the start date of the first installment.
	Transaction struct {
		ID          string
		OwnerID     string
		Kind        Kind
		Amount      Money
		Description string
		Date        Date
		TagID       string
		IsFixed     bool

		// Installment fields, expense-only.
		IsInstallment      bool
		TotalInstallments  *int
		CurrentInstallment *int
	}

	// Tag is a user-defined category label, scoped by transaction kind.
	Tag struct {
		ID      string
		OwnerID string
		Name    string
		Kind    Kind
	}

	// BalanceGoal is a target balance and date. Achieved is a snapshot
	// taken when the goal is saved, not a live recomputation.
	BalanceGoal struct {
		ID           string
		OwnerID      string
		TargetAmount Money
		TargetDate   Date
		Description  string
		Achieved     bool
	}

	// Investment is a fixed-yield position. Profit is derived from the
	// elapsed months, never stored.
	Investment struct {
		ID                  string
		OwnerID             string
		InitialAmount       Money
		Type                string
		StartDate           Date
		MonthlyYieldPercent float64
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidKind         = errors.New("invalid kind")
	ErrEmptyOwner          = errors.New("empty owner id")
	ErrEmptyDescription    = errors.New("empty description")
	ErrInvalidInstallments = errors.New("installment count must be at least 1")
)

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense:
		return nil
	}
	return ErrInvalidKind
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.IsInstallment {
		if t.Kind != KindExpense {
			return errors.New("only expenses can be installment-based")
		}
		if t.TotalInstallments == nil || *t.TotalInstallments < 1 {
			return ErrInvalidInstallments
		}
		if t.CurrentInstallment != nil && (*t.CurrentInstallment < 1 || *t.CurrentInstallment > *t.TotalInstallments) {
			return errors.New("current installment out of range")
		}
	}
	return nil
}

func (tg Tag) Validate() error {
	if strings.TrimSpace(tg.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(tg.Name) == "" {
		return errors.New("empty tag name")
	}
	if len(tg.Name) > 60 {
		return errors.New("tag name too long (max 60 characters)")
	}
	return tg.Kind.Validate()
}

func (g BalanceGoal) Validate() error {
	if strings.TrimSpace(g.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(g.Description)) == 0 {
		return ErrEmptyDescription
	}
	return g.TargetDate.Validate()
}

func (inv Investment) Validate() error {
	if strings.TrimSpace(inv.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if err := inv.InitialAmount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(inv.Type) == "" {
		return errors.New("empty investment type")
	}
	if inv.MonthlyYieldPercent < 0 {
		return errors.New("negative yield")
	}
	return inv.StartDate.Validate()
}
