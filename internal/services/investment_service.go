package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"financas/internal/core"
)

// InvestmentService lists positions with their derived figures and
// handles the write path.
type InvestmentService struct {
	store Store
}

func NewInvestmentService(store Store) *InvestmentService {
	return &InvestmentService{store: store}
}

// InvestmentView is a position plus the values derived from today.
type InvestmentView struct {
	Investment     core.Investment
	MonthsInvested int
	CurrentProfit  core.Money
	CurrentValue   core.Money
}

// Create validates and stores a new position, returning its id.
func (s *InvestmentService) Create(ctx context.Context, inv core.Investment) (string, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if err := inv.Validate(); err != nil {
		return "", fmt.Errorf("validate investment: %w", err)
	}
	if err := s.store.CreateInvestment(ctx, inv); err != nil {
		return "", fmt.Errorf("create investment: %w", err)
	}
	return inv.ID, nil
}

// Delete removes a position owned by ownerID.
func (s *InvestmentService) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteInvestment(ctx, ownerID, id)
}

// List returns the owner's positions with profit computed as of today.
func (s *InvestmentService) List(ctx context.Context, ownerID string) ([]InvestmentView, error) {
	investments, err := s.store.ListInvestments(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}

	today := core.Today()
	views := make([]InvestmentView, len(investments))
	for i, inv := range investments {
		profit := inv.CurrentProfit(today)
		views[i] = InvestmentView{
			Investment:     inv,
			MonthsInvested: inv.MonthsInvested(today),
			CurrentProfit:  profit,
			CurrentValue:   core.Money{Cents: inv.InitialAmount.Cents + profit.Cents},
		}
	}
	return views, nil
}
