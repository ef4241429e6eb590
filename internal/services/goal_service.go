package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"financas/internal/core"
)

// GoalService manages the owner's single balance goal. The achieved
// flag is a snapshot against the balance at save time, not a live
// recomputation; readers get the stored value plus a fresh progress
// figure.
type GoalService struct {
	store   Store
	planner *MonthPlanner
}

func NewGoalService(store Store, planner *MonthPlanner) *GoalService {
	return &GoalService{store: store, planner: planner}
}

// GoalStatus pairs the stored goal with derived figures for display.
type GoalStatus struct {
	Goal            core.BalanceGoal
	CurrentBalance  core.Money
	ProgressPercent float64
	Remaining       core.Money
}

// Save validates the goal, snapshots achieved against the current
// lifetime balance, and upserts it.
func (s *GoalService) Save(ctx context.Context, g core.BalanceGoal) (core.BalanceGoal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := g.Validate(); err != nil {
		return core.BalanceGoal{}, fmt.Errorf("validate goal: %w", err)
	}

	balance, err := s.planner.LifetimeBalance(ctx, g.OwnerID)
	if err != nil {
		return core.BalanceGoal{}, fmt.Errorf("compute balance: %w", err)
	}
	g.Achieved = core.GoalAchieved(g, balance)

	if err := s.store.UpsertGoal(ctx, g); err != nil {
		return core.BalanceGoal{}, fmt.Errorf("save goal: %w", err)
	}

	slog.InfoContext(ctx, "Balance goal saved",
		"owner_id", g.OwnerID,
		"target_cents", g.TargetAmount.Cents,
		"balance_cents", balance.Cents,
		"achieved", g.Achieved)
	return g, nil
}

// Status returns the stored goal with progress computed against the
// current lifetime balance. storage.ErrNotFound passes through when no
// goal is set.
func (s *GoalService) Status(ctx context.Context, ownerID string) (GoalStatus, error) {
	goal, err := s.store.GetGoal(ctx, ownerID)
	if err != nil {
		return GoalStatus{}, err
	}

	balance, err := s.planner.LifetimeBalance(ctx, ownerID)
	if err != nil {
		return GoalStatus{}, fmt.Errorf("compute balance: %w", err)
	}

	remaining := goal.TargetAmount.Cents - balance.Cents
	if remaining < 0 {
		remaining = 0
	}
	return GoalStatus{
		Goal:            *goal,
		CurrentBalance:  balance,
		ProgressPercent: core.GoalProgress(*goal, balance),
		Remaining:       core.Money{Cents: remaining},
	}, nil
}
