package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/plan"
)

// PlanStoreForSeed defines the store interface needed by SeedPlans.
type PlanStoreForSeed interface {
	GetByName(ctx context.Context, name string) (plan.Plan, error)
	Save(ctx context.Context, p plan.Plan) error
}

// SeedPlansDeps holds dependencies for SeedPlans.
type SeedPlansDeps struct {
	PlanStore   PlanStoreForSeed
	DefaultPlan string // empty means plan.DefaultName
	GenerateID  func() string
}

// ExecuteSeedPlans creates the default registration plan if it is missing.
// PRE: none
// POST: A plan with the default name exists (one month, free)
func ExecuteSeedPlans(ctx context.Context, deps SeedPlansDeps) error {
	name := deps.DefaultPlan
	if name == "" {
		name = plan.DefaultName
	}

	_, err := deps.PlanStore.GetByName(ctx, name)
	if err == nil {
		return nil // Already seeded
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	p := plan.Plan{
		ID:             newID(deps.GenerateID),
		Name:           name,
		DurationMonths: 1,
		Price:          decimal.Zero,
		Description:    "Introductory plan assigned to every new member.",
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "plans_seeded", "plan", name)
	return nil
}
