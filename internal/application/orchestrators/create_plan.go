package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fitclub/internal/domain/access"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/money"
	"fitclub/internal/domain/plan"
)

// ErrPlanAccessRequired is returned when a plan is created without plan or admin access.
var ErrPlanAccessRequired = errors.New("plan access is required to add a plan")

// PlanStoreForCreate defines the store interface needed by CreatePlan.
type PlanStoreForCreate interface {
	Save(ctx context.Context, p plan.Plan) error
}

// CreatePlanInput carries the submitted plan form and the caller's access flags.
type CreatePlanInput struct {
	Values form.Values
	Flags  access.Flags
}

// CreatePlanDeps holds dependencies for CreatePlan.
type CreatePlanDeps struct {
	PlanStore  PlanStoreForCreate
	GenerateID func() string
}

// ExecuteCreatePlan validates and persists a new plan.
// PRE: input.Flags.HasPlanAccess() (admin implies plan access)
// POST: Plan persisted, or ErrPlanAccessRequired / form.Errors with nothing written
func ExecuteCreatePlan(ctx context.Context, input CreatePlanInput, deps CreatePlanDeps) (plan.Plan, error) {
	if !input.Flags.HasPlanAccess() {
		return plan.Plan{}, ErrPlanAccessRequired
	}

	values, errs := PlanSchema.Validate(input.Values)
	if len(errs) > 0 {
		return plan.Plan{}, errs
	}

	months, _ := strconv.Atoi(values.Get("duration_months"))
	price, _ := money.Parse(values.Get("price"))
	p := plan.Plan{
		ID:             newID(deps.GenerateID),
		Name:           values.Get("name"),
		DurationMonths: months,
		Price:          price,
		Description:    values.Get("description"),
	}
	if err := p.Validate(); err != nil {
		return plan.Plan{}, err
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return plan.Plan{}, fmt.Errorf("save plan: %w", err)
	}

	slog.Info("membership_event", "event", "plan_created", "plan_id", p.ID, "name", p.Name)
	return p, nil
}
