package projections

import (
	"context"

	domainPlan "fitclub/internal/domain/plan"
)

// ListPlansDeps holds dependencies for the plan listing.
type ListPlansDeps struct {
	PlanStore PlanStore
}

// QueryListPlans returns every plan ordered by name.
// PRE: none
// POST: Returns all plans (possibly empty, never nil)
func QueryListPlans(ctx context.Context, deps ListPlansDeps) ([]domainPlan.Plan, error) {
	plans, err := deps.PlanStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domainPlan.Plan{}
	}
	return plans, nil
}
