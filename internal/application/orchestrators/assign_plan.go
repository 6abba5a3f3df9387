package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/access"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/plan"
)

// ErrAdminAccessRequired is returned when a membership change is attempted without admin access.
var ErrAdminAccessRequired = errors.New("admin access is required to change membership")

// MsgInvalidChoice is the field message for a plan id that does not exist.
const MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// MemberStoreForLifecycle defines the member store interface needed by lifecycle orchestrators.
type MemberStoreForLifecycle interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// PlanStoreForAssign defines the plan store interface needed by AssignPlan.
type PlanStoreForAssign interface {
	GetByID(ctx context.Context, id string) (plan.Plan, error)
}

// AssignPlanInput carries input for the orchestrator. An empty PlanID clears the plan.
type AssignPlanInput struct {
	MemberID string
	PlanID   string
	Flags    access.Flags
}

// AssignPlanDeps holds dependencies for AssignPlan.
type AssignPlanDeps struct {
	MemberStore MemberStoreForLifecycle
	PlanStore   PlanStoreForAssign
	Now         func() time.Time
}

// ExecuteAssignPlan sets or clears a member's plan and recomputes the expiry.
// PRE: input.Flags.AdminAccess is true
// POST: expiry = today + 30*months days for a plan, nil when cleared; member persisted
func ExecuteAssignPlan(ctx context.Context, input AssignPlanInput, deps AssignPlanDeps) (member.Member, error) {
	if !input.Flags.AdminAccess {
		return member.Member{}, ErrAdminAccessRequired
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}

	var selected *plan.Plan
	if input.PlanID != "" {
		p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
		if errors.Is(err, storage.ErrNotFound) {
			return member.Member{}, form.Errors{{Field: "membership_plan", Label: "Membership plan", Message: MsgInvalidChoice}}
		}
		if err != nil {
			return member.Member{}, fmt.Errorf("load plan: %w", err)
		}
		selected = &p
	}

	m.AssignPlan(selected, member.Today(now(deps.Now)))
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("save member: %w", err)
	}

	slog.Info("membership_event", "event", "plan_assigned", "member_id", m.ID, "plan_id", m.PlanID)
	return m, nil
}
