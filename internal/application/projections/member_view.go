package projections

import (
	"context"
	"time"

	domainMember "fitclub/internal/domain/member"
	domainPlan "fitclub/internal/domain/plan"
)

// MemberView is a member flattened for display, with read-side flags computed for a given day.
type MemberView struct {
	MemberID         string     `json:"member_id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	DateOfBirth      time.Time  `json:"date_of_birth"`
	Address          string     `json:"address"`
	PlanID           string     `json:"plan_id,omitempty"`
	PlanName         string     `json:"plan_name,omitempty"`
	JoinDate         time.Time  `json:"join_date"`
	MembershipExpiry *time.Time `json:"membership_expiry"`
	ExpiringSoon     bool       `json:"expiring_soon"`
	Expired          bool       `json:"expired"`
}

// plansByID indexes plans for name lookups.
func plansByID(plans []domainPlan.Plan) map[string]domainPlan.Plan {
	out := make(map[string]domainPlan.Plan, len(plans))
	for _, p := range plans {
		out[p.ID] = p
	}
	return out
}

// buildMemberView resolves names for m. Account lookup failures leave the username blank.
func buildMemberView(ctx context.Context, m domainMember.Member, accounts AccountStore, plans map[string]domainPlan.Plan, today time.Time) MemberView {
	v := MemberView{
		MemberID:         m.ID,
		Phone:            m.Phone,
		DateOfBirth:      m.DateOfBirth,
		Address:          m.Address,
		PlanID:           m.PlanID,
		JoinDate:         m.JoinDate,
		MembershipExpiry: m.MembershipExpiry,
		ExpiringSoon:     m.IsExpiringSoon(today),
		Expired:          m.IsExpired(today),
	}
	if p, ok := plans[m.PlanID]; ok {
		v.PlanName = p.Name
	}
	if accounts != nil {
		if acct, err := accounts.GetByID(ctx, m.AccountID); err == nil {
			v.Username = acct.Username
			v.Email = acct.Email
		}
	}
	return v
}
