package projections

import (
	"context"
	"time"

	"fitclub/internal/domain/access"
	domainMember "fitclub/internal/domain/member"
	domainPayment "fitclub/internal/domain/payment"
	domainPlan "fitclub/internal/domain/plan"
)

// GetMemberDetailQuery carries the member id and the viewer's identity.
type GetMemberDetailQuery struct {
	MemberID  string
	AccountID string
	Flags     access.Flags
	Now       time.Time
}

// GetMemberDetailDeps holds dependencies for the member detail projection.
type GetMemberDetailDeps struct {
	MemberStore  MemberStore
	AccountStore AccountStore
	PlanStore    PlanStore
	PaymentStore PaymentStore
}

// MemberDetailResult is empty apart from Authorized=false when the viewer may not see the member.
type MemberDetailResult struct {
	Authorized bool                    `json:"authorized"`
	CanEdit    bool                    `json:"can_edit"`
	Member     *MemberView             `json:"member"`
	Payments   []domainPayment.Payment `json:"payments"`
	Plans      []domainPlan.Plan       `json:"-"`
}

// QueryGetMemberDetail loads a member and its payments, newest first, if the viewer is authorized.
// PRE: MemberID is non-empty
// POST: Returns storage.ErrNotFound for an unknown member; an unauthorized viewer gets an empty payload
func QueryGetMemberDetail(ctx context.Context, query GetMemberDetailQuery, deps GetMemberDetailDeps) (MemberDetailResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, query.MemberID)
	if err != nil {
		return MemberDetailResult{}, err
	}
	if !access.AuthorizeMemberView(query.Flags, query.AccountID, m) {
		return MemberDetailResult{Payments: []domainPayment.Payment{}}, nil
	}

	plans, err := deps.PlanStore.List(ctx)
	if err != nil {
		return MemberDetailResult{}, err
	}
	payments, err := deps.PaymentStore.ListByMemberID(ctx, m.ID)
	if err != nil {
		return MemberDetailResult{}, err
	}
	if payments == nil {
		payments = []domainPayment.Payment{}
	}

	v := buildMemberView(ctx, m, deps.AccountStore, plansByID(plans), domainMember.Today(query.Now))
	return MemberDetailResult{
		Authorized: true,
		CanEdit:    query.Flags.AdminAccess,
		Member:     &v,
		Payments:   payments,
		Plans:      plans,
	}, nil
}
