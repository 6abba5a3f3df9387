package projections

import (
	"context"

	"fitclub/internal/adapters/storage/member"
	domainAccount "fitclub/internal/domain/account"
	domainMember "fitclub/internal/domain/member"
	domainPayment "fitclub/internal/domain/payment"
	domainPlan "fitclub/internal/domain/plan"
	domainTrial "fitclub/internal/domain/trial"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context, filter member.ListFilter) ([]domainMember.Member, error)
}

// AccountStore interface for resolving usernames.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (domainAccount.Account, error)
}

// PlanStore interface for plan queries.
type PlanStore interface {
	List(ctx context.Context) ([]domainPlan.Plan, error)
}

// PaymentStore interface for payment history.
type PaymentStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]domainPayment.Payment, error)
}

// TrialStore interface for trial signups.
type TrialStore interface {
	List(ctx context.Context) ([]domainTrial.Signup, error)
}
