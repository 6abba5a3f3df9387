package projections

import (
	"context"
	"time"

	"fitclub/internal/adapters/storage/member"
	domainMember "fitclub/internal/domain/member"
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	AccountID string
	Now       time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	MemberStore  MemberStore
	AccountStore AccountStore
	PlanStore    PlanStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Members       []MemberView `json:"members"`
	ExpiringCount int          `json:"expiring_count"`
}

// QueryGetDashboard lists the caller's members with the expiring-soon flag.
// PRE: AccountID identifies a logged-in account
// POST: ExpiringSoon is true iff expiry is set and before today + 30 days
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	members, err := deps.MemberStore.List(ctx, member.ListFilter{AccountID: query.AccountID})
	if err != nil {
		return DashboardResult{}, err
	}
	plans, err := deps.PlanStore.List(ctx)
	if err != nil {
		return DashboardResult{}, err
	}

	today := domainMember.Today(query.Now)
	byID := plansByID(plans)
	result := DashboardResult{Members: make([]MemberView, 0, len(members))}
	for _, m := range members {
		v := buildMemberView(ctx, m, deps.AccountStore, byID, today)
		if v.ExpiringSoon {
			result.ExpiringCount++
		}
		result.Members = append(result.Members, v)
	}
	return result, nil
}
