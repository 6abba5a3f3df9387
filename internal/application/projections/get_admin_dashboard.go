package projections

import (
	"context"
	"sort"
	"strings"
	"time"

	"fitclub/internal/adapters/storage/member"
	"fitclub/internal/application/listutil"
	domainMember "fitclub/internal/domain/member"
	domainTrial "fitclub/internal/domain/trial"
)

// GetAdminDashboardQuery carries input for the admin dashboard projection.
type GetAdminDashboardQuery struct {
	Now  time.Time
	List listutil.ListParams // zero value lists every member unpaged in join order
}

// Admin member list columns and filters accepted from the query string.
var (
	AdminSortColumns = []string{"username", "join_date", "expiry"}
	AdminFilterKeys  = []string{"plan", "status"}
)

// Status filter values for the admin member list.
const (
	StatusFilterExpiring = "expiring"
	StatusFilterExpired  = "expired"
	StatusFilterNoPlan   = "no_plan"
)

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	MemberStore  MemberStore
	AccountStore AccountStore
	PlanStore    PlanStore
	TrialStore   TrialStore // optional: nil skips trial signups
}

// AdminDashboardResult lists one page of members plus every trial signup.
// ExpiringCount covers all members, not just the listed ones.
type AdminDashboardResult struct {
	Members       []MemberView         `json:"members"`
	ExpiringCount int                  `json:"expiring_count"`
	Page          listutil.PageInfo    `json:"page"`
	Trials        []domainTrial.Signup `json:"-"`
}

// QueryGetAdminDashboard lists members matching the search and filters. Callers check admin access first.
// PRE: the session holds admin access
// POST: Members is sorted and paged per query.List; store order (join order) when unsorted
func QueryGetAdminDashboard(ctx context.Context, query GetAdminDashboardQuery, deps GetAdminDashboardDeps) (AdminDashboardResult, error) {
	members, err := deps.MemberStore.List(ctx, member.ListFilter{})
	if err != nil {
		return AdminDashboardResult{}, err
	}
	plans, err := deps.PlanStore.List(ctx)
	if err != nil {
		return AdminDashboardResult{}, err
	}

	today := domainMember.Today(query.Now)
	byID := plansByID(plans)
	list := query.List
	result := AdminDashboardResult{Members: make([]MemberView, 0, len(members))}
	for _, m := range members {
		v := buildMemberView(ctx, m, deps.AccountStore, byID, today)
		if v.ExpiringSoon {
			result.ExpiringCount++
		}
		if matchesAdminFilters(v, list.FilterParams) {
			result.Members = append(result.Members, v)
		}
	}

	sortMemberViews(result.Members, list.SortParams)
	if list.PerPage > 0 {
		result.Page = listutil.NewPageInfo(list.Page, list.PerPage, len(result.Members))
		result.Members = listutil.Window(result.Members, result.Page)
	} else {
		result.Page = listutil.NewPageInfo(1, max(len(result.Members), 1), len(result.Members))
	}

	if deps.TrialStore != nil {
		if result.Trials, err = deps.TrialStore.List(ctx); err != nil {
			return AdminDashboardResult{}, err
		}
	}
	return result, nil
}

func matchesAdminFilters(v MemberView, f listutil.FilterParams) bool {
	if !f.Matches(v.Username, v.Email, v.Phone) {
		return false
	}
	if planID, ok := f.Filters["plan"]; ok && v.PlanID != planID {
		return false
	}
	switch f.Filters["status"] {
	case StatusFilterExpiring:
		return v.ExpiringSoon
	case StatusFilterExpired:
		return v.Expired
	case StatusFilterNoPlan:
		return v.PlanID == ""
	}
	return true
}

// sortMemberViews orders views in place. Members without an expiry sort last ascending.
func sortMemberViews(views []MemberView, s listutil.SortParams) {
	var less func(a, b MemberView) bool
	switch s.Sort {
	case "username":
		less = func(a, b MemberView) bool { return strings.ToLower(a.Username) < strings.ToLower(b.Username) }
	case "join_date":
		less = func(a, b MemberView) bool { return a.JoinDate.Before(b.JoinDate) }
	case "expiry":
		less = func(a, b MemberView) bool {
			switch {
			case a.MembershipExpiry == nil:
				return false
			case b.MembershipExpiry == nil:
				return true
			}
			return a.MembershipExpiry.Before(*b.MembershipExpiry)
		}
	default:
		return
	}
	sort.SliceStable(views, func(i, j int) bool {
		if s.Desc() {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}
