package projections

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/adapters/storage/member"
	"fitclub/internal/application/listutil"
	"fitclub/internal/domain/access"
	domainAccount "fitclub/internal/domain/account"
	domainMember "fitclub/internal/domain/member"
	domainPayment "fitclub/internal/domain/payment"
	domainPlan "fitclub/internal/domain/plan"
	domainTrial "fitclub/internal/domain/trial"
)

var fixedNow = time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)

func today() time.Time { return domainMember.Today(fixedNow) }

func expiryIn(days int) *time.Time {
	e := today().AddDate(0, 0, days)
	return &e
}

type mockMemberStore struct {
	members []domainMember.Member
	err     error
}

// GetByID returns a seeded member by ID.
// PRE: id is non-empty
// POST: Returns the seeded member or storage.ErrNotFound
func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	for _, mem := range m.members {
		if mem.ID == id {
			return mem, nil
		}
	}
	return domainMember.Member{}, storage.ErrNotFound
}

// List returns seeded members matching the account filter.
// PRE: filter is valid
// POST: Returns matching seeded members
func (m *mockMemberStore) List(_ context.Context, filter member.ListFilter) ([]domainMember.Member, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainMember.Member
	for _, mem := range m.members {
		if filter.AccountID == "" || mem.AccountID == filter.AccountID {
			out = append(out, mem)
		}
	}
	return out, nil
}

type mockAccountStore map[string]domainAccount.Account

// GetByID returns a seeded account.
// PRE: id is non-empty
// POST: Returns the account or storage.ErrNotFound
func (m mockAccountStore) GetByID(_ context.Context, id string) (domainAccount.Account, error) {
	a, ok := m[id]
	if !ok {
		return domainAccount.Account{}, storage.ErrNotFound
	}
	return a, nil
}

type mockPlanStore []domainPlan.Plan

// List returns the seeded plans.
// PRE: none
// POST: Returns all seeded plans
func (m mockPlanStore) List(context.Context) ([]domainPlan.Plan, error) {
	return m, nil
}

type mockPaymentStore map[string][]domainPayment.Payment

// ListByMemberID returns seeded payments for the member.
// PRE: memberID is non-empty
// POST: Returns seeded payments in stored order
func (m mockPaymentStore) ListByMemberID(_ context.Context, memberID string) ([]domainPayment.Payment, error) {
	return m[memberID], nil
}

type mockTrialStore []domainTrial.Signup

// List returns the seeded signups.
// PRE: none
// POST: Returns all seeded signups
func (m mockTrialStore) List(context.Context) ([]domainTrial.Signup, error) {
	return m, nil
}

func fixtures() (*mockMemberStore, mockAccountStore, mockPlanStore) {
	members := &mockMemberStore{members: []domainMember.Member{
		{ID: "m1", AccountID: "a1", PlanID: "p1", MembershipExpiry: expiryIn(29)},
		{ID: "m2", AccountID: "a2", PlanID: "p1", MembershipExpiry: expiryIn(30)},
		{ID: "m3", AccountID: "a3"},
		{ID: "m4", AccountID: "a4", MembershipExpiry: expiryIn(-1)},
	}}
	accounts := mockAccountStore{
		"a1": {ID: "a1", Username: "jane", Email: "jane@example.com"},
		"a2": {ID: "a2", Username: "sam"},
	}
	plans := mockPlanStore{{ID: "p1", Name: "Gold", DurationMonths: 1, Price: decimal.NewFromInt(30)}}
	return members, accounts, plans
}

// TestQueryGetDashboard_OwnMembersOnly verifies the account filter and expiring flag.
func TestQueryGetDashboard_OwnMembersOnly(t *testing.T) {
	members, accounts, plans := fixtures()

	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{AccountID: "a1", Now: fixedNow},
		GetDashboardDeps{MemberStore: members, AccountStore: accounts, PlanStore: plans})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(res.Members))
	}
	v := res.Members[0]
	if v.Username != "jane" || v.PlanName != "Gold" || !v.ExpiringSoon || res.ExpiringCount != 1 {
		t.Errorf("unexpected view %+v", v)
	}
}

// TestQueryGetAdminDashboard_ExpiringBoundary verifies the 29/30 day boundary across all members.
func TestQueryGetAdminDashboard_ExpiringBoundary(t *testing.T) {
	members, accounts, plans := fixtures()
	trials := mockTrialStore{{ID: "t1", Username: "trialist"}}

	res, err := QueryGetAdminDashboard(context.Background(), GetAdminDashboardQuery{Now: fixedNow},
		GetAdminDashboardDeps{MemberStore: members, AccountStore: accounts, PlanStore: plans, TrialStore: trials})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]bool{"m1": true, "m2": false, "m3": false, "m4": true}
	for _, v := range res.Members {
		if v.ExpiringSoon != want[v.MemberID] {
			t.Errorf("%s: ExpiringSoon = %v, want %v", v.MemberID, v.ExpiringSoon, want[v.MemberID])
		}
	}
	if res.ExpiringCount != 2 {
		t.Errorf("ExpiringCount = %d, want 2", res.ExpiringCount)
	}
	if len(res.Trials) != 1 {
		t.Errorf("expected 1 trial signup, got %d", len(res.Trials))
	}
	if !res.Members[3].Expired || res.Members[0].Expired {
		t.Error("expired flags wrong")
	}
}

// TestQueryGetAdminDashboard_ListParams verifies search, filters, sort and paging.
func TestQueryGetAdminDashboard_ListParams(t *testing.T) {
	members, accounts, plans := fixtures()
	deps := GetAdminDashboardDeps{MemberStore: members, AccountStore: accounts, PlanStore: plans}

	ids := func(views []MemberView) []string {
		out := make([]string, len(views))
		for i, v := range views {
			out[i] = v.MemberID
		}
		return out
	}

	tests := []struct {
		name      string
		list      listutil.ListParams
		want      []string
		wantTotal int
	}{
		{"search email", listutil.ListParams{FilterParams: listutil.FilterParams{Search: "EXAMPLE"}}, []string{"m1"}, 1},
		{"plan filter", listutil.ListParams{FilterParams: listutil.FilterParams{Filters: map[string]string{"plan": "p1"}}}, []string{"m1", "m2"}, 2},
		{"expiring", listutil.ListParams{FilterParams: listutil.FilterParams{Filters: map[string]string{"status": StatusFilterExpiring}}}, []string{"m1", "m4"}, 2},
		{"expired", listutil.ListParams{FilterParams: listutil.FilterParams{Filters: map[string]string{"status": StatusFilterExpired}}}, []string{"m4"}, 1},
		{"no plan", listutil.ListParams{FilterParams: listutil.FilterParams{Filters: map[string]string{"status": StatusFilterNoPlan}}}, []string{"m3", "m4"}, 2},
		{"expiry asc", listutil.ListParams{SortParams: listutil.SortParams{Sort: "expiry", Dir: "asc"}}, []string{"m4", "m1", "m2", "m3"}, 4},
		{"username desc", listutil.ListParams{SortParams: listutil.SortParams{Sort: "username", Dir: "desc"}}, []string{"m2", "m1", "m3", "m4"}, 4},
		{"second page", listutil.ListParams{PageParams: listutil.PageParams{Page: 2, PerPage: 3}}, []string{"m4"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryGetAdminDashboard(context.Background(), GetAdminDashboardQuery{Now: fixedNow, List: tt.list}, deps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ids(res.Members)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("members = %v, want %v", got, tt.want)
			}
			if res.Page.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", res.Page.Total, tt.wantTotal)
			}
			if res.ExpiringCount != 2 {
				t.Errorf("ExpiringCount = %d, want 2 regardless of filters", res.ExpiringCount)
			}
		})
	}
}

// TestQueryGetAdminDashboard_StoreError verifies errors propagate.
func TestQueryGetAdminDashboard_StoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := QueryGetAdminDashboard(context.Background(), GetAdminDashboardQuery{Now: fixedNow},
		GetAdminDashboardDeps{MemberStore: &mockMemberStore{err: boom}, PlanStore: mockPlanStore{}})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

// TestQueryGetMemberDetail_Authorization verifies owner, admin and stranger views.
func TestQueryGetMemberDetail_Authorization(t *testing.T) {
	members, accounts, plans := fixtures()
	payments := mockPaymentStore{"m1": {
		{ID: "pay2", MemberID: "m1", Amount: decimal.NewFromInt(30), Status: domainPayment.StatusCompleted},
		{ID: "pay1", MemberID: "m1", Amount: decimal.NewFromInt(30), Status: domainPayment.StatusFailed},
	}}
	deps := GetMemberDetailDeps{MemberStore: members, AccountStore: accounts, PlanStore: plans, PaymentStore: payments}

	tests := []struct {
		name       string
		accountID  string
		flags      access.Flags
		authorized bool
		canEdit    bool
	}{
		{"owner", "a1", access.Flags{}, true, false},
		{"admin", "a9", access.Flags{AdminAccess: true}, true, true},
		{"stranger", "a2", access.Flags{PlanAccess: true}, false, false},
		{"anonymous", "", access.Flags{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryGetMemberDetail(context.Background(),
				GetMemberDetailQuery{MemberID: "m1", AccountID: tt.accountID, Flags: tt.flags, Now: fixedNow}, deps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Authorized != tt.authorized || res.CanEdit != tt.canEdit {
				t.Errorf("authorized=%v canEdit=%v", res.Authorized, res.CanEdit)
			}
			if !tt.authorized {
				if res.Member != nil || len(res.Payments) != 0 {
					t.Error("expected empty payload")
				}
				return
			}
			if res.Member.Username != "jane" || len(res.Payments) != 2 || res.Payments[0].ID != "pay2" {
				t.Errorf("unexpected detail %+v", res)
			}
		})
	}
}

// TestQueryGetMemberDetail_NotFound verifies unknown members surface ErrNotFound.
func TestQueryGetMemberDetail_NotFound(t *testing.T) {
	members, accounts, plans := fixtures()
	_, err := QueryGetMemberDetail(context.Background(), GetMemberDetailQuery{MemberID: "ghost", Flags: access.Flags{AdminAccess: true}},
		GetMemberDetailDeps{MemberStore: members, AccountStore: accounts, PlanStore: plans, PaymentStore: mockPaymentStore{}})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestQueryListPlans_NeverNil verifies the empty listing.
func TestQueryListPlans_NeverNil(t *testing.T) {
	plans, err := QueryListPlans(context.Background(), ListPlansDeps{PlanStore: mockPlanStore(nil)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans == nil {
		t.Error("expected empty slice, got nil")
	}
}
