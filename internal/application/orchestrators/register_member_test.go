package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	emailAdapter "fitclub/internal/adapters/email"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/plan"
)

func validMemberForm() form.Values {
	return form.Values{
		"username":      "jane",
		"email":         "jane@example.com",
		"password1":     "correct horse",
		"password2":     "correct horse",
		"phone":         "555-0100",
		"date_of_birth": "1992-07-14",
		"address":       "1 Main St",
	}
}

func registerDeps(accounts *mockAccountStore, members *mockMemberStore, plans *mockPlanStore) RegisterMemberDeps {
	return RegisterMemberDeps{
		AccountStore: accounts,
		MemberStore:  members,
		PlanStore:    plans,
		GenerateID:   sequentialIDs("id"),
		Now:          fixedNow,
	}
}

// TestExecuteRegisterMember_AssignsDefaultPlan tests the happy path with a default plan.
func TestExecuteRegisterMember_AssignsDefaultPlan(t *testing.T) {
	accounts := newMockAccountStore()
	members := newMockMemberStore()
	plans := newMockPlanStore(plan.Plan{ID: "p1", Name: plan.DefaultName, DurationMonths: 2, Price: decimal.Zero})
	mailer := emailAdapter.NewNoopSender()
	deps := registerDeps(accounts, members, plans)
	deps.Mailer = mailer

	res, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
	m := members.members[res.Member.ID]
	if m.AccountID != res.Account.ID {
		t.Errorf("member linked to %q, want %q", m.AccountID, res.Account.ID)
	}
	if m.PlanID != "p1" {
		t.Errorf("expected plan p1, got %q", m.PlanID)
	}
	want := fixedToday().AddDate(0, 0, 60)
	if m.MembershipExpiry == nil || !m.MembershipExpiry.Equal(want) {
		t.Errorf("expiry = %v, want %v", m.MembershipExpiry, want)
	}
	if !m.JoinDate.Equal(fixedToday()) {
		t.Errorf("join date = %v, want today", m.JoinDate)
	}
	if accounts.accounts[res.Account.ID].PasswordHash == "correct horse" {
		t.Error("password stored in plaintext")
	}
	if len(mailer.Sent()) != 1 {
		t.Errorf("expected one welcome email, got %d", len(mailer.Sent()))
	}
}

// TestExecuteRegisterMember_NoDefaultPlan tests the non-fatal warning path.
func TestExecuteRegisterMember_NoDefaultPlan(t *testing.T) {
	members := newMockMemberStore()
	res, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()},
		registerDeps(newMockAccountStore(), members, newMockPlanStore()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != WarnDefaultPlanMissing {
		t.Errorf("warnings = %v", res.Warnings)
	}
	m := members.members[res.Member.ID]
	if m.PlanID != "" || m.MembershipExpiry != nil {
		t.Errorf("expected no plan and nil expiry, got %q %v", m.PlanID, m.MembershipExpiry)
	}
}

// TestExecuteRegisterMember_ValidationErrors tests that nothing is persisted on invalid input.
func TestExecuteRegisterMember_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(form.Values)
		field string
		msg   string
	}{
		{"missing phone", func(v form.Values) { v["phone"] = "" }, "phone", "Phone number is required."},
		{"password mismatch", func(v form.Values) { v["password2"] = "other horse" }, "password2", MsgPasswordMismatch},
		{"bad email", func(v form.Values) { v["email"] = "jane" }, "email", "Enter a valid email address."},
		{"bad date", func(v form.Values) { v["date_of_birth"] = "14/07/1992" }, "date_of_birth", "Enter a valid date."},
		{"numeric password", func(v form.Values) { v["password1"] = "12345678"; v["password2"] = "12345678" }, "password1", "This password is entirely numeric."},
		{"phone too long", func(v form.Values) { v["phone"] = "1234567890123456" }, "phone", "Ensure this value has at most 15 characters."},
		{"year one date", func(v form.Values) { v["date_of_birth"] = "0001-01-01" }, "date_of_birth", "Enter a valid date."},
		{"password over bcrypt limit", func(v form.Values) {
			long := strings.Repeat("ab", 37)
			v["password1"], v["password2"] = long, long
		}, "password1", MsgPasswordTooLong},
		{"multi-byte password over bcrypt limit", func(v form.Values) {
			long := strings.Repeat("é", 40)
			v["password1"], v["password2"] = long, long
		}, "password1", MsgPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := newMockAccountStore()
			members := newMockMemberStore()
			values := validMemberForm()
			tt.edit(values)

			_, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: values},
				registerDeps(accounts, members, newMockPlanStore()))

			var fe form.Errors
			if !errors.As(err, &fe) {
				t.Fatalf("expected form.Errors, got %v", err)
			}
			msgs := fe.For(tt.field)
			if len(msgs) != 1 || msgs[0] != tt.msg {
				t.Errorf("%s errors = %v, want %q", tt.field, msgs, tt.msg)
			}
			if len(accounts.accounts) != 0 || len(members.members) != 0 {
				t.Error("expected nothing persisted")
			}
		})
	}
}

// TestExecuteRegisterMember_MultiByteText tests that lengths are counted in characters.
func TestExecuteRegisterMember_MultiByteText(t *testing.T) {
	members := newMockMemberStore()
	values := validMemberForm()
	values["phone"] = "٠١٢٣٤٥٦٧٨٩٠" // 11 Arabic-Indic digits, 22 bytes

	res, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: values},
		registerDeps(newMockAccountStore(), members, newMockPlanStore()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := members.members[res.Member.ID].Phone; got != values["phone"] {
		t.Errorf("phone = %q, want %q", got, values["phone"])
	}
}

// TestExecuteRegisterMember_UsernameTaken tests the uniqueness check.
func TestExecuteRegisterMember_UsernameTaken(t *testing.T) {
	accounts := newMockAccountStore()
	deps := registerDeps(accounts, newMockMemberStore(), newMockPlanStore())
	if _, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()}, deps); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	_, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()}, deps)
	var fe form.Errors
	if !errors.As(err, &fe) || len(fe.For("username")) != 1 {
		t.Fatalf("expected username error, got %v", err)
	}
	if fe.Error() != "Username: "+MsgUsernameTaken {
		t.Errorf("error = %q", fe.Error())
	}
}

// TestExecuteRegisterMember_MemberSaveFailureRollsBack tests the compensating delete.
func TestExecuteRegisterMember_MemberSaveFailureRollsBack(t *testing.T) {
	accounts := newMockAccountStore()
	members := newMockMemberStore()
	members.saveErr = errStoreDown

	_, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()},
		registerDeps(accounts, members, newMockPlanStore()))
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(accounts.deleted) != 1 || len(accounts.accounts) != 0 {
		t.Errorf("expected account rollback, deleted=%v", accounts.deleted)
	}
}

// TestExecuteRegisterMember_PlanLookupFailure tests that a store failure is fatal.
func TestExecuteRegisterMember_PlanLookupFailure(t *testing.T) {
	plans := newMockPlanStore()
	plans.getErr = errStoreDown

	_, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()},
		registerDeps(newMockAccountStore(), newMockMemberStore(), plans))
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// TestExecuteRegisterMember_EmailFailureIsNonFatal tests the welcome email path.
func TestExecuteRegisterMember_EmailFailureIsNonFatal(t *testing.T) {
	deps := registerDeps(newMockAccountStore(), newMockMemberStore(), newMockPlanStore())
	deps.Mailer = failingMailer{}

	if _, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecuteRegisterMember_CustomDefaultPlan tests the configurable plan name.
func TestExecuteRegisterMember_CustomDefaultPlan(t *testing.T) {
	members := newMockMemberStore()
	plans := newMockPlanStore(plan.Plan{ID: "starter", Name: "Starter", DurationMonths: 1, Price: decimal.Zero})
	deps := registerDeps(newMockAccountStore(), members, plans)
	deps.DefaultPlan = "Starter"

	res, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{Values: validMemberForm()}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Plan == nil || res.Plan.ID != "starter" {
		t.Errorf("plan = %+v, want starter", res.Plan)
	}
}
