package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "fitclub/internal/adapters/email"
	"fitclub/internal/adapters/storage"
	accountStore "fitclub/internal/adapters/storage/account"
	"fitclub/internal/domain/account"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/plan"
	"fitclub/internal/lib/sl"
)

// WarnDefaultPlanMissing is surfaced when registration finds no default plan.
const WarnDefaultPlanMissing = "Special Plan not found. No plan assigned."

// AccountStoreForRegister defines the account store interface needed by RegisterMember.
type AccountStoreForRegister interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
}

// MemberStoreForRegister defines the member store interface needed by RegisterMember.
type MemberStoreForRegister interface {
	Save(ctx context.Context, m member.Member) error
}

// PlanLookup finds a plan by exact name.
type PlanLookup interface {
	GetByName(ctx context.Context, name string) (plan.Plan, error)
}

// RegisterMemberInput carries the submitted registration form.
type RegisterMemberInput struct {
	Values form.Values
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	AccountStore AccountStoreForRegister
	MemberStore  MemberStoreForRegister
	PlanStore    PlanLookup
	Mailer       emailAdapter.Sender // optional: nil skips the welcome email
	DefaultPlan  string              // empty means plan.DefaultName
	GenerateID   func() string
	Now          func() time.Time
}

// RegisterMemberResult carries the created records and any non-fatal warnings.
type RegisterMemberResult struct {
	Account  account.Account
	Member   member.Member
	Plan     *plan.Plan
	Warnings []string
}

// ExecuteRegisterMember validates the form, creates the account and its member,
// and assigns the default plan when one exists.
// PRE: input.Values holds the raw form fields
// POST: On success the account and member are persisted; on form.Errors nothing is
// INVARIANT: A missing default plan never aborts registration
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (RegisterMemberResult, error) {
	values, errs := MemberSchema.Validate(input.Values)

	username := values.Get("username")
	if len(errs.For("username")) == 0 {
		_, err := deps.AccountStore.GetByUsername(ctx, username)
		switch {
		case err == nil:
			errs.Add(MemberSchema, "username", MsgUsernameTaken)
		case !errors.Is(err, storage.ErrNotFound):
			return RegisterMemberResult{}, fmt.Errorf("check username: %w", err)
		}
	}
	if len(errs) > 0 {
		return RegisterMemberResult{}, errs
	}

	created := now(deps.Now)
	today := member.Today(created)
	dob, _ := form.ParseDate(values.Get("date_of_birth"))

	acct := account.Account{
		ID:        newID(deps.GenerateID),
		Username:  username,
		Email:     values.Get("email"),
		CreatedAt: created,
	}
	if err := acct.SetPassword(values.Get("password1")); err != nil {
		return RegisterMemberResult{}, err
	}
	if err := acct.Validate(); err != nil {
		return RegisterMemberResult{}, err
	}

	m := member.Member{
		ID:          newID(deps.GenerateID),
		AccountID:   acct.ID,
		Phone:       values.Get("phone"),
		DateOfBirth: dob,
		Address:     values.Get("address"),
		JoinDate:    today,
	}
	if err := m.Validate(); err != nil {
		return RegisterMemberResult{}, err
	}

	result := RegisterMemberResult{}
	planName := deps.DefaultPlan
	if planName == "" {
		planName = plan.DefaultName
	}
	p, err := deps.PlanStore.GetByName(ctx, planName)
	switch {
	case err == nil:
		m.AssignPlan(&p, today)
		result.Plan = &p
	case errors.Is(err, storage.ErrNotFound):
		slog.Warn("registration_event", "event", "default_plan_missing", "plan", planName)
		result.Warnings = append(result.Warnings, WarnDefaultPlanMissing)
	default:
		return RegisterMemberResult{}, fmt.Errorf("look up default plan: %w", err)
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		if errors.Is(err, accountStore.ErrUsernameTaken) {
			var taken form.Errors
			taken.Add(MemberSchema, "username", MsgUsernameTaken)
			return RegisterMemberResult{}, taken
		}
		return RegisterMemberResult{}, fmt.Errorf("save account: %w", err)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		if delErr := deps.AccountStore.Delete(ctx, acct.ID); delErr != nil {
			slog.Error("registration_event", "event", "rollback_failed", "account_id", acct.ID, sl.Err(delErr))
		}
		return RegisterMemberResult{}, fmt.Errorf("save member: %w", err)
	}

	slog.Info("registration_event", "event", "member_registered", "account_id", acct.ID, "member_id", m.ID, "plan_assigned", result.Plan != nil)

	if deps.Mailer != nil {
		sendWelcome(ctx, deps.Mailer, acct, result.Plan)
	}

	result.Account = acct
	result.Member = m
	return result, nil
}

func sendWelcome(ctx context.Context, mailer emailAdapter.Sender, acct account.Account, p *plan.Plan) {
	planName := ""
	if p != nil {
		planName = p.Name
	}
	req, err := emailAdapter.Welcome(acct.Email, acct.Username, planName)
	if err == nil {
		_, err = mailer.Send(ctx, req)
	}
	if err != nil {
		slog.Warn("registration_event", "event", "welcome_email_failed", "account_id", acct.ID, sl.Err(err))
	}
}
