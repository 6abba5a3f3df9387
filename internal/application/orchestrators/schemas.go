package orchestrators

import (
	"errors"

	"fitclub/internal/domain/account"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/money"
	"fitclub/internal/domain/payment"
	"fitclub/internal/domain/plan"
	"fitclub/internal/domain/trial"
)

// Field-level messages raised outside the schemas.
const (
	MsgUsernameTaken    = "A user with that username already exists."
	MsgPasswordMismatch = "The two password fields didn't match."
	MsgTrialMismatch    = "Passwords do not match."
	MsgPasswordTooLong  = "This password is too long. It must contain at most 72 bytes."
)

var usernameRules = []form.Rule{
	form.MaxLength(account.MaxUsernameLength),
	{
		Check:   func(v string, _ form.Values) bool { return account.ValidUsername(v) },
		Message: "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
	},
}

// MemberSchema lists the member registration fields in display order.
var MemberSchema = form.Schema{
	{Name: "username", Label: "Username", Required: true, Rules: usernameRules},
	{Name: "email", Label: "Email", Required: true, RequiredMessage: "Email is required.", Rules: []form.Rule{
		form.MaxLength(account.MaxEmailLength), form.Email(),
	}},
	{Name: "password1", Label: "Password", Required: true, KeepSpace: true, Rules: []form.Rule{
		form.Func(func(v string) error {
			if errors.Is(account.CheckPasswordStrength(v), account.ErrPasswordTooShort) {
				return account.ErrPasswordTooShort
			}
			return nil
		}, "This password is too short. It must contain at least 8 characters."),
		form.Func(func(v string) error {
			if errors.Is(account.CheckPasswordStrength(v), account.ErrPasswordNumeric) {
				return account.ErrPasswordNumeric
			}
			return nil
		}, "This password is entirely numeric."),
		form.MaxBytes(account.MaxPasswordBytes, MsgPasswordTooLong),
	}},
	{Name: "password2", Label: "Password confirmation", Required: true, KeepSpace: true, Rules: []form.Rule{
		form.Matches("password1", MsgPasswordMismatch),
	}},
	{Name: "phone", Label: "Phone", Required: true, RequiredMessage: "Phone number is required.", Rules: []form.Rule{
		form.MaxLength(member.MaxPhoneLength),
	}},
	{Name: "date_of_birth", Label: "Date of birth", Required: true, RequiredMessage: "Date of birth is required.", Rules: []form.Rule{
		form.Date(),
	}},
	{Name: "address", Label: "Address", Required: true, RequiredMessage: "Address is required."},
}

// TrialSchema lists the free-trial registration fields in display order.
var TrialSchema = form.Schema{
	{Name: "username", Label: "Username", Required: true, Rules: []form.Rule{form.MaxLength(trial.MaxUsernameLength)}},
	{Name: "password", Label: "Password", Required: true, RequiredMessage: "Password is required.", KeepSpace: true, Rules: []form.Rule{
		form.MaxBytes(trial.MaxPasswordBytes, MsgPasswordTooLong),
	}},
	{Name: "confirm_password", Label: "Confirm password", Required: true, RequiredMessage: "Password confirmation is required.", KeepSpace: true, Rules: []form.Rule{
		form.Matches("password", MsgTrialMismatch),
	}},
	{Name: "phone", Label: "Phone", Required: true, Rules: []form.Rule{form.MaxLength(member.MaxPhoneLength)}},
	{Name: "date_of_birth", Label: "Date of birth", Required: true, Rules: []form.Rule{form.Date()}},
	{Name: "address", Label: "Address", Required: true},
}

// PlanSchema validates the plan creation form.
var PlanSchema = form.Schema{
	{Name: "name", Label: "Name", Required: true, Rules: []form.Rule{form.MaxLength(plan.MaxNameLength)}},
	{Name: "duration_months", Label: "Duration months", Required: true, Rules: []form.Rule{form.Integer(), form.MinInt(1)}},
	{Name: "price", Label: "Price", Required: true, Rules: moneyRules},
	{Name: "description", Label: "Description", KeepSpace: true},
}

// PaymentSchema validates the payment form on the member detail page.
var PaymentSchema = form.Schema{
	{Name: "amount", Label: "Amount", Required: true, Rules: moneyRules},
	{Name: "status", Label: "Status", Required: true, Rules: []form.Rule{form.OneOf(statusChoices())}},
}

var moneyRules = []form.Rule{
	form.Func(func(v string) error {
		d, err := money.Parse(v)
		if err != nil {
			return err
		}
		return money.Validate(d)
	}, ""),
	form.Func(func(v string) error {
		d, _ := money.Parse(v)
		if d.IsNegative() {
			return plan.ErrNegativePrice
		}
		return nil
	}, "Ensure this value is greater than or equal to 0."),
}

func statusChoices() []string {
	out := make([]string, len(payment.ValidStatuses))
	for i, s := range payment.ValidStatuses {
		out[i] = string(s)
	}
	return out
}
