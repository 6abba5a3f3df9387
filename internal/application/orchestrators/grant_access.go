package orchestrators

import (
	"log/slog"

	"fitclub/internal/domain/access"
)

// Flash messages for the password forms.
const (
	MsgPasswordRequired   = "Password is required."
	MsgIncorrectPassword  = "Incorrect password."
	MsgPlanAccessGranted  = "Access granted to manage plans!"
	MsgAdminAccessGranted = "Admin access granted."
)

// GrantAccessInput carries the current flags and the submitted password.
type GrantAccessInput struct {
	Flags     access.Flags
	Password  string
	AccountID string // for logging only; empty for anonymous clients
}

// GrantAccessResult carries the new flags and the message to show.
type GrantAccessResult struct {
	Flags   access.Flags
	Granted bool
	Message string
}

// ExecuteGrantPlanAccess checks the plan-manager password.
// PRE: gate is non-nil
// POST: Flags.PlanAccess is set only on an exact match; other flags unchanged
func ExecuteGrantPlanAccess(gate *access.Gate, input GrantAccessInput) GrantAccessResult {
	if input.Password == "" {
		return GrantAccessResult{Flags: input.Flags, Message: MsgPasswordRequired}
	}
	flags, ok := gate.GrantPlanAccess(input.Flags, input.Password)
	logGrant("plan_access", ok, input.AccountID)
	if !ok {
		return GrantAccessResult{Flags: flags, Message: MsgIncorrectPassword}
	}
	return GrantAccessResult{Flags: flags, Granted: true, Message: MsgPlanAccessGranted}
}

// ExecuteGrantAdminAccess checks the admin password.
// PRE: gate is non-nil
// POST: Flags.AdminAccess is set only on an exact match; other flags unchanged
func ExecuteGrantAdminAccess(gate *access.Gate, input GrantAccessInput) GrantAccessResult {
	if input.Password == "" {
		return GrantAccessResult{Flags: input.Flags, Message: MsgPasswordRequired}
	}
	flags, ok := gate.GrantAdminAccess(input.Flags, input.Password)
	logGrant("admin_access", ok, input.AccountID)
	if !ok {
		return GrantAccessResult{Flags: flags, Message: MsgIncorrectPassword}
	}
	return GrantAccessResult{Flags: flags, Granted: true, Message: MsgAdminAccessGranted}
}

func logGrant(tier string, ok bool, accountID string) {
	event := tier + "_granted"
	if !ok {
		event = tier + "_denied"
	}
	slog.Info("auth_event", "event", event, "account_id", accountID)
}
