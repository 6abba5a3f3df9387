// Package access implements the two session-scoped privilege tiers: plan
// manager and admin. Both are unlocked by fixed shared passwords compared in
// plain text. This is the documented behavior of the gate, not a hardened
// authentication scheme.
package access

import (
	"errors"

	"fitclub/internal/domain/member"
)

// Default shared secrets.
const (
	DefaultPlanPassword  = "member121"
	DefaultAdminPassword = "admin121"
)

// ErrDenied is returned when a session lacks the privilege an action requires.
var ErrDenied = errors.New("access denied")

// Flags are the privilege bits carried by a session. The zero value is the
// state of a fresh session: no privileges.
type Flags struct {
	PlanAccess  bool `json:"plan_access"`
	AdminAccess bool `json:"admin_access"`
}

// HasPlanAccess reports whether plan management is allowed. Admin implies plan manager.
func (f Flags) HasPlanAccess() bool {
	return f.PlanAccess || f.AdminAccess
}

// Secrets are the shared passwords that unlock each tier.
type Secrets struct {
	PlanPassword  string
	AdminPassword string
}

// DefaultSecrets returns the stock passwords.
func DefaultSecrets() Secrets {
	return Secrets{PlanPassword: DefaultPlanPassword, AdminPassword: DefaultAdminPassword}
}

// Gate evaluates submitted passwords against the configured secrets.
type Gate struct {
	secrets Secrets
}

// NewGate creates a Gate for the given secrets.
// PRE: both secrets are non-empty
func NewGate(secrets Secrets) *Gate {
	return &Gate{secrets: secrets}
}

// GrantPlanAccess returns flags with PlanAccess set when submitted matches the plan secret.
// On mismatch the flags are returned unchanged and granted is false.
func (g *Gate) GrantPlanAccess(f Flags, submitted string) (Flags, bool) {
	if submitted == "" || submitted != g.secrets.PlanPassword {
		return f, false
	}
	f.PlanAccess = true
	return f, true
}

// GrantAdminAccess returns flags with AdminAccess set when submitted matches the admin secret.
// On mismatch the flags are returned unchanged and granted is false.
func (g *Gate) GrantAdminAccess(f Flags, submitted string) (Flags, bool) {
	if submitted == "" || submitted != g.secrets.AdminPassword {
		return f, false
	}
	f.AdminAccess = true
	return f, true
}

// AuthorizeMemberView reports whether the account may see m: it owns m, or the session is admin.
func AuthorizeMemberView(f Flags, accountID string, m member.Member) bool {
	if f.AdminAccess {
		return true
	}
	return accountID != "" && accountID == m.AccountID
}

// RevokeAll clears every privilege. Used on logout.
func RevokeAll(Flags) Flags {
	return Flags{}
}
