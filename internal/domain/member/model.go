package member

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"fitclub/internal/domain/plan"
)

// Max length constants for user-editable fields.
const (
	MaxPhoneLength = 15
)

// Business rule constants
const (
	// RenewalDays is how far a single payment pushes the expiry date.
	RenewalDays = 30
	// ExpiringWindowDays is the look-ahead used to flag memberships about to lapse.
	ExpiringWindowDays = 30
)

// Domain errors
var (
	ErrMissingAccount = errors.New("member must belong to an account")
	ErrEmptyPhone     = errors.New("member phone cannot be empty")
	ErrPhoneTooLong   = errors.New("member phone cannot exceed 15 characters")
	ErrMissingDOB     = errors.New("member date of birth is required")
	ErrEmptyAddress   = errors.New("member address cannot be empty")
)

// Member is a registered gym user linked one-to-one with an account.
type Member struct {
	ID               string
	AccountID        string
	Phone            string
	DateOfBirth      time.Time
	Address          string
	PlanID           string     // empty when no plan is assigned
	JoinDate         time.Time  // set once at creation
	MembershipExpiry *time.Time // nil until a plan or payment produces an expiry
}

// Today truncates now to a calendar date in UTC, the unit every expiry is kept in.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Member) Validate() error {
	if m.AccountID == "" {
		return ErrMissingAccount
	}
	if strings.TrimSpace(m.Phone) == "" {
		return ErrEmptyPhone
	}
	if utf8.RuneCountInString(m.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if m.DateOfBirth.IsZero() {
		return ErrMissingDOB
	}
	if strings.TrimSpace(m.Address) == "" {
		return ErrEmptyAddress
	}
	return nil
}

// HasPlan returns true if a plan is currently assigned.
// INVARIANT: Member fields are not mutated
func (m *Member) HasPlan() bool {
	return m.PlanID != ""
}

// AssignPlan sets the member's plan and restarts the expiry from today.
// A nil plan clears both the plan and the expiry.
// PRE: today is a date as returned by Today
// POST: PlanID and MembershipExpiry reflect p
func (m *Member) AssignPlan(p *plan.Plan, today time.Time) {
	if p == nil {
		m.PlanID = ""
		m.MembershipExpiry = nil
		return
	}
	expiry := p.ExpiryFrom(today)
	m.PlanID = p.ID
	m.MembershipExpiry = &expiry
}

// ApplyPayment renews the membership for one payment.
// A still-running membership is extended by RenewalDays on top of its remaining
// term; a lapsed or never-started one restarts at today + RenewalDays.
// PRE: today is a date as returned by Today
// POST: MembershipExpiry is non-nil and strictly after today
func (m *Member) ApplyPayment(today time.Time) {
	var expiry time.Time
	if m.MembershipExpiry != nil && m.MembershipExpiry.After(today) {
		expiry = m.MembershipExpiry.AddDate(0, 0, RenewalDays)
	} else {
		expiry = today.AddDate(0, 0, RenewalDays)
	}
	m.MembershipExpiry = &expiry
}

// IsExpiringSoon reports whether the membership lapses within the warning window.
// A member without an expiry is never expiring; one already lapsed is.
// INVARIANT: Member fields are not mutated
func (m *Member) IsExpiringSoon(today time.Time) bool {
	if m.MembershipExpiry == nil {
		return false
	}
	return m.MembershipExpiry.Before(today.AddDate(0, 0, ExpiringWindowDays))
}

// IsExpired reports whether the expiry date has passed.
// INVARIANT: Member fields are not mutated
func (m *Member) IsExpired(today time.Time) bool {
	return m.MembershipExpiry != nil && m.MembershipExpiry.Before(today)
}
