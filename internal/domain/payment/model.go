package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fitclub/internal/domain/money"
)

// Status is the state a payment was recorded with. Payments are never
// transitioned after creation; the caller supplies the final status.
type Status string

// Status constants
const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// ValidStatuses lists statuses in display order.
var ValidStatuses = []Status{StatusPending, StatusCompleted, StatusFailed}

// RenewalPolicy decides which payments extend a membership.
type RenewalPolicy string

// Renewal policies
const (
	// PolicyAnyStatus renews on every recorded payment, including Failed ones.
	// This is the historical behavior and the default.
	PolicyAnyStatus RenewalPolicy = "any_status"
	// PolicyCompletedOnly renews only on Completed payments.
	PolicyCompletedOnly RenewalPolicy = "completed_only"
)

// Domain errors
var (
	ErrMissingMember  = errors.New("payment must reference a member")
	ErrInvalidStatus  = errors.New("status must be one of: Pending, Completed, Failed")
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrUnknownPolicy  = errors.New("renewal policy must be 'any_status' or 'completed_only'")
)

// Payment is an append-only ledger entry owned by a member.
type Payment struct {
	ID       string          `json:"id"`
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	PaidAt   time.Time       `json:"paid_at"` // set once at creation
	Status   Status          `json:"status"`
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Payment) Validate() error {
	if p.MemberID == "" {
		return ErrMissingMember
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return money.Validate(p.Amount)
}

// IsValid returns true if s is a known status.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseRenewalPolicy maps a configuration value to a policy. Empty means the default.
func ParseRenewalPolicy(s string) (RenewalPolicy, error) {
	switch RenewalPolicy(s) {
	case "", PolicyAnyStatus:
		return PolicyAnyStatus, nil
	case PolicyCompletedOnly:
		return PolicyCompletedOnly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Renews reports whether a payment with status s extends the membership.
func (p RenewalPolicy) Renews(s Status) bool {
	if p == PolicyCompletedOnly {
		return s == StatusCompleted
	}
	return true
}
