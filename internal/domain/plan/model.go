package plan

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"fitclub/internal/domain/money"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// DaysPerMonth is the fixed month length used for every expiry computation.
// Expiry is never calendar-accurate: a 3 month plan always lasts 90 days.
const DaysPerMonth = 30

// DefaultName is the plan assigned to newly registered members.
const DefaultName = "Special plan"

// Domain errors
var (
	ErrEmptyName       = errors.New("plan name cannot be empty")
	ErrNameTooLong     = errors.New("plan name cannot exceed 100 characters")
	ErrInvalidDuration = errors.New("plan duration must be at least one month")
	ErrNegativePrice   = errors.New("plan price cannot be negative")
)

// Plan is a named membership tier with a duration and a price.
type Plan struct {
	ID             string
	Name           string
	DurationMonths int
	Price          decimal.Decimal
	Description    string
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: DurationMonths > 0, Price fits DECIMAL(10,2)
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if p.DurationMonths <= 0 {
		return ErrInvalidDuration
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return money.Validate(p.Price)
}

// TermDays returns the number of days one assignment of this plan grants.
func (p *Plan) TermDays() int {
	return p.DurationMonths * DaysPerMonth
}

// ExpiryFrom returns the date a membership on this plan lapses when assigned on today.
// INVARIANT: Plan fields are not mutated
func (p *Plan) ExpiryFrom(today time.Time) time.Time {
	return today.AddDate(0, 0, p.TermDays())
}

// String returns the plan name, as shown in selection lists.
func (p Plan) String() string {
	return p.Name
}
