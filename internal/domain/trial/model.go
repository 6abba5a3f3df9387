// Package trial models free-trial signups. A signup is a standalone record:
// it is not an Account, never becomes a Member and carries no plan or payments.
package trial

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 150
	MaxPhoneLength    = 15
	MaxPasswordBytes  = 72
)

// HashCost is the bcrypt cost used for trial password hashes. Tests lower it.
var HashCost = bcrypt.DefaultCost

// Domain errors
var (
	ErrEmptyUsername   = errors.New("trial username cannot be empty")
	ErrUsernameTooLong = errors.New("trial username cannot exceed 150 characters")
	ErrEmptyPassword   = errors.New("trial password cannot be empty")
	ErrPasswordTooLong = errors.New("trial password cannot exceed 72 bytes")
	ErrNotHashed       = errors.New("trial password must be stored hashed")
	ErrEmptyPhone      = errors.New("trial phone cannot be empty")
	ErrMissingDOB      = errors.New("trial date of birth is required")
	ErrEmptyAddress    = errors.New("trial address cannot be empty")
)

// Signup is a free-trial registration.
type Signup struct {
	ID           string
	Username     string
	PasswordHash string
	Phone        string
	DateOfBirth  time.Time
	Address      string
	CreatedAt    time.Time
}

// SetPassword stores a one-way bcrypt hash of plaintext.
// PRE: plaintext is non-empty
// POST: PasswordHash holds a bcrypt hash; plaintext is not retained
func (s *Signup) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies plaintext against the stored hash.
// INVARIANT: Signup fields are not mutated
func (s *Signup) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(plaintext)) == nil
}

// Validate checks if the Signup has valid data.
// PRE: SetPassword has been called
// POST: Returns error if validation fails, nil otherwise
func (s *Signup) Validate() error {
	if strings.TrimSpace(s.Username) == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(s.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if _, err := bcrypt.Cost([]byte(s.PasswordHash)); err != nil {
		return ErrNotHashed
	}
	if strings.TrimSpace(s.Phone) == "" || utf8.RuneCountInString(s.Phone) > MaxPhoneLength {
		return ErrEmptyPhone
	}
	if s.DateOfBirth.IsZero() {
		return ErrMissingDOB
	}
	if strings.TrimSpace(s.Address) == "" {
		return ErrEmptyAddress
	}
	return nil
}
