package account

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MinPasswordLength = 8
	// MaxPasswordBytes is the most input bcrypt will hash.
	MaxPasswordBytes = 72
)

// HashCost is the bcrypt cost used for new password hashes. Tests lower it.
var HashCost = bcrypt.DefaultCost

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooLong  = errors.New("username cannot exceed 150 characters")
	ErrInvalidUsername  = errors.New("username may contain only letters, numbers, and @/./+/-/_ characters")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordNumeric  = errors.New("password cannot be entirely numeric")
	ErrPasswordTooLong  = errors.New("password cannot exceed 72 bytes")
	ErrWrongPassword    = errors.New("incorrect password")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Account is the login identity a Member belongs to.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ValidUsername reports whether s has the allowed username shape.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(a.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if !ValidUsername(a.Username) {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(a.Email) > MaxEmailLength || !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// CheckPasswordStrength applies the minimum password rules.
func CheckPasswordStrength(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if utf8.RuneCountInString(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(plaintext) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if strings.Trim(plaintext, "0123456789") == "" {
		return ErrPasswordNumeric
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext passes CheckPasswordStrength
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if err := CheckPasswordStrength(plaintext); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
