package form

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the layout accepted by date inputs.
const DateLayout = "2006-01-02"

// Email requires a syntactically valid address.
func Email() Rule {
	return Rule{Tag: "email", Message: "Enter a valid email address."}
}

// MaxLength caps the value length in characters.
func MaxLength(n int) Rule {
	return Rule{
		Tag:     fmt.Sprintf("max=%d", n),
		Message: fmt.Sprintf("Ensure this value has at most %d characters.", n),
	}
}

// MaxBytes caps the encoded value length. Used where a downstream limit counts bytes.
func MaxBytes(n int, message string) Rule {
	return Rule{
		Check:   func(v string, _ Values) bool { return len(v) <= n },
		Message: message,
	}
}

// Date requires a YYYY-MM-DD value after year 1. The zero date doubles as "unset"
// in the domain models, so it is refused here.
func Date() Rule {
	return Rule{
		Check: func(v string, _ Values) bool {
			t, err := ParseDate(v)
			return err == nil && !t.IsZero()
		},
		Message: "Enter a valid date.",
	}
}

// Integer requires a whole number.
func Integer() Rule {
	return Rule{
		Check: func(v string, _ Values) bool {
			_, err := strconv.Atoi(v)
			return err == nil
		},
		Message: "Enter a whole number.",
	}
}

// MinInt requires a whole number >= min. Pair it after Integer.
func MinInt(min int) Rule {
	return Rule{
		Check: func(v string, _ Values) bool {
			n, err := strconv.Atoi(v)
			return err == nil && n >= min
		},
		Message: fmt.Sprintf("Ensure this value is greater than or equal to %d.", min),
	}
}

// OneOf requires the value to be in choices.
func OneOf(choices []string) Rule {
	return Rule{
		Check: func(v string, _ Values) bool {
			for _, c := range choices {
				if c == v {
					return true
				}
			}
			return false
		},
		Message: "Select a valid choice. That choice is not one of the available choices.",
	}
}

// Matches requires the value to equal another field, skipping the check when
// the other field is blank (it reports its own required error).
func Matches(other, message string) Rule {
	return Rule{
		Check: func(v string, all Values) bool {
			o := all[other]
			return o == "" || o == v
		},
		Message: message,
	}
}

// Func wraps an error-returning check. An empty message reports the error text.
func Func(check func(string) error, message string) Rule {
	return Rule{Parse: check, Message: message}
}

// ParseDate parses a value accepted by Date.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, v, time.UTC)
}
