// Package form validates submitted form values against an explicit schema:
// an ordered list of fields, each with a required flag and a list of rules.
// Errors are reported per field, in schema order.
package form

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator"
)

// DefaultRequiredMessage is used when a field does not set its own.
const DefaultRequiredMessage = "This field is required."

var validate = validator.New()

// Values are the submitted values keyed by field name.
type Values map[string]string

// Get returns the value for name, or "".
func (v Values) Get(name string) string {
	return v[name]
}

// FieldError is one failed check on one field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// Errors is the ordered list of field errors from one validation run.
type Errors []FieldError

// Error joins every message as "Label: message".
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Label+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// For returns the messages recorded against field.
func (e Errors) For(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

// Add appends an error for a field of s. Used for checks that need a store lookup.
func (e *Errors) Add(s Schema, field, message string) {
	*e = append(*e, FieldError{Field: field, Label: s.Label(field), Message: message})
}

// Rule is one check. Exactly one of Tag, Check or Parse is set.
type Rule struct {
	// Tag is a validator tag applied to the string value, e.g. "email" or "max=15".
	Tag string
	// Check receives the field value and all cleaned values; it returns false on failure.
	Check func(value string, all Values) bool
	// Parse reports failure through its error, whose text becomes the message.
	Parse   func(value string) error
	Message string
}

// Field describes one form input.
type Field struct {
	Name            string
	Label           string
	Required        bool
	RequiredMessage string
	// KeepSpace disables whitespace trimming (passwords).
	KeepSpace bool
	Rules     []Rule
}

// Schema is an ordered list of fields.
type Schema []Field

// Label returns the display label of field, or the field name if unknown.
func (s Schema) Label(field string) string {
	for _, f := range s {
		if f.Name == field {
			return f.Label
		}
	}
	return field
}

// Bind extracts the schema's fields from submitted form data.
func (s Schema) Bind(form url.Values) Values {
	values := make(Values, len(s))
	for _, f := range s {
		values[f.Name] = form.Get(f.Name)
	}
	return values
}

// Validate cleans values and runs every rule in schema order.
// PRE: values holds raw submitted strings
// POST: Returns cleaned values and the per-field errors; a field stops at its first failing rule
func (s Schema) Validate(values Values) (Values, Errors) {
	cleaned := make(Values, len(s))
	for _, f := range s {
		v := values[f.Name]
		if !f.KeepSpace {
			v = strings.TrimSpace(v)
		}
		cleaned[f.Name] = v
	}

	var errs Errors
	for _, f := range s {
		v := cleaned[f.Name]
		if v == "" {
			if f.Required {
				msg := f.RequiredMessage
				if msg == "" {
					msg = DefaultRequiredMessage
				}
				errs = append(errs, FieldError{Field: f.Name, Label: f.Label, Message: msg})
			}
			continue
		}
		for _, rule := range f.Rules {
			if msg, ok := rule.apply(v, cleaned); !ok {
				errs = append(errs, FieldError{Field: f.Name, Label: f.Label, Message: msg})
				break
			}
		}
	}
	return cleaned, errs
}

func (r Rule) apply(v string, all Values) (string, bool) {
	switch {
	case r.Parse != nil:
		if err := r.Parse(v); err != nil {
			if r.Message != "" {
				return r.Message, false
			}
			return err.Error(), false
		}
		return "", true
	case r.Check != nil:
		return r.Message, r.Check(v, all)
	default:
		return r.Message, validate.Var(v, r.Tag) == nil
	}
}
