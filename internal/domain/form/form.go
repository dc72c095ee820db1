// Package form validates submitted HTML form fields and coerces them into
// the JSON payloads the backend expects.
package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Kind selects how a field is validated and coerced.
type Kind int

const (
	// Text is a required free-text field, trimmed before sending.
	Text Kind = iota
	// OptionalText is trimmed; blank becomes null.
	OptionalText
	// Int is a required integer field.
	Int
	// OptionalInt is an integer when present; blank becomes null.
	OptionalInt
	// ForeignKey is a required reference to another entity by numeric ID.
	ForeignKey
)

// Field describes one submitted field.
type Field struct {
	Name     string
	Kind     Kind
	Required string // message when a required field is blank
	Invalid  string // message when a numeric field does not parse
	Min      int    // inclusive bounds, checked only when Max > 0
	Max      int
}

// Schema is the ordered set of fields an action accepts.
type Schema []Field

// Values holds the raw submitted strings, exactly as typed.
type Values map[string]string

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// Extract copies the schema's fields out of a parsed form.
// Missing fields are recorded as empty strings so forms can re-render them.
func (s Schema) Extract(f url.Values) Values {
	v := make(Values, len(s))
	for _, field := range s {
		v[field.Name] = f.Get(field.Name)
	}
	return v
}

// Validate checks every field and returns all violations, not just the first.
// PRE: none
// POST: Returns an empty map when every field is acceptable
func (s Schema) Validate(v Values) FieldErrors {
	errs := FieldErrors{}
	for _, field := range s {
		raw := strings.TrimSpace(v[field.Name])
		switch field.Kind {
		case Text:
			if raw == "" {
				errs[field.Name] = field.requiredMessage()
			}
		case Int, ForeignKey:
			if raw == "" {
				errs[field.Name] = field.requiredMessage()
				continue
			}
			if msg := field.checkNumber(raw); msg != "" {
				errs[field.Name] = msg
			}
		case OptionalInt:
			if raw == "" {
				continue
			}
			if msg := field.checkNumber(raw); msg != "" {
				errs[field.Name] = msg
			}
		}
	}
	return errs
}

// Payload coerces validated values into the JSON body sent upstream.
// Numbers become int64, text is trimmed, blank optional fields become nil.
// PRE: Validate returned no errors for v
// POST: Every schema field has an entry in the returned map
func (s Schema) Payload(v Values) map[string]any {
	out := make(map[string]any, len(s))
	for _, field := range s {
		raw := strings.TrimSpace(v[field.Name])
		switch field.Kind {
		case Text:
			out[field.Name] = raw
		case OptionalText:
			if raw == "" {
				out[field.Name] = nil
			} else {
				out[field.Name] = raw
			}
		case Int, ForeignKey, OptionalInt:
			if raw == "" {
				out[field.Name] = nil
				continue
			}
			n, _ := strconv.ParseInt(raw, 10, 64)
			out[field.Name] = n
		}
	}
	return out
}

func (f Field) requiredMessage() string {
	if f.Required != "" {
		return f.Required
	}
	return fmt.Sprintf("%s is required", f.Name)
}

func (f Field) checkNumber(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if f.Invalid != "" {
			return f.Invalid
		}
		return fmt.Sprintf("%s must be a number", f.Name)
	}
	if f.Max > 0 && (n < int64(f.Min) || n > int64(f.Max)) {
		if f.Invalid != "" {
			return f.Invalid
		}
		return fmt.Sprintf("%s must be between %d and %d", f.Name, f.Min, f.Max)
	}
	return ""
}
