// Package inputval validates user-supplied request fields.
//
// Two layers: standalone predicates (IsValidEmail, IsValidObjectID) for
// one-off checks, and Validate, a small struct-tag validator for request
// payloads. Validate reads `validate:"rule,rule"` tags and a `label` tag
// used in user-facing messages.
//
// Supported rules: required, max=N, email, objectid, priority.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/taskhub/internal/domain/models"
)

// IsValidEmail reports whether the string is a plausible email address.
// Deliberately stricter than RFC 5322 parsing: display-name forms, leading
// or trailing dots, and consecutive dots are rejected because they are
// always mistakes in a login identifier even when technically parseable.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	if strings.ContainsAny(email, " \t<>") {
		return false
	}

	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if domain == "" {
		return false
	}

	if !validDotted(local) || !validDotted(domain) {
		return false
	}
	return true
}

// validDotted rejects empty parts, leading/trailing dots, and consecutive
// dots in a dot-separated identifier.
func validDotted(s string) bool {
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return false
	}
	return !strings.Contains(s, "..")
}

// IsValidObjectID reports whether the string is a 24-character hex MongoDB
// ObjectID. Surrounding whitespace is tolerated (trimmed before checking).
func IsValidObjectID(id string) bool {
	id = strings.TrimSpace(id)
	if len(id) != 24 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the validation errors for one payload.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "" when valid.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate runs the tagged rules of every string field of a struct value,
// in field declaration order. Non-string and untagged fields are skipped.
func Validate(v any) *Result {
	result := &Result{}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return result
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		rules := field.Tag.Get("validate")
		if rules == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := rv.Field(i).String()

		for _, rule := range strings.Split(rules, ",") {
			if msg := check(rule, label, value); msg != "" {
				result.Errors = append(result.Errors, FieldError{Field: field.Name, Message: msg})
				break // first failing rule per field
			}
		}
	}
	return result
}

// check evaluates one rule against a value; "" means the rule passed.
// Rules other than "required" pass on empty values so optional fields can
// combine with format rules.
func check(rule, label, value string) string {
	switch {
	case rule == "required":
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("%s is required.", label)
		}
	case strings.HasPrefix(rule, "max="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		if err == nil && utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case rule == "email":
		if value != "" && !IsValidEmail(value) {
			return "A valid email address is required."
		}
	case rule == "objectid":
		if value != "" && !IsValidObjectID(value) {
			return fmt.Sprintf("%s must be a valid id.", label)
		}
	case rule == "priority":
		if value != "" && !models.IsValidPriority(value) {
			return fmt.Sprintf("%s must be low, medium, or high.", label)
		}
	}
	return ""
}
