// Package form models a single onboarding form submission: the declared
// fields of a step, the normalised values the merchant submitted, and the
// field-keyed error set produced by validation.
package form

import (
	"strings"

	"github.com/selfservice/portal/internal/domain/validation"
)

// Validator validates a single field value against its constraints
type Validator func(value string, maxLength int) validation.Result

// Field declares one field of an onboarding step. Each field has exactly one
// authoritative validator, so at most one error message can surface for it.
type Field struct {
	Name      string
	MaxLength int
	Validate  Validator
}

// Values holds the trimmed submitted values keyed by field name
type Values map[string]string

// Get returns the trimmed value for a field, or the empty string
func (v Values) Get(name string) string {
	return v[name]
}

// Errors is a field-keyed error set. Iteration order follows field
// declaration order so the error summary renders deterministically.
type Errors struct {
	order    []string
	messages map[string]string
}

// NewErrors returns an empty error set
func NewErrors() *Errors {
	return &Errors{messages: make(map[string]string)}
}

// Add records an error for a field. The first message for a field wins.
func (e *Errors) Add(field, message string) {
	if _, exists := e.messages[field]; exists {
		return
	}
	e.order = append(e.order, field)
	e.messages[field] = message
}

// Get returns the message recorded for a field
func (e *Errors) Get(field string) string {
	return e.messages[field]
}

// Has reports whether an error is recorded for a field
func (e *Errors) Has(field string) bool {
	_, ok := e.messages[field]
	return ok
}

// Empty reports whether the set holds no errors
func (e *Errors) Empty() bool {
	return len(e.order) == 0
}

// Len returns the number of fields in error
func (e *Errors) Len() int {
	return len(e.order)
}

// Fields returns the field names in declaration order
func (e *Errors) Fields() []string {
	return append([]string(nil), e.order...)
}

// Map returns the error set as a plain field → message map for page data
func (e *Errors) Map() map[string]string {
	out := make(map[string]string, len(e.messages))
	for k, v := range e.messages {
		out[k] = v
	}
	return out
}

// Submission reads raw form values. Implemented by url.Values and by
// gin's PostForm via a small adapter at the HTTP layer.
type Submission interface {
	Get(name string) string
}

// Collect trims the submitted value of every declared field plus any extra
// field names (date-of-birth components validated cross-field) into Values.
// The original input is never lost: on validation failure these values go
// straight back into the re-rendered page data.
func Collect(submission Submission, fields []Field, extra ...string) Values {
	values := make(Values, len(fields)+len(extra))
	for _, f := range fields {
		values[f.Name] = strings.TrimSpace(submission.Get(f.Name))
	}
	for _, name := range extra {
		values[name] = strings.TrimSpace(submission.Get(name))
	}
	return values
}

// Validate runs every declared field validator over the collected values,
// in declaration order, and returns the aggregated error set.
func Validate(values Values, fields []Field) *Errors {
	errs := NewErrors()
	for _, f := range fields {
		result := f.Validate(values.Get(f.Name), f.MaxLength)
		if !result.Valid {
			errs.Add(f.Name, result.Message)
		}
	}
	return errs
}
