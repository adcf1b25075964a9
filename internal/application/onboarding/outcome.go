// Package onboarding implements the application services behind the Stripe
// KYC collection steps: gating on setup progress, the collect/validate/
// review/confirm pipeline, and the side effects a confirmation triggers.
package onboarding

import (
	"github.com/selfservice/portal/internal/domain/form"
)

// DashboardPath is where a confirmed step redirects the merchant
const DashboardPath = "/"

// RenderInstruction tells the template tier which view to render with what
// page data. The portal never renders templates itself.
type RenderInstruction struct {
	View string         `json:"view"`
	Data map[string]any `json:"data,omitempty"`
}

// StepOutcome is the result of a step operation: render a view or redirect
type StepOutcome struct {
	Render   *RenderInstruction `json:"render,omitempty"`
	Redirect string             `json:"redirect,omitempty"`
}

// RenderForm builds a form-view outcome. On validation failure the trimmed
// submitted values round-trip verbatim into the page data alongside the
// field-keyed errors.
func RenderForm(view string, values form.Values, errs *form.Errors) *StepOutcome {
	return &StepOutcome{Render: &RenderInstruction{View: view, Data: pageData(values, errs)}}
}

// Redirect builds a redirect outcome
func Redirect(to string) *StepOutcome {
	return &StepOutcome{Redirect: to}
}

func pageData(values form.Values, errs *form.Errors) map[string]any {
	data := make(map[string]any)
	if values != nil {
		data["values"] = map[string]string(values)
	}
	if errs != nil && !errs.Empty() {
		data["errors"] = errs.Map()
		data["errorFields"] = errs.Fields()
	}
	return data
}
