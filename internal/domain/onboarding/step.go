package onboarding

import (
	"fmt"
	"strconv"
	"time"
)

// StepState is the per-step submission state
type StepState string

const (
	// StateEditing: the merchant is filling in (or correcting) the form
	StateEditing StepState = "editing"
	// StateReviewing: values validated, check-your-answers shown
	StateReviewing StepState = "reviewing"
	// StateComplete: answers confirmed; terminal for the step
	StateComplete StepState = "complete"
)

// Form control fields carrying the submission intent
const (
	FieldAnswersChecked      = "answers-checked"
	FieldAnswersNeedChanging = "answers-need-changing"
)

// Intent is what the merchant asked for with this submission
type Intent int

const (
	// IntentFirstSubmit: a fresh form submission, show check-your-answers
	IntentFirstSubmit Intent = iota
	// IntentConfirm: answers confirmed from the review page
	IntentConfirm
	// IntentChange: the merchant wants to edit from the review page
	IntentChange
)

// ReadIntent derives the submission intent from the control flags
func ReadIntent(answersChecked, answersNeedChanging string) Intent {
	switch {
	case answersChecked == "true":
		return IntentConfirm
	case answersNeedChanging == "true":
		return IntentChange
	default:
		return IntentFirstSubmit
	}
}

// Next computes the state a valid submission with the given intent moves
// to. Invalid submissions always stay in StateEditing, which callers handle
// before consulting the intent.
func Next(intent Intent) StepState {
	switch intent {
	case IntentConfirm:
		return StateComplete
	case IntentChange:
		return StateEditing
	default:
		return StateReviewing
	}
}

// FormatDateOfBirth renders validated date-of-birth components for the
// check-your-answers page, e.g. "15 June 1990". Components must already
// have passed validation.DateOfBirth.
func FormatDateOfBirth(day, month, year string) string {
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%d %s %d", date.Day(), date.Month(), date.Year())
}
