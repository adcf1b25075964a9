package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfservice/portal/internal/domain/validation"
)

func mandatory(value string, maxLength int) validation.Result {
	return validation.MandatoryField(value, maxLength)
}

func optional(value string, maxLength int) validation.Result {
	return validation.OptionalField(value, maxLength)
}

var testFields = []Field{
	{Name: "first-name", MaxLength: 100, Validate: mandatory},
	{Name: "last-name", MaxLength: 100, Validate: mandatory},
	{Name: "home-address-line-2", MaxLength: 200, Validate: optional},
}

func TestCollectTrimsValues(t *testing.T) {
	submission := url.Values{
		"first-name":          {"  Jane "},
		"last-name":           {"Doe"},
		"home-address-line-2": {" Flat 2 "},
		"dob-day":             {" 15 "},
	}

	values := Collect(submission, testFields, "dob-day")

	assert.Equal(t, "Jane", values.Get("first-name"))
	assert.Equal(t, "Doe", values.Get("last-name"))
	assert.Equal(t, "Flat 2", values.Get("home-address-line-2"))
	assert.Equal(t, "15", values.Get("dob-day"))
}

func TestValidateAggregatesErrorsInDeclarationOrder(t *testing.T) {
	values := Values{
		"first-name":          "",
		"last-name":           "",
		"home-address-line-2": "",
	}

	errs := Validate(values, testFields)

	require.False(t, errs.Empty())
	assert.Equal(t, 2, errs.Len())
	assert.Equal(t, []string{"first-name", "last-name"}, errs.Fields())
	assert.Equal(t, "This field cannot be blank", errs.Get("first-name"))
	assert.False(t, errs.Has("home-address-line-2"))
}

func TestValidateAllValid(t *testing.T) {
	values := Values{
		"first-name":          "Jane",
		"last-name":           "Doe",
		"home-address-line-2": "",
	}

	errs := Validate(values, testFields)
	assert.True(t, errs.Empty())
}

func TestErrorsFirstMessageWins(t *testing.T) {
	errs := NewErrors()
	errs.Add("postcode", "Please enter a real postcode")
	errs.Add("postcode", "This field cannot be blank")

	assert.Equal(t, 1, errs.Len())
	assert.Equal(t, "Please enter a real postcode", errs.Get("postcode"))
}

func TestErrorsMapRoundTrip(t *testing.T) {
	errs := NewErrors()
	errs.Add("a", "first")
	errs.Add("b", "second")

	assert.Equal(t, map[string]string{"a": "first", "b": "second"}, errs.Map())
}
