// Package validation implements the field-level validators used by the
// onboarding forms. Validators are pure functions: the same input always
// produces the same Result and nothing is mutated.
package validation

import (
	"regexp"
	"strings"
)

// Error codes returned by validators. A field surfaces at most one code.
const (
	CodeBlank         = "BLANK"
	CodeTooLong       = "TOO_LONG"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeInvalidDate   = "INVALID_DATE"
	CodeNotInPast     = "NOT_IN_PAST"
	CodeTooOld        = "TOO_OLD"
)

// Result is the outcome of validating a single field or cross-field group
type Result struct {
	Valid   bool
	Code    string
	Message string
}

// Ok returns a valid result
func Ok() Result {
	return Result{Valid: true}
}

// Invalid returns a failed result with the given code and user-facing message
func Invalid(code, message string) Result {
	return Result{Valid: false, Code: code, Message: message}
}

var (
	// ukPostcodePattern matches UK postcodes such as "E8 4ER" or "SW1A 1AA"
	ukPostcodePattern = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9][A-Za-z0-9]?\s*[0-9][A-Za-z]{2}$`)
	// iePostcodePattern matches Irish Eircodes such as "D01 F5P2"
	iePostcodePattern = regexp.MustCompile(`^[AC-FHKNPRTV-Yac-fhknprtv-y][0-9]{2}\s*[0-9AC-FHKNPRTV-Yac-fhknprtv-y]{4}$`)

	phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

	sortCodePattern      = regexp.MustCompile(`^[0-9]{6}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{6,8}$`)
	// vatNumberPattern matches standard, government department and health
	// authority UK VAT registration numbers
	vatNumberPattern = regexp.MustCompile(`^GB([0-9]{9}([0-9]{3})?|GD[0-4][0-9]{2}|HA[5-9][0-9]{2})$`)
	// companyNumberPattern matches Companies House registration numbers
	companyNumberPattern = regexp.MustCompile(`^([0-9]{8}|[A-Za-z]{2}[0-9]{6})$`)
)

// MandatoryField fails with BLANK when the trimmed value is empty and with
// TOO_LONG when it exceeds maxLength
func MandatoryField(value string, maxLength int) Result {
	if strings.TrimSpace(value) == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	return checkLength(value, maxLength)
}

// OptionalField behaves like MandatoryField except that an empty value is valid
func OptionalField(value string, maxLength int) Result {
	if strings.TrimSpace(value) == "" {
		return Ok()
	}
	return checkLength(value, maxLength)
}

func checkLength(value string, maxLength int) Result {
	if maxLength > 0 && len([]rune(value)) > maxLength {
		return Invalid(CodeTooLong, "The text is too long")
	}
	return Ok()
}

// Postcode validates a postcode for the supported country set (UK and Ireland)
func Postcode(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	if !ukPostcodePattern.MatchString(trimmed) && !iePostcodePattern.MatchString(trimmed) {
		return Invalid(CodeInvalidFormat, "Please enter a real postcode")
	}
	return Ok()
}

// PhoneNumber validates a telephone number: an optional leading "+" followed
// by 9 to 15 digits, ignoring spaces, dashes and parentheses
func PhoneNumber(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	normalised := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, trimmed)
	if !phonePattern.MatchString(normalised) {
		return Invalid(CodeInvalidFormat, "Invalid telephone number")
	}
	return Ok()
}

// SortCode validates a UK bank sort code: six digits, ignoring spaces and
// dashes
func SortCode(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	if !sortCodePattern.MatchString(stripSeparators(trimmed)) {
		return Invalid(CodeInvalidFormat, "Enter a valid sort code")
	}
	return Ok()
}

// AccountNumber validates a UK bank account number: six to eight digits,
// ignoring spaces and dashes
func AccountNumber(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	if !accountNumberPattern.MatchString(stripSeparators(trimmed)) {
		return Invalid(CodeInvalidFormat, "Enter a valid account number")
	}
	return Ok()
}

// VATNumber validates a UK VAT registration number, ignoring spaces
func VATNumber(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	normalised := strings.ToUpper(strings.ReplaceAll(trimmed, " ", ""))
	if !vatNumberPattern.MatchString(normalised) {
		return Invalid(CodeInvalidFormat, "Enter a valid VAT number")
	}
	return Ok()
}

// CompanyNumber validates a Companies House registration number
func CompanyNumber(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(CodeBlank, "This field cannot be blank")
	}
	if !companyNumberPattern.MatchString(strings.ReplaceAll(trimmed, " ", "")) {
		return Invalid(CodeInvalidFormat, "Enter a valid company number")
	}
	return Ok()
}

func stripSeparators(value string) string {
	replacer := strings.NewReplacer(" ", "", "-", "")
	return replacer.Replace(value)
}
