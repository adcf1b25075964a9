package validation

import (
	"strconv"
	"strings"
	"time"
)

// maxAgeYears is the oldest date of birth accepted. Anything older is
// treated as a typo rather than a real person.
const maxAgeYears = 120

// DateOfBirth validates the three date-of-birth components submitted by the
// form. Components are user-facing strings with 1-indexed months; the
// conversion to time.Date happens here and nowhere else.
func DateOfBirth(day, month, year string) Result {
	day = strings.TrimSpace(day)
	month = strings.TrimSpace(month)
	year = strings.TrimSpace(year)

	if day == "" || month == "" || year == "" {
		return Invalid(CodeBlank, "Enter the date of birth")
	}

	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return Invalid(CodeInvalidDate, "Enter a real date of birth")
	}
	if y < 1000 || y > 9999 {
		return Invalid(CodeInvalidDate, "Enter a real date of birth")
	}

	// time.Date normalises out-of-range components (31 February becomes
	// 2/3 March), so a round trip that changes any component means the
	// combination was not a real calendar date.
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if date.Year() != y || date.Month() != time.Month(m) || date.Day() != d {
		return Invalid(CodeInvalidDate, "Enter a real date of birth")
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.Before(today) {
		return Invalid(CodeNotInPast, "Date of birth must be in the past")
	}
	if date.Before(today.AddDate(-maxAgeYears, 0, 0)) {
		return Invalid(CodeTooOld, "Enter a real date of birth")
	}

	return Ok()
}
