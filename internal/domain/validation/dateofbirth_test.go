package validation

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOfBirthValid(t *testing.T) {
	thirtyYearsAgo := time.Now().UTC().AddDate(-30, 0, 0)

	result := DateOfBirth("15", "6", strconv.Itoa(thirtyYearsAgo.Year()))
	assert.True(t, result.Valid)
}

func TestDateOfBirthBlankComponents(t *testing.T) {
	tests := []struct {
		name             string
		day, month, year string
	}{
		{name: "all blank", day: "", month: "", year: ""},
		{name: "missing day", day: "", month: "6", year: "1990"},
		{name: "missing month", day: "15", month: "", year: "1990"},
		{name: "missing year", day: "15", month: "6", year: ""},
		{name: "whitespace day", day: "  ", month: "6", year: "1990"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DateOfBirth(tt.day, tt.month, tt.year)
			assert.False(t, result.Valid)
			assert.Equal(t, CodeBlank, result.Code)
			assert.Equal(t, "Enter the date of birth", result.Message)
		})
	}
}

func TestDateOfBirthNotARealDate(t *testing.T) {
	tests := []struct {
		name             string
		day, month, year string
	}{
		{name: "31 February", day: "31", month: "2", year: "1990"},
		{name: "31 April", day: "31", month: "4", year: "1985"},
		{name: "29 February in non-leap year", day: "29", month: "2", year: "1991"},
		{name: "month thirteen", day: "1", month: "13", year: "1990"},
		{name: "day zero", day: "0", month: "6", year: "1990"},
		{name: "non-numeric day", day: "abc", month: "6", year: "1990"},
		{name: "two digit year", day: "15", month: "6", year: "90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DateOfBirth(tt.day, tt.month, tt.year)
			assert.False(t, result.Valid)
			assert.Equal(t, CodeInvalidDate, result.Code)
		})
	}
}

// Forms submit 1-indexed months. Guard against an off-by-one when the value
// is handed to time.Date: June submitted as "6" must validate as June, and a
// date only real in the adjacent month must not slip through.
func TestDateOfBirthMonthIndexing(t *testing.T) {
	// 30 June exists, 30 of month "6" must therefore be valid.
	assert.True(t, DateOfBirth("30", "6", "1990").Valid)

	// 31 June does not exist. With a 0-indexed bug month "6" would be
	// interpreted as July, where day 31 exists.
	result := DateOfBirth("31", "6", "1990")
	assert.False(t, result.Valid)
	assert.Equal(t, CodeInvalidDate, result.Code)

	// 29 February 1992 (leap year) is real; with a 0-indexed bug month "2"
	// would be March and the leap-day check would be skipped.
	assert.True(t, DateOfBirth("29", "2", "1992").Valid)
}

func TestDateOfBirthMustBeInPast(t *testing.T) {
	future := time.Now().UTC().AddDate(5, 0, 0)

	result := DateOfBirth("1", "1", strconv.Itoa(future.Year()))
	assert.False(t, result.Valid)
	assert.Equal(t, CodeNotInPast, result.Code)

	// Today is not in the past either.
	today := time.Now().UTC()
	result = DateOfBirth(
		strconv.Itoa(today.Day()),
		strconv.Itoa(int(today.Month())),
		strconv.Itoa(today.Year()),
	)
	assert.False(t, result.Valid)
	assert.Equal(t, CodeNotInPast, result.Code)
}

func TestDateOfBirthTooOld(t *testing.T) {
	result := DateOfBirth("1", "1", "1800")
	assert.False(t, result.Valid)
	assert.Equal(t, CodeTooOld, result.Code)
}
