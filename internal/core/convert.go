package core

// convert.go provides cell-level conversion functions for spreadsheet data.
//
// These functions handle the messy reality of exported bank records:
//   - Multiple date formats (EU day-first, ISO, dotted, serial numbers)
//   - Phone numbers with separators and a country-code prefix
//   - Numeric-to-text coercion artifacts (trailing ".0")
//   - Placeholder strings ("nan", "None") left behind by earlier tooling
//
// All functions are pure: invalid input degrades to a pass-through value,
// never an error, so a single bad cell cannot abort a whole file.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// nonDigitRegex matches everything a phone number is not allowed to keep.
var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// DateOutputLayout is the rendering format for normalized date cells.
const DateOutputLayout = "02-01-2006"

// serialDateEpoch is the spreadsheet serial-date origin: day 1 is
// 1899-12-31, with the historical Lotus leap-year bug folded in.
var serialDateEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxDateSerial bounds the values treated as serial dates. Larger numerics
// (eg. a yyyymmdd digit run) go down the text-parsing path instead.
const maxDateSerial = 300000

// Date layouts split by year format for proper 2-digit year handling.
// Ambiguous numeric layouts are day-first; month-first forms sit after
// them so they only match when the day-first reading is impossible
// (day-first is a preference, not a mandate).
var (
	twoDigitYearLayouts = []string{
		"2/1/06", "02/01/06", "2-1-06", "2.1.06", "02.01.06",
		"1/2/06",
	}
	fourDigitYearLayouts = []string{
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05",
		"Jan 2, 2006", "2 Jan 2006", "2-Jan-2006", "02-Jan-2006",
		"1/2/2006", "01/02/2006", "1-2-2006",
		"20060102",
	}
)

// ParseDayFirstDate parses a textual date, resolving day-vs-month ambiguity
// in favour of the day. Supports 2-digit years with pivot adjustment.
func ParseDayFirstDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	currentYear := time.Now().Year()
	pivotYear := currentYear + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseDateSerial interprets a numeric cell as a spreadsheet serial date.
// Fractional day parts (time of day) are truncated.
func ParseDateSerial(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return time.Time{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f >= maxDateSerial {
		return time.Time{}, false
	}
	return serialDateEpoch.AddDate(0, 0, int(f)), true
}

// NormalizeDateCell converts a raw date cell to the dd-mm-yyyy text form.
// Blank cells become empty, serial numbers are resolved against the epoch,
// textual dates are parsed day-first, and anything unparseable is passed
// through unchanged.
func NormalizeDateCell(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	if t, ok := ParseDateSerial(v); ok {
		return t.Format(DateOutputLayout)
	}
	if t, ok := ParseDayFirstDate(v); ok {
		return t.Format(DateOutputLayout)
	}
	return s
}

// NormalizePhone strips every non-digit character from a phone value and
// removes the leading "91" country prefix from 12-digit numbers.
func NormalizePhone(s string) string {
	digits := nonDigitRegex.ReplaceAllString(strings.TrimSpace(s), "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits
}

// StripTrailingDecimalZero removes the ".0" artifact that numeric-to-text
// coercion appends to whole-number IDs. Only a trailing ".0" is removed so
// genuine decimal content elsewhere in the value survives.
func StripTrailingDecimalZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// NormalizeIDCell prepares an identifier cell (Aadhaar, account number) for
// text output: blank and "nan" placeholders become empty, everything else
// keeps its digits with the coercion artifact stripped.
func NormalizeIDCell(s string) string {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), "nan") {
		return ""
	}
	return StripTrailingDecimalZero(s)
}

// clearPlaceholder maps the literal placeholder strings upstream exports
// leave behind to empty. Matching is exact, not case-folded.
func clearPlaceholder(s string) string {
	switch s {
	case "nan", "NaN", "None":
		return ""
	}
	return s
}
