package order

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateOrder is the policy for resolving ambiguous numeric dates where
// both orderings form valid calendar dates.
type DateOrder string

const (
	// OrderMDY is the default locale assumption, a documented and
	// overridable policy rather than an inferred fact.
	OrderMDY DateOrder = "mdy"
	OrderDMY DateOrder = "dmy"
)

var (
	numericDateRe   = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	isoDateRe       = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthNameDateRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	dayFirstNameRe  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+(\d{4})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate finds and parses the first recognizable date in s. Numeric
// D/M vs M/D ambiguity is resolved by calendar validity; when both
// orderings are valid the given order policy decides.
func ParseDate(s string, order DateOrder) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := makeDate(year, month, day); ok {
			return d, true
		}
	}

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year := normalizeYear(m[3])
		if d, ok := resolveNumeric(first, second, year, order); ok {
			return d, true
		}
	}

	if m := monthNameDateRe.FindStringSubmatch(s); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := makeDate(year, int(month), day); ok {
			return d, true
		}
	}

	if m := dayFirstNameRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthsByPrefix[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if d, ok := makeDate(year, int(month), day); ok {
			return d, true
		}
	}

	return time.Time{}, false
}

// resolveNumeric interprets a first/second numeric pair under the order
// policy, falling back to whichever ordering yields a valid date.
func resolveNumeric(first, second, year int, order DateOrder) (time.Time, bool) {
	mdy, mdyOK := makeDate(year, first, second)
	dmy, dmyOK := makeDate(year, second, first)

	switch {
	case mdyOK && dmyOK:
		if order == OrderDMY {
			return dmy, true
		}
		return mdy, true
	case mdyOK:
		return mdy, true
	case dmyOK:
		return dmy, true
	default:
		return time.Time{}, false
	}
}

// makeDate validates the components form a real calendar date.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		// Day overflowed the month, e.g. Feb 30.
		return time.Time{}, false
	}
	return d, true
}

// normalizeYear expands two-digit years, pivoting at 70.
func normalizeYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) == 2 {
		if y < 70 {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}
