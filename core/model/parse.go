package model

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingPlate is returned for rows without a license plate.
	ErrMissingPlate = errors.New("missing plate")
	// ErrMalformedDate is returned when a date value cannot be parsed.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedAmount is returned when a monetary value cannot be parsed.
	ErrMalformedAmount = errors.New("malformed amount")
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

var location atomic.Pointer[time.Location]

// SetLocation sets the zone in which ParseDate reads values without an
// offset. nil restores UTC.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	location.Store(loc)
}

// Location returns the zone set with SetLocation.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// ParseDate parses the date formats produced by the import jobs. Values
// without a zone are read in Location.
func ParseDate(s string) (time.Time, error) {
	return ParseDateIn(s, Location())
}

// ParseDateIn is ParseDate with an explicit zone for values without an
// offset. The result is in UTC.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

// ParseMoney parses a currency amount such as "R$ 1.234,56", "1,234.56" or
// "150". The last separator found is treated as the decimal separator when it
// is followed by at most two digits.
func ParseMoney(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, "\u00a0", "")
	if clean == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedAmount)
	}
	clean = normalizeSeparators(clean)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return d.InexactFloat64(), nil
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	sep := lastDot
	if lastComma > sep {
		sep = lastComma
	}
	if sep < 0 {
		return s
	}
	decimals := len(s) - sep - 1
	if decimals == 0 || decimals > 2 {
		// "1.234" or "1,234": thousands grouping only.
		if lastDot >= 0 && lastComma >= 0 {
			return s
		}
		return strings.NewReplacer(".", "", ",", "").Replace(s)
	}
	intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:sep])
	return intPart + "." + s[sep+1:]
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// Day truncates t to the start of its UTC calendar day.
func Day(t time.Time) time.Time { return DayIn(t, time.UTC) }

// DayIn truncates t to the start of its calendar day in loc.
func DayIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of UTC calendar days from start to end.
func DaysBetween(start, end time.Time) int { return DaysBetweenIn(start, end, time.UTC) }

// DaysBetweenIn counts calendar days in loc. Days shortened or lengthened by
// a DST change still count as one.
func DaysBetweenIn(start, end time.Time, loc *time.Location) int {
	s, e := start.In(loc), end.In(loc)
	a := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
