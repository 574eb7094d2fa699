// Package week maps calendar dates to ISO-8601 week identifiers and back.
//
// Identifiers have the fixed-width form "YYYY-Www" (for example "2026-W07").
// Because the year is four digits and the week number zero-padded to two,
// plain string comparison orders identifiers chronologically. Callers rely on
// that, so the format must never loosen.
package week

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var idPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// FormatError reports a week identifier that does not match YYYY-Www.
type FormatError struct {
	ID string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed week identifier %q (want YYYY-Www)", e.ID)
}

// IDFor returns the ISO week identifier of the week containing t. Year
// boundaries follow ISO 8601: a late-December date can fall in week 1 of the
// next ISO year, and an early-January date in the last week of the previous.
func IDFor(t time.Time) string {
	year, wk := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, wk)
}

// Current returns the identifier of the week containing now.
func Current() string {
	return IDFor(time.Now())
}

// Valid reports whether id is a well-formed week identifier with a week
// number in 1..53.
func Valid(id string) bool {
	_, wk, err := split(id)
	return err == nil && wk >= 1 && wk <= 53
}

func split(id string) (year, wk int, err error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, &FormatError{ID: id}
	}
	year, _ = strconv.Atoi(m[1])
	wk, _ = strconv.Atoi(m[2])
	return year, wk, nil
}

// Parse returns the Monday of the identified ISO week.
func Parse(id string) (time.Time, error) {
	year, wk, err := split(id)
	if err != nil {
		return time.Time{}, err
	}
	if wk < 1 || wk > 53 {
		return time.Time{}, &FormatError{ID: id}
	}
	if wk > WeeksIn(year) {
		return time.Time{}, fmt.Errorf("ISO year %d has no week %d", year, wk)
	}
	return firstMonday(year).AddDate(0, 0, (wk-1)*7), nil
}

// firstMonday returns the Monday of week 1 of the given ISO year, i.e. the
// Monday of the week containing January 4th.
func firstMonday(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	return jan4.AddDate(0, 0, -offset)
}

// WeeksIn returns the number of ISO weeks (52 or 53) in the given ISO year.
func WeeksIn(year int) int {
	// December 28th is always in the last week of its ISO year.
	_, wk := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return wk
}

// Previous returns the identifier of the week before id, rolling into the
// prior ISO year's last week (52 or 53) when id names week 1.
func Previous(id string) (string, error) {
	year, wk, err := split(id)
	if err != nil {
		return "", err
	}
	if wk < 1 || wk > 53 {
		return "", &FormatError{ID: id}
	}
	if wk > 1 {
		return fmt.Sprintf("%04d-W%02d", year, wk-1), nil
	}
	return fmt.Sprintf("%04d-W%02d", year-1, WeeksIn(year-1)), nil
}

// Next returns the identifier of the week after id.
func Next(id string) (string, error) {
	year, wk, err := split(id)
	if err != nil {
		return "", err
	}
	if wk < 1 || wk > 53 {
		return "", &FormatError{ID: id}
	}
	if wk < WeeksIn(year) {
		return fmt.Sprintf("%04d-W%02d", year, wk+1), nil
	}
	return fmt.Sprintf("%04d-W01", year+1), nil
}
