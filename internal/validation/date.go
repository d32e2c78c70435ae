package validation

import (
	"regexp"
	"time"

	apperr "contractpay/internal/errors"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

// Date parses a YYYY-M-D report boundary as midnight UTC.
func Date(s string) (time.Time, error) {
	if !dateRegex.MatchString(s) {
		return time.Time{}, apperr.New(apperr.KindValidation, "date format is invalid")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, apperr.New(apperr.KindValidation, "date %q is not a calendar date", s)
	}
	return t, nil
}

// Period parses both report boundaries and checks their order.
func Period(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, apperr.New(apperr.KindValidation, "a start and end date are mandatory")
	}
	from, err := Date(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := Date(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, apperr.ErrInvalidPeriod
	}
	return from, to, nil
}
