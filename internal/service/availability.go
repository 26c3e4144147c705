package service

import (
	"errors"
	"time"
)

// ErrInvalidDateRange is returned when a check-in/check-out pair does not
// parse or checkOut is not after checkIn.
var ErrInvalidDateRange = errors.New("invalid check-in or check-out dates")

// dateLayouts are the accepted date formats, tried in order. Calendar
// dates are the common case; full timestamps are accepted for parity with
// clients that send ISO strings.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate parses a single date string in UTC.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ParseDateRange validates a search availability window. A window where
// checkOut equals checkIn is rejected; checkOut must be strictly later.
func ParseDateRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	start, errIn := ParseDate(checkIn)
	end, errOut := ParseDate(checkOut)
	if errIn != nil || errOut != nil || !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}
