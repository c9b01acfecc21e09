// Package window computes trailing time windows in the change log timestamp encoding
//
// Change log timestamps are fixed width YYYYMMDDHHMMSS strings in UTC so a cutoff
// rendered the same way can be compared lexicographically against stored rows
// without parsing them
package window

import (
	"time"

	perr "weeklypedia/internal/platform/errors"
)

// Layout is the fixed 14 character store encoding
const Layout = "20060102150405"

// Window is one trailing window resolved against a clock reading
type Window struct {
	Now    time.Time
	Days   int
	Cutoff string
}

// Format renders t in the store encoding (UTC, second resolution)
func Format(t time.Time) string { return t.UTC().Format(Layout) }

// Parse reads a store timestamp back into a UTC instant
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "invalid timestamp %q", s)
	}
	return t, nil
}

// Cutoff returns now minus days calendar days in the store encoding
// the result keeps the time of day, it is not rounded to midnight
func Cutoff(now time.Time, days int) (string, error) {
	if days <= 0 {
		return "", perr.WithField(perr.InvalidArgf("days must be positive, got %d", days), "days")
	}
	if now.IsZero() {
		return "", perr.WithField(perr.InvalidArgf("now is required"), "now")
	}
	return Format(now.UTC().AddDate(0, 0, -days)), nil
}

// New resolves a Window for now and days
func New(now time.Time, days int) (Window, error) {
	c, err := Cutoff(now, days)
	if err != nil {
		return Window{}, err
	}
	return Window{Now: now.UTC().Truncate(time.Second), Days: days, Cutoff: c}, nil
}
