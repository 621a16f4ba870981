package sla

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseable is returned when a civil date or time string matches none
// of the accepted layouts.
var ErrUnparseable = errors.New("unparseable civil time")

const (
	civilDateLayout     = "02/01/2006"
	civilTimeLayout     = "15:04:05"
	civilDateTimeLayout = civilDateLayout + " " + civilTimeLayout
)

var (
	dateTimeLayouts = []string{"2/1/2006 15:04:05", "2/1/2006 15:04"}
	clockLayouts    = []string{"15:04:05", "15:04"}
	isoLayouts      = []string{time.RFC3339Nano, time.RFC3339}
	isoLocalLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"}
)

// ParseCivil combines a "DD/MM/YYYY" date and a "HH:MM[:SS]" time in loc.
func ParseCivil(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("civil %q %q: %w", date, clock, ErrUnparseable)
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("civil %q %q: %w", date, clock, ErrUnparseable)
}

// NormalizeCompletion converts every stored completion-time encoding to an
// instant:
//   - an ISO 8601 / RFC 3339 instant (zone-less ISO strings are read in loc),
//   - "DD/MM/YYYY HH:MM[:SS]" in loc,
//   - a bare "HH:MM[:SS]", taken on the calendar day of created in loc.
func NormalizeCompletion(raw string, created time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("completion %q: %w", raw, ErrUnparseable)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range isoLocalLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	if created.IsZero() {
		return time.Time{}, fmt.Errorf("completion %q without creation day: %w", raw, ErrUnparseable)
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, raw); err == nil {
			day := created.In(loc)
			return time.Date(day.Year(), day.Month(), day.Day(),
				c.Hour(), c.Minute(), c.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("completion %q: %w", raw, ErrUnparseable)
}

// FormatCivilDate renders t as "DD/MM/YYYY" in loc.
func FormatCivilDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(civilDateLayout)
}

// FormatCivilTime renders t as "HH:MM:SS" in loc.
func FormatCivilTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(civilTimeLayout)
}

// FormatCivilDateTime renders t as "DD/MM/YYYY HH:MM:SS" in loc. This is
// the encoding written for new completion times.
func FormatCivilDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(civilDateTimeLayout)
}
