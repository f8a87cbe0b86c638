// Package clinictime provides the zone-less wall-clock time used throughout
// the clinic scheduling subsystem. Appointment and stage dates are "clinic
// local" values with no timezone attached; mixing zoned and naive timestamps
// is what this type exists to prevent.
package clinictime

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the canonical wire format for LocalTime values.
	Layout = "2006-01-02T15:04:05"
	// DateLayout is the date-only form accepted by Parse.
	DateLayout = "2006-01-02"
)

// LocalTime is a clinic-local date and time with no timezone. Internally it
// is carried in UTC, but the location is meaningless: comparisons and
// arithmetic operate on the wall-clock value only.
type LocalTime struct {
	t time.Time
}

// New builds a LocalTime from its components.
func New(year int, month time.Month, day, hour, min int) LocalTime {
	return LocalTime{t: time.Date(year, month, day, hour, min, 0, 0, time.UTC)}
}

// Date builds a LocalTime at midnight of the given day.
func Date(year int, month time.Month, day int) LocalTime {
	return New(year, month, day, 0, 0)
}

// FromTime strips the location (and sub-minute precision) from t, keeping its
// wall-clock reading. A zoned timestamp coming in from a client or the
// database is taken as-is, not converted.
func FromTime(t time.Time) LocalTime {
	return New(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute())
}

// Today returns midnight of the current local day.
func Today() LocalTime {
	now := time.Now()
	return Date(now.Year(), now.Month(), now.Day())
}

// Parse accepts "2006-01-02T15:04:05", the same with a trailing zone suffix
// (which is discarded), or a bare "2006-01-02" date.
func Parse(s string) (LocalTime, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return FromTime(t), nil
	}
	return LocalTime{}, fmt.Errorf("invalid clinic time %q", s)
}

// Time returns the underlying time.Time (UTC-located, zone-meaningless).
func (lt LocalTime) Time() time.Time { return lt.t }

// IsZero reports whether lt is the zero value.
func (lt LocalTime) IsZero() bool { return lt.t.IsZero() }

// Equal reports wall-clock equality.
func (lt LocalTime) Equal(other LocalTime) bool { return lt.t.Equal(other.t) }

// Before reports whether lt is before other.
func (lt LocalTime) Before(other LocalTime) bool { return lt.t.Before(other.t) }

// After reports whether lt is after other.
func (lt LocalTime) After(other LocalTime) bool { return lt.t.After(other.t) }

// StartOfDay returns midnight of lt's day.
func (lt LocalTime) StartOfDay() LocalTime {
	return Date(lt.t.Year(), lt.t.Month(), lt.t.Day())
}

// AddDays returns lt shifted by n calendar days, keeping the time of day.
func (lt LocalTime) AddDays(n int) LocalTime {
	return LocalTime{t: lt.t.AddDate(0, 0, n)}
}

// At returns lt's day at the given hour and minute.
func (lt LocalTime) At(hour, min int) LocalTime {
	return New(lt.t.Year(), lt.t.Month(), lt.t.Day(), hour, min)
}

// AtHHMM returns lt's day at the given "HH:MM" time.
func (lt LocalTime) AtHHMM(hhmm string) (LocalTime, error) {
	h, m, err := ParseHHMM(hhmm)
	if err != nil {
		return LocalTime{}, err
	}
	return lt.At(h, m), nil
}

// Weekday returns the day of week, Sunday=0 through Saturday=6.
func (lt LocalTime) Weekday() int { return int(lt.t.Weekday()) }

// HHMM returns the time of day as "HH:MM".
func (lt LocalTime) HHMM() string { return lt.t.Format("15:04") }

// String formats lt in the canonical layout.
func (lt LocalTime) String() string { return lt.t.Format(Layout) }

// MarshalJSON encodes lt as a zone-less string.
func (lt LocalTime) MarshalJSON() ([]byte, error) {
	if lt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + lt.String() + `"`), nil
}

// UnmarshalJSON accepts any of the formats understood by Parse.
func (lt *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*lt = LocalTime{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*lt = parsed
	return nil
}

// ParseHHMM validates and splits an "HH:MM" clock string.
func ParseHHMM(s string) (hour, min int, err error) {
	if _, err := time.Parse("15:04", s); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	fmt.Sscanf(s, "%d:%d", &hour, &min)
	return hour, min, nil
}

// MinutesOfDay converts an "HH:MM" string to minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	h, m, err := ParseHHMM(hhmm)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}
