package domain

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clock time with minute precision, stored as minutes since
// midnight. It serializes as a 24-hour "HH:MM" string on the wire and as a
// smallint in Postgres, so slot comparisons are plain integer comparisons.
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: bad minute", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayOf extracts the clock time from an instant.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON encodes the time as a quoted "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
	case int32:
		*t = TimeOfDay(v)
	case int16:
		*t = TimeOfDay(v)
	case nil:
		*t = 0
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	return nil
}

// Date is a calendar date without a clock component. It serializes as
// "YYYY-MM-DD" and maps to a Postgres date column.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// At combines the date with a clock time in the given location.
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, int(t), 0, 0, loc)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	y1, m1, d1 := d.Time.Date()
	y2, m2, d2 := other.Time.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return !d.Equal(other) && d.Time.Before(other.Time)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case nil:
		*d = Date{}
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}
