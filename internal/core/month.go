package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey identifies a calendar month. Keys compare chronologically by (Year, Month).
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewMonthKey returns the key for year and month (1-12).
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

// MonthOf returns the month containing t, in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses the YYYY-MM wire format.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MonthKey{}, invalid("month", ErrMissingField)
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return MonthKey{}, invalid("month", fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidMonth, s))
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, invalid("month", fmt.Errorf("%w: %q", ErrInvalidMonth, s))
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return MonthKey{}, invalid("month", fmt.Errorf("%w: %q", ErrInvalidMonth, s))
	}
	return MonthKey{Year: y, Month: time.Month(m)}, nil
}

// String returns the YYYY-MM form.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label returns a display form such as "Jul 2025".
func (k MonthKey) Label() string {
	return k.Start().Format("Jan 2006")
}

// Start returns midnight UTC on the first day of the month.
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or 1 depending on chronological order.
func (k MonthKey) Compare(o MonthKey) int {
	switch {
	case k.Year < o.Year:
		return -1
	case k.Year > o.Year:
		return 1
	case k.Month < o.Month:
		return -1
	case k.Month > o.Month:
		return 1
	default:
		return 0
	}
}

func (k MonthKey) Before(o MonthKey) bool {
	return k.Compare(o) < 0
}

// Prev returns the previous calendar month.
func (k MonthKey) Prev() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MonthKey) UnmarshalText(b []byte) error {
	parsed, err := ParseMonthKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
