package core

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// TimeLayout is the clock-time format used on expenses.
	TimeLayout = "15:04"
	// monthNameLayout parses human month labels like "March 2026".
	monthNameLayout = "January 2006"
)

// Date is a calendar day without a time-of-day component.
// It serializes as "2006-01-02" and treats the zero value as absent.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `""` || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseMonthName interprets a month label such as "March 2026".
// The second return value reports whether the label was parseable.
func ParseMonthName(name string) (year int, month time.Month, ok bool) {
	t, err := time.Parse(monthNameLayout, name)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}
