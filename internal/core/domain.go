package core

import (
	"errors"
	"time"
)

// DateLayout is the ISO 8601 calendar date used as the record key.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Record is one day's shipment count.
	Record struct {
		Date  Date
		Count int
	}

	// Mapping is the in-memory form of the store: date key -> count.
	Mapping map[string]int
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrEmptyCount   = errors.New("empty shipment count")
	ErrInvalidCount = errors.New("invalid shipment count")
)

// ParseDate parses a YYYY-MM-DD key. Dates that do not exist on the
// calendar (2025-02-30) are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Key returns the storage key for the date.
func (d Date) Key() string {
	return d.Format(DateLayout)
}

func (d Date) String() string {
	return d.Key()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Count < 0 || r.Count > MaxCount {
		return ErrInvalidCount
	}
	return nil
}

// Clone returns a copy that can be mutated without touching m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
