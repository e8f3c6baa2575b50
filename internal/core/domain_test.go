package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-01", true},
		{"2024-02-29", true},
		{"2025-02-29", false}, // not a leap year
		{"2025-13-01", false},
		{"2025-1-5", false},
		{"", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || d.Key() != tc.in {
				t.Fatalf("%q expected ok, got %v (err=%v)", tc.in, d, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	if err := (Record{Date: NewDate(2025, 3, 1), Count: 0}).Validate(); err != nil {
		t.Fatalf("expected zero count to be ok, got %v", err)
	}
	if err := (Record{Date: NewDate(2025, 3, 1), Count: MaxCount + 1}).Validate(); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount above MaxCount, got %v", err)
	}
	if err := (Record{Date: NewDate(2025, 3, 1), Count: -1}).Validate(); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
	if err := (Record{Date: Date{Time: time.Time{}}, Count: 1}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, loc)
	if got := Today(now).Key(); got != "2025-03-01" {
		t.Fatalf("Today() = %s, want 2025-03-01", got)
	}
}

func TestMappingClone(t *testing.T) {
	m := Mapping{"2025-01-01": 1}
	c := m.Clone()
	c["2025-01-01"] = 2
	if m["2025-01-01"] != 1 {
		t.Fatalf("clone shares storage with original")
	}
}
