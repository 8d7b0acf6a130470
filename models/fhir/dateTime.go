package fhir

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateTime represents a FHIR dateTime or instant
type DateTime struct {
	time.Time
	Precision string // "YYYY", "YYYY-MM", "YYYY-MM-DD", or "FULL"
}

// NewDateTime creates a new DateTime from a time.Time
func NewDateTime(t time.Time) DateTime {
	return DateTime{
		Time:      t,
		Precision: "FULL",
	}
}

// DateTimePtr returns a pointer to a full precision DateTime
func DateTimePtr(t time.Time) *DateTime {
	dt := NewDateTime(t)
	return &dt
}

// String returns the datetime in FHIR format based on precision
func (d DateTime) String() string {
	if d.Time.IsZero() {
		return ""
	}

	switch d.Precision {
	case "YYYY":
		return d.Time.Format("2006")
	case "YYYY-MM":
		return d.Time.Format("2006-01")
	case "YYYY-MM-DD":
		return d.Time.Format("2006-01-02")
	default:
		t := d.Time
		baseFormat := "2006-01-02T15:04:05"
		if t.Nanosecond() != 0 {
			baseFormat += ".000000"
		}

		_, offset := t.Zone()
		if offset == 0 {
			return t.Format(baseFormat) + "+00:00"
		}
		sign := '+'
		if offset < 0 {
			sign = '-'
			offset = -offset
		}
		return fmt.Sprintf("%s%c%02d:%02d", t.Format(baseFormat), sign, offset/3600, (offset%3600)/60)
	}
}

// MarshalJSON implements the json.Marshaler interface
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*d = NewDateTime(t)
		return nil
	}
	date, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid dateTime format: %s", s)
	}
	*d = DateTime{Time: date.Time, Precision: date.Precision}
	return nil
}
