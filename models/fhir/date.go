package fhir

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date represents a FHIR date with year, year-month or full day precision
type Date struct {
	time.Time
	Precision string // "YYYY", "YYYY-MM" or "YYYY-MM-DD"
}

var dateFormats = []struct {
	layout    string
	precision string
}{
	{"2006-01-02", "YYYY-MM-DD"},
	{"2006-01", "YYYY-MM"},
	{"2006", "YYYY"},
}

// NewDate creates a new day precision Date from a time.Time
func NewDate(t time.Time) Date {
	return Date{Time: t, Precision: "YYYY-MM-DD"}
}

// ParseDate parses a FHIR formatted date string
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, f := range dateFormats {
		if t, err := time.Parse(f.layout, s); err == nil {
			return Date{Time: t, Precision: f.precision}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date format: %s", s)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// String returns the date formatted to its precision
func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	switch d.Precision {
	case "YYYY":
		return d.Format("2006")
	case "YYYY-MM":
		return d.Format("2006-01")
	default:
		return d.Format("2006-01-02")
	}
}
