package fhirutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
	"github.com/araddon/dateparse"
)

// ParseDateTime parses value in loc. Values without an offset are localized
// to loc; values without a time of day keep day precision.
func ParseDateTime(value string, loc *time.Location) (*fhir.DateTime, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return nil, fmt.Errorf("unable to parse datetime %q: %w", value, err)
	}
	dt := fhir.NewDateTime(t)
	if !strings.Contains(value, ":") {
		dt.Precision = "YYYY-MM-DD"
	}
	return &dt, nil
}

// NewPeriod returns nil when both bounds are empty. Bounds that fail to parse
// are left unset and reported in the returned error.
func NewPeriod(start, end string, loc *time.Location) (*fhir.Period, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	var errs []error
	p := &fhir.Period{}
	var err error
	if p.Start, err = ParseDateTime(start, loc); err != nil {
		errs = append(errs, err)
	}
	if p.End, err = ParseDateTime(end, loc); err != nil {
		errs = append(errs, err)
	}
	if p.Start == nil && p.End == nil {
		return nil, errors.Join(errs...)
	}
	return p, errors.Join(errs...)
}

// IsValidYear reports whether value is a year between 1900 and 2200
func IsValidYear(value string) bool {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return year >= 1900 && year <= 2200
}

// FormatDate keeps a bare year and otherwise reduces value to YYYY-MM-DD
func FormatDate(value string) (*fhir.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if IsValidYear(value) {
		d, err := fhir.ParseDate(value)
		return &d, err
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil, fmt.Errorf("unable to parse date %q: %w", value, err)
	}
	d := fhir.NewDate(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d, nil
}
