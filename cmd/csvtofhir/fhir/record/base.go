package record

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/mitchellh/mapstructure"
)

// Base holds the fields every normalized row carries
type Base struct {
	FilePath           string `mapstructure:"filePath"`
	RowNum             int    `mapstructure:"rowNum"`
	GroupByKey         string `mapstructure:"groupByKey"`
	ConfigResourceType string `mapstructure:"configResourceType"`
	TimeZone           string `mapstructure:"timeZone"`
	TenantID           string `mapstructure:"tenantId"`
}

var locations sync.Map

// Location returns the record time zone, UTC when unset or unknown
func (b Base) Location() *time.Location {
	if b.TimeZone == "" {
		return time.UTC
	}
	if cached, ok := locations.Load(b.TimeZone); ok {
		return cached.(*time.Location)
	}
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return time.UTC
	}
	locations.Store(b.TimeZone, loc)
	return loc
}

type defaulter interface {
	applyDefaults()
}

// decode coerces a normalized row into a typed record and applies its defaults
func decode(row map[string]any, out defaulter) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create record decoder: %w", err)
	}
	if err := decoder.Decode(row); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	out.applyDefaults()
	return nil
}

// orDefault substitutes def only when v is empty
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func anySet(values ...string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}

// ValidateSSN strips dashes and returns the 9 digit number, or "" for
// malformed numbers and single repeated digit placeholders.
func ValidateSSN(ssn string) string {
	value := strings.ReplaceAll(ssn, "-", "")
	if len(value) != 9 {
		return ""
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if strings.Count(value, value[:1]) == len(value) {
		return ""
	}
	return value
}

// PatientIdentity holds the patient identifier fields shared by the clinical records
type PatientIdentity struct {
	PatientInternalID  string `mapstructure:"patientInternalId"`
	AccountNumber      string `mapstructure:"accountNumber"`
	SSN                string `mapstructure:"ssn"`
	SSNSystem          string `mapstructure:"ssnSystem"`
	MRN                string `mapstructure:"mrn"`
	AssigningAuthority string `mapstructure:"assigningAuthority"`
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
