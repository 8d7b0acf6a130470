package fhirutil

import (
	"strings"
	"time"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const extIDTimestampLayout = "20060102150405"

// ExtIDIdentifier wraps value as an "urn:id:extID" identifier
func ExtIDIdentifier(value string) *fhir.Identifier {
	if value == "" {
		return nil
	}
	return &fhir.Identifier{ID: "extID", Value: value, System: terminology.ExtIDSystem}
}

// ExternalIdentifier derives the extID identifier of a resource from its primary code
func ExternalIdentifier(cc *fhir.CodeableConcept, resourceType string) *fhir.Identifier {
	value, ok := ExternalIdentifierValue(cc, resourceType)
	if !ok {
		return nil
	}
	return ExtIDIdentifier(value)
}

// ObservationExternalIdentifier prefixes the extID value with a YYYYMMDDHHMMSS
// timestamp taken from the effective time, the meta process-timestamp, or now.
func ObservationExternalIdentifier(cc *fhir.CodeableConcept, effective *fhir.DateTime, meta *fhir.Meta) *fhir.Identifier {
	value, ok := ExternalIdentifierValue(cc, "Observation")
	if !ok {
		return nil
	}
	var ts time.Time
	switch {
	case effective != nil && !effective.IsZero():
		ts = effective.Time
	case meta != nil:
		for _, ext := range meta.Extension {
			if strings.Contains(ext.URL, "process-timestamp") && ext.ValueDateTime != nil {
				ts = ext.ValueDateTime.Time
				break
			}
		}
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return ExtIDIdentifier(ts.Format(extIDTimestampLayout) + "-" + value)
}

// ExternalIdentifierValue computes the extID value from the preferred coding
func ExternalIdentifierValue(cc *fhir.CodeableConcept, resourceType string) (string, bool) {
	if cc == nil {
		return "", false
	}
	coding := preferredCoding(terminology.ExtIDPreferredSystems[resourceType], cc.Coding)
	if coding == nil {
		return cc.Text, cc.Text != ""
	}

	value := coding.Code
	switch {
	case value != "" && coding.System != "":
		if short, ok := terminology.Shortname(coding.System); ok {
			value = value + "-" + short
		} else {
			value = value + "-" + strings.TrimPrefix(coding.System, "urn:id:")
		}
	case value == "" && coding.Display != "":
		value = coding.Display
	}
	return value, value != ""
}

func preferredCoding(preferred []string, codings []fhir.Coding) *fhir.Coding {
	if len(codings) == 0 {
		return nil
	}
	for _, system := range preferred {
		for i := range codings {
			short, _ := terminology.Shortname(codings[i].System)
			if codings[i].System == system || short == system {
				return &codings[i]
			}
		}
	}
	for i := range codings {
		if codings[i].System != "" {
			return &codings[i]
		}
	}
	return &codings[0]
}
