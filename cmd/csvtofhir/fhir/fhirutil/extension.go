package fhirutil

import (
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

func StringExtension(url, value string) *fhir.Extension {
	if value == "" {
		return nil
	}
	return &fhir.Extension{URL: url, ValueString: value}
}

func UnsignedIntExtension(url string, value *int) *fhir.Extension {
	if value == nil {
		return nil
	}
	return &fhir.Extension{URL: url, ValueUnsignedInt: value}
}

// CodeableConceptExtension returns nil when there is neither a code nor a text
func CodeableConceptExtension(url, code, system, display, text string) *fhir.Extension {
	if code == "" && text == "" {
		return nil
	}
	return &fhir.Extension{URL: url, ValueCodeableConcept: CodeableConcept(system, code, display, text)}
}

// AppendExtensions appends the non-nil extensions
func AppendExtensions(list []fhir.Extension, exts ...*fhir.Extension) []fhir.Extension {
	for _, ext := range exts {
		if ext != nil {
			list = append(list, *ext)
		}
	}
	return list
}
