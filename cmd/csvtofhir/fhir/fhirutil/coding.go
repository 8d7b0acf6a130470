package fhirutil

import (
	"net/url"
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

// URIFormat returns value unchanged when it already carries a URI scheme,
// otherwise it is wrapped as "urn:id:<value>".
func URIFormat(value string) string {
	if value == "" {
		return ""
	}
	if u, err := url.Parse(value); err == nil && u.Scheme != "" {
		return value
	}
	return "urn:id:" + value
}

// CodeSystem expands a coding system shortname (e.g. "ICD10") to its URL and
// formats anything else with URIFormat.
func CodeSystem(system string) string {
	if u, ok := terminology.SystemURL(system); ok {
		return u
	}
	return URIFormat(system)
}

// NewCoding returns nil when code, system and display are all empty
func NewCoding(code, system, display string) *fhir.Coding {
	if code == "" && system == "" && display == "" {
		return nil
	}
	return &fhir.Coding{System: system, Code: code, Display: display}
}

// CodeableConceptNoTextDefault builds a CodeableConcept without copying the
// display into the text.
func CodeableConceptNoTextDefault(system, code, display, text string) *fhir.CodeableConcept {
	if text == "" && code == "" && display == "" {
		return nil
	}
	cc := &fhir.CodeableConcept{Text: text}
	if code != "" || display != "" {
		cc.Coding = []fhir.Coding{{System: CodeSystem(system), Code: code, Display: display}}
	}
	return cc
}

// CodeableConcept builds a CodeableConcept whose text falls back to the display
func CodeableConcept(system, code, display, text string) *fhir.CodeableConcept {
	cc := CodeableConceptNoTextDefault(system, code, display, text)
	if cc != nil && text == "" {
		cc.Text = display
	}
	return cc
}

// CodeableConceptWithDisplay looks the display up in a table when it is not given
func CodeableConceptWithDisplay(system, code string, table map[string]string, text string) *fhir.CodeableConcept {
	return CodeableConcept(system, code, table[code], text)
}

// HL7CodeableConcept parses "<code>^<display>^<system>^<text>"
func HL7CodeableConcept(codeData string) *fhir.CodeableConcept {
	parts := strings.Split(codeData, "^")
	return CodeableConcept(segment(parts, 2), segment(parts, 0), segment(parts, 1), segment(parts, 3))
}

// AddHL7CodedList adds "<code>^<display>^<system>" entries to cc, creating it
// when nil. customSystem is used for entries without a system.
func AddHL7CodedList(codedList []string, cc *fhir.CodeableConcept, customSystem string) *fhir.CodeableConcept {
	for _, entry := range codedList {
		parts := strings.Split(entry, "^")
		system := segment(parts, 2)
		if system == "" {
			system = customSystem
		}
		if system != "" {
			system = CodeSystem(system)
		}
		cc = AddCoding(cc, system, segment(parts, 0), segment(parts, 1))
	}
	return cc
}

// AddCoding appends a coding to cc unless an equal coding is present. A nil cc
// is created from the coding.
func AddCoding(cc *fhir.CodeableConcept, system, code, display string) *fhir.CodeableConcept {
	if cc == nil {
		return CodeableConceptNoTextDefault(system, code, display, "")
	}
	if code == "" && display == "" {
		return cc
	}
	coding := fhir.Coding{System: URIFormat(system), Code: code, Display: display}
	if !cc.HasCoding(coding) {
		cc.Coding = append(cc.Coding, coding)
	}
	return cc
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
