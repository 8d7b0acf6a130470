package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const (
	DiagnosticReportType      = "DiagnosticReport"
	DocumentReferenceType     = "DocumentReference"
	UnstructuredStatusDefault = "current"
)

// Unstructured reads a clinical note row rendered as a DocumentReference or
// a DiagnosticReport.
type Unstructured struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	ResourceType        string `mapstructure:"resourceType"`
	EncounterNumber     string `mapstructure:"encounterNumber"`
	ResourceInternalID  string `mapstructure:"resourceInternalId"`
	EncounterInternalID string `mapstructure:"encounterInternalId"`

	ResourceStatus         string `mapstructure:"resourceStatus"`
	DocumentStatus         string `mapstructure:"documentStatus"`
	DocumentTypeCode       string `mapstructure:"documentTypeCode"`
	DocumentTypeCodeSystem string `mapstructure:"documentTypeCodeSystem"`
	DocumentTypeCodeText   string `mapstructure:"documentTypeCodeText"`
	DocumentDateTime       string `mapstructure:"documentDateTime"`

	AttachmentContentType string `mapstructure:"documentAttachmentContentType"`
	AttachmentContent     string `mapstructure:"documentAttachmentContent"`
	AttachmentTitle       string `mapstructure:"documentAttachmentTitle"`

	PractitionerInternalID string `mapstructure:"practitionerInternalId"`
	PractitionerNPI        string `mapstructure:"practitionerNPI"`
	PractitionerNameLast   string `mapstructure:"practitionerNameLast"`
	PractitionerNameFirst  string `mapstructure:"practitionerNameFirst"`
}

func NewUnstructured(row map[string]any) (*Unstructured, error) {
	r := &Unstructured{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Unstructured) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.ResourceStatus = orDefault(r.ResourceStatus, UnstructuredStatusDefault)
	if r.ResourceType != DiagnosticReportType {
		r.ResourceType = DocumentReferenceType
	}
	r.DocumentTypeCodeSystem = orDefault(r.DocumentTypeCodeSystem, terminology.LOINCSystem)
}

// DefaultDocumentCode is the LOINC note type used when the row carries none
func (r *Unstructured) DefaultDocumentCode() *fhir.CodeableConcept {
	if r.ResourceType == DiagnosticReportType {
		return fhirutil.CodeableConcept(terminology.LOINCSystem, "50398-7", "Narrative diagnostic report [Interpretation]", "")
	}
	return fhirutil.CodeableConcept(terminology.LOINCSystem, "67781-5", "Summarization of encounter note Narrative", "")
}

func (r *Unstructured) Identifiers() fhirutil.IdentifierValues {
	return fhirutil.IdentifierValues{
		PatientInternalID:  r.PatientInternalID,
		SSN:                r.SSN,
		SSNSystem:          r.SSNSystem,
		MRN:                r.MRN,
		AccountNumber:      r.AccountNumber,
		EncounterNumber:    r.EncounterNumber,
		ResourceInternalID: r.ResourceInternalID,
		AssigningAuthority: r.AssigningAuthority,
	}
}
