package fhir

type DocumentReference struct {
	ID         string                     `json:"id,omitempty"`
	Meta       *Meta                      `json:"meta,omitempty"`
	Identifier []Identifier               `json:"identifier,omitempty"`
	Status     string                     `json:"status,omitempty"`
	DocStatus  string                     `json:"docStatus,omitempty"`
	Type       *CodeableConcept           `json:"type,omitempty"`
	Subject    *Reference                 `json:"subject,omitempty"`
	Date       *DateTime                  `json:"date,omitempty"`
	Author     []Reference                `json:"author,omitempty"`
	Content    []DocumentReferenceContent `json:"content,omitempty"`
	Context    *DocumentReferenceContext  `json:"context,omitempty"`
}

func (r DocumentReference) ResourceType() string { return "DocumentReference" }
func (r DocumentReference) ResourceID() string   { return r.ID }

func (r DocumentReference) MarshalJSON() ([]byte, error) {
	type alias DocumentReference
	return marshalResource(r.ResourceType(), alias(r))
}

type DocumentReferenceContent struct {
	Attachment Attachment `json:"attachment"`
}

type DocumentReferenceContext struct {
	Encounter []Reference `json:"encounter,omitempty"`
}

type DiagnosticReport struct {
	ID                 string           `json:"id,omitempty"`
	Meta               *Meta            `json:"meta,omitempty"`
	Identifier         []Identifier     `json:"identifier,omitempty"`
	Status             string           `json:"status,omitempty"`
	Code               *CodeableConcept `json:"code,omitempty"`
	Subject            *Reference       `json:"subject,omitempty"`
	Encounter          *Reference       `json:"encounter,omitempty"`
	Issued             *DateTime        `json:"issued,omitempty"`
	ResultsInterpreter []Reference      `json:"resultsInterpreter,omitempty"`
	PresentedForm      []Attachment     `json:"presentedForm,omitempty"`
}

func (r DiagnosticReport) ResourceType() string { return "DiagnosticReport" }
func (r DiagnosticReport) ResourceID() string   { return r.ID }

func (r DiagnosticReport) MarshalJSON() ([]byte, error) {
	type alias DiagnosticReport
	return marshalResource(r.ResourceType(), alias(r))
}
