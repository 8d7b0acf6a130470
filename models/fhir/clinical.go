package fhir

type Condition struct {
	ID                 string            `json:"id,omitempty"`
	Meta               *Meta             `json:"meta,omitempty"`
	Extension          []Extension       `json:"extension,omitempty"`
	Identifier         []Identifier      `json:"identifier,omitempty"`
	ClinicalStatus     *CodeableConcept  `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept  `json:"verificationStatus,omitempty"`
	Category           []CodeableConcept `json:"category,omitempty"`
	Severity           *CodeableConcept  `json:"severity,omitempty"`
	Code               *CodeableConcept  `json:"code,omitempty"`
	Subject            *Reference        `json:"subject,omitempty"`
	Encounter          *Reference        `json:"encounter,omitempty"`
	OnsetDateTime      *DateTime         `json:"onsetDateTime,omitempty"`
	AbatementDateTime  *DateTime         `json:"abatementDateTime,omitempty"`
	RecordedDate       *DateTime         `json:"recordedDate,omitempty"`
}

func (r Condition) ResourceType() string { return "Condition" }
func (r Condition) ResourceID() string   { return r.ID }

func (r Condition) MarshalJSON() ([]byte, error) {
	type alias Condition
	return marshalResource(r.ResourceType(), alias(r))
}

type Observation struct {
	ID                   string                      `json:"id,omitempty"`
	Meta                 *Meta                       `json:"meta,omitempty"`
	Identifier           []Identifier                `json:"identifier,omitempty"`
	Status               string                      `json:"status,omitempty"`
	Category             []CodeableConcept           `json:"category,omitempty"`
	Code                 *CodeableConcept            `json:"code,omitempty"`
	Subject              *Reference                  `json:"subject,omitempty"`
	Encounter            *Reference                  `json:"encounter,omitempty"`
	EffectiveDateTime    *DateTime                   `json:"effectiveDateTime,omitempty"`
	Performer            []Reference                 `json:"performer,omitempty"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          *string                     `json:"valueString,omitempty"`
	ValueBoolean         *bool                       `json:"valueBoolean,omitempty"`
	ValueInteger         *int                        `json:"valueInteger,omitempty"`
	Interpretation       []CodeableConcept           `json:"interpretation,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
}

func (r Observation) ResourceType() string { return "Observation" }
func (r Observation) ResourceID() string   { return r.ID }

func (r Observation) MarshalJSON() ([]byte, error) {
	type alias Observation
	return marshalResource(r.ResourceType(), alias(r))
}

type ObservationReferenceRange struct {
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
	Text string    `json:"text,omitempty"`
}

type AllergyIntolerance struct {
	ID                 string                       `json:"id,omitempty"`
	Meta               *Meta                        `json:"meta,omitempty"`
	Identifier         []Identifier                 `json:"identifier,omitempty"`
	ClinicalStatus     *CodeableConcept             `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept             `json:"verificationStatus,omitempty"`
	Type               string                       `json:"type,omitempty"`
	Category           []string                     `json:"category,omitempty"`
	Criticality        string                       `json:"criticality,omitempty"`
	Code               *CodeableConcept             `json:"code,omitempty"`
	Patient            *Reference                   `json:"patient,omitempty"`
	Encounter          *Reference                   `json:"encounter,omitempty"`
	OnsetPeriod        *Period                      `json:"onsetPeriod,omitempty"`
	RecordedDate       *DateTime                    `json:"recordedDate,omitempty"`
	Reaction           []AllergyIntoleranceReaction `json:"reaction,omitempty"`
}

func (r AllergyIntolerance) ResourceType() string { return "AllergyIntolerance" }
func (r AllergyIntolerance) ResourceID() string   { return r.ID }

func (r AllergyIntolerance) MarshalJSON() ([]byte, error) {
	type alias AllergyIntolerance
	return marshalResource(r.ResourceType(), alias(r))
}

type AllergyIntoleranceReaction struct {
	Manifestation []CodeableConcept `json:"manifestation"`
}

type Immunization struct {
	ID                 string           `json:"id,omitempty"`
	Meta               *Meta            `json:"meta,omitempty"`
	Identifier         []Identifier     `json:"identifier,omitempty"`
	Status             string           `json:"status,omitempty"`
	StatusReason       *CodeableConcept `json:"statusReason,omitempty"`
	VaccineCode        *CodeableConcept `json:"vaccineCode,omitempty"`
	Patient            *Reference       `json:"patient,omitempty"`
	Encounter          *Reference       `json:"encounter,omitempty"`
	OccurrenceDateTime *DateTime        `json:"occurrenceDateTime,omitempty"`
	OccurrenceString   string           `json:"occurrenceString,omitempty"`
	Manufacturer       *Reference       `json:"manufacturer,omitempty"`
	ExpirationDate     *Date            `json:"expirationDate,omitempty"`
	Site               *CodeableConcept `json:"site,omitempty"`
	Route              *CodeableConcept `json:"route,omitempty"`
	DoseQuantity       *Quantity        `json:"doseQuantity,omitempty"`
}

func (r Immunization) ResourceType() string { return "Immunization" }
func (r Immunization) ResourceID() string   { return r.ID }

func (r Immunization) MarshalJSON() ([]byte, error) {
	type alias Immunization
	return marshalResource(r.ResourceType(), alias(r))
}

type Procedure struct {
	ID                string               `json:"id,omitempty"`
	Meta              *Meta                `json:"meta,omitempty"`
	Extension         []Extension          `json:"extension,omitempty"`
	Identifier        []Identifier         `json:"identifier,omitempty"`
	Status            string               `json:"status,omitempty"`
	Category          *CodeableConcept     `json:"category,omitempty"`
	Code              *CodeableConcept     `json:"code,omitempty"`
	Subject           *Reference           `json:"subject,omitempty"`
	Encounter         *Reference           `json:"encounter,omitempty"`
	PerformedDateTime *DateTime            `json:"performedDateTime,omitempty"`
	Performer         []ProcedurePerformer `json:"performer,omitempty"`
	ReasonReference   []Reference          `json:"reasonReference,omitempty"`
}

func (r Procedure) ResourceType() string { return "Procedure" }
func (r Procedure) ResourceID() string   { return r.ID }

func (r Procedure) MarshalJSON() ([]byte, error) {
	type alias Procedure
	return marshalResource(r.ResourceType(), alias(r))
}

type ProcedurePerformer struct {
	Actor Reference `json:"actor"`
}
