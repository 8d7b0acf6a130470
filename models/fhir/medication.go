package fhir

type MedicationAdministration struct {
	ID                        string                          `json:"id,omitempty"`
	Meta                      *Meta                           `json:"meta,omitempty"`
	Identifier                []Identifier                    `json:"identifier,omitempty"`
	Status                    string                          `json:"status,omitempty"`
	Category                  *CodeableConcept                `json:"category,omitempty"`
	MedicationCodeableConcept *CodeableConcept                `json:"medicationCodeableConcept,omitempty"`
	Subject                   *Reference                      `json:"subject,omitempty"`
	Context                   *Reference                      `json:"context,omitempty"`
	EffectiveDateTime         *DateTime                       `json:"effectiveDateTime,omitempty"`
	Dosage                    *MedicationAdministrationDosage `json:"dosage,omitempty"`
}

func (r MedicationAdministration) ResourceType() string { return "MedicationAdministration" }
func (r MedicationAdministration) ResourceID() string   { return r.ID }

func (r MedicationAdministration) MarshalJSON() ([]byte, error) {
	type alias MedicationAdministration
	return marshalResource(r.ResourceType(), alias(r))
}

type MedicationAdministrationDosage struct {
	Text  string           `json:"text,omitempty"`
	Route *CodeableConcept `json:"route,omitempty"`
	Dose  *Quantity        `json:"dose,omitempty"`
}

type MedicationRequest struct {
	ID                        string                            `json:"id,omitempty"`
	Meta                      *Meta                             `json:"meta,omitempty"`
	Identifier                []Identifier                      `json:"identifier,omitempty"`
	Status                    string                            `json:"status,omitempty"`
	Intent                    string                            `json:"intent,omitempty"`
	Category                  []CodeableConcept                 `json:"category,omitempty"`
	MedicationCodeableConcept *CodeableConcept                  `json:"medicationCodeableConcept,omitempty"`
	Subject                   *Reference                        `json:"subject,omitempty"`
	Encounter                 *Reference                        `json:"encounter,omitempty"`
	AuthoredOn                *DateTime                         `json:"authoredOn,omitempty"`
	DosageInstruction         []Dosage                          `json:"dosageInstruction,omitempty"`
	DispenseRequest           *MedicationRequestDispenseRequest `json:"dispenseRequest,omitempty"`
}

func (r MedicationRequest) ResourceType() string { return "MedicationRequest" }
func (r MedicationRequest) ResourceID() string   { return r.ID }

func (r MedicationRequest) MarshalJSON() ([]byte, error) {
	type alias MedicationRequest
	return marshalResource(r.ResourceType(), alias(r))
}

type MedicationRequestDispenseRequest struct {
	ValidityPeriod         *Period   `json:"validityPeriod,omitempty"`
	NumberOfRepeatsAllowed *int      `json:"numberOfRepeatsAllowed,omitempty"`
	Quantity               *Quantity `json:"quantity,omitempty"`
}

type MedicationStatement struct {
	ID                        string           `json:"id,omitempty"`
	Meta                      *Meta            `json:"meta,omitempty"`
	Identifier                []Identifier     `json:"identifier,omitempty"`
	Status                    string           `json:"status,omitempty"`
	Category                  *CodeableConcept `json:"category,omitempty"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	Subject                   *Reference       `json:"subject,omitempty"`
	Context                   *Reference       `json:"context,omitempty"`
	EffectiveDateTime         *DateTime        `json:"effectiveDateTime,omitempty"`
	Dosage                    []Dosage         `json:"dosage,omitempty"`
}

func (r MedicationStatement) ResourceType() string { return "MedicationStatement" }
func (r MedicationStatement) ResourceID() string   { return r.ID }

func (r MedicationStatement) MarshalJSON() ([]byte, error) {
	type alias MedicationStatement
	return marshalResource(r.ResourceType(), alias(r))
}
