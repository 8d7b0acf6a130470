package fhir

type Encounter struct {
	ID              string                    `json:"id,omitempty"`
	Meta            *Meta                     `json:"meta,omitempty"`
	Extension       []Extension               `json:"extension,omitempty"`
	Identifier      []Identifier              `json:"identifier,omitempty"`
	Status          string                    `json:"status,omitempty"`
	StatusHistory   []EncounterStatusHistory  `json:"statusHistory,omitempty"`
	Class           *Coding                   `json:"class,omitempty"`
	Priority        *CodeableConcept          `json:"priority,omitempty"`
	Subject         *Reference                `json:"subject,omitempty"`
	Participant     []EncounterParticipant    `json:"participant,omitempty"`
	Period          *Period                   `json:"period,omitempty"`
	Length          *Duration                 `json:"length,omitempty"`
	ReasonCode      []CodeableConcept         `json:"reasonCode,omitempty"`
	ReasonReference []Reference               `json:"reasonReference,omitempty"`
	Diagnosis       []EncounterDiagnosis      `json:"diagnosis,omitempty"`
	Hospitalization *EncounterHospitalization `json:"hospitalization,omitempty"`
	Location        []EncounterLocation       `json:"location,omitempty"`
}

func (r Encounter) ResourceType() string { return "Encounter" }
func (r Encounter) ResourceID() string   { return r.ID }

func (r Encounter) MarshalJSON() ([]byte, error) {
	type alias Encounter
	return marshalResource(r.ResourceType(), alias(r))
}

type EncounterStatusHistory struct {
	Status string  `json:"status,omitempty"`
	Period *Period `json:"period,omitempty"`
}

type EncounterParticipant struct {
	ID         string            `json:"id,omitempty"`
	Type       []CodeableConcept `json:"type,omitempty"`
	Individual *Reference        `json:"individual,omitempty"`
}

type EncounterDiagnosis struct {
	ID        string           `json:"id,omitempty"`
	Condition Reference        `json:"condition"`
	Use       *CodeableConcept `json:"use,omitempty"`
	Rank      *int             `json:"rank,omitempty"`
}

type EncounterHospitalization struct {
	AdmitSource          *CodeableConcept `json:"admitSource,omitempty"`
	ReAdmission          *CodeableConcept `json:"reAdmission,omitempty"`
	DischargeDisposition *CodeableConcept `json:"dischargeDisposition,omitempty"`
}

type EncounterLocation struct {
	ID       string    `json:"id,omitempty"`
	Location Reference `json:"location"`
	Period   *Period   `json:"period,omitempty"`
}
