package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

const ObservationStatusDefault = "unknown"

type Observation struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	EncounterNumber           string `mapstructure:"encounterNumber"`
	EncounterInternalID       string `mapstructure:"encounterInternalId"`
	ResourceInternalID        string `mapstructure:"resourceInternalId"`
	ObservationSourceRecordID string `mapstructure:"observationSourceRecordId"`

	Status                 string   `mapstructure:"observationStatus"`
	Category               string   `mapstructure:"observationCategory"`
	DateTime               string   `mapstructure:"observationDateTime"`
	PractitionerNPI        string   `mapstructure:"practitionerNPI"`
	PractitionerInternalID string   `mapstructure:"practitionerInternalId"`
	Code                   string   `mapstructure:"observationCode"`
	CodeSystem             string   `mapstructure:"observationCodeSystem"`
	CodeText               string   `mapstructure:"observationCodeText"`
	CodeList               []string `mapstructure:"observationCodeList"`
	Value                  string   `mapstructure:"observationValue"`
	ValueUnits             string   `mapstructure:"observationValueUnits"`
	ValueDataType          string   `mapstructure:"observationValueDataType"`
	RefRange               string   `mapstructure:"observationRefRange"`
	RefRangeLow            string   `mapstructure:"observationRefRangeLow"`
	RefRangeHigh           string   `mapstructure:"observationRefRangeHigh"`
	RefRangeText           string   `mapstructure:"observationRefRangeText"`

	InterpretationCode        string `mapstructure:"observationInterpretationCode"`
	InterpretationCodeSystem  string `mapstructure:"observationInterpretationCodeSystem"`
	InterpretationCodeDisplay string `mapstructure:"observationInterpretationCodeDisplay"`
	InterpretationCodeText    string `mapstructure:"observationInterpretationCodeText"`
}

func NewObservation(row map[string]any) (*Observation, error) {
	r := &Observation{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Observation) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.Status = orDefault(r.Status, ObservationStatusDefault)
	r.InterpretationCodeSystem = orDefault(r.InterpretationCodeSystem, terminology.ObservationInterpretationSystem)
}

func (r *Observation) Identifiers() fhirutil.IdentifierValues {
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
