package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const AllergyClinicalStatusDefault = "active"

type AllergyIntolerance struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	EncounterInternalID   string `mapstructure:"encounterInternalId"`
	EncounterNumber       string `mapstructure:"encounterNumber"`
	ResourceInternalID    string `mapstructure:"resourceInternalId"`
	AllergySourceRecordID string `mapstructure:"allergySourceRecordId"`

	Category         string `mapstructure:"allergyCategory"`
	Type             string `mapstructure:"allergyType"`
	RecordedDateTime string `mapstructure:"allergyRecordedDateTime"`

	Code       string `mapstructure:"allergyCode"`
	CodeSystem string `mapstructure:"allergyCodeSystem"`
	CodeText   string `mapstructure:"allergyCodeText"`

	Criticality string `mapstructure:"allergyCriticality"`

	ManifestationCode     string   `mapstructure:"allergyManifestationCode"`
	ManifestationSystem   string   `mapstructure:"allergyManifestationSystem"`
	ManifestationText     string   `mapstructure:"allergyManifestationText"`
	ManifestationCodeList []string `mapstructure:"allergyManifestationCodeList"`

	ClinicalStatusCode     string `mapstructure:"allergyClinicalStatusCode"`
	VerificationStatusCode string `mapstructure:"allergyVerificationStatusCode"`

	OnsetStartDateTime string `mapstructure:"allergyOnsetStartDateTime"`
	OnsetEndDateTime   string `mapstructure:"allergyOnsetEndDateTime"`
}

func NewAllergyIntolerance(row map[string]any) (*AllergyIntolerance, error) {
	r := &AllergyIntolerance{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AllergyIntolerance) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.CodeSystem = orDefault(r.CodeSystem, terminology.SNOMEDSystem)
	r.ManifestationSystem = orDefault(r.ManifestationSystem, terminology.SNOMEDSystem)
}

func (r *AllergyIntolerance) HasReactionData() bool {
	return anySet(r.ManifestationCode, r.ManifestationText) || len(r.ManifestationCodeList) > 0
}

// Manifestations combines the single manifestation with the HL7 style list.
// With neither present it returns the data-absent "unknown" concept.
func (r *AllergyIntolerance) Manifestations() []fhir.CodeableConcept {
	var list []fhir.CodeableConcept
	if cc := fhirutil.CodeableConcept(r.ManifestationSystem, r.ManifestationCode, "", r.ManifestationText); cc != nil {
		list = append(list, *cc)
	}
	for _, entry := range r.ManifestationCodeList {
		if cc := fhirutil.HL7CodeableConcept(entry); cc != nil {
			list = append(list, *cc)
		}
	}
	if len(list) > 0 {
		return list
	}
	return []fhir.CodeableConcept{{
		Coding: []fhir.Coding{*fhirutil.NewCoding(terminology.DataAbsentUnknown, terminology.DataAbsentReasonSystem,
			terminology.DataAbsentUnknownDisplay)},
	}}
}

func (r *AllergyIntolerance) Identifiers() fhirutil.IdentifierValues {
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
