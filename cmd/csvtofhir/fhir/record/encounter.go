package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const EncounterStatusDefault = "unknown"

type Encounter struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	EncounterNumber         string `mapstructure:"encounterNumber"`
	EncounterInternalID     string `mapstructure:"encounterInternalId"`
	ResourceInternalID      string `mapstructure:"resourceInternalId"`
	EncounterSourceRecordID string `mapstructure:"encounterSourceRecordId"`

	Status      string `mapstructure:"encounterStatus"`
	ClassCode   string `mapstructure:"encounterClassCode"`
	ClassText   string `mapstructure:"encounterClassText"`
	ClassSystem string `mapstructure:"encounterClassSystem"`

	PriorityCode       string `mapstructure:"encounterPriorityCode"`
	PriorityText       string `mapstructure:"encounterPriorityText"`
	PriorityCodeSystem string `mapstructure:"encounterPriorityCodeSystem"`

	StartDateTime    string `mapstructure:"encounterStartDateTime"`
	EndDateTime      string `mapstructure:"encounterEndDateTime"`
	LengthValue      string `mapstructure:"encounterLengthValue"`
	LengthUnits      string `mapstructure:"encounterLengthUnits"`
	ReasonCode       string `mapstructure:"encounterReasonCode"`
	ReasonCodeSystem string `mapstructure:"encounterReasonCodeSystem"`
	ReasonCodeText   string `mapstructure:"encounterReasonCodeText"`

	AdmitSourceCode                string `mapstructure:"hospitalizationAdmitSourceCode"`
	AdmitSourceCodeText            string `mapstructure:"hospitalizationAdmitSourceCodeText"`
	AdmitSourceCodeSystem          string `mapstructure:"hospitalizationAdmitSourceCodeSystem"`
	ReAdmissionCode                string `mapstructure:"hospitalizationReAdmissionCode"`
	ReAdmissionCodeText            string `mapstructure:"hospitalizationReAdmissionCodeText"`
	ReAdmissionCodeSystem          string `mapstructure:"hospitalizationReAdmissionCodeSystem"`
	DischargeDispositionCode       string `mapstructure:"hospitalizationDischargeDispositionCode"`
	DischargeDispositionCodeText   string `mapstructure:"hospitalizationDischargeDispositionCodeText"`
	DischargeDispositionCodeSystem string `mapstructure:"hospitalizationDischargeDispositionCodeSystem"`

	ParticipantSequenceID string `mapstructure:"encounterParticipantSequenceId"`
	ParticipantTypeCode   string `mapstructure:"encounterParticipantTypeCode"`
	ParticipantTypeText   string `mapstructure:"encounterParticipantTypeText"`
	ParticipantTypeSystem string `mapstructure:"encounterParticipantTypeCodeSystem"`

	LocationSequenceID  string `mapstructure:"encounterLocationSequenceId"`
	LocationPeriodStart string `mapstructure:"encounterLocationPeriodStart"`
	LocationPeriodEnd   string `mapstructure:"encounterLocationPeriodEnd"`

	// each entry is status^start^end
	StatusHistory []string `mapstructure:"encounterStatusHistory"`

	InsuredEntryID        string `mapstructure:"encounterInsuredEntryId"`
	InsuredRank           *int   `mapstructure:"encounterInsuredRank"`
	InsuredCategoryCode   string `mapstructure:"encounterInsuredCategoryCode"`
	InsuredCategorySystem string `mapstructure:"encounterInsuredCategorySystem"`
	InsuredCategoryText   string `mapstructure:"encounterInsuredCategoryText"`

	ClaimType string `mapstructure:"encounterClaimType"`
	DrgCode   string `mapstructure:"encounterDrgCode"`
}

func NewEncounter(row map[string]any) (*Encounter, error) {
	r := &Encounter{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Encounter) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	if r.EncounterInternalID != "" {
		r.ResourceInternalID = r.EncounterInternalID
	}
	r.Status = orDefault(r.Status, EncounterStatusDefault)
	r.ClassSystem = orDefault(r.ClassSystem, terminology.EncounterClassSystem)
	r.PriorityCodeSystem = orDefault(r.PriorityCodeSystem, terminology.PrioritySystem)
	r.AdmitSourceCodeSystem = orDefault(r.AdmitSourceCodeSystem, terminology.AdmitSourceSystem)
	r.DischargeDispositionCodeSystem = orDefault(r.DischargeDispositionCodeSystem, terminology.DischargeDispositionSystem)
	r.ParticipantTypeSystem = orDefault(r.ParticipantTypeSystem, terminology.ParticipantTypeSystem)
}

// InsuredEntryIDValue prefers the explicit entry id, then the rank, then the category
func (r *Encounter) InsuredEntryIDValue() string {
	if r.InsuredEntryID != "" {
		return r.InsuredEntryID
	}
	if r.InsuredRank != nil && *r.InsuredRank != 0 {
		return itoa(*r.InsuredRank)
	}
	return orDefault(r.InsuredCategoryCode, r.InsuredCategoryText)
}

// Class falls back to the data-absent "temporarily unknown" coding since
// Encounter.class is required.
func (r *Encounter) Class() *fhir.Coding {
	if r.ClassCode != "" {
		display := r.ClassText
		if display == "" {
			display = terminology.EncounterClassDisplay[r.ClassCode]
		}
		return fhirutil.NewCoding(r.ClassCode, fhirutil.URIFormat(r.ClassSystem), display)
	}
	return fhirutil.NewCoding(terminology.DataAbsentTemporarilyUnknown, terminology.DataAbsentReasonSystem,
		terminology.DataAbsentTemporarilyUnknownDisplay)
}

func (r *Encounter) ContainsHospitalizationData() bool {
	return anySet(r.AdmitSourceCode, r.AdmitSourceCodeText,
		r.ReAdmissionCode, r.ReAdmissionCodeText,
		r.DischargeDispositionCode, r.DischargeDispositionCodeText)
}

func (r *Encounter) Identifiers() fhirutil.IdentifierValues {
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
