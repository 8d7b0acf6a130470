package record

import (
	"strconv"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const (
	ConditionCategoryEncounterDiagnosis = "encounter-diagnosis"
	ConditionCategoryProblemList        = "problem-list-item"
)

type Condition struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	EncounterInternalID     string `mapstructure:"encounterInternalId"`
	EncounterNumber         string `mapstructure:"encounterNumber"`
	ResourceInternalID      string `mapstructure:"resourceInternalId"`
	ConditionSourceRecordID string `mapstructure:"conditionSourceRecordId"`
	EncounterClaimType      string `mapstructure:"encounterClaimType"`

	Category           string `mapstructure:"conditionCategory"`
	RecordedDateTime   string `mapstructure:"conditionRecordedDateTime"`
	OnsetDateTime      string `mapstructure:"conditionOnsetDateTime"`
	AbatementDateTime  string `mapstructure:"conditionAbatementDateTime"`
	ClinicalStatus     string `mapstructure:"conditionClinicalStatus"`
	VerificationStatus string `mapstructure:"conditionVerificationStatus"`

	DiagnosisRank string `mapstructure:"conditionDiagnosisRank"`
	DiagnosisUse  string `mapstructure:"conditionDiagnosisUse"`

	Code           string `mapstructure:"conditionCode"`
	CodeSystem     string `mapstructure:"conditionCodeSystem"`
	CodeText       string `mapstructure:"conditionCodeText"`
	SeverityCode   string `mapstructure:"conditionSeverityCode"`
	SeveritySystem string `mapstructure:"conditionSeveritySystem"`
	SeverityText   string `mapstructure:"conditionSeverityText"`
	Chronicity     string `mapstructure:"conditionChronicity"`
}

func NewCondition(row map[string]any) (*Condition, error) {
	r := &Condition{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Condition) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.CodeSystem = orDefault(r.CodeSystem, terminology.SNOMEDSystem)
	r.SeveritySystem = orDefault(r.SeveritySystem, terminology.SNOMEDSystem)
	if r.Category == "" && r.DiagnosisRank != "" {
		r.Category = ConditionCategoryEncounterDiagnosis
	}
}

// HasEncounterData reports whether the row can link the condition to an encounter
func (r *Condition) HasEncounterData() bool {
	return anySet(r.EncounterInternalID, r.EncounterClaimType, r.DiagnosisUse, r.DiagnosisRank)
}

// CategoryConcept returns nil for categories other than problem list and encounter diagnosis
func (r *Condition) CategoryConcept() *fhir.CodeableConcept {
	switch r.Category {
	case ConditionCategoryProblemList, ConditionCategoryEncounterDiagnosis:
		return fhirutil.CodeableConcept(terminology.ConditionCategorySystem, r.Category,
			terminology.ConditionCategoryDisplay[r.Category], "")
	}
	return nil
}

// DiagnosisRankInt returns the parsed rank, or an error when it is not an integer
func (r *Condition) DiagnosisRankInt() (*int, error) {
	if r.DiagnosisRank == "" {
		return nil, nil
	}
	rank, err := strconv.Atoi(r.DiagnosisRank)
	if err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *Condition) Identifiers() fhirutil.IdentifierValues {
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
