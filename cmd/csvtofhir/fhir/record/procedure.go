package record

import (
	"regexp"
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
)

const ProcedureStatusDefault = "unknown"

var (
	alphanumeric      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	modifierSeparator = regexp.MustCompile(`[\s,;]`)
)

type Procedure struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	ProcedureSourceRecordID string `mapstructure:"procedureSourceRecordId"`
	EncounterInternalID     string `mapstructure:"encounterInternalId"`
	EncounterNumber         string `mapstructure:"encounterNumber"`
	EncounterClaimType      string `mapstructure:"encounterClaimType"`
	ResourceInternalID      string `mapstructure:"resourceInternalId"`

	Status            string `mapstructure:"procedureStatus"`
	PerformedDateTime string `mapstructure:"procedurePerformedDateTime"`

	Category       string `mapstructure:"procedureCategory"`
	CategorySystem string `mapstructure:"procedureCategorySystem"`
	CategoryText   string `mapstructure:"procedureCategoryText"`

	Code        string   `mapstructure:"procedureCode"`
	CodeSystem  string   `mapstructure:"procedureCodeSystem"`
	CodeDisplay string   `mapstructure:"procedureCodeDisplay"`
	CodeText    string   `mapstructure:"procedureCodeText"`
	CodeList    []string `mapstructure:"procedureCodeList"`

	ModifierList   string `mapstructure:"procedureModifierList"`
	ModifierSystem string `mapstructure:"procedureModifierSystem"`

	// positive integer
	EncounterSequenceID string `mapstructure:"procedureEncounterSequenceId"`

	PractitionerInternalID string `mapstructure:"practitionerInternalId"`
	PractitionerNPI        string `mapstructure:"practitionerNPI"`
}

func NewProcedure(row map[string]any) (*Procedure, error) {
	r := &Procedure{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Procedure) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.Status = orDefault(r.Status, ProcedureStatusDefault)
}

func (r *Procedure) HasEncounterData() bool {
	return anySet(r.EncounterInternalID, r.EncounterNumber, r.EncounterSequenceID)
}

// Modifiers splits an alphanumeric run into two character codes, otherwise
// splits on whitespace, comma or semicolon.
func (r *Procedure) Modifiers() []string {
	list := strings.TrimSpace(r.ModifierList)
	if list == "" {
		return nil
	}
	var modifiers []string
	if alphanumeric.MatchString(list) {
		for i := 0; i < len(list); i += 2 {
			modifiers = append(modifiers, list[i:min(i+2, len(list))])
		}
		return modifiers
	}
	for _, m := range modifierSeparator.Split(list, -1) {
		if m != "" {
			modifiers = append(modifiers, m)
		}
	}
	return modifiers
}

func (r *Procedure) Identifiers() fhirutil.IdentifierValues {
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
