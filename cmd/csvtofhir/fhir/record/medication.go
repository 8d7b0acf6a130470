package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

const (
	MedicationAdministrationType = "MedicationAdministration"
	MedicationRequestType        = "MedicationRequest"
	MedicationStatementType      = "MedicationStatement"

	MedicationStatusDefault        = "unknown"
	MedicationRequestIntentDefault = "order"
)

// MedicationUse reads the medication columns shared by administration,
// request and statement rows. ResourceType selects the output resource.
type MedicationUse struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	ResourceType             string `mapstructure:"resourceType"`
	MedicationSourceRecordID string `mapstructure:"medicationSourceRecordId"`
	EncounterInternalID      string `mapstructure:"encounterInternalId"`
	EncounterNumber          string `mapstructure:"encounterNumber"`
	EncounterClaimType       string `mapstructure:"encounterClaimType"`
	EncounterClassCode       string `mapstructure:"encounterClassCode"`
	ResourceInternalID       string `mapstructure:"resourceInternalId"`
	RxNumber                 string `mapstructure:"medicationRxNumber"`

	Status             string `mapstructure:"medicationUseStatus"`
	CategoryCode       string `mapstructure:"medicationUseCategoryCode"`
	CategoryCodeSystem string `mapstructure:"medicationUseCategoryCodeSystem"`
	CategoryCodeText   string `mapstructure:"medicationUseCategoryCodeText"`
	OccurrenceDateTime string `mapstructure:"medicationUseOccuranceDateTime"`

	Code        string `mapstructure:"medicationCode"`
	CodeDisplay string `mapstructure:"medicationCodeDisplay"`
	CodeSystem  string `mapstructure:"medicationCodeSystem"`
	CodeText    string `mapstructure:"medicationCodeText"`
	// code^display^system entries, system being a URL or a known shortname
	CodeList []string `mapstructure:"medicationCodeList"`

	RouteCode       string   `mapstructure:"medicationUseRouteCode"`
	RouteCodeSystem string   `mapstructure:"medicationUseRouteCodeSystem"`
	RouteText       string   `mapstructure:"medicationUseRouteText"`
	RouteList       []string `mapstructure:"medicationUseRouteList"`

	DosageText  string `mapstructure:"medicationUseDosageText"`
	DosageValue string `mapstructure:"medicationUseDosageValue"`
	DosageUnit  string `mapstructure:"medicationUseDosageUnit"`

	ValidityStart string `mapstructure:"medicationValidityStart"`
	ValidityEnd   string `mapstructure:"medicationValidityEnd"`
	Refills       string `mapstructure:"medicationRefills"`
	Quantity      string `mapstructure:"medicationQuantity"`
	AuthoredOn    string `mapstructure:"medicationAuthoredOn"`
	RequestIntent string `mapstructure:"medicationRequestIntent"`
}

func NewMedicationUse(row map[string]any) (*MedicationUse, error) {
	r := &MedicationUse{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MedicationUse) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.ResourceType = orDefault(r.ResourceType, MedicationStatementType)
	r.RequestIntent = orDefault(r.RequestIntent, MedicationRequestIntentDefault)
}

func (r *MedicationUse) ContainsDosageData() bool {
	return anySet(r.RouteCode, r.RouteText, r.DosageText, r.DosageValue)
}

// DefaultCategorySystem returns "" for resource types without a category system
func (r *MedicationUse) DefaultCategorySystem() string {
	switch r.ResourceType {
	case MedicationAdministrationType:
		return terminology.MedicationAdministrationCategorySystem
	case MedicationRequestType:
		return terminology.MedicationRequestCategorySystem
	case MedicationStatementType:
		return terminology.MedicationStatementCategorySystem
	}
	return ""
}

func (r *MedicationUse) Identifiers() fhirutil.IdentifierValues {
	return fhirutil.IdentifierValues{
		PatientInternalID:  r.PatientInternalID,
		SSN:                r.SSN,
		SSNSystem:          r.SSNSystem,
		MRN:                r.MRN,
		AccountNumber:      r.AccountNumber,
		EncounterNumber:    r.EncounterNumber,
		ResourceInternalID: r.ResourceInternalID,
		MedicationRxNumber: r.RxNumber,
		AssigningAuthority: r.AssigningAuthority,
	}
}
