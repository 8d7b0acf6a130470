package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

type Immunization struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	ResourceInternalID         string `mapstructure:"resourceInternalId"`
	ImmunizationSourceRecordID string `mapstructure:"immunizationSourceRecordId"`
	EncounterNumber            string `mapstructure:"encounterNumber"`
	EncounterInternalID        string `mapstructure:"encounterInternalId"`

	DoseQuantity string `mapstructure:"immunizationDoseQuantity"`
	DoseUnit     string `mapstructure:"immunizationDoseUnit"`
	DoseText     string `mapstructure:"immunizationDoseText"`

	// manufacturer
	OrganizationResourceInternalID string `mapstructure:"organizationResourceInternalId"`
	OrganizationName               string `mapstructure:"organizationName"`

	RouteCode   string `mapstructure:"immunizationRouteCode"`
	RouteSystem string `mapstructure:"immunizationRouteSystem"`
	RouteText   string `mapstructure:"immunizationRouteText"`
	SiteCode    string `mapstructure:"immunizationSiteCode"`
	SiteSystem  string `mapstructure:"immunizationSiteSystem"`
	SiteText    string `mapstructure:"immunizationSiteText"`

	Status             string `mapstructure:"immunizationStatus"`
	StatusReasonCode   string `mapstructure:"immunizationStatusReasonCode"`
	StatusReasonSystem string `mapstructure:"immunizationStatusReasonSystem"`
	StatusReasonText   string `mapstructure:"immunizationStatusReasonText"`

	VaccineCode    string `mapstructure:"immunizationVaccineCode"`
	VaccineSystem  string `mapstructure:"immunizationVaccineSystem"`
	VaccineDisplay string `mapstructure:"immunizationVaccineDisplay"`
	VaccineText    string `mapstructure:"immunizationVaccineText"`
	// code^display^system entries, system being a URL or a known shortname
	VaccineCodeList []string `mapstructure:"immunizationVaccineCodeList"`

	Date           string `mapstructure:"immunizationDate"`
	ExpirationDate string `mapstructure:"immunizationExpirationDate"`
}

func NewImmunization(row map[string]any) (*Immunization, error) {
	r := &Immunization{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Immunization) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.VaccineSystem = orDefault(r.VaccineSystem, terminology.CVXSystem)
	r.SiteSystem = orDefault(r.SiteSystem, terminology.SNOMEDSystem)
	r.RouteSystem = orDefault(r.RouteSystem, terminology.SNOMEDSystem)
}

func (r *Immunization) Identifiers() fhirutil.IdentifierValues {
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
