package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

type Location struct {
	Base `mapstructure:",squash"`

	AssigningAuthority string `mapstructure:"assigningAuthority"`
	ResourceInternalID string `mapstructure:"locationResourceInternalId"`
	Name               string `mapstructure:"locationName"`
	TypeCode           string `mapstructure:"locationTypeCode"`
	TypeText           string `mapstructure:"locationTypeText"`
	TypeCodeSystem     string `mapstructure:"locationTypeCodeSystem"`
}

func NewLocation(row map[string]any) (*Location, error) {
	r := &Location{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Location) applyDefaults() {
	r.TypeCodeSystem = orDefault(r.TypeCodeSystem, terminology.LocationTypeSystem)
}

func (r *Location) ContainsLocationData() bool {
	return anySet(r.ResourceInternalID, r.Name, r.TypeCode, r.TypeText)
}

func (r *Location) Identifiers() fhirutil.IdentifierValues {
	return fhirutil.IdentifierValues{
		ResourceInternalID: r.ResourceInternalID,
		AssigningAuthority: r.AssigningAuthority,
	}
}

type Organization struct {
	Base `mapstructure:",squash"`

	AssigningAuthority string `mapstructure:"assigningAuthority"`
	ResourceInternalID string `mapstructure:"organizationResourceInternalId"`
	Name               string `mapstructure:"organizationName"`
}

func NewOrganization(row map[string]any) (*Organization, error) {
	r := &Organization{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Organization) applyDefaults() {}

func (r *Organization) ContainsOrganizationData() bool {
	return r.Name != ""
}

func (r *Organization) Identifiers() fhirutil.IdentifierValues {
	return fhirutil.IdentifierValues{
		ResourceInternalID: r.ResourceInternalID,
		AssigningAuthority: r.AssigningAuthority,
	}
}
