package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

// Practitioner reads the practitioner columns of a row. The resource internal
// id and NPI come from practitionerInternalId and practitionerNPI only.
type Practitioner struct {
	Base `mapstructure:",squash"`

	AssigningAuthority string `mapstructure:"assigningAuthority"`
	ResourceInternalID string `mapstructure:"practitionerInternalId"`
	PractitionerNPI    string `mapstructure:"practitionerNPI"`

	NameLast  string `mapstructure:"practitionerNameLast"`
	NameFirst string `mapstructure:"practitionerNameFirst"`
	NameText  string `mapstructure:"practitionerNameText"`
	Gender    string `mapstructure:"practitionerGender"`

	RoleText       string   `mapstructure:"practitionerRoleText"`
	RoleCode       string   `mapstructure:"practitionerRoleCode"`
	RoleCodeList   []string `mapstructure:"practitionerRoleCodeList"`
	RoleCodeSystem string   `mapstructure:"practitionerRoleCodeSystem"`

	SpecialtyCode       string   `mapstructure:"practitionerSpecialtyCode"`
	SpecialtyCodeList   []string `mapstructure:"practitionerSpecialtyCodeList"`
	SpecialtyCodeSystem string   `mapstructure:"practitionerSpecialtyCodeSystem"`
	SpecialtyText       string   `mapstructure:"practitionerSpecialtyText"`
}

func NewPractitioner(row map[string]any) (*Practitioner, error) {
	r := &Practitioner{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Practitioner) applyDefaults() {
	r.SpecialtyCodeSystem = orDefault(r.SpecialtyCodeSystem, terminology.ProviderTaxonomySystem)
}

// ContainsRoleData gates the creation of a PractitionerRole
func (r *Practitioner) ContainsRoleData() bool {
	return len(r.RoleCodeList) > 0 || len(r.SpecialtyCodeList) > 0 ||
		anySet(r.RoleText, r.RoleCode, r.SpecialtyText, r.SpecialtyCode)
}

// ContainsPractitionerData gates the creation of a Practitioner. An id or NPI
// alone is enough when no PractitionerRole will carry it.
func (r *Practitioner) ContainsPractitionerData() bool {
	if anySet(r.NameLast, r.NameFirst, r.Gender) {
		return true
	}
	if anySet(r.ResourceInternalID, r.PractitionerNPI) {
		return !r.ContainsRoleData()
	}
	return false
}

func (r *Practitioner) Identifiers() fhirutil.IdentifierValues {
	return fhirutil.IdentifierValues{
		ResourceInternalID: r.ResourceInternalID,
		PractitionerNPI:    r.PractitionerNPI,
		AssigningAuthority: r.AssigningAuthority,
	}
}
