package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

// Basic reads a patient token row
type Basic struct {
	Base `mapstructure:",squash"`

	BaseSystem           string `mapstructure:"baseSystem"`
	IdentifierTypeSystem string `mapstructure:"identifierTypeSystem"`
	// name^value^system entries
	TokenList                 []string `mapstructure:"tokenList"`
	PatientInternalIdentifier string   `mapstructure:"patientInternalIdentifier"`
	CreatedDate               string   `mapstructure:"created_date"`
	OtherIdentifierList       []string `mapstructure:"otherIdentifierList"`

	NYSIISLegacyHash   string `mapstructure:"NYSIIS_Legacy_Hash"`
	STDSSNHash         string `mapstructure:"STD_SSN_Hash"`
	TokenizedSID       string `mapstructure:"tokenized_sid"`
	TokenEncryptionKey string `mapstructure:"token_encryption_key"`
	SourcePatientSID   string `mapstructure:"source_patient_sid"`
	SID                string `mapstructure:"sid"`
}

func NewBasic(row map[string]any) (*Basic, error) {
	r := &Basic{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Basic) applyDefaults() {
	r.IdentifierTypeSystem = orDefault(r.IdentifierTypeSystem, terminology.CDMIdentifierTypeSystem)
}
