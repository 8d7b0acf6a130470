package record

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
)

type Patient struct {
	Base            `mapstructure:",squash"`
	PatientIdentity `mapstructure:",squash"`

	PatientSourceRecordID string `mapstructure:"patientSourceRecordId"`
	DriversLicense        string `mapstructure:"driversLicense"`
	DriversLicenseSystem  string `mapstructure:"driversLicenseSystem"`

	NameFirst           string `mapstructure:"nameFirst"`
	NameFirstMiddle     string `mapstructure:"nameFirstMiddle"`
	NameMiddle          string `mapstructure:"nameMiddle"`
	NameLast            string `mapstructure:"nameLast"`
	NameFirstMiddleLast string `mapstructure:"nameFirstMiddleLast"`
	NamePrefix          string `mapstructure:"namePrefix"`
	NameSuffix          string `mapstructure:"nameSuffix"`
	Prefix              string `mapstructure:"prefix"`
	Suffix              string `mapstructure:"suffix"`

	BirthDate            string `mapstructure:"birthDate"`
	DeceasedDateTime     string `mapstructure:"deceasedDateTime"`
	DeceasedBoolean      string `mapstructure:"deceasedBoolean"`
	MultipleBirthBoolean string `mapstructure:"multipleBirthBoolean"`
	MultipleBirthInteger *int   `mapstructure:"multipleBirthInteger"`

	Address1     string `mapstructure:"address1"`
	Address2     string `mapstructure:"address2"`
	City         string `mapstructure:"city"`
	State        string `mapstructure:"state"`
	PostalCode   string `mapstructure:"postalCode"`
	Country      string `mapstructure:"country"`
	AddressText  string `mapstructure:"addressText"`
	TelecomPhone string `mapstructure:"telecomPhone"`

	Race            string `mapstructure:"race"`
	RaceSystem      string `mapstructure:"raceSystem"`
	RaceText        string `mapstructure:"raceText"`
	Ethnicity       string `mapstructure:"ethnicity"`
	EthnicitySystem string `mapstructure:"ethnicitySystem"`
	EthnicityText   string `mapstructure:"ethnicityText"`
	Gender          string `mapstructure:"gender"`

	AgeInWeeksForAgeUnder2Years  string `mapstructure:"ageInWeeksForAgeUnder2Years"`
	AgeInMonthsForAgeUnder8Years string `mapstructure:"ageInMonthsForAgeUnder8Years"`
}

func NewPatient(row map[string]any) (*Patient, error) {
	r := &Patient{}
	if err := decode(row, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Patient) applyDefaults() {
	r.SSN = ValidateSSN(r.SSN)
	r.RaceSystem = orDefault(r.RaceSystem, terminology.RaceSystem)
	r.EthnicitySystem = orDefault(r.EthnicitySystem, terminology.EthnicitySystem)
}

// ContainsPatientData gates the creation of a Patient resource
func (r *Patient) ContainsPatientData() bool {
	return r.MultipleBirthInteger != nil && *r.MultipleBirthInteger != 0 || anySet(
		r.SSN, r.DriversLicense, r.MRN,
		r.NameFirst, r.NameFirstMiddle, r.NameMiddle, r.NameLast, r.NameFirstMiddleLast,
		r.Prefix, r.Suffix,
		r.BirthDate, r.DeceasedDateTime, r.DeceasedBoolean, r.MultipleBirthBoolean,
		r.Address1, r.Address2, r.City, r.State, r.PostalCode, r.Country, r.AddressText,
		r.TelecomPhone, r.Race, r.Ethnicity, r.Gender,
	)
}

func (r *Patient) Identifiers() fhirutil.IdentifierValues {
	return fhirutil.IdentifierValues{
		PatientInternalID:    r.PatientInternalID,
		SSN:                  r.SSN,
		SSNSystem:            r.SSNSystem,
		MRN:                  r.MRN,
		AccountNumber:        r.AccountNumber,
		DriversLicense:       r.DriversLicense,
		DriversLicenseSystem: r.DriversLicenseSystem,
		AssigningAuthority:   r.AssigningAuthority,
	}
}
