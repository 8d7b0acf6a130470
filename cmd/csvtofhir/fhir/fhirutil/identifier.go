package fhirutil

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
	"github.com/spf13/cast"
)

// IdentifierType is a v2-0203 identifier type code with its display text
type IdentifierType struct {
	Code    string
	Display string
}

var (
	SubscriberNumber          = IdentifierType{"SN", "Subscriber Number"}
	SocialSecurityNumber      = IdentifierType{"SS", "Social Security number"}
	EmployerNumber            = IdentifierType{"EN", "Employer number"}
	MemberNumber              = IdentifierType{"MB", "Member Number"}
	NPINumber                 = IdentifierType{"NPI", "National provider identifier"}
	ResourceIdentifier        = IdentifierType{"RI", "Resource identifier"}
	PatientInternalIdentifier = IdentifierType{"PI", "Patient internal identifier"}
	MedicalRecordNumber       = IdentifierType{"MR", "Medical record number"}
	AccountNumber             = IdentifierType{"AN", "Account number"}
	EncounterNumber           = IdentifierType{"VN", "Visit number"}
	DriversLicense            = IdentifierType{"DL", "Driver's license number"}
	PrescriptionNumber        = IdentifierType{"RXN", "Prescription Number"}
)

// identifier types that can repeat and therefore carry the value in their id
var idIncludesValue = map[string]bool{
	MedicalRecordNumber.Code:       true,
	DriversLicense.Code:            true,
	AccountNumber.Code:             true,
	EncounterNumber.Code:           true,
	PatientInternalIdentifier.Code: true,
	ResourceIdentifier.Code:        true,
	PrescriptionNumber.Code:        true,
}

var typeSystemOverride = map[string]string{
	PrescriptionNumber.Code: terminology.CDMIdentifierTypeSystem,
}

// IdentifierValues holds the identifier bearing fields of a record. Each
// record type fills only the fields it declares.
type IdentifierValues struct {
	PatientInternalID    string
	SSN                  string
	SSNSystem            string
	MRN                  string
	AccountNumber        string
	EncounterNumber      string
	ResourceInternalID   string
	DriversLicense       string
	DriversLicenseSystem string
	PractitionerNPI      string
	MedicationRxNumber   string
	AssigningAuthority   string
}

// IdentifierValuesFromRow reads the identifier fields from an untyped row
func IdentifierValuesFromRow(row map[string]any) IdentifierValues {
	get := func(key string) string {
		v, ok := row[key]
		if !ok || v == nil {
			return ""
		}
		return cast.ToString(v)
	}
	return IdentifierValues{
		PatientInternalID:    get("patientInternalId"),
		SSN:                  get("ssn"),
		SSNSystem:            get("ssnSystem"),
		MRN:                  get("mrn"),
		AccountNumber:        get("accountNumber"),
		EncounterNumber:      get("encounterNumber"),
		ResourceInternalID:   get("resourceInternalId"),
		DriversLicense:       get("driversLicense"),
		DriversLicenseSystem: get("driversLicenseSystem"),
		PractitionerNPI:      get("identifier_practitionerNPI"),
		MedicationRxNumber:   get("medicationRxNumber"),
		AssigningAuthority:   get("assigningAuthority"),
	}
}

// IdentifierList builds the typed identifiers in a fixed field order. Empty
// values and the literal "None" are skipped. Returns nil for an empty list.
func IdentifierList(v IdentifierValues) []fhir.Identifier {
	entries := []struct {
		value  string
		system string
		kind   IdentifierType
	}{
		{v.PatientInternalID, v.AssigningAuthority, PatientInternalIdentifier},
		{v.SSN, v.SSNSystem, SocialSecurityNumber},
		{v.MRN, v.AssigningAuthority, MedicalRecordNumber},
		{v.AccountNumber, v.AssigningAuthority, AccountNumber},
		{v.EncounterNumber, v.AssigningAuthority, EncounterNumber},
		{v.ResourceInternalID, v.AssigningAuthority, ResourceIdentifier},
		{v.DriversLicense, v.DriversLicenseSystem, DriversLicense},
		{v.PractitionerNPI, "", NPINumber},
		{v.MedicationRxNumber, v.AssigningAuthority, PrescriptionNumber},
	}

	var identifiers []fhir.Identifier
	for _, e := range entries {
		if e.value == "" || e.value == "None" {
			continue
		}
		if id := IdentifierByType(e.value, e.system, e.kind); id != nil {
			identifiers = append(identifiers, *id)
		}
	}
	return identifiers
}

// IdentifierByType builds an identifier of a known type
func IdentifierByType(value, system string, kind IdentifierType) *fhir.Identifier {
	typeSystem := terminology.IdentifierTypeSystem
	if override, ok := typeSystemOverride[kind.Code]; ok {
		typeSystem = override
	}
	return BuildIdentifier(value, system, typeSystem, kind.Code, kind.Display)
}

func BuildIdentifier(value, system, typeSystem, typeCode, typeText string) *fhir.Identifier {
	if value == "" {
		return nil
	}
	id := typeCode
	if idIncludesValue[typeCode] {
		id = FormatID(typeCode + "." + value)
	}

	var cc *fhir.CodeableConcept
	if typeCode != "" || typeText != "" {
		cc = &fhir.CodeableConcept{Text: typeText}
		if typeCode != "" {
			cc.Coding = []fhir.Coding{{Code: typeCode, System: typeSystem, Display: typeText}}
		}
	}
	return &fhir.Identifier{
		ID:     id,
		Value:  value,
		System: URIFormat(system),
		Type:   cc,
	}
}
