package converter

import (
	"strconv"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
	"github.com/LinuxForHealth/CsvToFHIR/util"
)

func (svc *ConverterService) convertPatient(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewPatient(row)
	if err != nil {
		return nil, err
	}
	if p := svc.patient(groupByKey, rec, meta); p != nil {
		return []fhir.Resource{p}, nil
	}
	return nil, nil
}

// patient returns nil when the row carries no patient data
func (svc *ConverterService) patient(groupByKey string, rec *record.Patient, meta *fhir.Meta) *fhir.Patient {
	if !rec.ContainsPatientData() {
		return nil
	}

	p := &fhir.Patient{
		ID:         fhirutil.ResourceID(orValue(rec.PatientInternalID, groupByKey)),
		Meta:       WithSourceRecordID(rec.PatientSourceRecordID, meta),
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Gender:     rec.Gender,
		Telecom:    fhirutil.PhoneContactPoints(rec.TelecomPhone),
	}
	if name := patientName(rec); name != nil {
		p.Name = []fhir.HumanName{*name}
	}
	if address := fhirutil.Address(rec.Address1, rec.Address2, rec.City, rec.State, rec.PostalCode,
		rec.Country, rec.AddressText); address != nil {
		p.Address = []fhir.Address{*address}
	}

	var err error
	p.BirthDate, err = fhirutil.FormatDate(rec.BirthDate)
	svc.warnOnError(err, "Patient", "birthDate")

	p.DeceasedDateTime, err = fhirutil.FormatDate(rec.DeceasedDateTime)
	svc.warnOnError(err, "Patient", "deceasedDateTime")
	if p.DeceasedDateTime == nil && rec.DeceasedBoolean != "" {
		p.DeceasedBoolean = fhirutil.BooleanValue(rec.DeceasedBoolean)
	}

	if rec.MultipleBirthBoolean != "" {
		p.MultipleBirthBoolean = util.BoolPtr(true)
	} else if rec.MultipleBirthInteger != nil && *rec.MultipleBirthInteger != 0 {
		p.MultipleBirthInteger = rec.MultipleBirthInteger
	}

	p.Extension = fhirutil.AppendExtensions(p.Extension,
		fhirutil.CodeableConceptExtension(terminology.RaceExtensionURL, rec.Race, rec.RaceSystem,
			terminology.RaceDisplay[rec.Race], rec.RaceText),
		fhirutil.CodeableConceptExtension(terminology.EthnicityExtensionURL, rec.Ethnicity, rec.EthnicitySystem,
			terminology.EthnicityDisplay[rec.Ethnicity], rec.EthnicityText),
		svc.ageExtension(terminology.AgeInWeeksExtensionURL, rec.AgeInWeeksForAgeUnder2Years, "ageInWeeksForAgeUnder2Years"),
		svc.ageExtension(terminology.AgeInMonthsExtensionURL, rec.AgeInMonthsForAgeUnder8Years, "ageInMonthsForAgeUnder8Years"),
	)
	return p
}

func (svc *ConverterService) ageExtension(url, value, field string) *fhir.Extension {
	if value == "" {
		return nil
	}
	age, err := strconv.Atoi(value)
	if err != nil {
		svc.warnOnError(err, "Patient", field)
		return nil
	}
	return fhirutil.UnsignedIntExtension(url, &age)
}

// patientName prefers the last name columns, then the combined
// "first middle last" column.
func patientName(rec *record.Patient) *fhir.HumanName {
	prefix := orValue(rec.NamePrefix, rec.Prefix)
	suffix := orValue(rec.NameSuffix, rec.Suffix)
	switch {
	case rec.NameLast != "" && rec.NameFirst == "" && rec.NameFirstMiddle != "":
		return fhirutil.HumanNameFromFML(rec.NameFirstMiddle+" "+rec.NameLast, prefix, suffix)
	case rec.NameLast != "":
		return fhirutil.HumanName(rec.NameLast, rec.NameFirst, rec.NameMiddle, prefix, suffix)
	case rec.NameFirstMiddleLast != "":
		return fhirutil.HumanNameFromFML(rec.NameFirstMiddleLast, prefix, suffix)
	}
	return nil
}

func orValue(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
