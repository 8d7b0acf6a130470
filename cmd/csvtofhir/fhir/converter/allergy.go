package converter

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const enteredInError = "entered-in-error"

func (svc *ConverterService) convertAllergyIntolerance(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewAllergyIntolerance(row)
	if err != nil {
		return nil, err
	}
	if rec.Code == "" && rec.CodeText == "" {
		return nil, nil
	}
	tz := rec.Location()

	code := fhirutil.CodeableConcept(rec.CodeSystem, rec.Code, "", rec.CodeText)
	a := &fhir.AllergyIntolerance{
		ID:          fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:        WithSourceRecordID(rec.AllergySourceRecordID, meta),
		Identifier:  fhirutil.IdentifierList(rec.Identifiers()),
		Type:        rec.Type,
		Criticality: rec.Criticality,
		Code:        code,
		Patient:     fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), ""),
		Encounter:   fhirutil.ReferenceFromString("Encounter", rec.EncounterInternalID, ""),
	}
	if ext := fhirutil.ExternalIdentifier(code, "AllergyIntolerance"); ext != nil {
		a.Identifier = append(a.Identifier, *ext)
	}
	if rec.Category != "" {
		a.Category = []string{rec.Category}
	}

	if rec.ClinicalStatusCode != "" {
		a.ClinicalStatus = fhirutil.CodeableConcept(terminology.AllergyClinicalStatusSystem, rec.ClinicalStatusCode,
			terminology.AllergyClinicalStatusDisplay[rec.ClinicalStatusCode], "")
	}
	if rec.VerificationStatusCode != "" {
		a.VerificationStatus = fhirutil.CodeableConcept(terminology.AllergyVerificationStatusSystem, rec.VerificationStatusCode,
			terminology.AllergyVerificationStatusDisplay[rec.VerificationStatusCode], "")
	}
	// a clinical status is required unless the allergy was entered in error
	if a.ClinicalStatus == nil && rec.VerificationStatusCode != enteredInError {
		a.ClinicalStatus = fhirutil.CodeableConcept(terminology.AllergyClinicalStatusSystem, record.AllergyClinicalStatusDefault,
			terminology.AllergyClinicalStatusDisplay[record.AllergyClinicalStatusDefault], "")
	}

	a.RecordedDate, err = fhirutil.ParseDateTime(rec.RecordedDateTime, tz)
	svc.warnOnError(err, "AllergyIntolerance", "recordedDate")
	a.OnsetPeriod, err = fhirutil.NewPeriod(rec.OnsetStartDateTime, rec.OnsetEndDateTime, tz)
	svc.warnOnError(err, "AllergyIntolerance", "onsetPeriod")

	if rec.HasReactionData() {
		a.Reaction = []fhir.AllergyIntoleranceReaction{{Manifestation: rec.Manifestations()}}
	}
	return []fhir.Resource{a}, nil
}
