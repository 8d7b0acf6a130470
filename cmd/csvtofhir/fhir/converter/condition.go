package converter

import (
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

// SNOMED bindings for the condition-diseaseCourse extension
var chronicityConcepts = map[string]fhir.Coding{
	"chronic": {Code: "90734009", Display: "Chronic (qualifier value)", System: terminology.SNOMEDSystem},
	"acute":   {Code: "373933003", Display: "Acute onset", System: terminology.SNOMEDSystem},
}

func (svc *ConverterService) convertCondition(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewCondition(row)
	if err != nil {
		return nil, err
	}
	if rec.Code == "" && rec.CodeText == "" {
		return nil, nil
	}
	tz := rec.Location()

	code := fhirutil.CodeableConcept(rec.CodeSystem, rec.Code, "", rec.CodeText)
	c := &fhir.Condition{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       WithSourceRecordID(rec.ConditionSourceRecordID, meta),
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Code:       code,
		Subject:    fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), ""),
		Severity:   fhirutil.CodeableConcept(rec.SeveritySystem, rec.SeverityCode, "", rec.SeverityText),
	}
	if ext := fhirutil.ExternalIdentifier(code, "Condition"); ext != nil {
		c.Identifier = append(c.Identifier, *ext)
	}
	if category := rec.CategoryConcept(); category != nil {
		c.Category = []fhir.CodeableConcept{*category}
	}
	if rec.ClinicalStatus != "" {
		c.ClinicalStatus = fhirutil.CodeableConcept(terminology.ConditionClinicalStatusSystem, rec.ClinicalStatus,
			terminology.ConditionClinicalStatusDisplay[rec.ClinicalStatus], "")
	}
	if rec.VerificationStatus != "" {
		c.VerificationStatus = fhirutil.CodeableConcept(terminology.ConditionVerificationStatusSystem, rec.VerificationStatus,
			terminology.ConditionVerificationStatusDisplay[rec.VerificationStatus], "")
	}
	if rec.Chronicity != "" {
		c.Extension = append(c.Extension, chronicityExtension(rec.Chronicity))
	}

	c.RecordedDate, err = fhirutil.ParseDateTime(rec.RecordedDateTime, tz)
	svc.warnOnError(err, "Condition", "recordedDate")
	c.OnsetDateTime, err = fhirutil.ParseDateTime(rec.OnsetDateTime, tz)
	svc.warnOnError(err, "Condition", "onsetDateTime")
	c.AbatementDateTime, err = fhirutil.ParseDateTime(rec.AbatementDateTime, tz)
	svc.warnOnError(err, "Condition", "abatementDateTime")

	var resources []fhir.Resource
	if rec.HasEncounterData() {
		encResources, enc, err := svc.encounter(groupByKey, row, meta)
		if err != nil {
			return nil, err
		}
		resources = append(resources, encResources...)
		c.Encounter = fhirutil.ResourceReference(enc, "", "")
		svc.linkCondition(enc, rec, c)
	}

	return append(resources, c), nil
}

// linkCondition adds the condition to the encounter diagnosis list, or to the
// encounter reasons for problem list items.
func (svc *ConverterService) linkCondition(enc *fhir.Encounter, rec *record.Condition, c *fhir.Condition) {
	display := c.Code.Text
	if len(c.Code.Coding) > 0 {
		display = c.Code.Coding[0].Code
		if c.Code.Text != "" {
			display += " (" + c.Code.Text + ")"
		}
	}
	ref := fhirutil.ResourceReference(c, display, "")

	switch rec.Category {
	case record.ConditionCategoryEncounterDiagnosis:
		id := fhirutil.FormatID(rec.DiagnosisRank)
		if id == "" {
			if len(c.Code.Coding) > 0 {
				id = c.Code.Coding[0].Code
			} else {
				id = c.Code.Text
			}
		}
		rank, err := rec.DiagnosisRankInt()
		svc.warnOnError(err, "Condition", "conditionDiagnosisRank")
		diagnosis := fhir.EncounterDiagnosis{ID: id, Condition: *ref, Rank: rank}
		if rec.DiagnosisUse != "" {
			diagnosis.Use = fhirutil.CodeableConcept(terminology.EncounterDiagnosisUseSystem, rec.DiagnosisUse,
				terminology.DiagnosisUseDisplay[rec.DiagnosisUse], "")
		}
		enc.Diagnosis = []fhir.EncounterDiagnosis{diagnosis}
	case record.ConditionCategoryProblemList:
		ref.ID = fhirutil.FormatID(ref.Reference)
		enc.ReasonReference = []fhir.Reference{*ref}
	}
}

func chronicityExtension(value string) fhir.Extension {
	cc := &fhir.CodeableConcept{Text: value}
	if coding, ok := chronicityConcepts[strings.ToLower(value)]; ok {
		cc.Coding = []fhir.Coding{coding}
	}
	return fhir.Extension{URL: terminology.ChronicityExtensionURL, ValueCodeableConcept: cc}
}
