package converter

import (
	"github.com/spf13/cast"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const doseAsText = "as-text"

// withResourceType returns a copy of row with resourceType replaced
func withResourceType(row map[string]any, resourceType string) map[string]any {
	out := make(map[string]any, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	out["resourceType"] = resourceType
	return out
}

// convertMedicationAdministration emits a MedicationAdministration when the
// occurrence date parses, a MedicationStatement with the default status
// otherwise.
func (svc *ConverterService) convertMedicationAdministration(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	resourceType := record.MedicationStatementType
	rec, err := record.NewMedicationUse(row)
	if err != nil {
		return nil, err
	}
	if occurred, err := fhirutil.ParseDateTime(rec.OccurrenceDateTime, rec.Location()); err == nil && occurred != nil {
		resourceType = record.MedicationAdministrationType
	}
	row = withResourceType(row, resourceType)
	if resourceType == record.MedicationStatementType {
		row["medicationUseStatus"] = record.MedicationStatusDefault
	}
	return svc.convertMedicationUse(groupByKey, row, meta)
}

func (svc *ConverterService) convertMedicationRequest(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	return svc.convertMedicationUse(groupByKey, withResourceType(row, record.MedicationRequestType), meta)
}

func (svc *ConverterService) convertMedicationStatement(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	return svc.convertMedicationUse(groupByKey, withResourceType(row, record.MedicationStatementType), meta)
}

// convertMedicationUse converts a medication row to the resource type the row names
func (svc *ConverterService) convertMedicationUse(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewMedicationUse(row)
	if err != nil {
		return nil, err
	}
	if rec.Code == "" && rec.CodeText == "" && len(rec.CodeList) == 0 {
		return nil, nil
	}
	tz := rec.Location()

	medication := fhirutil.CodeableConceptNoTextDefault(rec.CodeSystem, rec.Code, rec.CodeDisplay, rec.CodeText)
	medication = fhirutil.AddHL7CodedList(rec.CodeList, medication, rec.AssigningAuthority)

	identifiers := fhirutil.IdentifierList(rec.Identifiers())
	if ext := fhirutil.ExternalIdentifier(medication, rec.ResourceType); ext != nil {
		identifiers = append(identifiers, *ext)
	}

	id := fhirutil.ResourceID(rec.ResourceInternalID)
	subject := fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), "")
	encounterRef := fhirutil.ReferenceFromString("Encounter", rec.EncounterInternalID, "")
	status := orValue(rec.Status, record.MedicationStatusDefault)
	category := fhirutil.CodeableConcept(rec.DefaultCategorySystem(), rec.CategoryCode, "", rec.CategoryCodeText)
	resourceMeta := WithSourceRecordID(rec.MedicationSourceRecordID, meta)

	var resources []fhir.Resource
	switch rec.ResourceType {
	case record.MedicationAdministrationType:
		admin := &fhir.MedicationAdministration{
			ID:                        id,
			Meta:                      resourceMeta,
			Identifier:                identifiers,
			Status:                    status,
			Category:                  category,
			MedicationCodeableConcept: medication,
			Subject:                   subject,
			Context:                   encounterRef,
		}
		admin.EffectiveDateTime, err = fhirutil.ParseDateTime(rec.OccurrenceDateTime, tz)
		svc.warnOnError(err, rec.ResourceType, "effectiveDateTime")
		if rec.ContainsDosageData() {
			admin.Dosage = svc.administrationDosage(rec)
		}
		resources = append(resources, admin)

	case record.MedicationRequestType:
		req := &fhir.MedicationRequest{
			ID:                        id,
			Meta:                      resourceMeta,
			Identifier:                identifiers,
			Status:                    status,
			Intent:                    rec.RequestIntent,
			MedicationCodeableConcept: medication,
			Subject:                   subject,
			Encounter:                 encounterRef,
		}
		if category != nil {
			req.Category = []fhir.CodeableConcept{*category}
		}
		req.AuthoredOn, err = fhirutil.ParseDateTime(rec.AuthoredOn, tz)
		svc.warnOnError(err, rec.ResourceType, "authoredOn")
		if rec.ContainsDosageData() {
			req.DosageInstruction = []fhir.Dosage{svc.dosage(rec)}
		}
		req.DispenseRequest = svc.dispenseRequest(rec)

		if rec.EncounterClaimType != "" || rec.EncounterClassCode != "" {
			_, enc, err := svc.encounter(groupByKey, row, meta)
			if err != nil {
				return nil, err
			}
			resources = append(resources, enc)
		}
		resources = append(resources, req)

	default:
		stmt := &fhir.MedicationStatement{
			ID:                        id,
			Meta:                      resourceMeta,
			Identifier:                identifiers,
			Status:                    status,
			Category:                  category,
			MedicationCodeableConcept: medication,
			Subject:                   subject,
			Context:                   encounterRef,
		}
		stmt.EffectiveDateTime, err = fhirutil.ParseDateTime(rec.OccurrenceDateTime, tz)
		svc.warnOnError(err, rec.ResourceType, "effectiveDateTime")
		if rec.ContainsDosageData() {
			stmt.Dosage = []fhir.Dosage{svc.dosage(rec)}
		}
		resources = append(resources, stmt)
	}
	return resources, nil
}

func (svc *ConverterService) doseQuantity(rec *record.MedicationUse) *fhir.Quantity {
	if rec.DosageValue == "" {
		return nil
	}
	q := fhirutil.Quantity(rec.DosageValue, rec.DosageUnit)
	if q == nil {
		svc.log.Warn().Str("resourceType", rec.ResourceType).Str("value", rec.DosageValue).Msg("Dosage value is not a number")
	}
	return q
}

func medicationRoute(rec *record.MedicationUse) *fhir.CodeableConcept {
	route := fhirutil.CodeableConcept(rec.RouteCodeSystem, rec.RouteCode, "", rec.RouteText)
	return fhirutil.AddHL7CodedList(rec.RouteList, route, rec.AssigningAuthority)
}

func (svc *ConverterService) administrationDosage(rec *record.MedicationUse) *fhir.MedicationAdministrationDosage {
	d := &fhir.MedicationAdministrationDosage{
		Text:  rec.DosageText,
		Route: medicationRoute(rec),
		Dose:  svc.doseQuantity(rec),
	}
	if d.Dose == nil {
		d.Dose = &fhir.Quantity{Extension: []fhir.Extension{{
			URL:       terminology.DataAbsentExtensionURL,
			ValueCode: doseAsText,
		}}}
	}
	return d
}

func (svc *ConverterService) dosage(rec *record.MedicationUse) fhir.Dosage {
	d := fhir.Dosage{
		Text:  rec.DosageText,
		Route: medicationRoute(rec),
	}
	if q := svc.doseQuantity(rec); q != nil {
		d.DoseAndRate = []fhir.DosageDoseAndRate{{DoseQuantity: q}}
	}
	return d
}

func (svc *ConverterService) dispenseRequest(rec *record.MedicationUse) *fhir.MedicationRequestDispenseRequest {
	dispense := &fhir.MedicationRequestDispenseRequest{}
	var err error
	dispense.ValidityPeriod, err = fhirutil.NewPeriod(rec.ValidityStart, rec.ValidityEnd, rec.Location())
	svc.warnOnError(err, rec.ResourceType, "dispenseRequest.validityPeriod")

	if rec.Refills != "" {
		refills, err := cast.ToIntE(rec.Refills)
		svc.warnOnError(err, rec.ResourceType, "dispenseRequest.numberOfRepeatsAllowed")
		if err == nil {
			dispense.NumberOfRepeatsAllowed = &refills
		}
	}
	if rec.Quantity != "" {
		if !fhirutil.IsNumeric(rec.Quantity) {
			svc.log.Warn().Str("value", rec.Quantity).Msg("Medication quantity is not a number")
		} else {
			dispense.Quantity = fhirutil.Quantity(rec.Quantity, "")
		}
	}
	if dispense.ValidityPeriod == nil && dispense.NumberOfRepeatsAllowed == nil && dispense.Quantity == nil {
		return nil
	}
	return dispense
}
