package converter

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const occurrenceUnknown = "unknown"

func (svc *ConverterService) convertImmunization(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewImmunization(row)
	if err != nil {
		return nil, err
	}
	if rec.VaccineCode == "" {
		return nil, nil
	}

	vaccine := fhirutil.CodeableConcept(rec.VaccineSystem, rec.VaccineCode, rec.VaccineDisplay, rec.VaccineText)
	vaccine = fhirutil.AddHL7CodedList(rec.VaccineCodeList, vaccine, rec.AssigningAuthority)

	imm := &fhir.Immunization{
		ID:           fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:         WithSourceRecordID(rec.ImmunizationSourceRecordID, meta),
		Identifier:   fhirutil.IdentifierList(rec.Identifiers()),
		Status:       rec.Status,
		VaccineCode:  vaccine,
		Patient:      fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), ""),
		Encounter:    fhirutil.ReferenceFromString("Encounter", rec.EncounterInternalID, ""),
		DoseQuantity: fhirutil.Quantity(rec.DoseQuantity, rec.DoseUnit),
	}
	if ext := fhirutil.ExternalIdentifier(vaccine, "Immunization"); ext != nil {
		imm.Identifier = append(imm.Identifier, *ext)
	}
	if rec.RouteCode != "" {
		imm.Route = fhirutil.CodeableConcept(rec.RouteSystem, rec.RouteCode, "", rec.RouteText)
	}
	if rec.SiteCode != "" {
		imm.Site = fhirutil.CodeableConcept(rec.SiteSystem, rec.SiteCode, "", rec.SiteText)
	}
	if rec.StatusReasonCode != "" {
		imm.StatusReason = fhirutil.CodeableConcept(rec.StatusReasonSystem, rec.StatusReasonCode,
			terminology.ImmunizationStatusReasonDisplay[rec.StatusReasonCode], rec.StatusReasonText)
	}

	if rec.Date != "" {
		imm.OccurrenceDateTime, err = fhirutil.ParseDateTime(rec.Date, rec.Location())
		svc.warnOnError(err, "Immunization", "occurrenceDateTime")
	} else {
		imm.OccurrenceString = occurrenceUnknown
	}
	imm.ExpirationDate, err = fhirutil.FormatDate(rec.ExpirationDate)
	svc.warnOnError(err, "Immunization", "expirationDate")

	var resources []fhir.Resource
	if rec.OrganizationName != "" {
		org, err := record.NewOrganization(row)
		if err != nil {
			return nil, err
		}
		manufacturer := organization(org, meta)
		resources = append(resources, manufacturer)
		imm.Manufacturer = fhirutil.ReferenceFromString("Organization", orValue(manufacturer.ID, groupByKey), rec.OrganizationName)
	}
	return append(resources, imm), nil
}
