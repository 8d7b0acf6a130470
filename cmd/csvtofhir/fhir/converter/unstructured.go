package converter

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

func (svc *ConverterService) convertDocumentReference(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	return svc.convertUnstructured(groupByKey, withResourceType(row, record.DocumentReferenceType), meta)
}

func (svc *ConverterService) convertDiagnosticReport(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	return svc.convertUnstructured(groupByKey, withResourceType(row, record.DiagnosticReportType), meta)
}

// convertUnstructured wraps a clinical note into a DocumentReference, or a
// DiagnosticReport when the row asks for one. Rows without content are skipped.
func (svc *ConverterService) convertUnstructured(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewUnstructured(row)
	if err != nil {
		return nil, err
	}
	tz := rec.Location()

	attachment, err := fhirutil.Attachment(rec.AttachmentContentType, rec.AttachmentContent, rec.AttachmentTitle, rec.DocumentDateTime, tz)
	svc.warnOnError(err, rec.ResourceType, "attachment.creation")
	if attachment == nil {
		return nil, nil
	}

	identifiers := fhirutil.IdentifierList(rec.Identifiers())
	code := rec.DefaultDocumentCode()
	if rec.DocumentTypeCode != "" {
		code = fhirutil.CodeableConcept(rec.DocumentTypeCodeSystem, rec.DocumentTypeCode, "", rec.DocumentTypeCodeText)
	}
	if attachment.Creation != nil && len(code.Coding) > 0 {
		if ext := fhirutil.ExtIDIdentifier(code.Coding[0].Code + "-" + attachment.Creation.String()); ext != nil {
			identifiers = append(identifiers, *ext)
		}
	}

	subject := fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), "")
	encounterRef := fhirutil.ReferenceFromString("Encounter", rec.EncounterInternalID, "")

	prac, err := record.NewPractitioner(row)
	if err != nil {
		return nil, err
	}
	resources := svc.practitioner(prac, meta)
	var authors []fhir.Reference
	if len(resources) > 0 {
		authors = []fhir.Reference{*fhirutil.ResourceReference(resources[0], "", "")}
	}

	issued, err := fhirutil.ParseDateTime(rec.DocumentDateTime, tz)
	svc.warnOnError(err, rec.ResourceType, "date")

	if rec.ResourceType == record.DiagnosticReportType {
		return append(resources, &fhir.DiagnosticReport{
			ID:                 fhirutil.ResourceID(rec.ResourceInternalID),
			Meta:               meta,
			Identifier:         identifiers,
			Status:             rec.DocumentStatus,
			Code:               code,
			Subject:            subject,
			Encounter:          encounterRef,
			Issued:             issued,
			ResultsInterpreter: authors,
			PresentedForm:      []fhir.Attachment{*attachment},
		}), nil
	}

	doc := &fhir.DocumentReference{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       meta,
		Identifier: identifiers,
		Status:     rec.ResourceStatus,
		DocStatus:  rec.DocumentStatus,
		Type:       code,
		Subject:    subject,
		Date:       issued,
		Author:     authors,
		Content:    []fhir.DocumentReferenceContent{{Attachment: *attachment}},
	}
	if encounterRef != nil {
		doc.Context = &fhir.DocumentReferenceContext{Encounter: []fhir.Reference{*encounterRef}}
	}
	return append(resources, doc), nil
}
