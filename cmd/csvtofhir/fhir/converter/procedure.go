package converter

import (
	"strconv"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

func (svc *ConverterService) convertProcedure(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewProcedure(row)
	if err != nil {
		return nil, err
	}
	if rec.Code == "" && rec.CodeText == "" && len(rec.CodeList) == 0 {
		return nil, nil
	}

	code := fhirutil.CodeableConcept(rec.CodeSystem, rec.Code, rec.CodeDisplay, rec.CodeText)
	code = fhirutil.AddHL7CodedList(rec.CodeList, code, rec.AssigningAuthority)
	// every code entry was incomplete
	if code == nil {
		return nil, nil
	}

	proc := &fhir.Procedure{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       WithSourceRecordID(rec.ProcedureSourceRecordID, meta),
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Status:     rec.Status,
		Category:   fhirutil.CodeableConcept(rec.CategorySystem, rec.Category, "", rec.CategoryText),
		Subject:    fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), ""),
		Code:       code,
		Extension:  modifierExtensions(rec),
	}
	if ext := fhirutil.ExternalIdentifier(code, "Procedure"); ext != nil {
		proc.Identifier = append(proc.Identifier, *ext)
	}
	proc.PerformedDateTime, err = fhirutil.ParseDateTime(rec.PerformedDateTime, rec.Location())
	svc.warnOnError(err, "Procedure", "performedDateTime")

	var resources []fhir.Resource
	var enc *fhir.Encounter
	var performer fhir.Resource
	if rec.HasEncounterData() {
		var encResources []fhir.Resource
		encResources, enc, err = svc.encounter(groupByKey, row, meta)
		if err != nil {
			return nil, err
		}
		for _, r := range encResources {
			switch r.(type) {
			case *fhir.PractitionerRole:
				performer = r
			case *fhir.Practitioner:
				if performer == nil {
					performer = r
				}
			}
		}
		resources = append(resources, encResources...)
	} else {
		prac, err := record.NewPractitioner(row)
		if err != nil {
			return nil, err
		}
		if practitioners := svc.practitioner(prac, meta); len(practitioners) > 0 {
			performer = practitioners[0]
			resources = append(resources, practitioners...)
		}
	}

	if performer != nil {
		proc.Performer = []fhir.ProcedurePerformer{{Actor: *fhirutil.ResourceReference(performer, "", "")}}
	}
	if enc != nil {
		proc.Encounter = fhirutil.ResourceReference(enc, "", "")
		ref := fhirutil.ResourceReference(proc, "", proc.ID)
		if seq := sequenceExtension(rec.EncounterSequenceID); seq != nil {
			ref.Extension = []fhir.Extension{*seq}
		}
		enc.ReasonReference = []fhir.Reference{*ref}
	}
	return append(resources, proc), nil
}

func modifierExtensions(rec *record.Procedure) []fhir.Extension {
	var extensions []fhir.Extension
	for _, m := range rec.Modifiers() {
		extensions = append(extensions, fhir.Extension{
			URL:                  terminology.ProcedureModifierExtensionURL,
			ValueCodeableConcept: fhirutil.CodeableConcept(rec.ModifierSystem, m, "", ""),
		})
	}
	return extensions
}

// sequenceExtension requires a non-negative integer sequence id
func sequenceExtension(value string) *fhir.Extension {
	if !fhirutil.IsNumeric(value) {
		return nil
	}
	seq, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &fhir.Extension{URL: terminology.ReferenceSequenceExtensionURL, ValuePositiveInt: &seq}
}
