package converter

import (
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const primaryCareParticipant = "PRIMARY_CARE"

func (svc *ConverterService) convertEncounter(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	resources, _, err := svc.encounter(groupByKey, row, meta)
	return resources, err
}

// encounter converts the encounter columns of row together with the patient,
// practitioner and location it references. The Encounter is returned
// separately so callers can link their own resource to it.
func (svc *ConverterService) encounter(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, *fhir.Encounter, error) {
	rec, err := record.NewEncounter(row)
	if err != nil {
		return nil, nil, err
	}
	pat, err := record.NewPatient(row)
	if err != nil {
		return nil, nil, err
	}
	prac, err := record.NewPractitioner(row)
	if err != nil {
		return nil, nil, err
	}
	loc, err := record.NewLocation(row)
	if err != nil {
		return nil, nil, err
	}
	tz := rec.Location()

	enc := &fhir.Encounter{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       WithSourceRecordID(rec.EncounterSourceRecordID, meta),
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Status:     rec.Status,
		Subject:    fhirutil.ReferenceFromString("Patient", fhirutil.ResourceID(orValue(rec.PatientInternalID, groupByKey)), ""),
		Class:      rec.Class(),
		Priority:   fhirutil.CodeableConcept(rec.PriorityCodeSystem, rec.PriorityCode, "", rec.PriorityText),
		Length:     fhirutil.Duration(rec.LengthValue, rec.LengthUnits),
	}
	enc.Period, err = fhirutil.NewPeriod(rec.StartDateTime, rec.EndDateTime, tz)
	svc.warnOnError(err, "Encounter", "period")
	enc.Hospitalization = hospitalization(rec)
	enc.StatusHistory = svc.statusHistory(rec)
	if cc := fhirutil.CodeableConcept(rec.ReasonCodeSystem, rec.ReasonCode, "", rec.ReasonCodeText); cc != nil {
		enc.ReasonCode = []fhir.CodeableConcept{*cc}
	}

	var resources []fhir.Resource
	if p := svc.patient(groupByKey, pat, meta); p != nil {
		resources = append(resources, p)
	}

	practitioners := svc.practitioner(prac, meta)
	if len(practitioners) > 0 {
		resources = append(resources, practitioners...)
		enc.Participant = []fhir.EncounterParticipant{participant(rec, prac, practitioners[0])}
	}

	if rec.ParticipantTypeText == primaryCareParticipant {
		resources = append(resources, primaryCarePatient(groupByKey, rec, prac, meta))
	}

	if l := location(loc, meta); l != nil {
		resources = append(resources, l)
		el := fhir.EncounterLocation{
			ID:       fhirutil.FormatID(rec.LocationSequenceID),
			Location: *fhirutil.ResourceReference(l, "", ""),
		}
		el.Period, err = fhirutil.NewPeriod(rec.LocationPeriodStart, rec.LocationPeriodEnd, tz)
		svc.warnOnError(err, "Encounter", "location.period")
		enc.Location = []fhir.EncounterLocation{el}
	}

	enc.Extension = fhirutil.AppendExtensions(enc.Extension,
		insuredExtension(rec),
		fhirutil.StringExtension(terminology.DRGSystem, rec.DrgCode),
		fhirutil.StringExtension(terminology.ClaimTypeExtensionURL, rec.ClaimType),
	)

	resources = append(resources, enc)
	return resources, enc, nil
}

func hospitalization(rec *record.Encounter) *fhir.EncounterHospitalization {
	if !rec.ContainsHospitalizationData() {
		return nil
	}
	h := &fhir.EncounterHospitalization{
		AdmitSource: fhirutil.CodeableConcept(rec.AdmitSourceCodeSystem, rec.AdmitSourceCode,
			terminology.AdmitSourceDisplay[rec.AdmitSourceCode], rec.AdmitSourceCodeText),
		DischargeDisposition: fhirutil.CodeableConcept(rec.DischargeDispositionCodeSystem, rec.DischargeDispositionCode,
			"", rec.DischargeDispositionCodeText),
	}
	// any readmission code is recorded as the single "R" code
	if rec.ReAdmissionCode != "" {
		h.ReAdmission = fhirutil.CodeableConcept(rec.ReAdmissionCodeSystem, "R", "Re-admission", rec.ReAdmissionCodeText)
	} else {
		h.ReAdmission = fhirutil.CodeableConcept(rec.ReAdmissionCodeSystem, "", "", rec.ReAdmissionCodeText)
	}
	return h
}

// statusHistory parses status^start^end entries. Entries without a start or
// an end time are dropped.
func (svc *ConverterService) statusHistory(rec *record.Encounter) []fhir.EncounterStatusHistory {
	var history []fhir.EncounterStatusHistory
	for _, entry := range rec.StatusHistory {
		parts := strings.Split(entry, "^")
		field := func(i int) string {
			if i < len(parts) && parts[i] != "None" {
				return parts[i]
			}
			return ""
		}
		start, end := field(1), field(2)
		if start == "" && end == "" {
			continue
		}
		period, err := fhirutil.NewPeriod(start, end, rec.Location())
		svc.warnOnError(err, "Encounter", "statusHistory.period")
		history = append(history, fhir.EncounterStatusHistory{Status: field(0), Period: period})
	}
	return history
}

// participant links the encounter to the first practitioner resource, the
// PractitionerRole when one was created.
func participant(rec *record.Encounter, prac *record.Practitioner, individual fhir.Resource) fhir.EncounterParticipant {
	id := rec.ParticipantSequenceID
	if id == "" {
		switch {
		case prac.PractitionerNPI != "":
			id = fhirutil.NPINumber.Code + "." + prac.PractitionerNPI
		case prac.ResourceInternalID != "":
			id = fhirutil.ResourceIdentifier.Code + "." + prac.ResourceInternalID
		}
		switch {
		case rec.ParticipantTypeCode != "":
			id = rec.ParticipantTypeCode + "." + id
		case rec.ParticipantTypeText != "":
			id = rec.ParticipantTypeText + "." + id
		}
	}
	ep := fhir.EncounterParticipant{
		ID:         fhirutil.FormatID(id),
		Individual: fhirutil.ResourceReference(individual, "", ""),
	}
	if cc := fhirutil.CodeableConcept(rec.ParticipantTypeSystem, rec.ParticipantTypeCode,
		terminology.ParticipantTypeDisplay[rec.ParticipantTypeCode], rec.ParticipantTypeText); cc != nil {
		ep.Type = []fhir.CodeableConcept{*cc}
	}
	return ep
}

// primaryCarePatient records the practitioner role as the patient's general
// practitioner. The patient is identified by internal id, else account number.
func primaryCarePatient(groupByKey string, rec *record.Encounter, prac *record.Practitioner, meta *fhir.Meta) *fhir.Patient {
	ids := fhirutil.IdentifierValues{AccountNumber: rec.AccountNumber}
	if rec.PatientInternalID != "" {
		ids = fhirutil.IdentifierValues{PatientInternalID: rec.PatientInternalID}
	}
	p := &fhir.Patient{
		ID:         fhirutil.FormatID(orValue(rec.PatientInternalID, groupByKey)),
		Meta:       meta,
		Identifier: fhirutil.IdentifierList(ids),
	}
	if ref := fhirutil.ReferenceFromString("PractitionerRole", prac.ResourceInternalID, ""); ref != nil {
		p.GeneralPractitioner = []fhir.Reference{*ref}
	}
	return p
}

// insuredExtension requires an insured category code or text
func insuredExtension(rec *record.Encounter) *fhir.Extension {
	category := fhirutil.CodeableConceptExtension(terminology.InsuredCategoryExtensionURL,
		rec.InsuredCategoryCode, rec.InsuredCategorySystem, "", rec.InsuredCategoryText)
	if category == nil {
		return nil
	}
	ext := &fhir.Extension{
		ID:        rec.InsuredEntryIDValue(),
		URL:       terminology.InsuredExtensionURL,
		Extension: []fhir.Extension{*category},
	}
	if rec.InsuredRank != nil {
		ext.Extension = append(ext.Extension, fhir.Extension{URL: terminology.InsuredRankExtensionURL, ValueInteger: rec.InsuredRank})
	}
	return ext
}
