package converter

import (
	"strconv"
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
	"github.com/LinuxForHealth/CsvToFHIR/util"
)

// Observation value types accepted in observationValueDataType
const (
	ValueQuantity        = "valueQuantity"
	ValueInteger         = "valueInteger"
	ValueBoolean         = "valueBoolean"
	ValueCodeableConcept = "valueCodeableConcept"
	ValueString          = "valueString"
)

func (svc *ConverterService) convertObservation(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewObservation(row)
	if err != nil {
		return nil, err
	}
	if rec.Code == "" && rec.CodeText == "" {
		return nil, nil
	}

	var code *fhir.CodeableConcept
	if strings.Contains(rec.Code, "^") {
		code = fhirutil.HL7CodeableConcept(rec.Code)
	} else {
		code = fhirutil.CodeableConcept(rec.CodeSystem, rec.Code, "", rec.CodeText)
	}
	code = fhirutil.AddHL7CodedList(rec.CodeList, code, rec.AssigningAuthority)

	obs := &fhir.Observation{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       WithSourceRecordID(rec.ObservationSourceRecordID, meta),
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Status:     rec.Status,
		Code:       code,
		Subject:    fhirutil.ReferenceFromString("Patient", orValue(rec.PatientInternalID, groupByKey), ""),
		Encounter:  fhirutil.ReferenceFromString("Encounter", rec.EncounterInternalID, ""),
	}
	if display, ok := terminology.ObservationCategoryDisplay[rec.Category]; ok && rec.Category != "" {
		obs.Category = []fhir.CodeableConcept{*fhirutil.CodeableConcept(terminology.ObservationCategorySystem, rec.Category, display, "")}
	}
	obs.EffectiveDateTime, err = fhirutil.ParseDateTime(rec.DateTime, rec.Location())
	svc.warnOnError(err, "Observation", "effectiveDateTime")
	if ext := fhirutil.ObservationExternalIdentifier(code, obs.EffectiveDateTime, obs.Meta); ext != nil {
		obs.Identifier = append(obs.Identifier, *ext)
	}

	var resources []fhir.Resource
	if rec.PractitionerNPI != "" || rec.PractitionerInternalID != "" {
		prac, err := record.NewPractitioner(row)
		if err != nil {
			return nil, err
		}
		if practitioners := svc.practitioner(prac, meta); len(practitioners) > 0 {
			obs.Performer = []fhir.Reference{*fhirutil.ResourceReference(practitioners[0], "", "")}
			resources = append(resources, practitioners...)
		}
	}

	setObservationValue(obs, rec)
	setReferenceRange(obs, rec)
	setInterpretation(obs, rec)
	return append(resources, obs), nil
}

// observationValueType infers the value type: units first, then caret
// delimited codes, integers, decimals and booleans. "" means a string value.
func observationValueType(rec *record.Observation) string {
	switch {
	case rec.ValueUnits != "":
		return ValueQuantity
	case strings.Contains(rec.Value, "^"):
		return ValueCodeableConcept
	case fhirutil.IsNumeric(rec.Value):
		return ValueInteger
	case fhirutil.IsDecimal(rec.Value):
		return ValueQuantity
	case fhirutil.IsBoolean(rec.Value):
		return ValueBoolean
	}
	return ""
}

// setObservationValue falls back to a string value when the value does not
// fit the declared or inferred type.
func setObservationValue(obs *fhir.Observation, rec *record.Observation) {
	if rec.Value == "" {
		return
	}
	valueType := rec.ValueDataType
	if valueType == "" {
		valueType = observationValueType(rec)
	}

	switch valueType {
	case ValueQuantity:
		if q := fhirutil.Quantity(rec.Value, rec.ValueUnits); q != nil {
			obs.ValueQuantity = q
			return
		}
	case ValueInteger:
		if fhirutil.IsNumeric(rec.Value) {
			if i, err := strconv.Atoi(rec.Value); err == nil {
				obs.ValueInteger = util.IntPtr(i)
				return
			}
		}
	case ValueBoolean:
		if b := fhirutil.BooleanValue(rec.Value); b != nil {
			obs.ValueBoolean = b
			return
		}
	case ValueCodeableConcept:
		obs.ValueCodeableConcept = fhirutil.HL7CodeableConcept(rec.Value)
		return
	}

	value := rec.Value
	if rec.ValueUnits != "" {
		value += " " + rec.ValueUnits
	}
	obs.ValueString = util.StringPtr(value)
}

// setReferenceRange splits a "low-high" range when discrete bounds are
// missing. Bounds that are not numeric are described in the text.
func setReferenceRange(obs *fhir.Observation, rec *record.Observation) {
	if rec.RefRange == "" && rec.RefRangeLow == "" && rec.RefRangeHigh == "" && rec.RefRangeText == "" {
		return
	}
	rr := fhir.ObservationReferenceRange{Text: rec.RefRangeText}
	low, high := rec.RefRangeLow, rec.RefRangeHigh
	if rec.RefRange != "" {
		if rr.Text == "" {
			rr.Text = rec.RefRange
		}
		if parts := strings.Split(rec.RefRange, "-"); len(parts) == 2 {
			low = orValue(low, parts[0])
			high = orValue(high, parts[1])
		}
	}
	rr.Low = fhirutil.Quantity(low, rec.ValueUnits)
	rr.High = fhirutil.Quantity(high, rec.ValueUnits)
	if rr.Text == "" && ((rr.Low == nil && low != "") || (rr.High == nil && high != "")) {
		rr.Text = "low: " + noneIfEmpty(low) + " high: " + noneIfEmpty(high)
	}
	obs.ReferenceRange = []fhir.ObservationReferenceRange{rr}
}

func noneIfEmpty(v string) string {
	if v == "" {
		return "None"
	}
	return v
}

// setInterpretation looks the display up only for the default interpretation system
func setInterpretation(obs *fhir.Observation, rec *record.Observation) {
	if rec.InterpretationCode == "" && rec.InterpretationCodeText == "" {
		return
	}
	display := rec.InterpretationCodeDisplay
	if display == "" && rec.InterpretationCodeSystem == terminology.ObservationInterpretationSystem {
		display = terminology.ObservationInterpretationDisplay[rec.InterpretationCode]
	}
	if cc := fhirutil.CodeableConcept(rec.InterpretationCodeSystem, rec.InterpretationCode, display,
		rec.InterpretationCodeText); cc != nil {
		obs.Interpretation = []fhir.CodeableConcept{*cc}
	}
}
