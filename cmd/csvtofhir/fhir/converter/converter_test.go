package converter

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

func newTestService() *ConverterService {
	return NewConverterService(zerolog.Nop())
}

func testMeta() *fhir.Meta {
	return NewMeta("source.csv", "Condition", "tenant1", time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC))
}

func rowOf(kind ResourceKind, fields map[string]any) map[string]any {
	row := map[string]any{
		ConfigResourceTypeField: string(kind),
		"filePath":              "source.csv",
		"rowNum":                1,
		"timeZone":              "UTC",
	}
	for k, v := range fields {
		row[k] = v
	}
	return row
}

func TestParseResourceKind(t *testing.T) {
	kind, err := ParseResourceKind("Observation")
	require.NoError(t, err)
	assert.Equal(t, Observation, kind)

	_, err = ParseResourceKind("Claim")
	assert.True(t, errors.Is(err, ErrUnknownResourceKind))

	kinds := ResourceKinds()
	assert.Len(t, kinds, 18)
	assert.Equal(t, AllergyIntolerance, kinds[0])
	assert.Equal(t, Unstructured, kinds[len(kinds)-1])
}

func TestConvertUnknownKind(t *testing.T) {
	_, err := newTestService().Convert("g1", map[string]any{ConfigResourceTypeField: "Claim"}, testMeta())
	assert.True(t, errors.Is(err, ErrUnknownResourceKind))
}

func TestConvertWithoutCodeReturnsNothing(t *testing.T) {
	for _, kind := range []ResourceKind{AllergyIntolerance, Condition, Observation, Procedure, MedicationUse} {
		t.Run(string(kind), func(t *testing.T) {
			out, err := newTestService().Convert("g1", rowOf(kind, map[string]any{"patientInternalId": "p1"}), testMeta())
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestConvertEncodesJSON(t *testing.T) {
	out, err := newTestService().Convert("g1", rowOf(Patient, map[string]any{
		"patientInternalId": "p1",
		"nameLast":          "Doe",
		"nameFirst":         "Jane",
		"gender":            "female",
	}), testMeta())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], `{"resourceType":"Patient","id":"p1"`))
	assert.Contains(t, out[0], `"family":"Doe"`)
	assert.Equal(t, []string{"Patient"}, ResourceTypes(out))
}

func TestConditionEncounterDiagnosis(t *testing.T) {
	resources, err := newTestService().ConvertResources("g1", rowOf(Condition, map[string]any{
		"patientInternalId":   "p1",
		"mrn":                 "m1",
		"encounterInternalId": "e1",
		"resourceInternalId":  "c1",
		"conditionCategory":   "encounter-diagnosis",
		"conditionCode":       "I10",
		"conditionCodeSystem": "ICD10",
		"conditionCodeText":   "Hypertension",
	}), testMeta())
	require.NoError(t, err)
	require.Len(t, resources, 3)

	assert.Equal(t, "Patient", resources[0].ResourceType())
	enc, ok := resources[1].(*fhir.Encounter)
	require.True(t, ok)
	c, ok := resources[2].(*fhir.Condition)
	require.True(t, ok)

	assert.Equal(t, "e1", enc.ID)
	assert.Equal(t, "c1", c.ID)
	require.Len(t, enc.Diagnosis, 1)
	assert.Equal(t, "Condition/c1", enc.Diagnosis[0].Condition.Reference)
	assert.Equal(t, "I10 (Hypertension)", enc.Diagnosis[0].Condition.Display)
	assert.Equal(t, "I10", enc.Diagnosis[0].ID)
	require.NotNil(t, c.Encounter)
	assert.Equal(t, "Encounter/e1", c.Encounter.Reference)

	require.Len(t, c.Category, 1)
	assert.Equal(t, "encounter-diagnosis", c.Category[0].Coding[0].Code)
	assert.Equal(t, terminology.ICD10System, c.Code.Coding[0].System)

	var extID string
	for _, id := range c.Identifier {
		if id.System == terminology.ExtIDSystem {
			extID = id.Value
		}
	}
	assert.Equal(t, "I10-ICD10", extID)
}

func TestConditionProblemList(t *testing.T) {
	resources, err := newTestService().ConvertResources("g1", rowOf(Condition, map[string]any{
		"patientInternalId":   "p1",
		"encounterInternalId": "e1",
		"resourceInternalId":  "c1",
		"conditionCategory":   "problem-list-item",
		"conditionCode":       "38341003",
	}), testMeta())
	require.NoError(t, err)
	require.Len(t, resources, 2)

	enc := resources[0].(*fhir.Encounter)
	require.Len(t, enc.ReasonReference, 1)
	assert.Equal(t, "Condition/c1", enc.ReasonReference[0].Reference)
	assert.Equal(t, "Condition-c1", enc.ReasonReference[0].ID)
	assert.Empty(t, enc.Diagnosis)
}

func TestObservationValueType(t *testing.T) {
	tests := []struct {
		name  string
		value string
		units string
		check func(t *testing.T, obs *fhir.Observation)
	}{
		{"quantity", "15.2", "g/dL", func(t *testing.T, obs *fhir.Observation) {
			require.NotNil(t, obs.ValueQuantity)
			assert.Equal(t, "15.2", obs.ValueQuantity.Value.String())
			assert.Equal(t, "g/dL", obs.ValueQuantity.Unit)
		}},
		{"integer", "15", "", func(t *testing.T, obs *fhir.Observation) {
			require.NotNil(t, obs.ValueInteger)
			assert.Equal(t, 15, *obs.ValueInteger)
		}},
		{"boolean", "True", "", func(t *testing.T, obs *fhir.Observation) {
			require.NotNil(t, obs.ValueBoolean)
			assert.True(t, *obs.ValueBoolean)
		}},
		{"codeable concept", "POS^Positive^SNOMED", "", func(t *testing.T, obs *fhir.Observation) {
			require.NotNil(t, obs.ValueCodeableConcept)
			assert.Equal(t, "POS", obs.ValueCodeableConcept.Coding[0].Code)
			assert.Equal(t, terminology.SNOMEDSystem, obs.ValueCodeableConcept.Coding[0].System)
		}},
		{"string", "slightly elevated", "", func(t *testing.T, obs *fhir.Observation) {
			require.NotNil(t, obs.ValueString)
			assert.Equal(t, "slightly elevated", *obs.ValueString)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources, err := newTestService().ConvertResources("g1", rowOf(Observation, map[string]any{
				"patientInternalId":     "p1",
				"observationCode":       "718-7",
				"observationCodeSystem": "LOINC",
				"observationValue":      tt.value,
				"observationValueUnits": tt.units,
			}), testMeta())
			require.NoError(t, err)
			require.Len(t, resources, 1)
			obs := resources[0].(*fhir.Observation)
			assert.Equal(t, "unknown", obs.Status)
			tt.check(t, obs)
		})
	}
}

func TestMedicationAdministrationDispatch(t *testing.T) {
	svc := newTestService()

	t.Run("without occurrence becomes statement", func(t *testing.T) {
		resources, err := svc.ConvertResources("g1", rowOf(MedicationAdministration, map[string]any{
			"patientInternalId":   "p1",
			"medicationCode":      "197361",
			"medicationUseStatus": "completed",
		}), testMeta())
		require.NoError(t, err)
		require.Len(t, resources, 1)
		stmt, ok := resources[0].(*fhir.MedicationStatement)
		require.True(t, ok)
		assert.Equal(t, "unknown", stmt.Status)
		assert.Equal(t, "Patient/p1", stmt.Subject.Reference)
	})

	t.Run("with occurrence stays administration", func(t *testing.T) {
		resources, err := svc.ConvertResources("g1", rowOf(MedicationAdministration, map[string]any{
			"patientInternalId":              "p1",
			"medicationCode":                 "197361",
			"medicationCodeSystem":           "RXNORM",
			"medicationUseOccuranceDateTime": "2021-06-01 08:30:00",
			"medicationUseDosageText":        "two tablets",
		}), testMeta())
		require.NoError(t, err)
		require.Len(t, resources, 1)
		admin, ok := resources[0].(*fhir.MedicationAdministration)
		require.True(t, ok)
		require.NotNil(t, admin.EffectiveDateTime)
		assert.Equal(t, "2021-06-01T08:30:00+00:00", admin.EffectiveDateTime.String())
		require.NotNil(t, admin.Dosage)
		assert.Equal(t, "two tablets", admin.Dosage.Text)
		require.NotNil(t, admin.Dosage.Dose)
		require.Len(t, admin.Dosage.Dose.Extension, 1)
		assert.Equal(t, "as-text", admin.Dosage.Dose.Extension[0].ValueCode)
		assert.Nil(t, admin.Category)
	})
}

func TestMedicationRequest(t *testing.T) {
	resources, err := newTestService().ConvertResources("g1", rowOf(MedicationRequest, map[string]any{
		"patientInternalId":        "p1",
		"encounterInternalId":      "e1",
		"encounterClassCode":       "AMB",
		"medicationCode":           "197361",
		"medicationRefills":        "2",
		"medicationQuantity":       "30",
		"medicationUseDosageValue": "5",
		"medicationUseDosageUnit":  "mg",
	}), testMeta())
	require.NoError(t, err)
	require.Len(t, resources, 2)

	enc, ok := resources[0].(*fhir.Encounter)
	require.True(t, ok)
	assert.Equal(t, "AMB", enc.Class.Code)

	req, ok := resources[1].(*fhir.MedicationRequest)
	require.True(t, ok)
	assert.Equal(t, "order", req.Intent)
	assert.Equal(t, "Encounter/e1", req.Encounter.Reference)
	require.NotNil(t, req.DispenseRequest)
	require.NotNil(t, req.DispenseRequest.NumberOfRepeatsAllowed)
	assert.Equal(t, 2, *req.DispenseRequest.NumberOfRepeatsAllowed)
	assert.Equal(t, "30", req.DispenseRequest.Quantity.Value.String())
	require.Len(t, req.DosageInstruction, 1)
	require.Len(t, req.DosageInstruction[0].DoseAndRate, 1)
	assert.Equal(t, "mg", req.DosageInstruction[0].DoseAndRate[0].DoseQuantity.Unit)
}

func TestUnstructured(t *testing.T) {
	svc := newTestService()

	t.Run("document reference", func(t *testing.T) {
		resources, err := svc.ConvertResources("g1", rowOf(Unstructured, map[string]any{
			"patientInternalId":         "p1",
			"encounterInternalId":       "e1",
			"documentAttachmentContent": "hello",
			"documentDateTime":          "2021-03-04 10:11:12",
		}), testMeta())
		require.NoError(t, err)
		require.Len(t, resources, 1)
		doc, ok := resources[0].(*fhir.DocumentReference)
		require.True(t, ok)
		assert.Equal(t, "current", doc.Status)
		assert.Equal(t, "67781-5", doc.Type.Coding[0].Code)
		require.Len(t, doc.Content, 1)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), doc.Content[0].Attachment.Data)
		assert.Equal(t, "text/plain", doc.Content[0].Attachment.ContentType)
		require.NotNil(t, doc.Context)
		assert.Equal(t, "Encounter/e1", doc.Context.Encounter[0].Reference)

		var extID string
		for _, id := range doc.Identifier {
			if id.System == terminology.ExtIDSystem {
				extID = id.Value
			}
		}
		assert.Equal(t, "67781-5-2021-03-04T10:11:12+00:00", extID)
	})

	t.Run("diagnostic report", func(t *testing.T) {
		resources, err := svc.ConvertResources("g1", rowOf(DiagnosticReport, map[string]any{
			"documentAttachmentContent": "impression",
		}), testMeta())
		require.NoError(t, err)
		require.Len(t, resources, 1)
		report, ok := resources[0].(*fhir.DiagnosticReport)
		require.True(t, ok)
		assert.Equal(t, "50398-7", report.Code.Coding[0].Code)
		assert.Equal(t, "Patient/g1", report.Subject.Reference)
	})

	t.Run("no content", func(t *testing.T) {
		resources, err := svc.ConvertResources("g1", rowOf(Unstructured, map[string]any{"patientInternalId": "p1"}), testMeta())
		require.NoError(t, err)
		assert.Empty(t, resources)
	})
}

func TestBasicPatientTokens(t *testing.T) {
	resources, err := newTestService().ConvertResources("g1", rowOf(Basic, map[string]any{
		"baseSystem":                "urn:id:merative",
		"patientInternalIdentifier": "p1",
		"tokenList":                 []string{"nysiis^abc^merative", "broken"},
		"source_patient_sid":        "s1",
		"created_date":              "2022-01-05",
	}), testMeta())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	b := resources[0].(*fhir.Basic)

	assert.Equal(t, "patient-tokens.p1", b.ID)
	assert.Equal(t, "Patient/p1", b.Subject.Reference)
	assert.Equal(t, "patient-tokens", b.Code.Coding[0].Code)
	require.Len(t, b.Identifier, 2)
	assert.Equal(t, "merative.nysiis", b.Identifier[0].ID)
	assert.Equal(t, "urn:id:merative", b.Identifier[0].System)
	assert.Equal(t, "TKN", b.Identifier[0].Type.Coding[0].Code)
	assert.Equal(t, "merative.source_patient_sid", b.Identifier[1].ID)
	assert.Equal(t, "s1", b.Identifier[1].Value)
	require.NotNil(t, b.Created)
}

func TestMeta(t *testing.T) {
	meta := testMeta()

	rowMeta := WithRowNum(meta, 7)
	assert.Equal(t, "source.csv:00007", SourceFileID(rowMeta))
	assert.Equal(t, "source.csv", SourceFileID(meta))
	assert.Equal(t, "source.csv:00012", SourceFileID(WithRowNum(rowMeta, 12)))

	assert.Same(t, meta, WithSourceRecordID("", meta))
	withID := WithSourceRecordID("r-9", meta)
	assert.Len(t, withID.Extension, len(meta.Extension)+1)
	assert.Equal(t, "r-9", withID.Extension[len(withID.Extension)-1].ValueString)
	assert.Len(t, meta.Extension, 5)
}
