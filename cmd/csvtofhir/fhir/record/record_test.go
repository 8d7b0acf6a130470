package record

import (
	"testing"
	"time"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123-45-6789", "123456789"},
		{"123456789", "123456789"},
		{"000-00-0000", ""},
		{"999999999", ""},
		{"12345678", ""},
		{"12345678a", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSSN(tt.in))
		})
	}
}

func TestBaseLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Base{}.Location())
	assert.Equal(t, time.UTC, Base{TimeZone: "Not/AZone"}.Location())
	assert.Equal(t, "America/New_York", Base{TimeZone: "America/New_York"}.Location().String())
}

func TestNewPatient(t *testing.T) {
	r, err := NewPatient(map[string]any{
		"filePath":             "patient.csv",
		"rowNum":               int64(3),
		"patientInternalId":    "p-1",
		"ssn":                  "123-45-6789",
		"nameLast":             "Doe",
		"multipleBirthInteger": "2",
		"unknownColumn":        "ignored",
		"gender":               nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "patient.csv", r.FilePath)
	assert.Equal(t, 3, r.RowNum)
	assert.Equal(t, "123456789", r.SSN)
	assert.Equal(t, terminology.RaceSystem, r.RaceSystem)
	require.NotNil(t, r.MultipleBirthInteger)
	assert.Equal(t, 2, *r.MultipleBirthInteger)
	assert.True(t, r.ContainsPatientData())

	ids := r.Identifiers()
	assert.Equal(t, "p-1", ids.PatientInternalID)
	assert.Equal(t, "123456789", ids.SSN)
}

func TestPatientWithoutData(t *testing.T) {
	r, err := NewPatient(map[string]any{"patientInternalId": "p-1"})
	require.NoError(t, err)
	assert.False(t, r.ContainsPatientData())
}

func TestPractitionerGates(t *testing.T) {
	t.Run("id only", func(t *testing.T) {
		r, err := NewPractitioner(map[string]any{"practitionerInternalId": "dr-1"})
		require.NoError(t, err)
		assert.True(t, r.ContainsPractitionerData())
		assert.False(t, r.ContainsRoleData())
		assert.Equal(t, "dr-1", r.ResourceInternalID)
	})
	t.Run("id with role", func(t *testing.T) {
		r, err := NewPractitioner(map[string]any{"practitionerNPI": "123", "practitionerRoleText": "Surgeon"})
		require.NoError(t, err)
		assert.False(t, r.ContainsPractitionerData())
		assert.True(t, r.ContainsRoleData())
	})
	t.Run("resourceInternalId is not an alias", func(t *testing.T) {
		r, err := NewPractitioner(map[string]any{"resourceInternalId": "x"})
		require.NoError(t, err)
		assert.Empty(t, r.ResourceInternalID)
	})
	t.Run("single specialty becomes a list", func(t *testing.T) {
		r, err := NewPractitioner(map[string]any{"practitionerSpecialtyCodeList": "208D00000X"})
		require.NoError(t, err)
		assert.Equal(t, []string{"208D00000X"}, r.SpecialtyCodeList)
		assert.Equal(t, terminology.ProviderTaxonomySystem, r.SpecialtyCodeSystem)
	})
}

func TestEncounterDefaults(t *testing.T) {
	r, err := NewEncounter(map[string]any{"encounterStatus": "", "encounterInsuredRank": "2"})
	require.NoError(t, err)
	assert.Equal(t, EncounterStatusDefault, r.Status)
	assert.Equal(t, terminology.EncounterClassSystem, r.ClassSystem)
	assert.Equal(t, "2", r.InsuredEntryIDValue())
	assert.False(t, r.ContainsHospitalizationData())

	class := r.Class()
	assert.Equal(t, terminology.DataAbsentTemporarilyUnknown, class.Code)
	assert.Equal(t, terminology.DataAbsentReasonSystem, class.System)
}

func TestConditionCategory(t *testing.T) {
	r, err := NewCondition(map[string]any{"conditionDiagnosisRank": "1"})
	require.NoError(t, err)
	assert.Equal(t, ConditionCategoryEncounterDiagnosis, r.Category)
	assert.True(t, r.HasEncounterData())
	cc := r.CategoryConcept()
	require.NotNil(t, cc)
	assert.Equal(t, ConditionCategoryEncounterDiagnosis, cc.Coding[0].Code)

	rank, err := r.DiagnosisRankInt()
	require.NoError(t, err)
	assert.Equal(t, 1, *rank)

	r.DiagnosisRank = "first"
	_, err = r.DiagnosisRankInt()
	assert.Error(t, err)

	r.Category = "other"
	assert.Nil(t, r.CategoryConcept())
}

func TestAllergyManifestations(t *testing.T) {
	r, err := NewAllergyIntolerance(map[string]any{})
	require.NoError(t, err)
	assert.False(t, r.HasReactionData())
	list := r.Manifestations()
	require.Len(t, list, 1)
	assert.Equal(t, terminology.DataAbsentUnknown, list[0].Coding[0].Code)

	r, err = NewAllergyIntolerance(map[string]any{"allergyManifestationCode": "271807003"})
	require.NoError(t, err)
	list = r.Manifestations()
	require.Len(t, list, 1)
	assert.Equal(t, terminology.SNOMEDSystem, list[0].Coding[0].System)
}

func TestMedicationUseCategorySystem(t *testing.T) {
	r, err := NewMedicationUse(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, MedicationStatementType, r.ResourceType)
	assert.Equal(t, MedicationRequestIntentDefault, r.RequestIntent)
	assert.Equal(t, terminology.MedicationStatementCategorySystem, r.DefaultCategorySystem())

	r.ResourceType = "Other"
	assert.Empty(t, r.DefaultCategorySystem())
}

func TestProcedureModifiers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"2550", []string{"25", "50"}},
		{"255", []string{"25", "5"}},
		{"25, 50;LT", []string{"25", "50", "LT"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := &Procedure{ModifierList: tt.in}
			assert.Equal(t, tt.want, r.Modifiers())
		})
	}
}

func TestUnstructuredResourceType(t *testing.T) {
	r, err := NewUnstructured(map[string]any{"resourceType": "Observation"})
	require.NoError(t, err)
	assert.Equal(t, DocumentReferenceType, r.ResourceType)
	assert.Equal(t, UnstructuredStatusDefault, r.ResourceStatus)
	assert.Equal(t, "67781-5", r.DefaultDocumentCode().Coding[0].Code)

	r, err = NewUnstructured(map[string]any{"resourceType": DiagnosticReportType})
	require.NoError(t, err)
	assert.Equal(t, "50398-7", r.DefaultDocumentCode().Coding[0].Code)
}
