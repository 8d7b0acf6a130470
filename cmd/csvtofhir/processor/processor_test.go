package processor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/config"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/converter"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
)

const testContract = `{
  "general": {"timeZone": "America/New_York", "tenantId": "tenant1", "assigningAuthority": "hospital"},
  "fileDefinitions": {
    "patient": {
      "resourceType": "Patient",
      "groupByKey": "MRN",
      "tasks": [
        {"name": "join_data", "params": {"secondary_data_source": "addresses.csv", "join_type": "left", "join_on": "MRN"}},
        {"name": "rename_columns", "params": {"column_map": {"MRN": "patientInternalId", "LAST": "nameLast"}}}
      ]
    }
  }
}`

const patients = "MRN,LAST\np1,Doe\np2,Roe\n"

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newTestProcessor(t *testing.T, chunkSize int) *ProcessorService {
	t.Helper()
	dir := t.TempDir()
	writeTempFile(t, dir, "addresses.csv", "MRN,city\np1,Boston\n")

	log := zerolog.Nop()
	fetcher := contract.NewFetcher(dir, log)
	dc, err := contract.NewContractService(fetcher, log).Parse(context.Background(), []byte(testContract), "data-contract.json")
	require.NoError(t, err)

	pipelineSvc := pipeline.NewPipelineService(pipeline.NewLookupRepository(fetcher), NewJoinService(fetcher, nil, log), log)
	svc, err := NewProcessorService(ProcessorConfig{
		Log:          log,
		Config:       config.ConverterConfig{CSVBufferSize: chunkSize},
		Contract:     dc,
		PipelineSvc:  pipelineSvc,
		ConverterSvc: converter.NewConverterService(log),
	})
	require.NoError(t, err)
	return svc
}

func collect(t *testing.T, svc *ProcessorService, name, content string, transformOnly bool) []Result {
	t.Helper()
	var results []Result
	err := svc.Process(context.Background(), name, strings.NewReader(content), transformOnly, func(r Result) error {
		results = append(results, r)
		return nil
	})
	require.NoError(t, err)
	return results
}

func TestProcessConvertsRows(t *testing.T) {
	results := collect(t, newTestProcessor(t, 1), "input/patients.csv", patients, false)
	require.Len(t, results, 2)

	for i, want := range []string{"p1", "p2"} {
		r := results[i]
		require.NoError(t, r.Err)
		assert.Equal(t, want, r.GroupByKey)
		assert.Equal(t, i+1, r.RowNum)
		require.Len(t, r.Resources, 1)
		assert.Equal(t, []string{"Patient"}, converter.ResourceTypes(r.Resources))
		assert.Contains(t, r.Resources[0], `"patients.csv:0000`)
	}
	assert.Contains(t, results[1].Resources[0], `"patients.csv:00002"`)
}

func TestProcessTransformOnly(t *testing.T) {
	results := collect(t, newTestProcessor(t, 10), "patients.csv", patients, true)
	require.Len(t, results, 2)

	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(results[0].Resources[0]), &row))
	assert.Equal(t, "p1", row["patientInternalId"])
	assert.Equal(t, "p1", row[GroupByKeyColumn])
	assert.Equal(t, "Boston", row["city"])
	assert.Equal(t, "tenant1", row["tenantId"])
	assert.Equal(t, "hospital", row["assigningAuthority"])
	assert.Equal(t, "Patient", row[ResourceTypeColumn])
	assert.Equal(t, "patients.csv", row[FilePathColumn])
	assert.EqualValues(t, 1, row[pipeline.RowNumColumn])

	require.NoError(t, json.Unmarshal([]byte(results[1].Resources[0]), &row))
	assert.Nil(t, row["city"])
}

func TestProcessUnknownFile(t *testing.T) {
	svc := newTestProcessor(t, 10)
	err := svc.Process(context.Background(), "claims.csv", strings.NewReader(patients), false, func(Result) error {
		t.Fatal("no result expected")
		return nil
	})
	assert.True(t, errors.Is(err, contract.ErrDefinitionLookup))
}

func TestProcessStopsOnHandlerError(t *testing.T) {
	svc := newTestProcessor(t, 10)
	calls := 0
	err := svc.Process(context.Background(), "patients.csv", strings.NewReader(patients), false, func(Result) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "patients.csv", patients)
	svc := newTestProcessor(t, 10)

	var count int
	require.NoError(t, svc.ProcessFile(context.Background(), path, false, func(r Result) error {
		assert.NoError(t, r.Err)
		count++
		return nil
	}))
	assert.Equal(t, 2, count)

	assert.Error(t, svc.ProcessFile(context.Background(), filepath.Join(dir, "missing-patients.csv"), false, func(Result) error { return nil }))
}

func TestDefaultTasks(t *testing.T) {
	general := contract.General{TimeZone: "UTC", TenantID: "t1", StreamType: contract.StreamLive}
	def := &contract.FileDefinition{
		ResourceType: "Encounter",
		GroupByKey:   "mrn",
		Tasks:        []pipeline.Task{pipeline.NewTask(pipeline.ChangeCase, nil)},
	}
	tasks := DefaultTasks(general, def, "encounters.csv")

	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{
		"add_row_num", "set_nan_to_none", "remove_whitespace_from_columns", "copy_columns",
		"add_constant", "add_constant", "add_constant", "add_constant", "add_constant",
		"change_case",
	}, names)
	assert.Equal(t, map[string]any{"name": ResourceTypeColumn, "value": "Encounter"}, tasks[8].Params)
	for _, task := range tasks[:9] {
		assert.NoError(t, pipeline.ValidateTask(task))
	}
}

func TestJoinServiceFixedWidth(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "codes.txt", "p1   A\np2   B\n")
	svc := NewJoinService(contract.NewFetcher(dir, zerolog.Nop()), nil, zerolog.Nop())

	b, err := svc.LoadJoin(context.Background(), pipeline.SourceFixedWidth, "codes.txt", map[string]any{
		"names":  []any{"MRN", "code"},
		"widths": []any{5.0, 1.0},
	})
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "p1", b.Rows[0]["MRN"])
	assert.Equal(t, "B", b.Rows[1]["code"])

	_, err = svc.LoadJoin(context.Background(), pipeline.SourceSQL, "q.sql", nil)
	assert.ErrorIs(t, err, pipeline.ErrNoJoinSource)
}

func TestFilterFiles(t *testing.T) {
	dc := newTestProcessor(t, 10).Contract()
	got := FilterFiles(dc, []string{"b/patients.csv", "claims.csv", "a/PATIENT_2.csv", "b/patients.csv"})
	assert.Equal(t, []string{"a/PATIENT_2.csv", "b/patients.csv"}, got)
}

func TestNewProcessorServiceRequiresDependencies(t *testing.T) {
	_, err := NewProcessorService(ProcessorConfig{Log: zerolog.Nop()})
	assert.Error(t, err)
}
