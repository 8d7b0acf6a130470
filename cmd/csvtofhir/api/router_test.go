package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/config"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/converter"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/processor"
)

const testContract = `{
  "general": {"timeZone": "UTC", "tenantId": "tenant1"},
  "fileDefinitions": {
    "patient": {
      "resourceType": "Patient",
      "groupByKey": "mrn",
      "tasks": [{"name": "rename_columns", "params": {"column_map": {"mrn": "patientInternalId"}}}]
    }
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	fetcher := contract.NewFetcher(t.TempDir(), log)
	contracts := contract.NewContractService(fetcher, log)
	dc, err := contracts.Parse(context.Background(), []byte(testContract), "data-contract.json")
	require.NoError(t, err)

	pipelineSvc := pipeline.NewPipelineService(pipeline.NewLookupRepository(fetcher), nil, log)
	processorSvc, err := processor.NewProcessorService(processor.ProcessorConfig{
		Log:          log,
		Config:       config.ConverterConfig{CSVBufferSize: 100},
		Contract:     dc,
		PipelineSvc:  pipelineSvc,
		ConverterSvc: converter.NewConverterService(log),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(processorSvc, contracts, log).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
		rows   int
	}{
		{"converts rows", "/convert?file=patients.csv", http.StatusOK, 2},
		{"transform only", "/convert?file=patients.csv&transformOnly=true", http.StatusOK, 2},
		{"no definition", "/convert?file=claims.csv", http.StatusNotFound, 0},
		{"missing file parameter", "/convert", http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.query, "text/csv", strings.NewReader("mrn,gender\np1,female\np2,male\n"))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}

			var rows []RowResult
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
			require.Len(t, rows, tt.rows)
			assert.Equal(t, "p1", rows[0].GroupByKey)
			assert.Equal(t, 1, rows[0].RowNum)
			assert.Empty(t, rows[0].Error)
			require.Len(t, rows[0].Resources, 1)
		})
	}
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		body     string
		status   int
		problems int
	}{
		{"valid json", "/validate", testContract, http.StatusOK, 0},
		{"valid yaml", "/validate?format=yaml", "general:\n  timeZone: UTC\n  tenantId: t1\nfileDefinitions:\n  lab:\n    resourceType: Observation\n    groupByKey: mrn\n", http.StatusOK, 0},
		{"invalid", "/validate", `{"general": {"timeZone": "Mars/Olympus"}, "fileDefinitions": {}}`, http.StatusUnprocessableEntity, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.query, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.status, resp.StatusCode)

			var out ValidationResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.status == http.StatusOK, out.Valid)
			assert.Len(t, out.Problems, tt.problems)
		})
	}
}
