package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/processor"
)

const maxContractSize = 10 << 20

// RowResult is the JSON form of a processor.Result
type RowResult struct {
	GroupByKey string            `json:"groupByKey"`
	RowNum     int               `json:"rowNum"`
	Resources  []json.RawMessage `json:"resources"`
	Error      string            `json:"error,omitempty"`
}

type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes conversion and contract validation over HTTP
type Server struct {
	processor *processor.ProcessorService
	contracts *contract.ContractService
	log       zerolog.Logger
}

func NewServer(processorSvc *processor.ProcessorService, contracts *contract.ContractService, log zerolog.Logger) *Server {
	return &Server{processor: processorSvc, contracts: contracts, log: log}
}

// Router returns the routes of the server
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/convert", s.convert).Methods(http.MethodPost).Queries("file", "{file}")
	r.HandleFunc("/validate", s.validate).Methods(http.MethodPost)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// convert runs the uploaded body through the processor as the file named by
// the "file" query parameter
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	transformOnly := r.URL.Query().Get("transformOnly") == "true"
	s.log.Info().Str("file", file).Bool("transformOnly", transformOnly).Msg("Convert called")

	results := make([]RowResult, 0)
	err := s.processor.Process(r.Context(), file, r.Body, transformOnly, func(res processor.Result) error {
		row := RowResult{GroupByKey: res.GroupByKey, RowNum: res.RowNum, Resources: make([]json.RawMessage, 0, len(res.Resources))}
		for _, resource := range res.Resources {
			row.Resources = append(row.Resources, json.RawMessage(resource))
		}
		if res.Err != nil {
			row.Error = res.Err.Error()
		}
		results = append(results, row)
		return nil
	})
	switch {
	case errors.Is(err, contract.ErrDefinitionLookup):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		s.log.Error().Err(err).Str("file", file).Msg("Unable to convert file")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// validate loads the body as a contract. A "format=yaml" query parameter
// selects YAML.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxContractSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	name := "data-contract.json"
	if r.URL.Query().Get("format") == "yaml" {
		name = "data-contract.yaml"
	}

	_, err = s.contracts.Parse(r.Context(), data, name)
	var verr *contract.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ValidationResponse{Valid: true})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Problems: verr.Problems})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
