package converter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cast"
	"golang.org/x/exp/slices"

	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

// ResourceKind names a configured conversion, the "resourceType" of a FileDefinition
type ResourceKind string

const (
	AllergyIntolerance       ResourceKind = "AllergyIntolerance"
	Basic                    ResourceKind = "Basic"
	Condition                ResourceKind = "Condition"
	DiagnosticReport         ResourceKind = "DiagnosticReport"
	DocumentReference        ResourceKind = "DocumentReference"
	Encounter                ResourceKind = "Encounter"
	Immunization             ResourceKind = "Immunization"
	Location                 ResourceKind = "Location"
	MedicationAdministration ResourceKind = "MedicationAdministration"
	MedicationRequest        ResourceKind = "MedicationRequest"
	MedicationStatement      ResourceKind = "MedicationStatement"
	MedicationUse            ResourceKind = "MedicationUse"
	Observation              ResourceKind = "Observation"
	Organization             ResourceKind = "Organization"
	Patient                  ResourceKind = "Patient"
	Practitioner             ResourceKind = "Practitioner"
	Procedure                ResourceKind = "Procedure"
	Unstructured             ResourceKind = "Unstructured"
)

// ConfigResourceTypeField is the row column selecting the converter
const ConfigResourceTypeField = "configResourceType"

var ErrUnknownResourceKind = errors.New("unknown resource type")

type convertFunc func(svc *ConverterService, groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error)

var converters = map[ResourceKind]convertFunc{
	AllergyIntolerance:       (*ConverterService).convertAllergyIntolerance,
	Basic:                    (*ConverterService).convertBasic,
	Condition:                (*ConverterService).convertCondition,
	DiagnosticReport:         (*ConverterService).convertDiagnosticReport,
	DocumentReference:        (*ConverterService).convertDocumentReference,
	Encounter:                (*ConverterService).convertEncounter,
	Immunization:             (*ConverterService).convertImmunization,
	Location:                 (*ConverterService).convertLocation,
	MedicationAdministration: (*ConverterService).convertMedicationAdministration,
	MedicationRequest:        (*ConverterService).convertMedicationRequest,
	MedicationStatement:      (*ConverterService).convertMedicationStatement,
	MedicationUse:            (*ConverterService).convertMedicationUse,
	Observation:              (*ConverterService).convertObservation,
	Organization:             (*ConverterService).convertOrganization,
	Patient:                  (*ConverterService).convertPatient,
	Practitioner:             (*ConverterService).convertPractitioner,
	Procedure:                (*ConverterService).convertProcedure,
	Unstructured:             (*ConverterService).convertUnstructured,
}

// ParseResourceKind returns ErrUnknownResourceKind for names without a converter
func ParseResourceKind(name string) (ResourceKind, error) {
	kind := ResourceKind(name)
	if _, ok := converters[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceKind, name)
	}
	return kind, nil
}

// ResourceKinds lists every supported kind in alphabetical order
func ResourceKinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(converters))
	for k := range converters {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// ConvertResources converts row with the converter named by its configResourceType column
func (svc *ConverterService) ConvertResources(groupByKey string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	kind, err := ParseResourceKind(cast.ToString(row[ConfigResourceTypeField]))
	if err != nil {
		return nil, err
	}
	svc.log.Debug().Str("resourceType", string(kind)).Str("groupByKey", groupByKey).Msg("Converting FHIR resource")
	return converters[kind](svc, groupByKey, row, meta)
}

// Convert converts row and encodes every produced resource as JSON. A row that
// yields no resource returns an empty slice and no error.
func (svc *ConverterService) Convert(groupByKey string, row map[string]any, meta *fhir.Meta) ([]string, error) {
	resources, err := svc.ConvertResources(groupByKey, row, meta)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", r.ResourceType(), err)
		}
		out = append(out, string(b))
	}
	svc.log.Debug().Int("count", len(out)).Msg("Found resources")
	return out, nil
}

// ResourceTypes returns the resourceType of each encoded resource
func ResourceTypes(resources []string) []string {
	types := make([]string, 0, len(resources))
	for _, r := range resources {
		var head struct {
			ResourceType string `json:"resourceType"`
		}
		if err := json.Unmarshal([]byte(r), &head); err == nil {
			types = append(types, head.ResourceType)
		}
	}
	return types
}
