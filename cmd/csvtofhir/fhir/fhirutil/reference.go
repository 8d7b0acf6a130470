package fhirutil

import (
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

// ResourceReference builds a reference to an already converted resource.
// Practitioner, Organization and Location names are used as the display when
// none is given.
func ResourceReference(res fhir.Resource, display, referenceID string) *fhir.Reference {
	if res == nil {
		return nil
	}
	ref := &fhir.Reference{
		ID:        FormatID(referenceID),
		Reference: res.ResourceType() + "/" + res.ResourceID(),
		Display:   display,
	}
	if ref.Display != "" {
		return ref
	}
	switch r := res.(type) {
	case *fhir.Practitioner:
		if len(r.Name) > 0 {
			ref.Display = r.Name[0].Text
		}
	case *fhir.Organization:
		ref.Display = r.Name
	case *fhir.Location:
		ref.Display = r.Name
	}
	return ref
}

// ReferenceFromString returns nil when either the type or the id is empty
func ReferenceFromString(resourceType, resourceID, display string) *fhir.Reference {
	if resourceType == "" || resourceID == "" {
		return nil
	}
	return &fhir.Reference{
		Reference: resourceType + "/" + FormatID(resourceID),
		Display:   display,
	}
}
