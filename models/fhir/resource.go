package fhir

import (
	"encoding/json"
)

// Resource is implemented by every FHIR resource produced by the converters
type Resource interface {
	ResourceType() string
	ResourceID() string
}

// marshalResource encodes v and prepends the resourceType member
func marshalResource(resourceType string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := []byte(`{"resourceType":"` + resourceType + `"`)
	if len(body) <= 2 {
		return append(head, '}'), nil
	}
	head = append(head, ',')
	return append(head, body[1:]...), nil
}
