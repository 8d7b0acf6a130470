package converter

import (
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

func (svc *ConverterService) convertLocation(_ string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewLocation(row)
	if err != nil {
		return nil, err
	}
	if l := location(rec, meta); l != nil {
		return []fhir.Resource{l}, nil
	}
	return nil, nil
}

func location(rec *record.Location, meta *fhir.Meta) *fhir.Location {
	if !rec.ContainsLocationData() {
		return nil
	}
	l := &fhir.Location{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       meta,
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Name:       rec.Name,
	}
	if cc := fhirutil.CodeableConcept(rec.TypeCodeSystem, rec.TypeCode,
		terminology.LocationTypeDisplay[rec.TypeCode], rec.TypeText); cc != nil {
		l.Type = []fhir.CodeableConcept{*cc}
	}
	return l
}

func (svc *ConverterService) convertOrganization(_ string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewOrganization(row)
	if err != nil {
		return nil, err
	}
	return []fhir.Resource{organization(rec, meta)}, nil
}

func organization(rec *record.Organization, meta *fhir.Meta) *fhir.Organization {
	return &fhir.Organization{
		ID:         fhirutil.ResourceID(rec.ResourceInternalID),
		Meta:       meta,
		Identifier: fhirutil.IdentifierList(rec.Identifiers()),
		Name:       rec.Name,
	}
}
