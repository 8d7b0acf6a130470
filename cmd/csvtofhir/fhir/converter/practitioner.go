package converter

import (
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const maxIDLength = 64

func (svc *ConverterService) convertPractitioner(_ string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewPractitioner(row)
	if err != nil {
		return nil, err
	}
	return svc.practitioner(rec, meta), nil
}

// practitioner returns the PractitionerRole first when one is created, then
// the Practitioner.
func (svc *ConverterService) practitioner(rec *record.Practitioner, meta *fhir.Meta) []fhir.Resource {
	hasPractitioner := rec.ContainsPractitionerData()
	hasRole := rec.ContainsRoleData()
	if !hasPractitioner && !hasRole {
		return nil
	}

	identifiers := fhirutil.IdentifierList(rec.Identifiers())
	id := fhirutil.ResourceID(orValue(rec.ResourceInternalID, rec.PractitionerNPI))

	var resources []fhir.Resource
	var p *fhir.Practitioner
	if hasPractitioner {
		p = &fhir.Practitioner{
			ID:         id,
			Meta:       meta,
			Identifier: identifiers,
			Name:       practitionerNames(rec),
			Gender:     rec.Gender,
		}
	}
	if hasRole {
		role := &fhir.PractitionerRole{
			ID:         id,
			Meta:       meta,
			Identifier: identifiers,
			Code:       svc.practitionerRoleCodes(rec),
			Specialty:  practitionerSpecialties(rec),
		}
		if p != nil {
			role.Practitioner = fhirutil.ResourceReference(p, "", "")
		}
		resources = append(resources, role)
	}
	if p != nil {
		resources = append(resources, p)
	}
	return resources
}

func practitionerNames(rec *record.Practitioner) []fhir.HumanName {
	switch {
	case rec.NameLast != "":
		return []fhir.HumanName{*fhirutil.HumanName(rec.NameLast, rec.NameFirst, "", "", "")}
	case rec.NameText != "":
		return []fhir.HumanName{{Text: rec.NameText}}
	}
	return nil
}

func (svc *ConverterService) practitionerRoleCodes(rec *record.Practitioner) []fhir.CodeableConcept {
	if len(rec.RoleCodeList) > 0 {
		svc.log.Warn().Msg("Practitioner role code lists are not converted")
		return nil
	}
	cc := fhirutil.CodeableConcept(rec.RoleCodeSystem, rec.RoleCode, "", rec.RoleText)
	if cc == nil {
		return nil
	}
	cc.ID = fhirutil.FormatID(orValue(rec.RoleCode, rec.RoleText))
	return []fhir.CodeableConcept{*cc}
}

func practitionerSpecialties(rec *record.Practitioner) []fhir.CodeableConcept {
	if len(rec.SpecialtyCodeList) > 0 {
		var list []fhir.CodeableConcept
		for _, entry := range rec.SpecialtyCodeList {
			if entry == "" {
				continue
			}
			cc := fhirutil.HL7CodeableConcept(entry)
			if cc == nil {
				continue
			}
			parts := strings.Split(entry, "^")
			for _, i := range []int{0, 1, 3} {
				if i < len(parts) && parts[i] != "" {
					cc.ID = fhirutil.FormatID(parts[i])
					break
				}
			}
			list = append(list, *cc)
		}
		return list
	}

	cc := fhirutil.CodeableConcept(terminology.ProviderTaxonomySystem, rec.SpecialtyCode, "", rec.SpecialtyText)
	if cc == nil {
		return nil
	}
	code := rec.SpecialtyCode
	if len(code) > maxIDLength {
		code = code[:maxIDLength]
	}
	cc.ID = fhirutil.FormatID(orValue(code, rec.SpecialtyText))
	return []fhir.CodeableConcept{*cc}
}
