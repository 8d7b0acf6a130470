package converter

import (
	"strings"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/fhirutil"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/record"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const (
	patientTokensCode    = "patient-tokens"
	patientTokensDisplay = "Patient Tokens"
	tokenTypeCode        = "TKN"
	tokenTypeDisplay     = "Token identifier"
	tokenIDPrefix        = "merative."
)

// convertBasic emits a Basic resource carrying the patient tokens of a row
func (svc *ConverterService) convertBasic(_ string, row map[string]any, meta *fhir.Meta) ([]fhir.Resource, error) {
	rec, err := record.NewBasic(row)
	if err != nil {
		return nil, err
	}

	var identifiers []fhir.Identifier
	for _, entry := range rec.TokenList {
		parts := strings.Split(entry, "^")
		if len(parts) < 3 {
			svc.log.Warn().Str("token", entry).Msg("Skipping token without name, value and system")
			continue
		}
		identifiers = append(identifiers, tokenIdentifier(tokenIDPrefix+parts[0], parts[1], parts[2], rec.IdentifierTypeSystem))
	}
	if rec.NYSIISLegacyHash != "" {
		identifiers = append(identifiers, tokenIdentifier("NYSIIS_Legacy_Hash", rec.NYSIISLegacyHash, rec.BaseSystem, rec.IdentifierTypeSystem))
	}
	if rec.STDSSNHash != "" {
		identifiers = append(identifiers, tokenIdentifier("STD_SSN_Hash", rec.STDSSNHash, rec.BaseSystem, rec.IdentifierTypeSystem))
	}
	for _, other := range []struct{ name, value string }{
		{"tokenized_sid", rec.TokenizedSID},
		{"token_encryption_key", rec.TokenEncryptionKey},
		{"source_patient_sid", rec.SourcePatientSID},
		{"sid", rec.SID},
	} {
		if other.value != "" {
			identifiers = append(identifiers, otherIdentifier(other.name, other.value, rec.BaseSystem))
		}
	}

	b := &fhir.Basic{
		Meta:       meta,
		Identifier: identifiers,
		Code: fhirutil.CodeableConcept(terminology.BasicResourceTypeSystem, patientTokensCode,
			patientTokensDisplay, patientTokensDisplay),
	}
	if rec.PatientInternalIdentifier != "" {
		b.ID = fhirutil.FormatID("patient-tokens." + rec.PatientInternalIdentifier)
		b.Subject = fhirutil.ReferenceFromString("Patient", rec.PatientInternalIdentifier, "")
	}
	b.Created, err = fhirutil.FormatDate(rec.CreatedDate)
	svc.warnOnError(err, "Basic", "created")
	return []fhir.Resource{b}, nil
}

func tokenIdentifier(id, value, system, typeSystem string) fhir.Identifier {
	return fhir.Identifier{
		ID:     id,
		Value:  value,
		System: fhirutil.URIFormat(system),
		Type:   fhirutil.CodeableConcept(typeSystem, tokenTypeCode, tokenTypeDisplay, tokenTypeDisplay),
	}
}

func otherIdentifier(name, value, system string) fhir.Identifier {
	return fhir.Identifier{
		ID:     tokenIDPrefix + name,
		Value:  value,
		System: system,
		Type:   &fhir.CodeableConcept{Coding: []fhir.Coding{{System: system, Code: name}}},
	}
}
