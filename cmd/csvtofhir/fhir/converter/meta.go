package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/terminology"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

const sourceRecordType = "csv"

// NewMeta builds the meta shared by every resource converted from one file
func NewMeta(fileName, resourceType, tenantID string, processed time.Time) *fhir.Meta {
	return &fhir.Meta{Extension: []fhir.Extension{
		{URL: terminology.TenantIDExtensionURL, ValueString: tenantID},
		{URL: terminology.SourceFileIDExtensionURL, ValueString: fileName},
		{URL: terminology.SourceEventTriggerExtensionURL, ValueCodeableConcept: &fhir.CodeableConcept{Text: resourceType}},
		{URL: terminology.ProcessTimestampExtensionURL, ValueDateTime: fhir.DateTimePtr(processed.UTC())},
		{URL: terminology.SourceRecordTypeExtensionURL, ValueCodeableConcept: &fhir.CodeableConcept{Text: sourceRecordType}},
	}}
}

func copyMeta(meta *fhir.Meta) *fhir.Meta {
	if meta == nil {
		return &fhir.Meta{}
	}
	return &fhir.Meta{Extension: append([]fhir.Extension(nil), meta.Extension...)}
}

// WithRowNum returns a copy of meta whose source-file-id is "<file>:<rowNum>"
// with the row number zero padded to five digits.
func WithRowNum(meta *fhir.Meta, rowNum int) *fhir.Meta {
	if meta == nil {
		return nil
	}
	m := copyMeta(meta)
	for i := range m.Extension {
		if strings.Contains(m.Extension[i].URL, "source-file-id") {
			file, _, _ := strings.Cut(m.Extension[i].ValueString, ":")
			m.Extension[i].ValueString = fmt.Sprintf("%s:%05d", file, rowNum)
			break
		}
	}
	return m
}

// WithSourceRecordID returns a copy of meta with a source-record-id
// extension. meta is returned unchanged when id is empty.
func WithSourceRecordID(id string, meta *fhir.Meta) *fhir.Meta {
	if id == "" {
		return meta
	}
	m := copyMeta(meta)
	m.Extension = append(m.Extension, fhir.Extension{URL: terminology.SourceRecordIDExtensionURL, ValueString: id})
	return m
}

// SourceFileID returns the source-file-id value of meta, "" when absent
func SourceFileID(meta *fhir.Meta) string {
	if meta == nil {
		return ""
	}
	for _, ext := range meta.Extension {
		if strings.Contains(ext.URL, "source-file-id") {
			return ext.ValueString
		}
	}
	return ""
}
