package terminology

const (
	HL7BaseExtensionURL = "http://hl7.org/fhir/StructureDefinition/"
	CDMBaseExtensionURL = "http://ibm.com/fhir/cdm/StructureDefinition/"

	RaceExtensionURL               = CDMBaseExtensionURL + "local-race-cd"
	EthnicityExtensionURL          = CDMBaseExtensionURL + "ethnicity"
	ChronicityExtensionURL         = HL7BaseExtensionURL + "condition-diseaseCourse"
	DataAbsentExtensionURL         = HL7BaseExtensionURL + "data-absent-reason"
	EncounterDiagnosisUseSystem    = "http://ibm.com/fhir/cdm/CodeSystem/wh-diagnosis-use-type"
	InsuredExtensionURL            = CDMBaseExtensionURL + "insured"
	InsuredRankExtensionURL        = CDMBaseExtensionURL + "insured-rank"
	InsuredCategoryExtensionURL    = CDMBaseExtensionURL + "insured-category"
	ClaimTypeExtensionURL          = CDMBaseExtensionURL + "claim-type"
	TenantIDExtensionURL           = CDMBaseExtensionURL + "tenant-id"
	SourceFileIDExtensionURL       = CDMBaseExtensionURL + "source-file-id"
	ProcessTimestampExtensionURL   = CDMBaseExtensionURL + "process-timestamp"
	SourceEventTriggerExtensionURL = CDMBaseExtensionURL + "source-event-trigger"
	SourceRecordTypeExtensionURL   = CDMBaseExtensionURL + "source-record-type"
	SourceRecordIDExtensionURL     = CDMBaseExtensionURL + "source-record-id"
	AgeInMonthsExtensionURL        = CDMBaseExtensionURL + "snapshot-age-in-months"
	AgeInWeeksExtensionURL         = CDMBaseExtensionURL + "snapshot-age-in-weeks"
	ProcedureModifierExtensionURL  = CDMBaseExtensionURL + "procedure-modifier"
	ReferenceSequenceExtensionURL  = CDMBaseExtensionURL + "reference-sequence"
)
