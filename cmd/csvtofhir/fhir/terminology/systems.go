package terminology

// HL7 terminology systems
const (
	AdmitSourceSystem                      = "http://terminology.hl7.org/CodeSystem/admit-source"
	AllergyClinicalStatusSystem            = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	AllergyVerificationStatusSystem        = "http://terminology.hl7.org/CodeSystem/allergyintolerance-verification"
	ConditionCategorySystem                = "http://terminology.hl7.org/CodeSystem/condition-category"
	ConditionClinicalStatusSystem          = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	ConditionVerificationStatusSystem      = "http://terminology.hl7.org/CodeSystem/condition-ver-status"
	DischargeDispositionSystem             = "http://terminology.hl7.org/CodeSystem/discharge-disposition"
	EncounterClassSystem                   = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
	EthnicitySystem                        = "http://terminology.hl7.org/CodeSystem/v3-Ethnicity"
	LocationTypeSystem                     = "http://terminology.hl7.org/CodeSystem/v3-RoleCode"
	MedicationAdministrationCategorySystem = "http://terminology.hl7.org/CodeSystem/medication-admin-category"
	MedicationRequestCategorySystem        = "http://terminology.hl7.org/CodeSystem/medicationrequest-category"
	MedicationStatementCategorySystem      = "http://terminology.hl7.org/CodeSystem/medication-statement-category"
	ObservationCategorySystem              = "http://terminology.hl7.org/CodeSystem/observation-category"
	ObservationInterpretationSystem        = "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation"
	ParticipantTypeSystem                  = "http://terminology.hl7.org/CodeSystem/v3-ParticipationType"
	PrioritySystem                         = "http://terminology.hl7.org/CodeSystem/v3-ActPriority"
	ProviderTaxonomySystem                 = "http://nucc.org/provider-taxonomy"
	RaceSystem                             = "http://terminology.hl7.org/CodeSystem/v3-Race"
	ReAdmissionSystem                      = "http://terminology.hl7.org/CodeSystem/v2-0092"
	DataAbsentReasonSystem                 = "http://terminology.hl7.org/CodeSystem/data-absent-reason"
	IdentifierTypeSystem                   = "http://terminology.hl7.org/CodeSystem/v2-0203"
	CDMIdentifierTypeSystem                = "http://ibm.com/fhir/cdm/CodeSystem/identifier-type"
	BasicResourceTypeSystem                = "http://ibm.com/fhir/cdm/CodeSystem/wh-basic-resource-type"
	DRGSystem                              = "https://www.cms.gov/icd10m/version37-fullcode-cms/fullcode_cms/P0002.html"
	ExtIDSystem                            = "urn:id:extID"
)

// Medical coding systems
const (
	CPTSystem      = "http://www.ama-assn.org/go/cpt"
	CVXSystem      = "http://hl7.org/fhir/sid/cvx"
	ICD9System     = "http://hl7.org/fhir/sid/icd-9-cm"
	ICD10System    = "http://hl7.org/fhir/sid/icd-10-cm"
	ICD10PCSSystem = "http://terminology.hl7.org/CodeSystem/icd10PCS"
	LOINCSystem    = "http://loinc.org"
	MESHSystem     = "https://www.nlm.nih.gov/mesh"
	NCISystem      = "http://ncimeta.nci.nih.gov"
	NDCSystem      = "http://hl7.org/fhir/sid/ndc"
	RXNORMSystem   = "http://www.nlm.nih.gov/research/umls/rxnorm"
	SNOMEDSystem   = "http://snomed.info/sct"
	UMLSSystem     = "http://terminology.hl7.org/CodeSystem/umls"
)

// Medical coding system shortnames
const (
	CPT      = "CPT"
	CVX      = "CVX"
	ICD10    = "ICD10"
	ICD10PCS = "ICD10PCS"
	ICD9     = "ICD9"
	LOINC    = "LOINC"
	MESH     = "MESH"
	NCI      = "NCI"
	NDC      = "NDC"
	RXNORM   = "RXNORM"
	SNOMED   = "SNOMED"
	UMLS     = "UMLS"
)

var systemShortnames = map[string]string{
	CPTSystem:      CPT,
	CVXSystem:      CVX,
	ICD10System:    ICD10,
	ICD10PCSSystem: ICD10PCS,
	ICD9System:     ICD9,
	LOINCSystem:    LOINC,
	MESHSystem:     MESH,
	NCISystem:      NCI,
	NDCSystem:      NDC,
	RXNORMSystem:   RXNORM,
	SNOMEDSystem:   SNOMED,
	UMLSSystem:     UMLS,
}

var shortnameSystems = func() map[string]string {
	m := make(map[string]string, len(systemShortnames))
	for url, short := range systemShortnames {
		m[short] = url
	}
	return m
}()

// Shortname returns the shortname of a known coding system URL
func Shortname(systemURL string) (string, bool) {
	s, ok := systemShortnames[systemURL]
	return s, ok
}

// SystemURL returns the URL of a coding system shortname such as "ICD10"
func SystemURL(shortname string) (string, bool) {
	s, ok := shortnameSystems[shortname]
	return s, ok
}

// ExtIDPreferredSystems lists, per resource type, the coding systems used to
// build the extID identifier in order of preference.
var ExtIDPreferredSystems = map[string][]string{
	"AllergyIntolerance":       {SNOMED, ICD10, ICD9, LOINC, NCI, MESH, UMLS},
	"Condition":                {ICD10, ICD9, SNOMED, LOINC, NCI, MESH, UMLS},
	"Immunization":             {CVX, RXNORM, NDC, SNOMED, LOINC, CPT, MESH, NCI, UMLS},
	"Observation":              {LOINC, ICD10, ICD9, SNOMED, MESH, NCI, UMLS},
	"MedicationRequest":        {RXNORM, NDC, SNOMED, MESH, NCI, UMLS},
	"MedicationAdministration": {RXNORM, NDC, SNOMED, MESH, NCI, UMLS},
	"MedicationStatement":      {RXNORM, NDC, SNOMED, MESH, NCI, UMLS},
	"Procedure":                {CPT, ICD10PCS, SNOMED, NCI, LOINC, MESH, UMLS},
}
