package fhir

type Patient struct {
	ID                   string         `json:"id,omitempty"`
	Meta                 *Meta          `json:"meta,omitempty"`
	Extension            []Extension    `json:"extension,omitempty"`
	Identifier           []Identifier   `json:"identifier,omitempty"`
	Name                 []HumanName    `json:"name,omitempty"`
	Telecom              []ContactPoint `json:"telecom,omitempty"`
	Gender               string         `json:"gender,omitempty"`
	BirthDate            *Date          `json:"birthDate,omitempty"`
	DeceasedBoolean      *bool          `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime     *Date          `json:"deceasedDateTime,omitempty"`
	Address              []Address      `json:"address,omitempty"`
	MultipleBirthBoolean *bool          `json:"multipleBirthBoolean,omitempty"`
	MultipleBirthInteger *int           `json:"multipleBirthInteger,omitempty"`
	GeneralPractitioner  []Reference    `json:"generalPractitioner,omitempty"`
}

func (r Patient) ResourceType() string { return "Patient" }
func (r Patient) ResourceID() string   { return r.ID }

func (r Patient) MarshalJSON() ([]byte, error) {
	type alias Patient
	return marshalResource(r.ResourceType(), alias(r))
}

type Practitioner struct {
	ID         string       `json:"id,omitempty"`
	Meta       *Meta        `json:"meta,omitempty"`
	Identifier []Identifier `json:"identifier,omitempty"`
	Name       []HumanName  `json:"name,omitempty"`
	Gender     string       `json:"gender,omitempty"`
}

func (r Practitioner) ResourceType() string { return "Practitioner" }
func (r Practitioner) ResourceID() string   { return r.ID }

func (r Practitioner) MarshalJSON() ([]byte, error) {
	type alias Practitioner
	return marshalResource(r.ResourceType(), alias(r))
}

type PractitionerRole struct {
	ID           string            `json:"id,omitempty"`
	Meta         *Meta             `json:"meta,omitempty"`
	Identifier   []Identifier      `json:"identifier,omitempty"`
	Practitioner *Reference        `json:"practitioner,omitempty"`
	Code         []CodeableConcept `json:"code,omitempty"`
	Specialty    []CodeableConcept `json:"specialty,omitempty"`
}

func (r PractitionerRole) ResourceType() string { return "PractitionerRole" }
func (r PractitionerRole) ResourceID() string   { return r.ID }

func (r PractitionerRole) MarshalJSON() ([]byte, error) {
	type alias PractitionerRole
	return marshalResource(r.ResourceType(), alias(r))
}

type Location struct {
	ID         string            `json:"id,omitempty"`
	Meta       *Meta             `json:"meta,omitempty"`
	Identifier []Identifier      `json:"identifier,omitempty"`
	Name       string            `json:"name,omitempty"`
	Type       []CodeableConcept `json:"type,omitempty"`
}

func (r Location) ResourceType() string { return "Location" }
func (r Location) ResourceID() string   { return r.ID }

func (r Location) MarshalJSON() ([]byte, error) {
	type alias Location
	return marshalResource(r.ResourceType(), alias(r))
}

type Organization struct {
	ID         string       `json:"id,omitempty"`
	Meta       *Meta        `json:"meta,omitempty"`
	Identifier []Identifier `json:"identifier,omitempty"`
	Name       string       `json:"name,omitempty"`
}

func (r Organization) ResourceType() string { return "Organization" }
func (r Organization) ResourceID() string   { return r.ID }

func (r Organization) MarshalJSON() ([]byte, error) {
	type alias Organization
	return marshalResource(r.ResourceType(), alias(r))
}

// Basic carries patient tokens that have no dedicated resource type
type Basic struct {
	ID         string           `json:"id,omitempty"`
	Meta       *Meta            `json:"meta,omitempty"`
	Identifier []Identifier     `json:"identifier,omitempty"`
	Code       *CodeableConcept `json:"code,omitempty"`
	Subject    *Reference       `json:"subject,omitempty"`
	Created    *Date            `json:"created,omitempty"`
}

func (r Basic) ResourceType() string { return "Basic" }
func (r Basic) ResourceID() string   { return r.ID }

func (r Basic) MarshalJSON() ([]byte, error) {
	type alias Basic
	return marshalResource(r.ResourceType(), alias(r))
}
