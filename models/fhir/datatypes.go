package fhir

import (
	"github.com/shopspring/decimal"
)

func init() {
	// quantities are emitted as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Coding is a single code from a terminology system
type Coding struct {
	ID      string `json:"id,omitempty"`
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is a set of codings with an optional text fallback
type CodeableConcept struct {
	ID     string   `json:"id,omitempty"`
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// HasCoding reports whether an equal coding is already present
func (cc *CodeableConcept) HasCoding(c Coding) bool {
	for _, existing := range cc.Coding {
		if existing == c {
			return true
		}
	}
	return false
}

type Identifier struct {
	ID     string           `json:"id,omitempty"`
	Use    string           `json:"use,omitempty"`
	Type   *CodeableConcept `json:"type,omitempty"`
	System string           `json:"system,omitempty"`
	Value  string           `json:"value,omitempty"`
}

type Reference struct {
	ID        string      `json:"id,omitempty"`
	Extension []Extension `json:"extension,omitempty"`
	Reference string      `json:"reference,omitempty"`
	Display   string      `json:"display,omitempty"`
}

// Extension carries one of the value[x] choices or nested extensions
type Extension struct {
	ID                   string           `json:"id,omitempty"`
	URL                  string           `json:"url"`
	Extension            []Extension      `json:"extension,omitempty"`
	ValueString          string           `json:"valueString,omitempty"`
	ValueCode            string           `json:"valueCode,omitempty"`
	ValueBoolean         *bool            `json:"valueBoolean,omitempty"`
	ValueInteger         *int             `json:"valueInteger,omitempty"`
	ValueUnsignedInt     *int             `json:"valueUnsignedInt,omitempty"`
	ValuePositiveInt     *int             `json:"valuePositiveInt,omitempty"`
	ValueDateTime        *DateTime        `json:"valueDateTime,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
}

type Meta struct {
	Extension []Extension `json:"extension,omitempty"`
}

type Period struct {
	Start *DateTime `json:"start,omitempty"`
	End   *DateTime `json:"end,omitempty"`
}

type Quantity struct {
	Extension []Extension      `json:"extension,omitempty"`
	Value     *decimal.Decimal `json:"value,omitempty"`
	Unit      string           `json:"unit,omitempty"`
	System    string           `json:"system,omitempty"`
	Code      string           `json:"code,omitempty"`
}

type Duration struct {
	Value *decimal.Decimal `json:"value,omitempty"`
	Unit  string           `json:"unit,omitempty"`
}

type Attachment struct {
	ContentType string    `json:"contentType,omitempty"`
	Data        string    `json:"data,omitempty"`
	Title       string    `json:"title,omitempty"`
	Creation    *DateTime `json:"creation,omitempty"`
}

type Address struct {
	Text       string   `json:"text,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

type ContactPoint struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

type HumanName struct {
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
	Prefix []string `json:"prefix,omitempty"`
	Suffix []string `json:"suffix,omitempty"`
}

type Dosage struct {
	Text        string              `json:"text,omitempty"`
	Route       *CodeableConcept    `json:"route,omitempty"`
	DoseAndRate []DosageDoseAndRate `json:"doseAndRate,omitempty"`
}

type DosageDoseAndRate struct {
	DoseQuantity *Quantity `json:"doseQuantity,omitempty"`
}
