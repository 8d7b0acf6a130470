package fhirutil

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
	"github.com/shopspring/decimal"
)

const DefaultContentType = "text/plain"

var nameSeparators = regexp.MustCompile(`[;,\s]+`)

// HumanName returns nil without a family name
func HumanName(last, first, middle, prefix, suffix string) *fhir.HumanName {
	if last == "" {
		return nil
	}
	var given []string
	for _, g := range []string{first, middle} {
		if g != "" {
			given = append(given, g)
		}
	}
	return newHumanName(last, given, prefix, suffix)
}

// HumanNameFromFML splits "first middle last" on whitespace, commas or
// semicolons. The last token is the family name.
func HumanNameFromFML(fml, prefix, suffix string) *fhir.HumanName {
	var tokens []string
	for _, t := range nameSeparators.Split(strings.TrimSpace(fml), -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return newHumanName(tokens[len(tokens)-1], tokens[:len(tokens)-1], prefix, suffix)
}

func newHumanName(family string, given []string, prefix, suffix string) *fhir.HumanName {
	name := &fhir.HumanName{Family: family, Given: given}
	parts := make([]string, 0, len(given)+3)
	if prefix != "" {
		name.Prefix = []string{prefix}
		parts = append(parts, prefix)
	}
	parts = append(parts, given...)
	parts = append(parts, family)
	if suffix != "" {
		name.Suffix = []string{suffix}
		parts = append(parts, suffix)
	}
	name.Text = strings.Join(parts, " ")
	return name
}

// Address returns nil when every part is empty
func Address(address1, address2, city, state, postalCode, country, text string) *fhir.Address {
	if address1 == "" && address2 == "" && city == "" && state == "" && postalCode == "" && country == "" && text == "" {
		return nil
	}
	var lines []string
	for _, l := range []string{address1, address2} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return &fhir.Address{
		Line:       lines,
		City:       city,
		State:      state,
		PostalCode: postalCode,
		Country:    country,
		Text:       text,
	}
}

func PhoneContactPoints(phone string) []fhir.ContactPoint {
	if phone == "" {
		return nil
	}
	return []fhir.ContactPoint{{System: "phone", Value: phone}}
}

// Quantity returns nil unless value is a valid decimal
func Quantity(value, unit string) *fhir.Quantity {
	d, ok := Decimal(value)
	if !ok {
		return nil
	}
	return &fhir.Quantity{Value: &d, Unit: unit}
}

func Duration(value, unit string) *fhir.Duration {
	d, ok := Decimal(value)
	if !ok {
		return nil
	}
	return &fhir.Duration{Value: &d, Unit: unit}
}

func Decimal(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Attachment returns nil without data. The data is base64 encoded and the
// content type defaults to text/plain.
func Attachment(contentType, data, title, creation string, loc *time.Location) (*fhir.Attachment, error) {
	if data == "" {
		return nil, nil
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	a := &fhir.Attachment{
		ContentType: contentType,
		Title:       title,
		Data:        base64.StdEncoding.EncodeToString([]byte(data)),
	}
	created, err := ParseDateTime(creation, loc)
	a.Creation = created
	return a, err
}
