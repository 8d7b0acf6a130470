package fhirutil

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/LinuxForHealth/CsvToFHIR/util"
)

// IsBoolean reports whether value is one of true, false, t or f
func IsBoolean(value string) bool {
	switch strings.ToLower(value) {
	case "true", "false", "t", "f":
		return true
	}
	return false
}

// BooleanValue returns nil when value is not a boolean token
func BooleanValue(value string) *bool {
	if !IsBoolean(value) {
		return nil
	}
	return util.BoolPtr(strings.EqualFold(value, "true") || strings.EqualFold(value, "t"))
}

func IsDecimal(value string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil
}

// IsNumeric reports whether value is made of digits only
func IsNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
