package fhirutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9\-.]`)

// FormatID replaces characters not allowed in a FHIR id with "-"
func FormatID(id string) string {
	if id == "" {
		return ""
	}
	return invalidIDChars.ReplaceAllString(strings.TrimSpace(id), "-")
}

// ResourceID formats id, or generates "<unix nanos>.<uuid hex>" when it is empty
func ResourceID(id string) string {
	if id == "" {
		return fmt.Sprintf("%d.%s", time.Now().UnixNano(), strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return FormatID(id)
}
