package converter

import (
	"github.com/rs/zerolog"
)

// ConverterService turns normalized rows into FHIR resources
type ConverterService struct {
	log zerolog.Logger
}

// NewConverterService creates a new ConverterService
func NewConverterService(log zerolog.Logger) *ConverterService {
	return &ConverterService{log: log}
}

// warnOnError logs a field level conversion problem. The field is left unset
// and the conversion of the row continues.
func (svc *ConverterService) warnOnError(err error, resourceType, field string) {
	if err == nil {
		return
	}
	svc.log.Warn().
		Err(err).
		Str("resourceType", resourceType).
		Str("field", field).
		Msg("Unable to convert field")
}
