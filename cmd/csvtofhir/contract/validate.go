package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/converter"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("resource_kind", validateResourceKind); err != nil {
		panic(err)
	}
}

func validateResourceKind(fl validator.FieldLevel) bool {
	_, ok := resourceKind(fl.Field().String())
	return ok
}

// resourceKind matches name against the supported kinds ignoring case and
// underscores, so "medication_use" names MedicationUse.
func resourceKind(name string) (converter.ResourceKind, bool) {
	normalized := strings.ReplaceAll(name, "_", "")
	for _, k := range converter.ResourceKinds() {
		if strings.EqualFold(string(k), normalized) {
			return k, true
		}
	}
	return "", false
}

// ValidationError lists every problem found in a data contract
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid data contract: %s", strings.Join(e.Problems, "; "))
}

// Validate checks dc and reports all problems at once
func Validate(dc *DataContract) error {
	var problems []string
	if err := validate.Struct(dc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, fieldProblem(fe))
		}
	}

	seen := map[string]bool{}
	for _, nd := range dc.FileDefinitions {
		if seen[strings.ToLower(nd.Key)] {
			problems = append(problems, fmt.Sprintf("fileDefinitions.%s: duplicate key", nd.Key))
		}
		seen[strings.ToLower(nd.Key)] = true

		if dc.General.RegexFilenames {
			if _, err := regexp.Compile(nd.Key); err != nil {
				problems = append(problems, fmt.Sprintf("fileDefinitions.%s: invalid filename pattern: %v", nd.Key, err))
			}
		}
		def := nd.Definition
		if def == nil {
			continue
		}
		if def.IsFixedWidth() && (!def.Headers.Widths || len(def.Headers.Columns) == 0) {
			problems = append(problems, fmt.Sprintf(
				"fileDefinitions.%s: headers are required for fixed-width files as an object of column name to width", nd.Key))
		}
		for i, t := range def.Tasks {
			if err := pipeline.ValidateTask(t); err != nil {
				problems = append(problems, fmt.Sprintf("fileDefinitions.%s.tasks[%d]: %v", nd.Key, i, err))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func fieldProblem(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "DataContract.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "timezone":
		return fmt.Sprintf("%s: invalid time zone %q", field, fe.Value())
	case "resource_kind":
		return fmt.Sprintf("%s: unsupported resource type %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of %s", field, fe.Value(), strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
