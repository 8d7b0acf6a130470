package contract

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrDefinitionLookup = errors.New("no file definition found")

// DefinitionLookupError reports a file no FileDefinition applies to
type DefinitionLookupError struct {
	File string
}

func (e *DefinitionLookupError) Error() string {
	return fmt.Sprintf("%v for %s", ErrDefinitionLookup, e.File)
}

func (e *DefinitionLookupError) Is(target error) bool {
	return target == ErrDefinitionLookup
}

// FindDefinition returns the first FileDefinition, in declared order, whose
// key matches the base name of filePath without its extension. Keys match as
// case insensitive substrings, or as regular expressions when the contract
// sets regexFilenames.
func (dc *DataContract) FindDefinition(filePath string) (*NamedDefinition, error) {
	matches := dc.MatchingDefinitions(filePath)
	if len(matches) == 0 {
		return nil, &DefinitionLookupError{File: filePath}
	}
	return matches[0], nil
}

// MatchingDefinitions returns every definition whose key matches filePath,
// in declared order. More than one match marks an ambiguous contract.
func (dc *DataContract) MatchingDefinitions(filePath string) []*NamedDefinition {
	base := filepath.Base(filePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	lowered := strings.ToLower(base)

	var out []*NamedDefinition
	for i := range dc.FileDefinitions {
		nd := &dc.FileDefinitions[i]
		if dc.General.RegexFilenames {
			re, err := regexp.Compile(nd.Key)
			if err == nil && re.MatchString(base) {
				out = append(out, nd)
			}
			continue
		}
		if strings.Contains(lowered, strings.ToLower(nd.Key)) {
			out = append(out, nd)
		}
	}
	return out
}
