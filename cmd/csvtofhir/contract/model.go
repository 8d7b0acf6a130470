package contract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
)

// Stream types of the general section
const (
	StreamLive       = "live"
	StreamHistorical = "historical"
)

// File types of a FileDefinition
const (
	FileTypeCSV        = "csv"
	FileTypeFixedWidth = "fixed-width"
)

const defaultDelimiter = ","

// DataContract binds source files to resource types and transformation tasks
type DataContract struct {
	General         General         `json:"general" validate:"required"`
	FileDefinitions FileDefinitions `json:"fileDefinitions" validate:"required,min=1,dive"`
}

// General holds the settings shared by every file of a contract
type General struct {
	TimeZone           string   `json:"timeZone" validate:"required,timezone"`
	TenantID           string   `json:"tenantId" validate:"required"`
	AssigningAuthority string   `json:"assigningAuthority,omitempty"`
	StreamType         string   `json:"streamType,omitempty" validate:"omitempty,oneof=live historical"`
	EmptyFieldValues   []string `json:"emptyFieldValues,omitempty"`
	RegexFilenames     bool     `json:"regexFilenames,omitempty"`
}

// FileDefinition describes how one kind of source file is read and mapped
type FileDefinition struct {
	Comment                string          `json:"comment,omitempty"`
	FileType               string          `json:"fileType,omitempty" validate:"omitempty,oneof=csv fixed-width"`
	ValueDelimiter         string          `json:"valueDelimiter,omitempty"`
	ConvertColumnsToString *bool           `json:"convertColumnsToString,omitempty"`
	ResourceType           string          `json:"resourceType" validate:"required,resource_kind"`
	GroupByKey             string          `json:"groupByKey" validate:"required"`
	Headers                Headers         `json:"headers,omitempty"`
	SkipRows               SkipRows        `json:"skiprows,omitempty"`
	Tasks                  []pipeline.Task `json:"tasks,omitempty" validate:"dive"`
}

func (fd *FileDefinition) applyDefaults() {
	if fd.FileType == "" {
		fd.FileType = FileTypeCSV
	}
	if fd.ValueDelimiter == "" {
		fd.ValueDelimiter = defaultDelimiter
	}
	if kind, ok := resourceKind(fd.ResourceType); ok {
		fd.ResourceType = string(kind)
	}
}

// IsFixedWidth reports whether the file has fixed width columns
func (fd *FileDefinition) IsFixedWidth() bool {
	return fd.FileType == FileTypeFixedWidth
}

// ConvertToString reports whether every column is read as a string, the default
func (fd *FileDefinition) ConvertToString() bool {
	return fd.ConvertColumnsToString == nil || *fd.ConvertColumnsToString
}

// NamedDefinition is a FileDefinition with the key it is declared under. Ref
// holds the reference of a definition stored in its own file.
type NamedDefinition struct {
	Key        string
	Ref        string
	Definition *FileDefinition `validate:"required"`
}

// FileDefinitions keeps the declared order of the contract's definitions
type FileDefinitions []NamedDefinition

func (defs *FileDefinitions) UnmarshalJSON(data []byte) error {
	keys, values, err := orderedObject(data)
	if err != nil {
		return fmt.Errorf("fileDefinitions: %w", err)
	}
	out := make(FileDefinitions, 0, len(keys))
	for _, k := range keys {
		nd := NamedDefinition{Key: k}
		raw := bytes.TrimSpace(values[k])
		if len(raw) > 0 && raw[0] == '"' {
			if err := json.Unmarshal(raw, &nd.Ref); err != nil {
				return fmt.Errorf("fileDefinitions.%s: %w", k, err)
			}
		} else {
			nd.Definition = &FileDefinition{}
			if err := json.Unmarshal(raw, nd.Definition); err != nil {
				return fmt.Errorf("fileDefinitions.%s: %w", k, err)
			}
		}
		out = append(out, nd)
	}
	*defs = out
	return nil
}

func (defs FileDefinitions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, nd := range defs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(nd.Key)
		buf.Write(key)
		buf.WriteByte(':')
		var value any = nd.Definition
		if nd.Definition == nil {
			value = nd.Ref
		}
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Header is one column declared by a FileDefinition. Width is only set for
// fixed width files.
type Header struct {
	Name    string
	Comment string
	Width   int
}

// Headers accepts a list of names, a list of {name: comment} objects or an
// object of name to column width.
type Headers struct {
	Columns []Header
	Widths  bool
}

// Names returns the column names in declared order
func (h Headers) Names() []string {
	names := make([]string, 0, len(h.Columns))
	for _, c := range h.Columns {
		names = append(names, c.Name)
	}
	return names
}

// ColumnWidths returns the widths of a fixed width declaration
func (h Headers) ColumnWidths() []int {
	widths := make([]int, 0, len(h.Columns))
	for _, c := range h.Columns {
		widths = append(widths, c.Width)
	}
	return widths
}

func (h *Headers) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*h = Headers{}
		return nil
	case data[0] == '{':
		keys, values, err := orderedObject(data)
		if err != nil {
			return err
		}
		out := Headers{Widths: true}
		for _, k := range keys {
			var width int
			if err := json.Unmarshal(values[k], &width); err != nil {
				return fmt.Errorf("width of %s: %w", k, err)
			}
			out.Columns = append(out.Columns, Header{Name: k, Width: width})
		}
		*h = out
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	out := Headers{}
	for _, e := range entries {
		var name string
		if err := json.Unmarshal(e, &name); err == nil {
			out.Columns = append(out.Columns, Header{Name: name})
			continue
		}
		keys, values, err := orderedObject(e)
		if err != nil {
			return fmt.Errorf("header %s: %w", e, err)
		}
		for _, k := range keys {
			var comment string
			_ = json.Unmarshal(values[k], &comment)
			out.Columns = append(out.Columns, Header{Name: k, Comment: comment})
		}
	}
	*h = out
	return nil
}

func (h Headers) MarshalJSON() ([]byte, error) {
	if h.Widths {
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, c := range h.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(c.Name)
			fmt.Fprintf(&buf, "%s:%d", key, c.Width)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return json.Marshal(h.Names())
}

// SkipRows is either a count of leading rows or a list of 0 based physical
// row numbers to skip.
type SkipRows struct {
	Leading int
	Rows    []int
}

// IsZero reports whether nothing is skipped
func (s SkipRows) IsZero() bool {
	return s.Leading == 0 && len(s.Rows) == 0
}

func (s *SkipRows) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = SkipRows{}
		return nil
	}
	if data[0] == '[' {
		var rows []int
		if err := json.Unmarshal(data, &rows); err != nil {
			return err
		}
		*s = SkipRows{Rows: rows}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = SkipRows{Leading: n}
	return nil
}

func (s SkipRows) MarshalJSON() ([]byte, error) {
	if len(s.Rows) > 0 {
		return json.Marshal(s.Rows)
	}
	return json.Marshal(s.Leading)
}

// orderedObject decodes a JSON object keeping the order of its keys
func orderedObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected an object")
	}
	var keys []string
	values := map[string]json.RawMessage{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	return keys, values, nil
}
