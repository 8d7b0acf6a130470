package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ContractService loads and validates data contracts
type ContractService struct {
	fetcher *Fetcher
	log     zerolog.Logger
}

// NewContractService creates a ContractService reading through fetcher
func NewContractService(fetcher *Fetcher, log zerolog.Logger) *ContractService {
	return &ContractService{fetcher: fetcher, log: log}
}

// Load reads the contract stored at ref, resolves the file definitions
// stored in separate files and validates the result.
func (svc *ContractService) Load(ctx context.Context, ref string) (*DataContract, error) {
	data, err := svc.fetcher.ReadAll(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read data contract %s: %w", ref, err)
	}
	dc, err := svc.Parse(ctx, data, ref)
	if err != nil {
		return nil, err
	}
	svc.log.Info().
		Str("contract", ref).
		Int("fileDefinitions", len(dc.FileDefinitions)).
		Msg("Loaded data contract")
	return dc, nil
}

// Parse decodes and validates contract content. name selects the YAML
// decoder for .yaml and .yml files.
func (svc *ContractService) Parse(ctx context.Context, data []byte, name string) (*DataContract, error) {
	data, err := toJSON(data, name)
	if err != nil {
		return nil, err
	}
	var dc DataContract
	if err := json.Unmarshal(data, &dc); err != nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("invalid data contract: %v", err)}}
	}

	var loadErrors []string
	for i := range dc.FileDefinitions {
		nd := &dc.FileDefinitions[i]
		if nd.Definition != nil {
			continue
		}
		def, err := svc.loadDefinition(ctx, nd.Ref)
		if err != nil {
			svc.log.Error().Err(err).Str("key", nd.Key).Str("ref", nd.Ref).Msg("Failed to load file definition")
			loadErrors = append(loadErrors, fmt.Sprintf("fileDefinitions.%s: %v", nd.Key, err))
			continue
		}
		nd.Definition = def
	}
	if len(loadErrors) > 0 {
		return nil, &ValidationError{Problems: loadErrors}
	}

	for i := range dc.FileDefinitions {
		dc.FileDefinitions[i].Definition.applyDefaults()
	}
	if dc.General.StreamType == "" {
		dc.General.StreamType = StreamLive
	}
	if err := Validate(&dc); err != nil {
		return nil, err
	}
	return &dc, nil
}

func (svc *ContractService) loadDefinition(ctx context.Context, ref string) (*FileDefinition, error) {
	data, err := svc.fetcher.ReadAll(ctx, ref)
	if err != nil {
		return nil, err
	}
	if data, err = toJSON(data, ref); err != nil {
		return nil, err
	}
	var def FileDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid file definition %s: %w", ref, err)
	}
	return &def, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(name)))
	return ext == ".yaml" || ext == ".yml"
}

// toJSON converts YAML content to JSON, keeping mapping order
func toJSON(data []byte, name string) ([]byte, error) {
	if !isYAML(name) {
		return data, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("invalid yaml: %v", err)}}
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, &doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(n.Content[i].Value)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(b)
	}
	return nil
}
