package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	lookupSourceColumn = "source_value"
	lookupTargetColumn = "target_value"
	defaultKey         = "default"
	utf8BOM            = "\ufeff"
)

// Opener resolves a reference to a lookup or data file, relative to the
// data contract directory or as a URL.
type Opener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// CodeMap maps source values to target values. A nil target stands for null.
type CodeMap map[string]any

// Resolve returns the mapping of v, the "default" entry when v is not
// mapped, or fallback when neither exists.
func (m CodeMap) Resolve(v any, fallback any) any {
	if s, ok := cellString(v); ok {
		if out, found := m[s]; found {
			return out
		}
	}
	if out, found := m[defaultKey]; found {
		return out
	}
	return fallback
}

// LookupRepository loads two column lookup files and caches them by reference
type LookupRepository struct {
	opener Opener
	cache  sync.Map
}

// NewLookupRepository creates a repository reading files through opener
func NewLookupRepository(opener Opener) *LookupRepository {
	return &LookupRepository{opener: opener}
}

// Load returns the CodeMap stored in the lookup file ref
func (repo *LookupRepository) Load(ctx context.Context, ref string) (CodeMap, error) {
	if cached, ok := repo.cache.Load(ref); ok {
		return cached.(CodeMap), nil
	}
	if repo.opener == nil {
		return nil, fmt.Errorf("failed to open lookup %s: no opener configured", ref)
	}
	rc, err := repo.opener.Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup %s: %w", ref, err)
	}
	defer rc.Close()

	m, err := ReadCodeMap(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup %s: %w", ref, err)
	}
	repo.cache.Store(ref, m)
	return m, nil
}

// ReadCodeMap reads a csv with source_value and target_value columns. Empty
// and "null" targets map to null.
func ReadCodeMap(r io.Reader) (CodeMap, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	src, tgt := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)) {
		case lookupSourceColumn:
			src = i
		case lookupTargetColumn:
			tgt = i
		}
	}
	if src < 0 || tgt < 0 {
		return nil, fmt.Errorf("lookup requires %s and %s columns", lookupSourceColumn, lookupTargetColumn)
	}

	m := CodeMap{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if src >= len(rec) {
			continue
		}
		var target any
		if tgt < len(rec) && rec[tgt] != "" && rec[tgt] != "null" {
			target = rec[tgt]
		}
		m[rec[src]] = target
	}
	return m, nil
}

// codeMap resolves a parameter value that is either an inline mapping or a
// lookup file reference.
func (svc *PipelineService) codeMap(ctx context.Context, v any) (CodeMap, error) {
	if ref, ok := v.(string); ok {
		return svc.lookups.Load(ctx, ref)
	}
	raw, err := Params{"map": v}.Map("map")
	if err != nil {
		return nil, err
	}
	return CodeMap(raw), nil
}
