package pipeline

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// Params are the named arguments of a task, as decoded from the contract
type Params map[string]any

func (p Params) has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}

func (p Params) String(name string) (string, error) {
	s, err := cast.ToStringE(p[name])
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return s, nil
}

// StringOr returns fallback when name is not set
func (p Params) StringOr(name, fallback string) (string, error) {
	if !p.has(name) {
		return fallback, nil
	}
	return p.String(name)
}

// OptionalString returns nil when name is not set or null
func (p Params) OptionalString(name string) (*string, error) {
	if !p.has(name) {
		return nil, nil
	}
	s, err := p.String(name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p Params) Strings(name string) ([]string, error) {
	switch v := p[name].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	}
	s, err := cast.ToStringSliceE(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return s, nil
}

func (p Params) IntOr(name string, fallback int) (int, error) {
	if !p.has(name) {
		return fallback, nil
	}
	i, err := cast.ToIntE(p[name])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return i, nil
}

func (p Params) Ints(name string) ([]int, error) {
	if !p.has(name) {
		return nil, nil
	}
	i, err := cast.ToIntSliceE(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return i, nil
}

func (p Params) BoolOr(name string, fallback bool) (bool, error) {
	if !p.has(name) {
		return fallback, nil
	}
	b, err := cast.ToBoolE(p[name])
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return b, nil
}

// StringMap decodes an object parameter with string keys and string values
func (p Params) StringMap(name string) (map[string]string, error) {
	m, err := cast.ToStringMapStringE(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return m, nil
}

// Map decodes an object parameter keeping its raw values
func (p Params) Map(name string) (map[string]any, error) {
	m, err := cast.ToStringMapE(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return m, nil
}

// Maps decodes a list of objects
func (p Params) Maps(name string) ([]map[string]any, error) {
	raw, err := anySlice(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		m, err := cast.ToStringMapE(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// StringLists decodes a list of string lists
func (p Params) StringLists(name string) ([][]string, error) {
	raw, err := anySlice(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	out := make([][]string, 0, len(raw))
	for _, r := range raw {
		s, err := cast.ToStringSliceE(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// IntLists decodes a list of integer lists
func (p Params) IntLists(name string) ([][]int, error) {
	raw, err := anySlice(p[name])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	out := make([][]int, 0, len(raw))
	for _, r := range raw {
		i, err := cast.ToIntSliceE(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
		}
		out = append(out, i)
	}
	return out, nil
}

// anySlice accepts any slice type, decoded contracts hold []any while
// callers building tasks in code pass typed slices.
func anySlice(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
