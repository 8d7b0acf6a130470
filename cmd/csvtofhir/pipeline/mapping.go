package pipeline

import (
	"context"
	"fmt"
	"regexp"
)

// mapCodes replaces the values of every column named in code_map. Each
// entry is an inline mapping or a lookup file reference.
func (svc *PipelineService) mapCodes(ctx context.Context, b *Batch, p Params) (*Batch, error) {
	codeMaps, err := p.Map("code_map")
	if err != nil {
		return nil, err
	}
	matched := 0
	for _, column := range b.Columns {
		raw, ok := codeMaps[column]
		if !ok {
			continue
		}
		m, err := svc.codeMap(ctx, raw)
		if err != nil {
			return nil, err
		}
		for _, r := range b.Rows {
			r[column] = m.Resolve(r[column], r[column])
		}
		matched++
	}
	if matched == 0 {
		svc.log.Warn().Msg("No matching columns")
	}
	return b, nil
}

func (svc *PipelineService) conditionalColumn(ctx context.Context, b *Batch, p Params) (*Batch, error) {
	return svc.conditional(ctx, b, p, false)
}

func (svc *PipelineService) conditionalColumnUpdate(ctx context.Context, b *Batch, p Params) (*Batch, error) {
	return svc.conditional(ctx, b, p, true)
}

// conditional maps source_column into target_column. Unmapped values fall
// back to the source value, or to the current target value when updating.
func (svc *PipelineService) conditional(ctx context.Context, b *Batch, p Params, update bool) (*Batch, error) {
	source, target, m, err := svc.conditionalParams(ctx, p)
	if err != nil {
		return nil, err
	}
	if !b.Has(source) {
		return b, nil
	}
	b.SetColumn(target, func(r Row) any {
		fallback := r[source]
		if update {
			fallback = r[target]
		}
		return m.Resolve(r[source], fallback)
	})
	return b, nil
}

// conditionalColumnWithPrerequisite maps like conditional_column_update, but
// only on rows whose prerequisite column matches prerequisite_match. A null
// match selects rows with an empty prerequisite column.
func (svc *PipelineService) conditionalColumnWithPrerequisite(ctx context.Context, b *Batch, p Params) (*Batch, error) {
	source, target, m, err := svc.conditionalParams(ctx, p)
	if err != nil {
		return nil, err
	}
	prereq, err := p.String("prerequisite_column")
	if err != nil {
		return nil, err
	}
	match, err := p.OptionalString("prerequisite_match")
	if err != nil {
		return nil, err
	}
	var re *regexp.Regexp
	if match != nil {
		if re, err = regexp.Compile(*match); err != nil {
			return nil, fmt.Errorf("%w: prerequisite_match: %v", ErrInvalidParam, err)
		}
	}
	if !b.Has(source) {
		return b, nil
	}

	b.SetColumn(target, func(r Row) any {
		if isNull(r[source]) {
			return r[target]
		}
		prereqValue, present := cellString(r[prereq])
		matched := false
		switch {
		case re == nil:
			matched = !present
		case present:
			matched = re.MatchString(prereqValue)
		}
		if !matched {
			return r[target]
		}
		return m.Resolve(r[source], r[target])
	})
	return b, nil
}

func (svc *PipelineService) conditionalParams(ctx context.Context, p Params) (string, string, CodeMap, error) {
	source, err := p.String("source_column")
	if err != nil {
		return "", "", nil, err
	}
	target, err := p.String("target_column")
	if err != nil {
		return "", "", nil, err
	}
	m, err := svc.codeMap(ctx, p["condition_map"])
	if err != nil {
		return "", "", nil, err
	}
	return source, target, m, nil
}

// validateValue replaces values in which regex finds no match
func (svc *PipelineService) validateValue(_ context.Context, b *Batch, p Params) (*Batch, error) {
	column, err := p.String("column_name")
	if err != nil {
		return nil, err
	}
	pattern, err := p.String("regex")
	if err != nil {
		return nil, err
	}
	replacement, err := p.OptionalString("no_match_replacement")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: regex: %v", ErrInvalidParam, err)
	}
	if !b.Has(column) {
		return b, nil
	}
	for _, r := range b.Rows {
		s, ok := cellString(r[column])
		if !ok || re.MatchString(s) {
			continue
		}
		if replacement == nil {
			r[column] = nil
		} else {
			r[column] = *replacement
		}
	}
	return b, nil
}
