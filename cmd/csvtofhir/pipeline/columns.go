package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

// RowNumColumn holds the 1 based position of a row in its source file
const RowNumColumn = "rowNum"

func (svc *PipelineService) addConstant(_ context.Context, b *Batch, p Params) (*Batch, error) {
	name, err := p.String("name")
	if err != nil {
		return nil, err
	}
	if b.Has(name) {
		svc.log.Warn().Str("column", name).Msg("Unable to add constant, column already exists")
		return b, nil
	}
	value := p["value"]
	if list, ok := cellList(value); ok {
		b.SetColumn(name, func(Row) any { return append([]string(nil), list...) })
		return b, nil
	}
	b.SetColumn(name, func(Row) any { return value })
	return b, nil
}

func (svc *PipelineService) addRowNum(_ context.Context, b *Batch, p Params) (*Batch, error) {
	start, err := p.IntOr("starting_index", 1)
	if err != nil {
		return nil, err
	}
	b.AddColumn(RowNumColumn)
	for i, r := range b.Rows {
		r[RowNumColumn] = start + i
	}
	return b, nil
}

func (svc *PipelineService) copyColumns(_ context.Context, b *Batch, p Params) (*Batch, error) {
	columns, err := p.Strings("columns")
	if err != nil {
		return nil, err
	}
	target, err := p.String("target_column")
	if err != nil {
		return nil, err
	}
	sep, err := p.StringOr("value_separator", " ")
	if err != nil {
		return nil, err
	}
	matched := b.Present(columns)
	if len(matched) == 0 {
		svc.log.Warn().Strs("columns", columns).Msg("No matching columns")
		return b, nil
	}
	b.SetColumn(target, func(r Row) any {
		parts := make([]string, len(matched))
		for i, c := range matched {
			parts[i], _ = cellString(r[c])
		}
		return strings.Join(parts, sep)
	})
	return b, nil
}

func (svc *PipelineService) renameColumns(_ context.Context, b *Batch, p Params) (*Batch, error) {
	columnMap, err := p.StringMap("column_map")
	if err != nil {
		return nil, err
	}
	renamed := svc.relabel(b, func(c string) string {
		if target, ok := columnMap[c]; ok {
			return target
		}
		return c
	})
	if renamed == 0 {
		svc.log.Warn().Msg("No matched columns")
	}
	return b, nil
}

func (svc *PipelineService) removeWhitespaceFromColumns(_ context.Context, b *Batch, _ Params) (*Batch, error) {
	svc.relabel(b, strings.TrimSpace)
	return b, nil
}

// relabel renames every column at once, reading cells from the original rows.
// When two columns end up with the same name the first one in column order is kept.
func (svc *PipelineService) relabel(b *Batch, name func(string) string) int {
	columns := make([]string, 0, len(b.Columns))
	sources := make([]string, 0, len(b.Columns))
	renamed := 0
	for _, c := range b.Columns {
		target := name(c)
		if target != c {
			renamed++
		}
		if slices.Contains(columns, target) {
			svc.log.Warn().Str("column", c).Str("target", target).Msg("Dropping column, target name already in use")
			continue
		}
		columns = append(columns, target)
		sources = append(sources, c)
	}
	if renamed == 0 {
		return 0
	}
	for i, r := range b.Rows {
		row := make(Row, len(r))
		for k, v := range r {
			if !slices.Contains(b.Columns, k) {
				row[k] = v
			}
		}
		for j, target := range columns {
			if v, ok := r[sources[j]]; ok {
				row[target] = v
			}
		}
		b.Rows[i] = row
	}
	b.Columns = columns
	return renamed
}

// setNanToNone turns NaN cells into nulls
func (svc *PipelineService) setNanToNone(_ context.Context, b *Batch, _ Params) (*Batch, error) {
	for _, r := range b.Rows {
		for k, v := range r {
			switch f := v.(type) {
			case float64:
				if math.IsNaN(f) {
					r[k] = nil
				}
			case float32:
				if math.IsNaN(float64(f)) {
					r[k] = nil
				}
			}
		}
	}
	return b, nil
}

// filterToColumns partitions source_column into target_columns. An extra
// trailing target column collects the values no filter matched.
func (svc *PipelineService) filterToColumns(_ context.Context, b *Batch, p Params) (*Batch, error) {
	source, err := p.String("source_column")
	if err != nil {
		return nil, err
	}
	targets, err := p.Strings("target_columns")
	if err != nil {
		return nil, err
	}
	filters, err := p.StringLists("filters")
	if err != nil {
		return nil, err
	}
	if existing := b.Present(targets); len(existing) > 0 {
		svc.log.Warn().Strs("columns", existing).Msg("Unable to filter columns, target columns exist")
		return b, nil
	}
	if len(targets) != len(filters) && len(targets) != len(filters)+1 {
		svc.log.Warn().Int("targets", len(targets)).Int("filters", len(filters)).
			Msg("Unable to filter columns, target count must equal the filter count or exceed it by one")
		return b, nil
	}
	if !b.Has(source) {
		return b, nil
	}

	for i, f := range filters {
		filter := f
		b.SetColumn(targets[i], func(r Row) any {
			if s, ok := cellString(r[source]); ok && slices.Contains(filter, s) {
				return r[source]
			}
			return nil
		})
	}
	if len(targets) > len(filters) {
		var all []string
		for _, f := range filters {
			all = append(all, f...)
		}
		b.SetColumn(targets[len(targets)-1], func(r Row) any {
			if s, ok := cellString(r[source]); ok && slices.Contains(all, s) {
				return nil
			}
			return r[source]
		})
	}
	return b, nil
}

func (svc *PipelineService) findNotNullValue(_ context.Context, b *Batch, p Params) (*Batch, error) {
	columns, err := p.Strings("columns")
	if err != nil {
		return nil, err
	}
	target, err := p.String("target_column")
	if err != nil {
		return nil, err
	}
	matched := b.Present(columns)
	if len(matched) == 0 {
		svc.log.Warn().Strs("columns", columns).Msg("No matching columns")
		return b, nil
	}
	b.SetColumn(target, func(r Row) any {
		for _, c := range matched {
			if !isNull(r[c]) {
				return r[c]
			}
		}
		return nil
	})
	return b, nil
}

func (svc *PipelineService) splitColumn(_ context.Context, b *Batch, p Params) (*Batch, error) {
	column, err := p.String("column_name")
	if err != nil {
		return nil, err
	}
	newColumns, err := p.Strings("new_column_names")
	if err != nil {
		return nil, err
	}
	delimiter, err := p.StringOr("delimiter", "")
	if err != nil {
		return nil, err
	}
	if existing := b.Present(newColumns); len(existing) > 0 {
		svc.log.Warn().Strs("columns", existing).Msg("Unable to split columns, new columns exist")
		return b, nil
	}
	if !b.Has(column) {
		return b, nil
	}

	if delimiter != "" {
		for _, c := range newColumns {
			b.AddColumn(c)
		}
		for _, r := range b.Rows {
			s, ok := cellString(r[column])
			var parts []string
			if ok {
				parts = strings.Split(s, delimiter)
			}
			for i, c := range newColumns {
				if i < len(parts) {
					r[c] = parts[i]
				} else {
					r[c] = nil
				}
			}
		}
		return b, nil
	}

	indices, err := p.IntLists("indices")
	if err != nil {
		return nil, err
	}
	if len(indices) != len(newColumns) {
		return nil, fmt.Errorf("%w: %d index pairs for %d new columns", ErrInvalidParam, len(indices), len(newColumns))
	}
	for _, bounds := range indices {
		if len(bounds) == 0 || len(bounds) > 2 {
			return nil, fmt.Errorf("%w: index boundaries may contain 1 or 2 elements, got %v", ErrInvalidParam, bounds)
		}
	}
	for i, c := range newColumns {
		bounds := indices[i]
		b.SetColumn(c, func(r Row) any {
			s, ok := cellString(r[column])
			if !ok {
				return nil
			}
			var end *int
			if len(bounds) == 2 {
				end = &bounds[1]
			}
			return sliceRunes(s, bounds[0], end)
		})
	}
	return b, nil
}

// sliceRunes slices s by runes using half open bounds where negative values
// count from the end and bounds are clamped to the string.
func sliceRunes(s string, start int, end *int) string {
	runes := []rune(s)
	n := len(runes)
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return max(0, min(i, n))
	}
	from, to := clamp(start), n
	if end != nil {
		to = clamp(*end)
	}
	if from >= to {
		return ""
	}
	return string(runes[from:to])
}

// splitRow unpivots columns into rows holding the column name and its value.
// Rows are emitted column by column.
func (svc *PipelineService) splitRow(_ context.Context, b *Batch, p Params) (*Batch, error) {
	columns, err := p.Strings("columns")
	if err != nil {
		return nil, err
	}
	nameColumn, err := p.String("split_column_name")
	if err != nil {
		return nil, err
	}
	valueColumn, err := p.String("split_value_column_name")
	if err != nil {
		return nil, err
	}
	matched := b.Present(columns)
	if len(matched) == 0 {
		svc.log.Warn().Strs("columns", columns).Msg("No matching columns")
		return b, nil
	}

	var idColumns []string
	for _, c := range b.Columns {
		if !slices.Contains(matched, c) {
			idColumns = append(idColumns, c)
		}
	}
	out := &Batch{Columns: append(slices.Clone(idColumns), nameColumn, valueColumn)}
	for _, c := range matched {
		for _, r := range b.Rows {
			melted := make(Row, len(idColumns)+2)
			for _, id := range idColumns {
				melted[id] = r[id]
			}
			melted[nameColumn] = c
			melted[valueColumn] = r[c]
			out.Rows = append(out.Rows, melted)
		}
	}
	return out, nil
}
