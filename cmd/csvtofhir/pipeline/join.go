package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// JoinType is the relational join applied by join_data
type JoinType string

const (
	LeftJoin  JoinType = "left"
	InnerJoin JoinType = "inner"
	RightJoin JoinType = "right"
	OuterJoin JoinType = "outer"
)

// Secondary data source types of join_data
const (
	SourceCSV        = "csv"
	SourceFixedWidth = "fixed-width"
	SourceSQL        = "sql"
)

var ErrNoJoinSource = errors.New("no join source configured")

func (svc *PipelineService) joinData(ctx context.Context, b *Batch, p Params) (*Batch, error) {
	ref, err := p.String("secondary_data_source")
	if err != nil {
		return nil, err
	}
	how, err := p.String("join_type")
	if err != nil {
		return nil, err
	}
	on, err := p.String("join_on")
	if err != nil {
		return nil, err
	}
	sourceType, err := p.StringOr("source_type", SourceCSV)
	if err != nil {
		return nil, err
	}
	readerParams := map[string]any{}
	if p.has("reader_params") {
		if readerParams, err = p.Map("reader_params"); err != nil {
			return nil, err
		}
	}
	switch JoinType(strings.ToLower(how)) {
	case LeftJoin, InnerJoin, RightJoin, OuterJoin:
	default:
		return nil, fmt.Errorf("%w: unsupported join_type %q", ErrInvalidParam, how)
	}
	if svc.joins == nil {
		return nil, ErrNoJoinSource
	}

	right, err := svc.joins.LoadJoin(ctx, sourceType, ref, readerParams)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ref, err)
	}
	return Merge(b, right, JoinType(strings.ToLower(how)), on)
}

// Merge joins left and right on the column on. Other columns present on both
// sides are suffixed with _x and _y. Keys are compared as strings and null
// keys never match.
func Merge(left, right *Batch, how JoinType, on string) (*Batch, error) {
	if !left.Has(on) || !right.Has(on) {
		return nil, fmt.Errorf("join column %q missing", on)
	}

	leftNames := map[string]string{}
	rightNames := map[string]string{}
	out := &Batch{}
	for _, c := range left.Columns {
		name := c
		if c != on && right.Has(c) {
			name = c + "_x"
		}
		leftNames[c] = name
		out.Columns = append(out.Columns, name)
	}
	for _, c := range right.Columns {
		if c == on {
			continue
		}
		name := c
		if left.Has(c) {
			name = c + "_y"
		}
		rightNames[c] = name
		out.Columns = append(out.Columns, name)
	}

	index := map[string][]int{}
	for i, r := range right.Rows {
		if k, ok := cellString(r[on]); ok {
			index[k] = append(index[k], i)
		}
	}

	combine := func(l, r Row) Row {
		row := make(Row, len(out.Columns))
		for _, c := range out.Columns {
			row[c] = nil
		}
		if l != nil {
			for c, name := range leftNames {
				row[name] = l[c]
			}
		}
		if r != nil {
			for c, name := range rightNames {
				row[name] = r[c]
			}
			if l == nil {
				row[on] = r[on]
			}
		}
		return row
	}

	matchedRight := make([]bool, len(right.Rows))
	if how == RightJoin {
		leftIndex := map[string][]int{}
		for i, r := range left.Rows {
			if k, ok := cellString(r[on]); ok {
				leftIndex[k] = append(leftIndex[k], i)
			}
		}
		for _, r := range right.Rows {
			k, ok := cellString(r[on])
			if matches := leftIndex[k]; ok && len(matches) > 0 {
				for _, li := range matches {
					out.Rows = append(out.Rows, combine(left.Rows[li], r))
				}
				continue
			}
			out.Rows = append(out.Rows, combine(nil, r))
		}
		return out, nil
	}

	for _, l := range left.Rows {
		k, ok := cellString(l[on])
		matches := index[k]
		if !ok || len(matches) == 0 {
			if how != InnerJoin {
				out.Rows = append(out.Rows, combine(l, nil))
			}
			continue
		}
		for _, ri := range matches {
			matchedRight[ri] = true
			out.Rows = append(out.Rows, combine(l, right.Rows[ri]))
		}
	}
	if how == OuterJoin {
		for i, r := range right.Rows {
			if !matchedRight[i] {
				out.Rows = append(out.Rows, combine(nil, r))
			}
		}
	}
	return out, nil
}
