package pipeline

import (
	"github.com/spf13/cast"
	"golang.org/x/exp/slices"
)

// Row is one record of a Batch keyed by column name. Cells hold nil (null),
// string, []string (list columns), int, int64 or float64.
type Row map[string]any

// Batch is an ordered set of columns and the rows read for them
type Batch struct {
	Columns []string
	Rows    []Row
}

// NewBatch creates a batch with the given columns and rows
func NewBatch(columns []string, rows []Row) *Batch {
	return &Batch{Columns: columns, Rows: rows}
}

// Len returns the number of rows
func (b *Batch) Len() int {
	return len(b.Rows)
}

// Has reports whether column is part of the batch
func (b *Batch) Has(column string) bool {
	return slices.Contains(b.Columns, column)
}

// Present returns the columns of names that exist in the batch, in the order given
func (b *Batch) Present(names []string) []string {
	var out []string
	for _, n := range names {
		if b.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// AddColumn registers column. Existing rows are left untouched.
func (b *Batch) AddColumn(column string) {
	if !b.Has(column) {
		b.Columns = append(b.Columns, column)
	}
}

// SetColumn registers column and assigns the value returned by fn to every row
func (b *Batch) SetColumn(column string, fn func(r Row) any) {
	b.AddColumn(column)
	for _, r := range b.Rows {
		r[column] = fn(r)
	}
}

// Clone copies the column list and every row map. Cell values are shared,
// handlers replace list cells rather than mutating them.
func (b *Batch) Clone() *Batch {
	out := &Batch{
		Columns: append([]string(nil), b.Columns...),
		Rows:    make([]Row, len(b.Rows)),
	}
	for i, r := range b.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Clone returns a shallow copy of r
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Map exposes r as the plain map used by the converters
func (r Row) Map() map[string]any {
	return map[string]any(r)
}

// isNull reports whether a cell holds no value
func isNull(v any) bool {
	return v == nil
}

// cellString stringifies a scalar cell. ok is false for nulls.
func cellString(v any) (string, bool) {
	if isNull(v) {
		return "", false
	}
	if s, isStr := v.(string); isStr {
		return s, true
	}
	return cast.ToString(v), true
}

// cellList returns the entries of a list cell and whether v is one
func cellList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			if s, ok := cellString(e); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}
