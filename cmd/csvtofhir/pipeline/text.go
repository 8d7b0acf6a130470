package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/exp/slices"
)

// replaceText substitutes match in column_name. Without the REGEX option
// match is literal and BEGIN, END and CASE_INSENSITIVE compose the pattern.
func (svc *PipelineService) replaceText(_ context.Context, b *Batch, p Params) (*Batch, error) {
	column, err := p.String("column_name")
	if err != nil {
		return nil, err
	}
	match, err := p.String("match")
	if err != nil {
		return nil, err
	}
	replacement, err := p.String("replacement")
	if err != nil {
		return nil, err
	}
	options, err := p.StringOr("options", "")
	if err != nil {
		return nil, err
	}
	patterns, literal := replacePatterns(match, strings.ToUpper(options))
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("%w: match: %v", ErrInvalidParam, err)
		}
		res = append(res, re)
	}
	if !literal {
		replacement = goReplacement(replacement)
	}
	replace := func(s string) string {
		for _, re := range res {
			if literal {
				s = re.ReplaceAllLiteralString(s, replacement)
			} else {
				s = re.ReplaceAllString(s, replacement)
			}
		}
		return s
	}
	if !b.Has(column) {
		return b, nil
	}

	for _, r := range b.Rows {
		if list, ok := cellList(r[column]); ok {
			out := make([]string, 0, len(list))
			for _, v := range list {
				if v == "None" {
					continue
				}
				out = append(out, replace(v))
			}
			r[column] = out
			continue
		}
		if s, ok := cellString(r[column]); ok {
			r[column] = replace(s)
		}
	}
	return b, nil
}

// replacePatterns returns the expressions applied in order and whether the
// replacement is literal
func replacePatterns(match, options string) ([]string, bool) {
	if strings.Contains(options, "REGEX") {
		return []string{match}, false
	}
	flags := ""
	if strings.Contains(options, "CASE_INSENSITIVE") {
		flags = "(?i)"
	}
	quoted := regexp.QuoteMeta(match)
	begin := strings.Contains(options, "BEGIN")
	end := strings.Contains(options, "END")
	switch {
	case begin && end:
		return []string{flags + quoted + "$", flags + "^" + quoted}, true
	case begin:
		return []string{flags + "^" + quoted}, true
	case end:
		return []string{flags + quoted + "$"}, true
	}
	return []string{flags + quoted}, true
}

var backReference = regexp.MustCompile(`\\(\d+)`)

// goReplacement rewrites \1 style group references to ${1}
func goReplacement(s string) string {
	return backReference.ReplaceAllString(s, "$${$1}")
}

func (svc *PipelineService) changeCase(_ context.Context, b *Batch, p Params) (*Batch, error) {
	columns, err := p.Strings("columns")
	if err != nil {
		return nil, err
	}
	casing, err := p.StringOr("casing", "")
	if err != nil {
		return nil, err
	}
	upper := strings.Contains(strings.ToUpper(casing), "UPPER")
	lower := strings.Contains(strings.ToUpper(casing), "LOWER")
	if upper == lower {
		svc.log.Warn().Str("casing", casing).Msg("No changes because of casing parameters")
		return b, nil
	}
	fn := strings.ToLower
	if upper {
		fn = strings.ToUpper
	}
	matched := b.Present(columns)
	if len(matched) == 0 {
		svc.log.Warn().Strs("columns", columns).Msg("No matching columns")
	}
	for _, c := range matched {
		for _, r := range b.Rows {
			if s, ok := r[c].(string); ok {
				r[c] = fn(s)
			}
		}
	}
	return b, nil
}

func (svc *PipelineService) formatDate(_ context.Context, b *Batch, p Params) (*Batch, error) {
	columns, err := p.Strings("columns")
	if err != nil {
		return nil, err
	}
	format, err := p.StringOr("date_format", "%Y-%m-%d")
	if err != nil {
		return nil, err
	}
	layout := strftimeLayout(format)
	matched := b.Present(columns)
	if len(matched) == 0 {
		svc.log.Warn().Strs("columns", columns).Msg("No matching columns")
	}
	for _, c := range matched {
		for _, r := range b.Rows {
			s, ok := cellString(r[c])
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			t, err := dateparse.ParseAny(s)
			if err != nil {
				svc.log.Warn().Err(err).Str("column", c).Str("value", s).Msg("Unable to parse date")
				r[c] = nil
				continue
			}
			r[c] = t.Format(layout)
		}
	}
	return b, nil
}

var strftimeDirectives = map[byte]string{
	'Y': "2006", 'y': "06", 'm': "01", 'd': "02", 'H': "15", 'I': "03",
	'M': "04", 'S': "05", 'p': "PM", 'b': "Jan", 'B': "January",
	'a': "Mon", 'A': "Monday", 'j': "002", 'z': "-0700", 'Z': "MST",
	'f': "000000", '%': "%",
}

// strftimeLayout converts a strftime format to a time layout. Unknown
// directives are copied verbatim.
func strftimeLayout(format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			if layout, ok := strftimeDirectives[format[i+1]]; ok {
				sb.WriteString(layout)
				i++
				continue
			}
		}
		sb.WriteByte(format[i])
	}
	return sb.String()
}

type dateComparison func(a, b int) bool

var dateComparisons = map[string]dateComparison{
	"DATE_OR_BEFORE": func(a, b int) bool { return a <= b },
	"LE":             func(a, b int) bool { return a <= b },
	"BEFORE_DATE":    func(a, b int) bool { return a < b },
	"LT":             func(a, b int) bool { return a < b },
	"EQUALS":         func(a, b int) bool { return a == b },
	"EQUAL":          func(a, b int) bool { return a == b },
	"EQ":             func(a, b int) bool { return a == b },
	"DATE_OR_AFTER":  func(a, b int) bool { return a >= b },
	"GE":             func(a, b int) bool { return a >= b },
	"AFTER_DATE":     func(a, b int) bool { return a > b },
	"GT":             func(a, b int) bool { return a > b },
	"NOT_EQUALS":     func(a, b int) bool { return a != b },
	"NOT_EQUAL":      func(a, b int) bool { return a != b },
	"NE":             func(a, b int) bool { return a != b },
}

// civilDay encodes the calendar day of t as yyyymmdd
func civilDay(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// compareToDate writes true_string or false_string to target_column
// depending on how the date in column compares to compare_date. Empty and
// unparsable dates compare false.
func (svc *PipelineService) compareToDate(_ context.Context, b *Batch, p Params) (*Batch, error) {
	column, err := p.String("column")
	if err != nil {
		return nil, err
	}
	target, err := p.String("target_column")
	if err != nil {
		return nil, err
	}
	compareDate, err := p.StringOr("compare_date", "TODAY")
	if err != nil {
		return nil, err
	}
	comparison, err := p.StringOr("comparison", "DATE_OR_BEFORE")
	if err != nil {
		return nil, err
	}
	trueString, err := p.StringOr("true_string", "TRUE")
	if err != nil {
		return nil, err
	}
	falseString, err := p.StringOr("false_string", "FALSE")
	if err != nil {
		return nil, err
	}

	cmp, ok := dateComparisons[strings.ToUpper(strings.TrimSpace(comparison))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown comparison %q", ErrInvalidParam, comparison)
	}
	anchor := svc.now()
	if !strings.Contains(strings.ToUpper(compareDate), "TODAY") {
		if anchor, err = dateparse.ParseAny(compareDate); err != nil {
			return nil, fmt.Errorf("%w: compare_date: %v", ErrInvalidParam, err)
		}
	}
	anchorDay := civilDay(anchor)

	values := make([]any, b.Len())
	for i, r := range b.Rows {
		values[i] = falseString
		s, ok := cellString(r[column])
		if !ok || s == "" {
			continue
		}
		t, err := dateparse.ParseAny(s)
		if err != nil {
			svc.log.Warn().Err(err).Str("column", column).Str("value", s).Msg("Unable to parse date")
			continue
		}
		if cmp(civilDay(t), anchorDay) {
			values[i] = trueString
		}
	}
	b.AddColumn(target)
	for i, r := range b.Rows {
		r[target] = values[i]
	}
	return b, nil
}

// convertToList splits column on separator and trims every entry. An empty
// separator wraps the value in a single entry list.
func (svc *PipelineService) convertToList(_ context.Context, b *Batch, p Params) (*Batch, error) {
	column, err := p.String("column")
	if err != nil {
		return nil, err
	}
	sep, err := p.StringOr("separator", ",")
	if err != nil {
		return nil, err
	}
	if !b.Has(column) {
		return b, nil
	}
	for _, r := range b.Rows {
		if _, isList := cellList(r[column]); isList {
			continue
		}
		s, ok := cellString(r[column])
		if !ok {
			continue
		}
		if sep == "" {
			r[column] = []string{s}
			continue
		}
		parts := strings.Split(s, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		r[column] = parts
	}
	return b, nil
}

// appendList merges the target list and every source value or list into a
// sorted list, dropping nulls and optionally duplicates.
func (svc *PipelineService) appendList(_ context.Context, b *Batch, p Params) (*Batch, error) {
	sources, err := p.Strings("source_columns")
	if err != nil {
		return nil, err
	}
	target, err := p.String("target_column")
	if err != nil {
		return nil, err
	}
	dedupe, err := p.BoolOr("discard_if_duplicate", false)
	if err != nil {
		return nil, err
	}
	b.SetColumn(target, func(r Row) any {
		var merged []string
		for _, c := range append([]string{target}, sources...) {
			if list, ok := cellList(r[c]); ok {
				merged = append(merged, list...)
			} else if s, ok := cellString(r[c]); ok {
				merged = append(merged, s)
			}
		}
		sort.Strings(merged)
		if dedupe {
			merged = slices.Compact(merged)
		}
		if merged == nil {
			merged = []string{}
		}
		return merged
	})
	return b, nil
}

// entryClasses lists the ordered fields of the caret delimited entries
// built by build_object_array
var entryClasses = map[string][]string{
	"EncounterStatusHistoryEntry": {"status", "start_time", "end_time"},
	"IdentifierDetails":           {"name", "value", "system"},
}

// buildObjectArray replaces target_column with one caret delimited string
// per entry. "$column" values are read from the row, nulls render empty.
func (svc *PipelineService) buildObjectArray(_ context.Context, b *Batch, p Params) (*Batch, error) {
	class, err := p.String("entry_class")
	if err != nil {
		return nil, err
	}
	target, err := p.String("target_column")
	if err != nil {
		return nil, err
	}
	entries, err := p.Maps("entries")
	if err != nil {
		return nil, err
	}
	fields, ok := entryClasses[class]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entry_class %q", ErrInvalidParam, class)
	}

	b.SetColumn(target, func(r Row) any {
		out := make([]string, 0, len(entries))
		for _, entry := range entries {
			parts := make([]string, len(fields))
			for i, f := range fields {
				v, _ := cellString(entry[f])
				if name, isVar := strings.CutPrefix(v, "$"); isVar && name != "" {
					v, _ = cellString(r[name])
				}
				parts[i] = v
			}
			out = append(out, strings.Join(parts, "^"))
		}
		return out
	})
	return b, nil
}
