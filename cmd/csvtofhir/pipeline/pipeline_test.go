package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirOpener string

func (d dirOpener) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), ref))
}

type joinFunc func(ctx context.Context, sourceType, ref string, readerParams map[string]any) (*Batch, error)

func (f joinFunc) LoadJoin(ctx context.Context, sourceType, ref string, readerParams map[string]any) (*Batch, error) {
	return f(ctx, sourceType, ref, readerParams)
}

func newTestService(t *testing.T) *PipelineService {
	t.Helper()
	return NewPipelineService(NewLookupRepository(dirOpener(t.TempDir())), nil, zerolog.Nop())
}

func writeTempFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func batchOf(columns []string, rows ...[]any) *Batch {
	b := NewBatch(columns, nil)
	for _, values := range rows {
		r := Row{}
		for i, c := range columns {
			r[c] = values[i]
		}
		b.Rows = append(b.Rows, r)
	}
	return b
}

func column(b *Batch, name string) []any {
	out := make([]any, 0, b.Len())
	for _, r := range b.Rows {
		out = append(out, r[name])
	}
	return out
}

func run(t *testing.T, svc *PipelineService, b *Batch, kind Kind, params map[string]any) *Batch {
	t.Helper()
	task := NewTask(kind, params)
	require.NoError(t, ValidateTask(task))
	return svc.Execute(context.Background(), []Task{task}, b)
}

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{"valid", NewTask(AddConstant, map[string]any{"name": "a", "value": "b"}), nil},
		{"optional omitted", NewTask(AddRowNum, nil), nil},
		{"unknown task", Task{Name: "drop_everything"}, ErrUnknownTask},
		{"missing required", NewTask(AddConstant, map[string]any{"name": "a"}), ErrTaskParams},
		{"unknown param", NewTask(RenameColumns, map[string]any{"column_map": map[string]any{}, "extra": 1}), ErrTaskParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTask(tt.task)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKindsAreRegistered(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 23)
	assert.Equal(t, AddConstant, kinds[0])
	for _, k := range kinds {
		_, ok := ParamSpecs(k)
		assert.True(t, ok, k)
	}
}

func TestExecuteSkipsFailingTasks(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"name"}, []any{"ABCDEF"})
	tasks := []Task{
		NewTask(AddConstant, map[string]any{"name": "x", "value": "1"}),
		NewTask(SplitColumn, map[string]any{"column_name": "name", "new_column_names": []string{"a", "b"}, "indices": []any{[]any{0, 2}}}),
		{Name: "unknown"},
		NewTask(RenameColumns, map[string]any{"column_map": map[string]any{"x": "y"}}),
	}

	out := svc.Execute(context.Background(), tasks, b)

	assert.Equal(t, []string{"name", "y"}, out.Columns)
	assert.Equal(t, "1", out.Rows[0]["y"])
	assert.False(t, out.Has("a"))
	assert.EqualValues(t, 2, svc.FailedTasks())
	assert.NotContains(t, b.Columns, "x", "input batch is not modified")
}

func TestAddRowNum(t *testing.T) {
	svc := newTestService(t)
	for _, start := range []int{1, 7, 1001} {
		b := batchOf([]string{"a"}, []any{"x"}, []any{"y"}, []any{"z"})
		out := run(t, svc, b, AddRowNum, map[string]any{"starting_index": start})
		assert.Equal(t, []any{start, start + 1, start + 2}, column(out, RowNumColumn))
	}
}

func TestTasksKeepRowCount(t *testing.T) {
	svc := newTestService(t)
	tasks := []Task{
		NewTask(AddConstant, map[string]any{"name": "c", "value": []string{"l1", "l2"}}),
		NewTask(CopyColumns, map[string]any{"columns": []string{"a", "b"}, "target_column": "ab"}),
		NewTask(FindNotNullValue, map[string]any{"columns": []string{"b", "a"}, "target_column": "first"}),
		NewTask(ChangeCase, map[string]any{"columns": []string{"a"}, "casing": "UPPER"}),
		NewTask(ConvertToList, map[string]any{"column": "b"}),
		NewTask(AppendList, map[string]any{"source_columns": []string{"b", "a"}, "target_column": "all"}),
		NewTask(SetNanToNone, nil),
	}
	b := batchOf([]string{"a", "b"}, []any{"x", "1, 2"}, []any{"y", nil})

	out := svc.Execute(context.Background(), tasks, b)

	require.Equal(t, 2, out.Len())
	assert.EqualValues(t, 0, svc.FailedTasks())
	assert.Equal(t, []any{"x 1, 2", "y "}, column(out, "ab"))
	assert.Equal(t, []any{"1, 2", "y"}, column(out, "first"))
	assert.Equal(t, []any{"X", "Y"}, column(out, "a"))
	assert.Equal(t, []any{[]string{"1", "2"}, nil}, column(out, "b"))
	assert.Equal(t, []any{[]string{"1", "2", "X"}, []string{"Y"}}, column(out, "all"))
	assert.Equal(t, []string{"l1", "l2"}, out.Rows[1]["c"])
}

func TestAddConstantExistingColumn(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"a"}, []any{"keep"})
	out := run(t, svc, b, AddConstant, map[string]any{"name": "a", "value": "new"})
	assert.Equal(t, []any{"keep"}, column(out, "a"))
}

func TestRenameAndWhitespace(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{" sex ", "dob"}, []any{"F", "2000-01-01"})
	out := svc.Execute(context.Background(), []Task{
		NewTask(RemoveWhitespaceFromColumns, nil),
		NewTask(RenameColumns, map[string]any{"column_map": map[string]any{"sex": "gender", "missing": "x"}}),
	}, b)
	assert.Equal(t, []string{"gender", "dob"}, out.Columns)
	assert.Equal(t, "F", out.Rows[0]["gender"])
}

func TestRenameColumnsAppliesAtOnce(t *testing.T) {
	tests := []struct {
		name      string
		columnMap map[string]any
		columns   []string
		row       Row
	}{
		{"chained", map[string]any{"a": "b", "b": "c"}, []string{"b", "c"}, Row{"b": "A", "c": "B"}},
		{"swap", map[string]any{"a": "b", "b": "a"}, []string{"b", "a"}, Row{"b": "A", "a": "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			b := batchOf([]string{"a", "b"}, []any{"A", "B"})
			out := run(t, svc, b, RenameColumns, map[string]any{"column_map": tt.columnMap})
			assert.Equal(t, tt.columns, out.Columns)
			assert.Equal(t, tt.row, out.Rows[0])
		})
	}
}

func TestRemoveWhitespaceKeepsFirstOnCollision(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"id", " id ", "name "}, []any{"1", "2", "x"})
	out := run(t, svc, b, RemoveWhitespaceFromColumns, nil)
	assert.Equal(t, []string{"id", "name"}, out.Columns)
	assert.Equal(t, Row{"id": "1", "name": "x"}, out.Rows[0])
}

func TestMapCodes(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "sex.csv", "\ufeffsource_value,target_value\nF,female\nM,male\nU,null\n")
	svc := NewPipelineService(NewLookupRepository(dirOpener(dir)), nil, zerolog.Nop())

	tests := []struct {
		name    string
		codeMap any
		want    []any
	}{
		{"inline with default", map[string]any{"F": "female", "default": "unknown"}, []any{"female", "unknown", "unknown", "unknown"}},
		{"inline without default", map[string]any{"F": "female"}, []any{"female", "X", "U", nil}},
		{"lookup file", "sex.csv", []any{"female", "X", nil, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := batchOf([]string{"sex"}, []any{"F"}, []any{"X"}, []any{"U"}, []any{nil})
			out := run(t, svc, b, MapCodes, map[string]any{"code_map": map[string]any{"sex": tt.codeMap}})
			assert.Equal(t, tt.want, column(out, "sex"))
		})
	}
}

func TestReadCodeMapRequiresColumns(t *testing.T) {
	_, err := ReadCodeMap(stringsReader("from,to\na,b\n"))
	assert.Error(t, err)
}

func TestConditionalColumns(t *testing.T) {
	svc := newTestService(t)
	condition := map[string]any{"asian": "2028-9", "white": "2106-3"}
	rows := func() *Batch {
		return batchOf([]string{"race", "code"}, []any{"asian", "old1"}, []any{"other", "old2"}, []any{nil, "old3"})
	}

	out := run(t, svc, rows(), ConditionalColumn, map[string]any{
		"source_column": "race", "condition_map": condition, "target_column": "raceCode"})
	assert.Equal(t, []any{"2028-9", "other", nil}, column(out, "raceCode"))

	out = run(t, svc, rows(), ConditionalColumnUpdate, map[string]any{
		"source_column": "race", "condition_map": condition, "target_column": "code"})
	assert.Equal(t, []any{"2028-9", "old2", "old3"}, column(out, "code"))

	out = run(t, svc, rows(), ConditionalColumn, map[string]any{
		"source_column": "missing", "condition_map": condition, "target_column": "raceCode"})
	assert.False(t, out.Has("raceCode"))
}

func TestConditionalColumnWithPrerequisite(t *testing.T) {
	svc := newTestService(t)
	condition := map[string]any{"1": "one", "default": "many"}
	rows := func() *Batch {
		return batchOf([]string{"src", "pre", "tgt"},
			[]any{"1", "LAB", "a"},
			[]any{"2", "LAB-X", "b"},
			[]any{"1", "VITAL", "c"},
			[]any{"1", nil, "d"},
			[]any{nil, "LAB", "e"},
		)
	}

	out := run(t, svc, rows(), ConditionalColumnWithPrerequisite, map[string]any{
		"source_column": "src", "condition_map": condition, "target_column": "tgt",
		"prerequisite_column": "pre", "prerequisite_match": "^LAB"})
	assert.Equal(t, []any{"one", "many", "c", "d", "e"}, column(out, "tgt"))

	out = run(t, svc, rows(), ConditionalColumnWithPrerequisite, map[string]any{
		"source_column": "src", "condition_map": condition, "target_column": "tgt",
		"prerequisite_column": "pre", "prerequisite_match": nil})
	assert.Equal(t, []any{"a", "b", "c", "one", "e"}, column(out, "tgt"))
}

func TestSplitRow(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"id", "height", "weight"}, []any{"p1", "180", "80"}, []any{"p2", "170", nil})

	out := run(t, svc, b, SplitRow, map[string]any{
		"columns": []string{"height", "weight", "bmi"}, "split_column_name": "code", "split_value_column_name": "value"})

	assert.Equal(t, []string{"id", "code", "value"}, out.Columns)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, []any{"p1", "p2", "p1", "p2"}, column(out, "id"))
	assert.Equal(t, []any{"height", "height", "weight", "weight"}, column(out, "code"))
	assert.Equal(t, []any{"180", "170", "80", nil}, column(out, "value"))
}

func TestSplitColumn(t *testing.T) {
	svc := newTestService(t)

	t.Run("delimiter pads with nulls", func(t *testing.T) {
		b := batchOf([]string{"v"}, []any{"a|b"}, []any{nil})
		out := run(t, svc, b, SplitColumn, map[string]any{
			"column_name": "v", "new_column_names": []string{"x", "y", "z"}, "delimiter": "|"})
		assert.Equal(t, []any{"a", nil}, column(out, "x"))
		assert.Equal(t, []any{"b", nil}, column(out, "y"))
		assert.Equal(t, []any{nil, nil}, column(out, "z"))
	})

	t.Run("indices", func(t *testing.T) {
		b := batchOf([]string{"v"}, []any{"ABCDEFG"}, []any{"AB"})
		out := run(t, svc, b, SplitColumn, map[string]any{
			"column_name": "v", "new_column_names": []string{"x", "y", "z"},
			"indices": []any{[]any{0, 3}, []any{3}, []any{-2}}})
		assert.Equal(t, []any{"ABC", "AB"}, column(out, "x"))
		assert.Equal(t, []any{"DEFG", ""}, column(out, "y"))
		assert.Equal(t, []any{"FG", "AB"}, column(out, "z"))
	})

	t.Run("existing column is refused", func(t *testing.T) {
		b := batchOf([]string{"v", "x"}, []any{"a|b", "keep"})
		out := run(t, svc, b, SplitColumn, map[string]any{
			"column_name": "v", "new_column_names": []string{"x", "y"}, "delimiter": "|"})
		assert.Equal(t, []any{"keep"}, column(out, "x"))
		assert.False(t, out.Has("y"))
	})
}

func TestFilterToColumns(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"code"}, []any{"A"}, []any{"C"}, []any{"D"})

	out := run(t, svc, b, FilterToColumns, map[string]any{
		"source_column":  "code",
		"target_columns": []string{"ab", "c", "rest"},
		"filters":        []any{[]any{"A", "B"}, []any{"C"}},
	})

	assert.Equal(t, []any{"A", nil, nil}, column(out, "ab"))
	assert.Equal(t, []any{nil, "C", nil}, column(out, "c"))
	assert.Equal(t, []any{nil, nil, "D"}, column(out, "rest"))

	out = run(t, svc, batchOf([]string{"code"}, []any{"A"}), FilterToColumns, map[string]any{
		"source_column": "code", "target_columns": []string{"a", "b", "c"}, "filters": []any{[]any{"A"}},
	})
	assert.False(t, out.Has("a"))
}

func TestReplaceText(t *testing.T) {
	svc := newTestService(t)
	tests := []struct {
		name        string
		value       any
		match       string
		replacement string
		options     string
		want        any
	}{
		{"literal anywhere", "a.b.c", ".", "-", "", "a-b-c"},
		{"begin", "Dr. Dr. Smith", "Dr. ", "", "BEGIN", "Dr. Smith"},
		{"end", "x-x", "x", "y", "END", "x-y"},
		{"begin and end", "abab", "ab", "", "BEGIN END", ""},
		{"case insensitive", "ABCabc", "abc", "x", "CASE_INSENSITIVE", "xx"},
		{"regex with groups", "12-34", `(\d+)-(\d+)`, `\2-\1`, "REGEX", "34-12"},
		{"list", []string{"a1", "None", "b1"}, "1", "", "", []string{"a", "b"}},
		{"null", nil, "a", "b", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := batchOf([]string{"v"}, []any{tt.value})
			out := run(t, svc, b, ReplaceText, map[string]any{
				"column_name": "v", "match": tt.match, "replacement": tt.replacement, "options": tt.options})
			assert.Equal(t, tt.want, out.Rows[0]["v"])
		})
	}
}

func TestChangeCaseAmbiguous(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"v"}, []any{"MiXed"})
	out := run(t, svc, b, ChangeCase, map[string]any{"columns": []string{"v"}, "casing": "UPPER LOWER"})
	assert.Equal(t, "MiXed", out.Rows[0]["v"])
}

func TestFormatDate(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"dob"}, []any{"03/04/2021"}, []any{nil})
	out := run(t, svc, b, FormatDate, map[string]any{"columns": []string{"dob"}, "date_format": "%Y%m%d"})
	assert.Equal(t, []any{"20210304", nil}, column(out, "dob"))

	out = run(t, svc, batchOf([]string{"dob"}, []any{"2020-01-01"}, []any{"not a date"}), FormatDate, map[string]any{"columns": []string{"dob"}})
	assert.Equal(t, []any{"2020-01-01", nil}, column(out, "dob"))
	assert.EqualValues(t, 0, svc.FailedTasks())
}

func TestCompareToDate(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2022, 6, 15, 23, 0, 0, 0, time.UTC) }
	rows := func() *Batch {
		return batchOf([]string{"d"}, []any{"2022-06-14"}, []any{"2022-06-15 08:00"}, []any{"2022-06-16"}, []any{nil})
	}

	tests := []struct {
		comparison string
		compare    any
		want       []any
	}{
		{"DATE_OR_BEFORE", nil, []any{"TRUE", "TRUE", "FALSE", "FALSE"}},
		{"LT", "TODAY", []any{"TRUE", "FALSE", "FALSE", "FALSE"}},
		{"EQUALS", nil, []any{"FALSE", "TRUE", "FALSE", "FALSE"}},
		{"NOT_EQUALS", nil, []any{"TRUE", "FALSE", "TRUE", "FALSE"}},
		{"GT", "2022-06-14", []any{"FALSE", "TRUE", "TRUE", "FALSE"}},
	}
	for _, tt := range tests {
		t.Run(tt.comparison, func(t *testing.T) {
			params := map[string]any{"column": "d", "target_column": "r", "comparison": tt.comparison}
			if tt.compare != nil {
				params["compare_date"] = tt.compare
			}
			out := run(t, svc, rows(), CompareToDate, params)
			assert.Equal(t, tt.want, column(out, "r"))
		})
	}
}

func TestCompareToDateUnparsableCell(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC) }
	b := batchOf([]string{"d"}, []any{"2020-01-01"}, []any{"not a date"})
	out := run(t, svc, b, CompareToDate, map[string]any{"column": "d", "target_column": "past", "true_string": "Y", "false_string": "N"})
	assert.Equal(t, []string{"d", "past"}, out.Columns)
	assert.Equal(t, []any{"Y", "N"}, column(out, "past"))
	assert.EqualValues(t, 0, svc.FailedTasks())
}

func TestAppendListDedupe(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"t", "s1", "s2"}, []any{[]string{"b", "a"}, "a", []string{"c", "b"}})
	out := run(t, svc, b, AppendList, map[string]any{
		"source_columns": []string{"s1", "s2", "missing"}, "target_column": "t", "discard_if_duplicate": true})
	assert.Equal(t, []string{"a", "b", "c"}, out.Rows[0]["t"])
}

func TestBuildObjectArray(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"start", "end"}, []any{"2020-01-01", nil})
	out := run(t, svc, b, BuildObjectArray, map[string]any{
		"entry_class":   "EncounterStatusHistoryEntry",
		"target_column": "history",
		"entries": []any{
			map[string]any{"status": "arrived", "start_time": "$start", "end_time": "$end"},
			map[string]any{"status": "finished", "start_time": "$end", "end_time": "2020-01-02"},
		},
	})
	assert.Equal(t, []string{"arrived^2020-01-01^", "finished^^2020-01-02"}, out.Rows[0]["history"])
}

func TestValidateValue(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"zip"}, []any{"12345"}, []any{"12a"}, []any{nil})
	out := run(t, svc, b, ValidateValue, map[string]any{
		"column_name": "zip", "regex": `^\d{5}$`, "no_match_replacement": "00000"})
	assert.Equal(t, []any{"12345", "00000", nil}, column(out, "zip"))
}

func TestJoinData(t *testing.T) {
	secondary := batchOf([]string{"mrn", "address", "name"}, []any{"1", "Main St", "R1"}, []any{"3", "Elm St", "R3"})
	var gotType, gotRef string
	svc := NewPipelineService(nil, joinFunc(func(_ context.Context, sourceType, ref string, _ map[string]any) (*Batch, error) {
		gotType, gotRef = sourceType, ref
		return secondary, nil
	}), zerolog.Nop())

	tests := []struct {
		how     JoinType
		mrns    []any
		address []any
	}{
		{LeftJoin, []any{"1", "2"}, []any{"Main St", nil}},
		{InnerJoin, []any{"1"}, []any{"Main St"}},
		{RightJoin, []any{"1", "3"}, []any{"Main St", "Elm St"}},
		{OuterJoin, []any{"1", "2", "3"}, []any{"Main St", nil, "Elm St"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.how), func(t *testing.T) {
			b := batchOf([]string{"mrn", "name"}, []any{"1", "L1"}, []any{"2", "L2"})
			out := run(t, svc, b, JoinData, map[string]any{
				"secondary_data_source": "addresses.csv", "join_type": string(tt.how), "join_on": "mrn"})
			assert.Equal(t, []string{"mrn", "name_x", "address", "name_y"}, out.Columns)
			assert.Equal(t, tt.mrns, column(out, "mrn"))
			assert.Equal(t, tt.address, column(out, "address"))
		})
	}
	assert.Equal(t, SourceCSV, gotType)
	assert.Equal(t, "addresses.csv", gotRef)
}

func TestJoinDataWithoutSource(t *testing.T) {
	svc := newTestService(t)
	b := batchOf([]string{"mrn"}, []any{"1"})
	out := run(t, svc, b, JoinData, map[string]any{"secondary_data_source": "x.csv", "join_type": "left", "join_on": "mrn"})
	assert.Equal(t, []string{"mrn"}, out.Columns)
	assert.EqualValues(t, 1, svc.FailedTasks())
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
