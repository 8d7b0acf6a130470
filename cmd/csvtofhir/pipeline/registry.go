package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"
)

// ParamSpec declares one parameter accepted by a task
type ParamSpec struct {
	Name     string
	Required bool
}

type handlerFunc func(svc *PipelineService, ctx context.Context, b *Batch, p Params) (*Batch, error)

type taskSpec struct {
	params []ParamSpec
	run    handlerFunc
}

func required(names ...string) []ParamSpec {
	out := make([]ParamSpec, 0, len(names))
	for _, n := range names {
		out = append(out, ParamSpec{Name: n, Required: true})
	}
	return out
}

func optional(names ...string) []ParamSpec {
	out := make([]ParamSpec, 0, len(names))
	for _, n := range names {
		out = append(out, ParamSpec{Name: n})
	}
	return out
}

func params(groups ...[]ParamSpec) []ParamSpec {
	var out []ParamSpec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var registry = map[Kind]taskSpec{
	AddConstant: {required("name", "value"), (*PipelineService).addConstant},
	AddRowNum:   {optional("starting_index"), (*PipelineService).addRowNum},
	AppendList: {params(required("source_columns", "target_column"), optional("discard_if_duplicate")),
		(*PipelineService).appendList},
	BuildObjectArray: {required("entry_class", "target_column", "entries"), (*PipelineService).buildObjectArray},
	ChangeCase:       {required("columns", "casing"), (*PipelineService).changeCase},
	CompareToDate: {params(required("column", "target_column"),
		optional("compare_date", "comparison", "true_string", "false_string")), (*PipelineService).compareToDate},
	ConditionalColumn:       {required("source_column", "condition_map", "target_column"), (*PipelineService).conditionalColumn},
	ConditionalColumnUpdate: {required("source_column", "condition_map", "target_column"), (*PipelineService).conditionalColumnUpdate},
	ConditionalColumnWithPrerequisite: {params(required("source_column", "condition_map", "target_column", "prerequisite_column"),
		optional("prerequisite_match")), (*PipelineService).conditionalColumnWithPrerequisite},
	ConvertToList:               {params(required("column"), optional("separator")), (*PipelineService).convertToList},
	CopyColumns:                 {params(required("columns", "target_column"), optional("value_separator")), (*PipelineService).copyColumns},
	FilterToColumns:             {required("source_column", "target_columns", "filters"), (*PipelineService).filterToColumns},
	FindNotNullValue:            {required("columns", "target_column"), (*PipelineService).findNotNullValue},
	FormatDate:                  {params(required("columns"), optional("date_format")), (*PipelineService).formatDate},
	JoinData:                    {params(required("secondary_data_source", "join_type", "join_on"), optional("source_type", "reader_params")), (*PipelineService).joinData},
	MapCodes:                    {required("code_map"), (*PipelineService).mapCodes},
	RemoveWhitespaceFromColumns: {nil, (*PipelineService).removeWhitespaceFromColumns},
	RenameColumns:               {required("column_map"), (*PipelineService).renameColumns},
	ReplaceText:                 {params(required("column_name", "match", "replacement"), optional("options")), (*PipelineService).replaceText},
	SetNanToNone:                {nil, (*PipelineService).setNanToNone},
	SplitColumn:                 {params(required("column_name", "new_column_names"), optional("delimiter", "indices")), (*PipelineService).splitColumn},
	SplitRow:                    {required("columns", "split_column_name", "split_value_column_name"), (*PipelineService).splitRow},
	ValidateValue:               {params(required("column_name", "regex"), optional("no_match_replacement")), (*PipelineService).validateValue},
}

// Kinds lists every registered task in alphabetical order
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// ParamSpecs returns the parameters declared by a task
func ParamSpecs(kind Kind) ([]ParamSpec, bool) {
	spec, ok := registry[kind]
	return spec.params, ok
}

// ValidateTask checks that the task exists, that every required parameter
// is given and that no unknown parameter is passed.
func ValidateTask(t Task) error {
	spec, ok := registry[Kind(t.Name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, t.Name)
	}
	for _, ps := range spec.params {
		if _, given := t.Params[ps.Name]; ps.Required && !given {
			return fmt.Errorf("%w: %s requires %q", ErrTaskParams, t.Name, ps.Name)
		}
	}
	for name := range t.Params {
		if !slices.ContainsFunc(spec.params, func(ps ParamSpec) bool { return ps.Name == name }) {
			return fmt.Errorf("%w: %s does not accept %q", ErrTaskParams, t.Name, name)
		}
	}
	return nil
}
