package pipeline

import (
	"errors"
	"fmt"
)

// Kind names a registered task
type Kind string

const (
	AddConstant                       Kind = "add_constant"
	AddRowNum                         Kind = "add_row_num"
	AppendList                        Kind = "append_list"
	BuildObjectArray                  Kind = "build_object_array"
	ChangeCase                        Kind = "change_case"
	CompareToDate                     Kind = "compare_to_date"
	ConditionalColumn                 Kind = "conditional_column"
	ConditionalColumnUpdate           Kind = "conditional_column_update"
	ConditionalColumnWithPrerequisite Kind = "conditional_column_with_prerequisite"
	ConvertToList                     Kind = "convert_to_list"
	CopyColumns                       Kind = "copy_columns"
	FilterToColumns                   Kind = "filter_to_columns"
	FindNotNullValue                  Kind = "find_not_null_value"
	FormatDate                        Kind = "format_date"
	JoinData                          Kind = "join_data"
	MapCodes                          Kind = "map_codes"
	RemoveWhitespaceFromColumns       Kind = "remove_whitespace_from_columns"
	RenameColumns                     Kind = "rename_columns"
	ReplaceText                       Kind = "replace_text"
	SetNanToNone                      Kind = "set_nan_to_none"
	SplitColumn                       Kind = "split_column"
	SplitRow                          Kind = "split_row"
	ValidateValue                     Kind = "validate_value"
)

// Task is one configured transformation step of a FileDefinition
type Task struct {
	Name    string         `json:"name" yaml:"name" validate:"required"`
	Comment string         `json:"comment,omitempty" yaml:"comment,omitempty"`
	Params  map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// NewTask creates a task from a kind and its parameters
func NewTask(kind Kind, params map[string]any) Task {
	return Task{Name: string(kind), Params: params}
}

var (
	ErrUnknownTask  = errors.New("unknown task")
	ErrTaskParams   = errors.New("invalid task parameters")
	ErrInvalidParam = errors.New("invalid parameter value")
)

// TaskError reports the failure of a single task while executing a batch
type TaskError struct {
	Task  string
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d (%s) failed: %v", e.Index, e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
