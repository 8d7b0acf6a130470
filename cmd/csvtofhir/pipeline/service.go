package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// JoinSource loads the secondary data of a join_data task
type JoinSource interface {
	LoadJoin(ctx context.Context, sourceType, ref string, readerParams map[string]any) (*Batch, error)
}

// PipelineService applies configured tasks to batches
type PipelineService struct {
	log     zerolog.Logger
	lookups *LookupRepository
	joins   JoinSource
	now     func() time.Time
	failed  atomic.Int64
}

// NewPipelineService creates a new PipelineService. joins may be nil when no
// contract uses join_data.
func NewPipelineService(lookups *LookupRepository, joins JoinSource, log zerolog.Logger) *PipelineService {
	if lookups == nil {
		lookups = NewLookupRepository(nil)
	}
	return &PipelineService{
		log:     log,
		lookups: lookups,
		joins:   joins,
		now:     time.Now,
	}
}

// Execute applies tasks in order. A failing task is logged and skipped, the
// batch it received is handed to the next task.
func (svc *PipelineService) Execute(ctx context.Context, tasks []Task, b *Batch) *Batch {
	for i, t := range tasks {
		out, err := svc.run(ctx, t, b)
		if err != nil {
			svc.failed.Add(1)
			svc.log.Error().
				Err(&TaskError{Task: t.Name, Index: i, Err: err}).
				Str("comment", t.Comment).
				Msg("Task failed, continuing with unmodified batch")
			continue
		}
		b = out
	}
	return b
}

// FailedTasks returns the number of task failures since the service was created
func (svc *PipelineService) FailedTasks() int64 {
	return svc.failed.Load()
}

func (svc *PipelineService) run(ctx context.Context, t Task, b *Batch) (out *Batch, err error) {
	spec, ok := registry[Kind(t.Name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, t.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	svc.log.Debug().Str("task", t.Name).Int("rows", b.Len()).Msg("Executing task")
	return spec.run(svc, ctx, b.Clone(), Params(t.Params))
}
