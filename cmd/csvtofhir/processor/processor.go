package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"golang.org/x/exp/slices"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/config"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/converter"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/reader"
	"github.com/LinuxForHealth/CsvToFHIR/models/fhir"
)

// Columns added to every row before the contract tasks run
const (
	GroupByKeyColumn   = "groupByKey"
	FilePathColumn     = "filePath"
	ResourceTypeColumn = converter.ConfigResourceTypeField
)

// ErrStopped is returned when a Handler stops the iteration
var ErrStopped = errors.New("processing stopped")

// Result is the outcome of one source row. In transform-only mode Resources
// holds the normalized row encoded as JSON.
type Result struct {
	Err        error
	GroupByKey string
	RowNum     int
	Resources  []string
}

// Handler receives results in row order. Returning an error stops processing.
type Handler func(Result) error

// ProcessorService converts source files with the definitions of a DataContract
type ProcessorService struct {
	cfg       config.ConverterConfig
	contract  *contract.DataContract
	pipeline  *pipeline.PipelineService
	converter *converter.ConverterService
	now       func() time.Time
	log       zerolog.Logger
}

// ProcessorConfig holds all the configuration needed to create a new processor
type ProcessorConfig struct {
	Log          zerolog.Logger
	Config       config.ConverterConfig
	Contract     *contract.DataContract
	PipelineSvc  *pipeline.PipelineService
	ConverterSvc *converter.ConverterService
}

// NewProcessorService creates a new processor service with all required dependencies
func NewProcessorService(cfg ProcessorConfig) (*ProcessorService, error) {
	if cfg.Contract == nil {
		return nil, fmt.Errorf("contract is required")
	}
	if cfg.PipelineSvc == nil {
		return nil, fmt.Errorf("pipelineSvc is required")
	}
	if cfg.ConverterSvc == nil {
		return nil, fmt.Errorf("converterSvc is required")
	}
	return &ProcessorService{
		cfg:       cfg.Config,
		contract:  cfg.Contract,
		pipeline:  cfg.PipelineSvc,
		converter: cfg.ConverterSvc,
		now:       time.Now,
		log:       cfg.Log,
	}, nil
}

// Contract returns the contract the service converts with
func (svc *ProcessorService) Contract() *contract.DataContract {
	return svc.contract
}

// ProcessFile opens filePath and processes it, see Process
func (svc *ProcessorService) ProcessFile(ctx context.Context, filePath string, transformOnly bool, handle Handler) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()
	return svc.Process(ctx, filePath, file, transformOnly, handle)
}

// Process reads r chunk by chunk, runs the pipeline and hands one Result per
// row to handle. Row failures are reported through Result.Err and do not stop
// processing. A contract without a definition for filePath returns an error
// matching contract.ErrDefinitionLookup before anything is read.
func (svc *ProcessorService) Process(ctx context.Context, filePath string, r io.Reader, transformOnly bool, handle Handler) error {
	named, err := svc.contract.FindDefinition(filePath)
	if err != nil {
		return err
	}
	if matches := svc.contract.MatchingDefinitions(filePath); len(matches) > 1 {
		svc.log.Warn().
			Str("file", filePath).
			Int("matches", len(matches)).
			Str("definition", named.Key).
			Msg("File matches several definitions, using the first one")
	}
	def := named.Definition

	cr, err := reader.NewChunkReader(r, reader.OptionsFor(svc.contract.General, def, svc.cfg.CSVBufferSize))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	tasks := DefaultTasks(svc.contract.General, def, filePath)
	rowNumParams := tasks[0].Params
	meta := converter.NewMeta(filepath.Base(filePath), def.ResourceType, svc.contract.General.TenantID, svc.now())
	failedBefore := svc.pipeline.FailedTasks()

	svc.log.Info().
		Str("file", filePath).
		Str("definition", named.Key).
		Str("resourceType", def.ResourceType).
		Msg("Processing file")

	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		out := svc.pipeline.Execute(ctx, tasks, chunk)
		next := cast.ToInt(rowNumParams["starting_index"]) + chunk.Len()
		for _, row := range out.Rows {
			rowNum := cast.ToInt(row[pipeline.RowNumColumn])
			if rowNum >= next {
				next = rowNum + 1
			}
			res := svc.processRow(row, rowNum, meta, transformOnly)
			rows++
			if err := handle(res); err != nil {
				return fmt.Errorf("%w: %w", ErrStopped, err)
			}
		}
		rowNumParams["starting_index"] = next
	}

	failed := svc.pipeline.FailedTasks() - failedBefore
	event := svc.log.Info()
	if failed > 0 {
		event = svc.log.Warn()
	}
	event.
		Str("file", filePath).
		Int("rows", rows).
		Int64("failedTasks", failed).
		Msg("Completed processing file")
	return nil
}

func (svc *ProcessorService) processRow(row pipeline.Row, rowNum int, meta *fhir.Meta, transformOnly bool) (res Result) {
	res = Result{GroupByKey: cast.ToString(row[GroupByKeyColumn]), RowNum: rowNum}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic converting row %d: %v", rowNum, r)
			res.Resources = nil
			svc.log.Error().Err(res.Err).Str("groupByKey", res.GroupByKey).Msg("Unable to convert row")
		}
	}()

	if transformOnly {
		b, err := json.Marshal(row.Map())
		if err != nil {
			res.Err = fmt.Errorf("failed to encode row %d: %w", rowNum, err)
			return res
		}
		res.Resources = []string{string(b)}
		return res
	}

	svc.log.Debug().Int("row", rowNum).Msg("Converting row")
	res.Resources, res.Err = svc.converter.Convert(res.GroupByKey, row.Map(), converter.WithRowNum(meta, rowNum))
	if res.Err != nil {
		res.Resources = []string{}
		svc.log.Error().
			Err(res.Err).
			Int("row", rowNum).
			Str("groupByKey", res.GroupByKey).
			Msg("Unable to convert row")
		return res
	}
	svc.log.Debug().Int("row", rowNum).Int("resources", len(res.Resources)).Msg("Finished converting row")
	return res
}

// DefaultTasks returns the tasks run before the contract tasks of def,
// followed by those tasks. The first task is always add_row_num.
func DefaultTasks(general contract.General, def *contract.FileDefinition, filePath string) []pipeline.Task {
	tasks := []pipeline.Task{
		pipeline.NewTask(pipeline.AddRowNum, map[string]any{"starting_index": 1}),
		pipeline.NewTask(pipeline.SetNanToNone, nil),
		pipeline.NewTask(pipeline.RemoveWhitespaceFromColumns, nil),
		pipeline.NewTask(pipeline.CopyColumns, map[string]any{
			"columns":       []string{def.GroupByKey},
			"target_column": GroupByKeyColumn,
		}),
	}
	constant := func(name string, value any) {
		tasks = append(tasks, pipeline.NewTask(pipeline.AddConstant, map[string]any{"name": name, "value": value}))
	}
	constant("timeZone", general.TimeZone)
	constant("tenantId", general.TenantID)
	if general.AssigningAuthority != "" {
		constant("assigningAuthority", general.AssigningAuthority)
	}
	if general.StreamType != "" {
		constant("streamType", general.StreamType)
	}
	if len(general.EmptyFieldValues) > 0 {
		constant("emptyFieldValues", general.EmptyFieldValues)
	}
	if general.RegexFilenames {
		constant("regexFilenames", true)
	}
	constant(FilePathColumn, filePath)
	constant(ResourceTypeColumn, def.ResourceType)
	return append(tasks, def.Tasks...)
}

// FilterFiles returns the files of paths matched by a definition of dc, sorted
func FilterFiles(dc *contract.DataContract, paths []string) []string {
	var matched []string
	for _, p := range paths {
		if len(dc.MatchingDefinitions(p)) > 0 && !slices.Contains(matched, p) {
			matched = append(matched, p)
		}
	}
	slices.Sort(matched)
	return matched
}
