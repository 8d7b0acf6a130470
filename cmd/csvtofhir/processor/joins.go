package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/datasource"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/reader"
)

// JoinService loads the secondary data of join_data tasks from files and
// SQL queries
type JoinService struct {
	files pipeline.Opener
	sql   *datasource.DataSourceService
	log   zerolog.Logger
}

// NewJoinService creates a new JoinService. sql may be nil when no contract
// joins against a database.
func NewJoinService(files pipeline.Opener, sql *datasource.DataSourceService, log zerolog.Logger) *JoinService {
	return &JoinService{files: files, sql: sql, log: log}
}

// LoadJoin implements pipeline.JoinSource
func (svc *JoinService) LoadJoin(ctx context.Context, sourceType, ref string, readerParams map[string]any) (*pipeline.Batch, error) {
	switch sourceType {
	case pipeline.SourceSQL:
		if svc.sql == nil {
			return nil, fmt.Errorf("%w: sql", pipeline.ErrNoJoinSource)
		}
		return svc.sql.LoadJoin(ctx, ref, readerParams)
	case pipeline.SourceCSV, pipeline.SourceFixedWidth:
	default:
		return nil, fmt.Errorf("unsupported source_type %q", sourceType)
	}

	opts, err := joinOptions(sourceType, pipeline.Params(readerParams))
	if err != nil {
		return nil, err
	}
	file, err := svc.files.Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open join source: %w", err)
	}
	defer file.Close()

	b, err := reader.ReadAll(file, opts)
	if err != nil {
		return nil, err
	}
	svc.log.Debug().
		Str("source", ref).
		Int("rows", b.Len()).
		Msg("Loaded join source")
	return b, nil
}

// joinOptions maps reader_params onto reader options. Join data is always
// read as strings.
func joinOptions(sourceType string, p pipeline.Params) (reader.Options, error) {
	opts := reader.Options{FixedWidth: sourceType == pipeline.SourceFixedWidth, ConvertToString: true}
	var err error
	if opts.Delimiter, err = p.StringOr("delimiter", ","); err != nil {
		return opts, err
	}
	if opts.Names, err = p.Strings("names"); err != nil {
		return opts, err
	}
	if opts.Widths, err = p.Ints("widths"); err != nil {
		return opts, err
	}
	if opts.SkipLeading, err = p.IntOr("skiprows", 0); err != nil {
		return opts, err
	}
	na, err := p.Strings("na_values")
	if err != nil {
		return opts, err
	}
	opts.NAValues = append(append([]string(nil), reader.DefaultNAValues...), na...)
	return opts, nil
}
