package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/config"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/datasource"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/fhir/converter"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/output"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/processor"
)

type convertOptions struct {
	file          string
	configDir     string
	baseDir       string
	outputDir     string
	transformOnly bool
	stopOnError   bool
}

func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a source file (-f) or a directory layout (-d) to FHIR resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (opts.file == "") == (opts.baseDir == "") {
				return errors.New("exactly one of -f or -d is required")
			}
			return runConvert(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "source file to convert")
	cmd.Flags().StringVarP(&opts.configDir, "config", "c", "", "directory containing the data contract")
	cmd.Flags().StringVarP(&opts.baseDir, "dir", "d", "", "base directory with input/ and config/ sub directories")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.transformOnly, "transform-only", false, "write the transformed rows as ndjson instead of FHIR resources")
	cmd.Flags().BoolVar(&opts.stopOnError, "stop-on-error", false, "stop a file at the first row that fails to convert")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runConvert(ctx context.Context, opts *convertOptions) error {
	startTime := time.Now()
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	var inputs []string
	switch {
	case opts.baseDir != "":
		cfg.MappingConfigDirectory = filepath.Join(opts.baseDir, "config")
		if inputs, err = listInputs(filepath.Join(opts.baseDir, "input")); err != nil {
			return err
		}
	default:
		if opts.configDir != "" {
			cfg.MappingConfigDirectory = opts.configDir
		}
		inputs = []string{opts.file}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	om, err := output.NewOutputManager(opts.outputDir, os.Stdout, level)
	if err != nil {
		return err
	}
	defer om.Close()
	log := om.GetLogger()

	svc, closeFn, err := newProcessor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	files := processor.FilterFiles(svc.Contract(), inputs)
	log.Info().
		Str("config", cfg.MappingConfigDirectory).
		Str("output", opts.outputDir).
		Int("files", len(files)).
		Msg("Processing files")
	if len(files) == 0 {
		log.Warn().Strs("inputs", inputs).Msg("No file matched a file definition")
	}

	for _, file := range files {
		if err := convertFile(ctx, svc, om, file, opts, log); err != nil {
			return err
		}
	}

	log.Info().Dur("duration", time.Since(startTime)).Msg("Processing complete")
	return nil
}

func convertFile(ctx context.Context, svc *processor.ProcessorService, om *output.OutputManager, file string, opts *convertOptions, log zerolog.Logger) error {
	write := om.WriteResult
	if opts.transformOnly {
		w, err := om.NewNDJSONWriter(file)
		if err != nil {
			return err
		}
		defer w.Close()
		write = w.WriteResult
	}

	failed := 0
	err := svc.ProcessFile(ctx, file, opts.transformOnly, func(res processor.Result) error {
		if res.Err != nil {
			failed++
			log.Error().
				Err(res.Err).
				Str("groupByKey", res.GroupByKey).
				Str("file", file).
				Msg("Error processing row")
			if opts.stopOnError {
				return res.Err
			}
			return nil
		}
		return write(res)
	})
	if errors.Is(err, processor.ErrStopped) && opts.stopOnError {
		log.Warn().Str("file", file).Msg("Stopped processing file")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", file, err)
	}
	if failed > 0 {
		log.Warn().Str("file", file).Int("failedRows", failed).Msg("Completed with row errors")
	}
	return nil
}

// newProcessor loads the data contract and wires the services converting with it
func newProcessor(ctx context.Context, cfg *config.ConverterConfig, log zerolog.Logger) (*processor.ProcessorService, func(), error) {
	fetcher := contract.NewFetcher(cfg.MappingConfigDirectory, log)
	dc, err := contract.NewContractService(fetcher, log).Load(ctx, cfg.MappingConfigFileName)
	if err != nil {
		return nil, nil, err
	}

	sql := datasource.NewDataSourceService(fetcher, log)
	joins := processor.NewJoinService(fetcher, sql, log)
	pipelineSvc := pipeline.NewPipelineService(pipeline.NewLookupRepository(fetcher), joins, log)
	svc, err := processor.NewProcessorService(processor.ProcessorConfig{
		Log:          log,
		Config:       *cfg,
		Contract:     dc,
		PipelineSvc:  pipelineSvc,
		ConverterSvc: converter.NewConverterService(log),
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, func() { _ = sql.Close() }, nil
}

// listInputs returns the files of dir, skipping hidden files
func listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}
	return files, nil
}
