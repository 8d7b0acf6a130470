package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/config"
)

var envFile string

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}

// loadConfig reads the process configuration and builds the console logger
func loadConfig() (*config.ConverterConfig, zerolog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, newLogger(""), err
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "csvtofhir",
		Short:         "Convert delimited and fixed width healthcare data to FHIR resources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file loaded before reading configuration")
	root.AddCommand(newConvertCommand(), newValidateCommand(), newServeCommand())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		log := newLogger("")
		log.Fatal().Err(err).Msg("csvtofhir failed")
	}
}
