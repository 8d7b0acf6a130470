package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/api"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversion and contract validation over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := newProcessor(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			contracts := contract.NewContractService(contract.NewFetcher(cfg.MappingConfigDirectory, log), log)
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(svc, contracts, log).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Info().Str("addr", addr).Str("contract", cfg.ConfigurationPath()).Msg("Server started")
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
