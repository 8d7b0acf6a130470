package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
)

func newValidateCommand() *cobra.Command {
	var contractPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a data contract and report every problem",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, err := loadConfig()
			if err != nil {
				return err
			}
			fetcher := contract.NewFetcher(filepath.Dir(contractPath), log)
			dc, err := contract.NewContractService(fetcher, log).Load(cmd.Context(), filepath.Base(contractPath))
			var verr *contract.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintln(os.Stderr, p)
				}
				return fmt.Errorf("%d problem(s) found in %s", len(verr.Problems), contractPath)
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s is valid: %d file definition(s)\n", contractPath, len(dc.FileDefinitions))
			return nil
		},
	}
	cmd.Flags().StringVarP(&contractPath, "contract", "c", "", "path to the data contract")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}
