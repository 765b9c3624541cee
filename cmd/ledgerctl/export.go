package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/backend"
	"ledger/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		flags   filterFlags
		outFile string
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build the six-sheet financial report",
		Long: "Build the report workbook. By default it is printed as JSON; with --publish " +
			"it is written through the configured export backend (EXPORT_BACKEND).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter()
			if err != nil {
				return err
			}
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			all, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			wb := export.Build(all, f, time.Now())

			if publish {
				bcfg, err := backend.FromAppConfig(a.cfg)
				if err != nil {
					return err
				}
				res, err := backend.NewFactory(a.logger.Logger).CreateBackend(cmd.Context(), bcfg)
				if err != nil {
					return err
				}
				ref, err := res.Backend.WriteWorkbook(cmd.Context(), wb)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ref)
				return nil
			}

			out := cmd.OutOrStdout()
			if outFile != "" {
				fh, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer fh.Close()
				out = fh
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(wb)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the JSON workbook to a file instead of stdout")
	cmd.Flags().BoolVar(&publish, "publish", false, "write the workbook through the export backend")
	return cmd
}
