package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/storage"
)

func newSeedCmd(a *app) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample ledger into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.SeedRandomSeed
			}
			n, err := repo.SeedIfEmpty(cmd.Context(), storage.NewSeedRand(seed))
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ledger is not empty, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d transactions\n", n)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for generated amounts (0 picks one)")
	return cmd
}
