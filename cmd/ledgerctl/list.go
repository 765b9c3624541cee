package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ledger/internal/ledger"
)

type filterFlags struct {
	mode, search, date, month, donor, description, category string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "all", "filter mode: all, date, month or description")
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive search over description and category")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVar(&f.donor, "donor", "", "donor name, matched exactly against the description (month mode)")
	cmd.Flags().StringVar(&f.description, "description", "", "description substring (description mode)")
	cmd.Flags().StringVar(&f.category, "category", "", "category (description mode)")
}

func (f *filterFlags) filter() (ledger.Filter, error) {
	mode, err := ledger.ParseMode(f.mode)
	if err != nil {
		return ledger.Filter{}, err
	}
	return ledger.Filter{
		Mode:        mode,
		Search:      f.search,
		Date:        f.date,
		Month:       f.month,
		Donor:       f.donor,
		Description: f.description,
		Category:    f.category,
	}, nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		flags  filterFlags
		page   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of transactions with totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter()
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("page must be at least 1")
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
			state := ledger.NewState(nil)
			state.Replace(all)
			state.SetFilter(f)
			state.SetPage(page)
			v := state.View()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTanggal\tKeterangan\tKategori\tTipe\tJumlah")
			for _, t := range v.Items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Description, t.Category, t.Type.Label(), t.Amount.FormatIDR())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\npage %d/%d, %d transactions\n", v.Page, v.TotalPages, v.TotalCount)
			fmt.Fprintf(out, "Pemasukan %s  Pengeluaran %s  Saldo %s\n",
				v.Stats.Income.FormatIDR(), v.Stats.Expense.FormatIDR(), v.Stats.Balance.FormatIDR())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number (50 rows per page)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full view as JSON")
	return cmd
}
