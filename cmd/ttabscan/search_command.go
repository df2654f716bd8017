package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ttabscan/internal/docket"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var fromFlag string
	var toFlag string

	cmd := &cobra.Command{
		Use:   "search <party-name>",
		Short: "List a party's opposition proceedings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := searchOptions(fromFlag, toFlag)
			if err != nil {
				return err
			}

			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := app.pipe.Search(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("search proceedings: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No opposition proceedings found")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.CaseID, entry.Type, docket.FormatDate(entry.Filed)})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Case", "Type", "Filed"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			fmt.Fprintf(out, "%d proceedings\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Earliest filing date (MM/DD/YYYY)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Latest filing date (MM/DD/YYYY)")
	return cmd
}
