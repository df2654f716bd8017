package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ttabscan/internal/pipeline"
)

func newCaseCommand(ctx *commandContext) *cobra.Command {
	var partyFlag string

	cmd := &cobra.Command{
		Use:   "case <case-id>",
		Short: "Process a single proceeding and show its pleaded marks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			return app.withRunLock(func() error {
				report, err := app.pipe.Run(cmd.Context(), strings.TrimSpace(partyFlag), args[0:1])
				if err != nil {
					return fmt.Errorf("run pipeline: %w", err)
				}
				record := report.Records[0]
				row := report.Rows[0]

				out := cmd.OutOrStdout()
				if record.Status == pipeline.StatusFailed {
					return fmt.Errorf("case %s failed: %s", row.CaseID, record.Err)
				}

				fmt.Fprintf(out, "Case %s: %s v. %s\n", row.CaseID, row.Plaintiff, row.Defendant)
				fmt.Fprintf(out, "Filed %s, outcome %s", orDash(row.FilingDate), row.Outcome)
				if row.TerminationDate != "" {
					fmt.Fprintf(out, ", terminated %s", row.TerminationDate)
				}
				fmt.Fprintln(out)

				if len(record.Marks) == 0 {
					fmt.Fprintln(out, "No pleaded marks")
					return nil
				}

				rows := make([][]string, 0, len(record.Marks))
				for _, mark := range record.Marks {
					rows = append(rows, []string{
						mark.Serial,
						mark.Name,
						mark.Owner.String(),
						mark.Type.String(),
						strings.Join(mark.USClasses, ", "),
						strings.Join(mark.IntlClasses, ", "),
						mark.Source,
						yesNo(mark.FromCache),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Serial", "Mark", "Owner", "Type", "US Classes", "Intl Classes", "Source", "Cached"},
					rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&partyFlag, "party", "p", "", "Party name for role resolution")
	return cmd
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
