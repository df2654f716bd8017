package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ttabscan/internal/docket"
	"ttabscan/internal/pipeline"
)

const flagDateLayout = "01/02/2006"

func newRunCommand(ctx *commandContext) *cobra.Command {
	var partyFlag string
	var fromFlag string
	var toFlag string
	var csvPath string

	cmd := &cobra.Command{
		Use:   "run [case-id...]",
		Short: "Process opposition proceedings into a consolidated report",
		Long: "Process the given proceedings, or search for a party's oppositions when " +
			"no case ids are provided, and print one consolidated row per case.",
		RunE: func(cmd *cobra.Command, args []string) error {
			party := strings.TrimSpace(partyFlag)
			if len(args) == 0 && party == "" {
				return errors.New("provide case ids or --party to search for them")
			}

			opts, err := searchOptions(fromFlag, toFlag)
			if err != nil {
				return err
			}

			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			return app.withRunLock(func() error {
				runCtx := cmd.Context()
				caseIDs := args
				if len(caseIDs) == 0 {
					entries, err := app.pipe.Search(runCtx, party, opts)
					if err != nil {
						return fmt.Errorf("search proceedings: %w", err)
					}
					if len(entries) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No opposition proceedings found")
						return nil
					}
					for _, entry := range entries {
						caseIDs = append(caseIDs, entry.CaseID)
					}
				}

				report, err := app.pipe.Run(runCtx, party, caseIDs)
				if err != nil {
					return fmt.Errorf("run pipeline: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderReportTable(out, report))
				printRunStats(out, report.Stats)

				if csvPath != "" {
					if err := writeReportCSV(csvPath, report); err != nil {
						return fmt.Errorf("write csv: %w", err)
					}
					fmt.Fprintf(out, "Wrote %s\n", csvPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&partyFlag, "party", "p", "", "Party name to search and consolidate against")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Earliest filing date (MM/DD/YYYY)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Latest filing date (MM/DD/YYYY)")
	cmd.Flags().StringVarP(&csvPath, "output", "o", "", "Also write the report as CSV to this path")
	return cmd
}

func searchOptions(fromFlag, toFlag string) (pipeline.SearchOptions, error) {
	var opts pipeline.SearchOptions
	var err error
	if opts.From, err = parseDateFlag(fromFlag); err != nil {
		return opts, fmt.Errorf("parse --from: %w", err)
	}
	if opts.To, err = parseDateFlag(toFlag); err != nil {
		return opts, fmt.Errorf("parse --to: %w", err)
	}
	if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
		return opts, errors.New("--to is before --from")
	}
	return opts, nil
}

func parseDateFlag(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(flagDateLayout, value)
}

func renderReportTable(out io.Writer, report pipeline.Report) string {
	headers := []string{"Case", "Role", "Outcome", "Filed", "Terminated", "Marks", "Unique Classes", "Status"}
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		status := string(row.Status)
		if row.Status == pipeline.StatusFailed && row.Err != "" {
			status = "failed: " + row.Err
		}
		rows = append(rows, []string{
			row.CaseID,
			row.PartyRole.String(),
			row.Outcome.String(),
			row.FilingDate,
			row.TerminationDate,
			strconv.Itoa(markCount(row)),
			strconv.Itoa(row.UniqueClasses),
			status,
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
	return renderTable(out, headers, rows, aligns)
}

func markCount(row pipeline.ConsolidatedRow) int {
	total := 0
	for _, count := range row.MarkTypeCounts {
		total += count
	}
	return total
}

func printRunStats(out io.Writer, stats pipeline.RunStats) {
	fmt.Fprintf(out, "Run %s: %d cases (%d failed), %d marks in %s (avg %s/case)\n",
		stats.RunID, stats.Cases, stats.Failed, stats.Marks,
		stats.Elapsed.Round(time.Millisecond), stats.AvgPerCase.Round(time.Millisecond))
	fmt.Fprintf(out, "Cache: %d hits, %d misses (%.0f%% hit rate)\n",
		stats.CacheHits, stats.CacheMisses, stats.HitRate()*100)
}

func writeReportCSV(path string, report pipeline.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{
		"case_id", "plaintiff", "defendant", "party_role",
		"filing_date", "termination_date", "outcome",
		"serials", "mark_names", "us_classes", "intl_classes",
		"unique_classes", "total_classes", "status", "error", "mark_errors",
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := writer.Write([]string{
			row.CaseID,
			row.Plaintiff,
			row.Defendant,
			row.PartyRole.String(),
			row.FilingDate,
			row.TerminationDate,
			outcomeCell(row.Outcome),
			row.Serials,
			row.MarkNames,
			row.USClasses,
			row.IntlClasses,
			strconv.Itoa(row.UniqueClasses),
			strconv.Itoa(row.TotalClasses),
			string(row.Status),
			row.Err,
			row.MarkErrors,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// outcomeCell exports sustained as 1 and dismissed as 0; pending cases
// leave the cell blank.
func outcomeCell(outcome docket.Outcome) string {
	value, ok := outcome.ExportValue()
	if !ok {
		return ""
	}
	return strconv.Itoa(value)
}
