package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Classification cache maintenance",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache effectiveness counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := app.store.Statistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("read cache stats: %w", err)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Entries", strconv.FormatInt(stats.Entries, 10)},
				{"Hits", strconv.FormatInt(stats.Hits, 10)},
				{"Misses", strconv.FormatInt(stats.Misses, 10)},
				{"Stale lookups", strconv.FormatInt(stats.Stale, 10)},
				{"Inserts", strconv.FormatInt(stats.Inserts, 10)},
				{"Updates", strconv.FormatInt(stats.Updates, 10)},
				{"Hit rate", fmt.Sprintf("%.1f%%", stats.HitRate()*100)},
				{"Avg lookup", fmt.Sprintf("%.2f ms", stats.AvgLookupMS)},
				{"Vision calls saved", strconv.FormatInt(stats.VisionCallsSaved, 10)},
				{"Status calls saved", strconv.FormatInt(stats.TSDRCallsSaved, 10)},
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Metric", "Value"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(out, "Cache database: %s\n", app.store.Path())
			return nil
		},
	}
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached serial numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			serials, err := app.store.Serials(cmd.Context())
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(serials) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}
			for _, serial := range serials {
				fmt.Fprintln(out, serial)
			}
			fmt.Fprintf(out, "%d entries\n", len(serials))
			return nil
		},
	}
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete entries older than the configured TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			ttl := time.Duration(app.cfg.Cache.TTLDays) * 24 * time.Hour
			removed, err := app.store.PurgeStale(cmd.Context(), ttl)
			if err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d stale entries (TTL %dd)\n", removed, app.cfg.Cache.TTLDays)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached entry and reset statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("cache clear is destructive; re-run with --yes")
			}
			app, cleanup, err := ctx.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := app.store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm deletion")
	return cmd
}
