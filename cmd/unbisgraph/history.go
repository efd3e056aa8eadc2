package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/unbisgraph/unbisgraph/internal/config"
	"github.com/unbisgraph/unbisgraph/internal/database"
	"github.com/unbisgraph/unbisgraph/internal/export"
	"github.com/unbisgraph/unbisgraph/internal/model"
)

// NewHistoryCmd creates the history command.
// This command inspects the crawl runs stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or export past crawl runs",
		Long: `History lists the crawl runs recorded in the local database, with their
dates, root topics, and graph sizes.

A stored run's graph document can be re-exported with --export-id, which
writes the same JSON format as 'unbisgraph crawl' without touching the
network.

Examples:
  # List the ten most recent runs
  unbisgraph history

  # List every stored run
  unbisgraph history --limit 0

  # Re-export the graph from run 3
  unbisgraph history --export-id 3 -o old_graph.json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int("limit", 10,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64("export-id", 0,
		"Export the graph document stored for the given run ID")
	cmd.Flags().StringP("output", "o", "-",
		"Output path for --export-id (\"-\" for stdout)")
	cmd.Flags().String("history-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	historyDir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	if historyDir == "" {
		historyDir = config.XDGDataDir()
	}

	// The history command never creates a database: an empty history is
	// reported as such rather than materializing an empty file.
	db, err := database.Open(historyDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no crawl history found in %s (run 'unbisgraph crawl' first): %w", historyDir, err)
	}
	defer db.Close() //nolint:errcheck // Best effort cleanup

	ctx := context.Background()

	exportID, err := cmd.Flags().GetInt64("export-id")
	if err != nil {
		return err
	}
	if exportID > 0 {
		outputPath, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		return exportStoredGraph(ctx, cmd, db, exportID, outputPath)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return listCrawlRuns(ctx, cmd, db, limit)
}

// listCrawlRuns prints the stored runs, newest first.
func listCrawlRuns(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, limit int) error {
	runs, err := db.RecentCrawls(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list crawl runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl runs recorded")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-4s  %-19s  %-9s  %-8s  %-9s  %-7s  %s\n",
		"ID", "Started", "Duration", "Topics", "Relations", "Errors", "Roots")
	for _, run := range runs {
		fmt.Fprintf(w, "%-4d  %-19s  %-9s  %-8d  %-9d  %-7d  %s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
			run.NodeCount,
			run.EdgeCount,
			run.FetchErrors+run.ParseErrors,
			formatRoots(run.Roots),
		)
	}

	return nil
}

// formatRoots renders the root list compactly.
func formatRoots(roots []model.TopicID) string {
	if len(roots) == 0 {
		return "(discovered)"
	}
	strs := make([]string, 0, len(roots))
	for _, r := range roots {
		strs = append(strs, string(r))
	}
	if len(strs) > 6 {
		return strings.Join(strs[:6], ",") + fmt.Sprintf(",... (%d total)", len(strs))
	}
	return strings.Join(strs, ",")
}

// exportStoredGraph writes the graph document stored for a run.
func exportStoredGraph(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, id int64, outputPath string) error {
	g, err := db.GraphByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read run %d: %w", id, err)
	}
	if g == nil {
		return fmt.Errorf("no crawl run with ID %d (use 'unbisgraph history' to list runs)", id)
	}

	result := &model.CrawlResult{Graph: g}
	exporter := export.NewJSONExporter(outputPath, export.WithPrettyPrint())
	if err := exporter.Export(ctx, result); err != nil {
		return fmt.Errorf("failed to export run %d: %w", id, err)
	}

	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported run %d to %s\n", id, outputPath)
	}
	return nil
}
