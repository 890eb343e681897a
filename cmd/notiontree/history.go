package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nao1215/notiontree/internal/config"
	"github.com/nao1215/notiontree/internal/journal"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists past export runs recorded in the journal.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past export runs",
		Long: `History lists the export runs recorded in the journal, newest first.

Every export appends one row to the journal: when it ran, which tree it
exported, how many pages it created, and whether it succeeded. The journal
never feeds the export itself; it exists so you can answer "when did I last
publish this tree, and where did it land".

Examples:
  # List the 20 most recent runs
  notiontree history

  # List the 5 most recent runs
  notiontree history --limit 5

  # Output run history in JSON format
  notiontree history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 0,
		"Maximum number of runs to list (default 20)")
	cmd.Flags().BoolP("json", "j", false,
		"Output run history in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// The journal lives in the XDG data directory, next to nothing the
	// export reads back.
	j, err := journal.Open(config.XDGDataDir(), journal.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		return outputRunsJSON(runs)
	}
	return outputRunsText(runs)
}

// outputRunsJSON writes the run list as indented JSON.
func outputRunsJSON(runs []journal.Run) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(runs)
}

// outputRunsText writes the run list as a human-readable table.
func outputRunsText(runs []journal.Run) error {
	if len(runs) == 0 {
		fmt.Println("No export runs found in the journal.")
		fmt.Println("\nUse 'notiontree export' to export a Markdown tree.")
		return nil
	}

	fmt.Printf("Export runs (%d):\n\n", len(runs))
	fmt.Printf("  %-4s  %-19s  %-8s  %-6s  %-9s  %s\n",
		"ID", "Started", "Status", "Pages", "Duration", "Source")
	fmt.Println("  " + strings.Repeat("-", 70))

	for _, run := range runs {
		fmt.Printf("  %-4d  %-19s  %-8s  %-6d  %-9s  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Status,
			run.PageCount,
			formatRunDuration(&run),
			run.SourceDir,
		)
		if run.Status == journal.StatusFailed && run.Error != "" {
			fmt.Printf("        error: %s\n", run.Error)
		}
	}

	fmt.Println("\nUse 'notiontree history --json' for page URLs and per-phase counters.")

	return nil
}

// formatRunDuration formats a run's wall-clock duration, or "-" when the
// run never finished.
func formatRunDuration(run *journal.Run) string {
	d := run.Duration()
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
