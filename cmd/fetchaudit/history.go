package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/j-555/fetch-audit/internal/config"
	"github.com/j-555/fetch-audit/internal/database"
	"github.com/j-555/fetch-audit/internal/model"
	"github.com/j-555/fetch-audit/internal/report"
)

// noFindingsMessage is shown when a stored run had nothing to report.
const noFindingsMessage = "clean"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "Show stored audit runs and how findings changed over time",
		Long: `History lists audit runs saved by 'fetchaudit audit' and shows how
finding counts changed between consecutive runs of the same source.

Without arguments it lists every source that has stored runs. With a
source argument it prints that source's run history, newest first, with
per-severity deltas against the preceding run.

Examples:
  # List all audited sources
  fetchaudit history

  # Show run history for one export
  fetchaudit history vault.json

  # Dump a stored run's full summary as JSON
  fetchaudit history --run-id 5 vault.json

  # Markdown rendering of the latest stored run
  fetchaudit history --latest --markdown vault.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("run-id", "i", 0,
		"Show the full stored summary for a specific run (use the ID column)")
	cmd.Flags().BoolP("latest", "l", false,
		"Show the full stored summary for the most recent run")
	cmd.Flags().BoolP("json", "j", false,
		"Output stored summaries in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output stored summaries in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}
	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	var source string
	if len(args) > 0 {
		source = args[0]
	}
	if latest && source == "" {
		return errors.New("a source argument is required with --latest")
	}

	// The history database lives in the XDG data directory. Opening with
	// create keeps a first run friendly: an empty database lists as
	// "no history" instead of failing.
	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: true, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if runID != 0 {
		return showStoredRun(ctx, cmd, db, runID, jsonOutput, markdownOutput)
	}
	if latest {
		return showLatestRun(ctx, cmd, db, source, jsonOutput, markdownOutput)
	}
	if source == "" {
		return listAuditedSources(ctx, cmd, db)
	}
	return listRunHistory(ctx, cmd, db, source)
}

// listAuditedSources lists all sources that have audit runs stored.
func listAuditedSources(ctx context.Context, cmd *cobra.Command, db *database.AuditDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sources) == 0 {
		fmt.Fprintln(out, "No audit history found.")
		fmt.Fprintln(out, "\nUse 'fetchaudit audit <export-file>' to audit an export.")
		return nil
	}

	fmt.Fprintf(out, "Audited sources (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Fprintf(out, "  • %s\n", source)
	}
	fmt.Fprintln(out, "\nUse 'fetchaudit history <source>' to see its run history.")

	return nil
}

// listRunHistory lists all stored runs for a source with deltas between
// consecutive runs.
func listRunHistory(ctx context.Context, cmd *cobra.Command, db *database.AuditDB, source string) error {
	runs, err := db.GetHistory(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintf(out, "No audit history found for %s\n", source)
		fmt.Fprintln(out, "\nUse 'fetchaudit audit' to audit this export.")
		return nil
	}

	fmt.Fprintf(out, "Audit history for %s (%d runs):\n\n", source, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-24s  %s\n", "ID", "Date", "Audited", "Findings", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 78))

	// Runs come newest first; the delta for each row compares it with
	// the run directly below it (the preceding run in time).
	for i, run := range runs {
		change := "-"
		if i+1 < len(runs) {
			delta := database.ComputeDelta(runs[i+1], run)
			change = formatDeltaSummary(delta)
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %-24s  %s\n",
			run.ID,
			run.AuditedAt.Format("2006-01-02 15:04:05"),
			run.TotalAudited,
			formatRunFindings(run),
			change,
		)
	}

	fmt.Fprintln(out, "\nUse 'fetchaudit history --run-id <id>' to see a stored run in full.")

	return nil
}

// formatRunFindings formats a run's severity counts into a compact string.
func formatRunFindings(run database.RunMetadata) string {
	var parts []string
	if run.CriticalCount > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", run.CriticalCount))
	}
	if run.HighCount > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", run.HighCount))
	}
	if run.MediumCount > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", run.MediumCount))
	}
	if run.LowCount > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", run.LowCount))
	}
	if run.InfoCount > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", run.InfoCount))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// formatDeltaSummary formats per-severity changes into a compact string.
func formatDeltaSummary(delta database.Delta) string {
	if delta.IsZero() {
		return "no change"
	}

	var parts []string
	for _, band := range []struct {
		label string
		value int
	}{
		{"C", delta.Critical},
		{"H", delta.High},
		{"M", delta.Medium},
		{"L", delta.Low},
		{"I", delta.Info},
	} {
		if band.value != 0 {
			parts = append(parts, fmt.Sprintf("%s:%+d", band.label, band.value))
		}
	}
	return strings.Join(parts, " ")
}

// showStoredRun prints the full stored summary for one run.
func showStoredRun(ctx context.Context, cmd *cobra.Command, db *database.AuditDB, runID int64, jsonOutput, markdownOutput bool) error {
	summary, err := db.GetRunByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("no stored run with id %d (use 'fetchaudit history <source>' to list runs)", runID)
	}

	return writeStoredSummary(cmd, summary, jsonOutput, markdownOutput)
}

// showLatestRun prints the full stored summary for a source's newest run.
func showLatestRun(ctx context.Context, cmd *cobra.Command, db *database.AuditDB, source string, jsonOutput, markdownOutput bool) error {
	summary, err := db.GetLatestRun(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get latest run: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("no audit history found for %s", source)
	}

	return writeStoredSummary(cmd, summary, jsonOutput, markdownOutput)
}

// writeStoredSummary renders a stored summary in the requested format.
func writeStoredSummary(cmd *cobra.Command, summary *model.Summary, jsonOutput, markdownOutput bool) error {
	out := cmd.OutOrStdout()

	switch {
	case jsonOutput:
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteSummary(summary)
		return err
	case markdownOutput:
		_, err := report.NewMarkdownWriter(out).WriteSummary(summary)
		return err
	default:
		_, err := report.NewSimpleWriter(out, report.WithVerbose(getVerboseFlag(cmd))).WriteSummary(summary)
		return err
	}
}
