package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-555/fetch-audit/internal/audit"
	"github.com/j-555/fetch-audit/internal/config"
	"github.com/j-555/fetch-audit/internal/log"
	"github.com/j-555/fetch-audit/internal/model"
	"github.com/j-555/fetch-audit/internal/report"
	"github.com/j-555/fetch-audit/internal/store"
)

// NewCleanupCmd creates the cleanup command.
func NewCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup <export-file>",
		Short: "Remove redundant duplicates and empty entries from an export",
		Long: `Cleanup groups an export's entries into duplicate clusters and deletes
the redundant members, keeping the most complete entry of each cluster.
Entries with neither username nor password are deleted as well.

Runs are dry by default: the command reports what it would delete without
touching anything. Pass --dry-run=false to apply the deletions. For CSV
inputs, --cleaned-output writes a new CSV containing only the surviving
rows; the input file itself is never modified.

Examples:
  # Preview what a cleanup would delete
  fetchaudit cleanup vault.json

  # Apply deletions and write the cleaned CSV
  fetchaudit cleanup --dry-run=false --cleaned-output cleaned.csv export.csv

  # Markdown cleanup report
  fetchaudit cleanup --markdown export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runCleanupCmd,
	}

	cmd.Flags().Bool("dry-run", true,
		"Report planned deletions without performing them")
	cmd.Flags().StringP("cleaned-output", "O", "",
		"Write surviving rows to this CSV file (CSV inputs only)")
	cmd.Flags().IntP("strong-bits", "s", config.DefaultStrongEntropyBits,
		"Entropy threshold in bits above which a shared password is treated as deliberate reuse")
	cmd.Flags().StringP("config", "c", "",
		"Policy file path (default: .fetchaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCleanupCmd executes the cleanup command.
func runCleanupCmd(cmd *cobra.Command, args []string) error {
	cfg, cleanedOutput, err := buildCleanupConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCleanup(ctx, cfg, cleanedOutput, logger)
}

// buildCleanupConfig creates a Config from cobra command flags.
// Returns the config and the cleaned-output path.
func buildCleanupConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.NewConfig()

	var err error

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, "", err
	}

	cfg.StrongEntropyBits, err = cmd.Flags().GetInt("strong-bits")
	if err != nil {
		return nil, "", err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	if err := loadPolicies(cfg); err != nil {
		return nil, "", err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, "", err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, "", err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, "", err
	}

	cleanedOutput, err := cmd.Flags().GetString("cleaned-output")
	if err != nil {
		return nil, "", err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args

	return cfg, cleanedOutput, nil
}

// runCleanup executes the cleanup.
func runCleanup(ctx context.Context, cfg *config.Config, cleanedOutput string, logger *slog.Logger) error {
	input := cfg.Inputs[0]
	policy := cfg.Policies.GetSourcePolicy(input)

	// The cleaned-output path only makes sense for CSV inputs; validate
	// before doing any work.
	var csvStore *store.CSVStore
	var s store.Store
	var err error
	if cleanedOutput != "" {
		csvStore, err = openCSVInput(input)
		if err != nil {
			return err
		}
		s = csvStore
	} else {
		s, err = openInput(input)
		if err != nil {
			return err
		}
	}

	entries, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	entries = filterExcludedTags(entries, policy.ExcludeTags)

	// Cleanup uses the same clustering rules as audit, minus breach and
	// weakness scoring.
	executor := audit.NewExecutor(newGrouperForPolicy(cfg, policy),
		audit.WithDryRun(cfg.DryRun),
		audit.WithExecutorLogger(logger),
	)

	if cfg.DryRun {
		fmt.Printf("Planning cleanup of %s (%d entries, dry run)...\n", input, len(entries))
	} else {
		fmt.Printf("Cleaning up %s (%d entries)...\n", input, len(entries))
	}
	startTime := time.Now()

	cleanupReport, err := executor.Run(ctx, input, entries, s.Delete, nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Cleanup completed in %s\n\n", elapsed.Round(time.Millisecond))

	if outErr := outputCleanupReport(cfg, cleanupReport); outErr != nil {
		logger.Error("report failed", "input", input, "error", outErr)
	}

	if cleanedOutput != "" && !cfg.DryRun {
		if writeErr := writeCleanedCSV(csvStore, cleanedOutput); writeErr != nil {
			return writeErr
		}
		fmt.Printf("Cleaned export written to %s\n", cleanedOutput)
	}

	return err
}

// writeCleanedCSV writes the surviving rows to the cleaned output path.
func writeCleanedCSV(csvStore *store.CSVStore, path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create cleaned output file: %w", err)
	}
	defer f.Close()

	if err := csvStore.WriteCleaned(f); err != nil {
		return fmt.Errorf("failed to write cleaned export: %w", err)
	}
	return nil
}

// outputCleanupReport outputs the cleanup report in the requested format.
func outputCleanupReport(cfg *config.Config, cleanupReport *model.CleanupReport) error {
	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.WriteCleanup(cleanupReport)
		return err
	}

	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.WriteCleanup(cleanupReport)
		return err
	}

	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err = writer.WriteCleanup(cleanupReport)
	return err
}
