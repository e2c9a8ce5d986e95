package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-555/fetch-audit/internal/audit"
	"github.com/j-555/fetch-audit/internal/config"
	"github.com/j-555/fetch-audit/internal/database"
	"github.com/j-555/fetch-audit/internal/domains"
	"github.com/j-555/fetch-audit/internal/grouper"
	"github.com/j-555/fetch-audit/internal/hibp"
	"github.com/j-555/fetch-audit/internal/log"
	"github.com/j-555/fetch-audit/internal/model"
	"github.com/j-555/fetch-audit/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <export-file>...",
		Short: "Audit vault exports for credential hygiene problems",
		Long: `Audit analyzes decrypted vault exports for hygiene problems:

- Weak passwords (estimated strength below the configured threshold)
- Passwords seen in known breaches (opt-in, via k-anonymity range queries)
- Duplicate entries for the same service and login
- Entries missing both username and password
- Stored URLs that yield no usable service identity

Inputs may be vault JSON exports (.json) or password-manager/browser CSV
exports. Results are printed to the terminal and saved to the local audit
history database.

Examples:
  # Offline audit of one export
  fetchaudit audit vault.json

  # Audit several exports concurrently
  fetchaudit audit vault.json work.csv personal.csv

  # Include breach checking (sends 5-character hash prefixes only)
  fetchaudit audit --check-breaches vault.json

  # Output JSON report to a file
  fetchaudit audit --json -o report.json vault.json

  # Use a custom policy file
  fetchaudit audit -c mypolicies.yaml vault.json

Policy file (.fetchaudit) example:
  defaults:
    weakEntropyBits: 50
  sources:
    vault.json:
      excludeTags:
        - archived`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Hygiene thresholds
	cmd.Flags().IntP("weak-bits", "w", config.DefaultWeakEntropyBits,
		"Entropy threshold in bits below which a password is weak")
	cmd.Flags().IntP("strong-bits", "s", config.DefaultStrongEntropyBits,
		"Entropy threshold in bits above which a shared password is treated as deliberate reuse")

	// Breach checking flags
	cmd.Flags().BoolP("check-breaches", "B", false,
		"Check passwords against the breach corpus via k-anonymity range queries")
	cmd.Flags().String("breach-endpoint", config.DefaultBreachEndpoint,
		"Base URL of the breach range API")
	cmd.Flags().DurationP("breach-timeout", "t", config.DefaultBreachTimeout,
		"Timeout for each breach range request")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits when multiple inputs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Policy file path (default: .fetchaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not save this run to the audit history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAuditConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with secret redaction
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// buildAuditConfig creates a Config from cobra command flags.
func buildAuditConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.WeakEntropyBits, err = cmd.Flags().GetInt("weak-bits")
	if err != nil {
		return nil, err
	}

	cfg.StrongEntropyBits, err = cmd.Flags().GetInt("strong-bits")
	if err != nil {
		return nil, err
	}

	cfg.CheckBreaches, err = cmd.Flags().GetBool("check-breaches")
	if err != nil {
		return nil, err
	}

	cfg.BreachEndpoint, err = cmd.Flags().GetString("breach-endpoint")
	if err != nil {
		return nil, err
	}

	cfg.BreachTimeout, err = cmd.Flags().GetDuration("breach-timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadPolicies(cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the export files to audit
	cfg.Inputs = args

	return cfg, nil
}

// loadPolicies loads the policy file into cfg.
// If the user explicitly specified a config file path, error if not found.
// If no path specified, silently use an empty policy set when no file exists.
func loadPolicies(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		policies, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Policies = policies
		return nil
	}
	if explicitConfigPath {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}
	cfg.Policies = &config.File{
		Sources: make(map[string]config.Policy),
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runAudit executes the audit.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting audit",
		"inputs", cfg.Inputs,
		"checkBreaches", cfg.CheckBreaches,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Concurrent auditing across inputs uses the default policy only;
	// per-source overrides require sequential runs.
	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 && len(cfg.Policies.Sources) == 0 {
		return runBatchAudit(ctx, cfg, db, logger)
	}
	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 {
		logger.Warn("per-source policies configured; auditing sequentially",
			"sourceCount", len(cfg.Policies.Sources))
	}

	return runSequentialAudit(ctx, cfg, db, logger)
}

// runSequentialAudit audits inputs one at a time, applying per-source policies.
func runSequentialAudit(ctx context.Context, cfg *config.Config, db *database.AuditDB, logger *slog.Logger) error {
	for _, input := range cfg.Inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		policy := cfg.Policies.GetSourcePolicy(input)
		auditor := newAuditorForPolicy(cfg, policy, logger)

		entries, err := loadEntries(ctx, input, policy)
		if err != nil {
			logger.Error("failed to load input", "input", input, "error", err)
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
			continue
		}

		fmt.Printf("Auditing %s (%d entries)...\n", input, len(entries))
		startTime := time.Now()

		healthReport, err := auditor.Run(ctx, input, entries, newProgressPrinter(cfg))
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("audit failed", "input", input, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", input, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		summary := model.NewSummary(healthReport)
		if outErr := outputSummary(cfg, summary); outErr != nil {
			logger.Error("report failed", "input", input, "error", outErr)
		}
		if saveErr := saveAuditSummary(ctx, db, summary, logger); saveErr != nil {
			logger.Error("failed to save audit run", "input", input, "error", saveErr)
		}

		if err != nil {
			// Cancelled mid-run: the partial report has been written, stop here.
			return err
		}
	}

	return nil
}

// runBatchAudit audits multiple inputs concurrently using BatchRunner.
func runBatchAudit(ctx context.Context, cfg *config.Config, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d inputs (concurrency: %d)...\n\n",
		len(cfg.Inputs), cfg.BatchSize)

	startTime := time.Now()

	policy := cfg.Policies.Defaults
	auditor := newAuditorForPolicy(cfg, policy, logger)

	inputs := make([]audit.Input, 0, len(cfg.Inputs))
	for _, input := range cfg.Inputs {
		entries, err := loadEntries(ctx, input, policy)
		if err != nil {
			logger.Error("failed to load input", "input", input, "error", err)
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
			continue
		}
		inputs = append(inputs, audit.Input{Source: input, Entries: entries})
	}
	if len(inputs) == 0 {
		return errors.New("no inputs could be loaded")
	}

	runner := audit.NewBatchRunner(auditor,
		audit.WithConcurrency(cfg.BatchSize),
		audit.WithBatchLogger(logger),
	)

	reports, err := runner.Run(ctx, inputs)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("batch audit failed: %w", err)
	}

	for i, healthReport := range reports {
		if healthReport == nil {
			continue
		}
		fmt.Printf("[%d/%d] Audit completed: %s\n", i+1, len(reports), healthReport.Source)

		summary := model.NewSummary(healthReport)
		if outErr := outputSummary(cfg, summary); outErr != nil {
			logger.Error("report failed", "input", healthReport.Source, "error", outErr)
		}
		if saveErr := saveAuditSummary(ctx, db, summary, logger); saveErr != nil {
			logger.Error("failed to save audit run", "input", healthReport.Source, "error", saveErr)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// newGrouperForPolicy builds the grouper shared by audit and cleanup,
// with domain rules and the strong-password threshold merged from the
// global config and a source policy.
func newGrouperForPolicy(cfg *config.Config, policy config.Policy) *grouper.Grouper {
	strongBits := cfg.StrongEntropyBits
	if policy.StrongEntropyBits > 0 {
		strongBits = policy.StrongEntropyBits
	}

	var normalizerOpts []domains.Option
	if len(policy.SubdomainPrefixes) > 0 {
		prefixes := make([]string, 0, len(domains.DefaultSubdomainPrefixes)+len(policy.SubdomainPrefixes))
		prefixes = append(prefixes, domains.DefaultSubdomainPrefixes...)
		prefixes = append(prefixes, policy.SubdomainPrefixes...)
		normalizerOpts = append(normalizerOpts, domains.WithSubdomainPrefixes(prefixes))
	}
	if len(policy.ExtraSuffixes) > 0 {
		normalizerOpts = append(normalizerOpts, domains.WithExtraSuffixes(policy.ExtraSuffixes))
	}

	return grouper.New(domains.NewNormalizer(normalizerOpts...), strongBits)
}

// newAuditorForPolicy builds an auditor with thresholds and domain rules
// merged from the global config and a source policy.
func newAuditorForPolicy(cfg *config.Config, policy config.Policy, logger *slog.Logger) *audit.Auditor {
	weakBits := cfg.WeakEntropyBits
	if policy.WeakEntropyBits > 0 {
		weakBits = policy.WeakEntropyBits
	}

	opts := []audit.AuditorOption{
		audit.WithWeakThreshold(weakBits),
		audit.WithAuditorLogger(logger),
	}
	if cfg.CheckBreaches {
		opts = append(opts, audit.WithBreachClient(newBreachClient(cfg)))
	}

	return audit.NewAuditor(newGrouperForPolicy(cfg, policy), opts...)
}

// newBreachClient builds the k-anonymity range client from config.
func newBreachClient(cfg *config.Config) *hibp.Client {
	return hibp.NewClient(
		&http.Client{Timeout: cfg.BreachTimeout},
		hibp.WithEndpoint(cfg.BreachEndpoint),
		hibp.WithTimeout(cfg.BreachTimeout),
		hibp.WithUserAgent(cfg.UserAgent),
		hibp.WithMaxBodySize(cfg.MaxBodySize),
	)
}

// loadEntries opens an input and returns its entries with the policy's
// tag exclusions applied.
func loadEntries(ctx context.Context, input string, policy config.Policy) ([]model.CredentialEntry, error) {
	s, err := openInput(input)
	if err != nil {
		return nil, err
	}

	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	return filterExcludedTags(entries, policy.ExcludeTags), nil
}

// newProgressPrinter returns a progress callback that renders breach
// check progress on stderr. Offline audits finish instantly, so progress
// is only shown when breach checking is enabled.
func newProgressPrinter(cfg *config.Config) audit.ProgressFunc {
	if !cfg.CheckBreaches {
		return nil
	}
	return func(current, total int) {
		if total == 0 {
			return
		}
		fmt.Fprintf(os.Stderr, "\rChecking passwords... %d/%d", current, total)
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

// outputSummary outputs the audit summary in the requested format.
func outputSummary(cfg *config.Config, summary *model.Summary) error {
	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.WriteSummary(summary)
		return err
	}

	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.WriteSummary(summary)
		return err
	}

	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err = writer.WriteSummary(summary)
	return err
}

// openReportOutput resolves the report destination. Reports may contain
// account names and service identities, so files are created 0600.
func openReportOutput(reportFile string) (*os.File, func(), error) {
	if reportFile == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(reportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// saveAuditSummary saves the audit run to the history database if enabled.
// If db is nil, this function is a no-op.
func saveAuditSummary(ctx context.Context, db *database.AuditDB, summary *model.Summary, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveAuditRun(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to save audit run: %w", err)
	}

	logger.Info("audit run saved to history", "source", summary.Source, "runID", id)
	return nil
}
