package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Thresholds follow the hygiene model used by the fetch vault: entropy below
// the weak bound is flagged, entropy above the strong bound exempts an entry
// from duplicate clustering.
const (
	// DefaultWeakEntropyBits is the entropy estimate below which a password
	// is reported as weak. 50 bits keeps short dictionary-style passwords
	// in scope while leaving generated passphrases alone.
	DefaultWeakEntropyBits = 50

	// DefaultStrongEntropyBits is the entropy estimate above which a
	// password is treated as generated. Generated passwords shared across
	// entries are almost always an intentional choice (or the same account
	// exported twice), so they are excluded from duplicate clustering.
	DefaultStrongEntropyBits = 80

	// DefaultBreachEndpoint is the Have I Been Pwned range API.
	// Only the first five characters of a SHA-1 hash are ever sent to it.
	DefaultBreachEndpoint = "https://api.pwnedpasswords.com/range"

	// DefaultBreachTimeout bounds each range request. The breach check is
	// advisory: a slow or unreachable API must not stall the audit, so the
	// timeout is short and a miss is reported as unknown rather than clean.
	DefaultBreachTimeout = 10 * time.Second

	// DefaultBatchSize is the number of vault files audited concurrently
	// when multiple inputs are given. Audits are CPU-light and I/O-bound on
	// the breach API, so a modest fan-out is enough.
	DefaultBatchSize = 4

	// DefaultMaxBodySize caps how much of a breach API response is read.
	// A range response is a few hundred lines of hex; 1MB is far above any
	// legitimate payload and prevents memory exhaustion from a bad proxy.
	DefaultMaxBodySize = 1 * 1024 * 1024 // 1MB

	// DefaultUserAgent identifies fetch-audit in breach API requests.
	// The HIBP API requires a descriptive User-Agent.
	DefaultUserAgent = "fetch-audit/1.0 (+https://github.com/j-555/fetch-audit)"

	// AppName is the application name used for XDG directory paths.
	AppName = "fetchaudit"
)

// Config holds all configuration options for fetch-audit.
// It is populated from defaults, the policy file, and CLI flags, in that
// order, and passed through the application via dependency injection.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// Inputs is the list of vault export files to audit. Each entry is a
	// path to a CSV or decrypted JSON export. At least one is required.
	Inputs []string

	// WeakEntropyBits is the threshold below which passwords are flagged
	// as weak. Zero means use DefaultWeakEntropyBits.
	WeakEntropyBits int

	// StrongEntropyBits is the threshold above which passwords are exempt
	// from duplicate clustering. Zero means use DefaultStrongEntropyBits.
	StrongEntropyBits int

	// CheckBreaches enables the Have I Been Pwned range lookup for each
	// distinct password. When false, the audit runs fully offline and the
	// breach section of the report is empty.
	CheckBreaches bool

	// BreachEndpoint is the base URL of the k-anonymity range API.
	BreachEndpoint string

	// BreachTimeout bounds each individual range request.
	BreachTimeout time.Duration

	// MaxBodySize is the maximum breach API response body size in bytes.
	// Set to 0 to use the default (1MB).
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with breach API requests.
	UserAgent string

	// BatchSize is the number of vault files audited concurrently when
	// multiple inputs are given.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the policy file. If empty, the tool
	// searches for .fetchaudit in the current directory and then in the
	// user's home directory.
	ConfigFilePath string

	// Policies holds the policy file contents once loaded.
	// Populated by LoadConfigFile and consulted per input source.
	Policies *File

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout. Directories are
	// created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite history database.
	// When set, audit results are saved for historical comparison.
	// When empty, results are not persisted.
	// Defaults to the XDG data directory (~/.local/share/fetchaudit on Linux).
	DBDir string

	// SaveToDB indicates whether to save audit results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// DryRun makes the cleanup command report what it would delete without
	// deleting anything. Cleanup is destructive; this is the default.
	DryRun bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: a constructor function instead of relying on zero values,
// because many defaults are non-zero (thresholds, timeout, endpoint). This
// also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		WeakEntropyBits:   DefaultWeakEntropyBits,
		StrongEntropyBits: DefaultStrongEntropyBits,
		BreachEndpoint:    DefaultBreachEndpoint,
		BreachTimeout:     DefaultBreachTimeout,
		MaxBodySize:       DefaultMaxBodySize,
		UserAgent:         DefaultUserAgent,
		BatchSize:         DefaultBatchSize,
		DryRun:            true,
	}
}

// XDGDataDir returns the XDG data directory for fetch-audit.
// On Linux: ~/.local/share/fetchaudit
// On macOS: ~/Library/Application Support/fetchaudit
// On Windows: %LOCALAPPDATA%\fetchaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for fetch-audit.
// On Linux: ~/.config/fetchaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for fetch-audit.
// On Linux: ~/.cache/fetchaudit
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Validation happens once after CLI parsing, before any auditing begins,
// so failures are reported upfront with clear messages. The first error
// found is returned; fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.WeakEntropyBits <= 0 {
		return ErrInvalidWeakThreshold
	}

	if c.StrongEntropyBits < c.WeakEntropyBits {
		return ErrThresholdOrder
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.CheckBreaches && c.BreachTimeout <= 0 {
		return ErrInvalidBreachTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
