package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: package-level sentinel errors rather than creating new
// error instances in Validate(). Callers can use errors.Is() for
// programmatic handling while still getting human-readable messages.
var (
	// ErrNoInput is returned when no vault export file is specified.
	ErrNoInput = errors.New("no input specified: provide at least one vault export file")

	// ErrInvalidWeakThreshold is returned when the weak entropy threshold
	// is not positive. A zero threshold would flag nothing as weak.
	ErrInvalidWeakThreshold = errors.New("invalid weak entropy threshold: must be positive")

	// ErrThresholdOrder is returned when the strong threshold is below the
	// weak one. A password cannot be both weak and exempt-as-generated.
	ErrThresholdOrder = errors.New("invalid entropy thresholds: strong threshold must not be below weak threshold")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no files are ever audited.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidBreachTimeout is returned when breach checking is enabled
	// with a non-positive timeout. A zero timeout would fail every lookup.
	ErrInvalidBreachTimeout = errors.New("invalid breach timeout: must be positive when breach checking is enabled")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
