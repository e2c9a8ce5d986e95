package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/j-555/fetch-audit/internal/grouper"
	"github.com/j-555/fetch-audit/internal/model"
)

// DeleteFunc removes one entry from the external store by its opaque id.
type DeleteFunc func(ctx context.Context, id string) error

// Executor applies duplicate resolution to a credential snapshot: it keeps
// the canonical entry of each duplicate cluster, deletes the rest, deletes
// incomplete entries unconditionally, and records every decision.
type Executor struct {
	grouper *grouper.Grouper

	// dryRun records decisions without invoking the delete function.
	dryRun bool

	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithDryRun makes the executor report what it would delete without
// deleting anything.
func WithDryRun(dryRun bool) ExecutorOption {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// WithExecutorLogger sets a custom logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor around the given grouper.
func NewExecutor(g *grouper.Grouper, opts ...ExecutorOption) *Executor {
	e := &Executor{grouper: g}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// deletion pairs an outcome-in-progress with the reason it was selected.
type deletion struct {
	entry  model.CredentialEntry
	reason string
}

// Run resolves duplicates over the entries and returns the audit trail.
//
// Incomplete entries are deleted with reason "missing both username and
// password"; non-canonical cluster members with "duplicate of <canonical
// name>". Canonicals are kept with their completeness score, everything
// else with "single entry". Deletions run sequentially through deleteFn;
// a per-item failure is recorded and the run continues, so the report
// always reflects what actually happened. Cancellation between deletions
// returns the partial report with ctx.Err().
func (e *Executor) Run(ctx context.Context, source string, entries []model.CredentialEntry, deleteFn DeleteFunc, onProgress ProgressFunc) (*model.CleanupReport, error) {
	onProgress = onProgress.orNop()
	report := model.NewCleanupReport(source, e.dryRun)

	for _, entry := range entries {
		if entry.URL != "" {
			report.ProcessedURLs = append(report.ProcessedURLs, entry.URL)
		}
	}

	grouped := e.grouper.Group(entries)

	var deletions []deletion
	for _, entry := range grouped.Incomplete {
		deletions = append(deletions, deletion{
			entry:  entry,
			reason: "missing both username and password",
		})
	}

	for _, cluster := range grouped.Clusters {
		names := make([]string, 0, cluster.Size())
		for _, m := range cluster.Members {
			names = append(names, m.Name)
		}
		report.Clusters = append(report.Clusters, model.ClusterSummary{
			ServiceIdentity: cluster.ServiceIdentity,
			MemberNames:     names,
		})

		canonical := cluster.Canonical()
		report.KeptItems = append(report.KeptItems, model.ItemOutcome{
			ID:     canonical.ID,
			Name:   canonical.Name,
			URL:    canonical.URL,
			Action: model.ActionKept,
			Reason: fmt.Sprintf("most complete entry (completeness %d of 2)", canonical.CompletenessScore()),
		})

		for _, m := range cluster.Redundant() {
			deletions = append(deletions, deletion{
				entry:  m,
				reason: fmt.Sprintf("duplicate of %s", canonical.Name),
			})
		}
	}

	for _, entry := range grouped.Singletons {
		report.KeptItems = append(report.KeptItems, model.ItemOutcome{
			ID:     entry.ID,
			Name:   entry.Name,
			URL:    entry.URL,
			Action: model.ActionKept,
			Reason: "single entry",
		})
	}
	for _, entry := range grouped.Unparseable {
		report.KeptItems = append(report.KeptItems, model.ItemOutcome{
			ID:     entry.ID,
			Name:   entry.Name,
			URL:    entry.URL,
			Action: model.ActionKept,
			Reason: "single entry",
		})
	}

	total := len(deletions)
	onProgress(0, total)

	for i, d := range deletions {
		if err := ctx.Err(); err != nil {
			report.Error = err
			report.ErrorMessage = err.Error()
			return report, err
		}

		outcome := model.ItemOutcome{
			ID:     d.entry.ID,
			Name:   d.entry.Name,
			URL:    d.entry.URL,
			Action: model.ActionDeleted,
			Reason: d.reason,
		}

		if !e.dryRun {
			if err := deleteFn(ctx, d.entry.ID); err != nil {
				e.logger.Warn("deletion failed",
					"source", source,
					"id", d.entry.ID,
					"error", err,
				)
				outcome.Action = model.ActionFailed
				outcome.Error = err.Error()
				report.FailedItems = append(report.FailedItems, outcome)
				onProgress(i+1, total)
				continue
			}
		}

		report.DeletedItems = append(report.DeletedItems, outcome)
		onProgress(i+1, total)
	}

	return report, nil
}
