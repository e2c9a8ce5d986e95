package audit

import (
	"context"
	"log/slog"

	"github.com/j-555/fetch-audit/internal/entropy"
	"github.com/j-555/fetch-audit/internal/grouper"
	"github.com/j-555/fetch-audit/internal/hibp"
	"github.com/j-555/fetch-audit/internal/model"
)

// Auditor runs the full hygiene audit over a credential snapshot.
//
// It is stateless across runs: invoking Run twice on the same input yields
// structurally equal findings. Safe for concurrent use; each Run owns its
// own breach cache.
type Auditor struct {
	grouper *grouper.Grouper

	// breach is the breach corpus client. Nil disables breach checks
	// entirely (offline audit).
	breach *hibp.Client

	// weakEntropyBits is the threshold below which passwords are flagged.
	weakEntropyBits int

	logger *slog.Logger
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithBreachClient enables breach checking through the given client.
func WithBreachClient(c *hibp.Client) AuditorOption {
	return func(a *Auditor) {
		a.breach = c
	}
}

// WithWeakThreshold sets the weak-password entropy threshold in bits.
func WithWeakThreshold(bits int) AuditorOption {
	return func(a *Auditor) {
		a.weakEntropyBits = bits
	}
}

// WithAuditorLogger sets a custom logger.
func WithAuditorLogger(logger *slog.Logger) AuditorOption {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// NewAuditor creates an Auditor around the given grouper.
func NewAuditor(g *grouper.Grouper, opts ...AuditorOption) *Auditor {
	a := &Auditor{
		grouper:         g,
		weakEntropyBits: 50,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Run audits the entries and returns a best-effort HealthReport.
//
// The sequence: entries with a password are counted and announced via
// onProgress(0, total); entropy is estimated per entry; grouping runs once
// over the whole set; breach checks proceed one password at a time with
// onProgress after each. Cancellation is checked between entries: an
// aborted run returns the partial report together with ctx.Err(). Failed
// breach checks never abort the run and never appear as breached entries.
func (a *Auditor) Run(ctx context.Context, source string, entries []model.CredentialEntry, onProgress ProgressFunc) (*model.HealthReport, error) {
	onProgress = onProgress.orNop()
	report := model.NewHealthReport(source)

	// Only entries with a password participate in entropy and breach
	// analysis; the rest still flow through grouping below.
	audited := make([]model.CredentialEntry, 0, len(entries))
	for _, e := range entries {
		if e.HasPassword() {
			e.EntropyBits = entropy.EstimateBits(e.Password)
			audited = append(audited, e)
		}
	}

	total := len(audited)
	report.TotalAudited = total
	onProgress(0, total)

	for _, e := range audited {
		if e.EntropyBits < a.weakEntropyBits {
			report.WeakEntries = append(report.WeakEntries, model.WeakEntry{
				Entry:       e,
				EntropyBits: e.EntropyBits,
			})
		}
	}

	grouped := a.grouper.Group(entries)
	report.DuplicateClusters = grouped.Clusters
	report.IncompleteEntries = grouped.Incomplete
	report.UnparseableEntries = grouped.Unparseable

	a.logger.Debug("grouping complete",
		"source", source,
		"clusters", len(grouped.Clusters),
		"incomplete", len(grouped.Incomplete),
		"unparseable", len(grouped.Unparseable),
	)

	// One breach lookup per distinct password; the cache lives and dies
	// with this run.
	cache := hibp.NewCache()
	failed := make(map[string]bool)

	for i, e := range audited {
		if err := ctx.Err(); err != nil {
			report.Error = err
			report.ErrorMessage = err.Error()
			return report, err
		}

		if a.breach != nil {
			switch count := a.breach.Check(ctx, e.Password, cache); {
			case count > 0:
				report.BreachedEntries = append(report.BreachedEntries, model.BreachedEntry{
					Entry:       e,
					BreachCount: count,
				})
			case count == hibp.CountUnknown:
				failed[e.Password] = true
			}
		}

		onProgress(i+1, total)
	}

	report.BreachChecksFailed = len(failed)
	if len(failed) > 0 {
		a.logger.Warn("some breach checks could not be completed",
			"source", source,
			"failed", len(failed),
		)
	}

	return report, nil
}
