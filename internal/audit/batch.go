package audit

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-555/fetch-audit/internal/model"
)

// Input is one loaded credential snapshot for batch auditing.
type Input struct {
	// Source identifies the snapshot, typically the export file path.
	Source string

	// Entries is the decrypted credential list.
	Entries []model.CredentialEntry
}

// BatchRunner audits multiple inputs concurrently.
//
// Design decision: concurrency lives here rather than inside Auditor.Run
// so the core audit stays a single logical flow of control. Each Run
// invocation builds its own breach cache, which is what makes fanning the
// calls out safe without any locking.
type BatchRunner struct {
	auditor *Auditor

	// concurrency is the maximum number of inputs audited simultaneously.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithConcurrency sets the maximum number of concurrent audits.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch-level events.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// NewBatchRunner creates a BatchRunner around the given auditor.
func NewBatchRunner(auditor *Auditor, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		auditor:     auditor,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run audits all inputs and returns their reports in input order.
//
// A report is returned for every input even when its audit was cut short;
// the error return reflects batch cancellation. Individual audit errors
// are recorded inside the corresponding report rather than aborting the
// batch.
func (b *BatchRunner) Run(ctx context.Context, inputs []Input) ([]*model.HealthReport, error) {
	b.logger.Debug("starting batch audit",
		"inputs", len(inputs),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	// Pre-allocated by index so results keep input order without locking.
	reports := make([]*model.HealthReport, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report, err := b.auditor.Run(ctx, input.Source, input.Entries, nil)
			reports[i] = report
			if err != nil {
				b.logger.Warn("audit cut short",
					"source", input.Source,
					"error", err,
				)
				// The partial report carries the error; keep the other
				// audits running unless the whole batch is cancelled.
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			return nil
		})
	}

	err := g.Wait()

	b.logger.Debug("batch audit complete",
		"inputs", len(inputs),
		"elapsed", time.Since(start),
	)

	return reports, err
}
