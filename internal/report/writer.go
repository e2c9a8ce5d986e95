package report

import (
	"io"

	"github.com/j-555/fetch-audit/internal/model"
)

// Writer renders audit and cleanup results. The interface deals in report
// values rather than bytes so one destination can serve both report kinds
// in any format.
type Writer interface {
	// WriteSummary outputs an audit summary.
	// Returns the number of bytes written and any error encountered.
	WriteSummary(summary *model.Summary) (int, error)

	// WriteCleanup outputs a cleanup report.
	WriteCleanup(report *model.CleanupReport) (int, error)
}

// MultiWriter fans a report out to several Writers, for runs that want
// both a terminal rendering and a file copy. It is not io.MultiWriter
// because Writer carries reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteSummary writes the summary to every destination in order, stopping
// at the first failure. The returned count totals all bytes written.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	return fanOut(m.writers, func(w Writer) (int, error) {
		return w.WriteSummary(summary)
	})
}

// WriteCleanup writes the cleanup report to every destination in order.
func (m *MultiWriter) WriteCleanup(report *model.CleanupReport) (int, error) {
	return fanOut(m.writers, func(w Writer) (int, error) {
		return w.WriteCleanup(report)
	})
}

func fanOut(writers []Writer, write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the destination shared by the concrete writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
