package report

import (
	"encoding/json"
	"io"

	"github.com/j-555/fetch-audit/internal/model"
)

// JSONWriter renders reports as JSON for tool integration. Output is
// compact unless an indent option is applied.
type JSONWriter struct {
	baseWriter

	// indentPrefix/indentString feed json.MarshalIndent when indenting
	// is on.
	indenting    bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with an explicit per-line prefix
// and indent string.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indenting = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSummary outputs the audit summary in JSON format.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// WriteCleanup outputs the cleanup report in JSON format. The report's
// Error is not serializable directly, so it is copied into ErrorMessage
// before marshalling.
func (w *JSONWriter) WriteCleanup(report *model.CleanupReport) (int, error) {
	if report.Error != nil && report.ErrorMessage == "" {
		report.ErrorMessage = report.Error.Error()
	}
	return w.writeJSON(report)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	marshal := json.Marshal
	if w.indenting {
		marshal = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, w.indentPrefix, w.indentString)
		}
	}

	data, err := marshal(v)
	if err != nil {
		return 0, err
	}

	// Trailing newline keeps piped terminal output tidy.
	return w.output.Write(append(data, '\n'))
}

// JSONReport wraps a summary with generator metadata. Wrapping here keeps
// output-only fields like the tool version out of model.Summary, which is
// also what the history database stores.
type JSONReport struct {
	// Version is the fetchaudit version that generated this report.
	Version string `json:"version"`

	// Summary is the audit summary.
	Summary *model.Summary `json:"summary"`
}

// FullJSONWriter is a JSONWriter whose summaries carry the JSONReport
// metadata envelope.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// WriteSummary outputs the summary wrapped with version metadata.
func (w *FullJSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(&JSONReport{Version: w.version, Summary: summary})
}
