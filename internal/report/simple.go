package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/j-555/fetch-audit/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and severity indicators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with impact and recommendation text.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteSummary outputs the audit summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSeveritySummary(&sb, summary)
	w.writeFindings(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    CREDENTIAL HEALTH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:          %s\n", summary.Source))
	sb.WriteString(fmt.Sprintf("Audit Date:      %s\n", summary.AuditedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Entries Audited: %d\n", summary.TotalAudited))

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:          ERROR - %s\n", summary.Error))
	} else {
		sb.WriteString("Status:          Complete\n")
	}

	sb.WriteString("\n")
}

// writeSeveritySummary writes the severity summary section.
func (w *SimpleWriter) writeSeveritySummary(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", summary.CriticalCount))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", summary.HighCount))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", summary.MediumCount))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", summary.LowCount))
	sb.WriteString(fmt.Sprintf("  INFO:     %d\n", summary.InfoCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", summary.TotalFindings()))
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	severities := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
		model.SeverityInfo,
	}

	for _, severity := range severities {
		findings := summary.GetFindingsBySeverity(severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severity.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s\n", finding.Title))
		if finding.Service != "" {
			sb.WriteString(fmt.Sprintf("    Service: %s\n", finding.Service))
		}
		if finding.Description != "" {
			sb.WriteString(fmt.Sprintf("    Detail: %s\n", finding.Description))
		}
		if w.verbose {
			if finding.Impact != "" {
				sb.WriteString(fmt.Sprintf("    Impact: %s\n", finding.Impact))
			}
			if finding.Recommendation != "" {
				sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", finding.Recommendation))
			}
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// WriteCleanup outputs the cleanup report in human-readable format.
func (w *SimpleWriter) WriteCleanup(report *model.CleanupReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if report.DryRun {
		sb.WriteString("                 CLEANUP PLAN (DRY RUN)\n")
	} else {
		sb.WriteString("                 CLEANUP REPORT\n")
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:     %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Processed:  %d entries\n", report.TotalProcessed()))
	if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n", report.ErrorMessage))
	}
	sb.WriteString("\n")

	verb := "Deleted"
	if report.DryRun {
		verb = "Would delete"
	}
	w.writeOutcomes(&sb, fmt.Sprintf("%s (%d)", strings.ToUpper(verb), len(report.DeletedItems)), report.DeletedItems)
	w.writeOutcomes(&sb, fmt.Sprintf("KEPT (%d)", len(report.KeptItems)), report.KeptItems)
	if len(report.FailedItems) > 0 {
		w.writeOutcomes(&sb, fmt.Sprintf("FAILED (%d)", len(report.FailedItems)), report.FailedItems)
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeOutcomes writes one labeled list of item outcomes with reasons.
func (w *SimpleWriter) writeOutcomes(sb *strings.Builder, label string, items []model.ItemOutcome) {
	if len(items) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(label)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(items) == 0 {
		sb.WriteString("  None\n\n")
		return
	}

	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  * %s (%s)\n", item.Name, item.Reason))
		if item.Error != "" {
			sb.WriteString(fmt.Sprintf("    Error: %s\n", item.Error))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by fetchaudit\n")
	sb.WriteString("https://github.com/j-555/fetch-audit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
