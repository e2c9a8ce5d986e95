package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/j-555/fetch-audit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteSummary outputs the audit summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSeveritySummary(md, summary)
	w.writeFindings(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Credential Health Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + summary.Source + "`"},
			{"Audit Date", summary.AuditedAt.Format("2006-01-02 15:04:05 MST")},
			{"Entries Audited", strconv.Itoa(summary.TotalAudited)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.Summary) string {
	if summary.Error != "" {
		return "❌ Error - " + summary.Error
	}
	return "✅ Complete"
}

// writeSeveritySummary writes the severity summary section.
func (w *MarkdownWriter) writeSeveritySummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(summary.CriticalCount)},
			{"🟠 High", strconv.Itoa(summary.HighCount)},
			{"🟡 Medium", strconv.Itoa(summary.MediumCount)},
			{"🔵 Low", strconv.Itoa(summary.LowCount)},
			{"⚪ Info", strconv.Itoa(summary.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if summary.HasFindings() {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if summary.CriticalCount > 0 {
		chart.LabelAndIntValue("Critical", uint64(summary.CriticalCount))
	}
	if summary.HighCount > 0 {
		chart.LabelAndIntValue("High", uint64(summary.HighCount))
	}
	if summary.MediumCount > 0 {
		chart.LabelAndIntValue("Medium", uint64(summary.MediumCount))
	}
	if summary.LowCount > 0 {
		chart.LabelAndIntValue("Low", uint64(summary.LowCount))
	}
	if summary.InfoCount > 0 {
		chart.LabelAndIntValue("Info", uint64(summary.InfoCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.CriticalCount > 0:
		md.Cautionf(
			"Breached credentials detected! %d critical finding(s) require an immediate password change.",
			summary.CriticalCount,
		)
	case summary.HighCount > 0:
		md.Warningf(
			"Weak passwords detected. %d high severity finding(s) should be addressed.",
			summary.HighCount,
		)
	case summary.MediumCount > 0:
		md.Importantf(
			"Duplicate entries found. %d finding(s) add noise to your vault.",
			summary.MediumCount,
		)
	case summary.TotalFindings() > 0:
		md.Note("Only low severity and informational findings detected.")
	default:
		md.Tip("No credential hygiene issues detected.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Findings")
	md.PlainText("")

	if !summary.HasFindings() {
		md.PlainText("No credential hygiene findings.")
		md.PlainText("")
		return
	}

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityHigh, "### 🟠 High"},
		{model.SeverityMedium, "### 🟡 Medium"},
		{model.SeverityLow, "### 🔵 Low"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range severities {
		findings := summary.GetFindingsBySeverity(sev.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Entry", "Service", "Detail", "Recommendation"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		entry := f.EntryName
		if entry == "" {
			entry = "-"
		}
		service := f.Service
		if service == "" {
			service = "-"
		}
		detail := f.Description
		if detail == "" {
			detail = "-"
		}
		rec := f.Recommendation
		if rec == "" {
			rec = "-"
		}

		rows[i] = []string{
			entry,
			truncateString(service, 40),
			truncateString(detail, 60),
			truncateString(rec, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Impact explanations are long; fold them behind details blocks.
	for _, f := range findings {
		if f.Impact != "" {
			md.Details(f.Title, f.Impact)
		}
	}
	md.PlainText("")
}

// WriteCleanup outputs the cleanup report in Markdown format.
func (w *MarkdownWriter) WriteCleanup(report *model.CleanupReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	if report.DryRun {
		md.H1("Cleanup Plan (Dry Run)")
	} else {
		md.H1("Cleanup Report")
	}
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + report.Source + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Processed", strconv.Itoa(report.TotalProcessed())},
			{"Deleted", strconv.Itoa(len(report.DeletedItems))},
			{"Kept", strconv.Itoa(len(report.KeptItems))},
			{"Failed", strconv.Itoa(len(report.FailedItems))},
		},
	})
	md.PlainText("")

	if report.DryRun {
		md.Note("Dry run: no entries were deleted. Re-run without --dry-run to apply.")
		md.PlainText("")
	}
	if len(report.FailedItems) > 0 {
		md.Warningf("%d deletion(s) failed; the affected entries remain in the store.", len(report.FailedItems))
		md.PlainText("")
	}

	w.writeOutcomeSection(md, "Deleted", report.DeletedItems)
	w.writeOutcomeSection(md, "Kept", report.KeptItems)
	if len(report.FailedItems) > 0 {
		w.writeOutcomeSection(md, "Failed", report.FailedItems)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeOutcomeSection writes one table of item outcomes with reasons.
func (w *MarkdownWriter) writeOutcomeSection(md *markdown.Markdown, title string, items []model.ItemOutcome) {
	md.H2(title)
	md.PlainText("")

	if len(items) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		url := item.URL
		if url == "" {
			url = "-"
		}
		reason := item.Reason
		if item.Error != "" {
			reason += " (" + item.Error + ")"
		}
		rows[i] = []string{item.Name, truncateString(url, 50), reason}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Entry", "URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [fetchaudit](https://github.com/j-555/fetch-audit)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
