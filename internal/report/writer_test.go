package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/j-555/fetch-audit/internal/model"
)

// testSummary builds a summary with one finding per severity band.
func testSummary() *model.Summary {
	report := model.NewHealthReport("vault.json")
	report.AuditedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	report.TotalAudited = 5

	report.BreachedEntries = []model.BreachedEntry{
		{
			Entry:       model.MustNewCredentialEntry("item-1", "Amazon", "bob", "zq7!breached-secret", "https://amazon.com"),
			BreachCount: 9545824,
		},
	}
	report.WeakEntries = []model.WeakEntry{
		{
			Entry:       model.MustNewCredentialEntry("item-2", "GitHub", "bob", "zq7!weak-secret", "https://github.com"),
			EntropyBits: 14,
		},
	}
	report.DuplicateClusters = []model.DuplicateCluster{
		{
			ServiceIdentity: "amazon.com",
			LoginIdentity:   "bob",
			Members: []model.CredentialEntry{
				model.MustNewCredentialEntry("item-1", "Amazon", "bob", "zq7!breached-secret", "https://amazon.com"),
				model.MustNewCredentialEntry("item-3", "amazon 2", "bob", "zq7!breached-secret", "https://www.amazon.com"),
			},
		},
	}
	report.IncompleteEntries = []model.CredentialEntry{
		model.MustNewCredentialEntry("item-4", "Empty", "", "", "https://example.com"),
	}

	return model.NewSummary(report)
}

func testCleanupReport(dryRun bool) *model.CleanupReport {
	report := model.NewCleanupReport("vault.json", dryRun)
	report.StartedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	report.ProcessedURLs = []string{"https://amazon.com", "https://www.amazon.com"}
	report.DeletedItems = []model.ItemOutcome{
		{ID: "item-3", Name: "amazon 2", URL: "https://www.amazon.com", Action: model.ActionDeleted, Reason: "duplicate of Amazon"},
	}
	report.KeptItems = []model.ItemOutcome{
		{ID: "item-1", Name: "Amazon", URL: "https://amazon.com", Action: model.ActionKept, Reason: "most complete entry (completeness 3 of 2)"},
	}
	report.Clusters = []model.ClusterSummary{
		{ServiceIdentity: "amazon.com", MemberNames: []string{"Amazon", "amazon 2"}},
	}
	return report
}

func TestSimpleWriterWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.WriteSummary(testSummary())
	if err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("WriteSummary() n = %d, buffer has %d bytes", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"CREDENTIAL HEALTH REPORT",
		"Source:          vault.json",
		"Entries Audited: 5",
		"Status:          Complete",
		"CRITICAL: 1",
		"HIGH:     1",
		"MEDIUM:   1",
		"INFO:     1",
		"TOTAL:    4 findings",
		"Password Found in Breach Corpus",
		"Weak Password",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleWriterNoSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))

	if _, err := w.WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	// Raw passwords must never appear in report output.
	for _, secret := range []string{"zq7!breached-secret", "zq7!weak-secret"} {
		if strings.Contains(buf.String(), secret) {
			t.Errorf("output leaks password %q", secret)
		}
	}
}

func TestSimpleWriterVerbose(t *testing.T) {
	t.Parallel()

	var plain, verbose bytes.Buffer
	if _, err := NewSimpleWriter(&plain).WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	if !strings.Contains(verbose.String(), "Recommendation:") {
		t.Error("verbose output missing recommendations")
	}
	if strings.Contains(plain.String(), "Recommendation:") {
		t.Error("plain output unexpectedly contains recommendations")
	}
}

func TestSimpleWriterWriteCleanup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		dryRun     bool
		wantHeader string
		wantVerb   string
	}{
		{name: "dry run", dryRun: true, wantHeader: "CLEANUP PLAN (DRY RUN)", wantVerb: "WOULD DELETE (1)"},
		{name: "live run", dryRun: false, wantHeader: "CLEANUP REPORT", wantVerb: "DELETED (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if _, err := NewSimpleWriter(&buf).WriteCleanup(testCleanupReport(tt.dryRun)); err != nil {
				t.Fatalf("WriteCleanup() error = %v", err)
			}

			out := buf.String()
			for _, want := range []string{tt.wantHeader, tt.wantVerb, "duplicate of Amazon", "KEPT (1)"} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestJSONWriterWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	if _, err := w.WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	var got model.Summary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Source != "vault.json" || got.CriticalCount != 1 || got.TotalAudited != 5 {
		t.Errorf("round-tripped summary = %+v, unexpected", got)
	}
	if len(got.Findings) != 4 {
		t.Errorf("Findings = %d, want 4", len(got.Findings))
	}
}

func TestJSONWriterPrettyPrint(t *testing.T) {
	t.Parallel()

	var compact, pretty bytes.Buffer
	if _, err := NewJSONWriter(&compact).WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	if _, err := NewJSONWriter(&pretty, WithPrettyPrint()).WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	if !strings.Contains(pretty.String(), "\n  ") {
		t.Error("pretty output has no indentation")
	}
	if strings.Count(compact.String(), "\n") != 1 {
		t.Error("compact output should be a single line plus trailing newline")
	}
}

func TestJSONWriterWriteCleanup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).WriteCleanup(testCleanupReport(true)); err != nil {
		t.Fatalf("WriteCleanup() error = %v", err)
	}

	var got model.CleanupReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !got.DryRun || len(got.DeletedItems) != 1 || got.DeletedItems[0].Reason != "duplicate of Amazon" {
		t.Errorf("round-tripped report = %+v, unexpected", got)
	}
}

func TestFullJSONWriterWrapsVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewFullJSONWriter(&buf, "1.2.3")

	if _, err := w.WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	var got JSONReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", got.Version)
	}
	if got.Summary == nil || got.Summary.Source != "vault.json" {
		t.Errorf("Summary = %+v, want vault.json summary", got.Summary)
	}
}

func TestMarkdownWriterWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).WriteSummary(testSummary()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Credential Health Report",
		"## Severity Summary",
		"## Findings",
		"`vault.json`",
		"mermaid",
		"🔴 Critical",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMarkdownWriterEmptySummary(t *testing.T) {
	t.Parallel()

	report := model.NewHealthReport("vault.json")
	report.AuditedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).WriteSummary(model.NewSummary(report)); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "No credential hygiene findings.") {
		t.Errorf("output missing empty findings note:\n%s", out)
	}
	if strings.Contains(out, "mermaid") {
		t.Error("empty summary should not render a pie chart")
	}
}

func TestMarkdownWriterWriteCleanup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).WriteCleanup(testCleanupReport(true)); err != nil {
		t.Fatalf("WriteCleanup() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Cleanup Plan (Dry Run)",
		"## Deleted",
		"## Kept",
		"duplicate of Amazon",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, jsonBuf bytes.Buffer
	mw := NewMultiWriter(
		NewSimpleWriter(&text),
		NewJSONWriter(&jsonBuf),
	)

	n, err := mw.WriteSummary(testSummary())
	if err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	if n != text.Len()+jsonBuf.Len() {
		t.Errorf("total bytes = %d, want %d", n, text.Len()+jsonBuf.Len())
	}
	if text.Len() == 0 || jsonBuf.Len() == 0 {
		t.Error("one of the writers received no output")
	}

	if _, err := mw.WriteCleanup(testCleanupReport(false)); err != nil {
		t.Fatalf("WriteCleanup() error = %v", err)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "short string unchanged", in: "abc", maxLen: 10, want: "abc"},
		{name: "long string truncated", in: "abcdefghij", maxLen: 8, want: "abcde..."},
		{name: "tiny max", in: "abcdef", maxLen: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}
