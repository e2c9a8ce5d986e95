package database

import (
	"context"
	"testing"
	"time"

	"github.com/j-555/fetch-audit/internal/model"
)

// openTestDB opens an AuditDB in a per-test temporary directory.
func openTestDB(t *testing.T) *AuditDB {
	t.Helper()

	adb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := adb.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return adb
}

func testSummary(source string, auditedAt time.Time) *model.Summary {
	report := model.NewHealthReport(source)
	report.AuditedAt = auditedAt
	report.TotalAudited = 3
	report.WeakEntries = []model.WeakEntry{
		{
			Entry:       model.MustNewCredentialEntry("item-1", "Example", "bob", "abc", "https://example.com"),
			EntropyBits: 14,
		},
	}
	return model.NewSummary(report)
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	adb, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := adb.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening without create must now succeed.
	adb, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if err := adb.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	t.Parallel()

	if _, err := Open(t.TempDir(), Options{CreateIfNotExists: false}); err == nil {
		t.Error("Open() error = nil, want error for missing database")
	}
}

func TestSaveAndGetLatestRun(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	auditedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	summary := testSummary("vault.json", auditedAt)

	id, err := adb.SaveAuditRun(ctx, summary)
	if err != nil {
		t.Fatalf("SaveAuditRun() error = %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveAuditRun() id = %d, want > 0", id)
	}

	got, err := adb.GetLatestRun(ctx, "vault.json")
	if err != nil {
		t.Fatalf("GetLatestRun() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetLatestRun() = nil, want summary")
	}
	if got.Source != "vault.json" || got.TotalAudited != 3 {
		t.Errorf("summary = %q/%d, want vault.json/3", got.Source, got.TotalAudited)
	}
	if got.HighCount != 1 {
		t.Errorf("HighCount = %d, want 1 (weak password)", got.HighCount)
	}
	if len(got.Findings) != 1 {
		t.Errorf("Findings = %d, want 1", len(got.Findings))
	}
}

func TestGetLatestRunNoRows(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)

	got, err := adb.GetLatestRun(context.Background(), "never-audited")
	if err != nil {
		t.Fatalf("GetLatestRun() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetLatestRun() = %+v, want nil", got)
	}
}

func TestSaveAuditRunNil(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)

	if _, err := adb.SaveAuditRun(context.Background(), nil); err == nil {
		t.Error("SaveAuditRun(nil) error = nil, want error")
	}
}

func TestGetHistoryOrderAndFilter(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		if _, err := adb.SaveAuditRun(ctx, testSummary("vault.json", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveAuditRun() error = %v", err)
		}
	}
	if _, err := adb.SaveAuditRun(ctx, testSummary("export.csv", base)); err != nil {
		t.Fatalf("SaveAuditRun() error = %v", err)
	}

	history, err := adb.GetHistory(ctx, "vault.json")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("GetHistory() returned %d runs, want 3", len(history))
	}
	// Most recent first.
	for i := 1; i < len(history); i++ {
		if history[i].AuditedAt.After(history[i-1].AuditedAt) {
			t.Errorf("history not ordered: run %d at %v after run %d at %v",
				i, history[i].AuditedAt, i-1, history[i-1].AuditedAt)
		}
	}

	all, err := adb.GetHistory(ctx, "")
	if err != nil {
		t.Fatalf("GetHistory(all) error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("GetHistory(all) returned %d runs, want 4", len(all))
	}
}

func TestListSources(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, source := range []string{"vault.json", "export.csv", "vault.json"} {
		if _, err := adb.SaveAuditRun(ctx, testSummary(source, now)); err != nil {
			t.Fatalf("SaveAuditRun() error = %v", err)
		}
	}

	sources, err := adb.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}
	if len(sources) != 2 || sources[0] != "export.csv" || sources[1] != "vault.json" {
		t.Errorf("ListSources() = %v, want [export.csv vault.json]", sources)
	}
}

func TestGetRunByID(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	id, err := adb.SaveAuditRun(ctx, testSummary("vault.json", time.Now().UTC()))
	if err != nil {
		t.Fatalf("SaveAuditRun() error = %v", err)
	}

	got, err := adb.GetRunByID(ctx, id)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if got == nil || got.Source != "vault.json" {
		t.Errorf("GetRunByID() = %+v, want vault.json summary", got)
	}

	missing, err := adb.GetRunByID(ctx, id+100)
	if err != nil {
		t.Fatalf("GetRunByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetRunByID(missing) = %+v, want nil", missing)
	}
}

func TestComputeDelta(t *testing.T) {
	t.Parallel()

	previous := RunMetadata{CriticalCount: 2, HighCount: 5, InfoCount: 1}
	current := RunMetadata{CriticalCount: 0, HighCount: 6, InfoCount: 1}

	delta := ComputeDelta(previous, current)
	want := Delta{Critical: -2, High: 1}
	if delta != want {
		t.Errorf("ComputeDelta() = %+v, want %+v", delta, want)
	}
	if delta.IsZero() {
		t.Error("IsZero() = true, want false")
	}

	if !ComputeDelta(previous, previous).IsZero() {
		t.Error("IsZero() = false for identical runs, want true")
	}
}

func TestRunMetadataTotalFindings(t *testing.T) {
	t.Parallel()

	meta := RunMetadata{CriticalCount: 1, HighCount: 2, MediumCount: 3, LowCount: 4, InfoCount: 5}
	if got := meta.TotalFindings(); got != 15 {
		t.Errorf("TotalFindings() = %d, want 15", got)
	}
}
