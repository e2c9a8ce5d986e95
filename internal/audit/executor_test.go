package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/j-555/fetch-audit/internal/domains"
	"github.com/j-555/fetch-audit/internal/grouper"
	"github.com/j-555/fetch-audit/internal/model"
)

func newTestExecutor(opts ...ExecutorOption) *Executor {
	return NewExecutor(grouper.New(domains.NewNormalizer(), 80), opts...)
}

// recordingDeleter collects deleted ids and fails the configured ones.
type recordingDeleter struct {
	deleted []string
	failing map[string]error
}

func (d *recordingDeleter) deleteFn(_ context.Context, id string) error {
	if err, ok := d.failing[id]; ok {
		return err
	}
	d.deleted = append(d.deleted, id)
	return nil
}

func TestExecutorRun(t *testing.T) {
	t.Parallel()

	t.Run("incomplete entries are deleted unconditionally", func(t *testing.T) {
		t.Parallel()
		entries := []model.CredentialEntry{
			model.MustNewCredentialEntry("1", "Empty", "", "", "example.com"),
			model.MustNewCredentialEntry("2", "OK", "bob", "x", "example.com"),
		}
		d := &recordingDeleter{}

		report, err := newTestExecutor().Run(context.Background(), "test", entries, d.deleteFn, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.DeletedItems) != 1 {
			t.Fatalf("expected 1 deleted item, got %d", len(report.DeletedItems))
		}
		got := report.DeletedItems[0]
		if got.Name != "Empty" || got.Reason != "missing both username and password" {
			t.Errorf("deleted = %q reason %q", got.Name, got.Reason)
		}
		if len(d.deleted) != 1 || d.deleted[0] != "1" {
			t.Errorf("deleteFn saw %v, want [1]", d.deleted)
		}
	})

	t.Run("duplicates keep the canonical and delete the rest", func(t *testing.T) {
		t.Parallel()
		entries := []model.CredentialEntry{
			model.MustNewCredentialEntry("1", "Amazon (old)", "bob", "", "amazon.com"),
			model.MustNewCredentialEntry("2", "Amazon", "bob", "x", "www.amazon.com"),
		}
		d := &recordingDeleter{}

		report, err := newTestExecutor().Run(context.Background(), "test", entries, d.deleteFn, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.KeptItems) != 1 {
			t.Fatalf("expected 1 kept item, got %d", len(report.KeptItems))
		}
		kept := report.KeptItems[0]
		if kept.Name != "Amazon" {
			t.Errorf("kept = %q, want Amazon", kept.Name)
		}
		if kept.Reason != "most complete entry (completeness 2 of 2)" {
			t.Errorf("kept reason = %q", kept.Reason)
		}

		if len(report.DeletedItems) != 1 {
			t.Fatalf("expected 1 deleted item, got %d", len(report.DeletedItems))
		}
		deleted := report.DeletedItems[0]
		if deleted.Name != "Amazon (old)" || deleted.Reason != "duplicate of Amazon" {
			t.Errorf("deleted = %q reason %q", deleted.Name, deleted.Reason)
		}

		if len(report.Clusters) != 1 || report.Clusters[0].ServiceIdentity != "amazon.com" {
			t.Errorf("Clusters = %+v", report.Clusters)
		}
	})

	t.Run("singletons are kept with reason single entry", func(t *testing.T) {
		t.Parallel()
		entries := []model.CredentialEntry{
			model.MustNewCredentialEntry("1", "GitHub", "bob", "x", "github.com"),
			model.MustNewCredentialEntry("2", "Local", "bob", "x", ""),
		}
		d := &recordingDeleter{}

		report, err := newTestExecutor().Run(context.Background(), "test", entries, d.deleteFn, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.KeptItems) != 2 {
			t.Fatalf("expected 2 kept items, got %d", len(report.KeptItems))
		}
		for _, kept := range report.KeptItems {
			if kept.Reason != "single entry" {
				t.Errorf("kept %q reason = %q, want single entry", kept.Name, kept.Reason)
			}
		}
		if len(d.deleted) != 0 {
			t.Errorf("deleteFn saw %v, want no deletions", d.deleted)
		}
	})

	t.Run("processed urls are recorded in input order", func(t *testing.T) {
		t.Parallel()
		entries := []model.CredentialEntry{
			model.MustNewCredentialEntry("1", "A", "bob", "x", "a.example.com"),
			model.MustNewCredentialEntry("2", "B", "bob", "x", ""),
			model.MustNewCredentialEntry("3", "C", "bob", "x", "c.example.com"),
		}
		d := &recordingDeleter{}

		report, err := newTestExecutor().Run(context.Background(), "test", entries, d.deleteFn, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"a.example.com", "c.example.com"}
		if len(report.ProcessedURLs) != len(want) {
			t.Fatalf("ProcessedURLs = %v, want %v", report.ProcessedURLs, want)
		}
		for i, url := range want {
			if report.ProcessedURLs[i] != url {
				t.Errorf("ProcessedURLs[%d] = %q, want %q", i, report.ProcessedURLs[i], url)
			}
		}
	})
}

func TestExecutorPartialFailure(t *testing.T) {
	t.Parallel()

	entries := []model.CredentialEntry{
		model.MustNewCredentialEntry("1", "Empty A", "", "", ""),
		model.MustNewCredentialEntry("2", "Empty B", "", "", ""),
		model.MustNewCredentialEntry("3", "Empty C", "", "", ""),
	}
	d := &recordingDeleter{
		failing: map[string]error{"2": errors.New("item is locked")},
	}

	report, err := newTestExecutor().Run(context.Background(), "test", entries, d.deleteFn, nil)
	if err != nil {
		t.Fatalf("partial failure must not abort the run: %v", err)
	}

	if len(report.DeletedItems) != 2 {
		t.Errorf("expected 2 deleted items, got %d", len(report.DeletedItems))
	}
	if len(report.FailedItems) != 1 {
		t.Fatalf("expected 1 failed item, got %d", len(report.FailedItems))
	}
	failed := report.FailedItems[0]
	if failed.ID != "2" || failed.Action != model.ActionFailed {
		t.Errorf("failed item = %+v", failed)
	}
	if failed.Error != "item is locked" {
		t.Errorf("failed error = %q, want item is locked", failed.Error)
	}
	if len(d.deleted) != 2 {
		t.Errorf("deleteFn completed %v, want the two non-failing ids", d.deleted)
	}
}

func TestExecutorDryRun(t *testing.T) {
	t.Parallel()

	entries := []model.CredentialEntry{
		model.MustNewCredentialEntry("1", "Empty", "", "", ""),
		model.MustNewCredentialEntry("2", "A", "bob", "x", "amazon.com"),
		model.MustNewCredentialEntry("3", "B", "bob", "x", "www.amazon.com"),
	}
	d := &recordingDeleter{}

	report, err := newTestExecutor(WithDryRun(true)).Run(context.Background(), "test", entries, d.deleteFn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.DryRun {
		t.Error("expected DryRun to be recorded on the report")
	}
	if len(report.DeletedItems) != 2 {
		t.Errorf("expected 2 would-be deletions, got %d", len(report.DeletedItems))
	}
	if len(d.deleted) != 0 {
		t.Errorf("dry run must not call deleteFn, saw %v", d.deleted)
	}
}

func TestExecutorProgress(t *testing.T) {
	t.Parallel()

	entries := []model.CredentialEntry{
		model.MustNewCredentialEntry("1", "Empty A", "", "", ""),
		model.MustNewCredentialEntry("2", "Empty B", "", "", ""),
	}
	d := &recordingDeleter{}

	var calls [][2]int
	_, err := newTestExecutor().Run(context.Background(), "test", entries, d.deleteFn, func(current, total int) {
		calls = append(calls, [2]int{current, total})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) == 0 {
		t.Fatal("expected progress callbacks")
	}
	if calls[0] != [2]int{0, 2} {
		t.Errorf("first call = %v, want [0 2]", calls[0])
	}
	if calls[len(calls)-1] != [2]int{2, 2} {
		t.Errorf("last call = %v, want [2 2]", calls[len(calls)-1])
	}
}

func TestExecutorCancellation(t *testing.T) {
	t.Parallel()

	entries := []model.CredentialEntry{
		model.MustNewCredentialEntry("1", "Empty A", "", "", ""),
		model.MustNewCredentialEntry("2", "Empty B", "", "", ""),
	}
	d := &recordingDeleter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestExecutor().Run(ctx, "test", entries, d.deleteFn, nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if report == nil {
		t.Fatal("expected a partial report despite cancellation")
	}
	if len(d.deleted) != 0 {
		t.Errorf("no deletions expected after immediate cancel, saw %v", d.deleted)
	}
}
