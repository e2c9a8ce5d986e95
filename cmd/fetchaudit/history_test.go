package main

import (
	"testing"
	"time"

	"github.com/j-555/fetch-audit/internal/database"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [source]" {
			t.Errorf("expected use 'history [source]', got %q", cmd.Use)
		}
	})

	t.Run("has selection flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"run-id", "latest", "json", "markdown"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestHistoryCommandFlagValidation tests flag combinations rejected
// before any database access.
func TestHistoryCommandFlagValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "json and markdown conflict",
			args: []string{"history", "--json", "--markdown", "vault.json"},
		},
		{
			name: "latest requires a source",
			args: []string{"history", "--latest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := NewRootCmd()
			root.SetArgs(tt.args)
			if err := root.Execute(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestFormatRunFindings tests the compact severity count rendering.
func TestFormatRunFindings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  database.RunMetadata
		want string
	}{
		{
			name: "clean run",
			run:  database.RunMetadata{},
			want: "clean",
		},
		{
			name: "all bands",
			run: database.RunMetadata{
				CriticalCount: 1,
				HighCount:     2,
				MediumCount:   3,
				LowCount:      4,
				InfoCount:     5,
			},
			want: "C:1 H:2 M:3 L:4 I:5",
		},
		{
			name: "sparse bands",
			run: database.RunMetadata{
				HighCount: 2,
				InfoCount: 1,
			},
			want: "H:2 I:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatRunFindings(tt.run); got != tt.want {
				t.Errorf("formatRunFindings() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFormatDeltaSummary tests the compact delta rendering.
func TestFormatDeltaSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		delta database.Delta
		want  string
	}{
		{
			name:  "no change",
			delta: database.Delta{},
			want:  "no change",
		},
		{
			name:  "mixed signs",
			delta: database.Delta{Critical: 1, High: -2},
			want:  "C:+1 H:-2",
		},
		{
			name:  "single band",
			delta: database.Delta{Medium: 3},
			want:  "M:+3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatDeltaSummary(tt.delta); got != tt.want {
				t.Errorf("formatDeltaSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestListRunHistoryDeltaDirection tests that a row's delta compares it
// with the run that preceded it in time.
func TestListRunHistoryDeltaDirection(t *testing.T) {
	t.Parallel()

	now := time.Now()
	previous := database.RunMetadata{ID: 1, AuditedAt: now.Add(-time.Hour), HighCount: 3}
	current := database.RunMetadata{ID: 2, AuditedAt: now, HighCount: 1}

	delta := database.ComputeDelta(previous, current)
	if delta.High != -2 {
		t.Errorf("High delta = %d, want -2", delta.High)
	}
	if got := formatDeltaSummary(delta); got != "H:-2" {
		t.Errorf("formatDeltaSummary() = %q, want 'H:-2'", got)
	}
}
