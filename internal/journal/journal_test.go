package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/notiontree/internal/model"
)

// setupTestJournal creates a temporary journal for testing.
func setupTestJournal(t *testing.T) (*Journal, func()) {
	t.Helper()

	j, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}

	cleanup := func() {
		_ = j.Close()
	}

	return j, cleanup
}

// finishedReport builds a report for a run that completed all phases.
func finishedReport(sourceDir string, started time.Time) *model.SyncReport {
	report := model.NewSyncReport(sourceDir, "https://www.notion.so/Home-0123456789abcdef0123456789abcdef", nil)
	report.StartedAt = started
	report.FinishedAt = started.Add(90 * time.Second)
	report.Hierarchy = []*model.Page{
		model.NewPage(model.KindRoot, "", filepath.Join(sourceDir, "index.md")),
		model.NewPage(model.KindLeaf, filepath.Join(sourceDir, "index.md"), filepath.Join(sourceDir, "note.md")),
		model.NewPage(model.KindNode, filepath.Join(sourceDir, "index.md"), filepath.Join(sourceDir, "a", "index.md")),
	}
	report.RootPageURL = "https://www.notion.so/abcdef"
	report.CreatedCount = 3
	report.ImportedCount = 2
	report.MovedCount = 2
	report.ResolvedLinks = 1
	return report
}

// TestOpen tests journal opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates journal in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "data", "notiontree")
		j, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open journal: %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "notiontree.db")); os.IsNotExist(err) {
			t.Error("journal file was not created")
		}
	})

	t.Run("refuses to create when CreateIfNotExists is false", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "absent")
		opts := Options{CreateIfNotExists: false, EnableWAL: true}

		if _, err := Open(dbDir, opts); err == nil {
			t.Fatal("expected error for missing journal")
		}

		if _, err := os.Stat(dbDir); !os.IsNotExist(err) {
			t.Error("journal directory should not have been created")
		}
	})

	t.Run("opens an existing journal without create", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		j1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create journal: %v", err)
		}
		_ = j1.Close()

		j2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen journal: %v", err)
		}
		defer j2.Close()
	})
}

// TestSaveRun tests appending run rows.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	t.Run("stores a successful run", func(t *testing.T) {
		t.Parallel()

		j, cleanup := setupTestJournal(t)
		defer cleanup()

		report := finishedReport("wiki", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		id, err := j.SaveRun(context.Background(), report, "secret-token")
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if id <= 0 {
			t.Errorf("expected positive row id, got %d", id)
		}

		runs, err := j.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		run := runs[0]
		if run.Status != StatusSuccess {
			t.Errorf("expected status %q, got %q", StatusSuccess, run.Status)
		}
		if run.SourceDir != "wiki" {
			t.Errorf("expected source dir wiki, got %q", run.SourceDir)
		}
		if run.RootPageURL != "https://www.notion.so/abcdef" {
			t.Errorf("unexpected root page URL %q", run.RootPageURL)
		}
		if run.PageCount != 3 || run.NodeCount != 2 || run.LeafCount != 1 {
			t.Errorf("unexpected kind counts: pages %d, nodes %d, leaves %d",
				run.PageCount, run.NodeCount, run.LeafCount)
		}
		if run.CreatedCount != 3 || run.ImportedCount != 2 || run.MovedCount != 2 {
			t.Errorf("unexpected counters: created %d, imported %d, moved %d",
				run.CreatedCount, run.ImportedCount, run.MovedCount)
		}
		if run.TokenFingerprint != Fingerprint("secret-token") {
			t.Errorf("unexpected fingerprint %q", run.TokenFingerprint)
		}
		if run.Error != "" {
			t.Errorf("expected empty error, got %q", run.Error)
		}
		if run.Duration() != 90*time.Second {
			t.Errorf("expected 90s duration, got %s", run.Duration())
		}
	})

	t.Run("stores a failed run with its error", func(t *testing.T) {
		t.Parallel()

		j, cleanup := setupTestJournal(t)
		defer cleanup()

		report := finishedReport("wiki", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		report.Error = errors.New("workspace rejected the session token")
		report.ErrorMessage = report.Error.Error()

		if _, err := j.SaveRun(context.Background(), report, "tok"); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		runs, err := j.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if runs[0].Status != StatusFailed {
			t.Errorf("expected status %q, got %q", StatusFailed, runs[0].Status)
		}
		if runs[0].Error != "workspace rejected the session token" {
			t.Errorf("unexpected error text %q", runs[0].Error)
		}
	})

	t.Run("stores a cancelled run as timeout", func(t *testing.T) {
		t.Parallel()

		j, cleanup := setupTestJournal(t)
		defer cleanup()

		report := finishedReport("wiki", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		report.TimedOut = true

		if _, err := j.SaveRun(context.Background(), report, "tok"); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		runs, err := j.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if runs[0].Status != StatusTimeout {
			t.Errorf("expected status %q, got %q", StatusTimeout, runs[0].Status)
		}
	})
}

// TestListRuns tests ordering and limits.
func TestListRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns newest runs first", func(t *testing.T) {
		t.Parallel()

		j, cleanup := setupTestJournal(t)
		defer cleanup()

		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		for i, name := range []string{"first", "second", "third"} {
			report := finishedReport(name, base.Add(time.Duration(i)*time.Minute))
			if _, err := j.SaveRun(context.Background(), report, "tok"); err != nil {
				t.Fatalf("failed to save run: %v", err)
			}
		}

		runs, err := j.ListRuns(context.Background(), 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].SourceDir != "third" || runs[1].SourceDir != "second" {
			t.Errorf("expected newest first, got %q then %q", runs[0].SourceDir, runs[1].SourceDir)
		}
	})

	t.Run("applies the default limit for non-positive values", func(t *testing.T) {
		t.Parallel()

		j, cleanup := setupTestJournal(t)
		defer cleanup()

		report := finishedReport("wiki", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		if _, err := j.SaveRun(context.Background(), report, "tok"); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		runs, err := j.ListRuns(context.Background(), -1)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})

	t.Run("returns no runs for an empty journal", func(t *testing.T) {
		t.Parallel()

		j, cleanup := setupTestJournal(t)
		defer cleanup()

		runs, err := j.ListRuns(context.Background(), 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no runs, got %d", len(runs))
		}
	})
}

// TestFingerprint tests token fingerprinting.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("is stable and short", func(t *testing.T) {
		t.Parallel()

		a := Fingerprint("token_v2_value")
		b := Fingerprint("token_v2_value")
		if a != b {
			t.Errorf("expected stable fingerprint, got %q and %q", a, b)
		}
		if len(a) != 16 {
			t.Errorf("expected 16 hex characters, got %d", len(a))
		}
	})

	t.Run("distinguishes tokens", func(t *testing.T) {
		t.Parallel()

		if Fingerprint("one") == Fingerprint("two") {
			t.Error("expected different tokens to produce different fingerprints")
		}
	})

	t.Run("returns empty for empty token", func(t *testing.T) {
		t.Parallel()

		if got := Fingerprint(""); got != "" {
			t.Errorf("expected empty fingerprint, got %q", got)
		}
	})
}
