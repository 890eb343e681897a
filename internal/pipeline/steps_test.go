package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/notiontree/internal/hierarchy"
	"github.com/nao1215/notiontree/internal/model"
	"github.com/nao1215/notiontree/internal/sync"
)

// stubWorkspace implements sync.Workspace with canned behavior so step
// tests can drive a real driver without a network.
type stubWorkspace struct {
	nextPage   int
	created    int
	imports    int
	moves      int
	failCreate bool
}

func (f *stubWorkspace) Resolve(_ context.Context, _ string) (string, error) {
	return "anchor", nil
}

func (f *stubWorkspace) CreateChild(_ context.Context, _, _ string) (string, error) {
	if f.failCreate {
		return "", errors.New("create failed")
	}
	f.nextPage++
	f.created++
	return fmt.Sprintf("page-%d", f.nextPage), nil
}

func (f *stubWorkspace) ImportContent(_ context.Context, _, _ string, _ []byte) error {
	f.imports++
	return nil
}

func (f *stubWorkspace) SetTitle(_ context.Context, _, _ string) error {
	return nil
}

func (f *stubWorkspace) Move(_ context.Context, _, _ string) error {
	f.moves++
	return nil
}

func (f *stubWorkspace) BrowseableURL(handle string) string {
	return "https://stub.example/" + handle
}

// writeSourceTree creates a small markdown tree and returns its root:
//
//	index.md, note.md, a/guide.md (a/index.md is synthesized)
func writeSourceTree(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "wiki")
	files := map[string]string{
		filepath.Join(dir, "index.md"):      "# Home\n",
		filepath.Join(dir, "note.md"):       "see [guide](./a/guide.md)\n",
		filepath.Join(dir, "a", "guide.md"): "guide\n",
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	return dir
}

// TestBuildStep tests the hierarchy build step.
func TestBuildStep(t *testing.T) {
	t.Parallel()

	t.Run("records hierarchy in report", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		step := NewBuildStep(hierarchy.NewBuilder())

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Hierarchy) != 4 {
			t.Fatalf("expected 4 pages, got %d", len(report.Hierarchy))
		}
		if report.Hierarchy[0].Kind != model.KindRoot {
			t.Errorf("expected root first, got %v", report.Hierarchy[0].Kind)
		}
	})

	t.Run("missing source directory fails", func(t *testing.T) {
		t.Parallel()

		report := model.NewSyncReport(filepath.Join(t.TempDir(), "absent"), "https://www.notion.so/Home-0123", nil)
		step := NewBuildStep(hierarchy.NewBuilder())

		if err := step.Do(context.Background(), report); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestCreateStep tests the page creation step.
func TestCreateStep(t *testing.T) {
	t.Parallel()

	t.Run("records sealed mapping and root URL", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		workspace := &stubWorkspace{}
		driver := sync.NewDriver(workspace)

		if err := NewBuildStep(hierarchy.NewBuilder()).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := NewCreateStep(driver).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Mapping == nil || !report.Mapping.Sealed() {
			t.Fatal("expected a sealed mapping in the report")
		}
		if report.CreatedCount != 4 {
			t.Errorf("expected 4 created pages, got %d", report.CreatedCount)
		}
		if report.RootPageURL != "https://stub.example/page-1" {
			t.Errorf("unexpected root page URL %q", report.RootPageURL)
		}
	})

	t.Run("empty hierarchy fails", func(t *testing.T) {
		t.Parallel()

		report := model.NewSyncReport("wiki", "https://www.notion.so/Home-0123", nil)
		driver := sync.NewDriver(&stubWorkspace{})

		if err := NewCreateStep(driver).Do(context.Background(), report); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("workspace failure propagates", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		driver := sync.NewDriver(&stubWorkspace{failCreate: true})

		if err := NewBuildStep(hierarchy.NewBuilder()).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := NewCreateStep(driver).Do(context.Background(), report); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestUpdateLinksStep tests the link update step.
func TestUpdateLinksStep(t *testing.T) {
	t.Parallel()

	t.Run("records import counters", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		workspace := &stubWorkspace{}
		driver := sync.NewDriver(workspace)

		for _, step := range []Step{
			NewBuildStep(hierarchy.NewBuilder()),
			NewCreateStep(driver),
			NewUpdateLinksStep(driver),
		} {
			if err := step.Do(context.Background(), report); err != nil {
				t.Fatalf("%s: unexpected error: %v", step.Name(), err)
			}
		}

		if report.ImportedCount != 3 {
			t.Errorf("expected 3 imported pages, got %d", report.ImportedCount)
		}
		if report.EmptyCount != 1 {
			t.Errorf("expected 1 empty import for the synthesized index, got %d", report.EmptyCount)
		}
		if report.ResolvedLinks != 1 {
			t.Errorf("expected 1 resolved link, got %d", report.ResolvedLinks)
		}
		if workspace.imports != 3 {
			t.Errorf("expected 3 workspace imports, got %d", workspace.imports)
		}
	})

	t.Run("missing mapping fails", func(t *testing.T) {
		t.Parallel()

		report := model.NewSyncReport("wiki", "https://www.notion.so/Home-0123", nil)
		driver := sync.NewDriver(&stubWorkspace{})

		if err := NewUpdateLinksStep(driver).Do(context.Background(), report); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestMoveStep tests the page move step.
func TestMoveStep(t *testing.T) {
	t.Parallel()

	t.Run("records moved count", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		workspace := &stubWorkspace{}
		driver := sync.NewDriver(workspace)

		for _, step := range []Step{
			NewBuildStep(hierarchy.NewBuilder()),
			NewCreateStep(driver),
			NewMoveStep(driver),
		} {
			if err := step.Do(context.Background(), report); err != nil {
				t.Fatalf("%s: unexpected error: %v", step.Name(), err)
			}
		}

		if report.MovedCount != 3 {
			t.Errorf("expected 3 moved pages, got %d", report.MovedCount)
		}
		if workspace.moves != 3 {
			t.Errorf("expected 3 workspace moves, got %d", workspace.moves)
		}
	})

	t.Run("missing mapping fails", func(t *testing.T) {
		t.Parallel()

		report := model.NewSyncReport("wiki", "https://www.notion.so/Home-0123", nil)
		driver := sync.NewDriver(&stubWorkspace{})

		if err := NewMoveStep(driver).Do(context.Background(), report); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestExportPipeline tests the canonical pipeline end to end against an
// in-memory workspace.
func TestExportPipeline(t *testing.T) {
	t.Parallel()

	t.Run("runs all phases in order", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		workspace := &stubWorkspace{}
		driver := sync.NewDriver(workspace)

		p := ExportPipeline(hierarchy.NewBuilder(), driver, nil)
		wantNames := "build_hierarchy,create_pages,update_links,move_pages"
		if got := strings.Join(p.StepNames(), ","); got != wantNames {
			t.Fatalf("expected steps %s, got %s", wantNames, got)
		}

		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.PerformedSteps) != 4 {
			t.Errorf("expected 4 performed steps, got %d", len(report.PerformedSteps))
		}
		if workspace.created != 4 || workspace.imports != 3 || workspace.moves != 3 {
			t.Errorf("unexpected workspace activity: %+v", workspace)
		}
		if !report.Succeeded() {
			t.Error("expected a successful report")
		}
	})

	t.Run("nested creation skips no phases", func(t *testing.T) {
		t.Parallel()

		dir := writeSourceTree(t)
		report := model.NewSyncReport(dir, "https://www.notion.so/Home-0123", nil)
		workspace := &stubWorkspace{}
		driver := sync.NewDriver(workspace)

		p := ExportPipeline(hierarchy.NewBuilder(), driver, nil, WithExportFlat(false))
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if workspace.moves != 3 {
			t.Errorf("expected moves to run under nested creation, got %d", workspace.moves)
		}
	})
}
