package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/notiontree/internal/links"
	"github.com/nao1215/notiontree/internal/model"
)

// Driver executes the remote phases of an export run against a Workspace.
type Driver struct {
	// workspace is the remote page store.
	workspace Workspace

	// logger receives per-page progress records.
	logger *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger for progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDriver creates a driver bound to the given workspace.
func NewDriver(workspace Workspace, opts ...Option) *Driver {
	d := &Driver{
		workspace: workspace,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateHierarchy creates one empty page per descriptor and returns the
// sealed filename mapping. The root descriptor's page is created under the
// page at rootParentURL; every other page is created under the root page
// when flat is true, or under its mapped parent when flat is false.
//
// Flat creation is the normal path: MovePages rebuilds the tree afterwards,
// and creating under the root keeps every page reachable while the run is
// in flight. Nested creation skips the need for moves but any failure
// strands a partial tree in its final location.
func (d *Driver) CreateHierarchy(ctx context.Context, rootParentURL string, hierarchy []*model.Page, flat bool) (*model.Mapping, error) {
	started := time.Now()
	d.logger.DebugContext(ctx, "creating pages", "count", len(hierarchy), "flat", flat)

	mapping := model.NewMapping()
	rootHandle := ""
	for i, page := range hierarchy {
		if !page.Kind.Valid() {
			return nil, fmt.Errorf("%w: %d for %s", ErrInvalidKind, page.Kind, page.Filename)
		}
		pageStarted := time.Now()

		var parentHandle string
		switch {
		case page.Kind == model.KindRoot:
			handle, err := d.workspace.Resolve(ctx, rootParentURL)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve root parent %q: %w", rootParentURL, err)
			}
			parentHandle = handle
		case flat:
			if rootHandle == "" {
				return nil, fmt.Errorf("%w: no root precedes %s", ErrParentNotMapped, page.Filename)
			}
			parentHandle = rootHandle
		default:
			ref, ok := mapping.Resolve(page.ParentFilename)
			if !ok {
				return nil, fmt.Errorf("%w: %s (parent of %s)", ErrParentNotMapped, page.ParentFilename, page.Filename)
			}
			parentHandle = ref.Handle
		}

		handle, err := d.workspace.CreateChild(ctx, parentHandle, page.Title())
		if err != nil {
			return nil, fmt.Errorf("failed to create page for %s: %w", page.Filename, err)
		}
		if page.Kind == model.KindRoot {
			rootHandle = handle
		}

		ref := model.PageRef{Handle: handle, URL: d.workspace.BrowseableURL(handle)}
		if err := mapping.Put(page.Filename, ref); err != nil {
			return nil, err
		}

		d.logger.DebugContext(ctx, "created stub page",
			"index", i+1,
			"total", len(hierarchy),
			"filename", page.Filename,
			"elapsed", time.Since(pageStarted))
	}
	mapping.Seal()

	d.logger.DebugContext(ctx, "created stub pages",
		"count", mapping.Len(),
		"elapsed", time.Since(started))
	return mapping, nil
}

// UpdateStats summarizes one link update pass.
type UpdateStats struct {
	// Imported counts pages whose content import completed.
	Imported int

	// Empty counts pages imported with empty content because their source
	// file could not be read.
	Empty int

	// Retried counts imports that fell back to the empty-payload retry.
	Retried int

	// Resolved counts rewritten references across all pages.
	Resolved int
}

// UpdateLinks rewrites each document's references to their workspace URLs
// and imports the result, then reasserts the page title because an import
// derives the title from the content. The root page keeps its stub body.
//
// A page whose source file cannot be read is imported with empty content;
// synthesized index descriptors have no file at all and land here.
func (d *Driver) UpdateLinks(ctx context.Context, hierarchy []*model.Page, mapping *model.Mapping, sourceDir string, wikiRoots []string) (*UpdateStats, error) {
	started := time.Now()
	d.logger.DebugContext(ctx, "updating pages with workspace links")

	resolver := links.NewResolver(mapping, sourceDir, wikiRoots, links.WithResolverLogger(d.logger))
	stats := &UpdateStats{}

	for i, page := range hierarchy {
		if page.Kind == model.KindRoot {
			continue
		}
		pageStarted := time.Now()

		ref, ok := mapping.Resolve(page.Filename)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPageNotMapped, page.Filename)
		}

		content := ""
		raw, err := os.ReadFile(page.Filename)
		if err != nil {
			stats.Empty++
			d.logger.DebugContext(ctx, "source not readable, importing empty content",
				"filename", page.Filename,
				"error", err)
		} else {
			var resolved int
			content, resolved = resolver.Rewrite(page, string(raw))
			stats.Resolved += resolved
		}

		if err := d.importContent(ctx, ref.Handle, page, []byte(content), stats); err != nil {
			return nil, err
		}
		if err := d.workspace.SetTitle(ctx, ref.Handle, page.Title()); err != nil {
			return nil, fmt.Errorf("failed to restore title of %s: %w", page.Filename, err)
		}
		stats.Imported++

		d.logger.DebugContext(ctx, "updated page",
			"index", i,
			"total", len(hierarchy)-1,
			"filename", page.Filename,
			"elapsed", time.Since(pageStarted))
	}

	d.logger.DebugContext(ctx, "updated pages with workspace links",
		"imported", stats.Imported,
		"resolved", stats.Resolved,
		"elapsed", time.Since(started))
	return stats, nil
}

// importContent imports the page body, retrying once with an empty payload
// so a page that cannot carry its content still ends up in the tree. The
// second failure is fatal.
func (d *Driver) importContent(ctx context.Context, handle string, page *model.Page, content []byte, stats *UpdateStats) error {
	name := filepath.Base(page.Filename)
	err := d.workspace.ImportContent(ctx, handle, name, content)
	if err == nil {
		return nil
	}

	d.logger.WarnContext(ctx, "import failed, retrying with empty content",
		"filename", page.Filename,
		"error", err)
	stats.Retried++

	if err := d.workspace.ImportContent(ctx, handle, name, nil); err != nil {
		return fmt.Errorf("failed to import %s: %w", page.Filename, err)
	}
	return nil
}

// MovePages re-parents every non-root page under its hierarchy parent and
// returns the number of pages moved.
//
// Iteration runs in reverse emission order with first-child placement, so
// each parent's children end up in emission order once all moves complete.
func (d *Driver) MovePages(ctx context.Context, hierarchy []*model.Page, mapping *model.Mapping) (int, error) {
	started := time.Now()
	d.logger.DebugContext(ctx, "moving pages into hierarchy")

	moved := 0
	for i := len(hierarchy) - 1; i >= 0; i-- {
		page := hierarchy[i]
		if page.Kind == model.KindRoot {
			continue
		}
		pageStarted := time.Now()

		parentRef, ok := mapping.Resolve(page.ParentFilename)
		if !ok {
			return moved, fmt.Errorf("%w: %s (parent of %s)", ErrParentNotMapped, page.ParentFilename, page.Filename)
		}
		pageRef, ok := mapping.Resolve(page.Filename)
		if !ok {
			return moved, fmt.Errorf("%w: %s", ErrPageNotMapped, page.Filename)
		}

		if err := d.workspace.Move(ctx, pageRef.Handle, parentRef.Handle); err != nil {
			return moved, fmt.Errorf("failed to move %s under %s: %w", page.Filename, page.ParentFilename, err)
		}
		moved++

		d.logger.DebugContext(ctx, "moved page",
			"filename", page.Filename,
			"parent", page.ParentFilename,
			"elapsed", time.Since(pageStarted))
	}

	d.logger.DebugContext(ctx, "moved pages into hierarchy",
		"count", moved,
		"elapsed", time.Since(started))
	return moved, nil
}
