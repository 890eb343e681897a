package hierarchy

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/notiontree/internal/model"
)

// Builder walks a local directory tree and produces the ordered descriptor
// list the sync phases operate on.
type Builder struct {
	// logger receives per-directory debug lines.
	logger *slog.Logger

	// skipDirs are directory names never descended into. Version control
	// metadata lives here.
	skipDirs map[string]bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a custom logger. Nil leaves the default in place.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSkipDirs adds directory names to skip during the walk, on top of the
// default .git.
func WithSkipDirs(names ...string) BuilderOption {
	return func(b *Builder) {
		for _, name := range names {
			b.skipDirs[name] = true
		}
	}
}

// NewBuilder creates a Builder with default settings.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger:   slog.Default(),
		skipDirs: map[string]bool{".git": true},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build walks the tree rooted at root and returns the descriptor sequence:
// the root's index first, then per directory its index, its leaves, then its
// subdirectories. Sibling order is the directory listing order. A directory
// holding no Markdown files still yields a node descriptor.
func (b *Builder) Build(root string) ([]*model.Page, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	b.logger.Debug("detecting files", "root", root)

	pages := make([]*model.Page, 0)
	if err := b.walk(root, "", &pages); err != nil {
		return nil, err
	}

	b.logger.Debug("hierarchy built",
		"root", root,
		"pages", len(pages))

	return pages, nil
}

// walk emits the descriptors for one directory and recurses into its
// subdirectories. parentIndex is empty only for the tree root.
func (b *Builder) walk(dir, parentIndex string, pages *[]*model.Page) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if parentIndex == "" {
			return fmt.Errorf("read source root %s: %w", dir, err)
		}
		// Unreadable subdirectories are skipped, matching a walk that
		// tolerates permission holes mid-tree.
		b.logger.Warn("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	node := filepath.Join(dir, model.IndexFilename)
	if parentIndex == "" {
		*pages = append(*pages, model.NewPage(model.KindRoot, "", node))
	} else {
		*pages = append(*pages, model.NewPage(model.KindNode, parentIndex, node))
	}

	leaves := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name != model.IndexFilename && strings.HasSuffix(name, model.MarkdownExt) {
			*pages = append(*pages, model.NewPage(model.KindLeaf, node, filepath.Join(dir, name)))
			leaves++
		}
	}

	b.logger.Debug("visited directory", "dir", dir, "leaves", leaves)

	for _, entry := range entries {
		if !entry.IsDir() || b.skipDirs[entry.Name()] {
			continue
		}
		if err := b.walk(filepath.Join(dir, entry.Name()), node, pages); err != nil {
			return err
		}
	}

	return nil
}
