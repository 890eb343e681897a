package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/notiontree/internal/hierarchy"
	"github.com/nao1215/notiontree/internal/model"
)

// defaultJobs is the number of documents scanned concurrently when the
// caller does not override it.
const defaultJobs = 4

// Checker coordinates pre-publish validation across multiple analyzers.
// It builds the hierarchy exactly as an export run would, feeds every
// document through the registered analyzers, and aggregates findings into a
// single ranked result.
//
// Design decision: We scan documents concurrently but keep each document's
// analyzers sequential because:
//  1. Documents are independent, so per-document goroutines parallelize the
//     dominant cost (reading documents and the images they reference)
//  2. Analyzer order within a document stays deterministic
//  3. errgroup.SetLimit bounds open files and memory without a worker pool
type Checker struct {
	// analyzers is the list of registered analyzers to run per document.
	analyzers []Analyzer

	// builder walks the source tree into page descriptors.
	builder *hierarchy.Builder

	// wikiRoots are the wiki root URLs link references may resolve against.
	wikiRoots []string

	// jobs is the maximum number of documents scanned concurrently.
	jobs int

	// enableEXIF enables image metadata extraction. Slow for trees that
	// reference many images.
	enableEXIF bool

	// logger is used for scan-level logging.
	logger *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithWikiRoots sets the wiki root URLs link references may resolve against.
func WithWikiRoots(roots []string) Option {
	return func(c *Checker) {
		c.wikiRoots = roots
	}
}

// WithJobs sets the maximum number of documents scanned concurrently.
// Values below one keep the default.
func WithJobs(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.jobs = n
		}
	}
}

// WithEXIF toggles image metadata extraction.
func WithEXIF(enable bool) Option {
	return func(c *Checker) {
		c.enableEXIF = enable
	}
}

// WithLogger sets a custom logger for the scan.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker with all built-in analyzers registered.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		analyzers:  make([]Analyzer, 0),
		builder:    hierarchy.NewBuilder(),
		jobs:       defaultJobs,
		enableEXIF: true,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Register built-in analyzers
	c.Register(NewLinkAnalyzer())
	c.Register(NewStructureAnalyzer())
	if c.enableEXIF {
		c.Register(NewEXIFAnalyzer())
	}

	return c
}

// Register adds an analyzer to the list.
func (c *Checker) Register(analyzer Analyzer) {
	c.analyzers = append(c.analyzers, analyzer)
}

// Result aggregates one check run.
type Result struct {
	// Findings are all discovered findings, most severe first.
	Findings []model.Finding

	// Documents is the number of hierarchy documents scanned.
	Documents int

	// Elapsed is the wall-clock duration of the scan.
	Elapsed time.Duration
}

// Blocking reports whether any finding is at or above SeverityHigh.
// Callers treat a blocking result as unsafe to publish.
func (r *Result) Blocking() bool {
	for _, f := range r.Findings {
		if f.Severity >= model.SeverityHigh {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of findings at the given severity.
func (r *Result) CountBySeverity(severity model.Severity) int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// Run scans the tree rooted at dir and returns the aggregated result.
// The hierarchy is built exactly as an export run would build it, so the
// findings describe the pages that export would create.
func (c *Checker) Run(ctx context.Context, dir string) (*Result, error) {
	startTime := time.Now()

	pages, err := c.builder.Build(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to build hierarchy: %w", err)
	}

	tree := &Tree{
		BaseDir:   dir,
		WikiRoots: c.wikiRoots,
		Known:     make(map[string]bool, len(pages)),
	}
	for _, page := range pages {
		tree.Known[page.Filename] = true
	}

	c.logger.Info("starting pre-publish check",
		"dir", dir,
		"documents", len(pages),
		"jobs", c.jobs,
	)

	// Pre-allocate per-document slots to keep findings in walk order.
	perDoc := make([][]model.Finding, len(pages))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			doc := &Document{Page: page}
			content, err := os.ReadFile(page.Filename)
			if err != nil {
				doc.Missing = true
			} else {
				doc.Content = string(content)
			}

			findings := c.analyzeDocument(ctx, tree, doc)

			mu.Lock()
			perDoc[i] = findings
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]model.Finding, 0)
	for _, findings := range perDoc {
		all = append(all, findings...)
	}
	all = deduplicateFindings(all)
	sortFindings(all)

	result := &Result{
		Findings:  all,
		Documents: len(pages),
		Elapsed:   time.Since(startTime),
	}

	c.logger.Info("pre-publish check complete",
		"documents", result.Documents,
		"findings", len(result.Findings),
		"elapsed", result.Elapsed,
	)

	return result, nil
}

// analyzeDocument runs every registered analyzer over one document.
func (c *Checker) analyzeDocument(ctx context.Context, tree *Tree, doc *Document) []model.Finding {
	var findings []model.Finding

	for _, analyzer := range c.analyzers {
		fs, err := analyzer.Analyze(ctx, tree, doc)
		if err != nil {
			// An analyzer failure degrades the scan rather than aborting
			// it. We want to collect as many findings as possible.
			c.logger.Warn("analyzer failed",
				"analyzer", analyzer.Name(),
				"document", doc.Page.Filename,
				"error", err,
			)
			continue
		}
		findings = append(findings, fs...)
	}

	return findings
}

// deduplicateFindings removes duplicate findings based on title and value.
//
// Design decision: We deduplicate by title+value rather than just value
// because:
//  1. The same value can mean different things for different finding types
//  2. One image referenced from several documents repeats its findings
//  3. We want to keep the most severe instance of each finding
func deduplicateFindings(findings []model.Finding) []model.Finding {
	seen := make(map[string]int) // key -> index in result
	result := make([]model.Finding, 0)

	for _, f := range findings {
		key := f.Title + "|" + f.Value
		if idx, exists := seen[key]; exists {
			// Keep the more severe finding
			if f.Severity > result[idx].Severity {
				result[idx] = f
			}
		} else {
			seen[key] = len(result)
			result = append(result, f)
		}
	}

	return result
}

// sortFindings orders findings by severity, most severe first, preserving
// walk order within a severity level.
func sortFindings(findings []model.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity > findings[j].Severity
	})
}
