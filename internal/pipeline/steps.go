package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/notiontree/internal/hierarchy"
	"github.com/nao1215/notiontree/internal/model"
	"github.com/nao1215/notiontree/internal/sync"
)

// BuildStep scans the source directory and records the page hierarchy in
// the report. It performs no network access.
type BuildStep struct {
	// builder walks the source tree.
	builder *hierarchy.Builder

	// logger for structured logging.
	logger *slog.Logger
}

// BuildStepOption configures a BuildStep.
type BuildStepOption func(*BuildStep)

// WithBuildLogger sets a custom logger for the build step.
func WithBuildLogger(logger *slog.Logger) BuildStepOption {
	return func(s *BuildStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBuildStep creates a new hierarchy build step.
func NewBuildStep(builder *hierarchy.Builder, opts ...BuildStepOption) *BuildStep {
	s := &BuildStep{
		builder: builder,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *BuildStep) Name() string {
	return "build_hierarchy"
}

// Do executes the build step.
func (s *BuildStep) Do(_ context.Context, report *model.SyncReport) error {
	pages, err := s.builder.Build(report.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to build hierarchy: %w", err)
	}
	report.Hierarchy = pages

	s.logger.Info("hierarchy built",
		"pages", len(pages),
		"nodes", report.CountByKind(model.KindNode),
		"leaves", report.CountByKind(model.KindLeaf),
	)
	return nil
}

// CreateStep creates one remote page per hierarchy descriptor and records
// the sealed mapping in the report. This is the first network phase.
type CreateStep struct {
	// driver executes the remote phase.
	driver *sync.Driver

	// flat creates every page under the root page; nested creation
	// places pages under their final parents immediately.
	flat bool

	// logger for structured logging.
	logger *slog.Logger
}

// CreateStepOption configures a CreateStep.
type CreateStepOption func(*CreateStep)

// WithCreateFlat controls flat versus nested creation. Flat is the default;
// nested skips the move phase but strands a partial tree when a run fails
// midway.
func WithCreateFlat(flat bool) CreateStepOption {
	return func(s *CreateStep) {
		s.flat = flat
	}
}

// WithCreateLogger sets a custom logger for the create step.
func WithCreateLogger(logger *slog.Logger) CreateStepOption {
	return func(s *CreateStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCreateStep creates a new page creation step.
func NewCreateStep(driver *sync.Driver, opts ...CreateStepOption) *CreateStep {
	s := &CreateStep{
		driver: driver,
		flat:   true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CreateStep) Name() string {
	return "create_pages"
}

// Do executes the creation step.
func (s *CreateStep) Do(ctx context.Context, report *model.SyncReport) error {
	if len(report.Hierarchy) == 0 {
		return errors.New("empty hierarchy: build_hierarchy must run first")
	}

	mapping, err := s.driver.CreateHierarchy(ctx, report.RootParentURL, report.Hierarchy, s.flat)
	if err != nil {
		return fmt.Errorf("failed to create pages: %w", err)
	}
	report.Mapping = mapping
	report.CreatedCount = mapping.Len()

	for _, page := range report.Hierarchy {
		if page.Kind == model.KindRoot {
			if ref, ok := mapping.Resolve(page.Filename); ok {
				report.RootPageURL = ref.URL
			}
			break
		}
	}

	s.logger.Info("pages created",
		"count", report.CreatedCount,
		"root", report.RootPageURL,
	)
	return nil
}

// UpdateLinksStep rewrites document references against the mapping and
// imports every page's content. This is the second network phase.
type UpdateLinksStep struct {
	// driver executes the remote phase.
	driver *sync.Driver

	// logger for structured logging.
	logger *slog.Logger
}

// UpdateLinksStepOption configures an UpdateLinksStep.
type UpdateLinksStepOption func(*UpdateLinksStep)

// WithUpdateLinksLogger sets a custom logger for the link update step.
func WithUpdateLinksLogger(logger *slog.Logger) UpdateLinksStepOption {
	return func(s *UpdateLinksStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewUpdateLinksStep creates a new link update step.
func NewUpdateLinksStep(driver *sync.Driver, opts ...UpdateLinksStepOption) *UpdateLinksStep {
	s := &UpdateLinksStep{
		driver: driver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *UpdateLinksStep) Name() string {
	return "update_links"
}

// Do executes the link update step.
func (s *UpdateLinksStep) Do(ctx context.Context, report *model.SyncReport) error {
	if report.Mapping == nil {
		return errors.New("no page mapping: create_pages must run first")
	}

	stats, err := s.driver.UpdateLinks(ctx, report.Hierarchy, report.Mapping, report.SourceDir, report.WikiRoots)
	if err != nil {
		return fmt.Errorf("failed to update links: %w", err)
	}
	report.ImportedCount = stats.Imported
	report.EmptyCount = stats.Empty
	report.RetriedImports = stats.Retried
	report.ResolvedLinks = stats.Resolved

	s.logger.Info("links updated",
		"imported", stats.Imported,
		"resolved", stats.Resolved,
		"empty", stats.Empty,
	)
	return nil
}

// MoveStep re-parents the flat pages into the source tree shape. This is
// the final network phase.
type MoveStep struct {
	// driver executes the remote phase.
	driver *sync.Driver

	// logger for structured logging.
	logger *slog.Logger
}

// MoveStepOption configures a MoveStep.
type MoveStepOption func(*MoveStep)

// WithMoveLogger sets a custom logger for the move step.
func WithMoveLogger(logger *slog.Logger) MoveStepOption {
	return func(s *MoveStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMoveStep creates a new page move step.
func NewMoveStep(driver *sync.Driver, opts ...MoveStepOption) *MoveStep {
	s := &MoveStep{
		driver: driver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *MoveStep) Name() string {
	return "move_pages"
}

// Do executes the move step.
func (s *MoveStep) Do(ctx context.Context, report *model.SyncReport) error {
	if report.Mapping == nil {
		return errors.New("no page mapping: create_pages must run first")
	}

	moved, err := s.driver.MovePages(ctx, report.Hierarchy, report.Mapping)
	report.MovedCount = moved
	if err != nil {
		return fmt.Errorf("failed to move pages: %w", err)
	}

	s.logger.Info("pages moved", "count", moved)
	return nil
}

// ExportPipelineConfig holds configuration for the export pipeline.
type ExportPipelineConfig struct {
	// Flat creates every page under the root page and rebuilds the tree
	// with moves afterwards.
	Flat bool
}

// ExportPipelineOption configures an ExportPipelineConfig.
type ExportPipelineOption func(*ExportPipelineConfig)

// WithExportFlat controls flat versus nested creation for the whole
// pipeline. The move phase runs either way; with nested creation it
// reasserts placement that creation already established.
func WithExportFlat(flat bool) ExportPipelineOption {
	return func(c *ExportPipelineConfig) {
		c.Flat = flat
	}
}

// ExportPipeline creates a pipeline with the three standard export phases
// behind a hierarchy build.
//
// Design decision: We provide a canonical pipeline because:
// 1. The phase order is a correctness requirement, not a preference
// 2. It reduces boilerplate in the CLI
// 3. Tests can still assemble pipelines step by step
func ExportPipeline(builder *hierarchy.Builder, driver *sync.Driver, pipelineOpts []Option, configOpts ...ExportPipelineOption) *Pipeline {
	cfg := &ExportPipelineConfig{Flat: true}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p := New(pipelineOpts...)
	p.AddSteps(
		NewBuildStep(builder),
		NewCreateStep(driver, WithCreateFlat(cfg.Flat)),
		NewUpdateLinksStep(driver),
		NewMoveStep(driver),
	)
	return p
}
