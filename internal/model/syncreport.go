package model

import "time"

// SyncReport is the main run result structure. One SyncReport is created per
// export run and threaded through every pipeline step; each step reads what
// earlier steps produced and records what it did.
type SyncReport struct {
	// === Run Identity ===

	// SourceDir is the local directory tree being exported.
	SourceDir string `json:"source_dir"`

	// RootParentURL is the remote page under which the exported root page
	// is created.
	RootParentURL string `json:"root_parent_url"`

	// WikiRoots are the external wiki base URLs used for link resolution.
	WikiRoots []string `json:"wiki_roots,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed or aborted.
	FinishedAt time.Time `json:"finished_at"`

	// === Phase Products ===

	// Hierarchy is the ordered descriptor list produced by the build step.
	// Order is walk order; the move phase iterates it in reverse.
	Hierarchy []*Page `json:"pages,omitempty"`

	// Mapping is the filename to remote reference table produced by the
	// creation step and sealed before the later steps run.
	Mapping *Mapping `json:"-"` // Excluded from JSON (report writers zip Hierarchy with it)

	// RootPageURL is the browseable URL of the created root page.
	RootPageURL string `json:"root_page_url,omitempty"`

	// === Counters ===

	// CreatedCount is the number of remote pages created.
	CreatedCount int `json:"created_count"`

	// ImportedCount is the number of pages whose content was uploaded.
	ImportedCount int `json:"imported_count"`

	// EmptyCount is the number of pages exported with an empty body
	// because their source document was missing or unreadable.
	EmptyCount int `json:"empty_count"`

	// RetriedImports is the number of imports that consumed their single
	// empty-payload retry.
	RetriedImports int `json:"retried_imports"`

	// ResolvedLinks is the number of link references rewritten to remote
	// URLs across all documents.
	ResolvedLinks int `json:"resolved_links"`

	// MovedCount is the number of pages re-parented by the move phase.
	MovedCount int `json:"moved_count"`

	// === Run State ===

	// PerformedSteps lists the pipeline steps that actually ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// StepDurations records the wall-clock duration of each performed
	// step, in execution order.
	StepDurations []StepDuration `json:"step_durations,omitempty"`

	// TimedOut is true if the run was terminated by context cancellation.
	TimedOut bool `json:"timed_out"`

	// Error contains any error that aborted the run.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// StepDuration records how long one pipeline step took.
type StepDuration struct {
	// Name is the step's name as reported by the pipeline.
	Name string `json:"name"`

	// Elapsed is the step's wall-clock duration.
	Elapsed time.Duration `json:"elapsed"`
}

// NewSyncReport creates a report for one export run.
func NewSyncReport(sourceDir, rootParentURL string, wikiRoots []string) *SyncReport {
	return &SyncReport{
		SourceDir:     sourceDir,
		RootParentURL: rootParentURL,
		WikiRoots:     wikiRoots,
		StartedAt:     time.Now(),
	}
}

// Duration returns the wall-clock duration of the run. Zero when the run
// has not finished.
func (r *SyncReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// PageCount returns the number of descriptors in the hierarchy.
func (r *SyncReport) PageCount() int {
	return len(r.Hierarchy)
}

// CountByKind returns how many descriptors of the given kind the hierarchy
// holds.
func (r *SyncReport) CountByKind(kind Kind) int {
	count := 0
	for _, p := range r.Hierarchy {
		if p.Kind == kind {
			count++
		}
	}
	return count
}

// Succeeded reports whether the run finished without error.
func (r *SyncReport) Succeeded() bool {
	return r.Error == nil && !r.TimedOut
}
