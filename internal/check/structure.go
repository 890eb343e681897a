package check

import (
	"context"
	"path/filepath"

	"github.com/nao1215/notiontree/internal/model"
)

// StructureAnalyzer flags hierarchy descriptors that have no backing file.
// Directory index documents are optional on disk; the export still creates
// the page, with an empty body, which is worth knowing before publishing.
type StructureAnalyzer struct{}

// NewStructureAnalyzer creates a new StructureAnalyzer.
func NewStructureAnalyzer() *StructureAnalyzer {
	return &StructureAnalyzer{}
}

// Name returns the analyzer name.
func (a *StructureAnalyzer) Name() string {
	return "structure"
}

// Category returns the analyzer category.
func (a *StructureAnalyzer) Category() string {
	return CategoryStructure
}

// Analyze reports index descriptors without a backing file.
func (a *StructureAnalyzer) Analyze(_ context.Context, _ *Tree, doc *Document) ([]model.Finding, error) {
	if !doc.Missing || !doc.Page.IsIndex() {
		return nil, nil
	}

	return []model.Finding{
		model.NewFinding(
			"synthetic_index",
			"Directory Without Index Document",
			"The directory has no index.md, so its page will be created with an empty body.",
			filepath.Dir(doc.Page.Filename),
			doc.Page.Filename,
		),
	}, nil
}

// Ensure StructureAnalyzer implements Analyzer.
var _ Analyzer = (*StructureAnalyzer)(nil)
