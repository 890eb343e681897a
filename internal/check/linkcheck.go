package check

import (
	"context"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/nao1215/notiontree/internal/links"
	"github.com/nao1215/notiontree/internal/model"
)

// imageRefPattern matches reference targets that point at image files.
var imageRefPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|svg|webp|bmp|tiff?|heic)$`)

// LinkAnalyzer validates every link reference a document carries against
// what the export will do with it: relative Markdown references must land
// inside the hierarchy, wiki references that match a configured root must
// have a backing document, relative image references must exist on disk,
// and everything else passes through verbatim.
//
// This analyzer checks for:
//   - Relative links whose target is not part of the hierarchy
//   - Wiki links that match a root but have no local document
//   - Image references whose file is missing
//   - Absolute links that will pass through unresolved
type LinkAnalyzer struct{}

// NewLinkAnalyzer creates a new LinkAnalyzer.
func NewLinkAnalyzer() *LinkAnalyzer {
	return &LinkAnalyzer{}
}

// Name returns the analyzer name.
func (a *LinkAnalyzer) Name() string {
	return "links"
}

// Category returns the analyzer category.
func (a *LinkAnalyzer) Category() string {
	return CategoryLinks
}

// Analyze classifies every reference in the document.
func (a *LinkAnalyzer) Analyze(ctx context.Context, tree *Tree, doc *Document) ([]model.Finding, error) {
	findings := make([]model.Finding, 0)

	for _, link := range links.Extract(doc.Content) {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		if f, ok := a.classify(tree, doc, link.Ref); ok {
			findings = append(findings, f)
		}
	}

	return findings, nil
}

// classify maps one reference target to at most one finding, mirroring the
// resolution order the export applies: the relative marker first, then
// wiki-root matching, then verbatim pass-through.
func (a *LinkAnalyzer) classify(tree *Tree, doc *Document, ref string) (model.Finding, bool) {
	if strings.HasPrefix(ref, links.RelativeMarker) {
		candidate := links.ResolveRelative(doc.Page.Dir(), ref)

		switch {
		case imageRefPattern.MatchString(ref):
			if fileExists(candidate) {
				return model.Finding{}, false
			}
			return model.NewFinding(
				"missing_image",
				"Missing Image File",
				"An image reference points at a file that does not exist on disk.",
				ref,
				doc.Page.Filename,
			), true

		case strings.HasSuffix(ref, model.MarkdownExt):
			if tree.Known[candidate] {
				return model.Finding{}, false
			}
			return model.NewFinding(
				"dangling_relative_link",
				"Dangling Relative Link",
				"A relative link resolves to a document outside the hierarchy.",
				ref,
				doc.Page.Filename,
			), true

		default:
			// Relative references to other file types pass through at
			// export time without a finding type of their own.
			return model.Finding{}, false
		}
	}

	// Remote images are never fetched, so there is nothing to validate.
	if !isAbsolute(ref) || imageRefPattern.MatchString(ref) {
		return model.Finding{}, false
	}

	candidate, ok := links.ResolveWiki(ref, tree.WikiRoots, tree.BaseDir)
	if !ok {
		return model.NewFinding(
			"absolute_link",
			"Unresolved Absolute Link",
			"An absolute link matches no configured wiki root.",
			ref,
			doc.Page.Filename,
		), true
	}

	if tree.Known[candidate] {
		return model.Finding{}, false
	}
	return model.NewFinding(
		"missing_wiki_target",
		"Missing Wiki Target",
		"A wiki link matches a configured root but no local document corresponds to it.",
		ref,
		doc.Page.Filename,
	), true
}

// isAbsolute reports whether ref is an absolute URL with a host part.
// Bare names and fragment-only references are neither relative nor
// absolute; the export passes them through untouched.
func isAbsolute(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure LinkAnalyzer implements Analyzer.
var _ Analyzer = (*LinkAnalyzer)(nil)
