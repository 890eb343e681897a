package links

import (
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nao1215/notiontree/internal/model"
)

// RelativeMarker is the prefix that marks a reference as a local relative
// path. Only this explicit form is resolved locally; bare names like
// "sub/page.md" fall through to wiki-root matching and then pass through.
const RelativeMarker = "./"

// Resolver rewrites one document's link references against a sealed mapping.
// It holds everything a rewrite needs beyond the document itself: the
// mapping, the resolution base directory, and the wiki root list.
type Resolver struct {
	mapping   *model.Mapping
	baseDir   string
	wikiRoots []string
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets a custom logger. Nil leaves the default in place.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver. baseDir is the source tree root; wiki-root
// matched references are reinterpreted as paths under it. wikiRoots are
// tried in order and the first prefix match wins.
func NewResolver(mapping *model.Mapping, baseDir string, wikiRoots []string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		mapping:   mapping,
		baseDir:   baseDir,
		wikiRoots: wikiRoots,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Rewrite returns the document content with every resolvable link reference
// replaced by the target page's browseable URL, plus the number of
// references resolved. Unresolvable references stay byte-identical.
func (r *Resolver) Rewrite(page *model.Page, content string) (string, int) {
	resolved := 0

	out := linkPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := linkPattern.FindStringSubmatch(match)
		text, ref := m[1], m[2]

		remoteURL, ok := r.resolveRef(page, ref)
		if !ok {
			return match
		}

		resolved++
		r.logger.Debug("resolved link",
			"document", page.Filename,
			"ref", ref,
			"url", remoteURL)
		return "[" + text + "](" + remoteURL + ")"
	})

	return out, resolved
}

// resolveRef maps one reference to a remote URL. The boolean is false when
// the reference should pass through untouched.
func (r *Resolver) resolveRef(page *model.Page, ref string) (string, bool) {
	var candidate string
	if strings.HasPrefix(ref, RelativeMarker) {
		candidate = ResolveRelative(page.Dir(), ref)
	} else {
		var ok bool
		candidate, ok = ResolveWiki(ref, r.wikiRoots, r.baseDir)
		if !ok {
			return "", false
		}
	}

	pageRef, ok := r.mapping.Resolve(candidate)
	if !ok {
		// A wiki root claimed the reference but no document matches; the
		// original text is kept rather than broken.
		return "", false
	}
	return pageRef.URL, true
}

// ResolveRelative resolves a "./" reference against the directory of the
// document containing it, returning the normalized candidate mapping key.
func ResolveRelative(docDir, ref string) string {
	return filepath.Join(docDir, ref)
}

// ResolveWiki tries each wiki root in order and returns the local candidate
// key for the first root whose URL prefix matches the reference. The first
// matching root consumes the reference even when no document exists for it.
func ResolveWiki(ref string, wikiRoots []string, baseDir string) (string, bool) {
	for _, root := range wikiRoots {
		if candidate, ok := resolveWikiRoot(ref, root, baseDir); ok {
			return candidate, true
		}
	}
	return "", false
}

// resolveWikiRoot maps a reference under one wiki root back to a local path:
// scheme and host must match, the URL-decoded path must start with the
// root's URL-decoded path, and the remainder plus the Markdown extension is
// joined under baseDir.
func resolveWikiRoot(ref, wikiRoot, baseDir string) (string, bool) {
	if !strings.HasSuffix(wikiRoot, "/") {
		wikiRoot += "/"
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	rootURL, err := url.Parse(wikiRoot)
	if err != nil {
		return "", false
	}

	if refURL.Scheme != rootURL.Scheme || !strings.EqualFold(refURL.Host, rootURL.Host) {
		return "", false
	}

	// url.Parse stores the decoded form in Path, so %-encoded wiki page
	// names compare against their on-disk spelling.
	if !strings.HasPrefix(refURL.Path, rootURL.Path) {
		return "", false
	}

	rel := strings.TrimPrefix(refURL.Path, rootURL.Path) + model.MarkdownExt
	return filepath.Join(baseDir, rel), true
}
