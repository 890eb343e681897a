package check

import (
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/notiontree/internal/links"
	"github.com/nao1215/notiontree/internal/model"
)

// EXIFAnalyzer extracts and analyzes EXIF metadata from images referenced by
// hierarchy documents. EXIF data can contain GPS coordinates, camera serial
// numbers, and owner names that should not reach a published page.
//
// Only local images are inspected: the check never fetches remote URLs.
//
// This analyzer checks for:
//   - GPS coordinates (location disclosure)
//   - Camera and lens serial numbers (device identification)
//   - Owner, artist, and copyright names (identity disclosure)
//   - Any remaining EXIF tags (report-only)
type EXIFAnalyzer struct {
	// maxImageSize limits the size of images to read (default 5MB).
	maxImageSize int64

	// exifPattern matches reference targets in formats that carry EXIF.
	exifPattern *regexp.Regexp
}

// NewEXIFAnalyzer creates a new EXIFAnalyzer.
func NewEXIFAnalyzer() *EXIFAnalyzer {
	return &EXIFAnalyzer{
		maxImageSize: 5 * 1024 * 1024, // 5MB
		exifPattern:  regexp.MustCompile(`(?i)\.(jpe?g|tiff?|heic)$`),
	}
}

// Name returns the analyzer name.
func (a *EXIFAnalyzer) Name() string {
	return "exif"
}

// Category returns the analyzer category.
func (a *EXIFAnalyzer) Category() string {
	return CategoryMetadata
}

// Analyze extracts EXIF metadata from local images the document references.
func (a *EXIFAnalyzer) Analyze(ctx context.Context, _ *Tree, doc *Document) ([]model.Finding, error) {
	findings := make([]model.Finding, 0)
	processed := make(map[string]bool)

	for _, link := range links.Extract(doc.Content) {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		ref := link.Ref
		if !strings.HasPrefix(ref, links.RelativeMarker) || !a.exifPattern.MatchString(ref) {
			continue
		}

		path := links.ResolveRelative(doc.Page.Dir(), ref)
		if processed[path] {
			continue
		}
		processed[path] = true

		findings = append(findings, a.analyzeImage(path, doc.Page.Filename)...)
	}

	return findings, nil
}

// analyzeImage reads one local image and classifies its EXIF tags.
func (a *EXIFAnalyzer) analyzeImage(path, docFilename string) []model.Finding {
	findings := make([]model.Finding, 0)

	// Missing files are the link analyzer's concern; oversized files are
	// skipped rather than partially parsed.
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > a.maxImageSize {
		return findings
	}

	imageData, err := os.ReadFile(path)
	if err != nil {
		return findings
	}

	rawExif, err := exif.SearchAndExtractExif(imageData)
	if err != nil || rawExif == nil {
		return findings
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return findings
	}

	location := docFilename + " -> " + path
	other := 0

	for _, entry := range entries {
		if f, ok := a.classifyTag(entry.TagName, entry.Formatted, location); ok {
			findings = append(findings, f)
		} else {
			other++
		}
	}

	if other > 0 {
		findings = append(findings, model.NewFinding(
			"exif_metadata",
			"EXIF Metadata in Image",
			"An image carries EXIF metadata tags beyond the flagged categories.",
			path+": "+strconv.Itoa(other)+" tags",
			location,
		))
	}

	return findings
}

// classifyTag maps one EXIF tag to at most one finding. Tags outside the
// flagged categories return false and are counted as report-only metadata.
func (a *EXIFAnalyzer) classifyTag(tagName, value, location string) (model.Finding, bool) {
	switch tagName {
	// GPS coordinates reveal where the image was taken
	case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef":
		return model.NewFinding(
			"exif_gps",
			"GPS Coordinates in Image EXIF",
			"An image contains GPS coordinates in its EXIF metadata.",
			tagName+": "+value,
			location,
		), true

	// Serial numbers uniquely identify the device
	case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
		return model.NewFinding(
			"exif_serial",
			"Device Serial Number in Image EXIF",
			"An image contains a device serial number.",
			tagName+": "+value,
			location,
		), true

	// Owner and artist names identify the photographer
	case "Artist", "Author", "Copyright", "XPAuthor", "OwnerName", "CameraOwnerName":
		return model.NewFinding(
			"exif_owner",
			"Owner Information in Image EXIF",
			"An image contains owner, artist, or copyright information.",
			tagName+": "+value,
			location,
		), true
	}

	return model.Finding{}, false
}

// Ensure EXIFAnalyzer implements Analyzer.
var _ Analyzer = (*EXIFAnalyzer)(nil)
