package model

// Severity represents the risk level of a pre-publish finding.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings that require no action
	// before publishing. Examples: absolute links that pass through, EXIF
	// tags with no identifying content.
	SeverityInfo Severity = iota

	// SeverityMedium indicates issues worth reviewing before publishing.
	// Examples: image references whose file is missing.
	SeverityMedium

	// SeverityHigh indicates issues that will degrade the exported tree.
	// Examples: dangling relative links, wiki links without a matching
	// document, camera serial numbers in image metadata.
	SeverityHigh

	// SeverityCritical indicates issues that leak private data if the tree
	// is published. Example: GPS coordinates embedded in an image.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Finding represents a single pre-publish validation result.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to the entries in findingInfoMapping.
	Type string `json:"type"`

	// Severity is the risk level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Impact explains why this finding matters before publishing.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address this finding.
	Recommendation string `json:"recommendation,omitempty"`

	// Value is the specific value found (link target, tag name, etc.).
	Value string `json:"value,omitempty"`

	// Location is the document or image the finding was discovered in.
	Location string `json:"location,omitempty"`
}

// NewFinding builds a Finding of the given type, filling severity, impact,
// and recommendation from the central mapping.
func NewFinding(findingType, title, description, value, location string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		Value:          value,
		Location:       location,
	}
}

// FindingInfo contains metadata about a finding type including severity,
// impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent risk assessment across the
// check command and its report output.
var findingInfoMapping = map[string]FindingInfo{
	// CRITICAL - private data leaks if published
	"exif_gps": {
		Severity:       SeverityCritical,
		Impact:         "The image embeds GPS coordinates. Publishing it reveals where the photo was taken.",
		Recommendation: "Strip EXIF metadata from the image before exporting the tree.",
	},

	// HIGH - broken or identifying content in the exported tree
	"dangling_relative_link": {
		Severity:       SeverityHigh,
		Impact:         "The relative link points at a document outside the hierarchy, so the exported page will carry a dead reference.",
		Recommendation: "Fix the link target or add the missing document to the tree.",
	},
	"missing_wiki_target": {
		Severity:       SeverityHigh,
		Impact:         "The wiki link matches a configured wiki root but no local document corresponds to it, so it will not resolve to a remote page.",
		Recommendation: "Create the referenced document or correct the wiki link.",
	},
	"exif_serial": {
		Severity:       SeverityHigh,
		Impact:         "The image embeds a camera body or lens serial number that can tie published images to a device owner.",
		Recommendation: "Strip EXIF metadata from the image before exporting the tree.",
	},
	"exif_owner": {
		Severity:       SeverityHigh,
		Impact:         "The image embeds an owner or artist name from the camera configuration.",
		Recommendation: "Strip EXIF metadata from the image before exporting the tree.",
	},

	// MEDIUM - degraded output worth reviewing
	"missing_image": {
		Severity:       SeverityMedium,
		Impact:         "The referenced image file does not exist, so the exported page will render a broken image.",
		Recommendation: "Add the image file or remove the reference.",
	},

	// INFO - no action required
	"exif_metadata": {
		Severity:       SeverityInfo,
		Impact:         "The image carries EXIF metadata without GPS or serial tags. Timestamps and device models may still be more than you want to publish.",
		Recommendation: "Review the tags and strip them if in doubt.",
	},
	"absolute_link": {
		Severity:       SeverityInfo,
		Impact:         "The absolute link matches no configured wiki root and will be passed through verbatim at export time.",
		Recommendation: "No action needed unless the link was meant to resolve to a local document.",
	},
	"synthetic_index": {
		Severity:       SeverityInfo,
		Impact:         "The directory has no index.md, so its page will be created with an empty body.",
		Recommendation: "Add an index.md if the directory page should carry content.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the
// mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
