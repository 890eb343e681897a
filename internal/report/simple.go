package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/notiontree/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// The check command uses it to print its findings summary to the terminal.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether severity sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteFindings outputs a findings summary in human-readable format.
// documents is the number of documents scanned and elapsed the scan duration.
func (w *SimpleWriter) WriteFindings(findings []model.Finding, documents int, elapsed time.Duration) (int, error) {
	var sb strings.Builder

	// Header
	w.writeHeader(&sb, documents, elapsed)

	// Summary
	w.writeSummary(&sb, findings)

	// Findings by severity
	w.writeFindings(&sb, findings)

	// Write to output
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, documents int, elapsed time.Duration) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          CHECK SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Documents Scanned: %d\n", documents))
	sb.WriteString(fmt.Sprintf("Elapsed:           %s\n", elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, findings []model.Finding) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", countBySeverity(findings, model.SeverityCritical)))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", countBySeverity(findings, model.SeverityHigh)))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", countBySeverity(findings, model.SeverityMedium)))
	sb.WriteString(fmt.Sprintf("  INFO:     %d\n", countBySeverity(findings, model.SeverityInfo)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", len(findings)))
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, findings []model.Finding) {
	if len(findings) == 0 && !w.showEmpty {
		sb.WriteString("No findings. The tree is ready to publish.\n")
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Write findings in order of severity (critical first)
	severities := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityInfo,
	}

	for _, severity := range severities {
		group := findingsBySeverity(findings, severity)
		if len(group) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForSeverity(sb, severity, group)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	// Severity header with visual indicator
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severity.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s\n", finding.Title))
		if finding.Value != "" {
			sb.WriteString(fmt.Sprintf("    Value: %s\n", finding.Value))
		}
		if finding.Location != "" {
			sb.WriteString(fmt.Sprintf("    Location: %s\n", finding.Location))
		}
		if w.verbose && finding.Description != "" {
			sb.WriteString(fmt.Sprintf("    Description: %s\n", finding.Description))
		}
		if w.verbose && finding.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", finding.Recommendation))
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// countBySeverity counts findings at exactly the given severity.
func countBySeverity(findings []model.Finding, severity model.Severity) int {
	count := 0
	for _, f := range findings {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// findingsBySeverity returns the findings at exactly the given severity,
// preserving their order.
func findingsBySeverity(findings []model.Finding, severity model.Severity) []model.Finding {
	var group []model.Finding
	for _, f := range findings {
		if f.Severity == severity {
			group = append(group, f)
		}
	}
	return group
}
