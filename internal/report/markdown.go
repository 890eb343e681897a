package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/notiontree/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.SyncReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, report)

	// Counters
	w.writeSummary(md, report)

	// Per-step timing
	w.writePhases(md, report)

	// Exported pages
	w.writePages(md, report)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SyncReport) {
	md.H1("Export Report")
	md.PlainText("")

	duration := "-"
	if d := report.Duration(); d > 0 {
		duration = d.Round(time.Millisecond).String()
	}
	rootPage := report.RootPageURL
	if rootPage == "" {
		rootPage = "-"
	}

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source Directory", "`" + report.SourceDir + "`"},
			{"Root Parent", report.RootParentURL},
			{"Root Page", rootPage},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", duration},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.SyncReport) string {
	if report.TimedOut {
		return "⚠️ Cancelled (partial remote tree)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the run counters section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.SyncReport) {
	md.H2("Summary")
	md.PlainText("")

	// Counter table
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages", strconv.Itoa(report.PageCount())},
			{"Directory Pages", strconv.Itoa(report.CountByKind(model.KindRoot) + report.CountByKind(model.KindNode))},
			{"Documents", strconv.Itoa(report.CountByKind(model.KindLeaf))},
			{"Created", strconv.Itoa(report.CreatedCount)},
			{"Imported", strconv.Itoa(report.ImportedCount)},
			{"Empty Bodies", strconv.Itoa(report.EmptyCount)},
			{"Import Retries", strconv.Itoa(report.RetriedImports)},
			{"Resolved Links", strconv.Itoa(report.ResolvedLinks)},
			{"Moved", strconv.Itoa(report.MovedCount)},
		},
	})
	md.PlainText("")

	// Add pie chart if pages were built
	if report.PageCount() > 0 {
		w.writePieChart(md, report)
	}

	// Add alert based on run state
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for the page kind distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.SyncReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Kind Distribution"),
		piechart.WithShowData(true),
	)

	if n := report.CountByKind(model.KindRoot); n > 0 {
		chart.LabelAndIntValue("Root", uint64(n))
	}
	if n := report.CountByKind(model.KindNode); n > 0 {
		chart.LabelAndIntValue("Node", uint64(n))
	}
	if n := report.CountByKind(model.KindLeaf); n > 0 {
		chart.LabelAndIntValue("Leaf", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run state.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.SyncReport) {
	switch {
	case report.TimedOut:
		md.Warning(
			"The run was cancelled. The remote tree holds the partial state of the last completed operation; no rollback was performed.",
		)
	case report.ErrorMessage != "":
		md.Cautionf(
			"The run aborted with an error: %s. Pages created before the failure remain in the workspace.",
			report.ErrorMessage,
		)
	case report.EmptyCount > 0:
		md.Importantf(
			"%d page(s) were exported with an empty body because their source document was missing or unreadable.",
			report.EmptyCount,
		)
	default:
		md.Tipf("Export completed: %d page(s) published.", report.CreatedCount)
	}
	md.PlainText("")
}

// writePhases writes the per-step timing section.
func (w *MarkdownWriter) writePhases(md *markdown.Markdown, report *model.SyncReport) {
	md.H2("Phases")
	md.PlainText("")

	if len(report.StepDurations) == 0 {
		md.PlainText("No steps recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.StepDurations))
	for i, sd := range report.StepDurations {
		rows[i] = []string{sd.Name, sd.Elapsed.Round(time.Millisecond).String()}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Step", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes the exported page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.SyncReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Hierarchy) == 0 {
		md.PlainText("No pages recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Hierarchy))
	for i, page := range report.Hierarchy {
		url := "-"
		if report.Mapping != nil {
			if ref, ok := report.Mapping.Resolve(page.Filename); ok && ref.URL != "" {
				url = ref.URL
			}
		}
		rows[i] = []string{
			"`" + page.Filename + "`",
			page.Kind.String(),
			page.Title(),
			url,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Local Path", "Kind", "Title", "Remote URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [notiontree](https://github.com/nao1215/notiontree)*")
}
