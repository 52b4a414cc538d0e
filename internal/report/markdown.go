package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
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
func (w *MarkdownWriter) Write(summary *RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeOutcome(md, summary)
	w.writeHits(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *RunSummary) {
	md.H1("Username Scan Report")
	md.PlainText("")

	mode := "evidence-only"
	if !summary.EvidenceOnly {
		mode = "any HTTP 200"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Usernames", "`" + summary.UsernameList() + "`"},
			{"Sites", strconv.Itoa(summary.SiteCount)},
			{"Probes", strconv.Itoa(summary.Total)},
			{"Hit Mode", mode},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.String()},
		},
	})
	md.PlainText("")
}

// writeOutcome writes the outcome summary with a distribution chart.
func (w *MarkdownWriter) writeOutcome(md *markdown.Markdown, summary *RunSummary) {
	md.H2("Outcome Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🟢 Hits", strconv.Itoa(summary.HitCount())},
			{"🔴 Misses", strconv.Itoa(summary.Misses)},
			{"🟡 Errors", strconv.Itoa(summary.Errors)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}

	switch {
	case summary.HitCount() > 0:
		md.Tipf("%d account(s) found across %d site(s).", summary.HitCount(), summary.SiteCount)
	case summary.Errors == summary.Total && summary.Total > 0:
		md.Warningf("All %d probe(s) failed before reaching a site.", summary.Errors)
	default:
		md.Note("No accounts found.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Probe Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if summary.HitCount() > 0 {
		chart.LabelAndIntValue("Hits", uint64(summary.HitCount()))
	}
	if summary.Misses > 0 {
		chart.LabelAndIntValue("Misses", uint64(summary.Misses))
	}
	if summary.Errors > 0 {
		chart.LabelAndIntValue("Errors", uint64(summary.Errors))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeHits writes the hits table.
func (w *MarkdownWriter) writeHits(md *markdown.Markdown, summary *RunSummary) {
	md.H2("Hits")
	md.PlainText("")

	if summary.HitCount() == 0 {
		md.PlainText("No hits recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Hits))
	for i, hit := range summary.Hits {
		rec := newHitRecord(hit)
		title := rec.Title
		if title == "" {
			title = "-"
		}
		verified := "no"
		if rec.Verified {
			verified = "yes"
		}
		rows[i] = []string{
			rec.Site,
			rec.Username,
			"[" + truncateString(rec.URL, 60) + "](" + rec.URL + ")",
			verified,
			truncateString(title, 50),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "Username", "URL", "Verified", "Page Title"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [userscout](https://github.com/hacktolive/userscout)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
