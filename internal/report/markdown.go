package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs reports in Markdown format.
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

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *FitReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeRunInfo(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with source information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *FitReport) {
	md.H1("MBB Fit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Variant", report.Variant},
			{"Redshift", fmt.Sprintf("%.4f", report.Redshift)},
			{"Photometric points", strconv.Itoa(report.Points)},
			{"log10(LIR) [Lsun]", fmt.Sprintf("%.3f", report.LogLuminosity)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the posterior percentile table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *FitReport) {
	md.H2("Posterior Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Parameters))
	for _, p := range report.Parameters {
		unit := p.Unit
		if unit == "" {
			unit = "-"
		}
		if p.Fixed {
			rows = append(rows, []string{p.Name, unit, "-", fmt.Sprintf("%.4f (fixed)", p.P50), "-"})
			continue
		}
		rows = append(rows, []string{
			p.Name,
			unit,
			fmt.Sprintf("%.4f", p.P16),
			fmt.Sprintf("%.4f", p.P50),
			fmt.Sprintf("%.4f", p.P84),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Parameter", "Unit", "p16", "p50", "p84"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.BetaFixed() {
		md.Note(fmt.Sprintf(
			"Only %d photometric points were available, so the emissivity index was held fixed at %.2f.",
			report.Points, report.Beta,
		))
		md.PlainText("")
	}
}

// writeRunInfo writes sampler metadata.
func (w *MarkdownWriter) writeRunInfo(md *markdown.Markdown, report *FitReport) {
	md.H2("Run Info")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Walkers", strconv.Itoa(report.Walkers)},
			{"Production steps", strconv.Itoa(report.ProductionSteps)},
			{"Sampled parameters", strconv.Itoa(report.Dim)},
		},
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by mbbfit*")
}
