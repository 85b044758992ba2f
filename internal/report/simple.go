package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with aligned parameter
// tables and clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional run metadata in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with sampler metadata.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *FitReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeParameters(&sb, report)
	if w.verbose {
		w.writeRunInfo(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with source information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *FitReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          MBB FIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:     %s\n", report.Target))
	sb.WriteString(fmt.Sprintf("Date:       %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Variant:    %s\n", report.Variant))
	sb.WriteString(fmt.Sprintf("Redshift:   %.4f\n", report.Redshift))
	sb.WriteString(fmt.Sprintf("Points:     %d\n", report.Points))
	sb.WriteString(fmt.Sprintf("log10(LIR): %.3f [Lsun]\n", report.LogLuminosity))
	sb.WriteString("\n")
}

// writeParameters writes the posterior percentile table.
func (w *SimpleWriter) writeParameters(sb *strings.Builder, report *FitReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("POSTERIOR SUMMARY (16th / 50th / 84th percentiles)\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, p := range report.Parameters {
		unit := p.Unit
		if unit != "" {
			unit = " " + unit
		}
		if p.Fixed {
			sb.WriteString(fmt.Sprintf("  %-10s %10.4f%s  (held fixed)\n", p.Name+":", p.P50, unit))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-10s %10.4f  +%.4f / -%.4f%s\n",
			p.Name+":", p.P50, p.P84-p.P50, p.P50-p.P16, unit))
	}
	sb.WriteString("\n")
}

// writeRunInfo writes sampler metadata.
func (w *SimpleWriter) writeRunInfo(sb *strings.Builder, report *FitReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RUN INFO\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Walkers:          %d\n", report.Walkers))
	sb.WriteString(fmt.Sprintf("  Production steps: %d\n", report.ProductionSteps))
	sb.WriteString(fmt.Sprintf("  Sampled params:   %d\n", report.Dim))
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by mbbfit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
