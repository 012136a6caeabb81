package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dmagro/abikit/internal/vectors"
)

// RenderVectorReport outputs one row per vector and a pass/fail summary
func RenderVectorReport(w io.Writer, report *vectors.Report, format string) error {
	if format == FormatJSON {
		return writeJSON(w, report)
	}

	renderHeading(w, "Conformance Vectors")
	tbl := newTable(w, "Vector", "Selector", "Result", "Time", "Reason")
	for _, r := range report.Results {
		result := green("✓ pass")
		if !r.Passed {
			result = red("✗ fail")
		}
		tbl.AddRow(r.Name, r.Selector, result, formatDuration(r.Duration), r.Reason)
	}
	tbl.Print()
	fmt.Fprintln(w)

	summary := fmt.Sprintf("%d passed, %d failed", report.Passed, report.Failed)
	if report.Failed > 0 {
		fmt.Fprintln(w, yellow("⚠"), bold(summary))
	} else {
		fmt.Fprintln(w, green("✓"), bold(summary))
	}
	fmt.Fprintf(w, "  %s p50 %s  p95 %s  p99 %s  max %s\n", cyan("Timing:"),
		formatDuration(report.Timing.P50),
		formatDuration(report.Timing.P95),
		formatDuration(report.Timing.P99),
		formatDuration(report.Timing.Max))
	fmt.Fprintln(w)
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return dim(fmt.Sprintf("%dns", d.Nanoseconds()))
}
