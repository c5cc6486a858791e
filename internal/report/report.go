// Package report renders packed batches as a fixed-width text report.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/philipparndt/platebatch/internal/models"
)

const (
	nameWidth    = 35
	dividerWidth = 80
)

// Renderer writes batch reports
type Renderer struct {
	w io.Writer
	// Placements adds the x/y position of every job to its row
	Placements bool
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes the report for batches to w
func Render(w io.Writer, batches []models.Batch) error {
	return NewRenderer(w).Render(batches)
}

// Render writes one section per batch, in the given order. The printer and
// column headers are repeated only when the printer changes.
func (r *Renderer) Render(batches []models.Batch) error {
	var b strings.Builder
	divider := strings.Repeat("-", dividerWidth)

	total := 0
	for i, batch := range batches {
		if i == 0 || batches[i-1].Printer != batch.Printer {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "Printer %s\n", batch.Printer)
			fmt.Fprintf(&b, "%-*s %s\n", nameWidth, "File", "Estimated Print Time")
			b.WriteString(divider + "\n")
		}

		fmt.Fprintf(&b, "Batch %d (%s mm)\n", batch.Index, batch.Bed)
		for j, job := range batch.Jobs {
			fmt.Fprintf(&b, "%-*s %s", nameWidth, job.Name, FormatDurationPadded(job.Duration))
			if r.Placements && j < len(batch.Placements) {
				p := batch.Placements[j]
				fmt.Fprintf(&b, "  at (%.1f, %.1f) %s", p.X, p.Y, job.Footprint)
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Total print time %s\n", FormatDuration(batch.Duration))
		b.WriteString(divider + "\n")

		total += batch.Duration
	}

	fmt.Fprintf(&b, "\n%d print run%s, total print time %s\n", len(batches), plural(len(batches)), FormatDuration(total))

	_, err := io.WriteString(r.w, b.String())
	return err
}

// split breaks seconds into whole days, hours and minutes; leftover seconds
// are dropped
func split(seconds int) (days, hours, minutes int) {
	days = seconds / 86400
	seconds %= 86400
	hours = seconds / 3600
	seconds %= 3600
	minutes = seconds / 60
	return
}

// FormatDuration formats seconds as "D days H hours M minutes"
func FormatDuration(seconds int) string {
	d, h, m := split(seconds)
	return fmt.Sprintf("%d days %d hours %d minutes", d, h, m)
}

// FormatDurationPadded formats seconds as "DD days HH hours MM minutes" so rows line up
func FormatDurationPadded(seconds int) string {
	d, h, m := split(seconds)
	return fmt.Sprintf("%02d days %02d hours %02d minutes", d, h, m)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
