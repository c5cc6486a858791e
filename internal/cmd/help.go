package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderBatchHelp renders the help text for the batch command with lipgloss styling
func renderBatchHelp() string {
	// Define styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	pathStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Slice everything and report the print runs"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("platebatch batch -c platebatch.yaml"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Re-plan from cached G-code with tighter spacing"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("platebatch batch --no-slice --padding 10 --placements"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Keep all G-code in one database"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("platebatch batch --cache bolt"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Models layout:"))
	b.WriteString("\n")

	paths := []struct {
		path string
		desc string
	}{
		{"platebatch.yaml", "Printers, beds, slicer and padding"},
		{"stl/<printer>/", "One folder per printer key"},
		{"stl/<printer>/*.stl", "Models printed on that printer (.stl or .3mf)"},
		{"*_gcode.gcode", "Sliced output kept next to each model (file cache)"},
	}

	// Calculate max path width for alignment
	maxWidth := 0
	for _, p := range paths {
		if len(p.path) > maxWidth {
			maxWidth = len(p.path)
		}
	}

	for _, p := range paths {
		padding := strings.Repeat(" ", maxWidth-len(p.path)+2)
		b.WriteString("  " + pathStyle.Render(p.path) + padding + commentStyle.Render(p.desc))
		b.WriteString("\n")
	}

	return b.String()
}
