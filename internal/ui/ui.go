package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	purple = lipgloss.Color("#7D56F4")
	cyan   = lipgloss.Color("#00D9FF")
	green  = lipgloss.Color("#04B575")
	pink   = lipgloss.Color("#FF5F87")
	orange = lipgloss.Color("#FFAF00")
	gray   = lipgloss.Color("#626262")
	gold   = lipgloss.Color("#FFD700")
	white  = lipgloss.Color("#FAFAFA")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(purple).MarginTop(1).MarginBottom(1).PaddingLeft(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(cyan).MarginTop(1).PaddingLeft(1)
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(cyan)
	mutedStyle  = lipgloss.NewStyle().Foreground(gray)

	indent     = lipgloss.NewStyle().PaddingLeft(2)
	itemIndent = lipgloss.NewStyle().PaddingLeft(4).Foreground(white)
)

// marker is a coloured symbol that prefixes a status line
type marker struct {
	symbol string
	style  lipgloss.Style
	text   lipgloss.Style
}

var (
	stepMarker    = marker{"→", lipgloss.NewStyle().Foreground(cyan), lipgloss.NewStyle()}
	successMarker = marker{"✓", lipgloss.NewStyle().Bold(true).Foreground(green), lipgloss.NewStyle().Bold(true).Foreground(green)}
	errorMarker   = marker{"✗", lipgloss.NewStyle().Bold(true).Foreground(pink), lipgloss.NewStyle().Bold(true).Foreground(pink)}
	warnMarker    = marker{"⚠", lipgloss.NewStyle(), lipgloss.NewStyle().Foreground(orange)}
	starMarker    = marker{"★", lipgloss.NewStyle().Foreground(gold), lipgloss.NewStyle().Bold(true).Foreground(gold)}
)

func (m marker) line(message string) string {
	return indent.Render(m.style.Render(m.symbol) + " " + m.text.Render(message))
}

var (
	out     io.Writer = os.Stdout
	verbose bool
)

// SetOutput redirects all console output and returns the previous writer
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

func emit(s string) {
	fmt.Fprintln(out, s)
}

// PrintTitle prints a framed title
func PrintTitle(title string) {
	emit(titleStyle.Render("╭─ " + title + " ─╮"))
}

// PrintHeader prints a section header
func PrintHeader(title string) {
	emit(headerStyle.Render("\n▸ " + title))
}

func PrintStep(step string) {
	emit(stepMarker.line(step))
}

func PrintItem(item string) {
	emit(itemIndent.Render(mutedStyle.Render("•") + " " + item))
}

func PrintSuccess(message string) {
	emit(successMarker.line(message))
}

func PrintError(message string) {
	emit(errorMarker.line(message))
}

func PrintWarning(message string) {
	emit(warnMarker.line(message))
}

// PrintInfo prints a muted note
func PrintInfo(message string) {
	emit(indent.Render(mutedStyle.Render(message)))
}

func PrintHighlight(message string) {
	emit(starMarker.line(message))
}

// PrintSeparator prints a horizontal rule
func PrintSeparator() {
	emit(mutedStyle.Render(strings.Repeat("─", 45)))
}

// PrintKeyValue prints "key: value" with the key highlighted
func PrintKeyValue(key, value string) {
	emit(indent.Render(keyStyle.Render(key+":") + " " + value))
}

// PrintTableRow prints a formatted table row; widths gives each column's size
func PrintTableRow(widths []int, columns ...string) {
	emit(indent.Render(tableRow(widths, columns, true)))
}

// PrintTableHeader prints a table header followed by a separator line
func PrintTableHeader(widths []int, headers ...string) {
	emit(indent.Render(keyStyle.Render(tableRow(widths, headers, false))))

	n := len(headers)
	if n > len(widths) {
		n = len(widths)
	}
	cells := make([]string, n)
	for i := range cells {
		cells[i] = strings.Repeat("─", widths[i])
	}
	emit(indent.Render(mutedStyle.Render(strings.Join(cells, "─┼─"))))
}

func tableRow(widths []int, columns []string, ellipsis bool) string {
	row := ""
	for i, col := range columns {
		if i >= len(widths) {
			break
		}

		// Truncate or pad the column
		if len(col) > widths[i] {
			if ellipsis && widths[i] > 3 {
				col = col[:widths[i]-3] + "..."
			} else {
				col = col[:widths[i]]
			}
		} else {
			col = col + strings.Repeat(" ", widths[i]-len(col))
		}

		row += col
		if i < len(columns)-1 {
			row += " │ "
		}
	}
	return row
}

// SetVerbose enables step-by-step output
func SetVerbose(v bool) {
	verbose = v
}

// IsVerbose reports whether step-by-step output is on. CI runs are always verbose.
func IsVerbose() bool {
	return verbose || os.Getenv("CI") != ""
}

// PrintProgress redraws a progress bar on the current line. It prints nothing
// in verbose mode, where every step gets its own line.
func PrintProgress(current, total int, message string) {
	if IsVerbose() || total <= 0 {
		return
	}

	const barWidth = 30
	filled := current * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(out, "\r  [%s] %d%% %s", bar, current*100/total, message)
	if current >= total {
		fmt.Fprintln(out)
	}
}
