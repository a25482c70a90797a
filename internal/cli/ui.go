package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleWeekend = lipgloss.NewStyle().Foreground(colorGray)
	styleCurrent = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints layout statistics on a single line.
func printStats(st pipeline.Stats, cached bool) {
	var parts []string
	if st.RowCount > 0 {
		parts = append(parts, fmt.Sprintf("%d rows", st.RowCount))
	}
	if st.TaskCount > 0 {
		parts = append(parts, fmt.Sprintf("%d tasks", st.TaskCount))
	}
	parts = append(parts, fmt.Sprintf("%d columns", st.ColumnCount))

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Grid Output
// =============================================================================

// printGrid prints header bands followed by a table of the leaf columns.
func printGrid(w io.Writer, res *pipeline.ColumnsResult, scale string) error {
	if err := printBands(w, res.Headers); err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", scale, "date", "left", "width", "flags")
	for i, col := range res.Columns {
		t.Row(strconv.Itoa(i), cellLabel(scale, col), col.Date.Format("2006-01-02 15:04"),
			formatNumber(col.Left), formatNumber(col.Width), columnFlags(col))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		style := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case row == table.HeaderRow:
			return style.Inherit(StyleTitle)
		case row >= len(res.Columns):
			return style
		case res.Columns[row].Current:
			return style.Inherit(styleCurrent)
		case res.Columns[row].Weekend:
			return style.Inherit(styleWeekend)
		case col >= 3:
			return style.Inherit(StyleNumber)
		}
		return style
	})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d columns · width %s", len(res.Columns), formatNumber(res.Width))))
	return err
}

// printBands prints one line per header band with each cell's label and
// extent.
func printBands(w io.Writer, bands []gantt.BandView) error {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(6)
	for _, band := range bands {
		labels := make([]string, len(band.Cells))
		for i, cell := range band.Cells {
			labels[i] = fmt.Sprintf("%s %s", cellLabel(band.Unit, cell),
				StyleDim.Render(fmt.Sprintf("[%s+%s]", formatNumber(cell.Left), formatNumber(cell.Width))))
		}
		if _, err := fmt.Fprintln(w, keyStyle.Render(band.Unit)+" "+strings.Join(labels, StyleDim.Render(" │ "))); err != nil {
			return err
		}
	}
	return nil
}

// cellLabel names a column or header cell for its unit.
func cellLabel(unit string, c gantt.ColumnView) string {
	switch unit {
	case "hour":
		return c.Date.Format("15:04")
	case "day":
		return c.Date.Format("Mon 02")
	case "week":
		if c.Week > 0 {
			return fmt.Sprintf("W%02d", c.Week)
		}
		return c.Date.Format("W 02 Jan")
	case "month":
		return c.Date.Format("Jan 2006")
	}
	return c.Date.Format("2006-01-02")
}

func columnFlags(c gantt.ColumnView) string {
	var flags []string
	if c.Weekend {
		flags = append(flags, "weekend")
	}
	if c.WorkHour {
		flags = append(flags, "work")
	}
	if c.Current {
		flags = append(flags, "current")
	}
	return strings.Join(flags, ",")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
