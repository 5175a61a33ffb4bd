package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphprep/pkg/pipeline"
)

// uiOut receives the human-readable status lines. Machine output (prepared
// results, diagrams on stdout) goes through cobra's writers instead.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Status Lines
// =============================================================================

func status(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(uiOut, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status("✓", styleSuccess, format, args...) }
func printError(format string, args ...any)   { status("✗", styleError, format, args...) }
func printInfo(format string, args ...any)    { status("›", styleInfo, format, args...) }

func printWarning(format string, args ...any) {
	status("!", styleWarning, "%s", styleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats prints graph statistics on one line, e.g.
// "4 nodes · 2 edges · 1 component · 1 isolated · cached".
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		plural(stats.NodeCount, "node"),
		plural(stats.EdgeCount, "edge"),
		plural(stats.ComponentCount, "component"),
	}
	if stats.IsolatedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d isolated", stats.IsolatedCount))
	}
	sep := StyleDim.Render(" · ")
	line := StyleDim.Render(strings.Join(parts, " · "))
	if cached {
		line += sep + styleSuccess.Render("cached")
	} else {
		line += sep + styleInfo.Render("fresh")
	}
	fmt.Fprintln(uiOut, "  "+line)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
