// Package style provides shared colors, icons and lipgloss styles for console output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Table styles used by the listing commands.
var (
	Header = lipgloss.NewStyle().Bold(true).Foreground(Iris)
	Muted  = lipgloss.NewStyle().Foreground(Slate)
	OK     = lipgloss.NewStyle().Foreground(Green)
	Failed = lipgloss.NewStyle().Foreground(Red)
)
