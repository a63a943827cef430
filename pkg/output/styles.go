package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Violet color theme shared with the hookjsx docs site.
// Primary violet (#8b5cf6) for key elements.
var (
	ColorViolet = lipgloss.Color("#8b5cf6") // Primary brand color
	ColorWhite  = lipgloss.Color("#fafafa") // text-primary
	ColorMuted  = lipgloss.Color("#71717a") // text-muted
	ColorGreen  = lipgloss.Color("#22c55e") // build-ok
	ColorRed    = lipgloss.Color("#ef4444") // build-failed
	ColorGray   = lipgloss.Color("#a1a1aa") // text-secondary
)

// violetStyles returns charmbracelet/log styles with violet theme.
func violetStyles() *log.Styles {
	styles := log.DefaultStyles()

	// Level styling with violet accent
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(ColorViolet).
		Bold(true)

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#eab308")). // Yellow
		Bold(true)

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(ColorRed).
		Bold(true)

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(ColorMuted)

	// Timestamp in muted gray
	styles.Timestamp = lipgloss.NewStyle().
		Foreground(ColorMuted)

	// Keys in violet for structured logging
	styles.Key = lipgloss.NewStyle().
		Foreground(ColorViolet)

	// Values in neutral gray
	styles.Value = lipgloss.NewStyle().
		Foreground(ColorGray)

	return styles
}
