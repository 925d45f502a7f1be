package output

import (
	"github.com/charmbracelet/lipgloss"

	goosgimod "github.com/albertocavalcante/go-osgimod"
)

var (
	ColorCyan    = lipgloss.Color("14")
	ColorGreen   = lipgloss.Color("82")
	ColorYellow  = lipgloss.Color("220")
	ColorRed     = lipgloss.Color("196")
	ColorDimGray = lipgloss.Color("240")
)

var (
	// StyleNoun styles bundle and package names.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// StatusStyle returns the style for a diagnostic kind.
func StatusStyle(s goosgimod.Status) lipgloss.Style {
	switch s {
	case goosgimod.StatusOk:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case goosgimod.StatusVersionMismatch:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case goosgimod.StatusMissing:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	default:
		return StyleDim
	}
}
