package dashboard

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors
var (
	primaryColor   = lipgloss.Color("212")
	secondaryColor = lipgloss.Color("141")
	successColor   = lipgloss.Color("42")
	warningColor   = lipgloss.Color("214")
	errorColor     = lipgloss.Color("196")
	mutedColor     = lipgloss.Color("241")
	cyanColor      = lipgloss.Color("45")
)

// chartPalette colours pie slices and bars in order
var chartPalette = []lipgloss.Color{"39", "212", "42", "214", "141", "45", "203", "226"}

// Styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	subtleStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(secondaryColor).
			Padding(0, 1)

	roleAdminStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	roleUserStyle  = lipgloss.NewStyle().Foreground(cyanColor)

	toolbarButton = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	toolbarButtonFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(primaryColor).
				Bold(true).
				Padding(0, 1)
)

// ColorProfile picks the terminal colour profile. NO_COLOR or noColor forces
// plain ASCII output.
func ColorProfile(noColor bool) termenv.Profile {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.NewOutput(os.Stdout).EnvColorProfile()
}

// ApplyColorProfile sets the profile used by every lipgloss style
func ApplyColorProfile(p termenv.Profile) {
	lipgloss.SetColorProfile(p)
	if p == termenv.Ascii {
		lipgloss.SetHasDarkBackground(true)
	}
}
