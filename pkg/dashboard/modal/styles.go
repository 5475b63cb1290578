package modal

import "github.com/charmbracelet/lipgloss"

// Palette shared with the dashboard. The dashboard may swap these before the
// first render when the terminal has no colour support.
var (
	Primary      = lipgloss.Color("212")
	Error        = lipgloss.Color("196")
	Warning      = lipgloss.Color("214")
	Info         = lipgloss.Color("45")
	Muted        = lipgloss.Color("241")
	BgSecondary  = lipgloss.Color("235")
	BorderNormal = lipgloss.Color("240")
)

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 1)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	ButtonHover = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("245")).
			Padding(0, 1)

	ButtonDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(Error).
				Bold(true).
				Padding(0, 1)

	ButtonDangerHover = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("203")).
				Padding(0, 1)

	// Disabled controls stay visible but never take focus
	ButtonDisabled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// Text styles
var (
	ModalTitle = lipgloss.NewStyle().Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	ErrorText  = lipgloss.NewStyle().Foreground(Error)
	Body       = lipgloss.NewStyle()
	FieldLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	FieldFocused = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Primary).
			PaddingLeft(1)

	FieldBlurred = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(BorderNormal).
			PaddingLeft(1)
)

// List styles
var (
	ListItemNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ListItemSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))

	ListItemFocused = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	ListCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Backdrop is applied to the main screen while a modal is open
var Backdrop = lipgloss.NewStyle().Faint(true)

// boxStyle returns the frame for a variant
func boxStyle(v Variant) lipgloss.Style {
	border := BorderNormal
	switch v {
	case VariantDanger:
		border = Error
	case VariantWarning:
		border = Warning
	case VariantInfo:
		border = Info
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(boxPadY, boxPadX)
}

func titleStyle(v Variant) lipgloss.Style {
	switch v {
	case VariantDanger:
		return ModalTitle.Foreground(Error)
	case VariantWarning:
		return ModalTitle.Foreground(Warning)
	case VariantInfo:
		return ModalTitle.Foreground(Info)
	}
	return ModalTitle.Foreground(Primary)
}
