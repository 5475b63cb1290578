package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const buttonGap = 2

// ButtonDef describes one button in a Buttons row
type ButtonDef struct {
	Label    string
	ID       string
	danger   bool
	close    bool
	disabled func() bool
}

// ButtonOption configures a ButtonDef
type ButtonOption func(*ButtonDef)

// Btn creates a button. ID is the action returned when it is activated.
func Btn(label, id string, opts ...ButtonOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BtnDanger styles the button as destructive
func BtnDanger() ButtonOption {
	return func(b *ButtonDef) { b.danger = true }
}

// BtnClose gives the button the close role: activating it closes the modal
// after its action is reported.
func BtnClose() ButtonOption {
	return func(b *ButtonDef) { b.close = true }
}

// BtnDisabled disables the button while cond returns true. A disabled button
// is skipped by Tab and ignores clicks and Enter.
func BtnDisabled(cond func() bool) ButtonOption {
	return func(b *ButtonDef) { b.disabled = cond }
}

// Disabled reports the current disabled state
func (b ButtonDef) Disabled() bool {
	return b.disabled != nil && b.disabled()
}

func (b ButtonDef) role() Role {
	if b.close {
		return RoleClose
	}
	return RoleButton
}

func (b ButtonDef) style(focused, hovered bool) lipgloss.Style {
	switch {
	case b.Disabled():
		return ButtonDisabled
	case b.danger && focused:
		return ButtonDangerFocused
	case b.danger && hovered:
		return ButtonDangerHover
	case b.danger:
		return ButtonDanger
	case focused:
		return ButtonFocused
	case hovered:
		return ButtonHover
	}
	return Button
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons creates a horizontal row of buttons
func Buttons(btns ...ButtonDef) Section {
	return &buttonsSection{buttons: btns}
}

func (s *buttonsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	var sb strings.Builder
	focusables := make([]FocusableInfo, 0, len(s.buttons))
	x := 0
	for i, b := range s.buttons {
		if i > 0 {
			sb.WriteString(strings.Repeat(" ", buttonGap))
			x += buttonGap
		}
		rendered := b.style(focusID == b.ID, hoverID == b.ID).Render(b.Label)
		w := lipgloss.Width(rendered)
		sb.WriteString(rendered)
		focusables = append(focusables, FocusableInfo{
			ID:       b.ID,
			OffsetX:  x,
			Width:    w,
			Height:   1,
			Role:     b.role(),
			Disabled: b.Disabled(),
		})
		x += w
	}
	return RenderedSection{Content: sb.String(), Focusables: focusables}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	if keyMsg.String() != "enter" && keyMsg.String() != " " {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID && !b.Disabled() {
			return b.ID, nil
		}
	}
	return "", nil
}
