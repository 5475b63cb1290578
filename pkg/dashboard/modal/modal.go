package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/marcus/catalog/pkg/dashboard/mouse"
)

// Variant selects the frame colour of a modal
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

const (
	defaultWidth = 50
	minWidth     = 24
	boxPadX      = 2
	boxPadY      = 1
	boxBorder    = 1
)

// Region IDs registered besides the controls
const (
	RegionBackdrop = "modal:backdrop"
	RegionBox      = "modal:box"
)

// Option configures a Modal
type Option func(*Modal)

// WithWidth sets the outer width of the box
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w >= minWidth {
			m.width = w
		}
	}
}

// WithVariant sets the visual style
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints shows or hides the keyboard hint line
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action returned by Enter in an input field
func WithPrimaryAction(actionID string) Option {
	return func(m *Modal) { m.primaryAction = actionID }
}

// WithCloseOnBackdropClick closes the modal when the backdrop is clicked
func WithCloseOnBackdropClick(close bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = close }
}

// Modal is declarative dialog content. It is shown by a Controller.
type Modal struct {
	title           string
	width           int
	variant         Variant
	showHints       bool
	primaryAction   string
	closeOnBackdrop bool
	sections        []Section

	// focusID is the focused control; "" means the container itself.
	focusID string
	hoverID string
	errMsg  string

	// Top-left corner of the last render
	x, y int
}

// New creates a modal with a title
func New(title string, opts ...Option) *Modal {
	m := &Modal{title: title, width: defaultWidth, showHints: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section and returns the modal for chaining
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Title returns the modal title
func (m *Modal) Title() string { return m.title }

// SetError shows an inline error line under the title. "" clears it.
func (m *Modal) SetError(msg string) { m.errMsg = msg }

// Err returns the inline error text
func (m *Modal) Err() string { return m.errMsg }

// FocusedID returns the focused control, or "" when the container has focus
func (m *Modal) FocusedID() string { return m.focusID }

// FocusContainer moves focus to the modal container
func (m *Modal) FocusContainer() { m.focusID = "" }

// SetFocus focuses an enabled control. It returns false when id is not a
// focusable control of the current layout.
func (m *Modal) SetFocus(id string) bool {
	for _, fid := range m.Focusables() {
		if fid == id {
			m.focusID = id
			return true
		}
	}
	return false
}

// Focusables lays the sections out and returns the enabled control IDs in
// render order.
func (m *Modal) Focusables() []string {
	var ids []string
	for _, rs := range m.renderSections(m.contentWidth(0)) {
		for _, f := range rs.Focusables {
			if !f.Disabled {
				ids = append(ids, f.ID)
			}
		}
	}
	return ids
}

// control returns the last rendered info for id
func (m *Modal) control(id string) (FocusableInfo, bool) {
	for _, rs := range m.renderSections(m.contentWidth(0)) {
		for _, f := range rs.Focusables {
			if f.ID == id {
				return f, true
			}
		}
	}
	return FocusableInfo{}, false
}

// IsCloseAction reports whether id is a button with the close role
func (m *Modal) IsCloseAction(id string) bool {
	f, ok := m.control(id)
	return ok && f.Role == RoleClose
}

// Update routes a message to the sections. The returned action is a button
// or list item ID, or the primary action for Enter in an input.
func (m *Modal) Update(msg tea.Msg) (string, tea.Cmd) {
	var cmds []tea.Cmd
	action := ""
	for _, s := range m.sections {
		a, cmd := s.Update(msg, m.focusID)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if a != "" && action == "" {
			action = a
		}
	}
	if action == submitPrimary {
		action = m.primaryAction
	}
	return action, tea.Batch(cmds...)
}

func (m *Modal) contentWidth(screenW int) int {
	w := m.width
	if screenW > 0 && w > screenW-2 {
		w = max(minWidth, screenW-2)
	}
	return w - 2*boxBorder - 2*boxPadX
}

func (m *Modal) renderSections(contentWidth int) []RenderedSection {
	out := make([]RenderedSection, 0, len(m.sections))
	for _, s := range m.sections {
		out = append(out, s.Render(contentWidth, m.focusID, m.hoverID))
	}
	return out
}

func (m *Modal) hints() string {
	parts := []string{"tab next", "esc close"}
	if m.primaryAction != "" {
		parts = append([]string{"enter submit"}, parts...)
	}
	return MutedText.Render(strings.Join(parts, " · "))
}

// Render lays out the box centred on a screenW x screenH screen and, when h
// is non-nil, registers the backdrop, box and control hit regions.
func (m *Modal) Render(screenW, screenH int, h *mouse.Handler) string {
	cw := m.contentWidth(screenW)

	var lines []string
	lines = append(lines, titleStyle(m.variant).Render(ansi.Truncate(m.title, cw, "…")))
	if m.errMsg != "" {
		lines = append(lines, ErrorText.Render(cellbuf.Wrap(m.errMsg, cw, "-")))
	}
	lines = append(lines, "")

	// Controls measured relative to the content origin
	type pending struct {
		info FocusableInfo
		y    int
	}
	var placed []pending
	y := lineCount(strings.Join(lines, "\n"))
	for _, rs := range m.renderSections(cw) {
		if rs.Content == "" && len(rs.Focusables) == 0 {
			continue
		}
		for _, f := range rs.Focusables {
			placed = append(placed, pending{info: f, y: y + f.OffsetY})
		}
		lines = append(lines, rs.Content)
		y += lineCount(rs.Content)
	}
	if m.showHints {
		lines = append(lines, "", m.hints())
	}

	body := lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
	box := boxStyle(m.variant).Render(body)

	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)
	m.x = max(0, (screenW-boxW)/2)
	m.y = max(0, (screenH-boxH)/2)

	if h != nil {
		originX := m.x + boxBorder + boxPadX
		originY := m.y + boxBorder + boxPadY
		h.HitMap.AddRect(RegionBackdrop, 0, 0, screenW, screenH, nil)
		h.HitMap.AddRect(RegionBox, m.x, m.y, boxW, boxH, nil)
		for _, p := range placed {
			h.HitMap.AddRect(p.info.ID, originX+p.info.OffsetX, originY+p.y, p.info.Width, max(1, p.info.Height), p.info)
		}
	}
	return box
}

// Position returns the top-left corner of the last render
func (m *Modal) Position() (int, int) { return m.x, m.y }

// hover sets the hovered control
func (m *Modal) hover(id string) { m.hoverID = id }
