package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
)

// Section is one block of modal content. Render is called on every frame and
// on every Tab press, so it must not have side effects beyond scroll state.
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Role tells the controller what activating a control does
type Role int

const (
	// RoleField takes focus and input but produces no action on click
	RoleField Role = iota
	// RoleButton produces its ID as an action when activated
	RoleButton
	// RoleClose is a button that also closes the modal
	RoleClose
)

// FocusableInfo describes one control inside a rendered section. Offsets are
// relative to the section's top-left corner.
type FocusableInfo struct {
	ID       string
	OffsetX  int
	OffsetY  int
	Width    int
	Height   int
	Role     Role
	Disabled bool
}

// RenderedSection is the measured output of a section
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// textSection renders wrapped static text
type textSection struct {
	text string
	fn   func() string
}

// Text creates a static text section wrapped to the content width
func Text(s string) Section {
	return &textSection{text: s}
}

// TextFunc creates a text section whose content is computed at render time
func TextFunc(fn func() string) Section {
	return &textSection{fn: fn}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	text := s.text
	if s.fn != nil {
		text = s.fn()
	}
	if text == "" {
		return RenderedSection{}
	}
	return RenderedSection{Content: Body.Render(cellbuf.Wrap(text, contentWidth, "-"))}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

type spacerSection struct{}

// Spacer creates a blank line
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// whenSection renders inner only while cond holds
type whenSection struct {
	cond  func() bool
	inner Section
}

// When shows section only while condition returns true. A hidden section
// contributes no lines and no focusable controls.
func When(condition func() bool, section Section) Section {
	return &whenSection{cond: condition, inner: section}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.inner.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.inner.Update(msg, focusID)
}

// RenderFunc renders a custom section
type RenderFunc func(contentWidth int, focusID, hoverID string) RenderedSection

// UpdateFunc handles messages for a custom section
type UpdateFunc func(msg tea.Msg, focusID string) (string, tea.Cmd)

type customSection struct {
	render RenderFunc
	update UpdateFunc
}

// Custom wraps arbitrary render and update functions. update may be nil.
func Custom(render RenderFunc, update UpdateFunc) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// lineCount returns the number of terminal lines in s
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
