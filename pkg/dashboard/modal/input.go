package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// submitPrimary is returned by an input on Enter when it has no submit action
// of its own; the modal swaps in its primary action.
const submitPrimary = "\x00primary"

// InputOption configures Input and Textarea sections
type InputOption func(*fieldOptions)

type fieldOptions struct {
	label    string
	onChange func(value string) tea.Cmd
	submit   string
}

// WithLabel shows a label line above the field
func WithLabel(label string) InputOption {
	return func(o *fieldOptions) { o.label = label }
}

// WithOnChange calls fn after every edit that changes the value
func WithOnChange(fn func(value string) tea.Cmd) InputOption {
	return func(o *fieldOptions) { o.onChange = fn }
}

// WithSubmitAction makes Enter in this field return actionID. It takes
// precedence over the modal's primary action.
func WithSubmitAction(actionID string) InputOption {
	return func(o *fieldOptions) { o.submit = actionID }
}

func buildFieldOptions(opts []InputOption) fieldOptions {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// renderField draws the optional label and the field body, and returns the
// focusable rectangle of the body.
func renderField(id string, o fieldOptions, body string, contentWidth int, focused bool) RenderedSection {
	style := FieldBlurred
	if focused {
		style = FieldFocused
	}
	body = style.Width(contentWidth - 2).Render(body)

	offsetY := 0
	content := body
	if o.label != "" {
		content = FieldLabel.Render(o.label) + "\n" + body
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:      id,
			OffsetY: offsetY,
			Width:   contentWidth,
			Height:  lineCount(body),
			Role:    RoleField,
		}},
	}
}

type inputSection struct {
	id    string
	model *textinput.Model
	opts  fieldOptions
}

// Input creates a single-line text field backed by a bubbles textinput.
// The model is owned by the caller; the section focuses and blurs it.
func Input(id string, model *textinput.Model, opts ...InputOption) Section {
	return &inputSection{id: id, model: model, opts: buildFieldOptions(opts)}
}

func (s *inputSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	focused := focusID == s.id
	syncFocus(focused, s.model.Focused(), s.model.Focus, s.model.Blur)
	s.model.Width = max(1, contentWidth-6)
	return renderField(s.id, s.opts, s.model.View(), contentWidth, focused)
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if s.opts.submit != "" {
			return s.opts.submit, nil
		}
		return submitPrimary, nil
	}
	syncFocus(true, s.model.Focused(), s.model.Focus, s.model.Blur)
	before := s.model.Value()
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	if s.opts.onChange != nil && s.model.Value() != before {
		cmd = tea.Batch(cmd, s.opts.onChange(s.model.Value()))
	}
	return "", cmd
}

type textareaSection struct {
	id     string
	model  *textarea.Model
	height int
	opts   fieldOptions
}

// Textarea creates a multi-line field backed by a bubbles textarea. Enter
// inserts a newline; use a button to submit.
func Textarea(id string, model *textarea.Model, height int, opts ...InputOption) Section {
	if height < 1 {
		height = 3
	}
	return &textareaSection{id: id, model: model, height: height, opts: buildFieldOptions(opts)}
}

func (s *textareaSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	focused := focusID == s.id
	syncFocus(focused, s.model.Focused(), s.model.Focus, s.model.Blur)
	s.model.SetWidth(max(1, contentWidth-3))
	s.model.SetHeight(s.height)
	return renderField(s.id, s.opts, strings.TrimRight(s.model.View(), "\n"), contentWidth, focused)
}

func (s *textareaSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	syncFocus(true, s.model.Focused(), s.model.Focus, s.model.Blur)
	before := s.model.Value()
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	if s.opts.onChange != nil && s.model.Value() != before {
		cmd = tea.Batch(cmd, s.opts.onChange(s.model.Value()))
	}
	return "", cmd
}

// syncFocus focuses or blurs a bubbles model to match the modal focus
func syncFocus(want, has bool, focus func() tea.Cmd, blur func()) {
	switch {
	case want && !has:
		focus()
	case !want && has:
		blur()
	}
}
