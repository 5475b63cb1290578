package modal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// ListItem is one selectable row. Enter on a row reports its ID as the
// modal action.
type ListItem struct {
	ID    string
	Label string // may contain newlines; each line is a terminal row
	Data  any
}

type ListOption func(*listSection)

// WithMaxVisible caps how many rows are drawn before the list scrolls.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.rows = n
		}
	}
}

// WithEmptyText replaces the placeholder shown for an empty list.
func WithEmptyText(text string) ListOption {
	return func(s *listSection) { s.empty = text }
}

type listSection struct {
	id     string
	source func() []ListItem
	cursor *int
	rows   int
	top    int
	empty  string
}

// ListFunc builds a list whose rows are fetched on every render, so a modal
// can open before its page has loaded. cursor is owned by the caller and is
// clamped to the row count on each render; a nil cursor makes the list
// read-only.
func ListFunc(id string, source func() []ListItem, cursor *int, opts ...ListOption) Section {
	s := &listSection{id: id, source: source, cursor: cursor, rows: 5, empty: "(no items)"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *listSection) selected(n int) int {
	if s.cursor == nil {
		return -1
	}
	*s.cursor = clamp(*s.cursor, 0, n-1)
	return *s.cursor
}

// scroll moves the window so the cursor row stays visible and returns the
// number of rows to draw.
func (s *listSection) scroll(n, sel int) int {
	visible := min(s.rows, n)
	if sel >= 0 {
		if sel < s.top {
			s.top = sel
		}
		if sel >= s.top+visible {
			s.top = sel - visible + 1
		}
	}
	s.top = clamp(s.top, 0, n-visible)
	return visible
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	items := s.source()
	if len(items) == 0 {
		return RenderedSection{Content: MutedText.Render(s.empty)}
	}
	sel := s.selected(len(items))
	visible := s.scroll(len(items), sel)
	focused := focusID == s.id
	width := max(1, contentWidth-2)

	var lines []string
	if s.top > 0 {
		lines = append(lines, MutedText.Render(fmt.Sprintf("↑ %d more", s.top)))
	}
	for i := s.top; i < s.top+visible; i++ {
		it := items[i]
		style := ListItemNormal
		gutter := "  "
		if i == sel {
			gutter = ListCursor.Render("> ")
			style = ListItemSelected
			if focused {
				style = ListItemFocused
			}
		} else if it.ID == hoverID {
			style = ListItemSelected
		}
		for j, l := range strings.Split(it.Label, "\n") {
			if j > 0 {
				gutter = "  "
			}
			lines = append(lines, gutter+style.Render(ansi.Truncate(l, width, "…")))
		}
	}
	if below := len(items) - s.top - visible; below > 0 {
		lines = append(lines, MutedText.Render(fmt.Sprintf("↓ %d more", below)))
	}

	// Tab treats the whole list as one stop.
	return RenderedSection{
		Content: strings.Join(lines, "\n"),
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: len(lines),
			Role:   RoleField,
		}},
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || focusID != s.id || s.cursor == nil {
		return "", nil
	}
	items := s.source()
	n := len(items)
	if n == 0 {
		return "", nil
	}

	switch key.String() {
	case "up", "k":
		*s.cursor--
	case "down", "j":
		*s.cursor++
	case "pgup":
		*s.cursor -= s.rows
	case "pgdown":
		*s.cursor += s.rows
	case "home", "g":
		*s.cursor = 0
	case "end", "G":
		*s.cursor = n - 1
	case "enter":
		return items[s.selected(n)].ID, nil
	}
	s.selected(n)
	return "", nil
}
