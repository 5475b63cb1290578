package modal

import (
	"errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/catalog/pkg/dashboard/mouse"
)

// ErrDetached is returned by a Focuser when the requested control is no
// longer on screen.
var ErrDetached = errors.New("focus target is no longer attached")

// Focuser is the main screen's focus ring as seen by the controller.
type Focuser interface {
	// FocusedID returns the currently focused control, or "".
	FocusedID() string
	// Focus moves focus to id, or returns an error wrapping ErrDetached.
	Focus(id string) error
}

// Controller owns the single modal overlay of the application. It is shared
// by pointer; there is exactly one per program.
type Controller struct {
	focus  Focuser
	logger *slog.Logger
	mouse  *mouse.Handler

	visible   bool
	listening bool
	prevFocus string
	content   *Modal
}

// NewController creates a closed controller. logger may be nil.
func NewController(focus Focuser, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{focus: focus, logger: logger, mouse: mouse.NewHandler()}
}

// IsOpen reports whether the overlay is visible
func (c *Controller) IsOpen() bool { return c.visible }

// Listening reports whether the key listener is attached
func (c *Controller) Listening() bool { return c.listening }

// Content returns the installed modal, or nil when closed
func (c *Controller) Content() *Modal { return c.content }

// PrevFocus returns the control ID that will be refocused on close
func (c *Controller) PrevFocus() string { return c.prevFocus }

// Open shows m. When a modal is already open its content is replaced and the
// control focused inside it becomes the restore target.
func (c *Controller) Open(m *Modal) {
	if m == nil {
		return
	}
	if c.visible && c.content != nil {
		c.prevFocus = c.content.FocusedID()
	} else {
		c.prevFocus = c.focus.FocusedID()
	}

	c.content = m
	m.FocusContainer()
	c.visible = true
	c.listening = true
	c.logger.Debug("modal open", "title", m.Title(), "restore", c.prevFocus)
}

// Close hides the overlay and returns focus to the control captured at open.
// Calling it on a closed controller does nothing.
func (c *Controller) Close() {
	if !c.visible {
		return
	}
	title := ""
	if c.content != nil {
		title = c.content.Title()
	}
	c.visible = false
	c.content = nil
	c.listening = false
	c.mouse.Clear()

	prev := c.prevFocus
	c.prevFocus = ""
	if prev == "" {
		return
	}
	if err := c.focus.Focus(prev); err != nil {
		c.logger.Debug("modal focus restore skipped", "title", title, "target", prev, "err", err)
	}
}

// HandleKey processes a key while the modal is open. handled is false when
// the controller is closed, in which case the key belongs to the main screen.
func (c *Controller) HandleKey(msg tea.KeyMsg) (action string, cmd tea.Cmd, handled bool) {
	if !c.visible || !c.listening || c.content == nil {
		return "", nil, false
	}

	switch msg.String() {
	case "esc":
		c.Close()
		return "", nil, true
	case "tab":
		c.cycleFocus(1)
		return "", nil, true
	case "shift+tab":
		c.cycleFocus(-1)
		return "", nil, true
	}

	m := c.content
	action, cmd = m.Update(msg)
	if action != "" && m.IsCloseAction(action) {
		c.Close()
	}
	return action, cmd, true
}

// cycleFocus moves focus within the modal, wrapping at both ends. The
// control list is recomputed on every call so controls added or disabled
// since the last key are taken into account.
func (c *Controller) cycleFocus(dir int) {
	m := c.content
	ids := m.Focusables()
	if len(ids) == 0 {
		m.FocusContainer()
		return
	}

	cur := -1
	for i, id := range ids {
		if id == m.FocusedID() {
			cur = i
			break
		}
	}

	var next int
	switch {
	case dir > 0 && cur == len(ids)-1:
		next = 0
	case dir > 0:
		next = cur + 1
	case cur <= 0:
		// From the first control, or from the container, wrap to the last.
		next = len(ids) - 1
	default:
		next = cur - 1
	}
	m.focusID = ids[next]
}

// HandleMouse processes a mouse event while the modal is open. Clicks
// resolve against the regions of the last View call.
func (c *Controller) HandleMouse(msg tea.MouseMsg) (action string, cmd tea.Cmd, handled bool) {
	if !c.visible || !c.listening || c.content == nil {
		return "", nil, false
	}
	m := c.content
	a := c.mouse.HandleMouse(msg)

	switch a.Type {
	case mouse.ActionHover:
		m.hover("")
		if a.Region != nil {
			if _, ok := a.Region.Data.(FocusableInfo); ok {
				m.hover(a.Region.ID)
			}
		}
		return "", nil, true

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		key := tea.KeyMsg{Type: tea.KeyUp}
		if a.Type == mouse.ActionScrollDown {
			key = tea.KeyMsg{Type: tea.KeyDown}
		}
		action, cmd = m.Update(key)
		return action, cmd, true

	case mouse.ActionClick, mouse.ActionDoubleClick:
		if a.Region == nil {
			return "", nil, true
		}
		switch a.Region.ID {
		case RegionBackdrop:
			if m.closeOnBackdrop {
				c.Close()
			}
			return "", nil, true
		case RegionBox:
			return "", nil, true
		}

		info, ok := a.Region.Data.(FocusableInfo)
		if !ok || info.Disabled {
			return "", nil, true
		}
		m.focusID = info.ID
		if info.Role == RoleField {
			return "", nil, true
		}
		if info.Role == RoleClose {
			c.Close()
		}
		return info.ID, nil, true
	}
	return "", nil, true
}

// View draws the modal centred over background. With the modal closed it
// returns background unchanged.
func (c *Controller) View(background string, width, height int) string {
	if !c.visible || c.content == nil {
		return background
	}
	c.mouse.Clear()
	box := c.content.Render(width, height, c.mouse)
	x, y := c.content.Position()
	return overlay(background, box, x, y, width, height)
}

// overlay places fg at (x, y) over a dimmed bg
func overlay(bg, fg string, x, y, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}
	for i, line := range bgLines {
		plain := ansi.Strip(line)
		if pad := width - ansi.StringWidth(plain); pad > 0 {
			plain += strings.Repeat(" ", pad)
		}
		bgLines[i] = plain
	}

	fgLines := strings.Split(fg, "\n")
	for i, fl := range fgLines {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		base := bgLines[row]
		w := ansi.StringWidth(fl)
		left := ansi.Cut(base, 0, x)
		right := ansi.Cut(base, x+w, ansi.StringWidth(base))
		bgLines[row] = Backdrop.Render(left) + fl + Backdrop.Render(right)
	}
	for i, line := range bgLines {
		if i < y || i >= y+len(fgLines) {
			bgLines[i] = Backdrop.Render(line)
		}
	}
	return strings.Join(bgLines, "\n")
}
