// Package mouse maps terminal mouse events onto rectangular hit regions
// registered while a frame is rendered.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickWindow is the longest gap between two clicks on the same region
// that still counts as a double click.
const DoubleClickWindow = 400 * time.Millisecond

// Rect is a screen rectangle. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named clickable area
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the current frame. Regions added later sit on
// top of earlier ones.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region at (x, y), or nil
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			r := m.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns the registered regions in insertion order
func (m *HitMap) Regions() []Region {
	return m.regions
}

// Clear drops every region, typically at the start of a render
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// ActionType classifies a mouse event after hit testing
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionDoubleClick:
		return "double-click"
	case ActionHover:
		return "hover"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionScrollLeft:
		return "scroll-left"
	case ActionScrollRight:
		return "scroll-right"
	case ActionDrag:
		return "drag"
	case ActionDragEnd:
		return "drag-end"
	default:
		return "none"
	}
}

// Action is the result of HandleMouse
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
	DragDX int
	DragDY int
}

// ClickResult is the result of HandleClick
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks click timing and drag state on top of a HitMap
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickTime time.Time

	dragging       bool
	dragStartX     int
	dragStartY     int
	dragRegion     string
	dragStartValue int

	now func() time.Time
}

// NewHandler returns a handler with an empty hit map
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// Clear drops all hit regions
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleClick hit-tests a left click and detects double clicks. A double
// click resets the sequence so a third click starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	now := h.now()
	double := region.ID == h.lastClickID && now.Sub(h.lastClickTime) <= DoubleClickWindow
	if double {
		h.lastClickID = ""
		h.lastClickTime = time.Time{}
	} else {
		h.lastClickID = region.ID
		h.lastClickTime = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// StartDrag begins a drag at (x, y). startValue is whatever the caller is
// resizing (a width, an offset) at drag start.
func (h *Handler) StartDrag(x, y int, regionID string, startValue int) {
	h.dragging = true
	h.dragStartX = x
	h.dragStartY = y
	h.dragRegion = regionID
	h.dragStartValue = startValue
}

// IsDragging reports whether a drag is in progress
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the ID passed to StartDrag
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragStartValue returns the value passed to StartDrag
func (h *Handler) DragStartValue() int { return h.dragStartValue }

// DragDelta returns the offset of (x, y) from the drag origin
func (h *Handler) DragDelta(x, y int) (int, int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag stops the current drag
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
	h.dragStartValue = 0
}

// HandleMouse translates a bubbletea mouse message into an Action
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	a := Action{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		if h.dragging {
			a.Type = ActionDrag
			a.DragDX, a.DragDY = h.DragDelta(msg.X, msg.Y)
			return a
		}
		a.Type = ActionHover
		a.Region = h.HitMap.Test(msg.X, msg.Y)
		return a

	case tea.MouseActionRelease:
		if h.dragging {
			a.Type = ActionDragEnd
			a.DragDX, a.DragDY = h.DragDelta(msg.X, msg.Y)
			h.EndDrag()
		}
		return a

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.Type = ActionScrollUp
			if msg.Shift {
				a.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			a.Type = ActionScrollDown
			if msg.Shift {
				a.Type = ActionScrollRight
			}
		case tea.MouseButtonWheelLeft:
			a.Type = ActionScrollLeft
		case tea.MouseButtonWheelRight:
			a.Type = ActionScrollRight
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			a.Region = res.Region
			a.Type = ActionClick
			if res.IsDoubleClick {
				a.Type = ActionDoubleClick
			}
			return a
		}
		a.Region = h.HitMap.Test(msg.X, msg.Y)
	}
	return a
}
