package dashboard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/catalog/pkg/dashboard/mouse"
)

// Main-screen hit regions besides the focusable controls. Row regions are
// suffixed with the row index.
const (
	regionItemRow    = "item-row"
	regionChartRow   = "chart-row"
	regionPanelSplit = "panel-split"
)

// handleAppKey routes a key on the app screen with no modal open
func (m Model) handleAppKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		m.ring.Cycle(1)
		return m, nil
	case "shift+tab":
		m.ring.Cycle(-1)
		return m, nil
	case "n":
		return m.openItemForm(nil)
	case "t":
		return m.toggleChartType()
	case "a":
		return m.toggleAdmin()
	case "r":
		return m.refresh()
	}

	switch m.ring.FocusedID() {
	case ctrlItems:
		if mm, cmd, ok := m.handleItemsKey(key); ok {
			return mm, cmd
		}
	case ctrlChart:
		switch key {
		case "left", "h", "up", "k":
			m.chart.Move(-1)
		case "right", "l", "down", "j":
			m.chart.Move(1)
		case "enter":
			return m.openDrillDown()
		}
	case ctrlUsers:
		if mm, cmd, ok := m.handleUsersKey(key); ok {
			return mm, cmd
		}
	default:
		if key == "enter" || key == " " {
			return m.activate(m.ring.FocusedID())
		}
	}
	return m, nil
}

// activate runs a main-screen button
func (m Model) activate(id string) (Model, tea.Cmd) {
	switch id {
	case ctrlNewItem:
		return m.openItemForm(nil)
	case ctrlChartType:
		return m.toggleChartType()
	case ctrlAdmin:
		return m.toggleAdmin()
	case ctrlLogout:
		return m.logout("Logged out", false)
	case ctrlViewAudit:
		return m.openAudit()
	case ctrlLogin:
		return m.submitLogin()
	case ctrlRegister:
		return m.submitRegister()
	}
	return m, nil
}

func (m Model) toggleChartType() (Model, tea.Cmd) {
	m.chart.Type = m.chart.Type.Toggle()
	if m.onChartType != nil {
		if err := m.onChartType(m.chart.Type); err != nil {
			m.logger.Warn("saving chart type failed", "err", err)
		}
	}
	return m, nil
}

func (m Model) refresh() (Model, tea.Cmd) {
	cmds := []tea.Cmd{m.items.Reload(), m.statsCmd()}
	if m.adminVisible() {
		cmds = append(cmds, m.users.Reload())
	}
	return m, tea.Batch(cmds...)
}

// handleModalAction dispatches an action reported by the open modal. cmd is
// whatever the modal's sections returned for the same event.
func (m Model) handleModalAction(action string, cmd tea.Cmd) (Model, tea.Cmd) {
	if action == "" || action == actClose || action == actCancel {
		return m, cmd
	}

	var next tea.Cmd
	switch m.dlg.kind {
	case dialogDetail:
		switch action {
		case actEdit, actComments, actDelete:
			m, next = m.itemAction(action, m.dlg.item)
		}
	case dialogForm:
		if action == actAcceptSuggestion && m.dlg.form != nil && m.dlg.form.acceptSuggestion() {
			break
		}
		if action == actSave || action == actAcceptSuggestion {
			m, next = m.submitItemForm()
		}
	case dialogDelete:
		if action == actConfirmDelete && m.dlg.deleting != nil && !*m.dlg.deleting {
			*m.dlg.deleting = true
			next = m.deleteItemCmd(m.dlg.item.ID)
		}
	case dialogComments:
		if action == actAddComment {
			m, next = m.submitComment()
		}
	case dialogAudit:
		m, next = m.handleAuditAction(action)
	case dialogDrill:
		m, next = m.handleDrillAction(action)
	}
	return m, tea.Batch(cmd, next)
}

// handleMainMouse handles the mouse on the app screen with no modal open
func (m Model) handleMainMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.Screen != ScreenApp {
		return m, nil
	}
	a := m.mouse.HandleMouse(msg)
	switch a.Type {
	case mouse.ActionScrollUp:
		m.items.MoveCursor(-1)
	case mouse.ActionScrollDown:
		m.items.MoveCursor(1)

	case mouse.ActionDrag:
		if m.mouse.DragRegion() == regionPanelSplit {
			m.setSplit(m.mouse.DragStartValue() + a.DragDX)
		}

	case mouse.ActionClick, mouse.ActionDoubleClick:
		if a.Region == nil {
			return m, nil
		}
		id := a.Region.ID
		switch {
		case id == regionPanelSplit:
			m.mouse.StartDrag(a.X, a.Y, regionPanelSplit, m.itemsWidth())
		case strings.HasPrefix(id, regionItemRow):
			idx, _ := a.Region.Data.(int)
			_ = m.ring.Focus(ctrlItems)
			m.items.SetCursor(idx)
			if a.Type == mouse.ActionDoubleClick {
				if it, ok := m.items.Selected(); ok {
					return m.openDetail(it)
				}
			}
		case strings.HasPrefix(id, regionChartRow):
			idx, _ := a.Region.Data.(int)
			_ = m.ring.Focus(ctrlChart)
			m.chart.Select(idx)
			if a.Type == mouse.ActionDoubleClick {
				return m.openDrillDown()
			}
		default:
			if m.ring.Focus(id) == nil {
				return m.activate(id)
			}
		}
	}
	return m, nil
}
