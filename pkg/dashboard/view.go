package dashboard

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	defaultWidth   = 100
	minItemsWidth  = 30
	minChartWidth  = 24
	panelsOriginY  = 3 // header, toolbar, blank
	panelRowOffset = 2 // border, title
)

func (m Model) screenWidth() int {
	if m.Width > 0 {
		return m.Width
	}
	return defaultWidth
}

// itemsWidth is the width of the item panel; the chart takes the rest
func (m Model) itemsWidth() int {
	w := m.screenWidth()
	iw := *m.split
	if iw == 0 {
		iw = w * 3 / 5
	}
	return clampWidth(iw, w)
}

// setSplit moves the divider between the item and chart panels
func (m Model) setSplit(itemsWidth int) {
	*m.split = clampWidth(itemsWidth, m.screenWidth())
}

func clampWidth(iw, total int) int {
	hi := max(minItemsWidth, total-minChartWidth)
	return min(max(iw, minItemsWidth), hi)
}

// View implements tea.Model
func (m Model) View() string {
	if m.Screen == ScreenAuth {
		return m.ctrl.View(m.authView(), m.Width, m.Height)
	}

	m.mouse.Clear()
	w := m.screenWidth()
	iw := m.itemsWidth()

	items := m.itemsPanel(iw)
	chart := m.chartPanel(w - iw)
	m.registerRows(iw)
	panelH := max(lipgloss.Height(items), lipgloss.Height(chart))
	m.mouse.HitMap.AddRect(regionPanelSplit, iw-1, panelsOriginY, 2, panelH, nil)

	sections := []string{
		m.header(w),
		m.toolbar(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, items, chart),
	}
	if m.adminVisible() {
		sections = append(sections, m.adminPanel(w))
	}
	sections = append(sections, m.statusView(), m.helpView())

	return m.ctrl.View(strings.Join(sections, "\n"), w, m.Height)
}

func (m Model) header(width int) string {
	left := titleStyle.Render("Catalog")
	if m.User != nil {
		roleStyle := roleUserStyle
		if m.User.IsAdmin() {
			roleStyle = roleAdminStyle
		}
		left += "  " + m.User.Username + " " + roleStyle.Render("("+string(m.User.Role)+")")
	}
	return ansi.Truncate(left, width, "…")
}

// toolbar draws the buttons on row 1 and registers their hit regions
func (m Model) toolbar() string {
	type button struct{ id, label string }
	buttons := []button{
		{ctrlNewItem, "New item"},
		{ctrlChartType, "Chart: " + string(m.chart.Type)},
	}
	if m.User.IsAdmin() {
		label := "Admin"
		if m.AdminOpen {
			label = "Hide admin"
		}
		buttons = append(buttons, button{ctrlAdmin, label})
	}
	buttons = append(buttons, button{ctrlLogout, "Logout"})

	parts := make([]string, 0, len(buttons))
	x := 0
	for _, b := range buttons {
		style := toolbarButton
		if m.ring.Is(b.id) && !m.ctrl.IsOpen() {
			style = toolbarButtonFocused
		}
		r := style.Render(b.label)
		bw := lipgloss.Width(r)
		m.mouse.HitMap.AddRect(b.id, x, 1, bw, 1, nil)
		parts = append(parts, r)
		x += bw + 1
	}
	return strings.Join(parts, " ")
}

// registerRows adds hit regions for item rows and chart rows
func (m Model) registerRows(itemsWidth int) {
	y := panelsOriginY + panelRowOffset
	if !m.items.Loading() {
		for i := range m.items.Items() {
			m.mouse.HitMap.AddRect(regionItemRow+"-"+strconv.Itoa(i), 0, y+i, itemsWidth, 1, i)
		}
	}
	if m.chart.Empty() {
		return
	}
	if m.chart.Type == ChartPie {
		// strip and blank line precede the legend
		y += 2
	}
	for i := range m.chart.Stats() {
		m.mouse.HitMap.AddRect(regionChartRow+"-"+strconv.Itoa(i), itemsWidth, y+i, m.screenWidth()-itemsWidth, 1, i)
	}
}

func (m Model) chartPanel(width int) string {
	focused := m.ring.Is(ctrlChart) && !m.ctrl.IsOpen()
	style := panelStyle
	if focused {
		style = activePanelStyle
	}
	inner := max(10, width-4)
	body := titleStyle.Render("Categories") + "\n" + m.chart.View(inner, focused)
	return style.Width(width - 2).Render(body)
}

func (m Model) statusView() string {
	if m.StatusMessage == "" {
		return ""
	}
	if m.StatusIsError {
		return errorStyle.Render(m.StatusMessage)
	}
	return successStyle.Render(m.StatusMessage)
}

func (m Model) helpView() string {
	var keys []string
	switch m.ring.FocusedID() {
	case ctrlItems:
		keys = []string{"↑/↓ select", "←/→ page", "enter open", "e edit", "d delete", "c comments"}
	case ctrlChart:
		keys = []string{"←/→ category", "enter items"}
	case ctrlUsers:
		keys = []string{"↑/↓ select", "←/→ role", "s save"}
	default:
		keys = []string{"enter activate"}
	}
	keys = append(keys, "tab focus", "n new", "t chart", "r refresh")
	if m.User.IsAdmin() {
		keys = append(keys, "a admin")
	}
	keys = append(keys, "q quit")
	return helpStyle.Render(ansi.Truncate(strings.Join(keys, " · "), m.screenWidth(), "…"))
}
