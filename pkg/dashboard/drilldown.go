package dashboard

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/catalog/internal/pagination"
	"github.com/marcus/catalog/pkg/dashboard/modal"
)

// openDrillDown lists the items of the selected chart category
func (m Model) openDrillDown() (Model, tea.Cmd) {
	label, ok := m.chart.Selected()
	if !ok {
		return m, nil
	}
	m.dlg.kind = dialogDrill
	m.dlg.drillLabel = label
	m.dlg.drillIdx = 0
	drill := m.drill
	idx := &m.dlg.drillIdx

	rows := func() []modal.ListItem {
		items := drill.Items()
		out := make([]modal.ListItem, 0, len(items))
		for _, it := range items {
			out = append(out, modal.ListItem{
				ID:    itemActionPrefix + strconv.FormatInt(it.ID, 10),
				Label: it.Title + subtleStyle.Render(" · "+it.CreatedAt.Display()),
				Data:  it,
			})
		}
		return out
	}

	md := modal.New("Category: "+label, modal.WithWidth(64), modal.WithCloseOnBackdropClick(true)).
		AddSection(modal.When(drill.Loading, modal.Text("Loading…"))).
		AddSection(modal.When(func() bool { return !drill.Loading() },
			modal.ListFunc(drillListID, rows, idx, modal.WithMaxVisible(m.pageSize), modal.WithEmptyText("No items in this category.")))).
		AddSection(modal.Spacer()).
		AddSection(modal.TextFunc(func() string { return drill.Pager().Label() })).
		AddSection(modal.Buttons(
			modal.Btn("‹ Prev", actDrillPrev, modal.BtnDisabled(func() bool { return !drill.Pager().HasPrevious })),
			modal.Btn("Next ›", actDrillNext, modal.BtnDisabled(func() bool { return !drill.Pager().HasNext })),
			modal.Btn("Close", actClose, modal.BtnClose()),
		))
	m.ctrl.Open(md)
	return m, drill.Render(pagination.NewPageQuery(m.pageSize).WithFilter(label))
}

func (m Model) handleDrillAction(action string) (Model, tea.Cmd) {
	switch action {
	case actDrillPrev:
		m.dlg.drillIdx = 0
		return m, m.drill.Prev()
	case actDrillNext:
		m.dlg.drillIdx = 0
		return m, m.drill.Next()
	}
	if !strings.HasPrefix(action, itemActionPrefix) {
		return m, nil
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(action, itemActionPrefix), 10, 64)
	if err != nil {
		return m, nil
	}
	for _, it := range m.drill.Items() {
		if it.ID == id {
			return m.openDetail(it)
		}
	}
	return m, nil
}
