package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/pagination"
	"github.com/marcus/catalog/pkg/dashboard/modal"
)

// userRow renders a user with the role that Save would send
func userRow(pending map[int64]models.Role) func(u models.User, width int, selected bool) string {
	return func(u models.User, width int, selected bool) string {
		role := u.Role
		marker := ""
		if p, ok := pending[u.ID]; ok && p != u.Role {
			role = p
			marker = warningStyle.Render(" *")
		}
		roleStyle := roleUserStyle
		if role == models.RoleAdmin {
			roleStyle = roleAdminStyle
		}
		name := u.Username
		if selected {
			name = titleStyle.Render(name)
		}
		return fmt.Sprintf("%-4d %s  ‹ %s ›%s", u.ID, name, roleStyle.Render(string(role)), marker)
	}
}

// auditRow renders an entry on one line
func auditRow(e models.AuditEntry, width int, _ bool) string {
	line := strings.Join([]string{e.CreatedAt.Display(), e.Actor, e.Action, e.Target}, " — ")
	return ansi.Truncate(line, max(1, width), "…")
}

// toggleAdmin shows or hides the admin panel; showing it loads the users
func (m Model) toggleAdmin() (Model, tea.Cmd) {
	if !m.User.IsAdmin() {
		return m, nil
	}
	m.AdminOpen = !m.AdminOpen
	if !m.AdminOpen {
		return m, nil
	}
	m.layoutFocus()
	_ = m.ring.Focus(ctrlUsers)
	return m, m.users.Render(pagination.NewPageQuery(m.auditPageSize))
}

// handleUsersKey handles keys while the users list has focus
func (m Model) handleUsersKey(key string) (Model, tea.Cmd, bool) {
	switch key {
	case "up", "k":
		m.users.MoveCursor(-1)
	case "down", "j":
		m.users.MoveCursor(1)
	case "[", "pgup":
		return m, m.users.Prev(), true
	case "]", "pgdown":
		return m, m.users.Next(), true
	case "left", "h", "right", "l":
		u, ok := m.users.Selected()
		if !ok {
			return m, nil, true
		}
		delta := 1
		if key == "left" || key == "h" {
			delta = -1
		}
		cur := u.Role
		if p, ok := m.pendingRoles[u.ID]; ok {
			cur = p
		}
		next := models.NextRole(cur, delta)
		if next == u.Role {
			delete(m.pendingRoles, u.ID)
		} else {
			m.pendingRoles[u.ID] = next
		}
	case "s", "enter":
		u, ok := m.users.Selected()
		if !ok {
			return m, nil, true
		}
		mm, cmd := m.saveRole(u)
		return mm, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// saveRole sends the selected role for u, pending or current
func (m Model) saveRole(u models.User) (Model, tea.Cmd) {
	role := u.Role
	if p, ok := m.pendingRoles[u.ID]; ok {
		role = p
	}
	client, timeout, id := m.client, m.timeout, u.ID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return RoleSavedMsg{UserID: id, Role: role, Err: client.UpdateUserRole(ctx, id, role)}
	}
}

func (m Model) handleRoleSaved(msg RoleSavedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m.apiFailure("Updating role", msg.Err)
	}
	delete(m.pendingRoles, msg.UserID)
	m.logger.Info("role updated", "user", msg.UserID, "role", msg.Role)
	m, status := m.setStatus("Updated", false)
	return m, tea.Batch(m.users.Reload(), status)
}

func (m Model) adminPanel(width int) string {
	focusedUsers := m.ring.Is(ctrlUsers) && !m.ctrl.IsOpen()
	style := panelStyle
	if focusedUsers {
		style = activePanelStyle
	}
	inner := max(10, width-4)
	auditBtn := toolbarButton.Render("View Audit")
	if m.ring.Is(ctrlViewAudit) && !m.ctrl.IsOpen() {
		auditBtn = toolbarButtonFocused.Render("View Audit")
	}
	body := strings.Join([]string{
		titleStyle.Render("Users") + "  " + helpStyle.Render("←/→ role · s save · [ ] page"),
		m.users.View(inner, focusedUsers),
		"",
		auditBtn,
	}, "\n")
	return style.Width(width - 2).Render(body)
}

// openAudit shows the audit log starting at page 1 with no filter
func (m Model) openAudit() (Model, tea.Cmd) {
	m.dlg.kind = dialogAudit
	m.dlg.auditFilter = newInput()
	m.dlg.auditFilter.Placeholder = "filter"
	audit := m.audit

	md := modal.New("Audit log", modal.WithWidth(84)).
		AddSection(modal.Input(auditFilterInputID, &m.dlg.auditFilter, modal.WithLabel("Filter"),
			modal.WithOnChange(func(v string) tea.Cmd { return audit.SetFilter(v) }))).
		AddSection(modal.Buttons(modal.Btn("Clear", actAuditClear))).
		AddSection(modal.Spacer()).
		AddSection(modal.Custom(func(width int, _, _ string) modal.RenderedSection {
			return modal.RenderedSection{Content: auditLines(audit.Loading(), audit.Items(), width)}
		}, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.TextFunc(func() string { return audit.Pager().Label() })).
		AddSection(modal.Buttons(
			modal.Btn("‹ Prev", actAuditPrev, modal.BtnDisabled(func() bool { return !audit.Pager().HasPrevious })),
			modal.Btn("Next ›", actAuditNext, modal.BtnDisabled(func() bool { return !audit.Pager().HasNext })),
			modal.Btn("Close", actClose, modal.BtnClose()),
		))
	m.ctrl.Open(md)
	return m, audit.Render(pagination.NewPageQuery(m.auditPageSize))
}

// auditLines renders entries as a header line plus wrapped detail
func auditLines(loading bool, entries []models.AuditEntry, width int) string {
	if loading {
		return subtleStyle.Render("Loading…")
	}
	if len(entries) == 0 {
		return subtleStyle.Render("No audit entries.")
	}
	lines := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		lines = append(lines, auditRow(e, width, false))
		if d := strings.TrimSpace(e.Detail); d != "" {
			lines = append(lines, subtleStyle.Render(cellbuf.Wrap("  "+d, width, "-")))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) handleAuditAction(action string) (Model, tea.Cmd) {
	switch action {
	case actAuditClear:
		m.dlg.auditFilter.SetValue("")
		return m, m.audit.SetFilter("")
	case actAuditPrev:
		return m, m.audit.Prev()
	case actAuditNext:
		return m, m.audit.Next()
	}
	return m, nil
}
