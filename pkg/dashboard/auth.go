package dashboard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/pagination"
)

// syncAuthInputs focuses the text input that matches the ring
func (m *Model) syncAuthInputs() {
	if m.ring.Is(ctrlUsername) {
		m.username.Focus()
	} else {
		m.username.Blur()
	}
	if m.ring.Is(ctrlPassword) {
		m.password.Focus()
	} else {
		m.password.Blur()
	}
}

func (m Model) credentials() models.Credentials {
	return models.Credentials{
		Username: strings.TrimSpace(m.username.Value()),
		Password: m.password.Value(),
	}
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.ring.Cycle(1)
		return m, nil
	case "shift+tab", "up":
		m.ring.Cycle(-1)
		return m, nil
	case "enter":
		switch m.ring.FocusedID() {
		case ctrlUsername:
			m.ring.Cycle(1)
			return m, nil
		case ctrlRegister:
			return m.submitRegister()
		default:
			return m.submitLogin()
		}
	}

	var cmd tea.Cmd
	switch m.ring.FocusedID() {
	case ctrlUsername:
		*m.username, cmd = m.username.Update(msg)
	case ctrlPassword:
		*m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) submitLogin() (Model, tea.Cmd) {
	creds := m.credentials()
	if creds.Username == "" || creds.Password == "" {
		return m.setStatus(api.ErrMissingCredentials.Error(), true)
	}
	client, timeout := m.client, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tokens, err := client.Login(ctx, creds)
		return LoginMsg{Tokens: tokens, Err: err}
	}
}

func (m Model) submitRegister() (Model, tea.Cmd) {
	creds := m.credentials()
	if creds.Username == "" || creds.Password == "" {
		return m.setStatus(api.ErrMissingCredentials.Error(), true)
	}
	client, timeout := m.client, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := client.Register(ctx, creds)
		return RegisterMsg{User: user, Err: err}
	}
}

func (m Model) handleLogin(msg LoginMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Info("login failed", "err", msg.Err)
		return m.setStatus("Login failed: "+api.UserMessage(msg.Err), true)
	}
	if err := m.tokens.SetTokens(msg.Tokens.AccessToken, msg.Tokens.RefreshToken); err != nil {
		return m.setStatus("Saving session failed: "+err.Error(), true)
	}
	m.password.SetValue("")
	m.Screen = ScreenApp
	m.layoutFocus()
	_ = m.ring.Focus(ctrlItems)
	m.logger.Info("logged in", "user", m.username.Value())
	return m, m.appLoadCmds()
}

func (m Model) handleRegister(msg RegisterMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m.setStatus("Registration failed: "+api.UserMessage(msg.Err), true)
	}
	m.password.SetValue("")
	_ = m.ring.Focus(ctrlPassword)
	return m.setStatus("Registered, please log in.", false)
}

// appLoadCmds loads the first item page together with /me and /stats
func (m Model) appLoadCmds() tea.Cmd {
	return tea.Batch(
		m.items.Render(pagination.NewPageQuery(m.pageSize)),
		m.initialLoadCmd(),
	)
}

// initialLoadCmd fetches the current user and the stats concurrently
func (m Model) initialLoadCmd() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var msg InitialLoadMsg
		var g errgroup.Group
		g.Go(func() error {
			msg.User, msg.UserErr = client.Me(ctx)
			return nil
		})
		g.Go(func() error {
			msg.Stats, msg.StatsErr = client.Stats(ctx)
			return nil
		})
		_ = g.Wait()
		return msg
	}
}

func (m Model) handleInitialLoad(msg InitialLoadMsg) (Model, tea.Cmd) {
	if m.Screen != ScreenApp {
		return m, nil
	}
	if msg.UserErr != nil {
		return m.apiFailure("Loading profile", msg.UserErr)
	}
	m.User = msg.User
	if !m.User.IsAdmin() {
		m.AdminOpen = false
	}
	if msg.StatsErr != nil {
		return m.apiFailure("Loading stats", msg.StatsErr)
	}
	m.chart.SetStats(msg.Stats)
	return m, nil
}

// logout clears the session and returns to the auth screen
func (m Model) logout(status string, isErr bool) (Model, tea.Cmd) {
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("clearing session failed", "err", err)
	}
	m.ctrl.Close()
	m.Screen = ScreenAuth
	m.User = nil
	m.AdminOpen = false
	m.chart.SetStats(nil)
	m.layoutFocus()
	_ = m.ring.Focus(ctrlUsername)
	m.syncAuthInputs()
	return m.setStatus(status, isErr)
}

func (m Model) expireSession() (Model, tea.Cmd) {
	m.logger.Info("session rejected by server")
	return m.logout("Session expired, please log in.", true)
}

func (m Model) authView() string {
	w := min(50, max(30, m.Width-4))
	button := func(id, label string) string {
		if m.ring.Is(id) {
			return toolbarButtonFocused.Render(label)
		}
		return toolbarButton.Render(label)
	}
	field := func(id, label, view string) string {
		style := panelStyle
		if m.ring.Is(id) {
			style = activePanelStyle
		}
		return subtleStyle.Render(label) + "\n" + style.Width(w-2).Render(view)
	}

	body := strings.Join([]string{
		titleStyle.Render("Catalog"),
		"",
		field(ctrlUsername, "Username", m.username.View()),
		field(ctrlPassword, "Password", m.password.View()),
		"",
		button(ctrlLogin, "Login") + " " + button(ctrlRegister, "Register"),
		"",
		m.statusView(),
		helpStyle.Render("tab next · enter submit · ctrl+c quit"),
	}, "\n")

	if m.Width == 0 || m.Height == 0 {
		return body
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, body)
}
