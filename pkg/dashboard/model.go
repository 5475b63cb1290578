// Package dashboard is the interactive terminal client: an auth screen, the
// item list with its category chart, an admin panel and the modal dialogs
// layered over them.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/config"
	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/pagination"
	"github.com/marcus/catalog/pkg/dashboard/listview"
	"github.com/marcus/catalog/pkg/dashboard/modal"
	"github.com/marcus/catalog/pkg/dashboard/mouse"
)

var (
	statusTTL  = 3 * time.Second
	cursorMode = cursor.CursorBlink
)

// newInput and newTextarea create the text controls used on every screen
func newInput() textinput.Model {
	ti := textinput.New()
	ti.Cursor.SetMode(cursorMode)
	return ti
}

func newTextarea() textarea.Model {
	ta := textarea.New()
	ta.Cursor.SetMode(cursorMode)
	return ta
}

// Screen is the top-level view
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenApp
)

// TokenStore persists the session tokens. It doubles as the client's token
// source.
type TokenStore interface {
	api.TokenSource
	SetTokens(access, refresh string) error
	Clear() error
}

// Options configures a Model
type Options struct {
	Client        *api.Client
	Tokens        TokenStore
	PageSize      int
	AuditPageSize int
	Timeout       time.Duration
	ChartType     ChartType
	Logger        *slog.Logger

	// OnChartTypeChange persists the chart type after a toggle. Optional.
	OnChartTypeChange func(ChartType) error
}

// Model is the bubbletea model of the dashboard
type Model struct {
	client        *api.Client
	tokens        TokenStore
	logger        *slog.Logger
	timeout       time.Duration
	pageSize      int
	auditPageSize int
	onChartType   func(ChartType) error

	Screen    Screen
	User      *models.User
	AdminOpen bool
	Width     int
	Height    int

	ring  *focusRing
	ctrl  *modal.Controller
	mouse *mouse.Handler
	dlg   *dialogState
	split *int // item panel width, 0 for the default share

	username *textinput.Model
	password *textinput.Model

	items *listview.View[models.Item]
	drill *listview.View[models.Item]
	users *listview.View[models.User]
	audit *listview.View[models.AuditEntry]
	chart *Chart

	pendingRoles map[int64]models.Role
	markdown     *markdownCache

	// Status line
	StatusMessage string
	StatusIsError bool
	statusSeq     int
}

// NewModel creates the dashboard. The app screen is selected when the token
// store already holds a token.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	auditPageSize := opts.AuditPageSize
	if auditPageSize <= 0 {
		auditPageSize = config.DefaultAuditPageSize
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	ring := newFocusRing()
	username := newInput()
	username.Placeholder = "username"
	username.CharLimit = 64
	password := newInput()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	chart := NewChart(opts.ChartType)
	pending := map[int64]models.Role{}

	m := Model{
		client:        opts.Client,
		tokens:        opts.Tokens,
		logger:        logger,
		timeout:       timeout,
		pageSize:      pageSize,
		auditPageSize: auditPageSize,
		onChartType:   opts.OnChartTypeChange,
		ring:          ring,
		ctrl:          modal.NewController(ring, logger),
		mouse:         mouse.NewHandler(),
		dlg:           &dialogState{},
		split:         new(int),
		username:      &username,
		password:      &password,
		chart:         &chart,
		pendingRoles:  pending,
		markdown:      newMarkdownCache(),
	}

	listOpts := []listview.Option{listview.WithTimeout(timeout)}
	m.items = listview.New("items", pageSize, opts.Client.ListItems, itemRow,
		append(listOpts, listview.WithEmptyText("No items yet. Press n to add one."))...)
	m.drill = listview.New("drill", pageSize, opts.Client.ListItems, itemRow,
		append(listOpts, listview.WithFilterable(), listview.WithEmptyText("No items in this category."))...)
	m.users = listview.New("users", auditPageSize, usersFetcher(opts.Client), userRow(pending),
		append(listOpts, listview.WithEmptyText("No users."))...)
	m.audit = listview.New("audit", auditPageSize, opts.Client.ListAudit, auditRow,
		append(listOpts, listview.WithFilterable(), listview.WithEmptyText("No audit entries."))...)

	if tok, err := opts.Tokens.Token(); err == nil && tok != "" {
		m.Screen = ScreenApp
	}
	m.layoutFocus()
	return m
}

// usersFetcher pages the full user list client-side
func usersFetcher(c *api.Client) listview.Fetcher[models.User] {
	return func(ctx context.Context, q pagination.PageQuery) (pagination.ListResult[models.User], error) {
		all, err := c.ListUsers(ctx)
		if err != nil {
			return pagination.ListResult[models.User]{}, err
		}
		return pagination.Counted(pagination.Window(all, q), len(all)), nil
	}
}

// Init starts the first load for the selected screen
func (m Model) Init() tea.Cmd {
	if m.Screen == ScreenApp {
		return m.appLoadCmds()
	}
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.layoutFocus()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMessage = ""
			m.StatusIsError = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.ctrl.IsOpen() {
			action, cmd, _ := m.ctrl.HandleKey(msg)
			return m.handleModalAction(action, cmd)
		}
		if m.Screen == ScreenAuth {
			return m.handleAuthKey(msg)
		}
		return m.handleAppKey(msg)

	case tea.MouseMsg:
		if m.ctrl.IsOpen() {
			action, cmd, _ := m.ctrl.HandleMouse(msg)
			return m.handleModalAction(action, cmd)
		}
		return m.handleMainMouse(msg)

	case LoginMsg:
		return m.handleLogin(msg)
	case RegisterMsg:
		return m.handleRegister(msg)
	case InitialLoadMsg:
		return m.handleInitialLoad(msg)
	case StatsMsg:
		if msg.Err != nil {
			return m.apiFailure("Loading stats", msg.Err)
		}
		m.chart.SetStats(msg.Stats)
		return m, nil
	case ItemSavedMsg:
		return m.handleItemSaved(msg)
	case ItemDeletedMsg:
		return m.handleItemDeleted(msg)
	case CommentsMsg:
		return m.handleComments(msg)
	case CommentAddedMsg:
		return m.handleCommentAdded(msg)
	case RoleSavedMsg:
		return m.handleRoleSaved(msg)

	case listview.PageMsg[models.Item]:
		if m.items.Apply(msg) || m.drill.Apply(msg) {
			return m.pageFailure(msg.Err)
		}
		return m, nil
	case listview.PageMsg[models.User]:
		if m.users.Apply(msg) {
			clear(m.pendingRoles)
			return m.pageFailure(msg.Err)
		}
		return m, nil
	case listview.PageMsg[models.AuditEntry]:
		if m.audit.Apply(msg) {
			return m.pageFailure(msg.Err)
		}
		return m, nil
	}

	// Cursor blink and other bubbles internals
	if m.Screen == ScreenAuth && !m.ctrl.IsOpen() {
		var cmd tea.Cmd
		switch {
		case m.ring.Is(ctrlUsername):
			*m.username, cmd = m.username.Update(msg)
		case m.ring.Is(ctrlPassword):
			*m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}
	if m.ctrl.IsOpen() {
		_, cmd := m.ctrl.Content().Update(msg)
		return m, cmd
	}
	return m, nil
}

// layoutFocus recomputes the main-screen tab order for the current layout
func (m *Model) layoutFocus() {
	if m.Screen == ScreenAuth {
		m.ring.SetControls([]string{ctrlUsername, ctrlPassword, ctrlLogin, ctrlRegister})
		if !m.ctrl.IsOpen() {
			m.syncAuthInputs()
		}
		return
	}
	ids := []string{ctrlItems, ctrlChart, ctrlNewItem, ctrlChartType}
	if m.User.IsAdmin() {
		ids = append(ids, ctrlAdmin)
	}
	ids = append(ids, ctrlLogout)
	if m.adminVisible() {
		ids = append(ids, ctrlUsers, ctrlViewAudit)
	}
	m.ring.SetControls(ids)
}

func (m Model) adminVisible() bool {
	return m.AdminOpen && m.User.IsAdmin()
}

// setStatus shows a toast and schedules its removal
func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.statusSeq++
	m.StatusMessage = text
	m.StatusIsError = isErr
	seq := m.statusSeq
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

// apiFailure reports err on the status line, or ends the session on 401
func (m Model) apiFailure(what string, err error) (Model, tea.Cmd) {
	if api.IsUnauthorized(err) {
		if m.Screen != ScreenApp {
			// already sent back to the auth screen by an earlier response
			return m, nil
		}
		return m.expireSession()
	}
	m.logger.Warn("request failed", "op", what, "err", err)
	return m.setStatus(what+" failed: "+api.UserMessage(err), true)
}

// pageFailure handles the error of an applied list page. The list itself
// already shows its empty state.
func (m Model) pageFailure(err error) (Model, tea.Cmd) {
	if err == nil {
		return m, nil
	}
	return m.apiFailure("Loading", err)
}

func (m Model) statsCmd() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stats, err := client.Stats(ctx)
		return StatsMsg{Stats: stats, Err: err}
	}
}
