// Package listview is a generic paginated, filterable list bound to a fetch
// function. Every fetch carries a request token; responses for anything but
// the latest request are dropped.
package listview

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/catalog/internal/pagination"
)

// Fetcher loads one page
type Fetcher[T any] func(ctx context.Context, q pagination.PageQuery) (pagination.ListResult[T], error)

// RowFunc renders one row. width is the space available for the row.
type RowFunc[T any] func(item T, width int, selected bool) string

// PageMsg carries a fetch result back to the update loop
type PageMsg[T any] struct {
	ListID string
	Seq    int
	Query  pagination.PageQuery
	Result pagination.ListResult[T]
	Err    error
}

// Pager is the state of the Prev/Next controls
type Pager struct {
	Page        int
	TotalPages  int // 0 when the list is not counted
	HasPrevious bool
	HasNext     bool
}

// Label renders "Page p / n", or "Page p" when the total is unknown
func (p Pager) Label() string {
	if p.TotalPages > 0 {
		return "Page " + strconv.Itoa(p.Page) + " / " + strconv.Itoa(p.TotalPages)
	}
	return "Page " + strconv.Itoa(p.Page)
}

// Option configures a View
type Option func(*options)

type options struct {
	emptyText  string
	filterable bool
	timeout    time.Duration
}

// WithEmptyText sets the message shown when a page has no rows
func WithEmptyText(text string) Option {
	return func(o *options) { o.emptyText = text }
}

// WithFilterable enables SetFilter
func WithFilterable() Option {
	return func(o *options) { o.filterable = true }
}

// WithTimeout bounds each fetch
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// View is one list instantiation, held by pointer in the owning model.
type View[T any] struct {
	id    string
	fetch Fetcher[T]
	row   RowFunc[T]
	opts  options

	query   pagination.PageQuery
	seq     int
	loading bool
	items   []T
	result  pagination.ListResult[T]
	err     error
	cursor  int
}

// New creates a list. id must be unique among the lists of a program since
// PageMsg routing uses it.
func New[T any](id string, pageSize int, fetch Fetcher[T], row RowFunc[T], opts ...Option) *View[T] {
	o := options{emptyText: "Nothing here yet.", timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return &View[T]{
		id:    id,
		fetch: fetch,
		row:   row,
		opts:  o,
		query: pagination.NewPageQuery(pageSize),
		items: []T{},
	}
}

// ID returns the list identifier
func (v *View[T]) ID() string { return v.id }

// Query returns the query of the latest Render
func (v *View[T]) Query() pagination.PageQuery { return v.query }

// Seq returns the token of the latest Render
func (v *View[T]) Seq() int { return v.seq }

// Loading reports whether the latest fetch is still outstanding
func (v *View[T]) Loading() bool { return v.loading }

// Err returns the error of the last applied fetch
func (v *View[T]) Err() error { return v.err }

// Items returns the displayed rows in server order
func (v *View[T]) Items() []T { return v.items }

// Filterable reports whether SetFilter is enabled
func (v *View[T]) Filterable() bool { return v.opts.filterable }

// Render starts a fetch of q. The displayed rows are cleared immediately so
// rows from an earlier query are never shown under the new pager.
func (v *View[T]) Render(q pagination.PageQuery) tea.Cmd {
	v.seq++
	v.query = q.Normalize()
	v.loading = true
	v.err = nil
	v.items = []T{}
	v.result = pagination.ListResult[T]{}
	v.cursor = 0

	id, seq, query, fetch, timeout := v.id, v.seq, v.query, v.fetch, v.opts.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := fetch(ctx, query)
		return PageMsg[T]{ListID: id, Seq: seq, Query: query, Result: res, Err: err}
	}
}

// Apply installs a fetch result. It returns false when msg belongs to another
// list or to a superseded request.
func (v *View[T]) Apply(msg PageMsg[T]) bool {
	if msg.ListID != v.id || msg.Seq != v.seq {
		return false
	}
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.items = []T{}
		v.result = pagination.ListResult[T]{Items: v.items}
		v.cursor = 0
		return true
	}
	v.err = nil
	v.result = msg.Result
	v.items = msg.Result.Items
	if v.items == nil {
		v.items = []T{}
	}
	v.cursor = clamp(v.cursor, 0, max(0, len(v.items)-1))
	return true
}

// Pager reports the Prev/Next state for the displayed page
func (v *View[T]) Pager() Pager {
	p := Pager{
		Page:        v.query.Page,
		HasPrevious: pagination.HasPrevious(v.query),
	}
	if v.loading || v.err != nil {
		return p
	}
	p.HasNext = v.result.HasNext(v.query)
	p.TotalPages = v.result.TotalPages(v.query.PageSize)
	return p
}

// Next fetches the following page. It returns nil when Next is disabled.
func (v *View[T]) Next() tea.Cmd {
	if !v.Pager().HasNext {
		return nil
	}
	return v.Render(v.query.WithPage(v.query.Page + 1))
}

// Prev fetches the preceding page. It returns nil when Prev is disabled.
func (v *View[T]) Prev() tea.Cmd {
	if !v.Pager().HasPrevious {
		return nil
	}
	return v.Render(v.query.WithPage(v.query.Page - 1))
}

// SetFilter changes the filter, goes back to page 1 and fetches. It returns
// nil for lists created without WithFilterable.
func (v *View[T]) SetFilter(filter string) tea.Cmd {
	if !v.opts.filterable {
		return nil
	}
	return v.Render(v.query.WithFilter(filter))
}

// Reload fetches the current query again
func (v *View[T]) Reload() tea.Cmd {
	return v.Render(v.query)
}

// Cursor returns the selected row index
func (v *View[T]) Cursor() int { return v.cursor }

// MoveCursor moves the selection by delta, clamped to the rows
func (v *View[T]) MoveCursor(delta int) {
	v.cursor = clamp(v.cursor+delta, 0, max(0, len(v.items)-1))
}

// SetCursor selects row i, clamped to the rows
func (v *View[T]) SetCursor(i int) {
	v.cursor = clamp(i, 0, max(0, len(v.items)-1))
}

// Selected returns the row under the cursor
func (v *View[T]) Selected() (T, bool) {
	var zero T
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return zero, false
	}
	return v.items[v.cursor], true
}

var (
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// Lines renders the rows, or the loading/empty message
func (v *View[T]) Lines(width int, focused bool) []string {
	if v.loading {
		return []string{mutedStyle.Render("Loading…")}
	}
	if len(v.items) == 0 {
		return []string{mutedStyle.Render(ansi.Truncate(v.opts.emptyText, width, "…"))}
	}
	lines := make([]string, 0, len(v.items))
	for i, it := range v.items {
		selected := focused && i == v.cursor
		prefix := "  "
		if selected {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+ansi.Truncate(v.row(it, width-2, selected), max(1, width-2), "…"))
	}
	return lines
}

// PagerLine renders "‹ Prev  Page p / n  Next ›" with disabled controls dimmed
func (v *View[T]) PagerLine() string {
	p := v.Pager()
	prev, next := disabledStyle.Render("‹ Prev"), disabledStyle.Render("Next ›")
	if p.HasPrevious {
		prev = enabledStyle.Render("‹ Prev")
	}
	if p.HasNext {
		next = enabledStyle.Render("Next ›")
	}
	return prev + "  " + mutedStyle.Render(p.Label()) + "  " + next
}

// View renders rows followed by the pager line
func (v *View[T]) View(width int, focused bool) string {
	return strings.Join(append(v.Lines(width, focused), "", v.PagerLine()), "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
