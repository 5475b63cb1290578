package dashboard

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/pkg/dashboard/modal"
)

const maxShownComments = 8

// commentThread is the state of the comments modal
type commentThread struct {
	itemID   int64
	loading  bool
	err      error
	comments []models.Comment
	input    textarea.Model
	posting  bool
}

// lines renders the newest comments, wrapped to width
func (t *commentThread) lines(width int) string {
	switch {
	case t.loading:
		return subtleStyle.Render("Loading…")
	case t.err != nil:
		return errorStyle.Render("Could not load comments: " + api.UserMessage(t.err))
	case len(t.comments) == 0:
		return subtleStyle.Render("No comments yet.")
	}
	shown := t.comments
	if len(shown) > maxShownComments {
		shown = shown[len(shown)-maxShownComments:]
	}
	var b strings.Builder
	for i, c := range shown {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(subtleStyle.Render(c.CreatedAt.Display()))
		b.WriteString("\n")
		b.WriteString(cellbuf.Wrap(c.Content, width, "-"))
	}
	return b.String()
}

func (m Model) openComments(it models.Item) (Model, tea.Cmd) {
	input := newTextarea()
	input.Placeholder = "Write a comment"
	input.ShowLineNumbers = false
	t := &commentThread{itemID: it.ID, loading: true, input: input}
	m.dlg.kind = dialogComments
	m.dlg.item = it
	m.dlg.comments = t

	md := modal.New("Comments: "+it.Title, modal.WithWidth(64)).
		AddSection(modal.Custom(func(width int, _, _ string) modal.RenderedSection {
			return modal.RenderedSection{Content: t.lines(width)}
		}, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.Textarea(commentTextareaID, &t.input, 3)).
		AddSection(modal.Buttons(
			modal.Btn("Add", actAddComment, modal.BtnDisabled(func() bool { return t.posting })),
			modal.Btn("Close", actClose, modal.BtnClose()),
		))
	m.ctrl.Open(md)

	client, timeout, id := m.client, m.timeout, it.ID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		comments, err := client.ListComments(ctx, id)
		return CommentsMsg{ItemID: id, Comments: comments, Err: err}
	}
}

func (m Model) handleComments(msg CommentsMsg) (Model, tea.Cmd) {
	t := m.dlg.comments
	if t == nil || t.itemID != msg.ItemID {
		return m, nil
	}
	t.loading = false
	t.err = msg.Err
	t.comments = msg.Comments
	if api.IsUnauthorized(msg.Err) {
		return m.expireSession()
	}
	return m, nil
}

// submitComment rejects blank text before any request is made
func (m Model) submitComment() (Model, tea.Cmd) {
	t := m.dlg.comments
	if t == nil || t.posting {
		return m, nil
	}
	text := strings.TrimSpace(t.input.Value())
	if text == "" {
		m.ctrl.Content().SetError(api.ErrEmptyComment.Error())
		return m, nil
	}
	m.ctrl.Content().SetError("")
	t.posting = true

	client, timeout, id := m.client, m.timeout, t.itemID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := client.AddComment(ctx, id, text)
		return CommentAddedMsg{ItemID: id, Err: err}
	}
}

func (m Model) handleCommentAdded(msg CommentAddedMsg) (Model, tea.Cmd) {
	t := m.dlg.comments
	if t != nil && t.itemID == msg.ItemID {
		t.posting = false
	}
	if msg.Err != nil {
		if !api.IsUnauthorized(msg.Err) && m.dialogOpen(dialogComments) {
			m.ctrl.Content().SetError(api.UserMessage(msg.Err))
			return m, nil
		}
		return m.apiFailure("Adding comment", msg.Err)
	}
	if m.dialogOpen(dialogComments) {
		m.ctrl.Close()
	}
	m.dlg.comments = nil
	m, status := m.setStatus("Comment added", false)
	return m, tea.Batch(m.items.Reload(), status)
}
