package dashboard

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/pkg/dashboard/modal"
)

// Modal action IDs
const (
	actEdit             = "edit"
	actComments         = "comments"
	actDelete           = "delete"
	actClose            = "close"
	actCancel           = "cancel"
	actSave             = "save"
	actConfirmDelete    = "confirm-delete"
	actAcceptSuggestion = "accept-suggestion"
	actAddComment       = "add-comment"
	actAuditClear       = "audit-clear"
	actAuditPrev        = "audit-prev"
	actAuditNext        = "audit-next"
	actDrillPrev        = "drill-prev"
	actDrillNext        = "drill-next"

	// List rows in modals report "item:<id>"
	itemActionPrefix = "item:"
)

// Modal field IDs
const (
	formTitleInputID    = "form-title"
	formCategoryInputID = "form-category"
	formDescriptionID   = "form-description"
	formFileInputID     = "form-file"
	commentTextareaID   = "comment-text"
	auditFilterInputID  = "audit-filter"
	drillListID         = "drill-list"
)

const (
	maxSuggestions       = 3
	detailDescriptionMax = 12
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogDetail
	dialogForm
	dialogDelete
	dialogComments
	dialogAudit
	dialogDrill
)

// dialogState is the data behind the open modal
type dialogState struct {
	kind     dialogKind
	item     models.Item
	form     *itemForm
	comments *commentThread
	deleting *bool

	auditFilter textinput.Model
	drillLabel  string
	drillIdx    int
}

func (m Model) dialogOpen(kind dialogKind) bool {
	return m.ctrl.IsOpen() && m.dlg.kind == kind
}

// itemRow renders one line of the item list
func itemRow(it models.Item, width int, selected bool) string {
	badge := badgeStyle.Render(it.Initials())
	if it.HasImage() {
		badge = badgeStyle.Render("▣")
	}
	title := it.Title
	if selected {
		title = titleStyle.Render(title)
	}
	line := badge + " " + title + subtleStyle.Render(" • "+it.Category)
	if desc := firstLine(it.Description); desc != "" {
		line += subtleStyle.Render("  " + desc)
	}
	return ansi.Truncate(line, max(1, width), "…")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

// openDetail shows one item with its actions
func (m Model) openDetail(it models.Item) (Model, tea.Cmd) {
	m.dlg.kind = dialogDetail
	m.dlg.item = it
	fileURL := ""
	if it.FileURL != "" {
		fileURL = m.client.ResolveURL(it.FileURL)
	}
	cache := m.markdown

	md := modal.New(it.Title, modal.WithWidth(72)).
		AddSection(modal.Text(fmt.Sprintf("%s · created %s", it.Category, it.CreatedAt.Display()))).
		AddSection(modal.When(func() bool { return fileURL != "" }, modal.Text("File: "+fileURL))).
		AddSection(modal.Spacer()).
		AddSection(modal.Custom(func(width int, _, _ string) modal.RenderedSection {
			out := cache.render(it.Description, width)
			if out == "" {
				out = subtleStyle.Render("No description.")
			}
			lines := strings.Split(out, "\n")
			if len(lines) > detailDescriptionMax {
				lines = append(lines[:detailDescriptionMax], subtleStyle.Render("…"))
			}
			return modal.RenderedSection{Content: strings.Join(lines, "\n")}
		}, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn("Edit", actEdit),
			modal.Btn("Comments", actComments),
			modal.Btn("Delete", actDelete, modal.BtnDanger()),
			modal.Btn("Close", actClose, modal.BtnClose()),
		))
	m.ctrl.Open(md)
	return m, nil
}

// itemForm backs the create and edit modal
type itemForm struct {
	editID      int64
	title       textinput.Model
	category    textinput.Model
	description textarea.Model
	file        textinput.Model
	categories  []string
	saving      bool
}

func newItemForm(it *models.Item, categories []string) *itemForm {
	f := &itemForm{
		title:       newInput(),
		category:    newInput(),
		description: newTextarea(),
		file:        newInput(),
		categories:  categories,
	}
	f.title.Placeholder = models.DefaultItemTitle
	f.category.Placeholder = models.DefaultItemCategory
	f.description.Placeholder = "Markdown is supported"
	f.description.ShowLineNumbers = false
	f.file.Placeholder = "optional path to upload"
	if it != nil {
		f.editID = it.ID
		f.title.SetValue(it.Title)
		f.category.SetValue(it.Category)
		f.description.SetValue(it.Description)
	}
	return f
}

func (f *itemForm) creating() bool { return f.editID == 0 }

// suggestions returns known categories fuzzy-matching the category input,
// best match first. An exact match yields nothing.
func (f *itemForm) suggestions() []string {
	typed := strings.TrimSpace(f.category.Value())
	if typed == "" {
		return nil
	}
	var out []string
	for _, match := range fuzzy.Find(typed, f.categories) {
		if strings.EqualFold(match.Str, typed) {
			return nil
		}
		out = append(out, match.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// acceptSuggestion replaces the category with the best suggestion
func (f *itemForm) acceptSuggestion() bool {
	s := f.suggestions()
	if len(s) == 0 {
		return false
	}
	f.category.SetValue(s[0])
	f.category.CursorEnd()
	return true
}

func (f *itemForm) input() models.ItemInput {
	return models.ItemInput{
		Title:       f.title.Value(),
		Category:    f.category.Value(),
		Description: f.description.Value(),
	}.WithDefaults()
}

func (f *itemForm) filePath() string {
	return strings.TrimSpace(f.file.Value())
}

// openItemForm opens the create form, or the edit form when it is non-nil
func (m Model) openItemForm(it *models.Item) (Model, tea.Cmd) {
	f := newItemForm(it, m.chart.Stats().Labels())
	m.dlg.kind = dialogForm
	m.dlg.form = f

	title := "New item"
	if !f.creating() {
		title = "Edit item"
	}
	md := modal.New(title, modal.WithWidth(64), modal.WithPrimaryAction(actSave)).
		AddSection(modal.Input(formTitleInputID, &f.title, modal.WithLabel("Title"))).
		AddSection(modal.Input(formCategoryInputID, &f.category, modal.WithLabel("Category"),
			modal.WithSubmitAction(actAcceptSuggestion))).
		AddSection(modal.TextFunc(func() string {
			s := f.suggestions()
			if len(s) == 0 {
				return ""
			}
			return "Suggestions: " + strings.Join(s, ", ") + " (enter to accept)"
		})).
		AddSection(modal.Textarea(formDescriptionID, &f.description, 4, modal.WithLabel("Description"))).
		AddSection(modal.When(f.creating, modal.Input(formFileInputID, &f.file, modal.WithLabel("Attach file")))).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn("Save", actSave, modal.BtnDisabled(func() bool { return f.saving })),
			modal.Btn("Cancel", actCancel, modal.BtnClose()),
		))
	m.ctrl.Open(md)
	return m, textinput.Blink
}

// submitItemForm validates locally and sends the create or update
func (m Model) submitItemForm() (Model, tea.Cmd) {
	f := m.dlg.form
	if f == nil || f.saving {
		return m, nil
	}
	path := ""
	if f.creating() {
		path = f.filePath()
		if path != "" {
			if st, err := os.Stat(path); err != nil || st.IsDir() {
				m.ctrl.Content().SetError("File not found: " + path)
				return m, nil
			}
		}
	}
	f.saving = true
	m.ctrl.Content().SetError("")

	in, id := f.input(), f.editID
	client, timeout := m.client, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if id != 0 {
			err := client.UpdateItem(ctx, id, in)
			return ItemSavedMsg{Item: &models.Item{ID: id, Title: in.Title, Category: in.Category, Description: in.Description}, Err: err}
		}
		item, err := client.CreateItem(ctx, in)
		if err != nil {
			return ItemSavedMsg{Created: true, Err: err}
		}
		msg := ItemSavedMsg{Item: item, Created: true}
		if path != "" {
			upCtx, upCancel := context.WithTimeout(context.Background(), timeout)
			defer upCancel()
			if up, err := client.UploadFile(upCtx, item.ID, path); err != nil {
				msg.UploadErr = err
			} else {
				msg.Item = up
			}
		}
		return msg
	}
}

func (m Model) handleItemSaved(msg ItemSavedMsg) (Model, tea.Cmd) {
	if f := m.dlg.form; f != nil {
		f.saving = false
	}
	if msg.Err != nil {
		if api.IsUnauthorized(msg.Err) {
			return m.expireSession()
		}
		if m.dialogOpen(dialogForm) {
			m.ctrl.Content().SetError(api.UserMessage(msg.Err))
			return m, nil
		}
		return m.apiFailure("Saving item", msg.Err)
	}

	if m.dialogOpen(dialogForm) {
		m.ctrl.Close()
		m.dlg.form = nil
	}
	var reload tea.Cmd
	text := "Item updated"
	if msg.Created {
		reload = m.items.Render(m.items.Query().WithPage(1))
		text = "Item added"
	} else {
		reload = m.items.Reload()
	}
	m, status := m.setStatus(text, false)
	if msg.UploadErr != nil {
		m.logger.Warn("upload failed", "item", msg.Item.ID, "err", msg.UploadErr)
		m, status = m.setStatus("Item added, upload failed: "+api.UserMessage(msg.UploadErr), true)
	}
	return m, tea.Batch(reload, m.statsCmd(), status)
}

// openDeleteConfirm asks before deleting it
func (m Model) openDeleteConfirm(it models.Item) (Model, tea.Cmd) {
	m.dlg.kind = dialogDelete
	m.dlg.item = it
	busy := new(bool)
	m.dlg.deleting = busy
	md := modal.New("Delete item?", modal.WithVariant(modal.VariantDanger)).
		AddSection(modal.Text(fmt.Sprintf("Delete %q? This cannot be undone.", it.Title))).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn("Delete", actConfirmDelete, modal.BtnDanger(), modal.BtnDisabled(func() bool { return *busy })),
			modal.Btn("Cancel", actCancel, modal.BtnClose()),
		))
	m.ctrl.Open(md)
	return m, nil
}

func (m Model) deleteItemCmd(id int64) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ItemDeletedMsg{ID: id, Err: client.DeleteItem(ctx, id)}
	}
}

func (m Model) handleItemDeleted(msg ItemDeletedMsg) (Model, tea.Cmd) {
	if m.dlg.deleting != nil {
		*m.dlg.deleting = false
	}
	if msg.Err != nil {
		if !api.IsUnauthorized(msg.Err) && m.dialogOpen(dialogDelete) {
			m.ctrl.Content().SetError(api.UserMessage(msg.Err))
			return m, nil
		}
		return m.apiFailure("Deleting item", msg.Err)
	}
	if m.dialogOpen(dialogDelete) {
		m.ctrl.Close()
	}
	m, status := m.setStatus("Deleted", false)
	return m, tea.Batch(m.items.Reload(), m.statsCmd(), status)
}

// handleItemsKey handles keys while the item list has focus
func (m Model) handleItemsKey(key string) (Model, tea.Cmd, bool) {
	switch key {
	case "up", "k":
		m.items.MoveCursor(-1)
	case "down", "j":
		m.items.MoveCursor(1)
	case "left", "[", "pgup":
		return m, m.items.Prev(), true
	case "right", "]", "pgdown":
		return m, m.items.Next(), true
	case "enter", "e", "d", "c":
		it, ok := m.items.Selected()
		if !ok {
			return m, nil, true
		}
		mm, cmd := m.itemAction(key, it)
		return mm, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) itemAction(key string, it models.Item) (Model, tea.Cmd) {
	switch key {
	case "e", actEdit:
		return m.openItemForm(&it)
	case "d", actDelete:
		return m.openDeleteConfirm(it)
	case "c", actComments:
		return m.openComments(it)
	}
	return m.openDetail(it)
}

func (m Model) itemsPanel(width int) string {
	focused := m.ring.Is(ctrlItems) && !m.ctrl.IsOpen()
	style := panelStyle
	if focused {
		style = activePanelStyle
	}
	inner := max(10, width-4)
	body := titleStyle.Render("Items") + "\n" + m.items.View(inner, focused)
	return style.Width(width - 2).Render(body)
}
