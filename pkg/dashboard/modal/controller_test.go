package modal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeScreen is a main screen with a fixed set of attached controls
type fakeScreen struct {
	attached map[string]bool
	focused  string
	calls    []string
}

func newFakeScreen(focused string, ids ...string) *fakeScreen {
	s := &fakeScreen{attached: map[string]bool{}, focused: focused}
	for _, id := range ids {
		s.attached[id] = true
	}
	return s
}

func (s *fakeScreen) FocusedID() string { return s.focused }

func (s *fakeScreen) Focus(id string) error {
	s.calls = append(s.calls, id)
	if !s.attached[id] {
		return fmt.Errorf("focus %q: %w", id, ErrDetached)
	}
	s.focused = id
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func threeButtons() *Modal {
	return New("Item").
		AddSection(Text("Lamp, category lighting")).
		AddSection(Buttons(
			Btn("Edit", "edit"),
			Btn("Comments", "comments"),
			Btn("Close", "close", BtnClose()),
		))
}

func TestCloseRestoresFocus(t *testing.T) {
	screen := newFakeScreen("items-list", "items-list", "toolbar-new")
	c := NewController(screen, nil)

	c.Open(threeButtons())
	if !c.IsOpen() || !c.Listening() {
		t.Fatal("expected open controller with listener attached")
	}
	if c.Content().FocusedID() != "" {
		t.Errorf("focus on open: got %q, want container", c.Content().FocusedID())
	}

	c.Close()
	if c.IsOpen() || c.Listening() {
		t.Error("expected closed controller with listener released")
	}
	if c.Content() != nil {
		t.Error("content not cleared on close")
	}
	if screen.focused != "items-list" {
		t.Errorf("focus after close: got %q, want items-list", screen.focused)
	}
}

func TestCloseDetachedTargetIsSilent(t *testing.T) {
	screen := newFakeScreen("row-3", "items-list")
	c := NewController(screen, nil)
	c.Open(threeButtons())

	// The row went away while the modal was open
	c.Close()

	if len(screen.calls) != 1 || screen.calls[0] != "row-3" {
		t.Errorf("expected one restore attempt on row-3, got %v", screen.calls)
	}
	if screen.focused != "row-3" {
		t.Errorf("focus should be untouched, got %q", screen.focused)
	}
	if c.IsOpen() {
		t.Error("controller should be closed")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	screen := newFakeScreen("items-list", "items-list")
	c := NewController(screen, nil)

	c.Close()
	c.Open(threeButtons())
	c.Close()
	c.Close()

	if len(screen.calls) != 1 {
		t.Errorf("expected a single restore, got %v", screen.calls)
	}
}

func TestEscapeCloses(t *testing.T) {
	screen := newFakeScreen("view-audit", "view-audit")
	c := NewController(screen, nil)
	c.Open(threeButtons())

	_, _, handled := c.HandleKey(key("esc"))
	if !handled {
		t.Fatal("esc not handled")
	}
	if c.IsOpen() {
		t.Error("esc should close the modal")
	}
	if screen.focused != "view-audit" {
		t.Errorf("focus after esc: got %q", screen.focused)
	}
}

func TestKeysIgnoredWhenClosed(t *testing.T) {
	screen := newFakeScreen("items-list", "items-list")
	c := NewController(screen, nil)

	for _, k := range []string{"esc", "tab", "shift+tab", "enter", "x"} {
		if _, _, handled := c.HandleKey(key(k)); handled {
			t.Errorf("%s handled by a closed controller", k)
		}
	}

	c.Open(threeButtons())
	c.Close()
	if _, _, handled := c.HandleKey(key("tab")); handled {
		t.Error("tab handled after close")
	}
	if len(screen.calls) != 1 {
		t.Errorf("closed controller touched focus: %v", screen.calls)
	}
}

func TestTabWraps(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"tab from container goes to first", "", "tab", "edit"},
		{"tab moves forward", "edit", "tab", "comments"},
		{"tab on last wraps to first", "close", "tab", "edit"},
		{"shift+tab moves back", "comments", "shift+tab", "edit"},
		{"shift+tab on first wraps to last", "edit", "shift+tab", "close"},
		{"shift+tab from container goes to last", "", "shift+tab", "close"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(newFakeScreen("items-list", "items-list"), nil)
			c.Open(threeButtons())
			if tt.start != "" && !c.Content().SetFocus(tt.start) {
				t.Fatalf("SetFocus(%q) failed", tt.start)
			}
			if _, _, handled := c.HandleKey(key(tt.key)); !handled {
				t.Fatal("key not handled")
			}
			if got := c.Content().FocusedID(); got != tt.want {
				t.Errorf("focus: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTabWithoutFocusables(t *testing.T) {
	c := NewController(newFakeScreen("items-list", "items-list"), nil)
	c.Open(New("Notice").AddSection(Text("Saved.")))

	for _, k := range []string{"tab", "shift+tab"} {
		_, _, handled := c.HandleKey(key(k))
		if !handled {
			t.Errorf("%s should be suppressed", k)
		}
		if got := c.Content().FocusedID(); got != "" {
			t.Errorf("%s: focus got %q, want container", k, got)
		}
	}
}

func TestFocusablesRecomputedPerKey(t *testing.T) {
	showExtra := false
	m := New("Form").
		AddSection(Buttons(Btn("Save", "save"))).
		AddSection(When(func() bool { return showExtra }, Buttons(Btn("Upload", "upload"))))

	c := NewController(newFakeScreen("", ""), nil)
	c.Open(m)
	c.HandleKey(key("tab"))
	c.HandleKey(key("tab"))
	if got := m.FocusedID(); got != "save" {
		t.Fatalf("single control: got %q, want save", got)
	}

	showExtra = true
	c.HandleKey(key("tab"))
	if got := m.FocusedID(); got != "upload" {
		t.Errorf("after reveal: got %q, want upload", got)
	}
}

func TestOpenReplacesContent(t *testing.T) {
	screen := newFakeScreen("items-list", "items-list")
	c := NewController(screen, nil)

	first := threeButtons()
	c.Open(first)
	first.SetFocus("edit")

	second := New("Edit item").AddSection(Buttons(Btn("Save", "save"), Btn("Cancel", "cancel", BtnClose())))
	c.Open(second)

	if c.Content() != second {
		t.Fatal("second modal should replace the first")
	}
	if c.PrevFocus() != "edit" {
		t.Errorf("restore target: got %q, want edit", c.PrevFocus())
	}

	// "edit" lived inside the replaced content, so restoring it fails quietly
	c.Close()
	if c.IsOpen() {
		t.Error("one close should dismiss the replacement; nothing stacks")
	}
	if screen.focused != "items-list" {
		t.Errorf("main focus changed to %q", screen.focused)
	}
}

func TestEnterOnButton(t *testing.T) {
	c := NewController(newFakeScreen("items-list", "items-list"), nil)
	c.Open(threeButtons())
	c.Content().SetFocus("comments")

	action, _, handled := c.HandleKey(key("enter"))
	if !handled || action != "comments" {
		t.Errorf("enter: got %q handled=%v", action, handled)
	}
	if !c.IsOpen() {
		t.Error("a plain button should not close the modal")
	}

	c.Content().SetFocus("close")
	action, _, _ = c.HandleKey(key("enter"))
	if action != "close" {
		t.Errorf("close button action: got %q", action)
	}
	if c.IsOpen() {
		t.Error("close-role button should close the modal")
	}
}

func TestDisabledButton(t *testing.T) {
	page := 1
	m := New("Audit log").AddSection(Buttons(
		Btn("Prev", "prev", BtnDisabled(func() bool { return page <= 1 })),
		Btn("Next", "next"),
	))
	c := NewController(newFakeScreen("view-audit", "view-audit"), nil)
	c.Open(m)

	if ids := m.Focusables(); len(ids) != 1 || ids[0] != "next" {
		t.Errorf("focusables: got %v, want [next]", ids)
	}
	if m.SetFocus("prev") {
		t.Error("disabled button accepted focus")
	}

	c.View("", 80, 24)
	x, y := regionPoint(t, c, "prev")
	action, _, handled := c.HandleMouse(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !handled || action != "" {
		t.Errorf("click on disabled button: action %q handled=%v", action, handled)
	}

	page = 2
	c.View("", 80, 24)
	x, y = regionPoint(t, c, "prev")
	action, _, _ = c.HandleMouse(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if action != "prev" {
		t.Errorf("click on enabled prev: got %q", action)
	}
}

func TestClickCloseRole(t *testing.T) {
	screen := newFakeScreen("items-list", "items-list")
	c := NewController(screen, nil)
	c.Open(threeButtons())

	c.View(strings.Repeat("background\n", 23), 80, 24)
	x, y := regionPoint(t, c, "close")
	c.HandleMouse(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if c.IsOpen() {
		t.Error("clicking a close-role button should close")
	}
	if screen.focused != "items-list" {
		t.Errorf("focus after click close: got %q", screen.focused)
	}
}

func TestBackdropClick(t *testing.T) {
	for _, closeOnBackdrop := range []bool{false, true} {
		t.Run(fmt.Sprintf("close=%v", closeOnBackdrop), func(t *testing.T) {
			c := NewController(newFakeScreen("", ""), nil)
			c.Open(New("Chart", WithCloseOnBackdropClick(closeOnBackdrop)).AddSection(Text("books: 3")))
			c.View("", 100, 30)
			c.HandleMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			if c.IsOpen() == closeOnBackdrop {
				t.Errorf("open=%v after backdrop click", c.IsOpen())
			}
		})
	}
}

func TestPrimaryActionOnEnter(t *testing.T) {
	ti := textinput.New()
	m := New("Login", WithPrimaryAction("submit")).
		AddSection(Input("username", &ti)).
		AddSection(Buttons(Btn("Login", "submit")))
	c := NewController(newFakeScreen("", ""), nil)
	c.Open(m)
	c.HandleKey(key("tab"))

	c.HandleKey(key("a"))
	c.HandleKey(key("n"))
	if ti.Value() != "an" {
		t.Fatalf("input value: got %q", ti.Value())
	}
	action, _, _ := c.HandleKey(key("enter"))
	if action != "submit" {
		t.Errorf("enter in input: got %q, want submit", action)
	}
}

func TestInputOnChange(t *testing.T) {
	ti := textinput.New()
	var seen []string
	m := New("Audit log").AddSection(Input("filter", &ti, WithOnChange(func(v string) tea.Cmd {
		seen = append(seen, v)
		return nil
	})))
	c := NewController(newFakeScreen("", ""), nil)
	c.Open(m)
	c.HandleKey(key("tab"))
	c.HandleKey(key("r"))
	c.HandleKey(key("o"))
	c.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})

	if strings.Join(seen, ",") != "r,ro" {
		t.Errorf("onChange calls: got %v", seen)
	}
}

func TestViewClosedReturnsBackground(t *testing.T) {
	c := NewController(newFakeScreen("", ""), nil)
	if got := c.View("main", 10, 1); got != "main" {
		t.Errorf("View: got %q", got)
	}
}

func TestViewDrawsTitle(t *testing.T) {
	c := NewController(newFakeScreen("", ""), nil)
	c.Open(New("Delete item", WithVariant(VariantDanger)).AddSection(Text("Really?")))
	out := c.View(strings.Repeat("x\n", 29), 100, 30)
	if !strings.Contains(out, "Delete item") || !strings.Contains(out, "Really?") {
		t.Errorf("overlay missing modal content:\n%s", out)
	}
	if got := strings.Count(out, "\n") + 1; got != 30 {
		t.Errorf("overlay height: got %d lines, want 30", got)
	}
}

// regionPoint returns a point inside the hit region registered for id
func regionPoint(t *testing.T, c *Controller, id string) (int, int) {
	t.Helper()
	for _, r := range c.mouse.HitMap.Regions() {
		if r.ID == id {
			return r.Rect.X, r.Rect.Y
		}
	}
	t.Fatalf("no hit region for %q", id)
	return 0, 0
}
