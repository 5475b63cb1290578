package modal

import (
	"fmt"
	"strings"
	"testing"
)

func rowsN(n int) func() []ListItem {
	return func() []ListItem {
		out := make([]ListItem, n)
		for i := range out {
			out[i] = ListItem{ID: fmt.Sprintf("item:%d", i+1), Label: fmt.Sprintf("Item %d", i+1)}
		}
		return out
	}
}

func TestListKeys(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		keys   []string
		want   int
		action string
	}{
		{"down", 0, []string{"j", "j"}, 2, ""},
		{"up stops at top", 1, []string{"k", "k", "k"}, 0, ""},
		{"down stops at bottom", 8, []string{"j", "j", "j"}, 9, ""},
		{"end", 0, []string{"G"}, 9, ""},
		{"home", 7, []string{"g"}, 0, ""},
		{"enter reports row id", 0, []string{"j", "enter"}, 1, "item:2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := tt.start
			l := ListFunc("drill", rowsN(10), &cursor)
			var action string
			for _, k := range tt.keys {
				action, _ = l.Update(key(k), "drill")
			}
			if cursor != tt.want {
				t.Errorf("cursor = %d, want %d", cursor, tt.want)
			}
			if action != tt.action {
				t.Errorf("action = %q, want %q", action, tt.action)
			}
		})
	}
}

func TestListIgnoresKeysWhenUnfocused(t *testing.T) {
	cursor := 0
	l := ListFunc("drill", rowsN(3), &cursor)
	if a, _ := l.Update(key("j"), "btn-close"); a != "" || cursor != 0 {
		t.Errorf("unfocused list moved: cursor %d action %q", cursor, a)
	}
}

func TestListRenderScrollsToCursor(t *testing.T) {
	cursor := 6
	l := ListFunc("drill", rowsN(10), &cursor, WithMaxVisible(3))
	out := l.Render(40, "drill", "").Content

	for _, want := range []string{"Item 5", "Item 6", "Item 7", "↑ 4 more", "↓ 3 more"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Item 4\n") || strings.Contains(out, "Item 8") {
		t.Errorf("rows outside the window rendered:\n%s", out)
	}
}

func TestListClampsStaleCursor(t *testing.T) {
	cursor := 40
	l := ListFunc("drill", rowsN(2), &cursor)
	rs := l.Render(40, "", "")
	if cursor != 1 {
		t.Errorf("cursor = %d, want 1", cursor)
	}
	if len(rs.Focusables) != 1 || rs.Focusables[0].Height != 2 {
		t.Errorf("focusables = %+v", rs.Focusables)
	}
}

func TestListEmptyText(t *testing.T) {
	l := ListFunc("drill", rowsN(0), nil, WithEmptyText("No items in this category."))
	rs := l.Render(40, "drill", "")
	if !strings.Contains(rs.Content, "No items in this category.") || len(rs.Focusables) != 0 {
		t.Errorf("got %+v", rs)
	}
}
