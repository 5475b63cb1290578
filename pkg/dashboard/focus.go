package dashboard

import (
	"fmt"

	"github.com/marcus/catalog/pkg/dashboard/modal"
)

// Main-screen control IDs
const (
	ctrlUsername  = "auth-username"
	ctrlPassword  = "auth-password"
	ctrlLogin     = "auth-login"
	ctrlRegister  = "auth-register"
	ctrlItems     = "items-list"
	ctrlChart     = "chart"
	ctrlNewItem   = "btn-new"
	ctrlChartType = "btn-chart-type"
	ctrlAdmin     = "btn-admin"
	ctrlLogout    = "btn-logout"
	ctrlUsers     = "users-list"
	ctrlViewAudit = "view-audit"
)

// focusRing is the main screen's tab order. The model replaces the control
// list whenever the screen layout changes; a focused control that is no
// longer laid out is dropped.
type focusRing struct {
	controls []string
	current  string
}

var _ modal.Focuser = (*focusRing)(nil)

func newFocusRing() *focusRing {
	return &focusRing{}
}

// SetControls replaces the tab order. Focus stays on the same control when it
// is still present, otherwise it moves to the first control.
func (r *focusRing) SetControls(ids []string) {
	r.controls = append(r.controls[:0], ids...)
	if !r.has(r.current) {
		r.current = ""
		if len(r.controls) > 0 {
			r.current = r.controls[0]
		}
	}
}

func (r *focusRing) has(id string) bool {
	for _, c := range r.controls {
		if c == id {
			return true
		}
	}
	return false
}

// FocusedID implements modal.Focuser
func (r *focusRing) FocusedID() string { return r.current }

// Focus implements modal.Focuser
func (r *focusRing) Focus(id string) error {
	if !r.has(id) {
		return fmt.Errorf("focus %q: %w", id, modal.ErrDetached)
	}
	r.current = id
	return nil
}

// Cycle moves focus by dir, wrapping at both ends
func (r *focusRing) Cycle(dir int) {
	n := len(r.controls)
	if n == 0 {
		return
	}
	idx := 0
	for i, c := range r.controls {
		if c == r.current {
			idx = i
			break
		}
	}
	r.current = r.controls[((idx+dir)%n+n)%n]
}

// Is reports whether id has focus
func (r *focusRing) Is(id string) bool { return r.current == id }
