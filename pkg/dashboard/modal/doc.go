// Package modal provides the single overlay dialog of the dashboard: a
// declarative Modal built from sections, and a Controller that owns its
// visibility, focus trap and focus restoration.
//
// Sections render first and are measured afterwards, so the focusable
// controls and their mouse hit regions always match what is on screen.
//
// A delete confirmation, opened through the controller:
//
//	m := modal.New("Delete item", modal.WithVariant(modal.VariantDanger)).
//	    AddSection(modal.Text("Delete \"Lamp\"? This cannot be undone.")).
//	    AddSection(modal.Buttons(
//	        modal.Btn(" Delete ", "delete", modal.BtnDanger()),
//	        modal.Btn(" Cancel ", "cancel", modal.BtnClose()),
//	    ))
//	ctrl.Open(m)
//
// Update forwards keys and mouse events while the controller is open and
// acts on the returned action ID; View composites the dialog over the
// screen behind it:
//
//	if ctrl.IsOpen() {
//	    action, cmd, _ := ctrl.HandleKey(keyMsg)
//	    ...
//	}
//	return ctrl.View(mainScreen, width, height)
//
// Content that changes between renders uses the func-valued sections
// (TextFunc, ListFunc, When, Custom) rather than rebuilding the Modal.
// Opening while a dialog is shown swaps the content in place; the control
// focused inside the old content becomes the restore target, which the
// Focuser normally rejects as detached.
package modal
