package shared

import (
	"net/http"
)

// Notify queues a flash on the request session. It is a no-op without a session.
func Notify(r *http.Request, kind, title, message string) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		return
	}
	sess.AddFlash(FlashMessage{Kind: kind, Title: title, Message: message})
}

// RedirectWithFlash queues a flash and answers 303 to location.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, title, message string) {
	Notify(r, kind, title, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// ConfirmDialog describes a confirmation page guarding a destructive action.
type ConfirmDialog struct {
	Kind         string
	Title        string
	Message      string
	Action       string
	CancelURL    string
	ConfirmLabel string
}

// DeleteDialog builds the confirmation shown before removing a record.
func DeleteDialog(itemName, action, cancelURL string) ConfirmDialog {
	return ConfirmDialog{
		Kind:         FlashDelete,
		Title:        "Delete " + itemName + "?",
		Message:      "Are you sure you want to delete " + itemName + "? This action cannot be undone.",
		Action:       action,
		CancelURL:    cancelURL,
		ConfirmLabel: "Delete",
	}
}
