package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/view"
	"github.com/pharmacare/pharmacy-web/report"
)

// NetworkErrorMessage is shown when the backend cannot be reached.
const NetworkErrorMessage = "Network error. Please check your connection and try again."

// Screen bundles what every entity handler needs to answer a request.
type Screen struct {
	Logger    *slog.Logger
	Templates *view.Engine
	CSRF      *internalShared.CSRFManager
	Snapshots *internalShared.SnapshotStore
	Exporter  *report.Exporter
}

// ListState describes how fresh the rendered list is.
type ListState struct {
	Stale    bool
	SavedAt  time.Time
	Error    string
	RetryURL string
}

// Failed reports whether the latest fetch failed.
func (s ListState) Failed() bool { return s.Error != "" }

// ListPage is the data handed to every list template.
type ListPage[T any] struct {
	Rows       []T
	Total      int
	Filtered   int
	Stats      any
	Filters    ListFilters
	Pagination internalShared.Pagination
	State      ListState
	BasePath   string
}

// FormPage is the data handed to every form template.
type FormPage struct {
	Form      any
	Errors    internalShared.FieldErrors
	Action    string
	Editing   bool
	CancelURL string
	Options   map[string][]string
}

// ConfirmPage is the data for the shared delete confirmation.
type ConfirmPage struct {
	Dialog internalShared.ConfirmDialog
}

// Render writes template with status.
func (s *Screen) Render(w http.ResponseWriter, r *http.Request, template, title string, data any, status int) {
	viewData := view.Page(r, s.CSRF, title, data)
	if err := s.Templates.RenderStatus(w, status, template, viewData); err != nil {
		s.Log().Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// Load fetches a list and keeps the session's last good copy. When fetch
// fails the stored copy, if any, is returned marked stale together with the
// original error.
func Load[T any](ctx context.Context, s *Screen, r *http.Request, resource string, fetch func(context.Context) ([]T, error)) ([]T, ListState, error) {
	sessionID := ""
	if sess := internalShared.SessionFromContext(ctx); sess != nil {
		sessionID = sess.ID
	}
	state := ListState{RetryURL: r.URL.RequestURI()}

	items, err := fetch(ctx)
	if err == nil {
		if saveErr := s.Snapshots.Save(ctx, sessionID, resource, items); saveErr != nil {
			s.Log().Warn("save list snapshot", slog.String("resource", resource), slog.Any("error", saveErr))
		}
		return items, state, nil
	}

	if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrForbidden) {
		return nil, state, err
	}

	s.Log().Warn("list fetch failed", slog.String("resource", resource), slog.Any("error", err))
	state.Error = UserMessage(err)
	var stale []T
	savedAt, ok, loadErr := s.Snapshots.Load(ctx, sessionID, resource, &stale)
	if loadErr != nil {
		s.Log().Warn("load list snapshot", slog.String("resource", resource), slog.Any("error", loadErr))
	}
	if ok {
		state.Stale = true
		state.SavedAt = savedAt
		return stale, state, err
	}
	return []T{}, state, err
}

// RenderList answers a list request: 200 with fresh data, 502 with the error
// state otherwise.
func RenderList[T any](w http.ResponseWriter, r *http.Request, s *Screen, template, title string, page ListPage[T]) {
	status := http.StatusOK
	if page.State.Failed() {
		status = http.StatusBadGateway
	}
	s.Render(w, r, template, title, page, status)
}

// SubmitFailed answers a failed create or update: 422 for invalid input, 400
// with the backend message otherwise. Expired sessions and permission
// failures redirect instead.
func (s *Screen) SubmitFailed(w http.ResponseWriter, r *http.Request, err error, listPath, template, title string, page FormPage) {
	if internalShared.HandleBackendError(w, r, err, listPath) {
		return
	}
	if fe, ok := internalShared.AsFieldErrors(err); ok {
		page.Errors = fe
		s.Render(w, r, template, title, page, http.StatusUnprocessableEntity)
		return
	}
	s.Log().Warn("submit failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	page.Errors = internalShared.FieldErrors{"general": UserMessage(err)}
	s.Render(w, r, template, title, page, http.StatusBadRequest)
}

// LoadFailed answers a failed fetch of a single record by returning to the list.
func (s *Screen) LoadFailed(w http.ResponseWriter, r *http.Request, err error, listPath, what string) {
	if internalShared.HandleBackendError(w, r, err, listPath) {
		return
	}
	msg := UserMessage(err)
	if errors.Is(err, ErrNotFound) {
		msg = what + " not found"
	}
	internalShared.RedirectWithFlash(w, r, listPath, internalShared.FlashError, "Error", msg)
}

// Confirm renders the delete confirmation dialog.
func (s *Screen) Confirm(w http.ResponseWriter, r *http.Request, dialog internalShared.ConfirmDialog) {
	s.Render(w, r, "pages/confirm.html", dialog.Title, ConfirmPage{Dialog: dialog}, http.StatusOK)
}

// Export renders doc in format and sends it as an attachment.
func (s *Screen) Export(w http.ResponseWriter, r *http.Request, listPath, format string, build func(context.Context) (report.Document, error)) {
	format, ok := report.NormalizeFormat(format)
	if !ok {
		http.Error(w, "Unsupported export format", http.StatusNotFound)
		return
	}
	doc, err := build(r.Context())
	if err != nil {
		if internalShared.HandleBackendError(w, r, err, listPath) {
			return
		}
		internalShared.RedirectWithFlash(w, r, listPath, internalShared.FlashError, "Export Failed", UserMessage(err))
		return
	}
	if doc.GeneratedBy == "" {
		if user, ok := internalShared.CurrentUser(r); ok {
			doc.GeneratedBy = user.DisplayName()
			if user.Role != "" {
				doc.GeneratedBy += " (" + user.Role + ")"
			}
		}
	}
	data, err := s.Exporter.Render(r.Context(), format, doc)
	if err != nil {
		s.Log().Error("render export", slog.String("format", format), slog.Any("error", err))
		internalShared.RedirectWithFlash(w, r, listPath, internalShared.FlashError, "Export Failed", "Failed to generate "+format+" report. Please try again.")
		return
	}
	report.Send(w, format, doc, data)
}

// UserMessage turns err into text safe to show on a page.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiclient.KindOf(err) == apiclient.KindNetwork {
		return NetworkErrorMessage
	}
	if apiclient.KindOf(err) != 0 {
		return apiclient.Message(err)
	}
	return "Something went wrong. Please try again."
}

// Log returns the screen logger, falling back to slog.Default.
func (s *Screen) Log() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
