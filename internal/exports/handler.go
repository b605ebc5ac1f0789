package exports

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/platform/httpx"
	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

const (
	basePath    = "/reports"
	pageTitle   = "Reports"
	pageTmpl    = "pages/reports.html"
	jobPageTmpl = "pages/report_job.html"
)

// Page is the data handed to the reports template.
type Page struct {
	Resources []Resource
	Formats   []string
	Form      Request
	Errors    shared.FieldErrors
}

// JobPage is the data for a pending or failed export.
type JobPage struct {
	Job Result
	URL string
}

// Handler serves the reports screen and export jobs.
type Handler struct {
	screen  *pharmacyShared.Screen
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(screen *pharmacyShared.Screen, service *Service) *Handler {
	return &Handler{screen: screen, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Post("/jobs", h.submit)
	r.Get("/jobs/{id}", h.show)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := Request{Resource: q.Get("resource"), Format: report.FormatPDF}
	h.render(w, r, form, nil, http.StatusOK)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, form Request, errs shared.FieldErrors, status int) {
	h.screen.Render(w, r, pageTmpl, pageTitle, Page{
		Resources: h.service.Resources(),
		Formats:   []string{report.FormatPDF, report.FormatCSV, report.FormatXLSX},
		Form:      form,
		Errors:    errs,
	}, status)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := Request{
		Resource: r.PostFormValue("resource"),
		Format:   r.PostFormValue("format"),
		Search:   r.PostFormValue("q"),
		Tab:      r.PostFormValue("tab"),
		Sort:     r.PostFormValue("sort"),
		Status:   r.PostFormValue("status"),
		Type:     r.PostFormValue("type"),
		Token:    shared.Token(r),
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		form.SessionID = sess.ID
	}
	if user, ok := shared.CurrentUser(r); ok {
		form.GeneratedBy = user.DisplayName()
		if user.Role != "" {
			form.GeneratedBy += " (" + user.Role + ")"
		}
	}

	res, err := h.service.Submit(r.Context(), form)
	if err != nil {
		if fe, ok := shared.AsFieldErrors(err); ok {
			if wantsJSON(r) {
				httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", fe.Error())
				return
			}
			h.render(w, r, form, fe, http.StatusUnprocessableEntity)
			return
		}
		h.screen.Log().Error("submit export", slog.Any("error", err))
		if wantsJSON(r) {
			httpx.Problem(w, http.StatusServiceUnavailable, "Export Unavailable", "Could not queue the export. Please try again.")
			return
		}
		shared.RedirectWithFlash(w, r, basePath, shared.FlashError, "Export Failed", "Could not queue the export. Please try again.")
		return
	}

	location := jobPath(res.ID)
	if wantsJSON(r) {
		w.Header().Set("Location", location)
		httpx.JSON(w, http.StatusAccepted, map[string]string{"id": res.ID, "status": res.Status, "url": location})
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sessionID = sess.ID
	}
	res, err := h.service.Fetch(r.Context(), chi.URLParam(r, "id"), sessionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.screen.Log().Error("load export", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	switch res.Status {
	case StatusReady:
		w.Header().Set("Content-Type", res.ContentType())
		w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Data)
	case StatusPending:
		if wantsJSON(r) {
			httpx.JSON(w, http.StatusAccepted, map[string]string{"id": res.ID, "status": res.Status})
			return
		}
		w.Header().Set("Retry-After", "2")
		h.screen.Render(w, r, jobPageTmpl, pageTitle, JobPage{Job: res, URL: jobPath(res.ID)}, http.StatusAccepted)
	default:
		if wantsJSON(r) {
			httpx.JSON(w, http.StatusOK, map[string]string{"id": res.ID, "status": res.Status, "error": res.Error})
			return
		}
		h.screen.Render(w, r, jobPageTmpl, pageTitle, JobPage{Job: res, URL: jobPath(res.ID)}, http.StatusOK)
	}
}

func jobPath(id string) string {
	return basePath + "/jobs/" + id
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
