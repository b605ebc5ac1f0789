package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	CurrentView string
	Nav         []NavItem
	User        *shared.UserInfo
	Data        any
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatDay":      FormatDay,
		"formatCurrency": FormatCurrency,
		"formatMoney":    FormatMoney,
		"formatNumber":   FormatNumber,
		"lower":          strings.ToLower,
		"capitalize":     Capitalize,
		"sameText": func(a, b string) bool {
			return strings.EqualFold(a, b)
		},
		"fieldError": func(errs shared.FieldErrors, field string) string {
			return errs[field]
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
		"templates/pages/*/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes name into a buffer and writes it with status. Nothing
// is written when the template fails.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	if data.Nav == nil {
		data.Nav = Navigation(data.CurrentPath)
	}
	if data.CurrentView == "" {
		data.CurrentView = CurrentView(data.CurrentPath)
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Page assembles TemplateData for the request: CSRF token, pending flash and
// signed-in user.
func Page(r *http.Request, csrf *shared.CSRFManager, title string, data any) TemplateData {
	sess := shared.SessionFromContext(r.Context())
	var token string
	if csrf != nil {
		token, _ = csrf.EnsureToken(r.Context(), sess)
	}
	var flash *shared.FlashMessage
	var user *shared.UserInfo
	if sess != nil {
		flash = sess.PopFlash()
		if _, info, ok := sess.Credentials(); ok {
			user = &info
		}
	}
	return TemplateData{
		Title:       title,
		CSRFToken:   token,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}
}
