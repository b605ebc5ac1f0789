package dashboard

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/view"
	"github.com/pharmacare/pharmacy-web/report"
)

// Page is the data handed to the dashboard template.
type Page struct {
	Stats    Stats
	Insights []string
	Failed   string
}

// Handler serves the dashboard.
type Handler struct {
	screen  *shared.Screen
	service *Service
	now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(screen *shared.Screen, service *Service) *Handler {
	return &Handler{screen: screen, service: service, now: time.Now}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Get("/export.pdf", h.export)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	if key := strings.TrimSpace(r.URL.Query().Get("view")); key != "" && !strings.EqualFold(key, view.DefaultView) {
		http.Redirect(w, r, view.ViewPath(key), http.StatusSeeOther)
		return
	}

	stats, err := h.service.Load(r.Context(), internalShared.Token(r))
	if internalShared.HandleBackendError(w, r, err, internalShared.LoginPath) {
		return
	}
	sort.Strings(stats.Failed)
	h.screen.Render(w, r, "pages/dashboard.html", "Dashboard", Page{
		Stats:    stats,
		Insights: Insights(stats),
		Failed:   strings.Join(stats.Failed, ", "),
	}, http.StatusOK)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Load(r.Context(), internalShared.Token(r))
	if internalShared.HandleBackendError(w, r, err, internalShared.LoginPath) {
		return
	}
	sort.Strings(stats.Failed)

	by := ""
	if user, ok := internalShared.CurrentUser(r); ok {
		by = user.DisplayName() + " (" + user.Role + ")"
	}
	doc := Document(stats, by, h.now())
	data, err := h.screen.Exporter.PDF(r.Context(), doc)
	if err != nil {
		h.service.logger.Error("dashboard pdf", slog.Any("error", err))
		internalShared.RedirectWithFlash(w, r, "/dashboard", internalShared.FlashError, "Export Failed",
			"Failed to generate PDF report. Please try again.")
		return
	}
	report.Send(w, report.FormatPDF, doc, data)
}
