package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmacare/pharmacy-web/internal/auth"
	"github.com/pharmacare/pharmacy-web/internal/dashboard"
	"github.com/pharmacare/pharmacy-web/internal/exports"
	"github.com/pharmacare/pharmacy-web/internal/observability"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/customers"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/equipment"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/medicines"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/payments"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/sales"
	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/suppliers"
	"github.com/pharmacare/pharmacy-web/internal/platform/httpx"
	"github.com/pharmacare/pharmacy-web/internal/profile"
	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/jobs"
	"github.com/pharmacare/pharmacy-web/report"
	"github.com/pharmacare/pharmacy-web/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Screen         *pharmacyShared.Screen
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	ProfileHandler   *profile.Handler
	ExportsHandler   *exports.Handler

	CustomersHandler *customers.Handler
	SuppliersHandler *suppliers.Handler
	MedicinesHandler *medicines.Handler
	EquipmentHandler *equipment.Handler
	SalesHandler     *sales.Handler
	PaymentsHandler  *payments.Handler

	ReportHandler *report.Handler
	JobHandler    *jobs.Handler
	Metrics       *observability.Metrics
	// Health reports backend reachability for /healthz. Nil skips the probe.
	Health func(r *http.Request) error
}

// NewRouter constructs the chi.Router with pharmacy web defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Health != nil {
			if err := params.Health(r); err != nil {
				params.Logger.Warn("health check", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "backend": "unreachable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", auth.Home)
	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession)

		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Get("/about", func(w http.ResponseWriter, r *http.Request) {
			params.Screen.Render(w, r, "pages/about.html", "About", nil, http.StatusOK)
		})
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		r.Route("/medicines", params.MedicinesHandler.MountRoutes)
		r.Route("/equipment", params.EquipmentHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/payments", params.PaymentsHandler.MountRoutes)
		r.Route("/reports", params.ExportsHandler.MountRoutes)
		r.Route("/profile", params.ProfileHandler.MountRoutes)
	})

	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
// Static assets are cached for 1 hour in browser.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
