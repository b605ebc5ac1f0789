package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/auth"
	"github.com/pharmacare/pharmacy-web/internal/dashboard"
	"github.com/pharmacare/pharmacy-web/internal/exports"
	jobmetrics "github.com/pharmacare/pharmacy-web/internal/jobs"
	"github.com/pharmacare/pharmacy-web/internal/observability"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/customers"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/equipment"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/medicines"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/payments"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/sales"
	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/suppliers"
	"github.com/pharmacare/pharmacy-web/internal/profile"
	"github.com/pharmacare/pharmacy-web/internal/rbac"
	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/view"
	"github.com/pharmacare/pharmacy-web/jobs"
	"github.com/pharmacare/pharmacy-web/report"
)

// SessionCookie names the browser session cookie.
const SessionCookie = "pharmacy_session"

// Dependencies are the process-level collaborators the web server is built on.
type Dependencies struct {
	Logger  *slog.Logger
	Config  *Config
	Redis   *redis.Client
	API     *apiclient.Client
	PDF     *report.Client
	Metrics *observability.Metrics
	// Recorder keeps the login audit trail; nil disables it.
	Recorder auth.Recorder
	// Queue receives export tasks; nil renders exports inline.
	Queue exports.Queue
	// Inspector backs /jobs/health; nil reports empty queues.
	Inspector *asynq.Inspector
}

// NewHandler wires every screen and returns the router.
func NewHandler(d Dependencies) (http.Handler, error) {
	if d.Config == nil || d.Redis == nil || d.API == nil {
		return nil, errors.New("app: config, redis and api client are required")
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := d.Recorder
	if recorder == nil {
		recorder = auth.NopRecorder{}
	}

	templates, err := view.NewEngine()
	if err != nil {
		return nil, err
	}
	sessions := shared.NewSessionManager(d.Redis, SessionCookie, d.Config.SessionSecret, d.Config.SessionTTL, d.Config.IsProduction())
	csrf := shared.NewCSRFManager(d.Config.CSRFSecret)
	snapshots := shared.NewSnapshotStore(d.Redis, d.Config.SnapshotTTL)
	sessions.OnRetire(snapshots.Drop)
	pdf := d.PDF
	if pdf == nil {
		pdf = report.NewClient(d.Config.GotenbergURL)
	}
	exporter := report.NewExporter(pdf)

	screen := &pharmacyShared.Screen{
		Logger:    logger,
		Templates: templates,
		CSRF:      csrf,
		Snapshots: snapshots,
		Exporter:  exporter,
	}

	services := NewServices(d.API, d.Config.ListSize, logger)
	registry := services.ExportRegistry()
	store := exports.NewStore(d.Redis, d.Config.ReportResultTTL)

	var jobMetrics *jobmetrics.Metrics
	if d.Metrics != nil {
		jobMetrics = jobmetrics.NewMetrics(d.Metrics.Registerer())
	} else {
		jobMetrics = jobmetrics.NewMetrics(nil)
	}
	job := exports.NewJob(exports.JobConfig{
		Registry: registry,
		Exporter: exporter,
		Store:    store,
		Logger:   logger,
		Metrics:  jobMetrics,
	})

	authService := auth.NewService(d.API, recorder, services.Validator, logger)
	rbacMiddleware := rbac.Middleware{Service: rbac.NewService(), Logger: logger}

	params := RouterParams{
		Logger:         logger,
		Config:         d.Config,
		Screen:         screen,
		SessionManager: sessions,
		CSRFManager:    csrf,

		AuthHandler:      auth.NewHandler(logger, authService, templates, sessions, csrf),
		DashboardHandler: dashboard.NewHandler(screen, services.Dashboard),
		ProfileHandler:   profile.NewHandler(screen, profile.NewService(d.API, services.Validator), rbacMiddleware),
		ExportsHandler:   exports.NewHandler(screen, exports.NewService(registry, store, d.Queue, job, services.Validator)),

		CustomersHandler: customers.NewHandler(screen, services.Customers),
		SuppliersHandler: suppliers.NewHandler(screen, services.Suppliers),
		MedicinesHandler: medicines.NewHandler(screen, services.Medicines),
		EquipmentHandler: equipment.NewHandler(screen, services.Equipment),
		SalesHandler:     sales.NewHandler(screen, services.Sales),
		PaymentsHandler:  payments.NewHandler(screen, services.Payments),

		ReportHandler: report.NewHandler(pdf, logger),
		JobHandler:    jobs.NewHandler(d.Inspector, logger),
		Metrics:       d.Metrics,
		Health: func(r *http.Request) error {
			return d.API.Ping(r.Context())
		},
	}
	return NewRouter(params), nil
}
