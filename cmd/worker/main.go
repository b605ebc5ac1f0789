package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/app"
	"github.com/pharmacare/pharmacy-web/internal/exports"
	jobmetrics "github.com/pharmacare/pharmacy-web/internal/jobs"
	"github.com/pharmacare/pharmacy-web/internal/platform/cache"
	"github.com/pharmacare/pharmacy-web/jobs"
	"github.com/pharmacare/pharmacy-web/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	api := apiclient.New(cfg.BackendBaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(apiclient.NewMetrics(nil)),
	)
	services := app.NewServices(api, cfg.ListSize, logger)

	exportJob := exports.NewJob(exports.JobConfig{
		Registry: services.ExportRegistry(),
		Exporter: report.NewExporter(report.NewClient(cfg.GotenbergURL)),
		Store:    exports.NewStore(redisClient, cfg.ReportResultTTL),
		Logger:   logger,
		Metrics:  metrics,
	})
	pingJob := jobs.NewBackendPingJob(api, logger, metrics)

	pingTask, err := jobs.NewBackendPingTask(time.Now())
	if err != nil {
		logger.Error("build backend ping task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: cfg.Redis().Asynq(),
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportExport, Handler: exportJob.Handle},
			{Type: jobs.TaskBackendPing, Handler: pingJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 1m", Task: pingTask, Options: []asynq.Option{asynq.MaxRetry(0)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("starting worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("worker metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
