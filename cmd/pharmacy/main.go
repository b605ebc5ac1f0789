package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pharmacare/pharmacy-web/cmd/pharmacy/cli"
	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/app"
	"github.com/pharmacare/pharmacy-web/internal/auth"
	"github.com/pharmacare/pharmacy-web/internal/observability"
	"github.com/pharmacare/pharmacy-web/internal/platform/cache"
	"github.com/pharmacare/pharmacy-web/internal/platform/db"
	"github.com/pharmacare/pharmacy-web/jobs"
	"github.com/pharmacare/pharmacy-web/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := runJobs(ctx, cfg, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

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

	metrics := observability.NewMetrics()
	api := apiclient.New(cfg.BackendBaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(apiclient.NewMetrics(metrics.Registerer())),
	)

	var recorder auth.Recorder = auth.NopRecorder{}
	if cfg.PGDSN != "" {
		pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		pgRecorder := auth.NewRecorder(pool)
		if err := pgRecorder.EnsureSchema(ctx); err != nil {
			logger.Error("ensure login audit schema", slog.Any("error", err))
			os.Exit(1)
		}
		recorder = pgRecorder
	}

	deps := app.Dependencies{
		Logger:   logger,
		Config:   cfg,
		Redis:    redisClient,
		API:      api,
		PDF:      report.NewClient(cfg.GotenbergURL),
		Metrics:  metrics,
		Recorder: recorder,
	}

	if cfg.ReportQueue {
		redisOpts := cfg.Redis().Asynq()
		queue, err := jobs.NewClient(redisOpts)
		if err != nil {
			logger.Error("init job client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := queue.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		deps.Queue = queue
		deps.Inspector = inspector
	}

	router, err := app.NewHandler(deps)
	if err != nil {
		logger.Error("build router", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", api.BaseURL()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pharmacy jobs stats | pharmacy jobs trigger <task>")
	}
	helper := cli.NewJobsCLI(cfg.Redis())
	defer func() { _ = helper.Close() }()

	switch args[0] {
	case "stats":
		stats, err := helper.InspectQueues(ctx)
		if err != nil {
			return err
		}
		fmt.Print(cli.FormatStats(stats))
		return nil
	case "trigger":
		if len(args) < 2 {
			return fmt.Errorf("usage: pharmacy jobs trigger <task>")
		}
		info, err := helper.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return nil
	default:
		return fmt.Errorf("unknown jobs command %q", args[0])
	}
}
