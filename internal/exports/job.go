package exports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/pharmacare/pharmacy-web/internal/jobs"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/jobs"
	"github.com/pharmacare/pharmacy-web/report"
)

// JobConfig wires dependencies required by the worker job.
type JobConfig struct {
	Registry *Registry
	Exporter *report.Exporter
	Store    *Store
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// Job renders queued exports.
type Job struct {
	registry *Registry
	exporter *report.Exporter
	store    *Store
	logger   *slog.Logger
	metrics  *jobmetrics.Metrics
	now      func() time.Time
}

// NewJob constructs a Job handler.
func NewJob(cfg JobConfig) *Job {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Job{
		registry: cfg.Registry,
		exporter: cfg.Exporter,
		store:    cfg.Store,
		logger:   logger,
		metrics:  cfg.Metrics,
		now:      time.Now,
	}
}

// Handle fulfils the asynq.HandlerFunc contract. It always reports success
// to the queue: the payload carries the user's bearer token, and asynq keeps
// failed tasks in its archive. Failures are logged, counted and, when the
// job is known, stored on the result the user polls.
func (j *Job) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil {
		return nil
	}
	started := time.Now()
	err := j.handle(ctx, task)
	if err != nil {
		j.logger.Error("report export failed", slog.Any("error", err))
	}
	_ = j.metrics.Observe(jobs.TaskReportExport, started, err)
	return nil
}

func (j *Job) handle(ctx context.Context, task *asynq.Task) error {
	if j.registry == nil || j.exporter == nil || j.store == nil {
		return errors.New("exports job not configured")
	}
	var payload jobs.ReportExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("exports: decode payload: %w", err)
	}
	if payload.JobID == "" {
		return errors.New("exports: payload without job id")
	}
	res, err := j.store.Load(ctx, payload.JobID)
	if err != nil {
		return fmt.Errorf("exports: load %s: %w", payload.JobID, err)
	}
	if res.Status != StatusPending {
		return nil
	}

	err = j.Run(ctx, &res, payload)
	if saveErr := j.store.Save(ctx, res); saveErr != nil {
		j.logger.Error("save export result", slog.String("job_id", res.ID), slog.Any("error", saveErr))
		if err == nil {
			err = saveErr
		}
	}
	j.metrics.AddExport(res.Resource, res.Format, res.Status)
	return err
}

// Run renders the export described by payload into res. A failure marks res
// failed with a message fit for the requesting user.
func (j *Job) Run(ctx context.Context, res *Result, payload jobs.ReportExportPayload) error {
	logger := j.logger.With(slog.String("job_id", res.ID), slog.String("resource", res.Resource), slog.String("format", res.Format))
	res.UpdatedAt = j.now().UTC()

	doc, err := j.registry.Build(ctx, payload.Resource, payload.Token, shared.FiltersFromValues(payload.Query()))
	if err != nil {
		logger.Warn("build export", slog.Any("error", err))
		res.Status = StatusFailed
		res.Error = shared.UserMessage(err)
		if errors.Is(err, ErrUnknownResource) {
			res.Error = "Unknown report"
		}
		return fmt.Errorf("exports: build %s: %w", payload.Resource, err)
	}
	if doc.GeneratedBy == "" {
		doc.GeneratedBy = payload.GeneratedBy
	}

	data, err := j.exporter.Render(ctx, payload.Format, doc)
	if err != nil {
		logger.Error("render export", slog.Any("error", err))
		res.Status = StatusFailed
		res.Error = "Failed to generate " + payload.Format + " report. Please try again."
		return err
	}

	res.Status = StatusReady
	res.Filename = doc.Filename(payload.Format)
	res.Data = data
	res.Error = ""
	logger.Info("export ready", slog.Int("bytes", len(data)))
	return nil
}
