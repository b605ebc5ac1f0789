package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/pharmacare/pharmacy-web/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Pinger is satisfied by apiclient.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendPingJob records whether the pharmacy backend answers its public
// health endpoint.
type BackendPingJob struct {
	Backend Pinger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewBackendPingJob wires dependencies for the ping handler.
func NewBackendPingJob(backend Pinger, logger *slog.Logger, metrics *jobmetrics.Metrics) *BackendPingJob {
	return &BackendPingJob{Backend: backend, Logger: logger, Metrics: metrics}
}

// Handle processes TaskBackendPing tasks.
func (j *BackendPingJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Backend == nil {
		return errors.New("backend ping: handler not configured")
	}
	var payload BackendPingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	started := time.Now()
	err := j.Backend.Ping(ctx)
	j.metrics().SetBackendUp(err == nil)
	if err != nil {
		j.logger().Warn("backend unreachable", slog.Any("error", err))
	}
	return j.metrics().Observe(TaskBackendPing, started, err)
}

func (j *BackendPingJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *BackendPingJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
