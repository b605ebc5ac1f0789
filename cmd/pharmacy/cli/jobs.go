// Package cli holds operator helpers run from the pharmacy binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pharmacare/pharmacy-web/internal/platform/cache"
	"github.com/pharmacare/pharmacy-web/jobs"
)

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	now       func() time.Time
}

// NewJobsCLI connects the queue helpers to the Redis instance behind the worker.
func NewJobsCLI(redis cache.Options) *JobsCLI {
	opts := redis.Asynq()
	return &JobsCLI{client: asynq.NewClient(opts), inspector: asynq.NewInspector(opts), now: time.Now}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a supported job by name with default payload. Report
// exports need a user token and are only queued from the web UI.
func (c *JobsCLI) Trigger(ctx context.Context, name string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	task, err := TaskFor(name, c.now())
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.MaxRetry(0))
}

// TaskFor builds the task named by name.
func TaskFor(name string, at time.Time) (*asynq.Task, error) {
	switch name {
	case jobs.TaskBackendPing:
		return jobs.NewBackendPingTask(at)
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
}

// InspectQueues reports the counters of every worker queue.
func (c *JobsCLI) InspectQueues(ctx context.Context) ([]jobs.QueueStats, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	return jobs.Inspect(c.inspector)
}

// FormatStats renders one queue per line.
func FormatStats(stats []jobs.QueueStats) string {
	var b strings.Builder
	for _, s := range stats {
		fmt.Fprintf(&b, "queue=%s pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
			s.Queue, s.Pending, s.Active, s.Scheduled, s.Retry, s.Failed)
	}
	return b.String()
}
