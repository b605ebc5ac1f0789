package jobs

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault carries housekeeping tasks such as the backend probe.
	QueueDefault = "default"
	// QueueReports carries user-requested exports.
	QueueReports = "reports"
	// TaskReportExport renders a list export in the background.
	TaskReportExport = "report:export"
	// TaskBackendPing probes the pharmacy backend on a schedule.
	TaskBackendPing = "backend:ping"
)

// ReportExportPayload describes one queued export. Token is the requesting
// user's bearer token and lives only as long as the task.
type ReportExportPayload struct {
	JobID       string            `json:"job_id"`
	SessionID   string            `json:"session_id"`
	Resource    string            `json:"resource"`
	Format      string            `json:"format"`
	Filters     map[string]string `json:"filters,omitempty"`
	Token       string            `json:"token"`
	GeneratedBy string            `json:"generated_by,omitempty"`
}

// Query returns the filters as url.Values.
func (p ReportExportPayload) Query() url.Values {
	q := url.Values{}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	return q
}

// NewReportExportTask constructs the asynq task for payload. Exports are not
// retried; a failed export is reported to the user who may request it again.
// The payload holds a bearer token, so finished tasks are not retained.
func NewReportExportTask(payload ReportExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, data, asynq.Queue(QueueReports), asynq.MaxRetry(0), asynq.Retention(0), asynq.Timeout(2*time.Minute)), nil
}

// BackendPingPayload carries scheduling metadata.
type BackendPingPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewBackendPingTask constructs the periodic backend probe.
func NewBackendPingTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(BackendPingPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBackendPing, body, asynq.Queue(QueueDefault)), nil
}
