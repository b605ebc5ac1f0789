package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/jobs"
)

func TestTaskForBackendPing(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	task, err := TaskFor(jobs.TaskBackendPing, at)
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskBackendPing, task.Type())

	var payload jobs.BackendPingPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.True(t, payload.ScheduledFor.Equal(at))
}

func TestTaskForUnknown(t *testing.T) {
	_, err := TaskFor(jobs.TaskReportExport, time.Now())
	assert.Error(t, err)
}

func TestFormatStats(t *testing.T) {
	out := FormatStats([]jobs.QueueStats{
		{Queue: jobs.QueueReports, Pending: 2, Failed: 1},
		{Queue: jobs.QueueDefault},
	})
	assert.Equal(t, "queue=reports pending=2 active=0 scheduled=0 retry=0 failed=1\n"+
		"queue=default pending=0 active=0 scheduled=0 retry=0 failed=0\n", out)
}
