package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/watchlist/internal/tasks"
)

func TestCreateBackup(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(http.MethodPost, "/api/backups", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"task_id":"task-1"`)
	require.Len(t, srv.queue.enqueued, 1)
	task, ok := srv.queue.enqueued[0].(tasks.BackupSnapshotTask)
	require.True(t, ok)
	assert.Equal(t, "api", task.Trigger)
}

func TestCreateBackup_QueueFailure(t *testing.T) {
	srv := setupTestServer(t)
	srv.queue.err = errors.New("queue closed")

	w := srv.do(http.MethodPost, "/api/backups", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetTaskStatus(t *testing.T) {
	srv := setupTestServer(t)
	srv.queue.statuses["task-1"] = backlite.TaskStatusRunning

	w := srv.do(http.MethodGet, "/api/tasks/task-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"task-1","status":"running"}`, w.Body.String())

	w = srv.do(http.MethodGet, "/api/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskStatusToString(t *testing.T) {
	tests := []struct {
		status   backlite.TaskStatus
		expected string
	}{
		{backlite.TaskStatusPending, "pending"},
		{backlite.TaskStatusRunning, "running"},
		{backlite.TaskStatusSuccess, "success"},
		{backlite.TaskStatusFailure, "failure"},
		{backlite.TaskStatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, taskStatusToString(tt.status))
		})
	}
}
