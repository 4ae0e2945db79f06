package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/watchlist/internal/exporters"
)

// BackupWriter writes a snapshot backup file.
type BackupWriter interface {
	ExportBackup(ctx context.Context) (exporters.ExportResult, error)
}

// BackupSnapshotTask writes the full watchlist export to the backup directory.
type BackupSnapshotTask struct {
	// Trigger records who asked for the backup ("api", "schedule").
	Trigger string `json:"trigger"`
}

// Config returns the queue configuration for backup tasks.
func (t BackupSnapshotTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "backup_snapshot",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BackupSnapshotProcessor creates a processor function for BackupSnapshotTask.
func BackupSnapshotProcessor(writer BackupWriter) backlite.QueueProcessor[BackupSnapshotTask] {
	return func(ctx context.Context, task BackupSnapshotTask) error {
		if writer == nil {
			return fmt.Errorf("backup writer not configured")
		}

		result, err := writer.ExportBackup(ctx)
		if err != nil {
			return fmt.Errorf("backup snapshot: %w", err)
		}

		log.Printf("[TASK] Backup (%s) saved to %s, pruned %d old backups", task.Trigger, result.Path, result.Pruned)
		return nil
	}
}

// NewBackupSnapshotQueue creates a backlite queue for backup tasks.
func NewBackupSnapshotQueue(writer BackupWriter) backlite.Queue {
	return backlite.NewQueue(BackupSnapshotProcessor(writer))
}
