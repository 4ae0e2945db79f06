package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/watchlist/internal/entities"
	"github.com/mrlokans/watchlist/internal/scheduler"
	"github.com/mrlokans/watchlist/internal/services"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller takes only the one it needs.

// UserLister provides read access to users.
type UserLister interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
}

// WatchlistManager adds, lists and removes a user's watched titles.
type WatchlistManager interface {
	List(ctx context.Context, userID uint) ([]entities.Movie, error)
	Add(ctx context.Context, userID uint, candidate entities.MovieCandidate) (services.AddResult, error)
	AddManual(ctx context.Context, userID uint, entry services.ManualEntry) (services.AddResult, error)
	Remove(ctx context.Context, userID, movieID uint) error
}

// SnapshotManager exports and imports the whole dataset.
type SnapshotManager interface {
	ExportAll(ctx context.Context) (*entities.Snapshot, error)
	ImportAll(ctx context.Context, document []byte) (services.ImportResult, error)
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// MaintenanceRunner lists scheduled maintenance jobs and triggers them on demand.
type MaintenanceRunner interface {
	Jobs() []scheduler.JobInfo
	RunNow(name string) (string, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
