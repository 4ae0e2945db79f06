package http

import (
	"github.com/mrlokans/watchlist/internal/metadata"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Users     UserLister
	Watchlist WatchlistManager
	Snapshots SnapshotManager
	Search    metadata.Provider

	// Health checks; nil reports the database as "not configured"
	Database Pinger

	// Task queue (optional). Without it the backup endpoints are not registered.
	TaskQueue TaskQueue

	// Maintenance jobs (optional). Without it /api/maintenance is not registered.
	Maintenance MaintenanceRunner

	// Application info
	Version string
}
