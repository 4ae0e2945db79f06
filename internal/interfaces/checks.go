package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/watchlist/internal/audit"
	"github.com/mrlokans/watchlist/internal/database"
	"github.com/mrlokans/watchlist/internal/database/movies"
	"github.com/mrlokans/watchlist/internal/database/snapshot"
	"github.com/mrlokans/watchlist/internal/database/users"
	"github.com/mrlokans/watchlist/internal/exporters"
	"github.com/mrlokans/watchlist/internal/http"
	"github.com/mrlokans/watchlist/internal/scheduler"
	"github.com/mrlokans/watchlist/internal/services"
	"github.com/mrlokans/watchlist/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// MovieStore implementations
var _ services.MovieStore = (*movies.Repository)(nil)

// SnapshotStore implementations
var _ services.SnapshotStore = (*snapshot.Repository)(nil)

// UserLister implementations
var _ http.UserLister = (*users.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.WatchlistManager = (*services.WatchlistService)(nil)
var _ http.SnapshotManager = (*services.SnapshotService)(nil)
var _ exporters.SnapshotSource = (*services.SnapshotService)(nil)

// ImportAuditor implementations
var _ services.ImportAuditor = (*audit.Auditor)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.MaintenanceRunner = (*scheduler.MaintenanceScheduler)(nil)
var _ tasks.BackupWriter = (*exporters.JSONExporter)(nil)
var _ tasks.AuditPruner = (*audit.Auditor)(nil)
