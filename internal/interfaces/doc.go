// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - MovieStore: per-user watchlist persistence (internal/services/interfaces.go)
//   - SnapshotStore: whole-dataset dump and all-or-nothing replace (internal/services/interfaces.go)
//   - UserLister: read access to users (internal/http/stores.go)
//   - Pinger: database health (internal/http/stores.go)
//
// ## Service Interfaces
//
//   - WatchlistManager: add, list and remove titles (internal/http/stores.go)
//   - SnapshotManager: export and import (internal/http/stores.go)
//   - ImportAuditor: keeps copies of import documents (internal/services/interfaces.go)
//
// ## External Services
//
//   - Provider: title search against TVMaze or OMDb (internal/metadata/provider.go)
//
// ## Background Work
//
//   - TaskQueue / Enqueuer: backlite task queue (internal/http/stores.go, internal/scheduler)
//   - BackupWriter, AuditPruner: task dependencies (internal/tasks)
//   - MaintenanceRunner: lists and triggers scheduled jobs (internal/http/stores.go)
//
// # Adding a New Search Provider
//
//  1. Implement Provider in internal/metadata/, reusing the shared fetcher
//     for retries and status handling:
//
//     type TMDbClient struct {
//         fetch   *fetcher
//         baseURL string
//         apiKey  string
//     }
//
//     func (c *TMDbClient) Name() string
//     func (c *TMDbClient) Search(ctx context.Context, query string) ([]SearchResult, error)
//
//  2. Add a case to NewProvider and a SEARCH_PROVIDER value in config.
//
// # Adding a Maintenance Job
//
//  1. Define a backlite task and processor in internal/tasks/.
//  2. Register its queue in entrypoint.Run.
//  3. Schedule it in newMaintenanceScheduler.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
