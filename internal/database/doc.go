// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, user seeding
//	├── errors.go        # Constraint violation helpers
//	├── users/           # User listing
//	├── movies/          # Per-user watchlist operations
//	└── snapshot/        # Whole-dataset dump and replace
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./watchlist.db")
//
//	// Create domain-specific repositories
//	moviesRepo := movies.NewRepository(db.DB)
//	snapshotRepo := snapshot.NewRepository(db.DB)
//
//	// Use repositories
//	list, err := moviesRepo.ListMovies(ctx, userID)
//	snap, err := snapshotRepo.Dump(ctx)
//
// # Interface Implementations
//
//   - users.Repository: implements http.UserLister
//   - movies.Repository: implements services.MovieStore
//   - snapshot.Repository: implements services.SnapshotStore
//
// # Foreign Keys
//
// SQLite enforces foreign keys only when asked to. NewDatabase opens every
// connection with _foreign_keys=on, so a movie can never reference a missing
// user and users with movies cannot be deleted out from under them.
package database
