package services

import (
	"context"

	"github.com/mrlokans/watchlist/internal/audit"
	"github.com/mrlokans/watchlist/internal/entities"
)

// MovieStore provides per-user watchlist persistence.
type MovieStore interface {
	ListMovies(ctx context.Context, userID uint) ([]entities.Movie, error)
	AddMovie(ctx context.Context, userID uint, candidate entities.MovieCandidate) (*entities.Movie, error)
	RemoveMovie(ctx context.Context, userID, movieID uint) error
	GetMovieByExternalID(ctx context.Context, userID uint, externalID string) (*entities.Movie, error)
}

// SnapshotStore reads and replaces the whole dataset.
// Replace must be all-or-nothing.
type SnapshotStore interface {
	Dump(ctx context.Context) (*entities.Snapshot, error)
	Replace(ctx context.Context, snap *entities.Snapshot) error
}

// ImportAuditor keeps a copy of an import document and the state it replaced.
type ImportAuditor interface {
	RecordImport(document []byte, previous *entities.Snapshot) (audit.ImportRecord, error)
}

// AddResult is the outcome of adding a movie. Created is false when the
// user already had the external id; Movie is then the existing row, if it
// could be read back.
type AddResult struct {
	Movie   *entities.Movie
	Created bool
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	UsersImported  int
	MoviesImported int
	UsersSkipped   int
	MoviesSkipped  int
	AuditID        string
}
