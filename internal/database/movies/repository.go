// Package movies provides database operations for per-user watched titles.
//
// This package implements the MovieStore interface defined in internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.MovieStore = (*Repository)(nil)
//
// # Usage
//
//	repo := movies.NewRepository(db)
//	movie, err := repo.AddMovie(ctx, userID, candidate)
//	if errors.Is(err, entities.ErrAlreadyExists) { ... }
package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/watchlist/internal/database"
	"github.com/mrlokans/watchlist/internal/database/users"
	"github.com/mrlokans/watchlist/internal/entities"
)

// Repository handles all movie database operations.
type Repository struct {
	db    *gorm.DB
	users *users.Repository
	now   func() time.Time
}

// NewRepository creates a new movies repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, users: users.NewRepository(db), now: time.Now}
}

// ListMovies returns the user's movies, most recently added first.
// An unknown user simply has no movies.
func (r *Repository) ListMovies(ctx context.Context, userID uint) ([]entities.Movie, error) {
	movies := []entities.Movie{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC, id DESC").
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list movies: %w", entities.ErrPersistence, err)
	}
	return movies, nil
}

// AddMovie inserts the candidate for the user and returns the stored row.
//
// The (user_id, external_id) unique index decides duplicates: a second add
// of the same external id fails the insert and is reported as
// entities.ErrAlreadyExists, never as a second row.
func (r *Repository) AddMovie(ctx context.Context, userID uint, candidate entities.MovieCandidate) (*entities.Movie, error) {
	externalID := strings.TrimSpace(candidate.ExternalID)
	title := strings.TrimSpace(candidate.Title)
	if externalID == "" {
		return nil, entities.NewValidationError("external_id", "is required")
	}
	if title == "" {
		return nil, entities.NewValidationError("title", "is required")
	}

	// ErrNotFound for unknown users, ErrPersistence otherwise
	if _, err := r.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	movie := &entities.Movie{
		UserID:     userID,
		ExternalID: externalID,
		Title:      title,
		PosterURL:  blankToNil(candidate.PosterURL),
		Year:       candidate.Year,
		Category:   blankToNil(candidate.Category),
		AddedAt:    r.now().UTC(),
	}

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(movie).Error
	switch {
	case err == nil:
		return movie, nil
	case database.IsUniqueViolation(err):
		return nil, fmt.Errorf("movie %q for user %d: %w", externalID, userID, entities.ErrAlreadyExists)
	case database.IsForeignKeyViolation(err):
		// The user disappeared between the check and the insert (concurrent import).
		return nil, fmt.Errorf("user %d: %w", userID, entities.ErrNotFound)
	default:
		return nil, fmt.Errorf("%w: add movie: %w", entities.ErrPersistence, err)
	}
}

// RemoveMovie deletes the movie only when it belongs to the given user.
func (r *Repository) RemoveMovie(ctx context.Context, userID, movieID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", movieID, userID).
		Delete(&entities.Movie{})
	if result.Error != nil {
		return fmt.Errorf("%w: remove movie: %w", entities.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("movie %d for user %d: %w", movieID, userID, entities.ErrNotFound)
	}
	return nil
}

// GetMovieByExternalID looks up a user's movie by its external identifier.
func (r *Repository) GetMovieByExternalID(ctx context.Context, userID uint, externalID string) (*entities.Movie, error) {
	var movie entities.Movie
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND external_id = ?", userID, externalID).
		First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("movie %q for user %d: %w", externalID, userID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get movie: %w", entities.ErrPersistence, err)
	}
	return &movie, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
