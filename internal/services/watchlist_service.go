package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/watchlist/internal/entities"
)

// ManualEntry is a title typed in by the user instead of picked from search.
type ManualEntry struct {
	Title     string  `json:"title"`
	Year      *int    `json:"year,omitempty"`
	PosterURL *string `json:"poster_url,omitempty"`
}

// WatchlistService handles adding, listing and removing watched titles.
type WatchlistService struct {
	movies MovieStore
	newID  func() string
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(movies MovieStore) *WatchlistService {
	return &WatchlistService{
		movies: movies,
		newID:  func() string { return uuid.New().String() },
	}
}

func (s *WatchlistService) List(ctx context.Context, userID uint) ([]entities.Movie, error) {
	return s.movies.ListMovies(ctx, userID)
}

// Add stores a search result for the user. A duplicate external id is not an
// error: the result reports Created=false. The manual id prefix is reserved
// for AddManual.
func (s *WatchlistService) Add(ctx context.Context, userID uint, candidate entities.MovieCandidate) (AddResult, error) {
	if entities.IsManualExternalID(candidate.ExternalID) {
		return AddResult{}, entities.NewValidationError("external_id", "uses the reserved "+entities.ManualExternalIDPrefix+" prefix")
	}
	return s.add(ctx, userID, candidate)
}

func (s *WatchlistService) add(ctx context.Context, userID uint, candidate entities.MovieCandidate) (AddResult, error) {
	movie, err := s.movies.AddMovie(ctx, userID, candidate)
	if err == nil {
		return AddResult{Movie: movie, Created: true}, nil
	}
	if !errors.Is(err, entities.ErrAlreadyExists) {
		return AddResult{}, err
	}

	existing, lookupErr := s.movies.GetMovieByExternalID(ctx, userID, strings.TrimSpace(candidate.ExternalID))
	if lookupErr != nil {
		log.Printf("Failed to load existing movie %q for user %d: %v", candidate.ExternalID, userID, lookupErr)
		return AddResult{Created: false}, nil
	}
	return AddResult{Movie: existing, Created: false}, nil
}

// AddManual stores a hand-entered title under a generated external id.
// Generated ids carry entities.ManualExternalIDPrefix and cannot collide
// with provider identifiers.
func (s *WatchlistService) AddManual(ctx context.Context, userID uint, entry ManualEntry) (AddResult, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return AddResult{}, entities.NewValidationError("title", "is required")
	}

	category := entities.CategoryManual
	return s.add(ctx, userID, entities.MovieCandidate{
		ExternalID: entities.ManualExternalIDPrefix + s.newID(),
		Title:      entry.Title,
		PosterURL:  entry.PosterURL,
		Year:       entry.Year,
		Category:   &category,
	})
}

func (s *WatchlistService) Remove(ctx context.Context, userID, movieID uint) error {
	return s.movies.RemoveMovie(ctx, userID, movieID)
}
