package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/watchlist/internal/entities"
	"github.com/mrlokans/watchlist/internal/services"
)

// MoviesController manages a user's watched titles.
type MoviesController struct {
	watchlist WatchlistManager
}

func NewMoviesController(watchlist WatchlistManager) *MoviesController {
	return &MoviesController{watchlist: watchlist}
}

// externalID accepts both "123" and 123; TVMaze ids are numeric.
type externalID string

func (e *externalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = externalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("external_id must be a string or number")
	}
	*e = externalID(n.String())
	return nil
}

// AddMovieRequest is the body of POST /api/users/:id/movies.
type AddMovieRequest struct {
	ExternalID externalID `json:"external_id"`
	Title      string     `json:"title"`
	PosterURL  *string    `json:"poster_url"`
	Year       *int       `json:"year"`
	Category   *string    `json:"category"`
}

// AddMovieResponse is returned when the movie was already on the list.
type AddMovieResponse struct {
	Status string          `json:"status"`
	Movie  *entities.Movie `json:"movie,omitempty"`
}

// ListMovies handles GET /api/users/:id/movies
// Movies are returned newest first.
func (mc *MoviesController) ListMovies(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	movies, err := mc.watchlist.List(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "list movies")
		return
	}
	c.JSON(http.StatusOK, movies)
}

// AddMovie handles POST /api/users/:id/movies
// Responds 201 with the stored movie, or 200 {"status": "exists"} when the
// user already has this external id.
func (mc *MoviesController) AddMovie(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := mc.watchlist.Add(c.Request.Context(), userID, entities.MovieCandidate{
		ExternalID: string(req.ExternalID),
		Title:      req.Title,
		PosterURL:  req.PosterURL,
		Year:       req.Year,
		Category:   req.Category,
	})
	if err != nil {
		respondStoreError(c, err, "user", "add movie")
		return
	}

	mc.respondAddResult(c, result)
}

// AddManualMovie handles POST /api/users/:id/movies/manual
// The server generates the external id.
func (mc *MoviesController) AddManualMovie(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var entry services.ManualEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := mc.watchlist.AddManual(c.Request.Context(), userID, entry)
	if err != nil {
		respondStoreError(c, err, "user", "add manual movie")
		return
	}

	mc.respondAddResult(c, result)
}

// RemoveMovie handles DELETE /api/users/:id/movies/:movieId
// Only the owner's movie can be removed.
func (mc *MoviesController) RemoveMovie(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	movieID, ok := parseIDParam(c, "movieId")
	if !ok {
		return
	}

	if err := mc.watchlist.Remove(c.Request.Context(), userID, movieID); err != nil {
		respondStoreError(c, err, "movie", "remove movie")
		return
	}
	respondStatus(c, "deleted")
}

func (mc *MoviesController) respondAddResult(c *gin.Context, result services.AddResult) {
	if result.Created {
		respondCreated(c, result.Movie)
		return
	}
	c.JSON(http.StatusOK, AddMovieResponse{Status: "exists", Movie: result.Movie})
}
