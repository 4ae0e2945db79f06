package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SearchResult is the provider-agnostic shape of one title returned by a search.
type SearchResult struct {
	ExternalID string  `json:"external_id"`
	Title      string  `json:"title"`
	Year       *int    `json:"year"`
	PosterURL  *string `json:"poster_url"`
	Category   *string `json:"category"`
}

// Provider searches a third-party title catalogue.
//
// A nil error with an empty slice means the provider answered and found
// nothing. A non-nil error (matching ErrProvider) means the search failed.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// ErrProvider marks transport, HTTP and decoding failures of a provider call.
var ErrProvider = errors.New("metadata provider failure")

// StatusError is a non-2xx response from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrProvider
}

// Provider names accepted by NewProvider.
const (
	ProviderTVMaze = "tvmaze"
	ProviderOMDb   = "omdb"
)

// Options configures the providers built by NewProvider.
type Options struct {
	Name          string
	TVMazeBaseURL string
	OMDbBaseURL   string
	OMDbAPIKey    string
	Timeout       time.Duration
	RetryAttempts uint
}

// NewProvider builds the provider selected by opts.Name.
func NewProvider(opts Options) (Provider, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	fetch := newFetcher(httpClient, opts.RetryAttempts)

	switch strings.ToLower(strings.TrimSpace(opts.Name)) {
	case "", ProviderTVMaze:
		return newTVMazeClient(fetch, opts.TVMazeBaseURL), nil
	case ProviderOMDb:
		if opts.OMDbAPIKey == "" {
			return nil, fmt.Errorf("omdb provider requires an API key")
		}
		return newOMDbClient(fetch, opts.OMDbBaseURL, opts.OMDbAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", opts.Name)
	}
}
