package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const defaultOMDbBaseURL = "https://www.omdbapi.com"

// omdbEmptyErrors are "Response": "False" messages that mean the search
// succeeded without results.
var omdbEmptyErrors = []string{
	"movie not found",
	"series not found",
	"too many results",
}

// OMDbClient searches movies and series on the OMDb API.
type OMDbClient struct {
	fetch   *fetcher
	baseURL string
	apiKey  string
}

func newOMDbClient(fetch *fetcher, baseURL, apiKey string) *OMDbClient {
	if baseURL == "" {
		baseURL = defaultOMDbBaseURL
	}
	return &OMDbClient{
		fetch:   fetch,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *OMDbClient) Name() string {
	return ProviderOMDb
}

// Search queries OMDb's title search. OMDb answers 200 even when nothing
// matches, signalling it with Response "False".
func (c *OMDbClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	results := []SearchResult{}
	if isBlankQuery(query) {
		return results, nil
	}

	params := url.Values{}
	params.Set("s", strings.TrimSpace(query))
	params.Set("apikey", c.apiKey)
	searchURL := c.baseURL + "/?" + params.Encode()

	_, body, err := c.fetch.get(ctx, ProviderOMDb, searchURL)
	if err != nil {
		return nil, err
	}

	var resp omdbSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: omdb decode response: %w", ErrProvider, err)
	}

	if !strings.EqualFold(resp.Response, "true") {
		if isOMDbEmpty(resp.Error) {
			return results, nil
		}
		return nil, fmt.Errorf("%w: omdb: %s", ErrProvider, resp.Error)
	}

	for _, item := range resp.Search {
		if strings.TrimSpace(item.IMDbID) == "" {
			continue
		}
		results = append(results, SearchResult{
			ExternalID: item.IMDbID,
			Title:      item.Title,
			Year:       parseYear(item.Year),
			PosterURL:  normalizePoster(item.Poster),
			Category:   optionalString(item.Type),
		})
	}

	return results, nil
}

func isOMDbEmpty(message string) bool {
	message = strings.ToLower(message)
	for _, empty := range omdbEmptyErrors {
		if strings.Contains(message, empty) {
			return true
		}
	}
	return false
}

// OMDb API response types (internal)

type omdbSearchResponse struct {
	Search       []omdbSearchItem `json:"Search"`
	TotalResults string           `json:"totalResults"`
	Response     string           `json:"Response"`
	Error        string           `json:"Error"`
}

type omdbSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}
