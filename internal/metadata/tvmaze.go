package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultTVMazeBaseURL = "https://api.tvmaze.com"

// TVMazeClient searches shows on TVMaze. No API key is needed.
type TVMazeClient struct {
	fetch   *fetcher
	baseURL string
}

func newTVMazeClient(fetch *fetcher, baseURL string) *TVMazeClient {
	if baseURL == "" {
		baseURL = defaultTVMazeBaseURL
	}
	return &TVMazeClient{
		fetch:   fetch,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *TVMazeClient) Name() string {
	return ProviderTVMaze
}

// Search queries /search/shows. A 404 is treated as "no results".
func (c *TVMazeClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	results := []SearchResult{}
	if isBlankQuery(query) {
		return results, nil
	}

	searchURL := fmt.Sprintf("%s/search/shows?q=%s", c.baseURL, url.QueryEscape(strings.TrimSpace(query)))
	status, body, err := c.fetch.get(ctx, ProviderTVMaze, searchURL, http.StatusNotFound)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return results, nil
	}

	var items []tvmazeSearchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: tvmaze decode response: %w", ErrProvider, err)
	}

	for _, item := range items {
		if item.Show == nil || item.Show.ID == 0 {
			continue
		}
		results = append(results, c.convert(item.Show))
	}

	return results, nil
}

func (c *TVMazeClient) convert(show *tvmazeShow) SearchResult {
	result := SearchResult{
		ExternalID: strconv.FormatInt(show.ID, 10),
		Title:      show.Name,
		Year:       parseYear(show.Premiered),
		Category:   optionalString(show.Type),
	}

	if show.Image != nil {
		poster := show.Image.Original
		if strings.TrimSpace(poster) == "" {
			poster = show.Image.Medium
		}
		result.PosterURL = normalizePoster(poster)
	}

	return result
}

// TVMaze API response types (internal)

type tvmazeSearchItem struct {
	Score float64     `json:"score"`
	Show  *tvmazeShow `json:"show"`
}

type tvmazeShow struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Premiered string       `json:"premiered"`
	Image     *tvmazeImage `json:"image"`
}

type tvmazeImage struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}
