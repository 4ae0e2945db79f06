package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/watchlist/internal/metadata"
)

// SearchResponse wraps provider results.
type SearchResponse struct {
	Results []metadata.SearchResult `json:"results"`
}

// SearchController proxies title searches to the configured provider.
type SearchController struct {
	provider metadata.Provider
}

func NewSearchController(provider metadata.Provider) *SearchController {
	return &SearchController{provider: provider}
}

// Search handles GET /api/search?q=
// An empty query or a provider "not found" yields 200 with no results.
// A failed provider call yields 502.
func (sc *SearchController) Search(c *gin.Context) {
	results, err := sc.provider.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("Search via %s failed: %v", sc.provider.Name(), err)
		respondError(c, http.StatusBadGateway, "search provider unavailable")
		return
	}
	if results == nil {
		results = []metadata.SearchResult{}
	}
	c.JSON(http.StatusOK, SearchResponse{Results: results})
}
