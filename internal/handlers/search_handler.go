package handlers

import (
	"log/slog"
	"strconv"

	"github.com/cinecircle/cinecircle-backend/internal/cache"
	"github.com/cinecircle/cinecircle-backend/internal/httpx"
	"github.com/cinecircle/cinecircle-backend/internal/tmdb"
	"github.com/gofiber/fiber/v2"
)

// SearchHandler fronts TMDB title search, with a best-effort Redis cache
// so repeated queries don't hammer the provider.
type SearchHandler struct {
	tmdbClient *tmdb.Client
	metaCache  *cache.MetadataCache
}

func NewSearchHandler(tmdbClient *tmdb.Client, metaCache *cache.MetadataCache) *SearchHandler {
	return &SearchHandler{tmdbClient: tmdbClient, metaCache: metaCache}
}

func (h *SearchHandler) SearchMovies(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return httpx.BadRequest(c, "missing_query", "Query parameter is required")
	}
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}

	if cached, ok := h.metaCache.GetSearch(query, page); ok {
		return c.JSON(cached)
	}

	if h.tmdbClient == nil {
		return httpx.Error(c, fiber.StatusServiceUnavailable, "search_unavailable", "Movie search is not configured")
	}

	results, err := h.tmdbClient.SearchMovies(c.Context(), query, page)
	if err != nil {
		slog.Error("tmdb search failed", "query", query, "error", err)
		return httpx.Error(c, fiber.StatusBadGateway, "search_failed", "Failed to search movies")
	}

	_ = h.metaCache.SetSearch(query, page, results)
	return c.JSON(results)
}
