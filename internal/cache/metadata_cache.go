package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/cinecircle/cinecircle-backend/internal/tmdb"
	"github.com/vmihailenco/msgpack/v5"
)

// MetadataTTL mirrors how long TMDB answers stay fresh enough to reuse.
const MetadataTTL = time.Hour

// MetadataCache handles caching of TMDB responses. All methods are
// nil-safe so the app degrades gracefully when Redis is unavailable.
type MetadataCache struct {
	redis *RedisCache
}

// NewMetadataCache creates a new metadata cache
func NewMetadataCache(redis *RedisCache) *MetadataCache {
	return &MetadataCache{redis: redis}
}

func searchKey(query string, page int) string {
	return fmt.Sprintf("tmdb:search:%d:%s", page, strings.ToLower(strings.TrimSpace(query)))
}

func providersKey(movieID int64, region string) string {
	return fmt.Sprintf("tmdb:providers:%d:%s", movieID, region)
}

// GetSearch retrieves cached search results
func (mc *MetadataCache) GetSearch(query string, page int) (*tmdb.SearchResponse, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(searchKey(query, page))
	if err != nil || data == nil {
		return nil, false
	}

	var resp tmdb.SearchResponse
	if err := msgpack.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// SetSearch caches search results
func (mc *MetadataCache) SetSearch(query string, page int, resp *tmdb.SearchResponse) error {
	if mc == nil || mc.redis == nil || resp == nil {
		return nil
	}
	data, err := msgpack.Marshal(resp)
	if err != nil {
		return err
	}
	return mc.redis.Set(searchKey(query, page), data, MetadataTTL)
}

// GetProviders retrieves cached watch providers for a movie and region
func (mc *MetadataCache) GetProviders(movieID int64, region string) (*tmdb.WatchProviders, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(providersKey(movieID, region))
	if err != nil || data == nil {
		return nil, false
	}

	var providers tmdb.WatchProviders
	if err := msgpack.Unmarshal(data, &providers); err != nil {
		return nil, false
	}
	return &providers, true
}

// SetProviders caches watch providers for a movie and region
func (mc *MetadataCache) SetProviders(movieID int64, region string, providers *tmdb.WatchProviders) error {
	if mc == nil || mc.redis == nil || providers == nil {
		return nil
	}
	data, err := msgpack.Marshal(providers)
	if err != nil {
		return err
	}
	return mc.redis.Set(providersKey(movieID, region), data, MetadataTTL)
}
