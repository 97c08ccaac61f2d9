// Package tmdb is a thin client for The Movie Database API. The client is
// constructed from explicit configuration and injected wherever metadata
// is needed; every request is bounded by the HTTP client timeout.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	DefaultRegion  = "US"

	imageBaseURL = "https://image.tmdb.org/t/p"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func LoadConfigFromEnv() (Config, error) {
	apiKey := os.Getenv("TMDB_API_KEY")
	if apiKey == "" {
		return Config{}, errors.New("TMDB_API_KEY is required")
	}
	baseURL := os.Getenv("TMDB_API_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := 5 * time.Second
	if s := os.Getenv("TMDB_TIMEOUT_SECONDS"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	return Config{APIKey: apiKey, BaseURL: baseURL, Timeout: timeout}, nil
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
}

type SearchResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type WatchProvider struct {
	DisplayPriority int    `json:"display_priority"`
	LogoPath        string `json:"logo_path"`
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
}

type WatchProviders struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

type watchProvidersResponse struct {
	Results map[string]WatchProviders `json:"results"`
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var resp SearchResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WatchProviders returns the providers for one region, or nil when TMDB
// has no data there. Callers treat any error as "no provider data".
func (c *Client) WatchProviders(ctx context.Context, movieID int64, region string) (*WatchProviders, error) {
	if region == "" {
		region = DefaultRegion
	}
	var resp watchProvidersResponse
	path := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	providers, ok := resp.Results[region]
	if !ok {
		return nil, nil
	}
	return &providers, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + size + path
}

func PosterURL(path string) string {
	return ImageURL(path, "w500")
}

func BackdropURL(path string) string {
	return ImageURL(path, "original")
}
