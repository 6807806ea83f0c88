// Package sportsdata fetches match metadata from the external sports API.
// The engine treats everything returned here as opaque strings used to
// populate signal fields; no validation or transformation happens beyond
// decoding.
package sportsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/config"
)

// Fixture is one scheduled match as reported by the sports API
type Fixture struct {
	ID          string    `json:"id"`
	League      string    `json:"league"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeLogoURL string    `json:"home_logo_url"`
	AwayLogoURL string    `json:"away_logo_url"`
	Kickoff     time.Time `json:"kickoff"`
}

// Client fetches fixtures with retries, rate limiting and a TTL cache
type Client struct {
	http    *RateLimitedHTTPClient
	cache   *cache.Cache
	baseURL string
	apiKey  string
}

// NewClient creates a fixtures client from configuration
func NewClient(cfg *config.SportsAPIConfig, logger *log.Logger) *Client {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RateLimit

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	return &Client{
		http:    NewRateLimitedHTTPClient(httpCfg, logger),
		cache:   cache.New(ttl, ttl*2),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// UpcomingFixtures returns scheduled fixtures for a league. Results are
// cached per league for the configured TTL so the admin panel's fixture
// picker does not hammer the upstream API.
func (c *Client) UpcomingFixtures(ctx context.Context, league string) ([]Fixture, error) {
	cacheKey := "fixtures:" + league
	if cached, found := c.cache.Get(cacheKey); found {
		if fixtures, ok := cached.([]Fixture); ok {
			return fixtures, nil
		}
	}

	endpoint := fmt.Sprintf("%s/v1/fixtures?league=%s&api_key=%s",
		c.baseURL, url.QueryEscape(league), url.QueryEscape(c.apiKey))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("sports API returned status %d", resp.StatusCode)
	}

	var fixtures []Fixture
	if err := json.NewDecoder(resp.Body).Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	c.cache.Set(cacheKey, fixtures, cache.DefaultExpiration)
	return fixtures, nil
}

// Close releases the underlying HTTP client resources
func (c *Client) Close() error {
	return c.http.Close()
}
