// Package codechef fetches CodeChef ratings through the public codechef-api wrapper.
package codechef

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/httpcache"
	"github.com/codeGROOVE-dev/cpratings/pkg/rank"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

const defaultBaseURL = "https://codechef-api.vercel.app"

func init() {
	rating.RegisterFetcher(rating.CodeChef, func(ctx context.Context, handle string, cfg *rating.FetcherConfig) (*rating.Record, error) {
		var opts []Option
		if c, ok := cfg.Cache.(httpcache.Cacher); ok && c != nil {
			opts = append(opts, WithHTTPCache(c))
		}
		if cfg.Logger != nil {
			opts = append(opts, WithLogger(cfg.Logger))
		}
		client, err := New(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return client.Fetch(ctx, handle)
	})
}

// Client handles CodeChef requests.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	baseURL    string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache   httpcache.Cacher
	logger  *slog.Logger
	baseURL string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL points the client at a different wrapper host.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// New creates a CodeChef client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		baseURL:    cfg.baseURL,
	}, nil
}

//nolint:govet // fieldalignment: struct ordering for JSON readability
type apiResponse struct {
	Success       bool   `json:"success"`
	Name          string `json:"name"`
	CurrentRating int    `json:"currentRating"`
	HighestRating int    `json:"highestRating"`
	GlobalRank    int    `json:"globalRank"`
	CountryRank   int    `json:"countryRank"`
	Stars         string `json:"stars"`
}

// Fetch retrieves the current rating for a CodeChef handle.
func (c *Client) Fetch(ctx context.Context, handle string) (*rating.Record, error) {
	if handle == "" {
		return nil, fmt.Errorf("codechef: empty handle")
	}

	c.logger.InfoContext(ctx, "fetching codechef rating", "handle", handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/handle/"+url.PathEscape(handle), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", httpcache.UserAgent)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse codechef response: %w", err)
	}

	if resp.CurrentRating <= 0 {
		return nil, fmt.Errorf("codechef: currentRating absent for %s: %w", handle, rating.ErrFieldMissing)
	}

	color, label := rank.Resolve(rating.CodeChef, resp.CurrentRating)
	return &rating.Record{
		Platform:  rating.CodeChef,
		Rating:    resp.CurrentRating,
		Known:     true,
		Value:     strconv.Itoa(resp.CurrentRating),
		Subtitle:  label,
		Color:     color,
		Source:    "direct",
		FetchedAt: time.Now(),
	}, nil
}
