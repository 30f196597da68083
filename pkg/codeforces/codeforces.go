// Package codeforces fetches Codeforces contest ratings.
package codeforces

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

const defaultBaseURL = "https://codeforces.com"

func init() {
	rating.RegisterFetcher(rating.Codeforces, func(ctx context.Context, handle string, cfg *rating.FetcherConfig) (*rating.Record, error) {
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

// Client handles Codeforces requests.
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

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// New creates a Codeforces client.
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

type apiResponse struct {
	Status  string    `json:"status"`
	Comment string    `json:"comment"`
	Result  []apiUser `json:"result"`
}

type apiUser struct {
	Handle    string `json:"handle"`
	Rank      string `json:"rank"`
	Rating    int    `json:"rating"`
	MaxRating int    `json:"maxRating"`
}

// Fetch retrieves the current rating for a Codeforces handle.
func (c *Client) Fetch(ctx context.Context, handle string) (*rating.Record, error) {
	if handle == "" {
		return nil, fmt.Errorf("codeforces: empty handle")
	}

	c.logger.InfoContext(ctx, "fetching codeforces rating", "handle", handle)

	apiURL := c.baseURL + "/api/user.info?handles=" + url.QueryEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse codeforces response: %w", err)
	}

	if resp.Status != "OK" || len(resp.Result) == 0 {
		if resp.Comment != "" {
			return nil, fmt.Errorf("codeforces: %s: %w", resp.Comment, rating.ErrProfileNotFound)
		}
		return nil, rating.ErrProfileNotFound
	}

	return parseRecord(&resp.Result[0]), nil
}

func parseRecord(u *apiUser) *rating.Record {
	color, label := rank.Resolve(rating.Codeforces, u.Rating)
	r := &rating.Record{
		Platform:  rating.Codeforces,
		Rating:    u.Rating,
		Known:     u.Rating > 0,
		Subtitle:  label,
		Color:     color,
		Source:    "direct",
		FetchedAt: time.Now(),
	}
	if r.Known {
		r.Value = strconv.Itoa(u.Rating)
	} else {
		// Unrated accounts report 0.
		r.Value = "Unrated"
	}
	return r
}
