// Package geeksforgeeks fetches GeeksforGeeks coding scores.
package geeksforgeeks

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

const defaultBaseURL = "https://authapi.geeksforgeeks.org"

func init() {
	rating.RegisterFetcher(rating.GeeksforGeeks, func(ctx context.Context, handle string, cfg *rating.FetcherConfig) (*rating.Record, error) {
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

// Client handles GeeksforGeeks requests.
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

// New creates a GeeksforGeeks client.
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
type apiUser struct {
	UserName            string `json:"userName"`
	Institute           string `json:"institute"`
	CodingScore         int    `json:"codingScore"`
	TotalProblemsSolved int    `json:"totalProblemsSolved"`
	MonthlyCodingScore  int    `json:"monthlyCodingScore"`
}

// apiResponse covers both the enveloped ({"data": {...}}) and flat shapes the endpoint has served.
type apiResponse struct {
	Data *apiUser `json:"data"`
	apiUser
}

// Fetch retrieves the coding score for a GeeksforGeeks handle.
func (c *Client) Fetch(ctx context.Context, handle string) (*rating.Record, error) {
	if handle == "" {
		return nil, fmt.Errorf("geeksforgeeks: empty handle")
	}

	c.logger.InfoContext(ctx, "fetching geeksforgeeks score", "handle", handle)

	apiURL := c.baseURL + "/api-get/user-profile-info/?handle=" + url.QueryEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
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
		return nil, fmt.Errorf("failed to parse geeksforgeeks response: %w", err)
	}

	user := &resp.apiUser
	if resp.Data != nil {
		user = resp.Data
	}
	if user.UserName == "" {
		return nil, fmt.Errorf("geeksforgeeks: %s: %w", handle, rating.ErrProfileNotFound)
	}

	return parseRecord(user), nil
}

func parseRecord(u *apiUser) *rating.Record {
	subtitle := "coding score"
	if u.TotalProblemsSolved > 0 {
		subtitle = strconv.Itoa(u.TotalProblemsSolved) + " problems solved"
	}
	return &rating.Record{
		Platform:  rating.GeeksforGeeks,
		Rating:    u.CodingScore,
		Known:     true,
		Value:     strconv.Itoa(u.CodingScore),
		Subtitle:  subtitle,
		Color:     rank.DefaultColor,
		Source:    "direct",
		FetchedAt: time.Now(),
	}
}
