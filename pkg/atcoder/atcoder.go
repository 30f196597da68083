// Package atcoder fetches AtCoder ratings from the contest history endpoint.
package atcoder

import (
	"context"
	"encoding/json"
	"errors"
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

const defaultBaseURL = "https://atcoder.jp"

// NoContestsColor is shown for accounts that never entered a rated contest.
const NoContestsColor = "#808080"

func init() {
	rating.RegisterFetcher(rating.AtCoder, func(ctx context.Context, handle string, cfg *rating.FetcherConfig) (*rating.Record, error) {
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

// Client handles AtCoder requests.
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

// WithBaseURL points the client at a different host.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// New creates an AtCoder client.
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

// contest is one row of /users/<handle>/history/json.
//
//nolint:govet // fieldalignment: struct ordering for JSON readability
type contest struct {
	IsRated     bool   `json:"IsRated"`
	Place       int    `json:"Place"`
	OldRating   int    `json:"OldRating"`
	NewRating   int    `json:"NewRating"`
	Performance int    `json:"Performance"`
	ContestName string `json:"ContestName"`
	EndTime     string `json:"EndTime"`
}

// Fetch retrieves the current rating for an AtCoder handle.
func (c *Client) Fetch(ctx context.Context, handle string) (*rating.Record, error) {
	if handle == "" {
		return nil, fmt.Errorf("atcoder: empty handle")
	}

	c.logger.InfoContext(ctx, "fetching atcoder rating", "handle", handle)

	historyURL := c.baseURL + "/users/" + url.PathEscape(handle) + "/history/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, historyURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", httpcache.UserAgent)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		var httpErr *httpcache.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("atcoder: %s: %w", handle, rating.ErrProfileNotFound)
		}
		return nil, err
	}

	var history []contest
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to parse atcoder history: %w", err)
	}

	return parseHistory(history), nil
}

func parseHistory(history []contest) *rating.Record {
	if len(history) == 0 {
		return &rating.Record{
			Platform:  rating.AtCoder,
			Value:     "-",
			Subtitle:  "No contests",
			Color:     NoContestsColor,
			Source:    "direct",
			FetchedAt: time.Now(),
		}
	}

	// Entries are chronological; unrated rows carry NewRating == OldRating.
	r := history[len(history)-1].NewRating
	color, label := rank.Resolve(rating.AtCoder, r)
	return &rating.Record{
		Platform:  rating.AtCoder,
		Rating:    r,
		Known:     true,
		Value:     strconv.Itoa(r),
		Subtitle:  label,
		Color:     color,
		Source:    "direct",
		FetchedAt: time.Now(),
	}
}
