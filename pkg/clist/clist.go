// Package clist reads every tracked rating from a single clist.by coder page.
package clist

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/htmlutil"
	"github.com/codeGROOVE-dev/cpratings/pkg/proxy"
	"github.com/codeGROOVE-dev/cpratings/pkg/rank"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/codeGROOVE-dev/cpratings/pkg/scrape"
)

// DefaultUser is the coder page read when none is configured.
const DefaultUser = "raiseIQUnderflow"

const defaultBaseURL = "https://clist.by"

// Client scrapes a clist.by coder page.
type Client struct {
	chain     *proxy.Chain
	logger    *slog.Logger
	user      string
	baseURL   string
	platforms []rating.Platform
}

// Option configures a Client.
type Option func(*Client)

// WithChain sets the retrieval chain.
func WithChain(chain *proxy.Chain) Option {
	return func(c *Client) { c.chain = chain }
}

// WithUser sets the clist.by coder name.
func WithUser(user string) Option {
	return func(c *Client) { c.user = user }
}

// WithPlatforms restricts the tracked platforms.
func WithPlatforms(platforms ...rating.Platform) Option {
	return func(c *Client) { c.platforms = platforms }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBaseURL points the client at a different clist host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// New creates a clist client. It tracks every platform unless told otherwise.
func New(opts ...Option) *Client {
	c := &Client{
		logger:    slog.Default(),
		user:      DefaultUser,
		baseURL:   defaultBaseURL,
		platforms: rating.Platforms(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chain == nil {
		c.chain = proxy.NewChain(nil, proxy.WithLogger(c.logger))
	}
	return c
}

// Name implements rating.Source.
func (*Client) Name() string { return "clist" }

// Platforms implements rating.Source.
func (c *Client) Platforms() []rating.Platform { return c.platforms }

// ProfileURL returns the coder page URL.
func (c *Client) ProfileURL() string {
	return strings.TrimSuffix(c.baseURL, "/") + "/coder/" + url.PathEscape(c.user) + "/"
}

// Fetch retrieves the coder page once and returns one Result per tracked platform.
func (c *Client) Fetch(ctx context.Context) []rating.Result {
	target := c.ProfileURL()
	c.logger.InfoContext(ctx, "fetching clist profile", "user", c.user, "url", target)

	body, via, err := c.chain.Fetch(ctx, target)
	if err != nil {
		return c.failAll(err)
	}
	c.logger.Debug("clist profile retrieved", "via", via, "bytes", len(body), "title", htmlutil.Title(string(body)))

	text := string(body)
	if htmlutil.IsNotFound(text) && !strings.Contains(strings.ToLower(text), strings.ToLower(c.user)) {
		return c.failAll(fmt.Errorf("clist: %s: %w", c.user, rating.ErrProfileNotFound))
	}

	matches := scrape.Parse(text)
	now := time.Now()
	results := make([]rating.Result, 0, len(c.platforms))
	for _, p := range c.platforms {
		rec, err := buildRecord(p, matches, now)
		results = append(results, rating.Result{Platform: p, Record: rec, Err: err})
	}
	return results
}

func (c *Client) failAll(err error) []rating.Result {
	results := make([]rating.Result, len(c.platforms))
	for i, p := range c.platforms {
		results[i] = rating.Result{Platform: p, Err: err}
	}
	return results
}

func buildRecord(p rating.Platform, matches map[rating.Platform]scrape.Match, now time.Time) (*rating.Record, error) {
	m, ok := matches[p]
	if !ok {
		return nil, fmt.Errorf("clist: %s: %w", p, rating.ErrNoMatch)
	}

	value := scrape.SanitizeRating(p, m.Rating)
	if value == rating.Placeholder {
		return nil, fmt.Errorf("clist: %s: %q: %w", p, m.Rating, rating.ErrUnparsable)
	}
	r, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("clist: %s: %w", p, rating.ErrUnparsable)
	}

	subtitle := scrape.SanitizeSubtitle(p, m.Subtitle)
	if p == rating.Codeforces {
		subtitle = rank.Label(p, r)
	}

	return &rating.Record{
		Platform:  p,
		Rating:    r,
		Known:     true,
		Value:     value,
		Subtitle:  subtitle,
		Color:     rank.Color(p, r),
		Source:    "clist",
		FetchedAt: now,
	}, nil
}
