// Package proxy retrieves pages through an ordered list of fallback attempts.
//
// Each Attempt rewrites a target URL into the URL it actually requests.
// A Chain tries its attempts one at a time and returns the first body that
// looks like a real page.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/httpcache"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

// DefaultMinLength is the body size a response must exceed to count as a page.
const DefaultMinLength = 200

// Attempt is one way of retrieving a target URL.
type Attempt interface {
	Name() string
	URL(target string) string
}

// TextExtract requests the target through a text-extraction reader service.
type TextExtract struct {
	Base string // defaults to https://r.jina.ai
}

// Name returns the attempt name.
func (TextExtract) Name() string { return "text-extract" }

// URL returns the reader URL. The reader expects a plain http:// target.
func (t TextExtract) URL(target string) string {
	base := t.Base
	if base == "" {
		base = "https://r.jina.ai"
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://")
	return strings.TrimSuffix(base, "/") + "/http://" + rest
}

// AllOrigins requests the target through the allorigins raw passthrough.
type AllOrigins struct {
	Base string // defaults to https://api.allorigins.win
}

// Name returns the attempt name.
func (AllOrigins) Name() string { return "allorigins" }

// URL returns the passthrough URL with the target query-escaped.
func (a AllOrigins) URL(target string) string {
	base := a.Base
	if base == "" {
		base = "https://api.allorigins.win"
	}
	return strings.TrimSuffix(base, "/") + "/raw?url=" + url.QueryEscape(target)
}

// Direct requests the target itself, optionally with session cookies.
type Direct struct {
	Jar http.CookieJar
}

// Name returns the attempt name.
func (Direct) Name() string { return "direct" }

// URL returns target unchanged.
func (Direct) URL(target string) string { return target }

// CookieJar returns the jar to attach to requests, or nil.
func (d Direct) CookieJar() http.CookieJar { return d.Jar }

// Defaults returns the public proxies in the order they are tried.
func Defaults() []Attempt {
	return []Attempt{TextExtract{}, AllOrigins{}}
}

// jarAttempt is implemented by attempts that carry their own cookies.
type jarAttempt interface {
	CookieJar() http.CookieJar
}

// Chain tries attempts strictly in order.
type Chain struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	attempts   []Attempt
	minLength  int
}

// Option configures a Chain.
type Option func(*Chain)

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *Chain) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) { c.logger = logger }
}

// WithHTTPClient replaces the HTTP client used for every attempt.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Chain) { c.httpClient = client }
}

// WithMinLength sets the size a body must exceed to be accepted.
func WithMinLength(n int) Option {
	return func(c *Chain) { c.minLength = n }
}

// NewChain creates a Chain. With no attempts it uses Defaults.
func NewChain(attempts []Attempt, opts ...Option) *Chain {
	if len(attempts) == 0 {
		attempts = Defaults()
	}
	c := &Chain{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
		attempts:   attempts,
		minLength:  DefaultMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attempts returns the attempt names in order.
func (c *Chain) Attempts() []string {
	names := make([]string, len(c.attempts))
	for i, a := range c.attempts {
		names[i] = a.Name()
	}
	return names
}

// Plausible reports whether body is long enough to be a real page.
func (c *Chain) Plausible(body []byte) bool {
	return len(body) > c.minLength
}

// Fetch returns the first plausible body and the name of the attempt that produced it.
// When every attempt fails the error wraps rating.ErrAllProxiesFailed and each cause.
func (c *Chain) Fetch(ctx context.Context, target string) (body []byte, via string, err error) {
	causes := []error{rating.ErrAllProxiesFailed}
	for _, a := range c.attempts {
		if err := ctx.Err(); err != nil {
			causes = append(causes, err)
			break
		}

		body, err := c.try(ctx, a, target)
		if err != nil {
			c.logger.Debug("proxy attempt failed", "attempt", a.Name(), "target", target, "error", err)
			causes = append(causes, fmt.Errorf("%s: %w", a.Name(), err))
			continue
		}
		c.logger.Debug("proxy attempt succeeded", "attempt", a.Name(), "target", target, "bytes", len(body))
		return body, a.Name(), nil
	}
	return nil, "", errors.Join(causes...)
}

func (c *Chain) try(ctx context.Context, a Attempt, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL(target), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.8")

	client := c.httpClient
	if j, ok := a.(jarAttempt); ok && j.CookieJar() != nil {
		withJar := *c.httpClient
		withJar.Jar = j.CookieJar()
		client = &withJar
	}

	body, err := httpcache.FetchURLWithValidator(ctx, c.cache, client, req, c.logger, c.Plausible)
	if err != nil {
		return nil, err
	}
	if !c.Plausible(body) {
		return nil, fmt.Errorf("implausible body of %d bytes", len(body))
	}
	return body, nil
}

// ByName returns the built-in attempt with the given name.
func ByName(name string) (Attempt, bool) {
	switch name {
	case TextExtract{}.Name():
		return TextExtract{}, true
	case AllOrigins{}.Name():
		return AllOrigins{}, true
	case Direct{}.Name():
		return Direct{}, true
	default:
		return nil, false
	}
}
