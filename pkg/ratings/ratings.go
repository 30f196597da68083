// Package ratings runs one page-load cycle: fetch every tracked rating and
// move each widget out of Loading.
package ratings

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/codeGROOVE-dev/cpratings/pkg/auth"
	"github.com/codeGROOVE-dev/cpratings/pkg/clist"
	"github.com/codeGROOVE-dev/cpratings/pkg/httpcache"
	"github.com/codeGROOVE-dev/cpratings/pkg/proxy"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"

	// Direct fetchers register themselves.
	_ "github.com/codeGROOVE-dev/cpratings/pkg/atcoder"
	_ "github.com/codeGROOVE-dev/cpratings/pkg/codechef"
	_ "github.com/codeGROOVE-dev/cpratings/pkg/codeforces"
	_ "github.com/codeGROOVE-dev/cpratings/pkg/geeksforgeeks"
	_ "github.com/codeGROOVE-dev/cpratings/pkg/leetcode"
)

// Source kinds accepted by NewSource.
const (
	KindClist  = "clist"
	KindDirect = "direct"
)

// Recorder stores loaded records. history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, records []*rating.Record) error
}

// Option configures sources and loads.
type Option func(*config)

type config struct {
	cache          httpcache.Cacher
	logger         *slog.Logger
	recorder       Recorder
	handles        map[rating.Platform]string
	fetchers       map[rating.Platform]rating.FetchFunc
	httpClient     *http.Client
	clistUser      string
	clistBaseURL   string
	proxies        []proxy.Attempt
	cookieSources  []auth.Source
	minBodyLength  int
	browserCookies bool
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPCache sets the HTTP cache shared by every fetcher.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithHandles sets the per-platform handles used by the direct source.
// Platforms without a handle are not tracked.
func WithHandles(handles map[rating.Platform]string) Option {
	return func(c *config) { c.handles = handles }
}

// WithFetchers overrides the registered direct fetchers for some platforms.
func WithFetchers(fetchers map[rating.Platform]rating.FetchFunc) Option {
	return func(c *config) { c.fetchers = fetchers }
}

// WithProxies sets the retrieval attempts for the clist source, in order.
func WithProxies(attempts ...proxy.Attempt) Option {
	return func(c *config) { c.proxies = attempts }
}

// WithClistUser sets the clist.by coder name.
func WithClistUser(user string) Option {
	return func(c *config) { c.clistUser = user }
}

// WithClistBaseURL points the clist source at a different host.
func WithClistBaseURL(u string) Option {
	return func(c *config) { c.clistBaseURL = u }
}

// WithBrowserCookies adds a signed-in direct attempt to clist.by using
// cookies from the environment or local browsers.
func WithBrowserCookies(enabled bool) Option {
	return func(c *config) { c.browserCookies = enabled }
}

// WithCookieSources replaces the cookie sources consulted by WithBrowserCookies.
func WithCookieSources(sources ...auth.Source) Option {
	return func(c *config) { c.cookieSources = sources }
}

// WithHistory records every loaded rating.
func WithHistory(r Recorder) Option {
	return func(c *config) { c.recorder = r }
}

// WithMinBodyLength sets the size a proxied page must exceed.
func WithMinBodyLength(n int) Option {
	return func(c *config) { c.minBodyLength = n }
}

// WithHTTPClient sets the client used by the proxy chain.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:        slog.Default(),
		clistUser:     clist.DefaultUser,
		minBodyLength: proxy.DefaultMinLength,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewSource builds the named source. An empty kind selects the clist source.
func NewSource(ctx context.Context, kind string, opts ...Option) (rating.Source, error) {
	cfg := newConfig(opts)
	switch strings.ToLower(kind) {
	case "", KindClist:
		return newScrapedAggregator(ctx, cfg), nil
	case KindDirect:
		return newDirectAPI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want %s or %s)", kind, KindClist, KindDirect)
	}
}

func newScrapedAggregator(ctx context.Context, cfg *config) *clist.Client {
	attempts := slices.Clone(cfg.proxies)
	if len(attempts) == 0 {
		attempts = proxy.Defaults()
	}

	if cfg.browserCookies {
		sources := cfg.cookieSources
		if len(sources) == 0 {
			sources = []auth.Source{auth.EnvSource{}, auth.NewBrowserSource(cfg.logger)}
		}
		jar, err := auth.Jar(ctx, auth.Clist, sources...)
		switch {
		case err != nil:
			cfg.logger.Warn("clist cookies unavailable", "error", err)
		case jar == nil:
			cfg.logger.Info("no clist cookies found", "env", auth.EnvVarsForSite(auth.Clist))
		default:
			attempts = append(attempts, proxy.Direct{Jar: jar})
		}
	}

	chainOpts := []proxy.Option{
		proxy.WithLogger(cfg.logger),
		proxy.WithHTTPCache(cfg.cache),
		proxy.WithMinLength(cfg.minBodyLength),
	}
	if cfg.httpClient != nil {
		chainOpts = append(chainOpts, proxy.WithHTTPClient(cfg.httpClient))
	}

	clistOpts := []clist.Option{
		clist.WithChain(proxy.NewChain(attempts, chainOpts...)),
		clist.WithUser(cfg.clistUser),
		clist.WithLogger(cfg.logger),
	}
	if cfg.clistBaseURL != "" {
		clistOpts = append(clistOpts, clist.WithBaseURL(cfg.clistBaseURL))
	}
	return clist.New(clistOpts...)
}
