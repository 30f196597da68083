// Command cpratings shows competitive-programming ratings.
//
// Usage:
//
//	cpratings                      # one load, JSON snapshot on stdout
//	cpratings -format html         # one load, rendered rating section
//	cpratings -source direct       # use each platform's API instead of clist.by
//	cpratings -serve :8080 -refresh "@every 30m"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/auth"
	"github.com/codeGROOVE-dev/cpratings/pkg/config"
	"github.com/codeGROOVE-dev/cpratings/pkg/history"
	"github.com/codeGROOVE-dev/cpratings/pkg/httpcache"
	"github.com/codeGROOVE-dev/cpratings/pkg/proxy"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/codeGROOVE-dev/cpratings/pkg/ratings"
	"github.com/codeGROOVE-dev/cpratings/pkg/scheduler"
	"github.com/codeGROOVE-dev/cpratings/pkg/server"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching")
	cacheTTL := flag.Duration("cache-ttl", 0, "cache time-to-live (default from config, 1h)")
	source := flag.String("source", "", "rating source: clist or direct (default from config, clist)")
	format := flag.String("format", "json", "output format for a single load: json or html")
	configPath := flag.String("config", "", "path to a YAML config file")
	serve := flag.String("serve", "", "serve HTTP on this address instead of printing once")
	refresh := flag.String("refresh", "", `cron spec for background refreshes in serve mode, e.g. "@every 30m"`)
	historyPath := flag.String("history", "", "record loaded ratings in this SQLite file")
	retries := flag.Uint("retries", 1, "attempts per request for transient failures (1 disables retry)")
	browserCookies := flag.Bool("browser-cookies", false,
		"also fetch clist.by directly with cookies from "+fmt.Sprint(auth.EnvVarsForSite(auth.Clist))+" or local browsers")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *cacheTTL != 0 {
		cfg.CacheTTL = *cacheTTL
	}
	if *serve != "" {
		cfg.Addr = *serve
	}
	if *refresh != "" {
		cfg.Refresh = *refresh
	}
	if *historyPath != "" {
		cfg.HistoryPath = *historyPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	httpcache.SetRetryAttempts(*retries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, runFlags{
		noCache:        *noCache,
		serve:          *serve != "",
		format:         *format,
		browserCookies: *browserCookies,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}
}

type runFlags struct {
	format         string
	noCache        bool
	serve          bool
	browserCookies bool
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, f runFlags) error {
	srcOpts := []ratings.Option{
		ratings.WithLogger(logger),
		ratings.WithHandles(cfg.PlatformHandles()),
		ratings.WithClistUser(cfg.ClistUser),
		ratings.WithMinBodyLength(cfg.MinBodyLength),
		ratings.WithBrowserCookies(f.browserCookies),
	}

	var attempts []proxy.Attempt
	for _, name := range cfg.Proxies {
		if a, ok := proxy.ByName(name); ok {
			attempts = append(attempts, a)
		}
	}
	srcOpts = append(srcOpts, ratings.WithProxies(attempts...))

	if !f.noCache {
		httpCache, err := httpcache.New(cfg.CacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			defer func() {
				stats := httpcache.CacheStats()
				logger.Debug("cache stats", "hits", stats.Hits, "misses", stats.Misses)
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "ttl", cfg.CacheTTL.String())
			srcOpts = append(srcOpts, ratings.WithHTTPCache(httpCache))
		}
	}

	loadOpts := []ratings.Option{ratings.WithLogger(logger)}
	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // best effort on exit
		loadOpts = append(loadOpts, ratings.WithHistory(store))
	}

	src, err := ratings.NewSource(ctx, cfg.Source, srcOpts...)
	if err != nil {
		return err
	}

	if f.serve {
		return serveHTTP(ctx, cfg, logger, src, loadOpts)
	}

	srv := server.New(src, server.WithLogger(logger), server.WithLoadOptions(loadOpts...))
	doc, _ := srv.Load(ctx)
	switch f.format {
	case "html":
		return doc.Render(os.Stdout)
	default:
		return outputJSON(doc.Snapshot())
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, logger *slog.Logger, src rating.Source, loadOpts []ratings.Option) error {
	srv := server.New(src, server.WithLogger(logger), server.WithLoadOptions(loadOpts...))

	if cfg.Refresh != "" {
		sched := scheduler.New(logger)
		err := sched.Schedule(ctx, cfg.Refresh, func(ctx context.Context) {
			start := time.Now()
			_, sum := srv.Load(ctx)
			logger.Info("background refresh done", "loaded", sum.Loaded, "errored", sum.Errored, "duration", time.Since(start))
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	return srv.ListenAndServe(ctx, cfg.Addr)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
