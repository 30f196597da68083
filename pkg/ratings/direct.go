package ratings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

// DirectAPI fetches each platform from its own API, all at once.
type DirectAPI struct {
	fetcherCfg *rating.FetcherConfig
	logger     *slog.Logger
	handles    map[rating.Platform]string
	fetchers   map[rating.Platform]rating.FetchFunc
	platforms  []rating.Platform
}

func newDirectAPI(cfg *config) *DirectAPI {
	d := &DirectAPI{
		fetcherCfg: &rating.FetcherConfig{Logger: cfg.logger},
		logger:     cfg.logger,
		handles:    cfg.handles,
		fetchers:   make(map[rating.Platform]rating.FetchFunc),
	}
	if cfg.cache != nil {
		d.fetcherCfg.Cache = cfg.cache
	}
	for _, p := range rating.Platforms() {
		fetch := cfg.fetchers[p]
		if fetch == nil {
			fetch = rating.LookupFetcher(p)
		}
		if fetch == nil || d.handles[p] == "" {
			continue
		}
		d.fetchers[p] = fetch
		d.platforms = append(d.platforms, p)
	}
	return d
}

// Name implements rating.Source.
func (*DirectAPI) Name() string { return "direct" }

// Platforms returns the platforms that have both a handle and a fetcher.
func (d *DirectAPI) Platforms() []rating.Platform { return d.platforms }

// Fetch runs one goroutine per platform and waits for all of them.
// Each goroutine writes only its own slot.
func (d *DirectAPI) Fetch(ctx context.Context) []rating.Result {
	results := make([]rating.Result, len(d.platforms))

	var wg sync.WaitGroup
	for i, p := range d.platforms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.fetchOne(ctx, p)
		}()
	}
	wg.Wait()

	return results
}

func (d *DirectAPI) fetchOne(ctx context.Context, p rating.Platform) (res rating.Result) {
	res.Platform = p
	defer func() {
		if r := recover(); r != nil {
			res.Record = nil
			res.Err = fmt.Errorf("%s fetcher panicked: %v", p, r)
		}
	}()

	fetch := d.fetchers[p]
	if fetch == nil {
		res.Err = fmt.Errorf("no fetcher registered for %s", p)
		return res
	}

	rec, err := fetch(ctx, d.handles[p], d.fetcherCfg)
	switch {
	case err != nil:
		res.Err = err
	case rec == nil:
		res.Err = fmt.Errorf("%s: %w", p, rating.ErrFieldMissing)
	default:
		res.Record = rec
	}
	return res
}
