// Direct-API fetcher registration.

package rating

import (
	"context"
	"log/slog"
	"sync"
)

// FetcherConfig holds configuration for creating platform fetchers.
type FetcherConfig struct {
	Cache  any // httpcache.Cacher - use any to avoid import cycles
	Logger *slog.Logger
}

// FetchFunc fetches the current rating for a handle on one platform.
type FetchFunc func(ctx context.Context, handle string, cfg *FetcherConfig) (*Record, error)

var (
	registryMu sync.RWMutex
	fetchers   = make(map[Platform]FetchFunc)
)

// RegisterFetcher adds a direct-API fetcher for a platform.
// This should be called from each platform package's init() function.
func RegisterFetcher(p Platform, fetch FetchFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := fetchers[p]; exists {
		panic("fetcher already registered: " + string(p))
	}
	fetchers[p] = fetch
}

// LookupFetcher returns the fetcher registered for a platform, or nil.
func LookupFetcher(p Platform) FetchFunc {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return fetchers[p]
}

// Registered returns the platforms with a registered fetcher, in display order.
func Registered() []Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var out []Platform
	for _, p := range Platforms() {
		if _, ok := fetchers[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
