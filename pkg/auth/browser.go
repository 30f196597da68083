package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // Register every browser cookie store
	"github.com/browserutils/kooky/browser/chrome"
	"github.com/browserutils/kooky/browser/firefox"
)

// siteEssentialCookies maps site names to the cookies a signed-in session needs.
var siteEssentialCookies = map[string][]string{
	Clist: {"sessionid", "csrftoken"},
}

// storeKind selects the kooky reader for a cookie file.
type storeKind int

const (
	firefoxStore storeKind = iota
	chromeStore
)

// extraStore is a cookie file layout kooky does not find on its own.
type extraStore struct {
	name string
	glob string // relative to $HOME
	kind storeKind
}

var extraStores = []extraStore{
	{"zen", "Library/Application Support/zen/Profiles/*/cookies.sqlite", firefoxStore},
	{"zen", ".zen/*/cookies.sqlite", firefoxStore},
	{"firefox", "Library/Application Support/Firefox/Profiles/*/cookies.sqlite", firefoxStore},
	{"firefox", ".mozilla/firefox/*/cookies.sqlite", firefoxStore},
	{"chrome-canary", "Library/Application Support/Google/Chrome Canary/*/Cookies", chromeStore},
}

// BrowserSource reads cookies from browser cookie stores.
type BrowserSource struct {
	logger *slog.Logger
	home   string
}

// NewBrowserSource creates a new browser cookie source.
func NewBrowserSource(logger *slog.Logger) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserSource{logger: logger, home: os.Getenv("HOME")}
}

// Cookies returns cookies for the given site from browser stores.
func (s *BrowserSource) Cookies(ctx context.Context, site string) (map[string]string, error) {
	domain := Domain(site)
	if domain == "" {
		return nil, nil //nolint:nilnil // no cookies for unknown site is not an error
	}

	s.logger.DebugContext(ctx, "reading browser cookies", "site", site, "domain", domain)

	if cookies := s.readExtraStores(ctx, domain, site); len(cookies) > 0 {
		return cookies, nil
	}

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil {
		s.logger.Debug("failed to read browser cookies", "site", site, "error", err)
		return nil, nil //nolint:nilnil // failed browser read is not a fatal error
	}
	if len(kookies) == 0 {
		return nil, nil //nolint:nilnil // no browser cookies is not an error
	}
	return s.essential(kookies, site), nil
}

// readExtraStores walks the stores kooky does not auto-detect, first hit wins.
func (s *BrowserSource) readExtraStores(ctx context.Context, domain, site string) map[string]string {
	if s.home == "" {
		return nil
	}

	for _, store := range extraStores {
		files, err := filepath.Glob(filepath.Join(s.home, store.glob))
		if err != nil {
			continue
		}
		for _, f := range files {
			var kookies []*kooky.Cookie
			switch store.kind {
			case chromeStore:
				kookies, err = chrome.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(domain))
			default:
				kookies, err = firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(domain))
			}
			if err != nil {
				if strings.Contains(err.Error(), "decrypt") {
					s.logger.Warn("browser cookies exist but cannot be decrypted",
						"browser", store.name, "site", site,
						"hint", "set "+strings.Join(EnvVarsForSite(site), " and ")+" instead")
				} else {
					s.logger.Debug("failed to read browser cookies", "browser", store.name, "file", f, "error", err)
				}
				continue
			}
			if cookies := s.essential(kookies, site); len(cookies) > 0 {
				s.logger.Debug("found browser cookies", "browser", store.name, "site", site, "count", len(cookies))
				return cookies
			}
		}
	}
	return nil
}

// essential keeps only the cookies the site's session needs.
func (s *BrowserSource) essential(kookies []*kooky.Cookie, site string) map[string]string {
	names, ok := siteEssentialCookies[site]
	cookies := make(map[string]string)
	for _, c := range kookies {
		if !ok {
			cookies[c.Name] = c.Value
			continue
		}
		for _, n := range names {
			if c.Name == n {
				cookies[c.Name] = c.Value
			}
		}
	}

	if ok {
		var missing []string
		for _, n := range names {
			if _, found := cookies[n]; !found {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			s.logger.Info("browser cookies missing", "site", site, "keys", missing)
		}
	}
	return cookies
}
