// Package auth provides session cookies for sites that serve more to signed-in visitors.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Site names a cookie-bearing site.
const (
	Clist = "clist"
)

// siteDomains maps site names to their cookie domains.
var siteDomains = map[string]string{
	Clist: "clist.by",
}

// Domain returns the cookie domain for a site, or "".
func Domain(site string) string { return siteDomains[site] }

// NewCookieJar creates an http.CookieJar populated with the given cookies for a domain.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}

// Source represents a source of session cookies.
type Source interface {
	// Cookies returns cookies for the given site, or nil if unavailable.
	Cookies(ctx context.Context, site string) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, site string, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx, site)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// Jar resolves cookies for site through sources and returns a jar holding them.
// It returns nil when no source has cookies.
func Jar(ctx context.Context, site string, sources ...Source) (http.CookieJar, error) {
	domain := Domain(site)
	if domain == "" {
		return nil, nil //nolint:nilnil // unknown site has no cookies
	}
	cookies, err := ChainSources(ctx, site, sources...)
	if err != nil || len(cookies) == 0 {
		return nil, err
	}
	return NewCookieJar(domain, cookies)
}
