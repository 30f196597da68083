// Package rating defines the common types for competitive-programming rating widgets.
package rating

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors returned by rating sources.
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrFieldMissing     = errors.New("expected field missing from payload")
	ErrNoMatch          = errors.New("no scrape pattern matched")
	ErrUnparsable       = errors.New("rating is not numeric")
	ErrAllProxiesFailed = errors.New("all retrieval proxies failed")
)

// Platform identifies a competitive-programming site.
type Platform string

// Supported platforms.
const (
	Codeforces    Platform = "codeforces"
	LeetCode      Platform = "leetcode"
	CodeChef      Platform = "codechef"
	AtCoder       Platform = "atcoder"
	GeeksforGeeks Platform = "geeksforgeeks"
)

// Placeholder is the glyph shown when a rating cannot be displayed.
const Placeholder = "—"

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{Codeforces, LeetCode, CodeChef, AtCoder, GeeksforGeeks}
}

// ElementID returns the page element id of the platform's widget.
func (p Platform) ElementID() string {
	if p == GeeksforGeeks {
		return "gfg-rating"
	}
	return string(p) + "-rating"
}

// ParsePlatform converts a name (or the "gfg" alias) to a Platform.
func ParsePlatform(s string) (Platform, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "gfg" {
		return GeeksforGeeks, true
	}
	for _, p := range Platforms() {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// Record is one normalized rating reading. It lives for a single fetch cycle.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Record struct {
	Platform Platform `json:"platform"`
	Rating   int      `json:"rating,omitempty"` // Numeric rating; meaningful only when Known
	Known    bool     `json:"known"`            // False when the platform reports no rating (e.g. unrated)
	Value    string   `json:"value"`            // Display text: digits, "Unrated", or "-"
	Subtitle string   `json:"subtitle,omitempty"`
	Color    string   `json:"color,omitempty"` // CSS color

	Source    string    `json:"source,omitempty"` // "direct" or "clist"
	FetchedAt time.Time `json:"fetched_at"`
}

// Result is the outcome of fetching one platform: exactly one of Record or Err is set.
type Result struct {
	Platform Platform
	Record   *Record
	Err      error
}

// Source produces rating results for a fixed set of tracked platforms.
// Fetch returns one Result per tracked platform and reports failures inside
// the Results rather than as a separate error.
type Source interface {
	Name() string
	Platforms() []Platform
	Fetch(ctx context.Context) []Result
}
