// Package scrape extracts per-platform ratings from an aggregator profile page.
package scrape

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/cpratings/pkg/htmlutil"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

// Match is the raw text captured for one platform.
type Match struct {
	Rating   string
	Subtitle string
}

// star matches the rating star and its UTF-8-read-as-Latin-1 form.
const star = `(?:★|â˜…)`

// Patterns are tried in order per platform; the first match wins.
// Group 1 is the rating, group 2 the optional subtitle.
var patterns = map[rating.Platform][]*regexp.Regexp{
	rating.Codeforces: {
		regexp.MustCompile(`(?i)Codeforces[^\d]{0,40}(\d{3,4})`),
	},
	rating.LeetCode: {
		regexp.MustCompile(`(?i)LeetCode[^\d]{0,40}(\d{3,4})(?:[^\d]+(rating|contest|points))?`),
	},
	rating.CodeChef: {
		regexp.MustCompile(`(?i)CodeChef[^\d]{0,60}(\d{3,4})(?:[^\d]+([1-7]` + star + `|stars?))?`),
	},
	rating.AtCoder: {
		regexp.MustCompile(`(?i)AtCoder[^\d]{0,40}(\d{3,4})(?:[^\d]+(rating))?`),
	},
	rating.GeeksforGeeks: {
		regexp.MustCompile(`(?i)GeeksforGeeks[^\d]{0,60}(\d{2,4})(?:[^\d]+(score|rating|points))?`),
	},
}

// Parse scans text for every platform. Platforms without a match are absent.
// HTML input is reduced to text first.
func Parse(text string) map[rating.Platform]Match {
	if htmlutil.LooksLikeHTML(text) {
		text = htmlutil.StripTags(text)
	}

	out := make(map[rating.Platform]Match)
	for p, list := range patterns {
		for _, re := range list {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			match := Match{Rating: m[1]}
			if len(m) > 2 {
				match.Subtitle = m[2]
			}
			out[p] = match
			break
		}
	}
	return out
}

var (
	ratingDigits  = regexp.MustCompile(`\d{3,4}`)
	scoreDigits   = regexp.MustCompile(`\d{2,4}`)
	subtitleStray = regexp.MustCompile(`[^A-Za-z★â˜…\s]`)
)

// SanitizeRating returns the first run of three or four digits in s,
// or rating.Placeholder when there is none. GeeksforGeeks scores may
// be as short as two digits.
func SanitizeRating(p rating.Platform, s string) string {
	re := ratingDigits
	if p == rating.GeeksforGeeks {
		re = scoreDigits
	}
	if d := re.FindString(s); d != "" {
		return d
	}
	return rating.Placeholder
}

// SanitizeSubtitle strips everything but letters, whitespace and star glyphs.
// Codeforces subtitles are always dropped; callers show the computed rank instead.
func SanitizeSubtitle(p rating.Platform, s string) string {
	if p == rating.Codeforces {
		return ""
	}
	return strings.TrimSpace(subtitleStray.ReplaceAllString(s, ""))
}
