// Package htmlutil provides HTML processing utilities for rating scraping.
package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

// StripTags removes script and style blocks and HTML tags, returning plain text.
func StripTags(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	content := blockPattern.ReplaceAllString(htmlContent, " ")
	content = tagPattern.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	content = multiSpacePattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// LooksLikeHTML reports whether content is an HTML document rather than
// extracted text or markdown.
func LooksLikeHTML(content string) bool {
	head := content
	if len(head) > 4096 {
		head = head[:4096]
	}
	return htmlMarkerPattern.MatchString(head)
}

// Title extracts the title from HTML content.
func Title(htmlContent string) string {
	if matches := titlePattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}
	return ""
}

var (
	blockPattern      = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
	titlePattern      = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	htmlMarkerPattern = regexp.MustCompile(`(?i)<(!doctype html|html|head|body|div|table)[\s>]`)
)

// IsNotFound detects common "404 Not Found" or "Page not found" patterns in content.
func IsNotFound(text string) bool {
	lower := strings.ToLower(text)
	patterns := []string{
		"404 not found",
		"page not found",
		"error 404",
		"user not found",
		"profile not found",
		"account not found",
		"coder not found",
		"no such user",
		"user does not exist",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
