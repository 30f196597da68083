// Package leetcode fetches LeetCode contest ratings through the public GraphQL endpoint.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/httpcache"
	"github.com/codeGROOVE-dev/cpratings/pkg/rank"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

const defaultBaseURL = "https://leetcode.com"

// SolvedColor is the LeetCode brand color, used when only the solved count is shown.
const SolvedColor = "#FFA116"

func init() {
	rating.RegisterFetcher(rating.LeetCode, func(ctx context.Context, handle string, cfg *rating.FetcherConfig) (*rating.Record, error) {
		var opts []Option
		if c, ok := cfg.Cache.(httpcache.Cacher); ok && c != nil {
			opts = append(opts, WithHTTPCache(c))
		}
		if cfg.Logger != nil {
			opts = append(opts, WithLogger(cfg.Logger))
		}
		client, err := New(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return client.Fetch(ctx, handle)
	})
}

// Client handles LeetCode requests.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	baseURL    string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache   httpcache.Cacher
	logger  *slog.Logger
	baseURL string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// New creates a LeetCode client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		baseURL:    cfg.baseURL,
	}, nil
}

const graphQLQuery = `query userContestRankingInfo($username: String!) {
  userContestRanking(username: $username) {
    rating
  }
  matchedUser(username: $username) {
    username
    submitStats: submitStatsGlobal {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

//nolint:govet // fieldalignment: struct ordering for JSON readability
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		UserContestRanking *contestRanking `json:"userContestRanking"`
		MatchedUser        *apiUser        `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type contestRanking struct {
	Rating float64 `json:"rating"`
}

type apiUser struct {
	Username    string `json:"username"`
	SubmitStats *struct {
		AcSubmissionNum []struct {
			Difficulty string `json:"difficulty"`
			Count      int    `json:"count"`
		} `json:"acSubmissionNum"`
	} `json:"submitStats"`
}

// solved returns the "All" accepted count, which LeetCode lists first.
func (u *apiUser) solved() (int, bool) {
	if u == nil || u.SubmitStats == nil || len(u.SubmitStats.AcSubmissionNum) == 0 {
		return 0, false
	}
	for _, s := range u.SubmitStats.AcSubmissionNum {
		if s.Difficulty == "All" {
			return s.Count, true
		}
	}
	return u.SubmitStats.AcSubmissionNum[0].Count, true
}

// Fetch retrieves the contest rating for a LeetCode user, falling back to the
// solved-problem count when the user has no contest rating.
func (c *Client) Fetch(ctx context.Context, handle string) (*rating.Record, error) {
	if handle == "" {
		return nil, fmt.Errorf("leetcode: empty handle")
	}

	c.logger.InfoContext(ctx, "fetching leetcode rating", "handle", handle)

	jsonBody, err := json.Marshal(graphQLRequest{
		Query:     graphQLQuery,
		Variables: map[string]any{"username": handle},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.baseURL+"/"+handle+"/")
	req.Header.Set("User-Agent", httpcache.UserAgent)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, err
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse leetcode response: %w", err)
	}

	if len(resp.Errors) > 0 && (resp.Data == nil || resp.Data.MatchedUser == nil) {
		return nil, fmt.Errorf("leetcode API error: %s: %w", resp.Errors[0].Message, rating.ErrProfileNotFound)
	}
	if resp.Data == nil || resp.Data.MatchedUser == nil {
		return nil, rating.ErrProfileNotFound
	}

	return parseRecord(resp.Data.UserContestRanking, resp.Data.MatchedUser)
}

func parseRecord(contest *contestRanking, user *apiUser) (*rating.Record, error) {
	solved, hasSolved := user.solved()

	r := &rating.Record{
		Platform:  rating.LeetCode,
		Source:    "direct",
		FetchedAt: time.Now(),
	}

	if contest != nil && contest.Rating > 0 {
		r.Rating = int(math.Round(contest.Rating))
		r.Known = true
		r.Value = strconv.Itoa(r.Rating)
		r.Color = rank.Color(rating.LeetCode, r.Rating)
		r.Subtitle = strconv.Itoa(solved) + " solved"
		return r, nil
	}

	if !hasSolved {
		return nil, fmt.Errorf("leetcode: no contest rating or solved count: %w", rating.ErrFieldMissing)
	}
	r.Value = strconv.Itoa(solved)
	r.Subtitle = "problems solved"
	r.Color = SolvedColor
	return r, nil
}
