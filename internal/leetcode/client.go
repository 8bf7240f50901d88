// Package leetcode is the upstream feed client. It speaks the public
// LeetCode GraphQL endpoint and exposes exactly two reads: the recent
// accepted-submission feed for a username, and metadata for a problem slug.
// It does no caching; the poll engine owns that.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://leetcode.com/graphql"

const recentQuery = `
query recent($username: String!, $limit: Int!) {
  recentAcSubmissionList(username: $username, limit: $limit) {
    id
    title
    titleSlug
    timestamp
  }
}`

const problemQuery = `
query bySlug($slug: String!) {
  question(titleSlug: $slug) { title difficulty }
}`

// Submission is one accepted-submission event from the feed. Timestamp is
// UTC epoch seconds; the wire order of a batch is unspecified.
type Submission struct {
	Slug      string
	Title     string
	Timestamp int64
}

// ProblemMeta is the cached-on-first-sight metadata for a problem.
type ProblemMeta struct {
	Title      string
	Difficulty string
}

// UpstreamError is any failure talking to the feed: transport errors,
// non-2xx responses, rate limiting, or a malformed body. The poll engine
// treats it as a per-identity abort, never as fatal.
type UpstreamError struct {
	Op     string // "recent" or "problem"
	Status int    // HTTP status, 0 for transport/decode failures
	Err    error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("leetcode: %s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("leetcode: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *UpstreamError) Unwrap() error { return e.Err }

// Options configures a Client. Zero values pick conservative defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // per-request; default 30s
	RPS        float64       // outbound request rate cap; default 2
	Burst      int           // limiter burst; default 1
	UserAgent  string
}

// Client is a thin GraphQL client over net/http. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	rps := opts.RPS
	if rps <= 0 {
		rps = 2
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "Mozilla/5.0"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		userAgent:  ua,
	}
}

// wire shapes; timestamps arrive as decimal strings.
type recentEnvelope struct {
	Data struct {
		RecentAcSubmissionList []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			TitleSlug string `json:"titleSlug"`
			Timestamp string `json:"timestamp"`
		} `json:"recentAcSubmissionList"`
	} `json:"data"`
}

type problemEnvelope struct {
	Data struct {
		Question *struct {
			Title      string `json:"title"`
			Difficulty string `json:"difficulty"`
		} `json:"question"`
	} `json:"data"`
}

// RecentAccepted fetches up to limit of the most recent accepted submissions
// for username. The returned slice carries whatever order the upstream chose.
func (c *Client) RecentAccepted(ctx context.Context, username string, limit int) ([]Submission, error) {
	body, err := c.post(ctx, "recent", recentQuery, map[string]any{
		"username": username,
		"limit":    limit,
	})
	if err != nil {
		return nil, err
	}
	var env recentEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &UpstreamError{Op: "recent", Err: err}
	}
	out := make([]Submission, 0, len(env.Data.RecentAcSubmissionList))
	for _, s := range env.Data.RecentAcSubmissionList {
		ts, err := strconv.ParseInt(s.Timestamp, 10, 64)
		if err != nil {
			return nil, &UpstreamError{Op: "recent", Err: fmt.Errorf("bad timestamp %q: %w", s.Timestamp, err)}
		}
		out = append(out, Submission{Slug: s.TitleSlug, Title: s.Title, Timestamp: ts})
	}
	return out, nil
}

// ProblemMeta fetches title and difficulty for a slug. An unknown slug comes
// back from upstream as a null question and is reported as an UpstreamError.
func (c *Client) ProblemMeta(ctx context.Context, slug string) (*ProblemMeta, error) {
	body, err := c.post(ctx, "problem", problemQuery, map[string]any{"slug": slug})
	if err != nil {
		return nil, err
	}
	var env problemEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &UpstreamError{Op: "problem", Err: err}
	}
	if env.Data.Question == nil {
		return nil, &UpstreamError{Op: "problem", Err: fmt.Errorf("no such problem %q", slug)}
	}
	return &ProblemMeta{Title: env.Data.Question.Title, Difficulty: env.Data.Question.Difficulty}, nil
}

func (c *Client) post(ctx context.Context, op, query string, variables map[string]any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	payload, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	return body, nil
}
