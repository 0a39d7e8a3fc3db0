// Package gh is the hosting-service collaborator: a REST client for listing
// pull requests and fetching per-item enrichment data, with rate-limit-aware
// unbounded retry.
package gh

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/contentcache"
)

const (
	defaultBaseURL = "https://api.github.com"
	// PageSize is the fixed listing page size.
	PageSize = 100

	defaultTransientDelay = 2 * time.Second
	defaultRateLimitFloor = 5 * time.Second
)

// RateLimitError signals the service's rate-limit condition, carrying the
// advertised reset time when known.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return "rate limited (no reset advertised)"
	}
	return fmt.Sprintf("rate limited until %s", e.Reset.Format(time.RFC3339))
}

// waitFor returns how long to sleep before retrying: until the advertised
// reset, never less than the floor.
func (e *RateLimitError) waitFor(floor time.Duration) time.Duration {
	if e.Reset.IsZero() {
		return floor
	}
	wait := time.Until(e.Reset)
	if wait < floor {
		return floor
	}
	return wait
}

// Client is the REST client. All calls retry indefinitely until they succeed
// or the context is cancelled; only a forbidden response without a reset
// timestamp aborts early.
type Client struct {
	httpClient     *http.Client
	tokens         *TokenPool
	cache          *contentcache.Cache
	baseURL        string
	transientDelay time.Duration
	rateLimitFloor time.Duration
}

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	BaseURL        string
	HTTPTimeout    time.Duration
	TransientDelay time.Duration
	RateLimitFloor time.Duration
	Cache          *contentcache.Cache
}

// NewClient builds a Client around a token pool.
func NewClient(tokens *TokenPool, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPTimeout == 0 {
		opts.HTTPTimeout = 30 * time.Second
	}
	if opts.TransientDelay == 0 {
		opts.TransientDelay = defaultTransientDelay
	}
	if opts.RateLimitFloor == 0 {
		opts.RateLimitFloor = defaultRateLimitFloor
	}
	return &Client{
		httpClient:     &http.Client{Timeout: opts.HTTPTimeout},
		tokens:         tokens,
		cache:          opts.Cache,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		transientDelay: opts.TransientDelay,
		rateLimitFloor: opts.RateLimitFloor,
	}
}

// ListPullRequests fetches one page of a repository's closed pull requests
// in descending creation order. Pages are 1-based; an empty slice marks
// exhaustion.
func (c *Client) ListPullRequests(ctx context.Context, repo string, page int) ([]PRSummary, error) {
	var out []PRSummary
	path := fmt.Sprintf("/repos/%s/pulls?state=closed&sort=created&direction=desc&per_page=%d&page=%d",
		repo, PageSize, page)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) pullRequest(ctx context.Context, repo string, number int) (*prDetail, error) {
	var out prDetail
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls/%d", repo, number), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) issueComments(ctx context.Context, repo string, number int) ([]issueComment, error) {
	var out []issueComment
	path := fmt.Sprintf("/repos/%s/issues/%d/comments?per_page=%d", repo, number, PageSize)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) commits(ctx context.Context, repo string, number int) ([]commitEntry, error) {
	var out []commitEntry
	path := fmt.Sprintf("/repos/%s/pulls/%d/commits?per_page=%d", repo, number, PageSize)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) changedFiles(ctx context.Context, repo string, number int) ([]changedFile, error) {
	var out []changedFile
	path := fmt.Sprintf("/repos/%s/pulls/%d/files?per_page=%d", repo, number, PageSize)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fileContent fetches one file's bytes at a ref, going through the blob
// cache when one is attached.
func (c *Client) fileContent(ctx context.Context, repo, path, ref string) ([]byte, error) {
	if c.cache != nil {
		if content, ok, err := c.cache.Get(repo, ref, path); err == nil && ok {
			return content, nil
		}
	}

	var payload contentsPayload
	apiPath := fmt.Sprintf("/repos/%s/contents/%s?ref=%s", repo, escapePath(path), url.QueryEscape(ref))
	if err := c.get(ctx, apiPath, &payload); err != nil {
		return nil, err
	}
	if payload.Encoding != "base64" {
		return nil, fmt.Errorf("unexpected content encoding %q for %s", payload.Encoding, path)
	}
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode content for %s: %w", path, err)
	}

	if c.cache != nil {
		if err := c.cache.Put(repo, ref, path, content); err != nil {
			slog.Warn("gh.cache_put_failed", "repo", repo, "path", path, "err", err)
		}
	}
	return content, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// get performs one GET with unbounded retry: rate-limit responses wait until
// the advertised reset (floor when unknown), everything else waits the fixed
// transient delay. Context cancellation stops the loop.
func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.baseURL + path
	return retry.Do(
		func() error { return c.getOnce(ctx, u, out) },
		retry.Context(ctx),
		retry.Attempts(0),
		retry.DelayType(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("gh.retry", "url", u, "attempt", n+1, "err", err)
		}),
	)
}

func (c *Client) retryDelay(_ uint, err error, _ *retry.Config) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.waitFor(c.rateLimitFloor)
	}
	return c.transientDelay
}

func (c *Client) getOnce(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if token := c.tokens.Next(); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		if reset := resetTime(resp); !reset.IsZero() {
			return &RateLimitError{Reset: reset}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return &RateLimitError{}
		}
		// Forbidden with no reset timestamp is not a rate-limit signal.
		return retry.Unrecoverable(fmt.Errorf("forbidden: %s", u))

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Other client errors (404 and friends) will not heal on retry;
		// they surface as a per-item failure instead of spinning forever.
		io.Copy(io.Discard, resp.Body)
		return retry.Unrecoverable(fmt.Errorf("client error %d for %s", resp.StatusCode, u))

	default:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, u)
	}
}

func resetTime(resp *http.Response) time.Time {
	raw := resp.Header.Get("X-RateLimit-Reset")
	if raw == "" {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || unix <= 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
