package gh

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/contentcache"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(NewTokenPool([]string{"tok-a", "tok-b"}), Options{
		BaseURL:        srv.URL,
		TransientDelay: 5 * time.Millisecond,
		RateLimitFloor: 5 * time.Millisecond,
	})
	return c, srv
}

func TestListPullRequests(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/pulls" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("state") != "closed" || q.Get("sort") != "created" || q.Get("direction") != "desc" {
			t.Errorf("query = %v", q)
		}
		if q.Get("page") != "2" {
			t.Errorf("page = %s", q.Get("page"))
		}
		fmt.Fprint(w, `[{"number": 30, "merged_at": "2024-01-01T00:00:00Z"}, {"number": 29, "merged_at": null}]`)
	}))

	prs, err := c.ListPullRequests(context.Background(), "o/r", 2)
	if err != nil {
		t.Fatalf("ListPullRequests: %v", err)
	}
	if len(prs) != 2 || prs[0].Number != 30 || prs[1].MergedAt != "" {
		t.Errorf("prs = %+v", prs)
	}
}

func TestTransientErrorsRetryUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[]`)
	}))

	if _, err := c.ListPullRequests(context.Background(), "o/r", 1); err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRateLimitWaitsForReset(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `[]`)
	}))

	if _, err := c.ListPullRequests(context.Background(), "o/r", 1); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestForbiddenWithoutResetAbortsRetry(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))

	if _, err := c.ListPullRequests(context.Background(), "o/r", 1); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", calls.Load())
	}
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.pullRequest(context.Background(), "o/r", 5); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestContextCancellationStopsRetry(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := c.ListPullRequests(ctx, "o/r", 1); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestTokenRotation(t *testing.T) {
	var tokens []string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		fmt.Fprint(w, `[]`)
	}))

	ctx := context.Background()
	for range 3 {
		if _, err := c.ListPullRequests(ctx, "o/r", 1); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"token tok-a", "token tok-b", "token tok-a"}
	for i, tok := range want {
		if tokens[i] != tok {
			t.Errorf("request %d used %q, want %q", i, tokens[i], tok)
		}
	}
}

func prHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/7", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"number": 7, "title": "Fix bug in parser", "body": "details",
			"created_at": "2024-03-01T00:00:00Z", "closed_at": "2024-03-02T00:00:00Z",
			"merged_at": null,
			"additions": 5, "deletions": 1, "changed_files": 1, "commits": 2,
			"user": {"login": "alice"},
			"head": {"sha": "headsha"}
		}`)
	})
	mux.HandleFunc("/repos/o/r/issues/7/comments", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"user": {"login": "bob"}, "created_at": "2024-03-01T10:00:00Z"},
			{"user": {"login": "bob"}, "created_at": "2024-03-01T11:00:00Z"},
			{"user": {"login": "carol"}, "created_at": "2024-03-01T12:00:00Z"}
		]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/7/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"sha": "s1", "author": {"login": "alice"}, "commit": {"committer": {"date": "2024-03-01T09:00:00Z"}}},
			{"sha": "s2", "author": null, "commit": {"committer": {"date": "2024-03-01T09:30:00Z"}}}
		]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/7/files", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"filename": "parser.py"}]`)
	})
	mux.HandleFunc("/repos/o/r/contents/parser.py", func(w http.ResponseWriter, r *http.Request) {
		if ref := r.URL.Query().Get("ref"); ref != "s2" {
			t.Errorf("content fetched at ref %q, want last commit sha s2", ref)
		}
		encoded := base64.StdEncoding.EncodeToString([]byte("x = 1\n"))
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, encoded)
	})
	return mux
}

func TestFetchPullRequest(t *testing.T) {
	c, _ := testClient(t, prHandler(t))

	pr, err := c.FetchPullRequest(context.Background(), "o/r", 7)
	if err != nil {
		t.Fatalf("FetchPullRequest: %v", err)
	}
	if pr.Number != 7 || pr.Title != "Fix bug in parser" || pr.Author != "alice" {
		t.Errorf("pr = %+v", pr)
	}
	if pr.MergedAt != "" {
		t.Errorf("MergedAt = %q, want empty", pr.MergedAt)
	}
	if len(pr.Comments) != 3 {
		t.Errorf("comments = %d, want 3", len(pr.Comments))
	}
	if len(pr.Reviewers) != 2 {
		t.Errorf("reviewers = %v, want 2 distinct", pr.Reviewers)
	}
	if len(pr.CommitLog) != 2 || pr.CommitLog[1].Author != "" {
		t.Errorf("commit log = %+v", pr.CommitLog)
	}
	if len(pr.Files) != 1 || pr.Files[0].Content != "x = 1\n" {
		t.Errorf("files = %+v", pr.Files)
	}
}

func TestFetchPullRequestDegradesOnEnrichmentFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/9", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"number": 9, "title": "t", "head": {"sha": "h"}}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c, _ := testClient(t, mux)

	pr, err := c.FetchPullRequest(context.Background(), "o/r", 9)
	if err != nil {
		t.Fatalf("metadata succeeded, enrichment failures must degrade: %v", err)
	}
	if pr.Comments == nil || len(pr.Comments) != 0 {
		t.Errorf("comments = %v, want empty non-nil", pr.Comments)
	}
	if pr.CommitLog != nil {
		t.Errorf("commit log = %v, want nil", pr.CommitLog)
	}
	if pr.Files != nil {
		t.Errorf("files = %v, want nil", pr.Files)
	}
	if pr.Additions != -1 || pr.Commits != -1 {
		t.Errorf("omitted counts should map to -1, got %d/%d", pr.Additions, pr.Commits)
	}
}

func TestFileContentUsesCache(t *testing.T) {
	cache, err := contentcache.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	var contentCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/contents/a.py", func(w http.ResponseWriter, _ *http.Request) {
		contentCalls.Add(1)
		encoded := base64.StdEncoding.EncodeToString([]byte("pass\n"))
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, encoded)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := NewClient(NewTokenPool(nil), Options{BaseURL: srv.URL, Cache: cache,
		TransientDelay: time.Millisecond, RateLimitFloor: time.Millisecond})

	ctx := context.Background()
	for range 2 {
		content, err := c.fileContent(ctx, "o/r", "a.py", "sha1")
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "pass\n" {
			t.Errorf("content = %q", content)
		}
	}
	if contentCalls.Load() != 1 {
		t.Errorf("API calls = %d, want 1 (second read served from cache)", contentCalls.Load())
	}
}
