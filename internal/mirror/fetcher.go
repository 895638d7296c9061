// Package mirror downloads repository files through an ordered list of CDN
// mirror URL templates with bounded retries.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnavailable marks a file that could not be fetched from any mirror in
// any retry round. Callers treat it as "file missing", not as a fatal error.
var ErrUnavailable = errors.New("file unavailable on all mirrors")

const defaultAttempts = 3

type Fetcher struct {
	templates []string
	client    *http.Client
	attempts  int
	logf      func(format string, a ...any)
}

type Options struct {
	// Client defaults to http.DefaultClient; inject one to add timeouts.
	Client *http.Client
	// Attempts is the number of full passes over the mirror list (default 3).
	Attempts int
	// Logf receives per-mirror failure lines; nil discards them.
	Logf func(format string, a ...any)
}

// New builds a Fetcher over URL templates with {repo}, {sha} and {path}
// placeholders, tried in the given order.
func New(templates []string, opts Options) *Fetcher {
	f := &Fetcher{
		templates: append([]string(nil), templates...),
		client:    opts.Client,
		attempts:  opts.Attempts,
		logf:      opts.Logf,
	}
	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.attempts <= 0 {
		f.attempts = defaultAttempts
	}
	if f.logf == nil {
		f.logf = func(string, ...any) {}
	}
	return f
}

// Fetch returns the bytes of path at sha in repo from the first mirror that
// answers 200. Non-200 answers and transport errors advance to the next
// mirror; exhausting every mirror in every round returns ErrUnavailable.
// Context cancellation aborts immediately and is never retried.
func (f *Fetcher) Fetch(ctx context.Context, repo, sha, path string) ([]byte, error) {
	for remaining := f.attempts; remaining > 0; remaining-- {
		for _, tmpl := range f.templates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := f.fetchOne(ctx, expandTemplate(tmpl, repo, sha, path))
			if err == nil {
				return data, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logf("🔄 fetch failed: %s - %v", path, err)
		}
		if remaining > 1 {
			f.logf("🔄 retries remaining: %d - %s", remaining-1, path)
		}
	}
	f.logf("🔄 retries exhausted: %s", path)
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func expandTemplate(tmpl, repo, sha, path string) string {
	r := strings.NewReplacer("{repo}", repo, "{sha}", sha, "{path}", path)
	return r.Replace(tmpl)
}
