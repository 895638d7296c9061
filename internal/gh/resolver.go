// Package gh resolves an app id to a commit and file tree in a manifest
// repository, using the branch that is literally named after the app id.
package gh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is the soft miss: the repository has no branch for the app id
// or the branch has no readable tree. Callers move on to the next repository.
var ErrNotFound = errors.New("app id not found in repository")

// Resolution is a pinned snapshot of one repository branch.
type Resolution struct {
	Repository string
	SHA        string
	CommitDate string
	Paths      []string
}

type Resolver struct {
	baseURL string
	client  *http.Client
}

type Options struct {
	// BaseURL defaults to the public GitHub API.
	BaseURL string
	Client  *http.Client
}

func NewResolver(opts Options) *Resolver {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = "https://api.github.com"
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{baseURL: base, client: client}
}

type branchResponse struct {
	Commit struct {
		SHA    string `json:"sha"`
		Commit struct {
			Tree struct {
				URL string `json:"url"`
			} `json:"tree"`
			Author struct {
				Date string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	} `json:"commit"`
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
	} `json:"tree"`
}

// Resolve looks up the branch named appID in repo and returns its commit sha,
// commit date and flat file listing. A missing branch or tree is ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, repo, appID string) (Resolution, error) {
	branchURL := fmt.Sprintf("%s/repos/%s/branches/%s", r.baseURL, repo, appID)

	var branch branchResponse
	if err := r.getJSON(ctx, branchURL, &branch); err != nil {
		return Resolution{}, err
	}
	if branch.Commit.SHA == "" || branch.Commit.Commit.Tree.URL == "" {
		return Resolution{}, fmt.Errorf("%w: %s@%s", ErrNotFound, repo, appID)
	}

	var tree treeResponse
	if err := r.getJSON(ctx, branch.Commit.Commit.Tree.URL, &tree); err != nil {
		return Resolution{}, err
	}
	if len(tree.Tree) == 0 {
		return Resolution{}, fmt.Errorf("%w: empty tree for %s@%s", ErrNotFound, repo, appID)
	}

	paths := make([]string, 0, len(tree.Tree))
	for _, entry := range tree.Tree {
		if entry.Path != "" {
			paths = append(paths, entry.Path)
		}
	}

	return Resolution{
		Repository: repo,
		SHA:        branch.Commit.SHA,
		CommitDate: branch.Commit.Commit.Author.Date,
		Paths:      paths,
	}, nil
}

func (r *Resolver) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
