package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeAPI(t *testing.T, paths []string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/branches/440", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"commit": {
				"sha": "abc123",
				"commit": {
					"tree": {"url": %q},
					"author": {"date": "2024-05-01T10:00:00Z"}
				}
			}
		}`, srv.URL+"/trees/abc123")
	})
	mux.HandleFunc("/trees/abc123", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tree": [`)
		for i, p := range paths {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"path": %q}`, p)
		}
		fmt.Fprint(w, `]}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve_ReturnsCommitAndPaths(t *testing.T) {
	srv := newFakeAPI(t, []string{"Key.vdf", "441_123.manifest", "config.vdf"})

	r := NewResolver(Options{BaseURL: srv.URL})
	res, err := r.Resolve(context.Background(), "owner/repo", "440")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SHA != "abc123" {
		t.Fatalf("unexpected sha %q", res.SHA)
	}
	if res.CommitDate != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected commit date %q", res.CommitDate)
	}
	if len(res.Paths) != 3 || res.Paths[1] != "441_123.manifest" {
		t.Fatalf("unexpected paths %v", res.Paths)
	}
}

func TestResolve_MissingBranchIsNotFound(t *testing.T) {
	srv := newFakeAPI(t, nil)

	r := NewResolver(Options{BaseURL: srv.URL})
	_, err := r.Resolve(context.Background(), "owner/repo", "999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_BranchWithoutCommitIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message": "Branch not found"}`)
	}))
	defer srv.Close()

	r := NewResolver(Options{BaseURL: srv.URL})
	_, err := r.Resolve(context.Background(), "owner/repo", "440")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_EmptyTreeIsNotFound(t *testing.T) {
	srv := newFakeAPI(t, nil)

	r := NewResolver(Options{BaseURL: srv.URL})
	_, err := r.Resolve(context.Background(), "owner/repo", "440")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty tree, got %v", err)
	}
}

func TestResolve_ServerErrorIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewResolver(Options{BaseURL: srv.URL})
	_, err := r.Resolve(context.Background(), "owner/repo", "440")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("server errors must stay distinguishable from misses: %v", err)
	}
}
