// Package bundle orchestrates manifest-bundle retrieval: resolve an app id
// against a prioritized repository list, pull keys and manifests through the
// mirror fetcher, and persist everything into a per-app output directory.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"steamfetch/internal/gh"
	"steamfetch/internal/keyvdf"
	"steamfetch/internal/model"
	"steamfetch/internal/store"
)

// TreeResolver resolves an app id to a commit snapshot within one repository.
type TreeResolver interface {
	Resolve(ctx context.Context, repo, appID string) (gh.Resolution, error)
}

// FileFetcher returns the bytes of one file at one commit, or a soft failure.
type FileFetcher interface {
	Fetch(ctx context.Context, repo, sha, path string) ([]byte, error)
}

// keyFileNames are tried in order; the first non-empty document wins.
var keyFileNames = []string{"Key.vdf", "config.vdf"}

type Options struct {
	// Repositories is the explicit priority list; first match wins.
	Repositories []string
	// OutputRoot is the parent of per-app bundle directories (default ".").
	OutputRoot string
	// Workers bounds concurrent manifest downloads within one repository.
	Workers int
	// Logf receives progress lines; nil discards them.
	Logf func(format string, a ...any)
}

type Result struct {
	AppID      string
	GameName   string
	OutputDir  string
	Repository string
	CommitDate string
	Records    []model.DepotRecord
	Downloaded int
	Skipped    int
	Failed     int
}

type Retriever struct {
	resolver   TreeResolver
	fetcher    FileFetcher
	repos      []string
	outputRoot string
	workers    int

	logMu sync.Mutex
	logf  func(format string, a ...any)
}

func New(resolver TreeResolver, fetcher FileFetcher, opts Options) *Retriever {
	rt := &Retriever{
		resolver:   resolver,
		fetcher:    fetcher,
		repos:      append([]string(nil), opts.Repositories...),
		outputRoot: opts.OutputRoot,
		workers:    opts.Workers,
		logf:       opts.Logf,
	}
	if rt.outputRoot == "" {
		rt.outputRoot = "."
	}
	if rt.workers <= 0 {
		rt.workers = 1
	}
	if rt.logf == nil {
		rt.logf = func(string, ...any) {}
	}
	return rt
}

func (rt *Retriever) log(format string, a ...any) {
	rt.logMu.Lock()
	defer rt.logMu.Unlock()
	rt.logf(format, a...)
}

// Retrieve walks the repository priority list for rawAppID. The first
// repository that yields depot records wins and iteration stops; repositories
// without the branch or without keys are skipped. Individual manifest fetch
// failures only omit that file. The only errors returned are invalid app ids,
// context cancellation, filesystem failures and malformed key documents.
func (rt *Retriever) Retrieve(ctx context.Context, rawAppID, gameName string) (Result, error) {
	appID, err := model.NormalizeAppID(rawAppID)
	if err != nil {
		return Result{}, err
	}

	outDir := filepath.Join(rt.outputRoot, model.BundleDirName(appID, gameName))
	if err := store.Mkdir(outDir); err != nil {
		return Result{}, err
	}

	res := Result{AppID: appID, GameName: gameName, OutputDir: outDir}

	for _, repo := range rt.repos {
		rt.log("🔍 searching repository: %s", repo)

		resolution, err := rt.resolver.Resolve(ctx, repo, appID)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if errors.Is(err, gh.ErrNotFound) {
				rt.log("⚠ app %s not found in %s, trying next repository", appID, repo)
			} else {
				rt.log("⚠ resolve failed for %s: %v", repo, err)
			}
			continue
		}

		records, err := rt.collectKeys(ctx, resolution)
		if err != nil {
			return res, err
		}

		downloaded, skipped, failed, err := rt.downloadManifests(ctx, resolution, outDir)
		res.Downloaded += downloaded
		res.Skipped += skipped
		res.Failed += failed
		if err != nil {
			return res, err
		}

		if len(records) > 0 {
			res.Records = dedupeKeepFirst(records)
			res.Repository = repo
			res.CommitDate = resolution.CommitDate
			rt.log("✅ bundle last updated: %s", resolution.CommitDate)
			rt.log("✅ bundle retrieved: %s from %s", appID, repo)
			return res, nil
		}
		rt.log("⚠ no depot keys in %s, trying next repository", repo)
	}

	rt.log("⚠ bundle not found for %s in any repository", appID)
	return res, nil
}

// collectKeys tries the reserved key file names in priority order and stops
// at the first that parses to a non-empty record list. An unfetchable key
// file is soft; a malformed one aborts the run.
func (rt *Retriever) collectKeys(ctx context.Context, resolution gh.Resolution) ([]model.DepotRecord, error) {
	for _, name := range keyFileNames {
		data, err := rt.fetcher.Fetch(ctx, resolution.Repository, resolution.SHA, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		records, err := keyvdf.Extract(data)
		if err != nil {
			return nil, fmt.Errorf("extract %s from %s: %w", name, resolution.Repository, err)
		}
		if len(records) > 0 {
			rt.log("🔄 key document downloaded: %s", name)
			return records, nil
		}
	}
	return nil, nil
}

func (rt *Retriever) downloadManifests(ctx context.Context, resolution gh.Resolution, outDir string) (downloaded, skipped, failed int, err error) {
	paths := make([]string, 0, len(resolution.Paths))
	for _, p := range resolution.Paths {
		if strings.HasSuffix(p, model.ManifestSuffix) && filepath.Base(p) == p {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return 0, 0, 0, ctx.Err()
	}

	workers := rt.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	var dl, sk, fl atomic.Int64
	jobCh := make(chan string)
	var wg sync.WaitGroup

	workerFn := func() {
		defer wg.Done()
		for path := range jobCh {
			if ctx.Err() != nil {
				continue
			}
			savePath := filepath.Join(outDir, path)
			if store.FileExists(savePath) {
				rt.log("👋 manifest already present: %s", path)
				sk.Add(1)
				continue
			}
			data, ferr := rt.fetcher.Fetch(ctx, resolution.Repository, resolution.SHA, path)
			if ferr != nil {
				if ctx.Err() == nil {
					fl.Add(1)
				}
				continue
			}
			if werr := store.WriteBytes(savePath, data); werr != nil {
				rt.log("⚠ save failed: %s - %v", path, werr)
				fl.Add(1)
				continue
			}
			rt.log("🔄 manifest downloaded: %s", path)
			dl.Add(1)
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go workerFn()
	}
	for _, path := range paths {
		jobCh <- path
	}
	close(jobCh)
	wg.Wait()

	return int(dl.Load()), int(sk.Load()), int(fl.Load()), ctx.Err()
}

// dedupeKeepFirst makes the earliest record authoritative for each depot id.
func dedupeKeepFirst(records []model.DepotRecord) []model.DepotRecord {
	out := make([]model.DepotRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.DepotID] {
			continue
		}
		seen[r.DepotID] = true
		out = append(out, r)
	}
	return out
}
