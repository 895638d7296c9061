package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"steamfetch/internal/store"
)

const (
	DefaultSettingsPath = "config/steamfetch.json"
	settingsSchema      = 1

	DefaultAPIBaseURL  = "https://api.github.com"
	DefaultWorkers     = 4
	DefaultCatalogPath = "steam_games.json"
)

// DefaultRepositories is the upstream priority order; first match wins.
var DefaultRepositories = []string{
	"ManifestHub/ManifestHub",
	"hansaes/ManifestAutoUpdate",
	"Auiowu/ManifestAutoUpdate",
	"tymolu233/ManifestAutoUpdate",
	"qwq-xinkeng/awaqwqmain",
}

// DefaultMirrors are URL templates tried in order for every file fetch.
// Placeholders: {repo}, {sha}, {path}.
var DefaultMirrors = []string{
	"https://gcore.jsdelivr.net/gh/{repo}@{sha}/{path}",
	"https://fastly.jsdelivr.net/gh/{repo}@{sha}/{path}",
	"https://cdn.jsdelivr.net/gh/{repo}@{sha}/{path}",
	"https://ghproxy.org/https://raw.githubusercontent.com/{repo}/{sha}/{path}",
	"https://raw.dgithub.xyz/{repo}/{sha}/{path}",
}

type Settings struct {
	SchemaVersion int      `json:"schema_version"`
	UpdatedAt     string   `json:"updated_at"`
	APIBaseURL    string   `json:"api_base_url,omitempty"`
	Repositories  []string `json:"repositories"`
	Mirrors       []string `json:"mirrors"`
	Workers       int      `json:"workers,omitempty"`
	CatalogPath   string   `json:"catalog_path,omitempty"`
}

func defaultSettings() Settings {
	return Settings{
		SchemaVersion: settingsSchema,
		APIBaseURL:    DefaultAPIBaseURL,
		Repositories:  append([]string(nil), DefaultRepositories...),
		Mirrors:       append([]string(nil), DefaultMirrors...),
		Workers:       DefaultWorkers,
		CatalogPath:   DefaultCatalogPath,
	}
}

func normalizePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultSettingsPath
	}
	return p
}

func normalizeSettings(raw Settings) Settings {
	norm := raw
	norm.SchemaVersion = settingsSchema
	if strings.TrimSpace(norm.APIBaseURL) == "" {
		norm.APIBaseURL = DefaultAPIBaseURL
	}
	norm.APIBaseURL = strings.TrimRight(strings.TrimSpace(norm.APIBaseURL), "/")
	norm.Repositories = dedupeList(norm.Repositories)
	if len(norm.Repositories) == 0 {
		norm.Repositories = append([]string(nil), DefaultRepositories...)
	}
	norm.Mirrors = dedupeList(norm.Mirrors)
	if len(norm.Mirrors) == 0 {
		norm.Mirrors = append([]string(nil), DefaultMirrors...)
	}
	if norm.Workers <= 0 {
		norm.Workers = DefaultWorkers
	}
	if strings.TrimSpace(norm.CatalogPath) == "" {
		norm.CatalogPath = DefaultCatalogPath
	}
	return norm
}

// dedupeList trims entries and drops blanks and duplicates, keeping the
// first occurrence so priority order survives.
func dedupeList(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		v := strings.TrimSpace(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// EnsureSettings loads the settings file, creating it with defaults when it
// does not exist. The second return reports whether the file was created.
func EnsureSettings(path string) (Settings, bool, error) {
	p := normalizePath(path)
	var s Settings
	err := store.ReadJSON(p, &s)
	if err == nil {
		return normalizeSettings(s), false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Settings{}, false, err
	}

	s = defaultSettings()
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := store.WriteJSON(p, s); err != nil {
		return Settings{}, false, err
	}
	return s, true, nil
}

func saveSettings(path string, s Settings) error {
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return store.WriteJSON(normalizePath(path), s)
}

type AddRepositoryOptions struct {
	SettingsPath string
	Repository   string
	// Front prepends instead of appending, making the repository the
	// highest-priority source.
	Front bool
}

type AddRepositoryResult struct {
	Repository   string   `json:"repository"`
	Repositories []string `json:"repositories"`
	Added        bool     `json:"added"`
}

func AddRepository(opts AddRepositoryOptions) (AddRepositoryResult, error) {
	repo := strings.TrimSpace(opts.Repository)
	if repo == "" || !strings.Contains(repo, "/") {
		return AddRepositoryResult{}, fmt.Errorf("repository must be in owner/name form, got %q", opts.Repository)
	}

	s, _, err := EnsureSettings(opts.SettingsPath)
	if err != nil {
		return AddRepositoryResult{}, err
	}
	for _, existing := range s.Repositories {
		if existing == repo {
			return AddRepositoryResult{Repository: repo, Repositories: s.Repositories, Added: false}, nil
		}
	}
	if opts.Front {
		s.Repositories = append([]string{repo}, s.Repositories...)
	} else {
		s.Repositories = append(s.Repositories, repo)
	}
	if err := saveSettings(opts.SettingsPath, s); err != nil {
		return AddRepositoryResult{}, err
	}
	return AddRepositoryResult{Repository: repo, Repositories: s.Repositories, Added: true}, nil
}

type RemoveRepositoryOptions struct {
	SettingsPath string
	Repository   string
}

type RemoveRepositoryResult struct {
	Repository   string   `json:"repository"`
	Repositories []string `json:"repositories"`
	Removed      bool     `json:"removed"`
}

func RemoveRepository(opts RemoveRepositoryOptions) (RemoveRepositoryResult, error) {
	repo := strings.TrimSpace(opts.Repository)
	if repo == "" {
		return RemoveRepositoryResult{}, fmt.Errorf("repository is required")
	}

	s, _, err := EnsureSettings(opts.SettingsPath)
	if err != nil {
		return RemoveRepositoryResult{}, err
	}
	for i, existing := range s.Repositories {
		if existing == repo {
			s.Repositories = append(s.Repositories[:i], s.Repositories[i+1:]...)
			if err := saveSettings(opts.SettingsPath, s); err != nil {
				return RemoveRepositoryResult{}, err
			}
			return RemoveRepositoryResult{Repository: repo, Repositories: s.Repositories, Removed: true}, nil
		}
	}
	return RemoveRepositoryResult{}, fmt.Errorf("repository %q not found", repo)
}
