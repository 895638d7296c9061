// Package catalog looks up Steam app ids by name through the public app-list
// endpoint, with a local JSON cache so repeated searches stay offline.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"steamfetch/internal/store"
)

const DefaultBaseURL = "https://api.steampowered.com"

// App is one catalog entry.
type App struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

type Client struct {
	baseURL   string
	cachePath string
	client    *http.Client
}

type Options struct {
	// BaseURL defaults to the public Steam Web API.
	BaseURL string
	// CachePath is the JSON file holding the cached app list.
	CachePath string
	Client    *http.Client
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	cachePath := strings.TrimSpace(opts.CachePath)
	if cachePath == "" {
		cachePath = "steam_games.json"
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: base, cachePath: cachePath, client: client}
}

type appListResponse struct {
	AppList struct {
		Apps []App `json:"apps"`
	} `json:"applist"`
}

// Refresh downloads the full app list and rewrites the cache file.
func (c *Client) Refresh(ctx context.Context) ([]App, error) {
	url := c.baseURL + "/ISteamApps/GetAppList/v2/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch app list: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch app list: status %d", resp.StatusCode)
	}

	var parsed appListResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode app list: %w", err)
	}
	if err := store.WriteJSON(c.cachePath, parsed.AppList.Apps); err != nil {
		return nil, err
	}
	return parsed.AppList.Apps, nil
}

// load returns the cached app list, refreshing once when no cache exists.
func (c *Client) load(ctx context.Context) ([]App, error) {
	var apps []App
	err := store.ReadJSON(c.cachePath, &apps)
	if err == nil {
		return apps, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return c.Refresh(ctx)
}

// Search returns apps whose name contains term, case-insensitively.
func (c *Client) Search(ctx context.Context, term string) ([]App, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, fmt.Errorf("search term is required")
	}
	apps, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	var matches []App
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), needle) {
			matches = append(matches, app)
		}
	}
	return matches, nil
}

// NameOf resolves the display name for appID, or "" when unknown.
func (c *Client) NameOf(ctx context.Context, appID string) (string, error) {
	id, err := strconv.Atoi(appID)
	if err != nil {
		return "", fmt.Errorf("invalid app id %q", appID)
	}
	apps, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	for _, app := range apps {
		if app.AppID == id {
			return app.Name, nil
		}
	}
	return "", nil
}
