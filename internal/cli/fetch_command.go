package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"steamfetch/internal/bundle"
	"steamfetch/internal/catalog"
	"steamfetch/internal/config"
	"steamfetch/internal/gh"
	"steamfetch/internal/mirror"
	"steamfetch/internal/model"
	"steamfetch/internal/store"
	"steamfetch/internal/unlock"
)

func runFetch(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	settingsPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	outputRoot := fs.String("output-root", ".", "parent directory for bundle output")
	workers := fs.Int("workers", 0, "concurrent manifest downloads (0 = settings value)")
	noScript := fs.Bool("no-script", false, "download the bundle without generating the unlock script")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: steamfetch fetch <appid | game name>")
	}
	query := strings.TrimSpace(fs.Arg(0))

	settings, _, err := config.EnsureSettings(*settingsPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat := catalog.NewClient(catalog.Options{CachePath: settings.CatalogPath})
	appID, gameName, err := resolveQuery(ctx, cat, query)
	if err != nil {
		return err
	}

	logf := styledLogf
	if *jsonOut {
		logf = discardLogf
	}

	outDir := filepath.Join(*outputRoot, model.BundleDirName(appID, gameName))
	if err := store.Mkdir(outDir); err != nil {
		return err
	}
	lock, err := store.AcquireBundleLock(outDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	poolSize := *workers
	if poolSize <= 0 {
		poolSize = settings.Workers
	}
	retriever := bundle.New(
		gh.NewResolver(gh.Options{BaseURL: settings.APIBaseURL}),
		mirror.New(settings.Mirrors, mirror.Options{Logf: logf}),
		bundle.Options{
			Repositories: settings.Repositories,
			OutputRoot:   *outputRoot,
			Workers:      poolSize,
			Logf:         logf,
		},
	)

	res, err := retriever.Retrieve(ctx, appID, gameName)
	if err != nil {
		return err
	}

	scriptPath := ""
	if len(res.Records) > 0 && !*noScript {
		scriptPath, err = unlock.Write(res.Records, res.AppID, res.OutputDir)
		if err != nil {
			return err
		}
	}

	if *jsonOut {
		return printJSON(model.BundleReport{
			AppID:               res.AppID,
			GameName:            res.GameName,
			Repository:          res.Repository,
			CommitDate:          res.CommitDate,
			OutputDir:           res.OutputDir,
			Depots:              res.Records,
			ManifestsDownloaded: res.Downloaded,
			ManifestsSkipped:    res.Skipped,
			ManifestsFailed:     res.Failed,
			ScriptPath:          scriptPath,
		})
	}

	if len(res.Records) == 0 {
		return fmt.Errorf("no repository yielded depot keys for %s; downloaded manifests (if any) were kept for the next attempt", res.AppID)
	}

	display := res.GameName
	if display == "" {
		display = res.AppID
	}
	if scriptPath != "" {
		fmt.Println(okStyle.Render(fmt.Sprintf("✅ unlock files ready for %s", display)))
		fmt.Printf("drag everything inside %s onto the SteamTools floating window,\n", res.OutputDir)
		fmt.Printf("then close and reopen Steam to download and play %s\n", display)
	} else {
		fmt.Println(okStyle.Render(fmt.Sprintf("✅ bundle downloaded for %s (script skipped)", display)))
	}
	return nil
}

// resolveQuery turns user input into (appID, gameName): numeric input is used
// directly with a best-effort catalog name lookup, anything else goes through
// catalog search and, when several games match, the interactive picker.
func resolveQuery(ctx context.Context, cat *catalog.Client, query string) (string, string, error) {
	if appID, err := model.NormalizeAppID(query); err == nil {
		name, nameErr := cat.NameOf(ctx, appID)
		if nameErr != nil {
			// The catalog is a convenience here, not a requirement.
			name = ""
		}
		return appID, name, nil
	}

	matches, err := cat.Search(ctx, query)
	if err != nil {
		return "", "", err
	}
	if len(matches) == 0 {
		return "", "", fmt.Errorf("no games match %q; try another name", query)
	}
	if len(matches) == 1 {
		return strconv.Itoa(matches[0].AppID), matches[0].Name, nil
	}
	if !stdinIsTTY() {
		return "", "", fmt.Errorf("%d games match %q; rerun with an app id (see: steamfetch search %q)", len(matches), query, query)
	}

	app, ok, err := pickApp(matches)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", errors.New("selection cancelled")
	}
	styledLogf("✅ selected: %s (AppID: %d)", app.Name, app.AppID)
	return strconv.Itoa(app.AppID), app.Name, nil
}
