package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"steamfetch/internal/catalog"
	"steamfetch/internal/config"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	settingsPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	limit := fs.Int("limit", 20, "maximum matches to print")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: steamfetch search <game name>")
	}

	settings, _, err := config.EnsureSettings(*settingsPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat := catalog.NewClient(catalog.Options{CachePath: settings.CatalogPath})
	matches, err := cat.Search(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(matches)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no games match %q", fs.Arg(0))
	}

	shown := matches
	if *limit > 0 && len(shown) > *limit {
		shown = shown[:*limit]
	}
	styledLogf("🔍 found %d matching games:", len(matches))
	for i, app := range shown {
		fmt.Printf("%d. %s (AppID: %d)\n", i+1, app.Name, app.AppID)
	}
	if len(shown) < len(matches) {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("… %d more (raise --limit to see them)", len(matches)-len(shown))))
	}
	return nil
}

func runCatalogRefresh(args []string) error {
	fs := flag.NewFlagSet("catalog-refresh", flag.ContinueOnError)
	settingsPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, _, err := config.EnsureSettings(*settingsPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat := catalog.NewClient(catalog.Options{CachePath: settings.CatalogPath})
	apps, err := cat.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh game catalog: %w", err)
	}

	if *jsonOut {
		return printJSON(map[string]any{"apps": len(apps), "catalog_path": settings.CatalogPath})
	}
	styledLogf("✅ game catalog updated: %d apps in %s", len(apps), settings.CatalogPath)
	return nil
}
