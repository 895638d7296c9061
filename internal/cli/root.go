package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	var err error
	switch args[0] {
	case "fetch":
		err = runFetch(args[1:])
	case "search":
		err = runSearch(args[1:])
	case "repos":
		err = runRepos(args[1:])
	case "catalog-refresh":
		err = runCatalogRefresh(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	return err
}

func printRootUsage() {
	fmt.Println("steamfetch: manifest bundle fetcher for SteamTools")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  steamfetch fetch 440")
	fmt.Println("  steamfetch fetch \"team fortress\"")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  fetch            download the manifest bundle for an app id or game name")
	fmt.Println("                   and generate its unlock script")
	fmt.Println("  search           search the Steam catalog by name")
	fmt.Println("  repos            list/add/remove source repositories (priority order)")
	fmt.Println("  catalog-refresh  re-download the cached Steam app list")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Repositories are tried in order; the first with depot keys wins")
	fmt.Println("  - Already-downloaded manifests are never re-fetched")
}
