package cli

import (
	"flag"
	"fmt"

	"steamfetch/internal/config"
)

func runRepos(args []string) error {
	if len(args) == 0 {
		return reposList(nil)
	}
	switch args[0] {
	case "list":
		return reposList(args[1:])
	case "add":
		return reposAdd(args[1:])
	case "remove":
		return reposRemove(args[1:])
	default:
		return fmt.Errorf("unknown repos subcommand %q (expected list, add or remove)", args[0])
	}
}

func reposList(args []string) error {
	fs := flag.NewFlagSet("repos list", flag.ContinueOnError)
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
	if *jsonOut {
		return printJSON(settings.Repositories)
	}
	fmt.Println("source repositories (priority order):")
	for i, repo := range settings.Repositories {
		fmt.Printf("%d. %s\n", i+1, repo)
	}
	return nil
}

func reposAdd(args []string) error {
	fs := flag.NewFlagSet("repos add", flag.ContinueOnError)
	settingsPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	front := fs.Bool("front", false, "insert at the top of the priority list")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: steamfetch repos add [--front] <owner/name>")
	}

	result, err := config.AddRepository(config.AddRepositoryOptions{
		SettingsPath: *settingsPath,
		Repository:   fs.Arg(0),
		Front:        *front,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(result)
	}
	if result.Added {
		styledLogf("✅ repository added: %s", result.Repository)
	} else {
		styledLogf("👋 repository already configured: %s", result.Repository)
	}
	return nil
}

func reposRemove(args []string) error {
	fs := flag.NewFlagSet("repos remove", flag.ContinueOnError)
	settingsPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: steamfetch repos remove <owner/name>")
	}

	result, err := config.RemoveRepository(config.RemoveRepositoryOptions{
		SettingsPath: *settingsPath,
		Repository:   fs.Arg(0),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(result)
	}
	styledLogf("✅ repository removed: %s", result.Repository)
	return nil
}
