package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/publish"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docpublish.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	Repo    string `short:"r" help:"Repository to operate on (overrides the configured path)"`

	Publish struct {
		Tag string `arg:"" help:"Tag or ref carrying the version to publish (e.g. v1.2.0, release-1.2.0)"`
	} `cmd:"" help:"Generate documentation for a tagged version and commit it to the publish branch"`

	Versions struct{} `cmd:"" help:"List the published versions on the publish branch"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "publish <tag>":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runPublish(cfg, CLI.Publish.Tag); err != nil {
			slog.Error("Publish failed", "error", err)
			os.Exit(1)
		}
	case "versions":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runVersions(cfg); err != nil {
			slog.Error("Listing versions failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.Repo != "" {
		cfg.Repo = CLI.Repo
	}
	return cfg, nil
}

func runPublish(cfg *config.Config, tag string) error {
	result, err := publish.New(cfg, "").Run(tag)
	if err != nil {
		return err
	}
	if result.Commit.NoOp {
		fmt.Printf("%s already published, nothing to commit\n", result.Version)
	} else {
		fmt.Printf("Published %s (latest: %s)\n", result.Version, result.Latest)
	}
	return nil
}

func runVersions(cfg *config.Config) error {
	labels, latest, err := publish.New(cfg, "").Versions()
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		fmt.Println("No versions published")
		return nil
	}
	for _, label := range labels {
		if label.Equal(latest) {
			fmt.Printf("%s (latest)\n", label)
		} else {
			fmt.Println(label)
		}
	}
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", "path", configPath, "force", force)
	return config.Init(configPath, force)
}
