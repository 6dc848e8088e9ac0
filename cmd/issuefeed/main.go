package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"issuefeed/internal/config"
	"issuefeed/internal/feed"
	"issuefeed/internal/fetcher"
	"issuefeed/internal/filter"
	"issuefeed/internal/generator"
	"issuefeed/internal/markdown"
	"issuefeed/internal/output"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error("generate site", "error", err)
		cancel()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "issuefeed",
		Usage:     "Publish GitHub issues and pull requests as RSS feeds",
		ArgsUsage: "<outputDirectory> [githubToken]",
		Action:    run,
	}
}

func run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 1 || c.Args().Len() > 2 {
		return errors.New("usage: issuefeed <outputDirectory> [githubToken]")
	}

	cfg, err := config.Load(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	f, err := fetcher.New(&http.Client{Timeout: cfg.RequestTimeout}, fetcher.Options{
		Token:    cfg.GitHubToken,
		BaseURL:  cfg.APIBaseURL,
		MaxItems: cfg.MaxItems,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		return err
	}

	gen := generator.New(
		f,
		filter.NewRules(cfg.ExcludedUsers, cfg.ExcludedLabels),
		feed.NewBuilder(markdown.Default(), cfg.Site.GeneratorURL, cfg.Site.Author),
		output.NewWriter(cfg.OutputDir, cfg.Site.RootURL, log),
		log,
		generator.Options{Concurrency: cfg.Concurrency, FailFast: cfg.FailFast},
	)

	log.Info("starting", "repositories", len(cfg.Repositories), "output", cfg.OutputDir)
	if err := gen.Run(ctx, cfg.Repositories); err != nil {
		return err
	}
	log.Info("done")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
