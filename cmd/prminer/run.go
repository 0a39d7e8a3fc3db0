package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/batch"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/config"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/contentcache"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/fetch"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/gh"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/record"
)

var (
	configPath string
	verbose    bool
	noProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, enrich and persist pull requests for the configured repositories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML configuration")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	runCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(runCmd)
}

func run(ctx context.Context) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Repositories) == 0 {
		return errors.New("no repositories configured")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A broken cache is an inconvenience, not a reason to stop mining.
	var cache *contentcache.Cache
	cache, err = contentcache.Open(filepath.Join(cfg.OutputDir, cfg.CacheDB))
	if err != nil {
		slog.Warn("cache.open_failed", "err", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	client := gh.NewClient(gh.NewTokenPool(cfg.Tokens), gh.Options{Cache: cache})
	orchestrator := fetch.New(
		client,
		record.NewAssembler(cfg.Vocabularies),
		batch.NewWriter(),
		fetch.Options{
			Target:         cfg.Target,
			FetchBatchSize: cfg.FetchBatchSize,
			SaveEvery:      cfg.SaveEvery,
			Workers:        cfg.Workers,
			ShowProgress:   !noProgress,
		},
	)

	pterm.DefaultSection.Println("Mining pull requests")
	pterm.Info.Printf("repositories: %d, tokens: %d, output: %s\n",
		len(cfg.Repositories), len(cfg.Tokens), cfg.OutputDir)

	if err := orchestrator.Run(ctx, cfg.Repositories, cfg.OutputDir); err != nil {
		if errors.Is(err, context.Canceled) {
			pterm.Warning.Println("interrupted; progress up to the last persisted batch is kept")
			return nil
		}
		return err
	}
	pterm.Success.Println("done")
	return nil
}
