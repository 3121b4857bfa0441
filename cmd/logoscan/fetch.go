package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"logoscan/internal/config"
	"logoscan/internal/database"
	"logoscan/internal/manifest"
	"logoscan/internal/model"
	"logoscan/internal/pipeline"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [domains...]",
		Short: "Harvest and stage the best logo for each domain",
		Long: `Fetch runs the full harvest for each target domain: it downloads the
home page, ranks logo candidates, downloads the winner into the staging
directory, and computes its perceptual hash. Results are recorded in the
staged-logo manifest (and the stage database unless --db=false).

Domains that fail (unreachable site, nothing above the minimum score,
undecodable image) are reported and skipped; they never stop the batch.

Examples:
  # Harvest two sites
  logoscan fetch acme.com globex.com

  # Harvest a list file (one domain per line, # comments allowed)
  logoscan fetch --list domains.txt

  # Custom staging area and politeness settings
  logoscan fetch --list domains.txt --data-dir ./harvest --delay 2s

Configuration file (.logoscan) example:
  sites:
    acme.com:
      logoUrl: "https://acme.com/assets/brand.png"
    gated.example:
      cookie: "session_id=abc123"
    noisy.example:
      skip: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	cmd.Flags().StringP("list", "l", "",
		"File with target domains, one per line")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().DurationP("delay", "D", config.DefaultFetchDelay,
		"Politeness delay between requests to one site")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of domains harvested in parallel")
	cmd.Flags().IntP("min-score", "s", config.DefaultMinScore,
		"Minimum candidate score required before downloading")
	cmd.Flags().StringP("data-dir", "d", "",
		"Directory for staged logos and the manifest (default: XDG data dir)")
	cmd.Flags().Bool("db", true,
		"Record results in the SQLite stage database")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .logoscan in current or home directory)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildFetchConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runFetch(ctx, cmd, cfg, logger)
}

// buildFetchConfig creates a Config from cobra command flags.
func buildFetchConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.FetchDelay, err = cmd.Flags().GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.MinScore, err = cmd.Flags().GetInt("min-score"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = cmd.Flags().GetBool("db"); err != nil {
		return nil, err
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	cfg.Targets = args
	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		fromList, err := readTargetList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, fromList...)
	}

	return cfg, nil
}

// loadSiteConfigs resolves and loads the optional YAML config file.
// An explicitly given path must exist; a missing default file is fine.
func loadSiteConfigs(cfg *config.Config) error {
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		siteConfigs, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = siteConfigs
		return nil
	}
	if cfg.ConfigFilePath != "" {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}
	cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	return nil
}

// runFetch executes the harvest batch and records the results.
func runFetch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting harvest",
		"targets", len(cfg.Targets),
		"concurrency", cfg.Concurrency,
		"dataDir", cfg.DataDir,
	)

	var db *database.StageDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open stage database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best-effort close on exit
	}

	client := &http.Client{Timeout: cfg.Timeout}

	processor := pipeline.NewBatchProcessor(
		func(domain string) (*pipeline.Pipeline, *pipeline.Job) {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(
				pipeline.NewFetchPageStep(client, cfg),
				pipeline.NewScoreStep(),
				pipeline.NewSelectStep(cfg.MinScore),
				pipeline.NewDownloadStep(client, cfg),
				pipeline.NewHashStep(),
			)
			return p, &pipeline.Job{
				Domain: domain,
				Site:   cfg.SiteConfigs.GetSiteConfig(domain),
			}
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	jobs, batchErr := processor.ProcessBatch(ctx, cfg.Targets)

	staged := make([]model.StagedLogo, 0, len(jobs))
	failed := 0
	for _, job := range jobs {
		if job.Err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", job.Domain, job.Err)
			continue
		}
		staged = append(staged, job.Logo)
		fmt.Fprintf(cmd.OutOrStdout(), "OK   %s -> %s\n", job.Domain, job.Logo.LocalPath)

		if db != nil {
			if err := db.SaveLogo(ctx, job.Logo); err != nil {
				logger.Warn("database save failed", "domain", job.Domain, "error", err)
			}
			if err := db.SaveCandidates(ctx, job.Domain, job.Candidates); err != nil {
				logger.Warn("candidate save failed", "domain", job.Domain, "error", err)
			}
		}
	}

	// Merge with any previous manifest so incremental harvests add up.
	if existing, err := manifest.Read(cfg.ManifestPath()); err == nil {
		staged = mergeStaged(existing, staged)
	}
	if err := manifest.Write(cfg.ManifestPath(), staged); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Staged %d logos (%d failed); manifest: %s\n",
		len(staged), failed, cfg.ManifestPath())

	if batchErr != nil && !errors.Is(batchErr, context.Canceled) {
		return batchErr
	}
	return nil
}

// mergeStaged overlays new staged logos onto existing manifest entries,
// newest record per domain winning.
func mergeStaged(existing, updates []model.StagedLogo) []model.StagedLogo {
	byDomain := make(map[string]model.StagedLogo, len(existing)+len(updates))
	for _, e := range existing {
		byDomain[e.Domain] = e
	}
	for _, u := range updates {
		byDomain[u.Domain] = u
	}

	merged := make([]model.StagedLogo, 0, len(byDomain))
	for _, e := range byDomain {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Domain < merged[j].Domain })
	return merged
}
