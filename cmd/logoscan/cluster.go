package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"logoscan/internal/cluster"
	"logoscan/internal/config"
	"logoscan/internal/database"
	"logoscan/internal/imaging"
	"logoscan/internal/manifest"
	"logoscan/internal/model"
	"logoscan/internal/phash"
)

// NewClusterCmd creates the cluster command.
func NewClusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group staged logos by perceptual similarity",
		Long: `Cluster reads the staged-logo manifest, computes a perceptual hash for
each image, and groups logos whose hashes differ by at most the Hamming
distance threshold. Hashes already recorded in the stage database are
reused; only new or changed images are decoded.

Examples:
  # Cluster with the default threshold
  logoscan cluster

  # Stricter matching, JSON output to a file
  logoscan cluster --threshold 4 --json --output clusters.json`,
		Args: cobra.NoArgs,
		RunE: runClusterCmd,
	}

	cmd.Flags().StringP("manifest", "f", "",
		"Staged-logo manifest file (default: manifest in the data directory)")
	cmd.Flags().StringP("data-dir", "d", "",
		"Directory holding staged logos and the stage database (default: XDG data dir)")
	cmd.Flags().IntP("threshold", "T", config.DefaultThreshold,
		"Maximum Hamming distance for two logos to share a cluster (0-64)")
	cmd.Flags().Bool("db", true,
		"Reuse and record perceptual hashes in the stage database")
	cmd.Flags().BoolP("json", "j", false,
		"Output report in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output report in Markdown format")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of standard output")

	return cmd
}

// runClusterCmd executes the cluster command.
func runClusterCmd(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	threshold, err := cmd.Flags().GetInt("threshold")
	if err != nil {
		return err
	}
	if threshold < 0 || threshold > 64 {
		return config.ErrInvalidThreshold
	}

	cfg := config.NewConfig()
	if dataDir, err := cmd.Flags().GetString("data-dir"); err != nil {
		return err
	} else if dataDir != "" {
		cfg.DataDir = dataDir
	}

	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath()
	}

	useDB, err := cmd.Flags().GetBool("db")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))

	entries, err := manifest.Read(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	hashes, err := collectHashes(cmd, cfg, entries, useDB, logger)
	if err != nil {
		return err
	}

	partition := cluster.Partition(hashes, threshold)

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	output, closeOutput, err := openReportOutput(outputPath)
	if err != nil {
		return err
	}

	writer := newReportWriter(output, jsonOutput, markdownOutput)
	if _, err := writer.WritePartition(partition); err != nil {
		_ = closeOutput()
		return fmt.Errorf("write report: %w", err)
	}
	return closeOutput()
}

// collectHashes resolves a perceptual hash per manifest entry, preferring
// hashes recorded in the database and stored manifest values over decoding
// the image again. Entries whose image cannot be decoded are skipped.
func collectHashes(cmd *cobra.Command, cfg *config.Config, entries []model.StagedLogo, useDB bool, logger *slog.Logger) (map[string]phash.Hash, error) {
	var db *database.StageDB
	var known map[string]phash.Hash
	if useDB {
		var err error
		db, err = database.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open stage database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best-effort close on exit
		known, err = db.Hashes(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("load stored hashes: %w", err)
		}
	}

	hashes := make(map[string]phash.Hash, len(entries))
	for _, entry := range entries {
		if h, ok := known[entry.Domain]; ok {
			hashes[entry.Domain] = h
			continue
		}
		if entry.PerceptualHash != "" {
			if h, err := phash.Parse(entry.PerceptualHash); err == nil {
				hashes[entry.Domain] = h
				continue
			}
		}

		img, err := imaging.Load(entry.LocalPath)
		if err != nil {
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				logger.Warn("skipping unhashable image", "domain", entry.Domain, "path", entry.LocalPath)
			} else {
				logger.Warn("skipping undecodable image", "domain", entry.Domain, "path", entry.LocalPath, "error", err)
			}
			continue
		}
		h := phash.FromImage(img)
		hashes[entry.Domain] = h

		if db != nil {
			if err := db.SaveHash(cmd.Context(), entry.Domain, h); err != nil {
				logger.Warn("hash save failed", "domain", entry.Domain, "error", err)
			}
		}
	}
	return hashes, nil
}
