package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"logoscan/internal/config"
	"logoscan/internal/manifest"
	"logoscan/internal/preview"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a visual gallery of the clustering report",
		Long: `Serve renders the clustering report as an HTML gallery with inline
thumbnails, so near-duplicate logos can be reviewed by eye. The report
file is produced by "logoscan cluster"; the staged-logo manifest maps
each domain to its image on disk.

Examples:
  logoscan cluster --output clusters.txt
  logoscan serve --report clusters.txt`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("report", "r", "",
		"Clustering report file produced by the cluster command (required)")
	cmd.Flags().StringP("manifest", "f", "",
		"Staged-logo manifest file (default: manifest in the data directory)")
	cmd.Flags().StringP("data-dir", "d", "",
		"Directory holding staged logos and the manifest (default: XDG data dir)")
	cmd.Flags().StringP("addr", "a", config.DefaultPreviewAddr,
		"Listen address for the preview server")
	cmd.Flags().Int("thumbnail-size", config.DefaultThumbnailSize,
		"Thumbnail edge length in pixels")
	if err := cmd.MarkFlagRequired("report"); err != nil {
		panic(err)
	}

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	reportPath, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	thumbSize, err := cmd.Flags().GetInt("thumbnail-size")
	if err != nil {
		return err
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

	logger := setupLogger(getVerboseFlag(cmd))

	clusters, singletons, err := preview.ParseReportFile(reportPath)
	if err != nil {
		return fmt.Errorf("parse clustering report: %w", err)
	}
	entries, err := manifest.Read(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	server := preview.NewServer(clusters, singletons, entries,
		preview.WithThumbnailSize(thumbSize),
		preview.WithServerLogger(logger),
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", "addr", addr)
		fmt.Fprintf(cmd.OutOrStdout(), "Preview at http://%s/ (Ctrl-C to stop)\n", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown preview server: %w", err)
		}
		logger.Info("preview server stopped")
		return nil
	}
}
