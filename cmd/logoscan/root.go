package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for logoscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logoscan",
		Short: "Brand logo harvesting and deduplication tool",
		Long: `logoscan discovers brand logos on company websites and detects
duplicate logos across domains.

The harvest runs in stages: extract ranks candidate logo URLs from a
page's markup, fetch stages the winning images locally, cluster groups
visually identical logos by perceptual hash, and serve opens a local
gallery of the clusters.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewClusterCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
