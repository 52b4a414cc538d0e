package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for userscout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userscout",
		Short: "Check username presence across websites",
		Long: `userscout checks whether a username exists across a configurable list
of websites. Each site is probed concurrently through a per-domain rate
gate, positive responses are verified against evidence patterns, and
confirmed profile URLs are streamed to an append-only hits file.

Sites are described in a YAML list (sites.yml) and request headers in
headers.yml, so new sites can be added without rebuilding.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewSitesCmd())
	cmd.AddCommand(NewHistoryCmd())
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
