package main

import (
	"fmt"
	"strings"

	"github.com/hacktolive/userscout/internal/config"
	"github.com/spf13/cobra"
)

// NewSitesCmd creates the sites command.
func NewSitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List the configured sites",
		Long: `Sites loads and normalizes the site list, then prints each site's
name and URL template. Use it to verify a sites.yml before scanning.

Examples:
  # List all configured sites
  userscout sites

  # List sites from a custom list
  userscout sites --sites mylist.yml

  # Show only selected sites
  userscout sites --only "GitHub,GitLab"`,
		Args: cobra.NoArgs,
		RunE: runSitesCmd,
	}

	cmd.Flags().StringP("sites", "s", config.DefaultSitesFile,
		"Path to the YAML site list")
	cmd.Flags().String("only", "",
		"Comma-separated site names to show (case-insensitive)")

	return cmd
}

// runSitesCmd executes the sites command.
func runSitesCmd(cmd *cobra.Command, _ []string) error {
	sitesFile, err := cmd.Flags().GetString("sites")
	if err != nil {
		return err
	}
	only, err := cmd.Flags().GetString("only")
	if err != nil {
		return err
	}

	sites, err := config.LoadSites(sitesFile)
	if err != nil {
		return err
	}

	sites, matched := config.FilterSites(sites, splitNames(only))
	if !matched {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no site matches %q; showing all sites\n", only)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d site(s) configured in %s\n\n", len(sites), sitesFile)
	for _, site := range sites {
		fmt.Fprintf(out, "  %-20s %s\n", site.Name, site.URLTemplate)
	}

	return nil
}

// splitNames splits a comma-separated name list, dropping empty entries.
func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var names []string
	for _, name := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
