package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hacktolive/userscout/internal/config"
	"github.com/hacktolive/userscout/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [username]",
		Short: "Show hits recorded by previous scans",
		Long: `History queries the hit database that scan maintains across runs.

Without arguments it lists every username with recorded hits. With a
username it lists that user's hits, most recently seen first.

Examples:
  # List usernames with recorded hits
  userscout history

  # Show all recorded hits for one username
  userscout history alice

  # Show one specific hit
  userscout history alice --site GitHub --url https://github.com/alice`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the hit-history database")
	cmd.Flags().String("site", "",
		"Show only the hit for this site (requires --url)")
	cmd.Flags().String("url", "",
		"Show only the hit at this URL (requires --site)")
	cmd.MarkFlagsRequiredTogether("site", "url")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// History never creates a database: no scans recorded means there
	// is nothing to show.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open hit database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort close

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		return listRecordedUsernames(ctx, db, out)
	}
	username := args[0]

	site, err := cmd.Flags().GetString("site")
	if err != nil {
		return err
	}
	url, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	if site != "" {
		rec, err := db.GetHit(ctx, username, site, url)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no recorded hit for %s on %s at %s", username, site, url)
		}
		printHit(out, *rec)
		return nil
	}

	hits, err := db.HitsForUsername(ctx, username)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintf(out, "No recorded hits for %s\n", username)
		return nil
	}

	fmt.Fprintf(out, "%d hit(s) recorded for %s\n\n", len(hits), username)
	for _, hit := range hits {
		printHit(out, hit)
	}
	return nil
}

// listRecordedUsernames prints every username with at least one hit.
func listRecordedUsernames(ctx context.Context, db *database.HitDB, out io.Writer) error {
	usernames, err := db.ListUsernames(ctx)
	if err != nil {
		return err
	}
	total, err := db.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d hit(s) recorded for %d username(s)\n\n", total, len(usernames))
	for _, username := range usernames {
		fmt.Fprintf(out, "  %s\n", username)
	}
	return nil
}

// printHit writes one stored hit with its recorded state.
func printHit(out io.Writer, rec database.HitRecord) {
	fmt.Fprintf(out, "  [+] %-20s %s\n", rec.Site, rec.URL)
	fmt.Fprintf(out, "      last seen %s", rec.LastSeen.Format("2006-01-02 15:04:05"))
	if rec.Verified {
		fmt.Fprint(out, ", verified")
	}
	if rec.Title != "" {
		fmt.Fprintf(out, ", title %q", rec.Title)
	}
	fmt.Fprintln(out)
}
