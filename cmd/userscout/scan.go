package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hacktolive/userscout/internal/config"
	"github.com/hacktolive/userscout/internal/database"
	"github.com/hacktolive/userscout/internal/engine"
	"github.com/hacktolive/userscout/internal/gate"
	ulog "github.com/hacktolive/userscout/internal/log"
	"github.com/hacktolive/userscout/internal/model"
	"github.com/hacktolive/userscout/internal/probe"
	"github.com/hacktolive/userscout/internal/report"
	"github.com/hacktolive/userscout/internal/sink"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [username]...",
		Short: "Check usernames across the configured sites",
		Long: `Scan probes every configured site for each username and reports
where the account exists.

Each probe substitutes the username into the site's URL template, fetches
the page, and verifies HTTP 200 responses against the site's evidence
patterns. Confirmed profile URLs stream into an append-only hits file as
they are found; batch exports are written after the run completes.

Examples:
  # Check one username across all sites
  userscout scan alice

  # Check several usernames
  userscout scan alice bob carol

  # Read usernames from a file (one per line)
  userscout scan --userlist users.txt

  # Limit the run to specific sites
  userscout scan --only "GitHub,GitLab" alice

  # Count any HTTP 200 as a hit instead of requiring evidence
  userscout scan --any-200 alice

  # Route everything through a SOCKS5 proxy
  userscout scan --proxy socks5://127.0.0.1:9050 alice

  # Export results after the run
  userscout scan --csv-out hits.csv --md-out report.md alice`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Input flags
	cmd.Flags().StringP("userlist", "u", "",
		"Read usernames from a file, one per line")
	cmd.Flags().StringP("sites", "s", config.DefaultSitesFile,
		"Path to the YAML site list")
	cmd.Flags().String("headers", config.DefaultHeadersFile,
		"Path to the YAML header configuration")
	cmd.Flags().String("only", "",
		"Comma-separated site names to check (case-insensitive)")

	// Probe behavior flags
	cmd.Flags().IntP("threads", "n", config.DefaultThreads,
		"Requested worker count (clamped to five per CPU)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request HTTP timeout")
	cmd.Flags().StringP("proxy", "x", "",
		"Proxy URL (http://, https://, or socks5://)")
	cmd.Flags().Int("domain-limit", config.DefaultDomainLimit,
		"Maximum concurrent requests per target domain")

	// Hit mode flags
	cmd.Flags().Bool("evidence-only", true,
		"Persist only evidence-verified hits (default mode)")
	cmd.Flags().Bool("any-200", false,
		"Persist any HTTP 200 response, verified or not")
	cmd.MarkFlagsMutuallyExclusive("evidence-only", "any-200")

	// Output flags
	cmd.Flags().String("links-out", config.DefaultLinksOut,
		"Append-only deduplicated hit URL file (empty disables)")
	cmd.Flags().String("hits-out", "",
		"Write hits as JSONL to the specified file after the run")
	cmd.Flags().String("csv-out", "",
		"Write hits as CSV to the specified file after the run")
	cmd.Flags().String("xlsx-out", "",
		"Write hits as an Excel workbook after the run")
	cmd.Flags().String("md-out", "",
		"Write a Markdown run summary after the run")
	cmd.Flags().Bool("no-color", false,
		"Disable ANSI colors on console output")
	cmd.Flags().Bool("no-db", false,
		"Do not record hits in the hit-history database")
	cmd.Flags().Bool("no-banner", false,
		"Suppress the startup banner")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}

	// No usernames anywhere: ask interactively, like the classic checker.
	if len(cfg.Usernames) == 0 {
		cfg.Usernames, err = promptUsernames(cmd)
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := ulog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel on interrupt: stop submitting new probes, let in-flight
	// ones finish and produce their results.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	noBanner, err := cmd.Flags().GetBool("no-banner")
	if err != nil {
		return err
	}

	return runScan(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), noBanner)
}

// buildScanConfig creates a Config from cobra command flags.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Usernames = args

	var err error

	userlist, err := cmd.Flags().GetString("userlist")
	if err != nil {
		return nil, err
	}
	if userlist != "" {
		fromFile, err := config.ReadUserList(userlist)
		if err != nil {
			return nil, err
		}
		cfg.Usernames = append(cfg.Usernames, fromFile...)
	}

	cfg.SitesFile, err = cmd.Flags().GetString("sites")
	if err != nil {
		return nil, err
	}

	cfg.HeadersFile, err = cmd.Flags().GetString("headers")
	if err != nil {
		return nil, err
	}

	only, err := cmd.Flags().GetString("only")
	if err != nil {
		return nil, err
	}
	cfg.Only = splitNames(only)

	cfg.Threads, err = cmd.Flags().GetInt("threads")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Proxy, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.DomainLimit, err = cmd.Flags().GetInt("domain-limit")
	if err != nil {
		return nil, err
	}

	any200, err := cmd.Flags().GetBool("any-200")
	if err != nil {
		return nil, err
	}
	if any200 {
		cfg.EvidenceOnly = false
	} else {
		cfg.EvidenceOnly, err = cmd.Flags().GetBool("evidence-only")
		if err != nil {
			return nil, err
		}
	}

	cfg.LinksOut, err = cmd.Flags().GetString("links-out")
	if err != nil {
		return nil, err
	}

	cfg.HitsOut, err = cmd.Flags().GetString("hits-out")
	if err != nil {
		return nil, err
	}

	cfg.CSVOut, err = cmd.Flags().GetString("csv-out")
	if err != nil {
		return nil, err
	}

	cfg.XLSXOut, err = cmd.Flags().GetString("xlsx-out")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownOut, err = cmd.Flags().GetString("md-out")
	if err != nil {
		return nil, err
	}

	cfg.NoColor, err = cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// promptUsernames asks for usernames on the terminal when none were
// given as arguments or via --userlist.
func promptUsernames(cmd *cobra.Command) ([]string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Enter usernames (space-separated): ")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read usernames: %w", err)
	}
	return strings.Fields(line), nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out, errOut io.Writer, noBanner bool) error {
	sites, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		return err
	}

	sites, matched := config.FilterSites(sites, cfg.Only)
	if !matched {
		fmt.Fprintf(errOut, "Warning: no site matches %q; checking all %d sites\n",
			strings.Join(cfg.Only, ","), len(sites))
	}
	if len(sites) == 0 {
		return fmt.Errorf("%w: %s", config.ErrEmptySiteList, cfg.SitesFile)
	}

	headerCfg, err := config.LoadHeaders(cfg.HeadersFile)
	if err != nil {
		return err
	}

	tasks := model.BuildTasks(cfg.Usernames, sites)

	logger.Info("starting scan",
		"usernames", cfg.Usernames,
		"sites", len(sites),
		"probes", len(tasks),
		"threads", cfg.Threads,
		"evidenceOnly", cfg.EvidenceOnly,
		"proxy", cfg.Proxy,
	)

	if !noBanner {
		printBanner(out, cfg, len(sites), len(tasks))
	}

	client, err := probe.NewClient(cfg.Timeout, cfg.Proxy)
	if err != nil {
		return err
	}

	prober := probe.NewProber(client, gate.NewRegistry(cfg.DomainLimit),
		probe.WithHeaders(headerCfg.SessionHeaders()),
		probe.WithEvidenceOnly(cfg.EvidenceOnly),
		probe.WithLogger(logger),
	)

	printer := report.NewConsolePrinter(out, cfg.NoColor)
	agg := report.NewAggregator(cfg.Usernames, len(sites), cfg.EvidenceOnly)

	observers := []engine.Option{
		engine.WithWorkers(cfg.Threads),
		engine.WithLogger(logger),
		engine.WithObserver(printer.Observe),
	}

	if cfg.LinksOut != "" {
		links, err := sink.Open(cfg.LinksOut)
		if err != nil {
			return err
		}
		defer links.Close() //nolint:errcheck // Best effort close
		observers = append(observers, engine.WithObserver(func(res *model.ProbeResult) {
			if !res.ShouldPersist {
				return
			}
			if _, err := links.Offer(res.URL); err != nil {
				logger.Error("failed to append hit URL", "url", res.URL, "error", err)
			}
		}))
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open hit database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best effort close
		logger.Info("hit database opened", "dir", cfg.DBDir)

		// Hits found before a shutdown signal still get recorded.
		saveCtx := context.WithoutCancel(ctx)
		observers = append(observers, engine.WithObserver(func(res *model.ProbeResult) {
			if !res.ShouldPersist {
				return
			}
			if err := db.SaveHit(saveCtx, res); err != nil {
				logger.Error("failed to save hit", "url", res.URL, "error", err)
			}
		}))
	}

	observers = append(observers, engine.WithObserver(agg.Observe))

	runErr := engine.NewEngine(prober, observers...).Run(ctx, tasks)

	summary := agg.Summary()
	printer.PrintSummary(summary)

	if err := writeExports(cfg, summary, out); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("scan interrupted: %w", runErr)
	}
	return nil
}

// printBanner writes the startup banner and run parameters.
func printBanner(out io.Writer, cfg *config.Config, siteCount, taskCount int) {
	mode := "evidence-only"
	if !cfg.EvidenceOnly {
		mode = "any HTTP 200"
	}

	fmt.Fprintf(out, "userscout %s\n", getVersion())
	fmt.Fprintf(out, "Checking %d username(s) across %d site(s) (%d probes, mode: %s)\n",
		len(cfg.Usernames), siteCount, taskCount, mode)
	if cfg.LinksOut != "" {
		fmt.Fprintf(out, "Confirmed URLs stream to %s; press Ctrl+C to stop early.\n", cfg.LinksOut)
	}
	fmt.Fprintln(out)
}

// exportTarget pairs an output path with its writer constructor.
type exportTarget struct {
	path  string
	build func(io.Writer) report.Writer
}

// writeExports writes the requested batch exports after the run. All
// requested formats render the same summary, so they are fanned out
// through one MultiWriter pass.
func writeExports(cfg *config.Config, summary *report.RunSummary, out io.Writer) error {
	targets := []exportTarget{
		{cfg.HitsOut, func(w io.Writer) report.Writer { return report.NewJSONLWriter(w) }},
		{cfg.CSVOut, func(w io.Writer) report.Writer { return report.NewCSVWriter(w) }},
		{cfg.XLSXOut, func(w io.Writer) report.Writer { return report.NewXLSXWriter(w) }},
		{cfg.MarkdownOut, func(w io.Writer) report.Writer { return report.NewMarkdownWriter(w) }},
	}

	var (
		writers []report.Writer
		files   []*os.File
		paths   []string
	)
	closeAll := func() {
		for _, f := range files {
			_ = f.Close() //nolint:errcheck // Best effort cleanup
		}
	}

	for _, target := range targets {
		if target.path == "" {
			continue
		}
		f, err := openExportFile(target.path)
		if err != nil {
			closeAll()
			return err
		}
		files = append(files, f)
		writers = append(writers, target.build(f))
		paths = append(paths, target.path)
	}
	if len(writers) == 0 {
		return nil
	}

	if _, err := report.NewMultiWriter(writers...).Write(summary); err != nil {
		closeAll()
		return fmt.Errorf("failed to write exports: %w", err)
	}

	for i, f := range files {
		if err := f.Close(); err != nil {
			files = files[i+1:]
			closeAll()
			return fmt.Errorf("failed to close %s: %w", paths[i], err)
		}
		fmt.Fprintf(out, "Wrote %s\n", paths[i])
	}
	return nil
}

// openExportFile creates one export file with secure permissions.
// Hit lists reveal what was searched for, so they are owner-readable only.
func openExportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
