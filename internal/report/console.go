package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hacktolive/userscout/internal/model"
)

// ANSI color sequences for the live result stream.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// ConsolePrinter streams released results to the terminal, one line per
// probe, colored by outcome. It observes the ordered result stream, so
// lines appear in submission order even though probes finish out of
// order.
//
// Design decision: colors are plain 16-color ANSI rather than a
// terminal library because three colors on otherwise plain lines do not
// justify a dependency, and --no-color must degrade to clean pipeable
// text anyway.
type ConsolePrinter struct {
	out     io.Writer
	noColor bool
}

// NewConsolePrinter creates a printer writing to out. When noColor is
// set, lines are emitted without ANSI sequences.
func NewConsolePrinter(out io.Writer, noColor bool) *ConsolePrinter {
	return &ConsolePrinter{out: out, noColor: noColor}
}

// Observe prints one released result.
func (p *ConsolePrinter) Observe(res *model.ProbeResult) {
	line := res.ConsoleLine()
	if color := p.colorFor(res); color != "" {
		line = color + line + ansiReset
	}
	fmt.Fprintln(p.out, line)
}

// colorFor picks the line color: green for verified hits, red for 404,
// yellow for everything else. An unverified 200 is yellow, not green;
// it is exactly the false positive evidence matching exists to flag.
// Returns "" when coloring is disabled.
func (p *ConsolePrinter) colorFor(res *model.ProbeResult) string {
	if p.noColor {
		return ""
	}
	switch {
	case res.VerifiedHit:
		return ansiGreen
	case res.StatusLabel == "404":
		return ansiRed
	default:
		return ansiYellow
	}
}

// PrintSummary writes the end-of-run summary block.
func (p *ConsolePrinter) PrintSummary(s *RunSummary) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          SCAN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Usernames:   %s\n", s.UsernameList()))
	sb.WriteString(fmt.Sprintf("Sites:       %d\n", s.SiteCount))
	sb.WriteString(fmt.Sprintf("Probes:      %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Hits:        %d\n", s.HitCount()))
	sb.WriteString(fmt.Sprintf("Misses:      %d\n", s.Misses))
	sb.WriteString(fmt.Sprintf("Errors:      %d\n", s.Errors))
	if s.EvidenceOnly {
		sb.WriteString("Mode:        evidence-only\n")
	} else {
		sb.WriteString("Mode:        any HTTP 200\n")
	}
	sb.WriteString(fmt.Sprintf("Elapsed:     %s\n", s.Elapsed.Round(time.Millisecond)))

	if s.HitCount() > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("HITS\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")
		for _, hit := range s.Hits {
			sb.WriteString(fmt.Sprintf("  [+] %s: %s\n", hit.SiteName, hit.URL))
		}
	}

	sb.WriteString("\n")
	fmt.Fprint(p.out, sb.String())
}
