package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/Amr-9/npubhunter/pkg/generator/nostr"
)

var (
	colorTitle = color.New(color.FgCyan, color.Bold)
	colorInfo  = color.New(color.FgBlue)
	colorWarn  = color.New(color.FgYellow, color.Bold)
	colorError = color.New(color.FgRed, color.Bold)
	colorFound = color.New(color.FgGreen, color.Bold)
)

// SearchInfo describes a run for the start banner.
type SearchInfo struct {
	Patterns   []string
	Kind       nostr.MatchKind
	Workers    int
	Continuous bool
}

// PrintSearchInfo shows the banner printed before a search starts.
func PrintSearchInfo(w io.Writer, info SearchInfo) {
	colorTitle.Fprintln(w, "🔍 Nostr Vanity npub Generator")
	fmt.Fprintf(w, "Searching for %d pattern(s) with %d threads\n", len(info.Patterns), info.Workers)
	fmt.Fprintf(w, "Patterns: %s\n", strings.Join(info.Patterns, ", "))
	fmt.Fprintf(w, "Match type: %s\n", info.Kind)
	if info.Continuous {
		colorInfo.Fprintln(w, "Continuous mode: press Ctrl+C to stop")
	}
	fmt.Fprintln(w)
}

// PrintEstimates prints the expected search time for each pattern.
func PrintEstimates(w io.Writer, patterns []string, keysPerSec float64) {
	colorTitle.Fprintf(w, "⏱️  Time estimates (assuming ~%s keys/sec):\n", FormatNumber(uint64(keysPerSec)))
	fmt.Fprintln(w)
	for _, p := range patterns {
		fmt.Fprintf(w, "  Pattern '%s' (%d chars): ~%s\n", p, len(p), nostr.EstimateTime(len(p), keysPerSec))
	}
}

// Summary is the end-of-run report.
type Summary struct {
	Attempts    uint64
	Matches     int
	Elapsed     time.Duration
	Interrupted bool
}

// PrintSummary prints the end-of-run report.
func PrintSummary(w io.Writer, s Summary) {
	var rate float64
	if secs := s.Elapsed.Seconds(); secs > 0 {
		rate = float64(s.Attempts) / secs
	}

	fmt.Fprintln(w)
	switch {
	case s.Interrupted:
		colorWarn.Fprintf(w, "⚠ Stopped")
	case s.Matches > 0:
		colorFound.Fprintf(w, "✓ Done")
	default:
		colorWarn.Fprintf(w, "✗ No match")
	}
	fmt.Fprintf(w, " │ %s attempts │ %d match(es) │ %s │ %s\n",
		FormatNumber(s.Attempts), s.Matches, FormatDuration(s.Elapsed), FormatHashRate(rate))
}

// PrintError prints a fatal error.
func PrintError(w io.Writer, err error) {
	colorError.Fprintf(w, "Error: %v\n", err)
}

// FormatHashRate formats hash rate nicely
func FormatHashRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM keys/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK keys/s", rate/1000)
	}
	return fmt.Sprintf("%.0f keys/s", rate)
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
