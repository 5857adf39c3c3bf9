// Package output formats match events and persists them to disk.
package output

import (
	"fmt"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

// CSVHeader is written once at the top of a new CSV output file.
var CSVHeader = []string{"pattern", "npub", "nsec", "hex_pubkey", "attempts", "time_seconds"}

// FormatText renders a match as the human-readable result block.
func FormatText(ev *generator.MatchEvent) string {
	secs := ev.Elapsed.Seconds()
	var rate float64
	if secs > 0 {
		rate = float64(ev.Attempts) / secs
	}

	return fmt.Sprintf("✨ Found vanity address!\n"+
		"Pattern: %s\n"+
		"npub: %s\n"+
		"nsec: %s\n"+
		"Hex pubkey: %s\n"+
		"Attempts: %d\n"+
		"Time: %.2fs\n"+
		"Speed: %.0f keys/sec\n"+
		"---",
		patternValue(ev),
		ev.Candidate.PublicID,
		ev.Candidate.SecretID,
		ev.Candidate.PublicHex,
		ev.Attempts,
		secs,
		rate,
	)
}

// CSVRecord returns the CSV columns for a match, in CSVHeader order.
func CSVRecord(ev *generator.MatchEvent) []string {
	return []string{
		patternValue(ev),
		ev.Candidate.PublicID,
		ev.Candidate.SecretID,
		ev.Candidate.PublicHex,
		fmt.Sprintf("%d", ev.Attempts),
		fmt.Sprintf("%.2f", ev.Elapsed.Seconds()),
	}
}

func patternValue(ev *generator.MatchEvent) string {
	if ev.Pattern == nil {
		return ""
	}
	return ev.Pattern.Value()
}
