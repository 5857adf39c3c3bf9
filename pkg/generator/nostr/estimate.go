package nostr

import (
	"fmt"
	"math"
)

// KeysPerSecondPerCore is the throughput assumed by the estimate mode.
const KeysPerSecondPerCore = 100_000.0

// EstimateAttempts returns the expected number of attempts to hit a pattern
// of the given length: half of the 32^n search space.
func EstimateAttempts(patternLen int) float64 {
	return math.Pow(float64(len(Bech32Charset)), float64(patternLen)) / 2
}

// EstimateSeconds returns the expected search time at the given rate.
func EstimateSeconds(patternLen int, keysPerSec float64) float64 {
	if keysPerSec <= 0 {
		return math.Inf(1)
	}
	return EstimateAttempts(patternLen) / keysPerSec
}

// FormatEstimate renders a duration in seconds with the largest fitting unit.
func FormatEstimate(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	case seconds < 31536000:
		return fmt.Sprintf("%.1f days", seconds/86400)
	default:
		return fmt.Sprintf("%.1f years", seconds/31536000)
	}
}

// EstimateTime is EstimateSeconds followed by FormatEstimate.
func EstimateTime(patternLen int, keysPerSec float64) string {
	return FormatEstimate(EstimateSeconds(patternLen, keysPerSec))
}
