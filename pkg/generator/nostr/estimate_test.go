package nostr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateAttempts(t *testing.T) {
	assert.Equal(t, 0.5, EstimateAttempts(0))
	assert.Equal(t, 16.0, EstimateAttempts(1))
	assert.Equal(t, 16384.0, EstimateAttempts(3))
	assert.Equal(t, math.Pow(32, 6)/2, EstimateAttempts(6))
}

func TestEstimateSeconds(t *testing.T) {
	// 3 chars at 100k keys/sec on 4 cores.
	assert.InDelta(t, 0.04096, EstimateSeconds(3, 400_000), 1e-9)
	assert.True(t, math.IsInf(EstimateSeconds(3, 0), 1))
}

func TestFormatEstimate(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0.04096, "0.0 seconds"},
		{59.9, "59.9 seconds"},
		{60, "1.0 minutes"},
		{3599, "60.0 minutes"},
		{3600, "1.0 hours"},
		{86399, "24.0 hours"},
		{86400, "1.0 days"},
		{31535999, "365.0 days"},
		{31536000, "1.0 years"},
		{math.Inf(1), "+Inf years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatEstimate(tt.seconds), "seconds=%v", tt.seconds)
	}

	assert.Equal(t, "0.0 seconds", EstimateTime(3, 400_000))
}
