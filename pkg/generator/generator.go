// Package generator defines the contracts shared by the npub search engine.
// The coordinator, the output sink and the monitor only talk to each other
// through the types declared here.
package generator

import (
	"context"
	"time"
)

// DefaultBatchSize is the number of candidates generated per parallel batch.
const DefaultBatchSize = 10000

// Config holds the configuration for one search run.
type Config struct {
	Workers    int  // Number of concurrent workers
	BatchSize  int  // Candidates per batch (DefaultBatchSize when 0)
	Continuous bool // Keep searching after the first match
}

// Candidate is one freshly generated key pair, ready to be matched.
type Candidate struct {
	PublicID  string // npub1...
	SecretID  string // nsec1...
	PublicHex string // 32-byte x-only public key, hex encoded
}

// Pattern is the minimal view of a match rule the engine needs to report.
type Pattern interface {
	Value() string
}

// Matcher tests a candidate against an ordered set of patterns.
type Matcher interface {
	// Find returns the first pattern (in list order) satisfied by the
	// candidate's public identifier.
	Find(c *Candidate) (Pattern, bool)
}

// CandidateSource produces a new candidate per call.
// Implementations must be safe for concurrent use.
type CandidateSource interface {
	Generate() (Candidate, error)
}

// MatchEvent is a candidate that satisfied a pattern.
type MatchEvent struct {
	Candidate Candidate
	Pattern   Pattern
	Attempts  uint64        // Global attempt counter when the match was discovered
	Elapsed   time.Duration // Time since the search started
}

// Stats holds real-time performance statistics.
type Stats struct {
	Attempts    uint64  // Total number of candidates attempted
	HashRate    float64 // Keys per second since start
	ElapsedSecs float64 // Time elapsed since start
	Found       bool    // Whether any match has been recorded
}

// Generator defines the contract for search backends.
type Generator interface {
	// Start begins the search with the given configuration.
	// It returns a channel that receives every match event and is closed
	// once the search terminates. The search can be cancelled via the context.
	Start(ctx context.Context, config *Config) (<-chan MatchEvent, error)

	// Wait blocks until every goroutine started by Start has returned and
	// reports any coordination failure.
	Wait() error

	// Stats returns the current performance statistics.
	// This method is safe to call concurrently from any goroutine.
	Stats() Stats

	// Name returns the implementation name.
	Name() string
}
