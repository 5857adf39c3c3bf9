package config

import (
	"bufio"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/naoina/toml"
	"github.com/pkg/errors"

	"github.com/Amr-9/npubhunter/pkg/generator"
	"github.com/Amr-9/npubhunter/pkg/generator/nostr"
)

// DefaultCeiling bounds a continuous search unless MaxDuration says otherwise.
const DefaultCeiling = time.Hour

// Errors
var (
	ErrNoPatternSource  = errors.New("no patterns provided. Use --patterns or --file")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrInvalidWorkers   = errors.New("thread count must not be negative")
)

// Duration is a time.Duration that can be read from TOML strings such as
// "90m" and bound to a command line flag.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.Set(string(text))
}

// Set implements pflag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	d.Duration = v
	return nil
}

// Type implements pflag.Value.
func (d *Duration) Type() string { return "duration" }

// Config holds the application configuration
type Config struct {
	Patterns      string          `toml:"patterns"` // Comma-separated list
	PatternFile   string          `toml:"file"`
	Output        string          `toml:"output"`
	CSV           bool            `toml:"csv"`
	MatchKind     nostr.MatchKind `toml:"match_type"`
	CaseSensitive bool            `toml:"case_sensitive"`
	Workers       int             `toml:"threads"`
	BatchSize     int             `toml:"batch_size"`
	Continuous    bool            `toml:"continuous"`
	Quiet         bool            `toml:"quiet"`
	Estimate      bool            `toml:"estimate"`
	MaxDuration   Duration        `toml:"max_duration"` // 0 means DefaultCeiling in continuous mode, none otherwise
	LogFile       string          `toml:"log_file"`
	Verbose       bool            `toml:"verbose"`
	HighPriority  bool            `toml:"high_priority"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		MatchKind: nostr.Prefix,
		Workers:   runtime.NumCPU(),
		BatchSize: generator.DefaultBatchSize,
	}
}

// Load reads a TOML file over the receiver's current values.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Patterns) == "" && c.PatternFile == "" {
		return ErrNoPatternSource
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	return nil
}

// Ceiling returns the safety time limit for the run, 0 for none.
func (c *Config) Ceiling() time.Duration {
	if c.MaxDuration.Duration > 0 {
		return c.MaxDuration.Duration
	}
	if c.Continuous {
		return DefaultCeiling
	}
	return 0
}

// CollectPatterns gathers patterns from the comma list and then the pattern
// file, and validates the result.
func (c *Config) CollectPatterns() ([]string, error) {
	patterns := ParsePatterns(c.Patterns)

	if c.PatternFile != "" {
		fromFile, err := ReadPatternFile(c.PatternFile)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, fromFile...)
	}

	if err := nostr.ValidatePatterns(patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

// ParsePatterns splits a comma-separated list, dropping empty entries.
func ParsePatterns(s string) []string {
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// ReadPatternFile reads one pattern per line, skipping blank lines and
// lines starting with '#'.
func ReadPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pattern file")
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return patterns, nil
}
