package nostr

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

// MatchKind selects where in the identifier a pattern must occur.
type MatchKind int

const (
	Prefix MatchKind = iota
	Suffix
	Contains
)

// String returns the match kind name.
func (k MatchKind) String() string {
	switch k {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// ParseMatchKind parses "prefix", "suffix" or "contains" (any case).
func ParseMatchKind(s string) (MatchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return Prefix, nil
	case "suffix":
		return Suffix, nil
	case "contains":
		return Contains, nil
	}
	return Prefix, errors.Errorf("unknown match type %q (want prefix, suffix or contains)", s)
}

// Set implements pflag.Value.
func (k *MatchKind) Set(s string) error {
	parsed, err := ParseMatchKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *MatchKind) Type() string { return "matchType" }

// UnmarshalText lets config files carry the match kind as a string.
func (k *MatchKind) UnmarshalText(text []byte) error { return k.Set(string(text)) }

// Pattern is a single normalized match rule. It is immutable once built and
// may be shared by any number of workers.
type Pattern struct {
	value         string
	kind          MatchKind
	caseSensitive bool
}

// NewPattern builds a pattern, lowercasing the value when matching is
// case-insensitive.
func NewPattern(value string, kind MatchKind, caseSensitive bool) Pattern {
	if !caseSensitive {
		value = strings.ToLower(value)
	}
	return Pattern{value: value, kind: kind, caseSensitive: caseSensitive}
}

func (p Pattern) Value() string       { return p.value }
func (p Pattern) Kind() MatchKind     { return p.kind }
func (p Pattern) CaseSensitive() bool { return p.caseSensitive }

// Matches checks an npub against the pattern. The fixed "npub1" tag is
// skipped before comparison.
func (p Pattern) Matches(npub string) bool {
	if len(npub) < IdentifierPrefixLen {
		return false
	}
	s := npub[IdentifierPrefixLen:]
	if !p.caseSensitive {
		// ToLower returns s unchanged when it has no upper case letters,
		// which is always the case for bech32 output.
		s = strings.ToLower(s)
	}

	switch p.kind {
	case Suffix:
		return strings.HasSuffix(s, p.value)
	case Contains:
		return strings.Contains(s, p.value)
	default:
		return strings.HasPrefix(s, p.value)
	}
}

// Matcher holds an ordered list of patterns.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher builds a matcher from raw values sharing one kind and case mode.
func NewMatcher(values []string, kind MatchKind, caseSensitive bool) *Matcher {
	m := &Matcher{patterns: make([]Pattern, 0, len(values))}
	for _, v := range values {
		m.patterns = append(m.patterns, NewPattern(v, kind, caseSensitive))
	}
	return m
}

// Patterns returns a copy of the pattern list.
func (m *Matcher) Patterns() []Pattern {
	return append([]Pattern(nil), m.patterns...)
}

// Match returns the first pattern, in list order, that the npub satisfies.
func (m *Matcher) Match(npub string) (Pattern, bool) {
	for _, p := range m.patterns {
		if p.Matches(npub) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Find implements generator.Matcher.
func (m *Matcher) Find(c *generator.Candidate) (generator.Pattern, bool) {
	p, ok := m.Match(c.PublicID)
	if !ok {
		return nil, false
	}
	return p, true
}
