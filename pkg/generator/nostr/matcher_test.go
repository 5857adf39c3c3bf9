package nostr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		name     string
		pattern  Pattern
		npub     string
		expected bool
	}{
		{"prefix match", NewPattern("test", Prefix, false), "npub1test123456", true},
		{"prefix miss", NewPattern("test", Prefix, false), "npub1abc123456", false},
		{"prefix ignores npub1 tag", NewPattern("npub", Prefix, false), "npub1xyz", false},
		{"suffix match", NewPattern("end", Suffix, false), "npub1123456end", true},
		{"suffix miss", NewPattern("end", Suffix, false), "npub1123456abc", false},
		{"contains match", NewPattern("mid", Contains, false), "npub1123mid456", true},
		{"contains miss", NewPattern("mid", Contains, false), "npub1123456789", false},
		{"case-insensitive upper input", NewPattern("TEST", Prefix, false), "npub1test999", true},
		{"case-insensitive upper identifier", NewPattern("test", Prefix, false), "npub1TEST999", true},
		{"case-sensitive miss", NewPattern("TEST", Prefix, true), "npub1test999", false},
		{"case-sensitive hit", NewPattern("TEST", Prefix, true), "npub1TEST999", true},
		{"identifier shorter than tag", NewPattern("a", Prefix, false), "npub", false},
		{"pattern longer than identifier", NewPattern("abcdef", Suffix, false), "npub1cdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pattern.Matches(tt.npub))
		})
	}
}

func TestNewPatternNormalizes(t *testing.T) {
	p := NewPattern("AcMe", Contains, false)
	assert.Equal(t, "acme", p.Value())
	assert.Equal(t, Contains, p.Kind())
	assert.False(t, p.CaseSensitive())

	p = NewPattern("AcMe", Contains, true)
	assert.Equal(t, "AcMe", p.Value())
}

func TestPatternIdempotent(t *testing.T) {
	inputs := []string{"npub1acme", "npub1ACME", "npub1xxacmexx", "npub1", "npub1zzzacme", ""}
	for _, kind := range []MatchKind{Prefix, Suffix, Contains} {
		for _, cs := range []bool{false, true} {
			a := NewPattern("AcMe", kind, cs)
			b := NewPattern("AcMe", kind, cs)
			assert.Equal(t, a, b)
			for _, in := range inputs {
				assert.Equal(t, a.Matches(in), b.Matches(in), "kind=%s cs=%v input=%q", kind, cs, in)
			}

			// Matching never mutates the pattern.
			before := a
			a.Matches("npub1ACME")
			assert.Equal(t, before, a)
		}
	}
}

func TestStripAndLowercaseCommute(t *testing.T) {
	ids := []string{"npub1AbCdEf", "NPUB1acme", "npub1qqqqq", "Npub1XyZ023"}
	for _, id := range ids {
		stripThenLower := strings.ToLower(id[IdentifierPrefixLen:])
		lowerThenStrip := strings.ToLower(id)[IdentifierPrefixLen:]
		assert.Equal(t, stripThenLower, lowerThenStrip)

		for _, kind := range []MatchKind{Prefix, Suffix, Contains} {
			p := NewPattern("cd", kind, false)
			assert.Equal(t, p.Matches(id), p.Matches(strings.ToLower(id)), "id=%q kind=%s", id, kind)
		}
	}
}

func TestMatcherFirstPatternWins(t *testing.T) {
	m := NewMatcher([]string{"zzz", "ac", "acme"}, Prefix, false)

	p, ok := m.Match("npub1acme0000")
	require.True(t, ok)
	assert.Equal(t, "ac", p.Value())

	_, ok = m.Match("npub1qqqq")
	assert.False(t, ok)

	c := &generator.Candidate{PublicID: "npub1acmexyz"}
	gp, ok := m.Find(c)
	require.True(t, ok)
	assert.Equal(t, "ac", gp.Value())

	gp, ok = m.Find(&generator.Candidate{PublicID: "npub1q"})
	assert.False(t, ok)
	assert.Nil(t, gp)
}

func TestMatcherPatternsCopy(t *testing.T) {
	m := NewMatcher([]string{"Ab", "cd"}, Suffix, false)
	ps := m.Patterns()
	require.Len(t, ps, 2)
	assert.Equal(t, "ab", ps[0].Value())

	ps[0] = NewPattern("zz", Prefix, true)
	assert.Equal(t, "ab", m.Patterns()[0].Value())
}

func TestParseMatchKind(t *testing.T) {
	for in, want := range map[string]MatchKind{
		"prefix":     Prefix,
		"Suffix":     Suffix,
		" CONTAINS ": Contains,
	} {
		got, err := ParseMatchKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseMatchKind("middle")
	assert.Error(t, err)

	var k MatchKind
	require.NoError(t, k.Set("suffix"))
	assert.Equal(t, Suffix, k)
	assert.Equal(t, "suffix", k.String())
	assert.Equal(t, "matchType", k.Type())

	require.NoError(t, k.UnmarshalText([]byte("contains")))
	assert.Equal(t, Contains, k)
	assert.Error(t, k.Set("nope"))
	assert.Equal(t, Contains, k)
}
