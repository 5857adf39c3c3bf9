package nostr

import (
	"strings"

	"github.com/pkg/errors"
)

// Bech32Charset is the 32-symbol encoding alphabet (excludes 1, b, i, o).
const Bech32Charset = "023456789acdefghjklmnpqrstuvwxyz"

var (
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrEmptyPatternSet = errors.New("no patterns provided")
)

// IsValidBech32Char checks if a character belongs to the encoding alphabet.
func IsValidBech32Char(c rune) bool {
	return strings.ContainsRune(Bech32Charset, c)
}

// IsValidPattern checks a raw pattern against the alphabet. The check is done
// on the pattern as typed: uppercase letters are rejected.
func IsValidPattern(pattern string) bool {
	for _, c := range pattern {
		if !IsValidBech32Char(c) {
			return false
		}
	}
	return true
}

// InvalidChars returns any invalid characters in the pattern.
// Useful for providing helpful error messages to users.
func InvalidChars(pattern string) []rune {
	var invalid []rune
	for _, c := range pattern {
		if !IsValidBech32Char(c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}

// ValidatePatterns rejects an empty set or any pattern outside the alphabet.
// The first offending pattern aborts the whole set.
func ValidatePatterns(patterns []string) error {
	if len(patterns) == 0 {
		return ErrEmptyPatternSet
	}
	for _, p := range patterns {
		if p == "" {
			return errors.Wrap(ErrInvalidPattern, "empty pattern")
		}
		if !IsValidPattern(p) {
			return errors.Wrapf(ErrInvalidPattern,
				"pattern '%s' contains invalid characters %q. Valid: %s", p, string(InvalidChars(p)), Bech32Charset)
		}
	}
	return nil
}
