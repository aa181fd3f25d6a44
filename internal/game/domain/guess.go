package domain

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so "Amélie" and "Amelie" compare equal.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// MatchGuess reports whether a free-text guess names the profile.
//
// Comparison is case- and accent-insensitive on collapsed whitespace and
// tolerates small typos: the allowed edit distance scales with the name
// length, capped at three edits. Pure helper, never mutates state; the
// group can still overrule it.
func MatchGuess(guess string, profile Profile) bool {
	normalizedGuess := normalizeGuess(guess)
	normalizedName := normalizeGuess(profile.Name)
	if normalizedGuess == "" || normalizedName == "" {
		return false
	}
	if normalizedGuess == normalizedName {
		return true
	}

	tolerance := len([]rune(normalizedName)) / 5
	if tolerance > 3 {
		tolerance = 3
	}
	if tolerance == 0 {
		return false
	}
	return levenshtein.ComputeDistance(normalizedGuess, normalizedName) <= tolerance
}

func normalizeGuess(value string) string {
	if folded, _, err := transform.String(foldAccents, value); err == nil {
		value = folded
	}
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}
