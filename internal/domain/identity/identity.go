// Package identity canonicalizes raw player name strings into the
// stable "Last, First" key every pipeline stage joins on.
package identity

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD and drops combining marks, so
// "Peña" becomes "Pena" before any other handling.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a free-form name in either "First Last" or
// "Last, First" form into "Last, First". It is deterministic and
// idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// Returns ErrMalformedName when the input carries no alphabetic token.
func Normalize(raw string) (string, error) {
	s, _, err := transform.String(stripMarks, raw)
	if err != nil {
		// Transform only fails on invalid UTF-8; treat the input as
		// unusable rather than guessing at bytes.
		return "", fmt.Errorf("%w: %q", ErrMalformedName, raw)
	}

	s = strings.ToLower(strip(s))
	if !strings.ContainsFunc(s, unicode.IsLetter) {
		return "", fmt.Errorf("%w: %q", ErrMalformedName, raw)
	}

	last, first := split(s)
	if first == "" {
		return capitalize(last), nil
	}
	return capitalize(last) + ", " + capitalize(first), nil
}

// strip removes punctuation, keeping letters, digits, spaces, and the
// comma that separates last/first.
func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ',' || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// split separates the surname from the given name(s). A comma wins;
// otherwise the last whitespace token is taken as the surname.
func split(s string) (last, first string) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(strings.ReplaceAll(s[i+1:], ",", " "))
	}
	fields := strings.Fields(s)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[len(fields)-1], strings.Join(fields[:len(fields)-1], " ")
}

// capitalize upper-cases the first letter of every whitespace token and
// lower-cases the rest, collapsing runs of spaces.
func capitalize(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
