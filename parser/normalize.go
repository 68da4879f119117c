package parser

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldedText keeps two byte-aligned views of the input: Display has
// diacritics stripped but case preserved, Match is the ASCII-lowercased copy
// all rules run against. Any span found in Match can be cut from Display.
type foldedText struct {
	Display string
	Match   string
}

func fold(raw string) foldedText {
	stripped := stripDiacritics(raw)
	return foldedText{Display: stripped, Match: asciiLower(stripped)}
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// asciiLower lowercases A-Z only so byte offsets never shift.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// blank overwrites the given spans with spaces, preserving length.
func blank(s string, spans [][]int) string {
	if len(spans) == 0 {
		return s
	}
	b := []byte(s)
	for _, sp := range spans {
		for i := sp[0]; i < sp[1] && i < len(b); i++ {
			b[i] = ' '
		}
	}
	return string(b)
}
