// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package author normalizes free-text author names into the two ABNT forms:
// the in-text citation form (surname only, upper-cased) and the reference
// entry form ("SURNAME, Given Names").
//
// The surname is always the last whitespace-separated token. Particles
// ("da", "van"), suffixes ("Filho", "Jr.") and multiple authors are not
// recognized.
package author

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// tokens returns the NFC-normalized, whitespace-separated parts of name.
func tokens(name string) []string {
	return strings.Fields(norm.NFC.String(name))
}

// Upper upper-cases s using Brazilian Portuguese rules.
// A Caser keeps state, so a fresh one is built per call.
func Upper(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

// Lower lower-cases s using Brazilian Portuguese rules.
func Lower(s string) string {
	return cases.Lower(language.BrazilianPortuguese).String(s)
}

// Capitalize upper-cases the first rune of s and lower-cases the rest,
// so "SILVA" reads as "Silva" inside a sentence.
func Capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	return Upper(string(r[:1])) + Lower(string(r[1:]))
}

// ToCitationForm returns the surname of name upper-cased, as used in
// in-text citations: "João Silva" → "SILVA". Empty input yields "".
func ToCitationForm(name string) string {
	parts := tokens(name)
	if len(parts) == 0 {
		return ""
	}
	return Upper(parts[len(parts)-1])
}

// ToReferenceForm returns name in surname-first form for bibliography
// entries: "João Silva" → "SILVA, João". A single-token name is returned
// upper-cased with no comma. Empty input yields "".
func ToReferenceForm(name string) string {
	parts := tokens(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return Upper(parts[0])
	}
	surname := Upper(parts[len(parts)-1])
	return surname + ", " + strings.Join(parts[:len(parts)-1], " ")
}
