// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Normalize applies the rules used when accepting entries from clients:
// a missing ID gets a fresh UUID, an unknown type becomes SourceOther, and
// a missing creation time becomes now.
func Normalize(e types.Entry, now time.Time) types.Entry {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	e.Type, _ = types.ParseSourceType(string(e.Type))
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e
}

// fold lower-cases s and strips diacritics so "Conceição" matches "conceicao".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Lower(language.BrazilianPortuguese).String(out)
}

func matches(e types.Entry, needle string) bool {
	hay := []string{e.Text, e.Title, e.Author}
	hay = append(hay, e.Tags...)
	for _, h := range hay {
		if h != "" && strings.Contains(fold(h), needle) {
			return true
		}
	}
	return false
}
