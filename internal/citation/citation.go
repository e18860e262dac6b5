// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation builds ABNT in-text citations from an author, year,
// optional page, and optional quote.
//
// Every generator returns "" until both author and year are present.
// Callers treat the empty string as "not ready" and disable copy or insert
// actions.
package citation

import (
	"fmt"

	"github.com/pdiddy/abnt-engine/internal/author"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// apudPlaceholder stands in for the secondary source. The user replaces it
// by hand after copying the citation.
const apudPlaceholder = "AUTOR_SECUNDÁRIO, ANO"

// Variant identifies one of the five citation forms.
type Variant string

const (
	DirectShort  Variant = "direct-short"
	DirectLong   Variant = "direct-long"
	Indirect     Variant = "indirect"
	AuthorInText Variant = "author-text"
	Apud         Variant = "apud"
)

// Variants lists every citation form in display order.
var Variants = []Variant{DirectShort, DirectLong, Indirect, AuthorInText, Apud}

// ParseVariant returns the Variant named by s.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown citation variant %q: use direct-short, direct-long, indirect, author-text, or apud", s)
}

// Citation is one generated citation with its display metadata.
type Citation struct {
	Type        Variant `json:"type" yaml:"type"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description" yaml:"description"`
	Text        string  `json:"text" yaml:"text"`
}

type variantInfo struct {
	label       string
	description string
	generate    func(types.CitationFields) string
}

var variantTable = map[Variant]variantInfo{
	DirectShort:  {"Citação Direta Curta", "Até 3 linhas, entre aspas", FormatDirectShort},
	DirectLong:   {"Citação Direta Longa", "Mais de 3 linhas, recuo 4cm", FormatDirectLong},
	Indirect:     {"Citação Indireta", "Paráfrase do autor", FormatIndirect},
	AuthorInText: {"Autor no Texto", "Nome do autor na frase", FormatAuthorInText},
	Apud:         {"Apud (Citação de Citação)", "Citar autor através de outro", FormatApud},
}

// Generate returns the citation text for variant v.
func Generate(v Variant, f types.CitationFields) string {
	info, ok := variantTable[v]
	if !ok {
		return ""
	}
	return info.generate(f)
}

// All generates every variant in display order.
func All(f types.CitationFields) []Citation {
	out := make([]Citation, len(Variants))
	for i, v := range Variants {
		info := variantTable[v]
		out[i] = Citation{
			Type:        v,
			Label:       info.label,
			Description: info.description,
			Text:        info.generate(f),
		}
	}
	return out
}

// Ready reports whether f carries enough data to produce a citation.
func Ready(f types.CitationFields) bool {
	_, _, ok := prepare(f)
	return ok
}

// prepare returns the formatted surname and the page suffix, or ok=false
// when author or year is missing.
func prepare(f types.CitationFields) (surname, pageRef string, ok bool) {
	surname = author.ToCitationForm(f.Author)
	if surname == "" || f.Year == "" {
		return "", "", false
	}
	if f.Page != "" {
		pageRef = ", p. " + f.Page
	}
	return surname, pageRef, true
}

// FormatDirectShort returns a short direct quotation:
// "Texto citado" (SILVA, 2023, p. 45).
// Without a quote only the parenthetical is returned.
func FormatDirectShort(f types.CitationFields) string {
	a, pageRef, ok := prepare(f)
	if !ok {
		return ""
	}
	if f.Quote != "" {
		return fmt.Sprintf("\"%s\" (%s, %s%s).", f.Quote, a, f.Year, pageRef)
	}
	return fmt.Sprintf("(%s, %s%s)", a, f.Year, pageRef)
}

// FormatDirectLong returns a long block quotation. It differs from the
// short form only by omitting the quotation marks; indentation is left to
// the renderer.
func FormatDirectLong(f types.CitationFields) string {
	a, pageRef, ok := prepare(f)
	if !ok {
		return ""
	}
	if f.Quote != "" {
		return fmt.Sprintf("%s (%s, %s%s).", f.Quote, a, f.Year, pageRef)
	}
	return fmt.Sprintf("(%s, %s%s)", a, f.Year, pageRef)
}

// FormatIndirect returns a paraphrase citation. Page and quote are ignored.
func FormatIndirect(f types.CitationFields) string {
	a, _, ok := prepare(f)
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s, %s)", a, f.Year)
}

// FormatAuthorInText returns a citation where the author is part of the
// sentence: Segundo Silva (2023, p. 45),
func FormatAuthorInText(f types.CitationFields) string {
	a, pageRef, ok := prepare(f)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Segundo %s (%s%s),", author.Capitalize(a), f.Year, pageRef)
}

// FormatApud returns a secondary citation with a placeholder for the
// secondary source.
func FormatApud(f types.CitationFields) string {
	a, pageRef, ok := prepare(f)
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s, %s%s apud %s)", a, f.Year, pageRef, apudPlaceholder)
}
