// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate lints a reference string against a small set of ABNT
// heuristics and scores it. It never rejects input: an empty or malformed
// string simply collects issues and scores low.
package validate

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/abnt-engine/internal/author"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Issue and suggestion texts, in the language of the rendered document.
const (
	IssueSurname      = "O sobrenome do autor deve estar em MAIÚSCULAS no início"
	IssuePeriod       = "A referência deve terminar com ponto final"
	IssueEmphasis     = "O título principal deve estar em destaque (negrito)"
	IssueYear         = "A referência deve conter o ano de publicação"
	IssueAccessDate   = "Referências de sites devem incluir a data de acesso"
	SuggestSurname    = "Inicie com: SOBRENOME, Nome."
	SuggestEmphasis   = "Use **Título** para destacar o título principal"
	SuggestAccessDate = "Adicione: Acesso em: DD mês. AAAA."
)

const (
	maxScore       = 100
	penaltyPerRule = 20
)

var (
	// surnamePrefixRe matches an upper-case surname followed by a comma.
	surnamePrefixRe = regexp.MustCompile(`^[A-ZÁÉÍÓÚÂÊÎÔÛÃÕÇ]+,`)

	// underscoreSpanRe matches an _emphasized_ span.
	underscoreSpanRe = regexp.MustCompile(`_[^_]+_`)

	// yearRe matches any run of four digits.
	yearRe = regexp.MustCompile(`\d{4}`)
)

// rule is one independent check. passes reports whether ref conforms;
// suggestion may be empty.
type rule struct {
	passes     func(ref string) bool
	issue      string
	suggestion string
}

var rules = []rule{
	{
		passes:     surnamePrefixRe.MatchString,
		issue:      IssueSurname,
		suggestion: SuggestSurname,
	},
	{
		passes: func(ref string) bool { return strings.HasSuffix(strings.TrimSpace(ref), ".") },
		issue:  IssuePeriod,
	},
	{
		passes: func(ref string) bool {
			return strings.Contains(ref, "**") || underscoreSpanRe.MatchString(ref)
		},
		issue:      IssueEmphasis,
		suggestion: SuggestEmphasis,
	},
	{
		passes: yearRe.MatchString,
		issue:  IssueYear,
	},
	{
		passes: func(ref string) bool {
			lower := author.Lower(ref)
			return !strings.Contains(lower, "disponível em") || strings.Contains(lower, "acesso em")
		},
		issue:      IssueAccessDate,
		suggestion: SuggestAccessDate,
	},
}

// Validate checks reference against every rule and returns the report.
// The score drops by 20 per issue, floored at 0.
func Validate(reference string) types.ValidationReport {
	ref := norm.NFC.String(reference)

	report := types.ValidationReport{
		Issues:      []string{},
		Suggestions: []string{},
	}
	for _, r := range rules {
		if r.passes(ref) {
			continue
		}
		report.Issues = append(report.Issues, r.issue)
		if r.suggestion != "" {
			report.Suggestions = append(report.Suggestions, r.suggestion)
		}
	}

	report.IsValid = len(report.Issues) == 0
	report.Score = max(0, maxScore-penaltyPerRule*len(report.Issues))
	return report
}

// Summary counts valid and invalid references in a batch.
type Summary struct {
	Valid   int `json:"valid" yaml:"valid"`
	Invalid int `json:"invalid" yaml:"invalid"`
}

// ValidateAll validates each reference independently, preserving order.
func ValidateAll(refs []string) ([]types.ValidationReport, Summary) {
	reports := make([]types.ValidationReport, len(refs))
	var s Summary
	for i, ref := range refs {
		reports[i] = Validate(ref)
		if reports[i].IsValid {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
	return reports, s
}
