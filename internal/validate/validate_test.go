// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

func TestValidateWellFormedBook(t *testing.T) {
	r := Validate("SILVA, João. **Livro**. São Paulo: Editora, 2023.")

	assert.True(t, r.IsValid)
	assert.Empty(t, r.Issues)
	assert.Empty(t, r.Suggestions)
	assert.Equal(t, 100, r.Score)
}

func TestValidateUnformattedText(t *testing.T) {
	r := Validate("silva joão livro sem nada")

	assert.False(t, r.IsValid)
	assert.GreaterOrEqual(t, len(r.Issues), 3)
	assert.LessOrEqual(t, r.Score, 40)
	assert.Equal(t, []string{IssueSurname, IssuePeriod, IssueEmphasis, IssueYear}, r.Issues)
	assert.Equal(t, []string{SuggestSurname, SuggestEmphasis}, r.Suggestions)
	assert.Equal(t, 20, r.Score)
}

func TestValidateEmptyString(t *testing.T) {
	r := Validate("")
	assert.Len(t, r.Issues, 4)
	assert.Equal(t, 20, r.Score)
	assert.False(t, r.IsValid)
}

func TestValidateAccessDateRule(t *testing.T) {
	without := Validate("SILVA, João. **Página**. Site, 2023. Disponível em: x.com.")
	assert.Contains(t, without.Issues, IssueAccessDate)
	assert.Contains(t, without.Suggestions, SuggestAccessDate)
	assert.Equal(t, 80, without.Score)

	with := Validate("SILVA, João. **Página**. Site, 2023. Disponível em: x.com. Acesso em: 01 jan. 2024.")
	assert.NotContains(t, with.Issues, IssueAccessDate)
	assert.True(t, with.IsValid)
}

func TestValidateAccessDateRuleIsCaseInsensitive(t *testing.T) {
	r := Validate("SILVA, J. **P**. 2023. DISPONÍVEL EM: x.com.")
	assert.Contains(t, r.Issues, IssueAccessDate)

	r = Validate("SILVA, J. **P**. 2023. DISPONÍVEL EM: x.com. ACESSO EM: hoje.")
	assert.NotContains(t, r.Issues, IssueAccessDate)
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		issue string
		fails bool
	}{
		{"accented surname", "ÁVILA, Ana. **T**. 2020.", IssueSurname, false},
		{"cedilla surname", "ASSUNÇÃO, Ana. **T**. 2020.", IssueSurname, false},
		{"mixed case surname", "Silva, Ana. **T**. 2020.", IssueSurname, true},
		{"no comma", "SILVA Ana. **T**. 2020.", IssueSurname, true},
		{"leading space", " SILVA, Ana. **T**. 2020.", IssueSurname, true},
		{"trailing whitespace after period", "SILVA, A. **T**. 2020.  \n", IssuePeriod, false},
		{"no period", "SILVA, A. **T**. 2020", IssuePeriod, true},
		{"underscore span", "SILVA, A. _T_. 2020.", IssueEmphasis, false},
		{"lone underscore", "SILVA, A. T_x. 2020.", IssueEmphasis, true},
		{"three digit year", "SILVA, A. **T**. 999.", IssueYear, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.ref)
			if tt.fails {
				assert.Contains(t, r.Issues, tt.issue)
			} else {
				assert.NotContains(t, r.Issues, tt.issue)
			}
		})
	}
}

func TestValidateDecomposedAccents(t *testing.T) {
	// "ÁVILA" with a combining acute accent.
	r := Validate("A\u0301VILA, Ana. **T**. 2020.")
	assert.True(t, r.IsValid)
}

func TestValidateIsIdempotent(t *testing.T) {
	ref := "silva. Disponível em: x"
	assert.Equal(t, Validate(ref), Validate(ref))
}

func TestValidateScoreFloor(t *testing.T) {
	r := Validate("disponível em")
	require.Len(t, r.Issues, 5)
	assert.Equal(t, 0, r.Score)
}

func TestGeneratedReferencesValidate(t *testing.T) {
	f := reference.NewFormatter(nil)
	refs := []types.ReferenceFields{
		types.BookFields{Author: "João Silva", Title: "Livro", City: "Recife", Publisher: "UFPE", Year: "2020"},
		types.WebsiteFields{Author: "João Silva", Title: "Página", SiteName: "G1", Year: "2024", URL: "https://g1.globo.com", AccessDate: "01 jan. 2025"},
		types.ThesisFields{Author: "Ana Lima", Title: "Tese", Year: "2019", Institution: "USP", City: "São Paulo"},
	}
	for _, fields := range refs {
		r := Validate(f.FormatString(fields))
		assert.True(t, r.IsValid, "%s: %v", fields.SourceType(), r.Issues)
	}
}

func TestValidateAll(t *testing.T) {
	reports, summary := ValidateAll([]string{
		"SILVA, João. **Livro**. São Paulo: Editora, 2023.",
		"nada",
	})
	require.Len(t, reports, 2)
	assert.True(t, reports[0].IsValid)
	assert.False(t, reports[1].IsValid)
	assert.Equal(t, Summary{Valid: 1, Invalid: 1}, summary)
}
