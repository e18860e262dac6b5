// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

var full = types.CitationFields{
	Author: "João Silva",
	Year:   "2023",
	Page:   "45",
	Quote:  "Texto citado",
}

func TestFormatWithAllFields(t *testing.T) {
	tests := []struct {
		variant Variant
		want    string
	}{
		{DirectShort, `"Texto citado" (SILVA, 2023, p. 45).`},
		{DirectLong, `Texto citado (SILVA, 2023, p. 45).`},
		{Indirect, `(SILVA, 2023)`},
		{AuthorInText, `Segundo Silva (2023, p. 45),`},
		{Apud, `(SILVA, 2023, p. 45 apud AUTOR_SECUNDÁRIO, ANO)`},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.variant, full))
		})
	}
}

func TestFormatWithoutQuoteOrPage(t *testing.T) {
	f := types.CitationFields{Author: "João Silva", Year: "2023"}

	assert.Equal(t, "(SILVA, 2023)", FormatDirectShort(f))
	assert.Equal(t, "(SILVA, 2023)", FormatDirectLong(f))
	assert.Equal(t, "(SILVA, 2023)", FormatIndirect(f))
	assert.Equal(t, "Segundo Silva (2023),", FormatAuthorInText(f))
	assert.Equal(t, "(SILVA, 2023 apud AUTOR_SECUNDÁRIO, ANO)", FormatApud(f))
}

func TestFormatPageWithoutQuote(t *testing.T) {
	f := types.CitationFields{Author: "Silva", Year: "2020", Page: "12-14"}

	assert.Equal(t, "(SILVA, 2020, p. 12-14)", FormatDirectShort(f))
	assert.Equal(t, "(SILVA, 2020)", FormatIndirect(f))
}

func TestEmptyUntilAuthorAndYear(t *testing.T) {
	cases := map[string]types.CitationFields{
		"no author":    {Year: "2023", Page: "1", Quote: "q"},
		"blank author": {Author: "   ", Year: "2023"},
		"no year":      {Author: "João Silva", Page: "1", Quote: "q"},
		"nothing":      {},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			for _, v := range Variants {
				assert.Empty(t, Generate(v, f), "variant %s", v)
			}
			assert.False(t, Ready(f))
		})
	}
}

func TestAllOrderAndLabels(t *testing.T) {
	got := All(full)
	require.Len(t, got, len(Variants))
	for i, c := range got {
		assert.Equal(t, Variants[i], c.Type)
		assert.NotEmpty(t, c.Label)
		assert.NotEmpty(t, c.Text)
	}
	assert.True(t, Ready(full))
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("author-text")
	require.NoError(t, err)
	assert.Equal(t, AuthorInText, v)

	_, err = ParseVariant("footnote")
	assert.Error(t, err)

	assert.Empty(t, Generate(Variant("footnote"), full))
}
