// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package csl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

const zoteroJSON = `[
  {
    "id": "silva2023",
    "type": "book",
    "title": "Metodologia científica",
    "author": [{"family": "Silva", "given": "João"}],
    "publisher": "Atlas",
    "publisher-place": "São Paulo",
    "edition": 2,
    "issued": {"date-parts": [[2023]]}
  },
  {
    "id": "souza2020",
    "type": "article-journal",
    "title": "Redes neurais",
    "author": [{"family": "Souza", "given": "Ana Maria"}, {"family": "Lima", "given": "Rui"}],
    "container-title": "Revista Brasileira de Computação",
    "volume": 12,
    "issue": "3",
    "page": "45-67",
    "issued": {"date-parts": [[2020, 5, 2]]}
  }
]`

func TestReadJSONList(t *testing.T) {
	items, err := Read(strings.NewReader(zoteroJSON))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "silva2023", items[0].ID)
	assert.Equal(t, "2", items[0].Edition)
	assert.Equal(t, "12", items[1].Volume)
	assert.Equal(t, "Ana Maria Souza", items[1].FirstAuthor())
}

func TestReadYAMLVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single item",
			input: "id: a\ntype: webpage\ntitle: Guia\n",
			want:  []string{"a"},
		},
		{
			name:  "list",
			input: "- id: a\n  type: book\n- id: b\n  type: thesis\n",
			want:  []string{"a", "b"},
		},
		{
			name:  "pandoc references block",
			input: "references:\n  - id: a\n    type: book\n",
			want:  []string{"a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			var ids []string
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestReadRejectsEmptyAndGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("  \n"))
	assert.Error(t, err)
	_, err = Read(strings.NewReader("{not: [valid"))
	assert.Error(t, err)
}

func TestFieldsFormatsBookAndArticle(t *testing.T) {
	items, err := Read(strings.NewReader(zoteroJSON))
	require.NoError(t, err)

	assert.Equal(t,
		"SILVA, João. **Metodologia científica**. 2. ed. São Paulo: Atlas, 2023.",
		reference.Format(Fields(items[0])))
	assert.Equal(t,
		"SOUZA, Ana Maria. Redes neurais. **Revista Brasileira de Computação**, Local, v. 12, n. 3, p. 45-67, maio 2020.",
		reference.Format(Fields(items[1])))
}

func TestFieldsWebsiteAndThesis(t *testing.T) {
	web := Item{
		Type:           "webpage",
		Title:          "Guia ABNT",
		Author:         []Name{{Literal: "Biblioteca Central"}},
		ContainerTitle: "Portal UFX",
		URL:            "https://ufx.br/guia",
		Issued:         &Date{Raw: "2021-08"},
		Accessed:       NewDate(2026, 10, 15),
	}
	got, ok := Fields(web).(types.WebsiteFields)
	require.True(t, ok)
	assert.Equal(t, "2021", got.Year)
	assert.Equal(t, "15 out. 2026", got.AccessDate)
	assert.Equal(t, "Biblioteca Central", got.Author)

	thesis := Item{
		Type:           "thesis",
		Title:          "Estudo",
		Genre:          "Tese",
		Publisher:      "USP",
		PublisherPlace: "São Paulo",
		NumberOfPages:  "210",
		Issued:         NewDate(2019, 0, 0),
	}
	th, ok := Fields(thesis).(types.ThesisFields)
	require.True(t, ok)
	assert.Equal(t, types.ThesisFields{
		Title: "Estudo", Year: "2019", Pages: "210", ThesisType: "Tese", Institution: "USP", City: "São Paulo",
	}, th)
}

func TestFieldsUnknownType(t *testing.T) {
	got := Fields(Item{Type: "motion_picture", Title: "Filme"})
	assert.Equal(t, types.OtherFields{Tag: "motion_picture", Text: "Filme"}, got)
}

func TestKind(t *testing.T) {
	tests := []struct {
		in   string
		want types.SourceType
	}{
		{"book", types.SourceBook},
		{"chapter", types.SourceBook},
		{"article-journal", types.SourceArticle},
		{"paper-conference", types.SourceArticle},
		{"webpage", types.SourceWebsite},
		{"thesis", types.SourceThesis},
		{"dataset", types.SourceOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.in))
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"João da Silva", Name{Given: "João da", Family: "Silva"}},
		{"Platão", Name{Literal: "Platão"}},
		{"  ", Name{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.TrimSpace(tt.in), got.String())
		})
	}
}

func TestDateMonth(t *testing.T) {
	assert.Equal(t, "jan.", NewDate(2020, 1, 0).Month())
	assert.Equal(t, "", NewDate(2020, 0, 0).Month())
	var nilDate *Date
	assert.Equal(t, "", nilDate.Month())
	assert.Equal(t, "", nilDate.Year())
}

func TestEntry(t *testing.T) {
	it := Item{ID: "x", Type: "book", Title: "T", Author: []Name{{Given: "Ana", Family: "Lima"}}}
	e := Entry(it, "LIMA, Ana. **T**. Local: Editora, Ano.")
	assert.Equal(t, types.Entry{ID: "x", Text: "LIMA, Ana. **T**. Local: Editora, Ano.", Type: types.SourceBook, Title: "T", Author: "Ana Lima"}, e)
}
