// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeFile is a test helper that creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		refs []string
		want []string
	}{
		{
			name: "accented surname between plain ones",
			refs: []string{"SOUZA, Ana. **Obra**.", "ÁVILA, Rui. **Obra**.", "ALMEIDA, Eva. **Obra**."},
			want: []string{"ALMEIDA, Eva. **Obra**.", "ÁVILA, Rui. **Obra**.", "SOUZA, Ana. **Obra**."},
		},
		{
			name: "emphasis markers ignored",
			refs: []string{"**ZETA**. Lisboa, 2020.", "ALFA, Ana. **Obra**."},
			want: []string{"ALFA, Ana. **Obra**.", "**ZETA**. Lisboa, 2020."},
		},
		{
			name: "case ignored",
			refs: []string{"costa, b.", "CARVALHO, a."},
			want: []string{"CARVALHO, a.", "costa, b."},
		},
		{
			name: "empty",
			refs: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sort(tt.refs)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	refs := []string{"B", "A"}
	Sort(refs)
	if refs[0] != "B" {
		t.Errorf("input reordered: %q", refs)
	}
}

func TestWriteListText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteList(&buf, []string{"SOUZA, Ana. **Obra**.", "ALVES, Rui. **Livro**."}, false); err != nil {
		t.Fatal(err)
	}
	want := "REFERÊNCIAS\n\nALVES, Rui. **Livro**.\n\nSOUZA, Ana. **Obra**.\n\n"
	if buf.String() != want {
		t.Errorf("WriteList() = %q, want %q", buf.String(), want)
	}
}

func TestWriteListHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteList(&buf, []string{"SILVA, João. **Livro <1>**. Recife: Ed., 2023."}, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`<h2 class="references-title">REFERÊNCIAS</h2>`,
		`<p class="reference-item">SILVA, João. <strong>Livro &lt;1&gt;</strong>. Recife: Ed., 2023.</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSectionFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02-metodo.md", "")
	writeFile(t, dir, "01-introducao.md", "")
	writeFile(t, dir, "notas.md", "")
	writeFile(t, dir, "1-curto.md", "")
	if err := os.Mkdir(filepath.Join(dir, "03-pasta.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := SectionFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "01-introducao.md"), filepath.Join(dir, "02-metodo.md")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("SectionFiles() = %q, want %q", files, want)
	}
}

func TestSectionFilesMissingDir(t *testing.T) {
	if _, err := SectionFiles(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestCitationKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"pandoc single", "como visto [@silva2023].", []string{"silva2023"}},
		{"pandoc multi with locator", "[@silva2023, p. 45; @souza:2020]", []string{"silva2023", "souza:2020"}},
		{"author year", "segundo [Silva2023]", []string{"Silva2023"}},
		{"author year multi", "[Silva2023; Souza2020]", []string{"Silva2023", "Souza2020"}},
		{"markdown link", "[veja aqui](http://x.org)", nil},
		{"plain words", "[nota do autor]", nil},
		{"letters only", "[Silva]", nil},
		{"empty pandoc key", "[@]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CitationKeys(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CitationKeys(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestMissingCitations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-introducao.md", "Texto [@silva2023] e [@zeta2019].\n")
	writeFile(t, dir, "02-discussao.md", "Mais [@zeta2019; @alfa2021] e [Souza2020].\n")
	writeFile(t, dir, "rascunho.md", "[@ignorado2000]\n")

	known := map[string]bool{"silva2023": true, "Souza2020": true}
	missing, err := MissingCitations(dir, known)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alfa2021", "zeta2019"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingCitations() = %q, want %q", missing, want)
	}
}

func TestMissingCitationsNone(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-introducao.md", "Sem citações.\n")

	missing, err := MissingCitations(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing keys, got %q", missing)
	}
}
