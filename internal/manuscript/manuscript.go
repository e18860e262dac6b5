// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manuscript assembles the reference list that closes an ABNT
// document and checks the citations made in its section files.
package manuscript

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/abnt-engine/internal/reference"
)

// ListTitle heads the reference list.
const ListTitle = "REFERÊNCIAS"

// sectionFilePattern matches numbered section files: NN-slug.md.
var sectionFilePattern = regexp.MustCompile(`^\d{2}-.+\.md$`)

// citationPattern matches bracketed citations: [@key], [Key2023] or
// [@a; @b, p. 45].
var citationPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Sort returns refs in alphabetical order under Brazilian Portuguese
// collation. Emphasis markers and letter case do not affect the order.
func Sort(refs []string) []string {
	out := append([]string(nil), refs...)
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	keys := make(map[string]string, len(out))
	for _, r := range out {
		keys[r] = reference.Parse(r).Plain()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(keys[out[i]], keys[out[j]]) < 0
	})
	return out
}

// WriteList writes the titled, sorted reference list to w. Plain text
// keeps the "**" emphasis markers; HTML renders one paragraph per
// reference with the title as a heading.
func WriteList(w io.Writer, refs []string, asHTML bool) error {
	sorted := Sort(refs)
	var b strings.Builder
	if asHTML {
		fmt.Fprintf(&b, "<h2 class=\"references-title\">%s</h2>\n", html.EscapeString(ListTitle))
		for _, r := range sorted {
			fmt.Fprintf(&b, "<p class=\"reference-item\">%s</p>\n", reference.HTML(reference.Parse(r)))
		}
	} else {
		b.WriteString(ListTitle + "\n\n")
		for _, r := range sorted {
			b.WriteString(r + "\n\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// SectionFiles returns the ordered list of numbered section file paths
// (NN-*.md) in a manuscript directory.
func SectionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading manuscript directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if sectionFilePattern.MatchString(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// MissingCitations scans the section files in dir for citation keys and
// returns, sorted and without repeats, those absent from known.
func MissingCitations(dir string, known map[string]bool) ([]string, error) {
	files, err := SectionFiles(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filepath.Base(f), err)
		}
		for _, key := range CitationKeys(string(data)) {
			if !known[key] {
				seen[key] = true
			}
		}
	}

	missing := make([]string, 0, len(seen))
	for key := range seen {
		missing = append(missing, key)
	}
	sort.Strings(missing)
	return missing, nil
}

// CitationKeys finds the citation keys in text. Multi-citations are split
// on semicolons and locators after a comma are dropped.
func CitationKeys(text string) []string {
	var keys []string
	for _, m := range citationPattern.FindAllStringSubmatch(text, -1) {
		for _, p := range strings.Split(m[1], ";") {
			key, _, _ := strings.Cut(strings.TrimSpace(p), ",")
			key = strings.TrimSpace(key)
			if k, ok := strings.CutPrefix(key, "@"); ok {
				if isKeyChars(k) && k != "" {
					keys = append(keys, k)
				}
				continue
			}
			if isCitationKey(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// isCitationKey reports whether a bare bracket body looks like an
// AuthorYear key. Markdown links and other bracket text are rejected.
func isCitationKey(s string) bool {
	if !isKeyChars(s) {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// isKeyChars reports whether s holds only ASCII letters, digits, '-', '_',
// ':' or '.'.
func isKeyChars(s string) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == ':', c == '.':
		default:
			return false
		}
	}
	return true
}
