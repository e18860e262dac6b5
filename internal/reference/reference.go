// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference assembles ABNT bibliography entries from typed field
// records. Each source type has a fixed template; missing values are
// replaced by visible placeholder words ("Ano", "Local", "Editora") so an
// incomplete form still renders.
package reference

import (
	"fmt"
	"time"

	"github.com/pdiddy/abnt-engine/internal/author"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Placeholder words rendered in place of missing fields.
const (
	PlaceholderTitle       = "Título"
	PlaceholderYear        = "Ano"
	PlaceholderCity        = "Local"
	PlaceholderPublisher   = "Editora"
	PlaceholderVolume      = "X"
	PlaceholderNumber      = "X"
	PlaceholderPages       = "X-X"
	PlaceholderJournal     = "Nome da Revista"
	PlaceholderSiteName    = "Nome do site"
	PlaceholderURL         = "URL"
	PlaceholderInstitution = "Instituição"
	PlaceholderThesisType  = "Dissertação"
	PlaceholderDegree      = "Mestrado"
)

// Formatter builds references. The zero value uses the system clock.
type Formatter struct {
	// Now supplies the current time for website references that lack a
	// year or access date.
	Now func() time.Time
}

// NewFormatter returns a Formatter using now as its clock.
func NewFormatter(now func() time.Time) *Formatter {
	return &Formatter{Now: now}
}

func (f *Formatter) now() time.Time {
	if f == nil || f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Format returns the reference for fields as a list of segments.
func (f *Formatter) Format(fields types.ReferenceFields) types.FormattedReference {
	var b builder
	switch v := fields.(type) {
	case types.BookFields:
		book(&b, v)
	case *types.BookFields:
		book(&b, deref(v))
	case types.ArticleFields:
		article(&b, v)
	case *types.ArticleFields:
		article(&b, deref(v))
	case types.WebsiteFields:
		website(&b, v, f.now())
	case *types.WebsiteFields:
		website(&b, deref(v), f.now())
	case types.ThesisFields:
		thesis(&b, v)
	case *types.ThesisFields:
		thesis(&b, deref(v))
	case types.OtherFields:
		b.text(v.Text)
	case *types.OtherFields:
		b.text(deref(v).Text)
	}
	return b.out
}

// deref treats a nil pointer as the zero record.
func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// FormatString returns the reference with the **bold** title markup.
func (f *Formatter) FormatString(fields types.ReferenceFields) string {
	return f.Format(fields).String()
}

var defaultFormatter = &Formatter{}

// Format formats fields with the system clock and returns the marked-up string.
func Format(fields types.ReferenceFields) string {
	return defaultFormatter.FormatString(fields)
}

// builder accumulates segments, merging adjacent plain text.
type builder struct {
	out types.FormattedReference
}

func (b *builder) text(s string) {
	if s == "" {
		return
	}
	if n := len(b.out); n > 0 && !b.out[n-1].Emphasized {
		b.out[n-1].Text += s
		return
	}
	b.out = append(b.out, types.Segment{Text: s})
}

func (b *builder) textf(format string, args ...any) {
	b.text(fmt.Sprintf(format, args...))
}

func (b *builder) emphasis(s string) {
	b.out = append(b.out, types.Segment{Text: s, Emphasized: true})
}

func or(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

// book: SOBRENOME, Nome. **Título**: subtítulo. Edição. ed. Local: Editora, Ano.
func book(b *builder, v types.BookFields) {
	b.text(author.ToReferenceForm(v.Author) + ". ")
	b.emphasis(or(v.Title, PlaceholderTitle))
	if v.Subtitle != "" {
		b.text(": " + v.Subtitle)
	}
	b.text(". ")
	if v.Edition != "" {
		b.textf("%s. ed. ", v.Edition)
	}
	b.textf("%s: %s, %s.",
		or(v.City, PlaceholderCity),
		or(v.Publisher, PlaceholderPublisher),
		or(v.Year, PlaceholderYear))
}

// article: SOBRENOME, Nome. Título. **Revista**, Local, v. X, n. X, p. X-X, mês Ano.
func article(b *builder, v types.ArticleFields) {
	b.textf("%s. %s. ", author.ToReferenceForm(v.Author), or(v.Title, PlaceholderTitle))
	b.emphasis(or(v.Journal, PlaceholderJournal))
	b.textf(", %s, v. %s, n. %s, p. %s, ",
		or(v.City, PlaceholderCity),
		or(v.Volume, PlaceholderVolume),
		or(v.Number, PlaceholderNumber),
		or(v.Pages, PlaceholderPages))
	if v.Month != "" {
		b.text(v.Month + " ")
	}
	b.text(or(v.Year, PlaceholderYear) + ".")
}

// website: SOBRENOME, Nome. **Título**. Site, Ano. Disponível em: URL. Acesso em: data.
func website(b *builder, v types.WebsiteFields, now time.Time) {
	year := v.Year
	if year == "" {
		year = fmt.Sprintf("%d", now.Year())
	}
	accessed := v.AccessDate
	if accessed == "" {
		accessed = AccessDate(now)
	}
	b.text(author.ToReferenceForm(v.Author) + ". ")
	b.emphasis(or(v.Title, PlaceholderTitle))
	b.textf(". %s, %s. Disponível em: %s. Acesso em: %s.",
		or(v.SiteName, PlaceholderSiteName),
		year,
		or(v.URL, PlaceholderURL),
		accessed)
}

// thesis: SOBRENOME, Nome. **Título**. Ano. N f. Tipo (Grau) - Instituição, Local, Ano.
func thesis(b *builder, v types.ThesisFields) {
	year := or(v.Year, PlaceholderYear)
	b.text(author.ToReferenceForm(v.Author) + ". ")
	b.emphasis(or(v.Title, PlaceholderTitle))
	b.textf(". %s. ", year)
	if v.Pages != "" {
		b.textf("%s f. ", v.Pages)
	}
	b.textf("%s (%s) - %s, %s, %s.",
		or(v.ThesisType, PlaceholderThesisType),
		or(v.Degree, PlaceholderDegree),
		or(v.Institution, PlaceholderInstitution),
		or(v.City, PlaceholderCity),
		year)
}
