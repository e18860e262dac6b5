// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the abnt-engine.
// Formatting inputs (CitationFields, ReferenceFields), formatting outputs
// (FormattedReference, ValidationReport), library records (Entry, Project),
// page metadata, and configuration.
package types

import "strings"

// SourceType identifies the kind of work a reference describes.
type SourceType string

const (
	SourceBook    SourceType = "book"
	SourceArticle SourceType = "article"
	SourceWebsite SourceType = "website"
	SourceThesis  SourceType = "thesis"
	SourceOther   SourceType = "other"
)

// sourceAliases maps accepted tags, including the Portuguese ones used by
// the web client, to their canonical SourceType.
var sourceAliases = map[string]SourceType{
	"book":    SourceBook,
	"livro":   SourceBook,
	"article": SourceArticle,
	"artigo":  SourceArticle,
	"website": SourceWebsite,
	"site":    SourceWebsite,
	"thesis":  SourceThesis,
	"tese":    SourceThesis,
	"other":   SourceOther,
	"outro":   SourceOther,
}

// ParseSourceType returns the canonical SourceType for tag. Unrecognized
// tags map to SourceOther and ok is false.
func ParseSourceType(tag string) (st SourceType, ok bool) {
	st, ok = sourceAliases[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return SourceOther, false
	}
	return st, true
}

// ReferenceFields is the variant record accepted by the reference formatter.
// The set of implementations is closed: BookFields, ArticleFields,
// WebsiteFields, ThesisFields, and OtherFields.
type ReferenceFields interface {
	SourceType() SourceType
	isReferenceFields()
}

// BookFields describes a book. Every field is optional.
type BookFields struct {
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle  string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Edition   string `json:"edition,omitempty" yaml:"edition,omitempty"`
	City      string `json:"city,omitempty" yaml:"city,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Year      string `json:"year,omitempty" yaml:"year,omitempty"`
}

// ArticleFields describes a journal article.
type ArticleFields struct {
	Author  string `json:"author,omitempty" yaml:"author,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	Volume  string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Number  string `json:"number,omitempty" yaml:"number,omitempty"`
	Pages   string `json:"pages,omitempty" yaml:"pages,omitempty"`
	Month   string `json:"month,omitempty" yaml:"month,omitempty"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
}

// WebsiteFields describes an online document.
type WebsiteFields struct {
	Author     string `json:"author,omitempty" yaml:"author,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName   string `json:"siteName,omitempty" yaml:"site_name,omitempty"`
	Year       string `json:"year,omitempty" yaml:"year,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	AccessDate string `json:"accessDate,omitempty" yaml:"access_date,omitempty"`
}

// ThesisFields describes a thesis or dissertation.
type ThesisFields struct {
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Year        string `json:"year,omitempty" yaml:"year,omitempty"`
	Pages       string `json:"pages,omitempty" yaml:"pages,omitempty"`
	ThesisType  string `json:"thesisType,omitempty" yaml:"thesis_type,omitempty"`
	Degree      string `json:"degree,omitempty" yaml:"degree,omitempty"`
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
	City        string `json:"city,omitempty" yaml:"city,omitempty"`
}

// OtherFields carries a pre-formatted reference for source types the
// formatter has no template for.
type OtherFields struct {
	Tag  string `json:"-" yaml:"-"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

func (BookFields) SourceType() SourceType    { return SourceBook }
func (ArticleFields) SourceType() SourceType { return SourceArticle }
func (WebsiteFields) SourceType() SourceType { return SourceWebsite }
func (ThesisFields) SourceType() SourceType  { return SourceThesis }
func (OtherFields) SourceType() SourceType   { return SourceOther }

func (BookFields) isReferenceFields()    {}
func (ArticleFields) isReferenceFields() {}
func (WebsiteFields) isReferenceFields() {}
func (ThesisFields) isReferenceFields()  {}
func (OtherFields) isReferenceFields()   {}

// Segment is one run of reference text. Emphasized runs are rendered in
// bold by downstream consumers.
type Segment struct {
	Text       string `json:"text" yaml:"text"`
	Emphasized bool   `json:"emphasized,omitempty" yaml:"emphasized,omitempty"`
}

// FormattedReference is a reference as an ordered list of segments.
type FormattedReference []Segment

// String renders the reference with emphasized runs wrapped in **...**.
func (r FormattedReference) String() string {
	var b strings.Builder
	for _, s := range r {
		if s.Emphasized {
			b.WriteString("**")
			b.WriteString(s.Text)
			b.WriteString("**")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// Plain renders the reference without any emphasis markup.
func (r FormattedReference) Plain() string {
	var b strings.Builder
	for _, s := range r {
		b.WriteString(s.Text)
	}
	return b.String()
}

// ValidationReport is the result of checking a reference string against
// the ABNT heuristics. Score is in [0, 100].
type ValidationReport struct {
	IsValid     bool     `json:"isValid" yaml:"is_valid"`
	Issues      []string `json:"issues" yaml:"issues"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
	Score       int      `json:"score" yaml:"score"`
}
