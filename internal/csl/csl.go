// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package csl reads bibliographic items in CSL (Citation Style Language)
// JSON or YAML, the export format of Zotero, Mendeley, and Pandoc, and maps
// them onto ABNT reference records.
package csl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Item is a CSL bibliographic entry. Field names follow the CSL-JSON
// schema. Only the fields used by ABNT references are kept.
type Item struct {
	ID             string `json:"id" yaml:"id"`
	Type           string `json:"type" yaml:"type"`
	Title          string `json:"title" yaml:"title"`
	Author         []Name `json:"author,omitempty" yaml:"author,omitempty"`
	ContainerTitle string `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Publisher      string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherPlace string `json:"publisher-place,omitempty" yaml:"publisher-place,omitempty"`
	Edition        string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Volume         string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string `json:"page,omitempty" yaml:"page,omitempty"`
	NumberOfPages  string `json:"number-of-pages,omitempty" yaml:"number-of-pages,omitempty"`
	Genre          string `json:"genre,omitempty" yaml:"genre,omitempty"`
	Issued         *Date  `json:"issued,omitempty" yaml:"issued,omitempty"`
	Accessed       *Date  `json:"accessed,omitempty" yaml:"accessed,omitempty"`
	URL            string `json:"URL,omitempty" yaml:"URL,omitempty"`
	DOI            string `json:"DOI,omitempty" yaml:"DOI,omitempty"`
}

// Name is a person's name in CSL form.
type Name struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// String returns the name in "Given Family" order, the free-text form the
// author formatter expects.
func (n Name) String() string {
	if n.Literal != "" {
		return n.Literal
	}
	return strings.TrimSpace(n.Given + " " + n.Family)
}

// ParseName splits a full name on its last space: everything before is
// given, the last token is family. Single-token names use Literal.
func ParseName(name string) Name {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return Name{Literal: name}
	}
	return Name{Given: strings.TrimSpace(name[:idx]), Family: name[idx+1:]}
}

// Date is a CSL date. DateParts holds [year, month, day] prefixes; Raw and
// Literal carry free-form dates.
type Date struct {
	DateParts [][]int `json:"date-parts,omitempty" yaml:"date-parts,omitempty"`
	Raw       string  `json:"raw,omitempty" yaml:"raw,omitempty"`
	Literal   string  `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// NewDate builds a Date from its numeric parts. Zero month or day ends the
// part list.
func NewDate(year, month, day int) *Date {
	parts := []int{year}
	if month > 0 {
		parts = append(parts, month)
		if day > 0 {
			parts = append(parts, day)
		}
	}
	return &Date{DateParts: [][]int{parts}}
}

func (d *Date) part(i int) int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) <= i {
		return 0
	}
	return d.DateParts[0][i]
}

// Year returns the year as text, falling back to the first four-digit run
// of Raw or Literal.
func (d *Date) Year() string {
	if y := d.part(0); y > 0 {
		return strconv.Itoa(y)
	}
	if d == nil {
		return ""
	}
	for _, s := range []string{d.Raw, d.Literal} {
		for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r < '0' || r > '9' }) {
			if len(f) == 4 {
				return f
			}
		}
	}
	return ""
}

// Month returns the abbreviated Portuguese month, or "" when unknown.
func (d *Date) Month() string {
	m := d.part(1)
	if m < 1 || m > 12 {
		return ""
	}
	return reference.MonthAbbrev(time.Month(m))
}

// AccessDate renders the date in ABNT access-date form ("15 out. 2026").
// Incomplete dates fall back to Raw or Literal.
func (d *Date) AccessDate() string {
	if d == nil {
		return ""
	}
	y, m, day := d.part(0), d.part(1), d.part(2)
	if y > 0 && m >= 1 && m <= 12 && day > 0 {
		return reference.AccessDate(time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC))
	}
	if d.Literal != "" {
		return d.Literal
	}
	return d.Raw
}

// Read parses a CSL-JSON or CSL-YAML document holding a list of items, a
// Pandoc-style "references" block, or a single item. JSON is read through the YAML decoder, which
// also accepts numbers where CSL allows "number or string".
func Read(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSL: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty CSL document")
	}

	var items []Item
	if err := yaml.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	// Pandoc metadata blocks wrap the list in a "references" key.
	var wrapped struct {
		References []Item `yaml:"references"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.References) > 0 {
		return wrapped.References, nil
	}
	var item Item
	if err := yaml.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parsing CSL: %w", err)
	}
	return []Item{item}, nil
}

// Kind maps a CSL item type onto an ABNT source type.
func Kind(cslType string) types.SourceType {
	switch cslType {
	case "book", "chapter":
		return types.SourceBook
	case "article-journal", "article", "article-magazine", "article-newspaper", "paper-conference", "review":
		return types.SourceArticle
	case "webpage", "post", "post-weblog":
		return types.SourceWebsite
	case "thesis":
		return types.SourceThesis
	}
	return types.SourceOther
}

// FirstAuthor returns the first listed author in free-text form. ABNT
// references are built for a single responsible author.
func (it Item) FirstAuthor() string {
	for _, a := range it.Author {
		if s := a.String(); s != "" {
			return s
		}
	}
	return ""
}

// Fields converts it into the reference record for its source type.
// Unknown types produce OtherFields carrying the title.
func Fields(it Item) types.ReferenceFields {
	author := it.FirstAuthor()
	year := it.Issued.Year()

	switch Kind(it.Type) {
	case types.SourceBook:
		return types.BookFields{
			Author:    author,
			Title:     it.Title,
			Edition:   it.Edition,
			City:      it.PublisherPlace,
			Publisher: it.Publisher,
			Year:      year,
		}
	case types.SourceArticle:
		return types.ArticleFields{
			Author:  author,
			Title:   it.Title,
			Journal: it.ContainerTitle,
			City:    it.PublisherPlace,
			Volume:  it.Volume,
			Number:  it.Issue,
			Pages:   it.Page,
			Month:   it.Issued.Month(),
			Year:    year,
		}
	case types.SourceWebsite:
		return types.WebsiteFields{
			Author:     author,
			Title:      it.Title,
			SiteName:   it.ContainerTitle,
			Year:       year,
			URL:        it.URL,
			AccessDate: it.Accessed.AccessDate(),
		}
	case types.SourceThesis:
		return types.ThesisFields{
			Author:      author,
			Title:       it.Title,
			Year:        year,
			Pages:       it.NumberOfPages,
			ThesisType:  it.Genre,
			Institution: it.Publisher,
			City:        it.PublisherPlace,
		}
	}
	return types.OtherFields{Tag: it.Type, Text: it.Title}
}

// Entry builds a library entry for it from the formatted reference text.
func Entry(it Item, text string) types.Entry {
	return types.Entry{
		ID:     it.ID,
		Text:   text,
		Type:   Kind(it.Type),
		Title:  it.Title,
		Author: it.FirstAuthor(),
	}
}
