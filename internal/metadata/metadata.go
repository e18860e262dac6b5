// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata extracts best-effort citation metadata from web pages
// and turns it into a website reference. Extraction is heuristic: any
// field may come back empty and callers must cope with that.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/abnt-engine/internal/httputil"
	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Extractor returns metadata for a page URL.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (types.PageMetadata, error)
}

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("URL inválida")

// ValidateURL parses raw and requires an absolute http or https URL.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

// HTMLExtractor fetches a page and reads its <meta> and <title> tags.
type HTMLExtractor struct {
	client  *httputil.Client
	maxBody int64
	now     func() time.Time
}

// NewHTMLExtractor builds an extractor from cfg.
func NewHTMLExtractor(cfg types.ExtractConfig) *HTMLExtractor {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 2 << 20
	}
	return &HTMLExtractor{
		client:  httputil.NewClient(cfg.HTTPConfig, cfg.RatePerSecond, cfg.MaxRetries),
		maxBody: maxBody,
		now:     time.Now,
	}
}

// WithClock overrides the clock used for the access date.
func (e *HTMLExtractor) WithClock(now func() time.Time) *HTMLExtractor {
	e.now = now
	return e
}

// WithHTTPClient swaps the transport client, e.g. for httptest servers.
func (e *HTMLExtractor) WithHTTPClient(hc *http.Client) *HTMLExtractor {
	e.client.WithHTTPClient(hc)
	return e
}

// Extract fetches pageURL and returns its metadata. Non-2xx responses
// are errors.
func (e *HTMLExtractor) Extract(ctx context.Context, pageURL string) (types.PageMetadata, error) {
	u, err := ValidateURL(pageURL)
	if err != nil {
		return types.PageMetadata{}, err
	}

	resp, err := e.client.Get(ctx, u.String())
	if err != nil {
		return types.PageMetadata{}, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.PageMetadata{}, fmt.Errorf("fetching %s: HTTP error! status: %d", u, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		return types.PageMetadata{}, fmt.Errorf("parsing HTML from %s: %w", u, err)
	}

	meta := Parse(doc, u)
	meta.AccessDate = reference.AccessDate(e.now())
	return meta, nil
}

// Parse reads metadata from an already parsed document. pageURL supplies
// the URL field and the site-name fallback.
func Parse(doc *goquery.Document, pageURL *url.URL) types.PageMetadata {
	meta := types.PageMetadata{
		Title: first(
			metaContent(doc, `meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Author: first(
			metaContent(doc, `meta[name="author"]`),
			metaContent(doc, `meta[property="article:author"]`),
		),
		PublishedDate: FormatPublishedDate(first(
			metaContent(doc, `meta[property="article:published_time"]`),
			metaContent(doc, `meta[name="date"]`),
			attr(doc, "time[datetime]", "datetime"),
		)),
		Description: first(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
		),
		SiteName: metaContent(doc, `meta[property="og:site_name"]`),
		URL:      pageURL.String(),
	}
	if meta.SiteName == "" {
		meta.SiteName = strings.TrimPrefix(pageURL.Hostname(), "www.")
	}
	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc, selector, "content")
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// dateLayouts are tried in order when reading a published date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate reads a published date in one of the common page formats.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPublishedDate renders a parseable date as dd/mm/yyyy and returns
// anything else unchanged.
func FormatPublishedDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("02/01/2006")
	}
	return s
}

// Year returns the four-digit year of a published date, or "" when it
// cannot be determined.
func Year(published string) string {
	if t, ok := ParseDate(published); ok {
		return strconv.Itoa(t.Year())
	}
	for _, f := range strings.FieldsFunc(published, func(r rune) bool { return r < '0' || r > '9' }) {
		if len(f) == 4 {
			return f
		}
	}
	return ""
}

// WebsiteFields maps page metadata onto the website reference record.
func WebsiteFields(meta types.PageMetadata) types.WebsiteFields {
	return types.WebsiteFields{
		Author:     meta.Author,
		Title:      meta.Title,
		SiteName:   meta.SiteName,
		Year:       Year(meta.PublishedDate),
		URL:        meta.URL,
		AccessDate: meta.AccessDate,
	}
}

// Reference formats meta as an ABNT website reference using f.
func Reference(f *reference.Formatter, meta types.PageMetadata) string {
	return f.FormatString(WebsiteFields(meta))
}
