// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/abnt-engine/internal/csl"
	"github.com/pdiddy/abnt-engine/internal/httputil"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// openAlexWorksBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works/"

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// doiPrefixes are stripped before matching.
var doiPrefixes = []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"}

// ErrInvalidDOI is returned for identifiers that are not DOIs.
var ErrInvalidDOI = errors.New("DOI inválido")

// NormalizeDOI strips resolver prefixes and checks the DOI syntax.
func NormalizeDOI(raw string) (string, error) {
	doi := strings.TrimSpace(raw)
	for _, p := range doiPrefixes {
		if len(doi) >= len(p) && strings.EqualFold(doi[:len(p)], p) {
			doi = doi[len(p):]
			break
		}
	}
	if !doiPattern.MatchString(doi) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDOI, raw)
	}
	return doi, nil
}

// Resolver looks up bibliographic metadata for a DOI.
type Resolver interface {
	Resolve(ctx context.Context, doi string) (csl.Item, error)
}

// OpenAlexResolver resolves DOIs through the OpenAlex works API.
type OpenAlexResolver struct {
	client *httputil.Client
	mailto string
	apiKey string
	now    func() time.Time
}

// NewOpenAlexResolver builds a resolver from cfg.
func NewOpenAlexResolver(cfg types.LookupConfig) *OpenAlexResolver {
	return &OpenAlexResolver{
		client: httputil.NewClient(cfg.HTTPConfig, 0, cfg.MaxRetries),
		mailto: cfg.Mailto,
		apiKey: cfg.APIKey,
		now:    time.Now,
	}
}

// WithClock overrides the clock used for the access date.
func (r *OpenAlexResolver) WithClock(now func() time.Time) *OpenAlexResolver {
	r.now = now
	return r
}

// WithHTTPClient swaps the transport client.
func (r *OpenAlexResolver) WithHTTPClient(hc *http.Client) *OpenAlexResolver {
	r.client.WithHTTPClient(hc)
	return r
}

// Resolve fetches the work for doi and converts it to a CSL item.
func (r *OpenAlexResolver) Resolve(ctx context.Context, doi string) (csl.Item, error) {
	doi, err := NormalizeDOI(doi)
	if err != nil {
		return csl.Item{}, err
	}

	apiURL := openAlexWorksBase + "https://doi.org/" + doi
	params := url.Values{}
	if r.mailto != "" {
		params.Set("mailto", r.mailto)
	}
	if r.apiKey != "" {
		params.Set("api_key", r.apiKey)
	}
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	resp, err := r.client.Get(ctx, apiURL)
	if err != nil {
		return csl.Item{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return csl.Item{}, fmt.Errorf("DOI %s not found in OpenAlex", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return csl.Item{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return csl.Item{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return work.item(doi, r.now()), nil
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	DisplayName     string               `json:"display_name"`
	Type            string               `json:"type"`
	PublicationDate string               `json:"publication_date"`
	PublicationYear int                  `json:"publication_year"`
	Authorships     []openAlexAuthorship `json:"authorships"`
	PrimaryLocation *openAlexLocation    `json:"primary_location"`
	Biblio          openAlexBiblio       `json:"biblio"`
}

type openAlexAuthorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type openAlexLocation struct {
	LandingPageURL string          `json:"landing_page_url"`
	Source         *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName          string `json:"display_name"`
	HostOrganizationName string `json:"host_organization_name"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

// openAlexTypes maps OpenAlex work types onto CSL types. Unlisted types
// are treated as journal articles, the OpenAlex majority.
var openAlexTypes = map[string]string{
	"article":      "article-journal",
	"book":         "book",
	"book-chapter": "chapter",
	"dissertation": "thesis",
	"preprint":     "article",
	"dataset":      "dataset",
}

func (w openAlexWork) item(doi string, now time.Time) csl.Item {
	it := csl.Item{
		ID:    doi,
		Type:  "article-journal",
		Title: w.Title,
		DOI:   doi,
		URL:   "https://doi.org/" + doi,
	}
	if t, ok := openAlexTypes[w.Type]; ok {
		it.Type = t
	}
	if it.Title == "" {
		it.Title = w.DisplayName
	}

	for _, a := range w.Authorships {
		if n := csl.ParseName(a.Author.DisplayName); n != (csl.Name{}) {
			it.Author = append(it.Author, n)
		}
	}

	if t, err := time.Parse("2006-01-02", w.PublicationDate); err == nil {
		it.Issued = csl.NewDate(t.Year(), int(t.Month()), t.Day())
	} else if w.PublicationYear > 0 {
		it.Issued = csl.NewDate(w.PublicationYear, 0, 0)
	}

	if loc := w.PrimaryLocation; loc != nil && loc.Source != nil {
		it.ContainerTitle = loc.Source.DisplayName
		it.Publisher = loc.Source.HostOrganizationName
	}

	it.Volume = w.Biblio.Volume
	it.Issue = w.Biblio.Issue
	switch {
	case w.Biblio.FirstPage != "" && w.Biblio.LastPage != "" && w.Biblio.LastPage != w.Biblio.FirstPage:
		it.Page = w.Biblio.FirstPage + "-" + w.Biblio.LastPage
	case w.Biblio.FirstPage != "":
		it.Page = w.Biblio.FirstPage
	}

	it.Accessed = csl.NewDate(now.Year(), int(now.Month()), now.Day())
	return it
}
