// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

const articlePage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Como citar sites">
<meta name="author" content="João Silva">
<meta property="article:published_time" content="2023-05-10T08:00:00Z">
<meta name="description" content="Plain description">
<meta property="og:description" content="OG description">
<meta property="og:site_name" content="Portal ABNT">
</head><body><p>conteúdo</p></body></html>`

const barePage = `<html><head><title>  Página simples </title></head>
<body><time datetime="2021-02-03">3 fev</time></body></html>`

func clock() time.Time { return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC) }

func newTestExtractor(ts *httptest.Server) *HTMLExtractor {
	cfg := types.DefaultConfig().Extract
	cfg.RatePerSecond = 0
	return NewHTMLExtractor(cfg).WithHTTPClient(ts.Client()).WithClock(clock)
}

func servePage(body string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestExtractPrefersOpenGraph(t *testing.T) {
	ts := servePage(articlePage, http.StatusOK)
	defer ts.Close()

	meta, err := newTestExtractor(ts).Extract(context.Background(), ts.URL+"/artigo")
	require.NoError(t, err)

	assert.Equal(t, "Como citar sites", meta.Title)
	assert.Equal(t, "João Silva", meta.Author)
	assert.Equal(t, "10/05/2023", meta.PublishedDate)
	assert.Equal(t, "OG description", meta.Description)
	assert.Equal(t, "Portal ABNT", meta.SiteName)
	assert.Equal(t, ts.URL+"/artigo", meta.URL)
	assert.Equal(t, "15 out. 2026", meta.AccessDate)
}

func TestExtractFallbacks(t *testing.T) {
	ts := servePage(barePage, http.StatusOK)
	defer ts.Close()

	meta, err := newTestExtractor(ts).Extract(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "Página simples", meta.Title)
	assert.Empty(t, meta.Author)
	assert.Equal(t, "03/02/2021", meta.PublishedDate)
	assert.Equal(t, "127.0.0.1", meta.SiteName)
}

func TestExtractHTTPError(t *testing.T) {
	ts := servePage("gone", http.StatusNotFound)
	defer ts.Close()

	_, err := newTestExtractor(ts).Extract(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractRejectsInvalidURL(t *testing.T) {
	e := NewHTMLExtractor(types.DefaultConfig().Extract)
	for _, raw := range []string{"", "not a url", "ftp://example.com/x", "/relative/path"} {
		_, err := e.Extract(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestSiteNameStripsWWW(t *testing.T) {
	u, err := ValidateURL("https://www.example.com.br/page")
	require.NoError(t, err)

	doc := mustDoc(t, "<html><head><title>x</title></head></html>")
	assert.Equal(t, "example.com.br", Parse(doc, u).SiteName)
}

func TestYear(t *testing.T) {
	assert.Equal(t, "2023", Year("2023-05-10T08:00:00Z"))
	assert.Equal(t, "2023", Year("10/05/2023"))
	assert.Equal(t, "2019", Year("March 2019"))
	assert.Equal(t, "", Year(""))
	assert.Equal(t, "", Year("ontem"))
}

func TestFormatPublishedDateKeepsUnknown(t *testing.T) {
	assert.Equal(t, "primavera de 2020", FormatPublishedDate("primavera de 2020"))
}

func TestReferenceFromMetadata(t *testing.T) {
	meta := types.PageMetadata{
		Title:         "Como citar sites",
		Author:        "João Silva",
		PublishedDate: "10/05/2023",
		SiteName:      "Portal ABNT",
		URL:           "https://portal.example/artigo",
		AccessDate:    "15 out. 2026",
	}
	got := Reference(reference.NewFormatter(clock), meta)
	assert.Equal(t, "SILVA, João. **Como citar sites**. Portal ABNT, 2023. Disponível em: https://portal.example/artigo. Acesso em: 15 out. 2026.", got)
}

func TestReferenceFromEmptyMetadataUsesClock(t *testing.T) {
	got := Reference(reference.NewFormatter(clock), types.PageMetadata{URL: "https://x.example"})
	assert.True(t, strings.HasSuffix(got, "Nome do site, 2026. Disponível em: https://x.example. Acesso em: 15 out. 2026."), got)
}
