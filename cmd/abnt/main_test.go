// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abnt-engine/internal/secrets"
	"github.com/pdiddy/abnt-engine/internal/validate"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	assert.Equal(t, types.DefaultConfig(), loadConfig(v))
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ABNT_SERVER_ADDR", ":8080")
	t.Setenv("ABNT_EXTRACT_TIMEOUT", "3s")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ABNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := loadConfig(v)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Extract.Timeout)
	assert.Equal(t, "data/library.db", cfg.Library.Path)
}

func TestLoadConfigUsesSecrets(t *testing.T) {
	orig := loadedSecrets
	t.Cleanup(func() { loadedSecrets = orig })
	loadedSecrets = secrets.Secrets{
		secrets.OpenAlexEmail:  "file@example.com",
		secrets.OpenAlexAPIKey: "k1",
	}

	v := viper.New()
	setDefaults(v)
	cfg := loadConfig(v)
	assert.Equal(t, "file@example.com", cfg.Lookup.Mailto)
	assert.Equal(t, "k1", cfg.Lookup.APIKey)

	v.Set("lookup.mailto", "flag@example.com")
	assert.Equal(t, "flag@example.com", loadConfig(v).Lookup.Mailto)
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantKey  string
		wantVal  any
	}{
		{
			name:     "flat yaml",
			input:    "type: livro\nauthor: João Silva\nyear: 2023\n",
			wantType: "livro",
			wantKey:  "year",
			wantVal:  2023,
		},
		{
			name:     "request-shaped json",
			input:    `{"type": "site", "data": {"url": "https://x.org"}}`,
			wantType: "site",
			wantKey:  "url",
			wantVal:  "https://x.org",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, typ, err := parseFields(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantVal, data[tt.wantKey])
			assert.NotContains(t, data, "type")
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("A.\r\n\r\nB.\n\n\n\nC.\n")
	assert.Equal(t, []string{"A.", "B.", "C."}, got)
}

func TestWriteCitationsSingleVariant(t *testing.T) {
	var buf bytes.Buffer
	f := types.CitationFields{Author: "João Silva", Year: "2023"}
	require.NoError(t, writeCitations(&buf, f, "indirect", false))
	assert.Equal(t, "(SILVA, 2023)\n", buf.String())

	assert.Error(t, writeCitations(&buf, f, "footnote", false))
}

func TestWriteReportsSummary(t *testing.T) {
	refs := []string{"SILVA, João. **Livro**. 2023.", "sem formato"}
	reports, summary := validate.ValidateAll(refs)

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, refs, reports, summary, false))
	assert.Contains(t, buf.String(), "1 valid, 1 with issues")
	assert.Contains(t, buf.String(), validate.IssueYear)
}

func TestBackupFormatFor(t *testing.T) {
	assert.Equal(t, "json", backupFormatFor("backup.JSON"))
	assert.Equal(t, "yaml", backupFormatFor("backup.yaml"))
	assert.Equal(t, "yaml", backupFormatFor("backup"))
}

func writeCSL(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refs.json")
	data := `[
  {"id": "souza2020", "type": "book", "title": "Segundo", "author": [{"family": "Souza", "given": "Ana"}], "issued": {"date-parts": [[2020]]}},
  {"id": "avila2019", "type": "book", "title": "Primeiro", "author": [{"family": "Ávila", "given": "Rui"}], "issued": {"date-parts": [[2019]]}}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRunReferencesFromCSL(t *testing.T) {
	path := writeCSL(t)
	require.NoError(t, referencesCmd.Flags().Set("csl", path))
	t.Cleanup(func() { referencesCmd.Flags().Set("csl", "") })

	var buf bytes.Buffer
	referencesCmd.SetOut(&buf)
	t.Cleanup(func() { referencesCmd.SetOut(nil) })

	require.NoError(t, runReferences(referencesCmd, nil))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "REFERÊNCIAS\n\n"))
	first, second := strings.Index(out, "ÁVILA"), strings.Index(out, "SOUZA")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestRunCheck(t *testing.T) {
	path := writeCSL(t)
	require.NoError(t, checkCmd.Flags().Set("csl", path))
	t.Cleanup(func() { checkCmd.Flags().Set("csl", "") })

	var buf bytes.Buffer
	checkCmd.SetOut(&buf)
	t.Cleanup(func() { checkCmd.SetOut(nil) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-intro.md"), []byte("[@souza2020] [@avila2019]"), 0o644))
	require.NoError(t, runCheck(checkCmd, []string{dir}))
	assert.Contains(t, buf.String(), "All citations resolved.")

	buf.Reset()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-fim.md"), []byte("[@lima2021]"), 0o644))
	err := runCheck(checkCmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing: lima2021")
}
