// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/abnt-engine/internal/csl"
	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// fieldFlags maps CLI flags onto the data keys understood by
// reference.Decode.
var fieldFlags = []struct {
	flag, key, usage string
}{
	{"author", "author", "author name, e.g. \"João Silva\""},
	{"title", "title", "title of the work"},
	{"subtitle", "subtitle", "subtitle (book)"},
	{"edition", "edition", "edition number (book)"},
	{"city", "city", "place of publication"},
	{"publisher", "publisher", "publisher (book)"},
	{"year", "year", "publication year"},
	{"journal", "journal", "journal name (article)"},
	{"volume", "volume", "volume (article)"},
	{"number", "number", "issue number (article)"},
	{"pages", "pages", "page range (article) or page count (thesis)"},
	{"month", "month", "abbreviated month (article)"},
	{"site-name", "siteName", "site name (website)"},
	{"url", "url", "page URL (website)"},
	{"access-date", "accessDate", "access date (website, default today)"},
	{"thesis-type", "thesisType", "Tese, Dissertação, TCC (thesis)"},
	{"degree", "degree", "degree, e.g. Mestrado (thesis)"},
	{"institution", "institution", "institution (thesis)"},
	{"text", "text", "free text for other source types"},
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format a bibliographic reference (NBR 6023)",
	Long: `Format builds an ABNT reference for a book, article, website, or thesis.
Fields come from flags, from a YAML or JSON file given with --data, or
both; flags override file values. Portuguese type names (livro, artigo,
site, tese) are accepted.

With --csl, every item of a CSL-JSON or CSL-YAML file (as exported by
Zotero, Mendeley, or Pandoc) is formatted instead, one reference per
paragraph; --save adds them to the library.

The title is printed between ** markers; use --plain or --html for other
renderings.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().String("type", "", "source type: book, article, website, thesis (required)")
	formatCmd.Flags().String("data", "", "YAML or JSON file with reference fields")
	formatCmd.Flags().Bool("plain", false, "print without emphasis markers")
	formatCmd.Flags().Bool("html", false, "print as HTML with <strong> emphasis")
	formatCmd.Flags().String("csl", "", "CSL-JSON or CSL-YAML file to format")
	formatCmd.Flags().Bool("save", false, "save --csl references to the library")
	formatCmd.Flags().String("project", "", "project ID for --save")
	for _, f := range fieldFlags {
		formatCmd.Flags().String(f.flag, "", f.usage)
	}

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	if cslFile, _ := cmd.Flags().GetString("csl"); cslFile != "" {
		return runFormatCSL(cmd, cslFile)
	}

	sourceType, _ := cmd.Flags().GetString("type")
	dataFile, _ := cmd.Flags().GetString("data")

	data := map[string]any{}
	if dataFile != "" {
		fileData, fileType, err := readFieldsFile(dataFile)
		if err != nil {
			return err
		}
		data = fileData
		if sourceType == "" {
			sourceType = fileType
		}
	}
	for _, f := range fieldFlags {
		if cmd.Flags().Changed(f.flag) {
			data[f.key], _ = cmd.Flags().GetString(f.flag)
		}
	}

	if sourceType == "" {
		return fmt.Errorf("--type is required (book, article, website, thesis)")
	}

	formatted := reference.NewFormatter(nil).Format(reference.Decode(sourceType, data))
	fmt.Fprintln(cmd.OutOrStdout(), render(cmd, formatted))
	return nil
}

func runFormatCSL(cmd *cobra.Command, path string) error {
	items, err := readCSLFile(path)
	if err != nil {
		return err
	}

	formatter := reference.NewFormatter(nil)
	out := cmd.OutOrStdout()
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, render(cmd, formatter.Format(csl.Fields(it))))
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		projectID, _ := cmd.Flags().GetString("project")
		cfg := loadConfig(viper.GetViper())
		if err := saveItems(context.Background(), cfg.Library, items, formatter, projectID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d reference(s) to the library\n", len(items))
	}
	return nil
}

// render applies the --html and --plain flags.
func render(cmd *cobra.Command, r types.FormattedReference) string {
	if html, _ := cmd.Flags().GetBool("html"); html {
		return reference.HTML(r)
	}
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return r.Plain()
	}
	return r.String()
}

// readFieldsFile loads a field map from path. A top-level "type" key is
// returned separately; a nested "data" map is used when present, so files
// shaped like the HTTP request body also work.
func readFieldsFile(path string) (map[string]any, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return parseFields(f)
}

func parseFields(r io.Reader) (map[string]any, string, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, "", fmt.Errorf("parsing reference fields: %w", err)
	}
	sourceType, _ := raw["type"].(string)
	if nested, ok := raw["data"].(map[string]any); ok {
		return nested, sourceType, nil
	}
	delete(raw, "type")
	return raw, sourceType, nil
}
