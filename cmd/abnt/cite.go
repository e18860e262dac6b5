// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abnt-engine/internal/citation"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Generate in-text citations (NBR 10520)",
	Long: `Cite produces the in-text citation variants for an author and year:
direct-short, direct-long, indirect, author-text, and apud. Use --variant to
print a single one. Page and quote are optional.`,
	RunE: runCite,
}

func init() {
	citeCmd.Flags().String("author", "", "author name, e.g. \"João Silva\"")
	citeCmd.Flags().String("year", "", "publication year")
	citeCmd.Flags().String("page", "", "page or page range")
	citeCmd.Flags().String("quote", "", "quoted passage")
	citeCmd.Flags().String("variant", "", "print one variant: direct-short, direct-long, indirect, author-text, apud")
	citeCmd.Flags().Bool("json", false, "output citations as JSON")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	f := types.CitationFields{}
	f.Author, _ = cmd.Flags().GetString("author")
	f.Year, _ = cmd.Flags().GetString("year")
	f.Page, _ = cmd.Flags().GetString("page")
	f.Quote, _ = cmd.Flags().GetString("quote")

	if !citation.Ready(f) {
		return fmt.Errorf("--author and --year are required")
	}

	variant, _ := cmd.Flags().GetString("variant")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeCitations(cmd.OutOrStdout(), f, variant, jsonOutput)
}

func writeCitations(w io.Writer, f types.CitationFields, variant string, jsonOutput bool) error {
	cites := citation.All(f)
	if variant != "" {
		v, err := citation.ParseVariant(variant)
		if err != nil {
			return err
		}
		for _, c := range cites {
			if c.Type == v {
				cites = []citation.Citation{c}
				break
			}
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cites)
	}

	if len(cites) == 1 {
		fmt.Fprintln(w, cites[0].Text)
		return nil
	}
	for _, c := range cites {
		fmt.Fprintf(w, "%s (%s)\n  %s\n\n", c.Label, c.Description, c.Text)
	}
	return nil
}
