// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abnt-engine/internal/csl"
	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/manuscript"
	"github.com/pdiddy/abnt-engine/internal/reference"
)

// --- references command ---

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Print the sorted REFERÊNCIAS list for a document",
	Long: `References prints the alphabetical reference list that closes an ABNT
document. Entries come from the library (optionally one project) or, with
--csl, from a CSL-JSON or CSL-YAML file.

Examples:
  abnt references --project 6f1c...
  abnt references --csl refs.json --html > referencias.html`,
	RunE: runReferences,
}

func runReferences(cmd *cobra.Command, args []string) error {
	var refs []string

	if cslFile, _ := cmd.Flags().GetString("csl"); cslFile != "" {
		items, err := readCSLFile(cslFile)
		if err != nil {
			return err
		}
		formatter := reference.NewFormatter(nil)
		for _, it := range items {
			refs = append(refs, formatter.Format(csl.Fields(it)).String())
		}
	} else {
		projectID, _ := cmd.Flags().GetString("project")
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(context.Background(), library.Filter{ProjectID: projectID})
		if err != nil {
			return err
		}
		for _, e := range entries {
			refs = append(refs, e.Text)
		}
	}

	if len(refs) == 0 {
		return fmt.Errorf("no references to list")
	}
	asHTML, _ := cmd.Flags().GetBool("html")
	return manuscript.WriteList(cmd.OutOrStdout(), refs, asHTML)
}

// --- check command ---

var checkCmd = &cobra.Command{
	Use:   "check <manuscript-dir>",
	Short: "Report citations in section files with no matching reference",
	Long: `Check scans the numbered section files (NN-*.md) of a manuscript directory
for citation keys, either Pandoc style [@key] or [AuthorYear], and reports
keys that have no item in the --csl file. Exits with an error when any key
is missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cslFile, _ := cmd.Flags().GetString("csl")
	items, err := readCSLFile(cslFile)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID != "" {
			known[it.ID] = true
		}
	}

	missing, err := manuscript.MissingCitations(args[0], known)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(missing) == 0 {
		fmt.Fprintln(out, "All citations resolved.")
		return nil
	}
	for _, key := range missing {
		fmt.Fprintf(out, "missing: %s\n", key)
	}
	return fmt.Errorf("%d citation key(s) without a reference", len(missing))
}

// readCSLFile loads CSL items from a JSON or YAML file.
func readCSLFile(path string) ([]csl.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return csl.Read(f)
}

func init() {
	referencesCmd.Flags().String("project", "", "list only this project's references")
	referencesCmd.Flags().String("csl", "", "CSL-JSON or CSL-YAML file instead of the library")
	referencesCmd.Flags().Bool("html", false, "print as HTML")

	checkCmd.Flags().String("csl", "", "CSL-JSON or CSL-YAML file with the cited items (required)")
	_ = checkCmd.MarkFlagRequired("csl")

	rootCmd.AddCommand(referencesCmd)
	rootCmd.AddCommand(checkCmd)
}
