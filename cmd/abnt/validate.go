// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abnt-engine/internal/validate"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [reference...]",
	Short: "Check reference strings for common ABNT mistakes",
	Long: `Validate checks each reference for an upper-case surname at the start, a
final period, an emphasized title, a four-digit year, and an access date on
online sources. Each reference gets a score from 0 to 100.

References come from arguments or from --file, where they are separated by
blank lines. The command fails when any reference has issues.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("file", "", "file with references separated by blank lines (- for stdin)")
	validateCmd.Flags().Bool("json", false, "output reports as JSON")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	refs := args
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		fromFile, err := readReferences(file, cmd.InOrStdin())
		if err != nil {
			return err
		}
		refs = append(refs, fromFile...)
	}
	if len(refs) == 0 {
		return fmt.Errorf("provide one or more references or --file")
	}

	reports, summary := validate.ValidateAll(refs)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := writeReports(cmd.OutOrStdout(), refs, reports, summary, jsonOutput); err != nil {
		return err
	}
	if summary.Invalid > 0 {
		return fmt.Errorf("%d reference(s) failed validation", summary.Invalid)
	}
	return nil
}

func readReferences(path string, stdin io.Reader) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return splitParagraphs(string(data)), nil
}

// splitParagraphs splits text on blank lines, the layout written by
// "abnt library export".
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeReports(w io.Writer, refs []string, reports []types.ValidationReport, summary validate.Summary, jsonOutput bool) error {
	if jsonOutput {
		type item struct {
			Reference string `json:"reference"`
			types.ValidationReport
		}
		items := make([]item, len(reports))
		for i, r := range reports {
			items[i] = item{Reference: refs[i], ValidationReport: r}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for i, r := range reports {
		status := "ok"
		if !r.IsValid {
			status = "issues"
		}
		fmt.Fprintf(w, "[%d] %3d  %-6s  %s\n", i+1, r.Score, status, refs[i])
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "      - %s\n", issue)
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "      > %s\n", s)
		}
	}
	fmt.Fprintf(w, "\n%d valid, %d with issues\n", summary.Valid, summary.Invalid)
	return nil
}
