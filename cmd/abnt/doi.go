// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/abnt-engine/internal/csl"
	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/metadata"
	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

var doiCmd = &cobra.Command{
	Use:   "doi [doi...]",
	Short: "Look up DOIs in OpenAlex and format the references",
	Long: `DOI resolves each identifier through the OpenAlex works API and prints
the ABNT reference. Bare DOIs, doi: prefixes, and doi.org URLs are accepted.

Set lookup.mailto in the config or write your address to
.secrets/openalex-email to use the OpenAlex polite pool.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDOI,
}

func init() {
	doiCmd.Flags().Bool("json", false, "output CSL items as JSON")
	doiCmd.Flags().Bool("save", false, "save the references to the library")
	doiCmd.Flags().String("project", "", "project ID for --save")
	doiCmd.Flags().String("mailto", "", "contact email for the OpenAlex polite pool")

	viper.BindPFlag("lookup.mailto", doiCmd.Flags().Lookup("mailto"))

	rootCmd.AddCommand(doiCmd)
}

func runDOI(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	ctx := context.Background()
	resolver := metadata.NewOpenAlexResolver(cfg.Lookup)
	formatter := reference.NewFormatter(nil)
	out := cmd.OutOrStdout()

	var items []csl.Item
	failed := 0
	for _, id := range args {
		item, err := resolver.Resolve(ctx, id)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", id, err)
			failed++
			continue
		}
		items = append(items, item)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return err
		}
	} else {
		for _, it := range items {
			fmt.Fprintln(out, formatter.FormatString(csl.Fields(it)))
		}
	}

	if save, _ := cmd.Flags().GetBool("save"); save && len(items) > 0 {
		projectID, _ := cmd.Flags().GetString("project")
		if err := saveItems(ctx, cfg.Library, items, formatter, projectID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d reference(s) to the library\n", len(items))
	}

	if failed > 0 {
		return fmt.Errorf("%d DOI(s) could not be resolved", failed)
	}
	return nil
}

// saveItems formats items and stores them, skipping IDs already present.
func saveItems(ctx context.Context, cfg types.LibraryConfig, items []csl.Item, f *reference.Formatter, projectID string) error {
	store, err := library.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entries := make([]types.Entry, len(items))
	for i, it := range items {
		e := csl.Entry(it, f.FormatString(csl.Fields(it)))
		e.ProjectID = projectID
		entries[i] = e
	}
	_, err = store.Import(ctx, entries)
	return err
}
