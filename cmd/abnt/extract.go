// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/metadata"
	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract page metadata and draft a website reference",
	Long: `Extract fetches a web page, reads its title, author, publication date,
description, and site name from <meta> and <title> tags, and prints a draft
ABNT website reference. Review the draft; pages often omit or misreport
authors and dates.

Use --save to add the draft to the library.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 15s)")
	extractCmd.Flags().String("user-agent", "", "User-Agent header for the request")
	extractCmd.Flags().Bool("json", false, "output metadata and reference as JSON")
	extractCmd.Flags().Bool("save", false, "save the drafted reference to the library")
	extractCmd.Flags().String("project", "", "project ID for --save")

	viper.BindPFlag("extract.timeout", extractCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("extract.user_agent", extractCmd.Flags().Lookup("user-agent"))

	rootCmd.AddCommand(extractCmd)
}

type extractOutput struct {
	Data          types.PageMetadata `json:"data"`
	ABNTReference string             `json:"abntReference"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	ctx := context.Background()

	meta, err := metadata.NewHTMLExtractor(cfg.Extract).Extract(ctx, args[0])
	if err != nil {
		return err
	}
	out := extractOutput{
		Data:          meta,
		ABNTReference: metadata.Reference(reference.NewFormatter(nil), meta),
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := writeExtract(cmd.OutOrStdout(), out, jsonOutput); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); !save {
		return nil
	}
	projectID, _ := cmd.Flags().GetString("project")

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Add(ctx, types.Entry{
		Text:      out.ABNTReference,
		Type:      types.SourceWebsite,
		Title:     meta.Title,
		Author:    meta.Author,
		ProjectID: projectID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved to library as %s\n", e.ID)
	return nil
}

func writeExtract(w io.Writer, out extractOutput, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rows := []struct{ label, value string }{
		{"Title", out.Data.Title},
		{"Author", out.Data.Author},
		{"Published", out.Data.PublishedDate},
		{"Site", out.Data.SiteName},
		{"Description", out.Data.Description},
		{"Accessed", out.Data.AccessDate},
	}
	for _, r := range rows {
		if r.value != "" {
			fmt.Fprintf(w, "%-12s %s\n", r.label+":", r.value)
		}
	}
	fmt.Fprintf(w, "\n%s\n", out.ABNTReference)
	return nil
}
