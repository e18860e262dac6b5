// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved references (add, list, remove, export, import)",
	Long: `Library manages the local SQLite library of saved references. References
can be tagged and grouped into projects (see "abnt project").`,
}

// --- add subcommand ---

var libraryAddCmd = &cobra.Command{
	Use:   "add [reference text]",
	Short: "Save a formatted reference",
	RunE:  runLibraryAdd,
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("provide the reference text")
	}

	e := types.Entry{Text: text}
	typ, _ := cmd.Flags().GetString("type")
	e.Type = types.SourceType(typ)
	e.Title, _ = cmd.Flags().GetString("title")
	e.Author, _ = cmd.Flags().GetString("author")
	e.Tags, _ = cmd.Flags().GetStringSlice("tag")
	e.ProjectID, _ = cmd.Flags().GetString("project")

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	stored, err := store.Add(context.Background(), e)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", stored.ID, stored.Type)
	return nil
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List saved references, newest first",
	Long: `List prints saved references, newest first. An optional query matches text,
title, author, and tags ignoring case and accents.`,
	RunE: runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), filterFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatListOutput(w io.Writer, entries []types.Entry, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []types.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No references found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-8s  %-10s  %s\n", "ID", "Type", "Created", "Reference")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, e := range entries {
		text := []rune(e.Text)
		if len(text) > 50 {
			text = append(text[:47], []rune("...")...)
		}
		fmt.Fprintf(w, "%-36s  %-8s  %-10s  %s\n",
			e.ID, e.Type, e.CreatedAt.Format("2006-01-02"), string(text))
	}
	fmt.Fprintf(w, "\n%d references\n", len(entries))
	return nil
}

// --- remove subcommand ---

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [id...]",
	Short: "Remove saved references",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLibraryRemove,
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	failed := 0
	for _, id := range args {
		if err := store.Remove(context.Background(), id); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d reference(s) could not be removed", failed)
	}
	return nil
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as text, YAML, JSON, or XLSX",
	Long: `Export writes the library in one of four formats:

  text  formatted references separated by blank lines (default)
  yaml  full backup of references and projects
  json  full backup of references and projects
  xlsx  spreadsheet with one row per reference

Text and xlsx honour the list filters; backups always contain everything.
Without --output, text, yaml, and json go to stdout.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	ctx := context.Background()

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	if format == "xlsx" {
		if output == "" {
			output = "referencias.xlsx"
		}
		if err := store.ExportXLSX(ctx, filterFromFlags(cmd, args), output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
		return nil
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "text", "":
		ids, _ := cmd.Flags().GetStringSlice("id")
		text, err := store.ExportText(ctx, ids)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, text)
	case "yaml", "json":
		b, err := store.Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := library.WriteBackup(w, b, library.Format(format)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use text, yaml, json, or xlsx", format)
	}

	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	}
	return nil
}

// --- import subcommand ---

var libraryImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a YAML or JSON backup",
	Long: `Import reads a backup written by "library export --format yaml|json" and
adds projects and references whose IDs are not already in the library. The
format follows the file extension unless --format is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryImport,
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = backupFormatFor(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	b, err := library.ReadBackup(f, library.Format(format))
	if err != nil {
		return err
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := store.Restore(context.Background(), b)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d references\n", added, len(b.References))
	return nil
}

// backupFormatFor picks the backup format from a file extension.
func backupFormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return string(library.FormatJSON)
	}
	return string(library.FormatYAML)
}

// --- shared helpers ---

func filterFromFlags(cmd *cobra.Command, args []string) library.Filter {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	projectID, _ := cmd.Flags().GetString("project")
	typ, _ := cmd.Flags().GetString("type")
	ids, _ := cmd.Flags().GetStringSlice("id")

	f := library.Filter{Query: query, ProjectID: projectID, IDs: ids}
	if typ != "" {
		f.Type, _ = types.ParseSourceType(typ)
	}
	return f
}

func init() {
	// Add flags.
	libraryAddCmd.Flags().String("type", "", "source type: book, article, website, thesis, other")
	libraryAddCmd.Flags().String("title", "", "title, for search")
	libraryAddCmd.Flags().String("author", "", "author, for search")
	libraryAddCmd.Flags().StringSlice("tag", nil, "tag (repeatable)")
	libraryAddCmd.Flags().String("project", "", "project ID")

	// Filter flags shared by list and export.
	for _, c := range []*cobra.Command{libraryListCmd, libraryExportCmd} {
		c.Flags().String("query", "", "case- and accent-insensitive search")
		c.Flags().String("project", "", "filter by project ID")
		c.Flags().String("type", "", "filter by source type")
		c.Flags().StringSlice("id", nil, "restrict to reference IDs (repeatable)")
	}
	libraryListCmd.Flags().Bool("json", false, "output references as JSON")

	libraryExportCmd.Flags().String("format", "text", "export format: text, yaml, json, xlsx")
	libraryExportCmd.Flags().String("output", "", "output file")

	libraryImportCmd.Flags().String("format", "", "backup format: yaml or json (default from extension)")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryImportCmd)

	rootCmd.AddCommand(libraryCmd)
}
