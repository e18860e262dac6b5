// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

// BackupVersion is written into every backup.
const BackupVersion = "1.0"

// Format selects a backup serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ExportText returns the text of the selected entries (all entries when
// ids is empty), newest first, separated by blank lines.
func (s *Store) ExportText(ctx context.Context, ids []string) (string, error) {
	entries, err := s.List(ctx, Filter{IDs: ids})
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return strings.Join(texts, "\n\n"), nil
}

// Snapshot returns the whole library as a Backup.
func (s *Store) Snapshot(ctx context.Context) (types.Backup, error) {
	entries, err := s.List(ctx, Filter{})
	if err != nil {
		return types.Backup{}, err
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return types.Backup{}, err
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	if projects == nil {
		projects = []types.Project{}
	}
	return types.Backup{
		References: entries,
		Projects:   projects,
		ExportedAt: s.now().UTC(),
		Version:    BackupVersion,
	}, nil
}

// Restore imports the projects and entries of b, skipping IDs that already
// exist. It returns the number of entries added.
func (s *Store) Restore(ctx context.Context, b types.Backup) (int, error) {
	for _, p := range b.Projects {
		if p.ID == "" || p.Name == "" {
			continue
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
		}
		if err := s.insertProject(ctx, p, true); err != nil {
			return 0, err
		}
	}
	return s.Import(ctx, b.References)
}

// WriteBackup serializes b to w in format f.
func WriteBackup(w io.Writer, b types.Backup, f Format) error {
	switch f {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q: use yaml or json", f)
}

// ReadBackup parses a backup written by WriteBackup.
func ReadBackup(r io.Reader, f Format) (types.Backup, error) {
	var b types.Backup
	switch f {
	case FormatYAML, "":
		if err := yaml.NewDecoder(r).Decode(&b); err != nil {
			return types.Backup{}, fmt.Errorf("parsing YAML backup: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&b); err != nil {
			return types.Backup{}, fmt.Errorf("parsing JSON backup: %w", err)
		}
	default:
		return types.Backup{}, fmt.Errorf("unsupported format %q: use yaml or json", f)
	}
	return b, nil
}

const xlsxSheet = "Referências"

var xlsxHeaders = []string{"ID", "Referência", "Tipo", "Título", "Autor", "Tags", "Projeto", "Criado em"}

// ExportXLSX writes the entries matching f to a spreadsheet at path, one
// row per entry with project names resolved.
func (s *Store) ExportXLSX(ctx context.Context, f Filter, path string) error {
	entries, err := s.List(ctx, f)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := x.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		x.SetCellValue(xlsxSheet, cell, h)
		x.SetCellStyle(xlsxSheet, cell, cell, headerStyle)
	}

	for i, e := range entries {
		row := []any{
			e.ID, e.Text, string(e.Type), e.Title, e.Author,
			strings.Join(e.Tags, ", "), names[e.ProjectID], e.CreatedAt.Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := x.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	x.SetColWidth(xlsxSheet, "B", "B", 80)
	x.SetColWidth(xlsxSheet, "D", "E", 30)

	if err := x.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
