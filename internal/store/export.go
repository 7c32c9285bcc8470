// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// ExportEntry is an element with its isotopes as written to the export
// files.
type ExportEntry struct {
	types.Element `yaml:",inline"`
	Isotopes      []types.Isotope `json:"isotopes" yaml:"isotopes"`
}

const exportLimit = 1000

// ExportYAML writes the elements matching f to index/export.yaml and
// returns the file path.
func (s *Store) ExportYAML(ctx context.Context, f ElementFilter) (string, error) {
	entries, err := s.exportEntries(ctx, f)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	return path, fsutil.WriteFile(path, data)
}

// ExportJSON writes the elements matching f to index/export.json and
// returns the file path.
func (s *Store) ExportJSON(ctx context.Context, f ElementFilter) (string, error) {
	entries, err := s.exportEntries(ctx, f)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.json")
	return path, fsutil.WriteFile(path, append(data, '\n'))
}

func (s *Store) exportEntries(ctx context.Context, f ElementFilter) ([]ExportEntry, error) {
	f.Limit = exportLimit
	elements, err := s.ListElements(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	isotopes, err := s.ListIsotopes(ctx, IsotopeFilter{Limit: exportLimit * 40})
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	byElement := make(map[int][]types.Isotope)
	for _, iso := range isotopes {
		byElement[iso.Element] = append(byElement[iso.Element], iso)
	}

	entries := make([]ExportEntry, len(elements))
	for i, e := range elements {
		entries[i] = ExportEntry{Element: e, Isotopes: byElement[e.AtomicNumber]}
		if entries[i].Isotopes == nil {
			entries[i].Isotopes = []types.Isotope{}
		}
	}
	return entries, nil
}
