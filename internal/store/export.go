// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the aggregate dataset to dataDir/index/export.yaml,
// a mapping from compound name to profile. Both exporters marshal maps
// with sorted keys, so re-runs on stable data are byte-identical.
func (s *Store) ExportYAML(ctx context.Context) error {
	dataset, err := s.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset for export: %w", err)
	}

	data, err := yaml.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("marshaling YAML export: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	return writeFileAtomic(path, data)
}

// ExportJSON writes the aggregate dataset to dataDir/index/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	dataset, err := s.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset for export: %w", err)
	}

	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON export: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.json")
	return writeFileAtomic(path, append(data, '\n'))
}
