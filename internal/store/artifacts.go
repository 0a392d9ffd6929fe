// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/compound-atlas/pkg/types"
)

// Slug returns the filesystem-safe filename stem for a compound name.
// Lowercased, spaces collapsed to single dashes, anything outside
// [a-z0-9._-] dropped. A name that reduces to nothing falls back to a
// hash so every compound gets a deterministic artifact path.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '/':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		h := sha256.Sum256([]byte(name))
		return fmt.Sprintf("compound-%x", h[:8])
	}
	return slug
}

// profilePath returns the detail artifact path for a compound name.
func (s *Store) profilePath(name string) string {
	return filepath.Join(s.dataDir, profilesDir, Slug(name)+".yaml")
}

// WriteProfile writes the detail artifact for one compound, replacing
// any prior artifact for the same name. The YAML is written to a temp
// file in the destination directory and renamed into place, so a crash
// mid-write never leaves a truncated artifact behind a valid name.
func (s *Store) WriteProfile(p *types.CompoundProfile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile %s: %w", p.Name, err)
	}

	destPath := s.profilePath(p.Name)
	return writeFileAtomic(destPath, data)
}

// LoadProfile reads one compound's detail artifact by name.
func (s *Store) LoadProfile(name string) (*types.CompoundProfile, error) {
	data, err := os.ReadFile(s.profilePath(name))
	if err != nil {
		return nil, fmt.Errorf("reading profile for %q: %w", name, err)
	}
	var p types.CompoundProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile for %q: %w", name, err)
	}
	return &p, nil
}

// ListProfiles loads every detail artifact, sorted by filename.
func (s *Store) ListProfiles() ([]*types.CompoundProfile, error) {
	dir := filepath.Join(s.dataDir, profilesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	profiles := make([]*types.CompoundProfile, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var p types.CompoundProfile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, nil
}

// writeFileAtomic writes data to destPath via a temp file and rename.
func writeFileAtomic(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".atlas-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing artifact: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
