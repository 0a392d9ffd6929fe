// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry loads and validates the compound list input file.
package registry

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/compound-atlas/internal/store"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

// MalformedInputError indicates the compound list file cannot be used.
// It is fatal: the run aborts before any network call, since a bad list
// would corrupt the dataset's overwrite semantics.
type MalformedInputError struct {
	// Path is the input file path.
	Path string

	// Line is the 1-based line number of the offending row, or 0 when
	// the problem is file-level.
	Line int

	// Reason describes what is wrong with the input.
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed compound list %s: line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed compound list %s: %s", e.Path, e.Reason)
}

// chemblIDPattern matches ChEMBL molecule identifiers: "CHEMBL1422".
var chemblIDPattern = regexp.MustCompile(`^CHEMBL\d+$`)

// Expected header columns of the compound list.
const (
	headerName = "active_compound"
	headerID   = "ID"
)

// Load reads the compound list CSV at path. The file must carry exactly
// two columns with the header "active_compound,ID". Blank names,
// malformed identifiers, and duplicate names all fail with a
// MalformedInputError; duplicates would silently overwrite each other in
// the persistence layer, so they abort the run instead. Names are
// deduplicated on their artifact slug, not just case-folded text: two
// distinct names that reduce to the same slug would share one detail
// artifact, so they are rejected the same way. The returned slice
// preserves input order.
func Load(path string) ([]types.Compound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening compound list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &MalformedInputError{Path: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &MalformedInputError{Path: path, Reason: "file is empty"}
	}

	header := records[0]
	if len(header) > 0 {
		// Strip a UTF-8 BOM if the file carries one.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) != 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), headerName) ||
		!strings.EqualFold(strings.TrimSpace(header[1]), headerID) {
		return nil, &MalformedInputError{
			Path: path, Line: 1,
			Reason: fmt.Sprintf("expected header %q, got %q", headerName+","+headerID, strings.Join(header, ",")),
		}
	}

	type entry struct {
		name string
		line int
	}
	compounds := make([]types.Compound, 0, len(records)-1)
	seen := make(map[string]entry) // artifact slug → first occurrence

	for i, row := range records[1:] {
		line := i + 2
		if len(row) != 2 {
			return nil, &MalformedInputError{
				Path: path, Line: line,
				Reason: fmt.Sprintf("expected 2 columns, got %d", len(row)),
			}
		}

		name := strings.TrimSpace(row[0])
		id := strings.TrimSpace(row[1])

		if name == "" {
			return nil, &MalformedInputError{Path: path, Line: line, Reason: "blank compound name"}
		}
		if !chemblIDPattern.MatchString(id) {
			return nil, &MalformedInputError{
				Path: path, Line: line,
				Reason: fmt.Sprintf("malformed ChEMBL identifier %q", id),
			}
		}

		key := store.Slug(name)
		if prev, ok := seen[key]; ok {
			reason := fmt.Sprintf("duplicate compound name %q (first seen on line %d)", name, prev.line)
			if !strings.EqualFold(name, prev.name) {
				reason = fmt.Sprintf("compound name %q shares its artifact name %q with %q on line %d",
					name, key, prev.name, prev.line)
			}
			return nil, &MalformedInputError{Path: path, Line: line, Reason: reason}
		}
		seen[key] = entry{name: name, line: line}

		compounds = append(compounds, types.Compound{Name: name, ChemblID: id})
	}

	return compounds, nil
}
