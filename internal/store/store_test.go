// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/compound-atlas/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dataDir := filepath.Join(t.TempDir(), "data")
	s, err := Open(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dataDir
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleProfile(name string) *types.CompoundProfile {
	return &types.CompoundProfile{
		Name:     name,
		ChemblID: "CHEMBL741",
		Molecule: &types.MoleculeRecord{
			MolecularFormula:   "C9H7Cl2N5",
			MolecularWeight:    floatPtr(256.09),
			XLogP:              floatPtr(2.5),
			HBondDonorCount:    intPtr(2),
			HBondAcceptorCount: intPtr(5),
			ExactMass:          floatPtr(255.0078986),
			TPSA:               floatPtr(90.7),
		},
		Observations: []types.AssayObservation{
			{
				Metric: types.MetricED50, Value: 4.2, Unit: "mg/kg",
				Organism: "mouse", TargetName: "Sodium channel",
				ActivityID: 1001, AssayDescription: "maximal electroshock seizure test",
			},
			{
				Metric: types.MetricTD50, Value: 28.5, Unit: "mg/kg",
				Organism: "mouse", ActivityID: 1002,
			},
		},
		MetadataStatus: types.StatusOK,
		AssayStatus:    types.StatusOK,
	}
}

func TestOpenCreatesLayout(t *testing.T) {
	_, dataDir := testStore(t)

	for _, dir := range []string{
		filepath.Join(dataDir, profilesDir),
		filepath.Join(dataDir, indexDir),
	} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s missing: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dataDir, indexDir, dbFile)); err != nil {
		t.Errorf("database missing: %v", err)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"lamotrigine", "lamotrigine"},
		{"Valproic Acid", "valproic-acid"},
		{"valproic acid, sodium salt", "valproic-acid-sodium-salt"},
		{"  5-HT  ", "5-ht"},
		{"N/A compound", "n-a-compound"},
	}
	for _, tt := range tests {
		if got := Slug(tt.name); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	// Degenerate names still get a deterministic artifact path.
	a, b := Slug("試験"), Slug("試験")
	if a != b || a == "" {
		t.Errorf("hash fallback not deterministic: %q vs %q", a, b)
	}
}

func TestWriteProfileRoundTrip(t *testing.T) {
	s, _ := testStore(t)
	p := sampleProfile("lamotrigine")

	if err := s.WriteProfile(p); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadProfile("lamotrigine")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != p.Name || got.ChemblID != p.ChemblID {
		t.Errorf("identity = %q/%q", got.Name, got.ChemblID)
	}
	if got.Molecule == nil || *got.Molecule.MolecularWeight != 256.09 {
		t.Errorf("molecule = %+v", got.Molecule)
	}
	if len(got.Observations) != 2 {
		t.Fatalf("got %d observations, want 2", len(got.Observations))
	}
	if got.Observations[0].ActivityID != 1001 || got.Observations[1].Metric != types.MetricTD50 {
		t.Errorf("observations = %+v", got.Observations)
	}
}

func TestWriteProfileIdempotent(t *testing.T) {
	s, dataDir := testStore(t)
	p := sampleProfile("lamotrigine")
	path := filepath.Join(dataDir, profilesDir, "lamotrigine.yaml")

	if err := s.WriteProfile(p); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.WriteProfile(p); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("re-writing the same profile must produce byte-identical output")
	}

	// No temp files may survive a successful write.
	entries, err := os.ReadDir(filepath.Join(dataDir, profilesDir))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "lamotrigine.yaml" {
			t.Errorf("unexpected file %s in profiles dir", e.Name())
		}
	}
}

func TestWriteProfileOverwritesStaleData(t *testing.T) {
	s, _ := testStore(t)

	p := sampleProfile("lamotrigine")
	if err := s.WriteProfile(p); err != nil {
		t.Fatal(err)
	}

	// A later run with fewer observations replaces, never accumulates.
	p2 := sampleProfile("lamotrigine")
	p2.Observations = p2.Observations[:1]
	if err := s.WriteProfile(p2); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadProfile("lamotrigine")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Observations) != 1 {
		t.Errorf("got %d observations, want 1 after overwrite", len(got.Observations))
	}
}

func TestListProfiles(t *testing.T) {
	s, _ := testStore(t)

	for _, name := range []string{"topiramate", "lamotrigine"} {
		p := sampleProfile(name)
		if err := s.WriteProfile(p); err != nil {
			t.Fatal(err)
		}
	}

	profiles, err := s.ListProfiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	// Sorted by artifact filename.
	if profiles[0].Name != "lamotrigine" || profiles[1].Name != "topiramate" {
		t.Errorf("order = %q, %q", profiles[0].Name, profiles[1].Name)
	}
}

func TestRebuildIndexAndLoadDataset(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	empty := &types.CompoundProfile{
		Name: "topiramate", ChemblID: "CHEMBL220492",
		Observations:   []types.AssayObservation{},
		MetadataStatus: types.StatusOK,
		AssayStatus:    types.StatusNotFound,
		Molecule:       &types.MoleculeRecord{MolecularFormula: "C12H21NO8S"},
	}
	dataset := types.Dataset{
		"lamotrigine": sampleProfile("lamotrigine"),
		"topiramate":  empty,
	}

	if err := s.RebuildIndex(ctx, dataset); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadDataset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2", len(got))
	}

	lam := got["lamotrigine"]
	if lam == nil || len(lam.Observations) != 2 {
		t.Fatalf("lamotrigine = %+v", lam)
	}
	if lam.Molecule == nil || lam.Molecule.TPSA == nil || *lam.Molecule.TPSA != 90.7 {
		t.Errorf("lamotrigine molecule = %+v", lam.Molecule)
	}

	top := got["topiramate"]
	if top == nil || len(top.Observations) != 0 {
		t.Fatalf("topiramate = %+v", top)
	}
	if top.AssayStatus != types.StatusNotFound {
		t.Errorf("assay status = %v", top.AssayStatus)
	}
	if top.Molecule == nil || top.Molecule.MolecularFormula != "C12H21NO8S" {
		t.Errorf("topiramate molecule = %+v", top.Molecule)
	}
}

func TestRebuildIndexReplacesPriorRun(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	first := types.Dataset{
		"lamotrigine": sampleProfile("lamotrigine"),
		"zonisamide":  sampleProfile("zonisamide"),
	}
	if err := s.RebuildIndex(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := types.Dataset{"lamotrigine": sampleProfile("lamotrigine")}
	if err := s.RebuildIndex(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadDataset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d profiles, want 1; stale rows must not accumulate", len(got))
	}
	if _, ok := got["zonisamide"]; ok {
		t.Error("zonisamide should be gone after rebuild")
	}
}

func TestExportsAreIdempotent(t *testing.T) {
	s, dataDir := testStore(t)
	ctx := context.Background()

	dataset := types.Dataset{
		"lamotrigine": sampleProfile("lamotrigine"),
		"topiramate":  sampleProfile("topiramate"),
	}
	if err := s.RebuildIndex(ctx, dataset); err != nil {
		t.Fatal(err)
	}

	for _, export := range []func(context.Context) error{s.ExportYAML, s.ExportJSON} {
		if err := export(ctx); err != nil {
			t.Fatal(err)
		}
	}

	yamlPath := filepath.Join(dataDir, indexDir, "export.yaml")
	jsonPath := filepath.Join(dataDir, indexDir, "export.json")

	firstYAML, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	firstJSON, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(firstYAML) == 0 || len(firstJSON) == 0 {
		t.Fatal("exports are empty")
	}

	// Re-run the whole persist cycle; artifacts must not change.
	if err := s.RebuildIndex(ctx, dataset); err != nil {
		t.Fatal(err)
	}
	if err := s.ExportYAML(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.ExportJSON(ctx); err != nil {
		t.Fatal(err)
	}

	secondYAML, _ := os.ReadFile(yamlPath)
	secondJSON, _ := os.ReadFile(jsonPath)
	if !bytes.Equal(firstYAML, secondYAML) {
		t.Error("YAML export differs between identical runs")
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("JSON export differs between identical runs")
	}
}
