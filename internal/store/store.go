// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists compound profiles: one YAML detail artifact per
// compound, a SQLite aggregate index, and bulk-load exports for the
// visualization layer. All writes are idempotent; re-running the
// pipeline with the same inputs reproduces the same artifacts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/compound-atlas/pkg/types"
)

const (
	profilesDir = "profiles"
	indexDir    = "index"
	dbFile      = "atlas.db"
)

// Store manages the data directory and the aggregate SQLite index.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open ensures the data directory layout exists and opens (or creates)
// the SQLite index at dataDir/index/atlas.db.
func Open(cfg types.StoreConfig) (*Store, error) {
	for _, dir := range []string{
		filepath.Join(cfg.DataDir, profilesDir),
		filepath.Join(cfg.DataDir, indexDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	dbPath := filepath.Join(cfg.DataDir, indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS compounds (
			name TEXT PRIMARY KEY,
			chembl_id TEXT NOT NULL,
			molecular_formula TEXT,
			molecular_weight REAL,
			xlogp REAL,
			hbond_donors INTEGER,
			hbond_acceptors INTEGER,
			exact_mass REAL,
			tpsa REAL,
			metadata_status TEXT NOT NULL,
			assay_status TEXT NOT NULL,
			degraded INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS observations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			compound_name TEXT NOT NULL REFERENCES compounds(name) ON DELETE CASCADE,
			metric TEXT NOT NULL,
			value REAL NOT NULL,
			unit TEXT NOT NULL,
			organism TEXT,
			target_name TEXT,
			activity_id INTEGER,
			assay_description TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_compound ON observations(compound_name)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_metric ON observations(metric)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RebuildIndex replaces the index contents with the given dataset in a
// single transaction. The index never accumulates rows from earlier
// runs: a profile absent from this run's dataset is gone afterwards.
func (s *Store) RebuildIndex(ctx context.Context, dataset types.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return fmt.Errorf("clearing observations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM compounds`); err != nil {
		return fmt.Errorf("clearing compounds: %w", err)
	}

	compoundStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO compounds (name, chembl_id, molecular_formula, molecular_weight,
			xlogp, hbond_donors, hbond_acceptors, exact_mass, tpsa,
			metadata_status, assay_status, degraded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing compound insert: %w", err)
	}
	defer compoundStmt.Close()

	obsStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (compound_name, metric, value, unit, organism,
			target_name, activity_id, assay_description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing observation insert: %w", err)
	}
	defer obsStmt.Close()

	// Insert in name order so re-runs produce identical row ordering.
	names := make([]string, 0, len(dataset))
	for name := range dataset {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := dataset[name]

		mol := p.Molecule
		if mol == nil {
			mol = &types.MoleculeRecord{}
		}
		_, err := compoundStmt.ExecContext(ctx,
			p.Name, p.ChemblID, nullableString(mol.MolecularFormula),
			mol.MolecularWeight, mol.XLogP, mol.HBondDonorCount,
			mol.HBondAcceptorCount, mol.ExactMass, mol.TPSA,
			string(p.MetadataStatus), string(p.AssayStatus), boolToInt(p.Degraded),
		)
		if err != nil {
			return fmt.Errorf("inserting compound %s: %w", p.Name, err)
		}

		for _, obs := range p.Observations {
			_, err := obsStmt.ExecContext(ctx,
				p.Name, string(obs.Metric), obs.Value, obs.Unit,
				obs.Organism, obs.TargetName, obs.ActivityID, obs.AssayDescription,
			)
			if err != nil {
				return fmt.Errorf("inserting observation for %s: %w", p.Name, err)
			}
		}
	}

	return tx.Commit()
}

// LoadDataset reads every profile back out of the index, keyed by name.
func (s *Store) LoadDataset(ctx context.Context) (types.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, chembl_id, molecular_formula, molecular_weight, xlogp,
			hbond_donors, hbond_acceptors, exact_mass, tpsa,
			metadata_status, assay_status, degraded
		 FROM compounds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying compounds: %w", err)
	}
	defer rows.Close()

	dataset := make(types.Dataset)
	for rows.Next() {
		var (
			p        types.CompoundProfile
			formula  sql.NullString
			weight   sql.NullFloat64
			xlogp    sql.NullFloat64
			donors   sql.NullInt64
			accepts  sql.NullInt64
			mass     sql.NullFloat64
			tpsa     sql.NullFloat64
			degraded int
		)
		err := rows.Scan(&p.Name, &p.ChemblID, &formula, &weight, &xlogp,
			&donors, &accepts, &mass, &tpsa,
			&p.MetadataStatus, &p.AssayStatus, &degraded)
		if err != nil {
			return nil, fmt.Errorf("scanning compound: %w", err)
		}
		p.Degraded = degraded != 0
		p.Observations = []types.AssayObservation{}
		if p.MetadataStatus == types.StatusOK {
			p.Molecule = &types.MoleculeRecord{
				MolecularFormula:   formula.String,
				MolecularWeight:    nullFloat(weight),
				XLogP:              nullFloat(xlogp),
				HBondDonorCount:    nullInt(donors),
				HBondAcceptorCount: nullInt(accepts),
				ExactMass:          nullFloat(mass),
				TPSA:               nullFloat(tpsa),
			}
		}
		dataset[p.Name] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating compounds: %w", err)
	}

	obsRows, err := s.db.QueryContext(ctx,
		`SELECT compound_name, metric, value, unit, organism, target_name,
			activity_id, assay_description
		 FROM observations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer obsRows.Close()

	for obsRows.Next() {
		var (
			name string
			obs  types.AssayObservation
		)
		err := obsRows.Scan(&name, &obs.Metric, &obs.Value, &obs.Unit,
			&obs.Organism, &obs.TargetName, &obs.ActivityID, &obs.AssayDescription)
		if err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		if p, ok := dataset[name]; ok {
			p.Observations = append(p.Observations, obs)
		}
	}
	if err := obsRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	return dataset, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
