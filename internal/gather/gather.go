// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gather orchestrates the pipeline: for each registry compound
// it fetches both sources sequentially, normalizes the records into a
// profile, and persists the detail artifact. Failures are contained at
// the smallest unit that preserves forward progress: a discarded
// observation never loses a compound, an unavailable source never loses
// a run.
package gather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/compound-atlas/internal/normalize"
	"github.com/pdiddy/compound-atlas/internal/source"
	"github.com/pdiddy/compound-atlas/internal/store"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

// Summary holds the outcome counts of one pipeline run.
type Summary struct {
	// Gathered is the number of profiles persisted successfully.
	Gathered int

	// Degraded counts profiles built while a source was unavailable.
	Degraded int

	// Empty counts profiles with zero observations.
	Empty int

	// PersistFailed counts profiles whose detail artifact could not be
	// written.
	PersistFailed int
}

// Total returns the number of compounds processed.
func (s Summary) Total() int {
	return s.Gathered + s.PersistFailed
}

// Run executes the pipeline for all compounds. Every compound yields
// exactly one profile in the returned dataset, even when both sources
// had nothing. Per-compound progress streams to w. The run stops
// between compounds when ctx is cancelled; already-persisted artifacts
// stay valid.
func Run(
	ctx context.Context,
	compounds []types.Compound,
	metadataClient, assayClient source.Client,
	norm *normalize.Normalizer,
	st *store.Store,
	cfg types.GatherConfig,
	w io.Writer,
) (types.Dataset, Summary, error) {
	dataset := make(types.Dataset, len(compounds))
	var summary Summary

	for i, compound := range compounds {
		if err := ctx.Err(); err != nil {
			return dataset, summary, err
		}
		if i > 0 {
			if err := wait(ctx, cfg.RequestDelay); err != nil {
				return dataset, summary, err
			}
		}

		fmt.Fprintf(w, "processing %s (%s)\n", compound.Name, compound.ChemblID)

		metaRecord, metaStatus := fetchOne(ctx, metadataClient, compound, w)
		if err := wait(ctx, cfg.RequestDelay); err != nil {
			return dataset, summary, err
		}
		assayRecord, assayStatus := fetchOne(ctx, assayClient, compound, w)

		var molecule *types.MoleculeRecord
		if metaRecord != nil {
			molecule = metaRecord.Molecule
		}
		var activities []types.ActivityRecord
		if assayRecord != nil {
			activities = assayRecord.Activities
		}

		profile := norm.Normalize(compound, molecule, activities, metaStatus, assayStatus, w)
		dataset[compound.Name] = &profile

		if profile.Degraded {
			summary.Degraded++
		}
		if len(profile.Observations) == 0 {
			summary.Empty++
		}

		if err := st.WriteProfile(&profile); err != nil {
			fmt.Fprintf(w, "warning: %s: persisting detail artifact failed: %v\n", compound.Name, err)
			summary.PersistFailed++
			continue
		}
		summary.Gathered++
	}

	// Aggregate artifacts reflect the full run, stale rows included in
	// neither index nor exports.
	if err := st.RebuildIndex(ctx, dataset); err != nil {
		return dataset, summary, fmt.Errorf("rebuilding aggregate index: %w", err)
	}
	if err := st.ExportYAML(ctx); err != nil {
		return dataset, summary, fmt.Errorf("writing YAML export: %w", err)
	}
	if err := st.ExportJSON(ctx); err != nil {
		return dataset, summary, fmt.Errorf("writing JSON export: %w", err)
	}

	fmt.Fprintf(w, "\nRun summary: %d gathered, %d degraded, %d empty, %d persist failures (total: %d)\n",
		summary.Gathered, summary.Degraded, summary.Empty, summary.PersistFailed, summary.Total())
	return dataset, summary, nil
}

// wait blocks for the configured request delay, returning early when
// ctx is cancelled so a long delay never holds up shutdown.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// fetchOne maps a client outcome onto a source status. NotFound is an
// expected result; unavailability is logged and degrades only this
// compound. Any unexpected error is treated as unavailability rather
// than aborting the run.
func fetchOne(ctx context.Context, c source.Client, compound types.Compound, w io.Writer) (*source.Record, types.SourceStatus) {
	rec, err := c.Fetch(ctx, compound)
	switch {
	case err == nil:
		return rec, types.StatusOK
	case errors.Is(err, source.ErrNotFound):
		fmt.Fprintf(w, "  %s: no record for %s\n", c.Name(), compound.Name)
		return nil, types.StatusNotFound
	default:
		fmt.Fprintf(w, "warning: %s: %s: %v\n", compound.Name, c.Name(), err)
		return nil, types.StatusUnavailable
	}
}
