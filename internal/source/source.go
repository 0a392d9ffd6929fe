// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source fetches raw compound records from the external
// biomedical APIs. Each client resolves a compound into the payload its
// source carries: PubChem supplies molecular metadata, ChEMBL supplies
// bioactivity records. Clients never write to disk or share state; the
// normalizer consumes their output.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/compound-atlas/pkg/types"
)

// ErrNotFound means the source has no record for a valid identifier.
// This is an expected outcome, distinct from a service failure, and the
// normalizer treats the two differently.
var ErrNotFound = errors.New("source has no record for identifier")

// UnavailableError means the source could not be reached: transport
// failure or persistent server errors after bounded retries. It degrades
// one compound's profile; the run continues.
type UnavailableError struct {
	// Source names the failing client ("pubchem" or "chembl").
	Source string

	// Err is the underlying transport or HTTP failure.
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Record is the tagged-union payload of one fetch. Exactly one field is
// set, matching the client that produced it.
type Record struct {
	// Molecule holds PubChem molecular metadata.
	Molecule *types.MoleculeRecord

	// Activities holds ChEMBL bioactivity rows.
	Activities []types.ActivityRecord
}

// Client fetches the raw record for one compound from one source.
// Fetch returns ErrNotFound when the source has no data and
// *UnavailableError when the source cannot be reached.
type Client interface {
	Name() string
	Fetch(ctx context.Context, compound types.Compound) (*Record, error)
}
