// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/compound-atlas/internal/httputil"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

// pubchemAPIBase is the PubChem PUG REST endpoint. Declared as a var so
// tests can substitute an httptest server.
var pubchemAPIBase = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// pubchemProperties lists the molecular properties requested per compound.
const pubchemProperties = "MolecularFormula,MolecularWeight,XLogP,HBondDonorCount,HBondAcceptorCount,ExactMass,TPSA"

// PubChemClient fetches molecular metadata by compound name from the
// PubChem PUG REST API.
type PubChemClient struct {
	Client *http.Client
	Config types.GatherConfig
}

// Name returns the source identifier.
func (c *PubChemClient) Name() string { return "pubchem" }

// Fetch resolves the compound name to its molecular property table.
// An unknown name yields ErrNotFound; transport failures and persistent
// server errors yield *UnavailableError.
func (c *PubChemClient) Fetch(ctx context.Context, compound types.Compound) (*Record, error) {
	reqURL := fmt.Sprintf("%s/compound/name/%s/property/%s/JSON",
		pubchemAPIBase, url.PathEscape(compound.Name), pubchemProperties)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.Config.MaxRetries)
	if err != nil {
		return nil, &UnavailableError{Source: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, &UnavailableError{
			Source: c.Name(),
			Err:    fmt.Errorf("HTTP %d from PubChem", resp.StatusCode),
		}
	}

	var pr propertyResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, &UnavailableError{
			Source: c.Name(),
			Err:    fmt.Errorf("parsing PubChem response: %w", err),
		}
	}
	if len(pr.PropertyTable.Properties) == 0 {
		return nil, ErrNotFound
	}

	p := pr.PropertyTable.Properties[0]
	mol := &types.MoleculeRecord{
		MolecularFormula:   p.MolecularFormula,
		MolecularWeight:    parseDecimal(p.MolecularWeight),
		XLogP:              p.XLogP,
		HBondDonorCount:    p.HBondDonorCount,
		HBondAcceptorCount: p.HBondAcceptorCount,
		ExactMass:          parseDecimal(p.ExactMass),
		TPSA:               p.TPSA,
	}
	return &Record{Molecule: mol}, nil
}

// parseDecimal converts PUG REST's string-encoded decimals. Blank or
// unparsable input maps to nil rather than zero.
func parseDecimal(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// PubChem PUG REST JSON structures. MolecularWeight and ExactMass are
// serialized as strings by the API; the counts and computed properties
// arrive as numbers.
type propertyResponse struct {
	PropertyTable struct {
		Properties []pubchemProperty `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubchemProperty struct {
	CID                int      `json:"CID"`
	MolecularFormula   string   `json:"MolecularFormula"`
	MolecularWeight    string   `json:"MolecularWeight"`
	XLogP              *float64 `json:"XLogP"`
	HBondDonorCount    *int     `json:"HBondDonorCount"`
	HBondAcceptorCount *int     `json:"HBondAcceptorCount"`
	ExactMass          string   `json:"ExactMass"`
	TPSA               *float64 `json:"TPSA"`
}
