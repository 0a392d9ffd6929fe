// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/compound-atlas/internal/httputil"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

// chemblAPIBase is the ChEMBL web services data endpoint. Declared as a
// var so tests can substitute an httptest server.
var chemblAPIBase = "https://www.ebi.ac.uk/chembl/api/data"

const (
	defaultPageLimit = 100
	defaultMaxPages  = 20
)

// ChEMBLClient fetches bioactivity records by molecule identifier from
// the ChEMBL activity endpoint, following pagination until the result
// set is exhausted.
type ChEMBLClient struct {
	Client *http.Client
	Config types.GatherConfig
}

// Name returns the source identifier.
func (c *ChEMBLClient) Name() string { return "chembl" }

// Fetch retrieves all activity records for the compound's ChEMBL ID.
// An identifier with zero activities yields ErrNotFound. Pagination is
// bounded by Config.MaxPages so a pathological identifier cannot stall
// the run.
func (c *ChEMBLClient) Fetch(ctx context.Context, compound types.Compound) (*Record, error) {
	limit := c.Config.PageLimit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	maxPages := c.Config.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var activities []types.ActivityRecord

	for page := 0; page < maxPages; page++ {
		resp, err := c.fetchPage(ctx, compound.ChemblID, limit, page*limit)
		if err != nil {
			// A page vanishing mid-pagination must not discard rows
			// already fetched.
			if errors.Is(err, ErrNotFound) && len(activities) > 0 {
				break
			}
			return nil, err
		}

		for _, a := range resp.Activities {
			activities = append(activities, types.ActivityRecord{
				ActivityID:       a.ActivityID,
				AssayDescription: a.AssayDescription,
				StandardType:     a.StandardType,
				StandardValue:    a.StandardValue,
				StandardUnits:    a.StandardUnits,
				TargetOrganism:   a.TargetOrganism,
				TargetPrefName:   a.TargetPrefName,
			})
		}

		if resp.PageMeta.Next == "" || len(resp.Activities) < limit {
			break
		}
	}

	if len(activities) == 0 {
		return nil, ErrNotFound
	}
	return &Record{Activities: activities}, nil
}

func (c *ChEMBLClient) fetchPage(ctx context.Context, chemblID string, limit, offset int) (*activityResponse, error) {
	params := url.Values{
		"molecule_chembl_id": {chemblID},
		"limit":              {fmt.Sprintf("%d", limit)},
		"offset":             {fmt.Sprintf("%d", offset)},
	}
	reqURL := chemblAPIBase + "/activity.json?" + params.Encode()

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
			Err:    fmt.Errorf("HTTP %d from ChEMBL", resp.StatusCode),
		}
	}

	var ar activityResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, &UnavailableError{
			Source: c.Name(),
			Err:    fmt.Errorf("parsing ChEMBL response: %w", err),
		}
	}
	return &ar, nil
}

// ChEMBL activity endpoint JSON structures. Numeric standard values are
// serialized as decimal strings or null; null decodes to the empty
// string and is rejected later by the normalizer.
type activityResponse struct {
	PageMeta   pageMeta       `json:"page_meta"`
	Activities []activityWire `json:"activities"`
}

type pageMeta struct {
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	TotalCount int    `json:"total_count"`
	Next       string `json:"next"`
}

type activityWire struct {
	ActivityID       int64  `json:"activity_id"`
	AssayDescription string `json:"assay_description"`
	StandardType     string `json:"standard_type"`
	StandardValue    string `json:"standard_value"`
	StandardUnits    string `json:"standard_units"`
	TargetOrganism   string `json:"target_organism"`
	TargetPrefName   string `json:"target_pref_name"`
}
