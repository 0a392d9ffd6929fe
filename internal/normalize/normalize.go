// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize reconciles raw source records into canonical
// compound profiles. PubChem is primary for molecular metadata, ChEMBL
// for assay observations; partial availability from either source is
// preserved rather than treated as total failure.
package normalize

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/compound-atlas/pkg/types"
)

// Normalizer holds the unit and organism mapping tables. Zero-value
// config fields fall back to the built-in defaults; entries supplied via
// configuration extend and override them.
type Normalizer struct {
	units     map[string]types.UnitConversion
	organisms map[string]string
}

// New builds a Normalizer from cfg, merging configured table entries
// over the defaults. Keys are lowercased and trimmed once here so every
// lookup is case-insensitive.
func New(cfg types.NormalizeConfig) *Normalizer {
	n := &Normalizer{
		units:     make(map[string]types.UnitConversion, len(defaultUnits)+len(cfg.Units)),
		organisms: make(map[string]string, len(defaultOrganisms)+len(cfg.Organisms)),
	}
	for k, v := range defaultUnits {
		n.units[normalizeKey(k)] = v
	}
	for k, v := range cfg.Units {
		n.units[normalizeKey(k)] = v
	}
	for k, v := range defaultOrganisms {
		n.organisms[normalizeKey(k)] = v
	}
	for k, v := range cfg.Organisms {
		n.organisms[normalizeKey(k)] = v
	}
	return n
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize merges the raw records for one compound into its canonical
// profile. A profile is always produced: missing metadata leaves
// Molecule nil, missing or fully-discarded activities leave Observations
// empty, and an unavailable source sets Degraded. Warnings for discarded
// observations stream to w.
func (n *Normalizer) Normalize(
	compound types.Compound,
	molecule *types.MoleculeRecord,
	activities []types.ActivityRecord,
	metadataStatus, assayStatus types.SourceStatus,
	w io.Writer,
) types.CompoundProfile {
	profile := types.CompoundProfile{
		Name:           compound.Name,
		ChemblID:       compound.ChemblID,
		Observations:   []types.AssayObservation{},
		MetadataStatus: metadataStatus,
		AssayStatus:    assayStatus,
		Degraded:       metadataStatus == types.StatusUnavailable || assayStatus == types.StatusUnavailable,
	}

	if metadataStatus == types.StatusOK {
		profile.Molecule = molecule
	}
	if assayStatus != types.StatusOK {
		return profile
	}

	for _, act := range activities {
		obs, ok := n.cleanActivity(compound.Name, act, w)
		if !ok {
			continue
		}
		profile.Observations = append(profile.Observations, obs)
	}
	return profile
}

// cleanActivity validates and converts one raw activity row. Rows with
// missing, unparsable, or negative values and rows with units absent
// from the conversion table are discarded with a warning. No value is
// ever fabricated or interpolated.
func (n *Normalizer) cleanActivity(compound string, act types.ActivityRecord, w io.Writer) (types.AssayObservation, bool) {
	raw := strings.TrimSpace(act.StandardValue)
	if raw == "" {
		fmt.Fprintf(w, "warning: %s: activity %d has no standard value, discarded\n", compound, act.ActivityID)
		return types.AssayObservation{}, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Fprintf(w, "warning: %s: activity %d has unparsable value %q, discarded\n", compound, act.ActivityID, raw)
		return types.AssayObservation{}, false
	}
	if value < 0 {
		fmt.Fprintf(w, "warning: %s: activity %d has negative value %v, discarded\n", compound, act.ActivityID, value)
		return types.AssayObservation{}, false
	}

	conv, ok := n.units[normalizeKey(act.StandardUnits)]
	if !ok {
		fmt.Fprintf(w, "warning: %s: activity %d has unconvertible unit %q, discarded\n", compound, act.ActivityID, act.StandardUnits)
		return types.AssayObservation{}, false
	}

	return types.AssayObservation{
		Metric:           classifyMetric(act.StandardType),
		Value:            value * conv.Factor,
		Unit:             conv.Canonical,
		Organism:         n.canonicalOrganism(act.TargetOrganism),
		TargetName:       act.TargetPrefName,
		ActivityID:       act.ActivityID,
		AssayDescription: act.AssayDescription,
	}, true
}

// canonicalOrganism maps a reported organism label into the canonical
// vocabulary. Unknown labels pass through trimmed but otherwise
// verbatim.
func (n *Normalizer) canonicalOrganism(label string) string {
	trimmed := strings.TrimSpace(label)
	if canonical, ok := n.organisms[normalizeKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// classifyMetric buckets a reported standard type into a metric kind.
func classifyMetric(standardType string) types.MetricKind {
	switch strings.ToUpper(strings.TrimSpace(standardType)) {
	case "ED50":
		return types.MetricED50
	case "TD50":
		return types.MetricTD50
	default:
		return types.MetricOther
	}
}
