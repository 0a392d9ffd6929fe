// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Compound identifies one entry from the compound list input file.
// Compounds are created by the registry at pipeline start and are
// immutable afterwards. Name is the unique dataset key.
type Compound struct {
	// Name is the canonical compound name (e.g. "lamotrigine").
	Name string `json:"name" yaml:"name"`

	// ChemblID is the ChEMBL molecule identifier (e.g. "CHEMBL741").
	ChemblID string `json:"chembl_id" yaml:"chembl_id"`
}

// MoleculeRecord holds molecular metadata fetched from PubChem.
// Numeric fields are pointers because PubChem omits properties it
// cannot compute for a given structure.
type MoleculeRecord struct {
	// MolecularFormula is the Hill-notation formula (e.g. "C9H7Cl2N5").
	MolecularFormula string `json:"molecular_formula,omitempty" yaml:"molecular_formula,omitempty"`

	// MolecularWeight is the molecular weight in g/mol.
	MolecularWeight *float64 `json:"molecular_weight,omitempty" yaml:"molecular_weight,omitempty"`

	// XLogP is the computed octanol-water partition coefficient.
	XLogP *float64 `json:"xlogp,omitempty" yaml:"xlogp,omitempty"`

	// HBondDonorCount is the hydrogen bond donor count.
	HBondDonorCount *int `json:"hbond_donor_count,omitempty" yaml:"hbond_donor_count,omitempty"`

	// HBondAcceptorCount is the hydrogen bond acceptor count.
	HBondAcceptorCount *int `json:"hbond_acceptor_count,omitempty" yaml:"hbond_acceptor_count,omitempty"`

	// ExactMass is the monoisotopic exact mass in g/mol.
	ExactMass *float64 `json:"exact_mass,omitempty" yaml:"exact_mass,omitempty"`

	// TPSA is the topological polar surface area in Å².
	TPSA *float64 `json:"tpsa,omitempty" yaml:"tpsa,omitempty"`
}

// ActivityRecord is one raw bioactivity row from the ChEMBL activity
// endpoint. Values are kept as the source serializes them (decimal
// strings, possibly blank); the normalizer parses and validates them.
type ActivityRecord struct {
	// ActivityID is the ChEMBL activity record identifier.
	ActivityID int64 `json:"activity_id" yaml:"activity_id"`

	// AssayDescription describes the assay that produced the measurement.
	AssayDescription string `json:"assay_description" yaml:"assay_description"`

	// StandardType is the measurement kind as reported (e.g. "ED50", "TD50", "IC50").
	StandardType string `json:"standard_type" yaml:"standard_type"`

	// StandardValue is the reported value as a decimal string, or blank.
	StandardValue string `json:"standard_value" yaml:"standard_value"`

	// StandardUnits is the reported unit label, or blank.
	StandardUnits string `json:"standard_units" yaml:"standard_units"`

	// TargetOrganism is the organism the assay targeted, as reported.
	TargetOrganism string `json:"target_organism" yaml:"target_organism"`

	// TargetPrefName is the preferred name of the assay target.
	TargetPrefName string `json:"target_pref_name" yaml:"target_pref_name"`
}

// MetricKind categorizes an assay observation.
type MetricKind string

const (
	MetricED50  MetricKind = "ed50"
	MetricTD50  MetricKind = "td50"
	MetricOther MetricKind = "other"
)

// AssayObservation is one cleaned, canonical measurement. Value is
// non-negative and Unit is always a canonical unit; observations that
// cannot satisfy either are discarded during normalization.
type AssayObservation struct {
	// Metric classifies the measurement (ed50, td50, or other).
	Metric MetricKind `json:"metric" yaml:"metric"`

	// Value is the measured value expressed in Unit.
	Value float64 `json:"value" yaml:"value"`

	// Unit is the canonical unit (e.g. "mg/kg", "nM").
	Unit string `json:"unit" yaml:"unit"`

	// Organism is the canonical organism label, or the reported label
	// verbatim when no canonical mapping exists.
	Organism string `json:"organism" yaml:"organism"`

	// TargetName is the preferred name of the assay target.
	TargetName string `json:"target_name,omitempty" yaml:"target_name,omitempty"`

	// ActivityID references the source activity record.
	ActivityID int64 `json:"activity_id" yaml:"activity_id"`

	// AssayDescription is carried from the source record for provenance.
	AssayDescription string `json:"assay_description,omitempty" yaml:"assay_description,omitempty"`
}

// SourceStatus records the outcome of one source fetch for one compound.
type SourceStatus string

const (
	// StatusOK means the source returned a record.
	StatusOK SourceStatus = "ok"

	// StatusNotFound means the source has no data for the identifier.
	// This is an expected outcome, not a failure.
	StatusNotFound SourceStatus = "not_found"

	// StatusUnavailable means the source could not be reached after
	// bounded retries. The profile built from the remaining source is
	// marked degraded.
	StatusUnavailable SourceStatus = "unavailable"
)

// CompoundProfile is the canonical cleaned record for one compound.
// Exactly one profile exists per input compound, even when both sources
// returned nothing.
type CompoundProfile struct {
	// Name is the canonical compound name, the dataset key.
	Name string `json:"name" yaml:"name"`

	// ChemblID is the ChEMBL identifier from the registry.
	ChemblID string `json:"chembl_id" yaml:"chembl_id"`

	// Molecule is the merged molecular metadata, nil when the metadata
	// source had no record.
	Molecule *MoleculeRecord `json:"molecule,omitempty" yaml:"molecule,omitempty"`

	// Observations holds the cleaned assay observations in source order.
	// It may be empty; an empty profile is retained, not dropped.
	Observations []AssayObservation `json:"observations" yaml:"observations"`

	// MetadataStatus is the outcome of the metadata source fetch.
	MetadataStatus SourceStatus `json:"metadata_status" yaml:"metadata_status"`

	// AssayStatus is the outcome of the assay source fetch.
	AssayStatus SourceStatus `json:"assay_status" yaml:"assay_status"`

	// Degraded is true when at least one source was unavailable during
	// the run that produced this profile.
	Degraded bool `json:"degraded" yaml:"degraded"`
}

// HasChartData reports whether the profile carries enough observations
// for the downstream dose-response views: at least one ED50 and one
// TD50 measured in the same organism.
func (p *CompoundProfile) HasChartData() bool {
	type pair struct{ ed, td bool }
	byOrganism := make(map[string]pair)
	for _, obs := range p.Observations {
		entry := byOrganism[obs.Organism]
		switch obs.Metric {
		case MetricED50:
			entry.ed = true
		case MetricTD50:
			entry.td = true
		}
		byOrganism[obs.Organism] = entry
	}
	for _, entry := range byOrganism {
		if entry.ed && entry.td {
			return true
		}
	}
	return false
}

// Dataset is the full collection of profiles for one pipeline run,
// keyed by compound name. Keys are unique and unordered.
type Dataset map[string]*CompoundProfile
