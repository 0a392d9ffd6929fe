// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the source clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "compound-atlas/0.1"). A contact email from .secrets/ is
	// appended for polite API usage.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retry attempts for transient HTTP failures.
	// Zero uses the shared default.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GatherConfig holds settings for the gathering stage.
type GatherConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestDelay is the delay between consecutive outbound API calls.
	// Sources are queried sequentially; this is the rate-limit
	// discipline for small research batches.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// PageLimit is the page size requested from paginated sources
	// (default 100).
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// MaxPages bounds pagination per compound so a single identifier
	// cannot stall the run (default 20).
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// UnitConversion maps one reported unit alias to its canonical unit.
type UnitConversion struct {
	// Canonical is the unit all matching observations are stored in.
	Canonical string `json:"canonical" yaml:"canonical"`

	// Factor scales the reported value into the canonical unit.
	Factor float64 `json:"factor" yaml:"factor"`
}

// NormalizeConfig holds the explicit mapping tables used during record
// normalization. Both tables are configuration rather than code so the
// vocabulary can grow without a rebuild; empty maps fall back to the
// built-in defaults.
type NormalizeConfig struct {
	// Units maps reported unit aliases (case-insensitive, trimmed) to
	// canonical units. Observations with units absent from the table
	// are discarded with a warning.
	Units map[string]UnitConversion `json:"units" yaml:"units"`

	// Organisms maps reported organism labels (case-insensitive,
	// trimmed) to the canonical vocabulary. Unknown labels pass through
	// verbatim.
	Organisms map[string]string `json:"organisms" yaml:"organisms"`
}

// StoreConfig holds settings for the persistence layer.
type StoreConfig struct {
	// DataDir is the output root (contains profiles/, index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Gather    GatherConfig    `json:"gather" yaml:"gather"`
	Normalize NormalizeConfig `json:"normalize" yaml:"normalize"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
