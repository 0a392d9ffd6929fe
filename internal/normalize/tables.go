// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import "github.com/pdiddy/compound-atlas/pkg/types"

// Canonical units all convertible observations are stored in. Dose
// measurements normalize to mg/kg, concentration measurements to nM.
const (
	UnitMgPerKg = "mg/kg"
	UnitNM      = "nM"
)

// defaultUnits maps reported unit aliases to canonical units. Keys are
// lowercased; lookup is case-insensitive on the trimmed label. The table
// is deliberately explicit rather than parsed from unit grammar: ChEMBL
// unit labels are too irregular for that to be safe.
var defaultUnits = map[string]types.UnitConversion{
	// Dose units → mg/kg.
	"mg/kg":    {Canonical: UnitMgPerKg, Factor: 1},
	"mg kg-1":  {Canonical: UnitMgPerKg, Factor: 1},
	"mg.kg-1":  {Canonical: UnitMgPerKg, Factor: 1},
	"mg/kg/d":  {Canonical: UnitMgPerKg, Factor: 1},
	"ug/kg":    {Canonical: UnitMgPerKg, Factor: 0.001},
	"µg/kg":    {Canonical: UnitMgPerKg, Factor: 0.001},
	"ug.kg-1":  {Canonical: UnitMgPerKg, Factor: 0.001},
	"g/kg":     {Canonical: UnitMgPerKg, Factor: 1000},

	// Molar concentrations → nM.
	"nm": {Canonical: UnitNM, Factor: 1},
	"um": {Canonical: UnitNM, Factor: 1000},
	"µm": {Canonical: UnitNM, Factor: 1000},
	"mm": {Canonical: UnitNM, Factor: 1e6},
	"pm": {Canonical: UnitNM, Factor: 0.001},
}

// defaultOrganisms maps reported organism labels to the canonical
// vocabulary. Labels absent from the table pass through verbatim so an
// incomplete taxonomy never drops data.
var defaultOrganisms = map[string]string{
	"homo sapiens":           "human",
	"human":                  "human",
	"mus musculus":           "mouse",
	"mouse":                  "mouse",
	"rattus norvegicus":      "rat",
	"rat":                    "rat",
	"canis familiaris":       "dog",
	"canis lupus familiaris": "dog",
	"dog":                    "dog",
	"cavia porcellus":        "guinea pig",
	"guinea pig":             "guinea pig",
	"oryctolagus cuniculus":  "rabbit",
	"rabbit":                 "rabbit",
}
