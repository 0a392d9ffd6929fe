// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/compound-atlas/internal/store"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show [compound]",
	Short: "Print persisted compound profiles",
	Long: `Show reads the persisted dataset back. Without arguments it lists all
profiles with their observation counts. With a compound name it prints
that compound's metadata and observations. Profiles without observations
are listed as having no chart data; they are never an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("data-dir", "data", "output root for profiles and the aggregate index")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")

	st, err := store.Open(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		profile, err := st.LoadProfile(args[0])
		if err != nil {
			return err
		}
		printProfile(profile, os.Stdout)
		return nil
	}

	profiles, err := st.ListProfiles()
	if err != nil {
		return err
	}
	printProfileTable(profiles, os.Stdout)
	return nil
}

func printProfileTable(profiles []*types.CompoundProfile, w io.Writer) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles found. Run gather first.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-14s  %-4s  %-10s  %s\n",
		"Compound", "Formula", "Obs", "ChartData", "Flags")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for _, p := range profiles {
		formula := ""
		if p.Molecule != nil {
			formula = p.Molecule.MolecularFormula
		}
		chart := "no"
		if p.HasChartData() {
			chart = "yes"
		}
		var flags []string
		if p.Degraded {
			flags = append(flags, "degraded")
		}
		fmt.Fprintf(w, "%-24s  %-14s  %-4d  %-10s  %s\n",
			truncate(p.Name, 24), formula, len(p.Observations), chart, strings.Join(flags, ","))
	}
	fmt.Fprintf(w, "\n%d profiles\n", len(profiles))
}

func printProfile(p *types.CompoundProfile, w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ChemblID)
	fmt.Fprintf(w, "sources: metadata=%s assay=%s", p.MetadataStatus, p.AssayStatus)
	if p.Degraded {
		fmt.Fprint(w, " [degraded]")
	}
	fmt.Fprintln(w)

	if p.Molecule != nil {
		mol := p.Molecule
		fmt.Fprintf(w, "formula: %s\n", mol.MolecularFormula)
		printFloat(w, "molecular weight", mol.MolecularWeight, "g/mol")
		printFloat(w, "exact mass", mol.ExactMass, "g/mol")
		printFloat(w, "xlogp", mol.XLogP, "")
		printFloat(w, "tpsa", mol.TPSA, "Å²")
	}

	if len(p.Observations) == 0 {
		fmt.Fprintln(w, "\nNo chart data for this compound.")
		return
	}

	fmt.Fprintf(w, "\n%-6s  %-12s  %-8s  %-14s  %s\n",
		"Metric", "Value", "Unit", "Organism", "Assay")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, obs := range p.Observations {
		fmt.Fprintf(w, "%-6s  %-12g  %-8s  %-14s  %s\n",
			strings.ToUpper(string(obs.Metric)), obs.Value, obs.Unit,
			truncate(obs.Organism, 14), truncate(obs.AssayDescription, 40))
	}
	fmt.Fprintf(w, "\n%d observations\n", len(p.Observations))
}

func printFloat(w io.Writer, label string, v *float64, unit string) {
	if v == nil {
		return
	}
	if unit != "" {
		fmt.Fprintf(w, "%s: %g %s\n", label, *v, unit)
		return
	}
	fmt.Fprintf(w, "%s: %g\n", label, *v)
}

// truncate shortens s to max runes. Slicing on runes keeps multi-byte
// organism and assay text intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
