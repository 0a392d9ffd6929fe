// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/compound-atlas/internal/store"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate the aggregate dataset exports",
	Long: `Export rewrites the bulk-load artifacts (export.yaml, export.json)
from the aggregate index. The exports are regenerable at any time and are
never hand-edited.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("data-dir", "data", "output root for profiles and the aggregate index")
	exportCmd.Flags().String("format", "both", "export format: yaml, json, or both")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	format, _ := cmd.Flags().GetString("format")

	st, err := store.Open(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer st.Close()

	switch format {
	case "yaml":
		return st.ExportYAML(cmd.Context())
	case "json":
		return st.ExportJSON(cmd.Context())
	case "both":
		if err := st.ExportYAML(cmd.Context()); err != nil {
			return err
		}
		return st.ExportJSON(cmd.Context())
	default:
		return fmt.Errorf("unknown format %q: use yaml, json, or both", format)
	}
}
