// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/compound-atlas/internal/gather"
	"github.com/pdiddy/compound-atlas/internal/normalize"
	"github.com/pdiddy/compound-atlas/internal/registry"
	"github.com/pdiddy/compound-atlas/internal/source"
	"github.com/pdiddy/compound-atlas/internal/store"
	"github.com/pdiddy/compound-atlas/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "compound-atlas/0.1"
)

var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: "Fetch, clean, and persist compound data",
	Long: `Gather reads the compound list, queries PubChem for molecular metadata
and ChEMBL for bioactivity records, normalizes the results into canonical
profiles, and persists them under the data directory. A malformed compound
list aborts before any network call; per-compound source failures degrade
that compound's profile and the run continues.`,
	RunE: runGather,
}

func init() {
	gatherCmd.Flags().String("compound-file", "compounds.csv", "CSV file with compound names and ChEMBL IDs")
	gatherCmd.Flags().String("data-dir", "data", "output root for profiles and the aggregate index")
	gatherCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	gatherCmd.Flags().Duration("delay", 0, "delay between consecutive API calls (default 1s)")
	gatherCmd.Flags().Int("max-retries", 0, "retry attempts for transient HTTP failures (default 4)")

	rootCmd.AddCommand(gatherCmd)
}

func runGather(cmd *cobra.Command, args []string) error {
	compoundFile, _ := cmd.Flags().GetString("compound-file")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	// Registry first: a malformed list must abort before any network
	// call or output directory is touched.
	compounds, err := registry.Load(compoundFile)
	if err != nil {
		return err
	}
	if len(compounds) == 0 {
		return fmt.Errorf("compound list %s has no data rows", compoundFile)
	}

	userAgent := defaultUserAgent
	if email := secretDefault("contact-email", ""); email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", userAgent, email)
	}

	cfg := types.GatherConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    timeout,
			UserAgent:  userAgent,
			MaxRetries: maxRetries,
		},
		RequestDelay: delay,
	}

	var ncfg types.NormalizeConfig
	if err := viper.UnmarshalKey("normalize", &ncfg); err != nil {
		return fmt.Errorf("reading normalize configuration: %w", err)
	}

	st, err := store.Open(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer st.Close()

	client := &http.Client{Timeout: cfg.Timeout}
	metadataClient := &source.PubChemClient{Client: client, Config: cfg}
	assayClient := &source.ChEMBLClient{Client: client, Config: cfg}

	_, summary, err := gather.Run(cmd.Context(), compounds,
		metadataClient, assayClient, normalize.New(ncfg), st, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.PersistFailed > 0 {
		return fmt.Errorf("%d compound(s) could not be persisted", summary.PersistFailed)
	}
	return nil
}
