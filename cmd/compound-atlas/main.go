// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the compound-atlas CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/compound-atlas/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds optional keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the compound-atlas CLI.
var rootCmd = &cobra.Command{
	Use:   "compound-atlas",
	Short: "Pharmacological potency and toxicity data pipeline",
	Long: `compound-atlas gathers ED50/TD50 potency and toxicity data for a list of
research compounds. Molecular metadata comes from PubChem and bioactivity
records from ChEMBL; records are cleaned into canonical per-compound
profiles and persisted for the visualization layer.

The pipeline stages are subcommands: gather fetches, cleans, and persists;
show and export read the persisted dataset back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./compound-atlas.yaml or ~/.config/compound-atlas/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("compound-atlas")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "compound-atlas"))
		}
	}

	viper.SetEnvPrefix("COMPOUND_ATLAS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
