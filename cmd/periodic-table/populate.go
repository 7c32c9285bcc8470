// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/store"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Load scraped data into the SQLite database",
	Long: `Populate reads elements.json and ionisation.json from the data directory
and loads them into index/periodic.db. Groups, periods, blocks, orbitals and
oxidation states are created as needed. Files unchanged since the last run
are skipped. After any change the database is exported to index/export.yaml.`,
	RunE: runPopulate,
}

func init() {
	rootCmd.AddCommand(populateCmd)
}

func runPopulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d element(s) failed loading", summary.Failed)
	}
	return nil
}
