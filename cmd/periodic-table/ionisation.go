// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/ionisation"
	"github.com/pdiddy/periodic-table/pkg/types"
)

var ionisationCmd = &cobra.Command{
	Use:   "ionisation",
	Short: "Scrape successive ionisation energies",
	Long: `Ionisation downloads the Wikipedia data page of ionisation energies,
reads every data table on it and writes ionisation.json to the data
directory. Energies are in ` + types.EnergyUnit + `.`,
	RunE: runIonisation,
}

func init() {
	ionisationCmd.Flags().String("url", "", "data page to scrape (default the Wikipedia data page)")
	ionisationCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(ionisationCmd)
}

func runIonisation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}
	ic := cfg.Ionisation
	overrideString(cmd.Flags(), "url", &ic.URL)
	overrideDuration(cmd.Flags(), "timeout", &ic.Timeout)

	energies, err := ionisation.Fetch(cmd.Context(), nil, ic.URL, ic.HTTPConfig)
	if err != nil {
		return err
	}
	if len(energies) == 0 {
		return fmt.Errorf("no ionisation energies found at %s", ic.URL)
	}

	path, err := ionisation.Write(ic.DataDir, energies)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d ionisation energies to %s\n", len(energies), path)
	return nil
}
