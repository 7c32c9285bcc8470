// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/crystals"
)

var crystalsCmd = &cobra.Command{
	Use:   "crystals",
	Short: "Serialise CIF crystal structures",
	Long: `Crystals reads every .cif file in a directory, derives the lattice
system, centering, lattice vectors and cell volume, and writes crystals.json
to the data directory. Files that cannot be read are reported and skipped.`,
	RunE: runCrystals,
}

func init() {
	crystalsCmd.Flags().String("cif-dir", "", "directory of .cif files")

	rootCmd.AddCommand(crystalsCmd)
}

func runCrystals(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}
	cc := cfg.Crystals
	overrideString(cmd.Flags(), "cif-dir", &cc.CIFDir)
	if cc.CIFDir == "" {
		return fmt.Errorf("provide a CIF directory with --cif-dir or crystals.cif_dir")
	}

	out, err := crystals.SerialiseDir(cmd.Context(), cc.CIFDir, os.Stdout)
	if err != nil {
		return err
	}
	path, err := crystals.Write(cc.DataDir, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d crystals to %s\n", len(out), path)
	return nil
}
