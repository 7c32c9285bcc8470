// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the database to YAML or JSON",
	Long: `Export writes the elements in the database, each with its isotopes, to
index/export.yaml or index/export.json. The query filter flags select a
subset.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("name", "", "filter by element name")
	exportCmd.Flags().String("symbol", "", "filter by element symbol")
	exportCmd.Flags().Int("atomic-number", 0, "filter by atomic number")
	exportCmd.Flags().Int("period", 0, "filter by period")
	exportCmd.Flags().Int("group", 0, "filter by group")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	f := elementFilterFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(cmd.Context(), f)
	case "json":
		path, err = s.ExportJSON(cmd.Context(), f)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported to %s\n", path)
	return nil
}
