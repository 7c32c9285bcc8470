// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the periodic-table CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the periodic-table CLI.
var rootCmd = &cobra.Command{
	Use:   "periodic-table",
	Short: "Scrape, store and serve periodic table data",
	Long: `periodic-table builds a periodic table database from public sources.

Each pipeline stage is a subcommand: scrape pulls element records from
PubChem, ionisation reads successive ionisation energies from Wikipedia,
crystals serialises CIF files, and populate loads the results into SQLite.
serve exposes the database as a REST API and query prints it as a table.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./periodic-table.yaml or ~/.config/periodic-table/periodic-table.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for scraped data and index/ (default data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("periodic-table")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "periodic-table"))
		}
	}

	viper.SetEnvPrefix("PERIODIC_TABLE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
