// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/pubchem"
	"github.com/pdiddy/periodic-table/pkg/types"
)

const (
	defaultDataDir    = "data"
	defaultTimeout    = 60 * time.Second
	defaultDelay      = 250 * time.Millisecond
	defaultUserAgent  = "periodic-table/0.1"
	defaultMaxRetries = 5
	defaultAddr       = ":8000"
)

// envKeyReplacer maps nested keys to variables: scrape.to reads
// PERIODIC_TABLE_SCRAPE_TO.
var envKeyReplacer = strings.NewReplacer(".", "_")

// setDefaults registers every config key so environment variables can
// override keys that no config file mentions.
func setDefaults(v *viper.Viper) {
	for _, stage := range []string{"scrape", "ionisation"} {
		v.SetDefault(stage+".timeout", defaultTimeout)
		v.SetDefault(stage+".user_agent", defaultUserAgent)
		v.SetDefault(stage+".max_retries", defaultMaxRetries)
	}
	for _, stage := range []string{"scrape", "ionisation", "crystals", "store"} {
		v.SetDefault(stage+".data_dir", defaultDataDir)
	}

	v.SetDefault("scrape.from", 1)
	v.SetDefault("scrape.to", pubchem.LastElement)
	v.SetDefault("scrape.request_delay", defaultDelay)
	v.SetDefault("ionisation.url", types.IonisationDataSource)
	v.SetDefault("crystals.cif_dir", "")
	v.SetDefault("store.max_results", 200)

	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.output_paths", []string{"stderr"})
}

// loadConfig decodes the viper configuration and applies the root
// --data-dir flag to every stage when it was set.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	if f := cmd.Flag("data-dir"); f != nil && f.Changed {
		dir := f.Value.String()
		cfg.Scrape.DataDir = dir
		cfg.Ionisation.DataDir = dir
		cfg.Crystals.DataDir = dir
		cfg.Store.DataDir = dir
	}
	return cfg, nil
}

// Flag overrides: a flag replaces the configured value only when the user
// set it on the command line.

func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func overrideInt(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Changed(name) {
		*dst, _ = flags.GetInt(name)
	}
}

func overrideDuration(flags *pflag.FlagSet, name string, dst *time.Duration) {
	if flags.Changed(name) {
		*dst, _ = flags.GetDuration(name)
	}
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Changed(name) {
		*dst, _ = flags.GetBool(name)
	}
}
