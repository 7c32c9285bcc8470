// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/api"
	"github.com/pdiddy/periodic-table/internal/logging"
	"github.com/pdiddy/periodic-table/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the database as a REST API",
	Long: `Serve exposes elements, isotopes and ionisation energies over HTTP under
/api, with /health and Prometheus /metrics. It shuts down gracefully on
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	serveCmd.Flags().String("log-level", "", "log level: debug, info, warn, error")
	serveCmd.Flags().Bool("debug", false, "run gin in debug mode")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}
	overrideString(cmd.Flags(), "addr", &cfg.Server.Addr)
	overrideString(cmd.Flags(), "log-level", &cfg.Log.Level)
	overrideBool(cmd.Flags(), "debug", &cfg.Server.Debug)

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	return api.NewServer(cfg.Server, s, log).Start(cmd.Context())
}
