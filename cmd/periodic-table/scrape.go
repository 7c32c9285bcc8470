// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/pubchem"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape element records from PubChem",
	Long: `Scrape fetches each element in the range from the PubChem PUG View API,
parses its sections into a normalized record and writes elements.json to the
data directory. Raw responses are cached under raw/pubchem/ and reused on the
next run. Values that cannot be parsed are reported on stderr.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().Int("from", 1, "first atomic number to scrape")
	scrapeCmd.Flags().Int("to", pubchem.LastElement, "last atomic number to scrape")
	scrapeCmd.Flags().Duration("delay", 0, "delay between requests (default 250ms)")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}
	sc := cfg.Scrape
	overrideInt(cmd.Flags(), "from", &sc.From)
	overrideInt(cmd.Flags(), "to", &sc.To)
	overrideDuration(cmd.Flags(), "delay", &sc.RequestDelay)
	overrideDuration(cmd.Flags(), "timeout", &sc.Timeout)

	scraper := pubchem.NewScraper(sc, os.Stderr)
	result, err := scraper.ScrapeRange(cmd.Context(), sc.From, sc.To, os.Stdout)
	if err != nil {
		return err
	}

	path, err := pubchem.WriteElements(sc.DataDir, result.Elements)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nparsed: %d, failed: %d\nWrote %s\n", result.Parsed, result.Failed, path)

	if result.HasFailures() {
		return fmt.Errorf("%d element(s) failed parsing", result.Failed)
	}
	return nil
}
