// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/periodic-table/internal/units"
)

var extractCmd = &cobra.Command{
	Use:   "extract <text...>",
	Short: "Extract a value and unit from free text",
	Long: `Extract runs the unit-value extractor on its arguments, joined by spaces,
and prints the numeric value and canonical unit. Inputs that cannot be parsed
print "null null" and a diagnostic on stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		writeExtraction(os.Stdout, units.New(os.Stderr).Extract(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func writeExtraction(w io.Writer, p units.Parsed) {
	value, unit := "null", "null"
	if p.Value != nil {
		value = strconv.FormatFloat(*p.Value, 'f', -1, 64)
	}
	if p.Unit != "" {
		unit = p.Unit
	}
	fmt.Fprintf(w, "%s %s\n", value, unit)
}
