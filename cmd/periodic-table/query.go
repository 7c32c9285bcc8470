// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/periodic-table/internal/store"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// defaultColumns are the element fields printed when --fields is not set.
var defaultColumns = []string{
	"atomic_number", "symbol", "name", "group", "period", "block",
	"atomic_mass_u", "melting_point_kelvin", "boiling_point_kelvin", "electronegativity",
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query elements in the database",
	Long: `Query prints the elements matching the filters as a table, or as JSON
with --json. --fields picks the columns by their API field names.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("name", "", "filter by element name")
	queryCmd.Flags().String("symbol", "", "filter by element symbol")
	queryCmd.Flags().Int("atomic-number", 0, "filter by atomic number")
	queryCmd.Flags().Int("period", 0, "filter by period")
	queryCmd.Flags().Int("group", 0, "filter by group")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = store default)")
	queryCmd.Flags().String("fields", "", "comma-separated fields to show")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	elements, err := s.ListElements(cmd.Context(), elementFilterFromFlags(cmd))
	if err != nil {
		return err
	}

	fieldsFlag, _ := cmd.Flags().GetString("fields")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(os.Stdout, elements, splitFields(fieldsFlag), jsonOutput)
}

func elementFilterFromFlags(cmd *cobra.Command) store.ElementFilter {
	var f store.ElementFilter
	f.Name, _ = cmd.Flags().GetString("name")
	f.Symbol, _ = cmd.Flags().GetString("symbol")
	f.Limit, _ = cmd.Flags().GetInt("limit")
	for flag, dst := range map[string]**int{
		"atomic-number": &f.AtomicNumber,
		"period":        &f.Period,
		"group":         &f.Group,
	} {
		if cmd.Flags().Changed(flag) {
			n, _ := cmd.Flags().GetInt(flag)
			*dst = &n
		}
	}
	return f
}

func splitFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// elementMaps converts elements to their JSON objects so columns can be
// picked by field name.
func elementMaps(elements []types.Element) ([]map[string]any, error) {
	data, err := json.Marshal(elements)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func formatQueryOutput(w io.Writer, elements []types.Element, fields []string, jsonOutput bool) error {
	rows, err := elementMaps(elements)
	if err != nil {
		return err
	}
	columns := fields
	if len(columns) == 0 {
		columns = defaultColumns
	}

	if jsonOutput {
		out := make([]map[string]any, len(rows))
		for i, row := range rows {
			out[i] = make(map[string]any, len(columns))
			for _, c := range columns {
				if v, ok := row[c]; ok {
					out[i][c] = v
				}
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No elements found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, c := range columns {
			r[i] = cell(row[c])
		}
		t.AppendRow(r)
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Render()

	fmt.Fprintf(w, "\n%d elements\n", len(rows))
	return nil
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
