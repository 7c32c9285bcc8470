// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/periodic-table/internal/units"
	"github.com/pdiddy/periodic-table/pkg/types"
)

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("data-dir", "", "")
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := loadConfig(testCommand(), v)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Scrape.From)
	assert.Equal(t, 118, cfg.Scrape.To)
	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.RequestDelay)
	assert.Equal(t, 60*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, "periodic-table/0.1", cfg.Scrape.UserAgent)
	assert.Equal(t, 5, cfg.Ionisation.MaxRetries)
	assert.Equal(t, types.IonisationDataSource, cfg.Ionisation.URL)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, 200, cfg.Store.MaxResults)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periodic-table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`scrape:
  from: 3
  request_delay: 1s
server:
  addr: ":9000"
`), 0o644))
	t.Setenv("PERIODIC_TABLE_SCRAPE_TO", "10")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("PERIODIC_TABLE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(testCommand(), v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scrape.From)
	assert.Equal(t, 10, cfg.Scrape.To)
	assert.Equal(t, time.Second, cfg.Scrape.RequestDelay)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadConfigDataDirFlag(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cmd := testCommand()
	require.NoError(t, cmd.Flags().Set("data-dir", "/srv/table"))

	cfg, err := loadConfig(cmd, v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/table", cfg.Scrape.DataDir)
	assert.Equal(t, "/srv/table", cfg.Ionisation.DataDir)
	assert.Equal(t, "/srv/table", cfg.Crystals.DataDir)
	assert.Equal(t, "/srv/table", cfg.Store.DataDir)
}

func TestOverrides(t *testing.T) {
	cmd := testCommand()
	cmd.Flags().Int("from", 1, "")
	cmd.Flags().Duration("delay", 0, "")
	require.NoError(t, cmd.Flags().Set("delay", "2s"))

	from, delay := 7, time.Duration(0)
	overrideInt(cmd.Flags(), "from", &from)
	overrideDuration(cmd.Flags(), "delay", &delay)
	assert.Equal(t, 7, from, "unset flag keeps configured value")
	assert.Equal(t, 2*time.Second, delay)
}

func sampleElements() []types.Element {
	mass := 1.008
	group, period := 1, 1
	return []types.Element{{
		AtomicNumber:    1,
		Name:            "Hydrogen",
		Symbol:          "H",
		Group:           &group,
		Period:          &period,
		Block:           "s",
		AtomicMassU:     &mass,
		OxidationStates: []string{"+1", "-1"},
	}}
}

func TestFormatQueryOutputTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatQueryOutput(&buf, sampleElements(), nil, false))

	out := buf.String()
	assert.Contains(t, out, "atomic_mass_u")
	assert.Contains(t, out, "Hydrogen")
	assert.Contains(t, out, "1.008")
	assert.Contains(t, out, "1 elements")
	assert.NotContains(t, out, "oxidation_states")

	buf.Reset()
	require.NoError(t, formatQueryOutput(&buf, sampleElements(), []string{"symbol", "oxidation_states"}, false))
	assert.Contains(t, buf.String(), "+1, -1")

	buf.Reset()
	require.NoError(t, formatQueryOutput(&buf, nil, nil, false))
	assert.Equal(t, "No elements found.\n", buf.String())
}

func TestFormatQueryOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatQueryOutput(&buf, sampleElements(), splitFields("symbol, name,unknown"), true))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]any{{"symbol": "H", "name": "Hydrogen"}}, got)
}

func TestWriteExtraction(t *testing.T) {
	ext := units.New(io.Discard)
	tests := map[string]string{
		"1234 K":     "1234 kelvin\n",
		"12-14 nm":   "13 nm\n",
		"":           "null null\n",
		"not number": "null null\n",
	}
	for in, want := range tests {
		var buf bytes.Buffer
		writeExtraction(&buf, ext.Extract(in))
		assert.Equal(t, want, buf.String(), in)
	}
}
