// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubchem

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) Record {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Record
}

func TestParseHydrogen(t *testing.T) {
	var diag bytes.Buffer
	rec, err := NewParser(&diag).Parse(loadFixture(t, "1.json"))
	require.NoError(t, err)

	assert.Equal(t, 1, rec.AtomicNumber)
	assert.Equal(t, "H", rec.Symbol)
	assert.Equal(t, "Hydrogen", rec.Name)
	assert.Equal(t, "2S1/2", rec.GroundLevel)
	assert.Equal(t, "1s1", rec.ElectronConfiguration)
	assert.Equal(t, "Nonmetal", rec.ElementClassification)
	assert.Equal(t, 1, rec.Period)
	assert.Equal(t, 1, rec.Group)

	require.NotNil(t, rec.AtomicWeight)
	assert.InDelta(t, 1.008, *rec.AtomicWeight, 1e-9)
	require.NotNil(t, rec.MeltingPointKelvin)
	assert.InDelta(t, 13.99, *rec.MeltingPointKelvin, 1e-9)
	require.NotNil(t, rec.BoilingPointKelvin)
	assert.InDelta(t, 20.271, *rec.BoilingPointKelvin, 1e-9, "first kelvin entry wins")
	require.NotNil(t, rec.FirstIonisationEnergyEV)
	assert.InDelta(t, 13.598, *rec.FirstIonisationEnergyEV, 1e-9)
	require.NotNil(t, rec.ElectronAffinityEV)
	assert.InDelta(t, 0.754, *rec.ElectronAffinityEV, 1e-9)
	require.NotNil(t, rec.AtomicRadiusPM)
	assert.InDelta(t, 120, *rec.AtomicRadiusPM, 1e-9)
	require.NotNil(t, rec.Electronegativity)
	assert.InDelta(t, 2.2, *rec.Electronegativity, 1e-9)

	assert.Equal(t, "0.08988 g/L", rec.Density)
	assert.Equal(t, []string{"+1", "-1"}, rec.OxidationStates)
	assert.Equal(t, "1.40×10^3 milligrams per kilogram", rec.EstimatedCrustalAbundance)
	assert.Equal(t, "1.08×10^5 milligrams per liter", rec.EstimatedOceanicAbundance)
	assert.Equal(t, "A colorless, odorless gas.", rec.Description)
	assert.Equal(t, []string{"Ammonia synthesis.\nHydrogenation of fats.", "Rocket fuel."}, rec.Uses)
	assert.Equal(t, map[string]string{"diatomic": "H2"}, rec.ElementalForms)

	assert.InDelta(t, -259.16, rec.Extra["melting_point_degc"], 1e-9)
	assert.InDelta(t, 0.08988, rec.Extra["density_g_per_l"], 1e-9)
	assert.InDelta(t, 120, rec.Extra["atomic_radius_van_der_waals_pm"], 1e-9)
	assert.InDelta(t, 25, rec.Extra["atomic_radius_empirical_pm"], 1e-9)
	assert.InDelta(t, 2.2, rec.Extra["electronegativity_pauling_scale"], 1e-9)

	assert.Equal(t, "Cannot map section \"Heat of Vaporization\" due to unknown heading\n", diag.String())
}

func TestParseMergesIsotopeSections(t *testing.T) {
	rec, err := NewParser(nil).Parse(loadFixture(t, "1.json"))
	require.NoError(t, err)
	require.Len(t, rec.Isotopes, 3)

	h1 := rec.Isotopes["1H"]
	require.NotNil(t, h1.Abundance)
	assert.InDelta(t, 99.9885, *h1.Abundance, 1e-9)
	require.NotNil(t, h1.AtomicMass)
	assert.InDelta(t, 1.007825031898, *h1.AtomicMass, 1e-12, "decay table overrides abundance table mass")
	assert.Equal(t, "Stable", h1.HalfLife)
	assert.Equal(t, "1920", h1.Discovered)
	assert.Empty(t, h1.DecayModes)

	h2 := rec.Isotopes["2H"]
	require.NotNil(t, h2.Abundance)
	assert.InDelta(t, 0.0115, *h2.Abundance, 1e-9)
	assert.Empty(t, h2.HalfLife)

	h3 := rec.Isotopes["3H"]
	assert.Nil(t, h3.Abundance)
	assert.Equal(t, "12.32 y", h3.HalfLife)
	assert.Equal(t, "B-: 100%", h3.DecayModes)
	assert.Equal(t, "1934", h3.Discovered)
}

func TestParseReportsUnreadableValues(t *testing.T) {
	rec := Record{
		RecordNumber: 7,
		Section: []Section{
			{TOCHeading: "Element Group Number", Information: []Information{
				{Value: Value{StringWithMarkup: []Markup{{String: "N/A"}}}},
			}},
			{TOCHeading: "Atomic Weight", Information: []Information{
				{Value: Value{StringWithMarkup: []Markup{{String: "unknown"}}}},
			}},
		},
	}

	var diag bytes.Buffer
	got, err := NewParser(&diag).Parse(rec)
	require.NoError(t, err)

	assert.Equal(t, 7, got.AtomicNumber)
	assert.Zero(t, got.Group)
	assert.Nil(t, got.AtomicWeight)

	lines := strings.Split(strings.TrimSpace(diag.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `Cannot read integer from "N/A" due to`))
	assert.True(t, strings.HasPrefix(lines[1], `Cannot convert number from "unknown" due to`))
}

func TestValueText(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   string
		wantOK bool
	}{
		{"markup", Value{StringWithMarkup: []Markup{{String: " 1s1 "}, {String: "x"}}}, "1s1", true},
		{"number with unit", Value{Number: []float64{10, 20}, Unit: "pm"}, "15 pm", true},
		{"bare number", Value{Number: []float64{2.5}}, "2.5", true},
		{"empty", Value{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Text()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Text() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	v := Value{Number: []float64{1, 2}, Unit: "u"}
	assert.Equal(t, []string{"1 u", "2 u"}, v.Texts())
}

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"Van der Waals":   "van_der_waals",
		"Atomic Mass (u)": "atomic_mass",
		"Abundance (%)":   "abundance",
		"Isotope":         "isotope",
		"Pauling Scale":   "pauling_scale",
		"":                "",
	}
	for in, want := range tests {
		if got := snake(in); got != want {
			t.Errorf("snake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFixFormatting(t *testing.T) {
	f := Fragment{
		"estimated_crustal_abundance": "8.2Ã\u0097104 mg/kg",
		"estimated_oceanic_abundance": "2×10-3 mg/L",
		"ground_level":                "2SÂ1/2",
		"period":                      3,
	}
	fixFormatting(f)

	assert.Equal(t, "8.2×10^4 mg/kg", f["estimated_crustal_abundance"])
	assert.Equal(t, "2×10^-3 mg/L", f["estimated_oceanic_abundance"])
	assert.Equal(t, "2S 1/2", f["ground_level"])
	assert.Equal(t, 3, f["period"])
}

func TestFixExponent(t *testing.T) {
	tests := map[string]string{
		"1.40×103 mg/kg":   "1.40×10^3 mg/kg",
		"8.2Ã\u0097104":    "8.2×10^4",
		"2×10-3 mg/L":      "2×10^-3 mg/L",
		"2×10−3 mg/L":      "2×10^-3 mg/L",
		"5×10⁻⁴ mg/L":      "5×10^-4 mg/L",
		"3×1012":           "3×10^12",
		"1.08×10^5 mg/L":   "1.08×10^5 mg/L",
		"×100 by mass":     "×100 by mass",
		"4.5×1000 ppm":     "4.5×1000 ppm",
		"no exponent here": "no exponent here",
	}
	for in, want := range tests {
		assert.Equal(t, want, fixExponent(in), in)
	}
}
