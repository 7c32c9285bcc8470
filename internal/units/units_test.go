// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package units

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue float64
		wantUnit  string
	}{
		{"kelvin", "1234 K", 1234, "kelvin"},
		{"parenthetical stripped", "120.5 pm (covalent)", 120.5, "pm"},
		{"celsius annotation stripped", "1234 K (961 °C)", 1234, "kelvin"},
		{"celsius fallback", "25°C", 25 - celsiusOffset, "K"},
		{"range averaged", "12-14 nm", 13, "nm"},
		{"spaced range averaged", "12 - 14 nm", 13, "nm"},
		{"tuple averaged", "(12, 14) nm", 13, "nm"},
		{"label removed", "Melting point: 14.01 K", 14.01, "kelvin"},
		{"footnote removed", "1.5 eV [2]", 1.5, "ev"},
		{"negative value", "-0.75 eV", -0.75, "ev"},
		{"exponent", "1.2e-3 g/cm3", 0.0012, "g/cm"},
		{"mojibake removed", "0.0899Â g/L", 0.0899, "g/l"},
		{"tilde removed", "~300 K", 300, "kelvin"},
		{"no-space range averaged", "12-14nm", 13, "nm"},
		{"no-space unit", "120pm", 120, "pm"},
		{"no-space electronvolts", "5eV", 5, "ev"},
		{"digit filter retry", "1234* K", 1234, "kelvin"},
		{"digit filter keeps exponent", "1e5* K", 1e5, "kelvin"},
		{"extra tokens ignored", "13.598 eV first", 13.598, "ev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag bytes.Buffer
			got := New(&diag).Extract(tt.input)

			require.NotNil(t, got.Value, "value for %q", tt.input)
			assert.InDelta(t, tt.wantValue, *got.Value, 1e-9)
			assert.Equal(t, tt.wantUnit, got.Unit)
			assert.Empty(t, diag.String())
		})
	}
}

func TestExtract_CelsiusOffset(t *testing.T) {
	got := New(nil).Extract("25°C")
	require.NotNil(t, got.Value)
	assert.InDelta(t, -247.16, *got.Value, 1e-9)
	assert.Equal(t, "K", got.Unit)
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDiags int
	}{
		{"empty", "", 1},
		{"whitespace", "   ", 1},
		{"no number", "unknown", 1},
		{"bad value token", "abc K", 1},
		{"bare number has no unit", "1234", 0},
		{"unit is only digits and underscores", "12 _", 0},
		{"numeric unit token", "12 34", 0},
		{"numeric range unit token", "120 150-160", 0},
		{"no-space dangling range", "12-nm", 1},
		{"no-space signed unit", "12+K", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag bytes.Buffer
			got := New(&diag).Extract(tt.input)

			assert.Nil(t, got.Value)
			assert.Empty(t, got.Unit)
			assert.False(t, got.OK())

			lines := strings.Count(diag.String(), "\n")
			assert.Equal(t, tt.wantDiags, lines, "diagnostics: %q", diag.String())
		})
	}
}

func TestExtract_DiagnosticFormat(t *testing.T) {
	var diag bytes.Buffer
	New(&diag).Extract("")

	line := strings.TrimSpace(diag.String())
	assert.True(t, strings.HasPrefix(line, "Cannot "), line)
	assert.Contains(t, line, `from ""`)
	assert.Contains(t, line, " due to ")
}

func TestExtract_NeverPanics(t *testing.T) {
	inputs := []string{
		"", "(", ")", "[]", "()", "°C", "-", "--", "1-", "-1-", "1e", "e5 K",
		"Â", "\\n\\t", "1,,2 nm", "(,) pm", ":", "a:b:c", "1.2.3 K", "ÃÃÃ",
		strings.Repeat("9", 400) + " K", "NaN K", "Inf K", "0x10 K",
	}
	ext := New(nil)
	for _, in := range inputs {
		assert.NotPanics(t, func() { ext.Extract(in) }, "input %q", in)
	}
}

func TestExtract_RejectsExpressions(t *testing.T) {
	for _, in := range []string{"NaN K", "Inf K", "0x10 K", "2*3 K"} {
		got := New(nil).Extract(in)
		if got.Value != nil {
			assert.NotEqual(t, 6.0, *got.Value, "input %q evaluated as expression", in)
		}
	}
}

func TestExtract_Concurrent(t *testing.T) {
	var diag bytes.Buffer
	ext := New(&diag)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := ext.Extract("1234 K")
			assert.True(t, got.OK())
			ext.Extract("")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, strings.Count(diag.String(), "\n"))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"K", "kelvin", true},
		{"k", "kelvin", true},
		{"kelvin", "kelvin", true},
		{"pm", "pm", true},
		{"eV", "ev", true},
		{"kJ/mol", "kj/mol", true},
		{"cm3", "cm", true},
		{"150", "", false},
		{"12-14", "", false},
		{"1.5", "", false},
		{"_1_", "", false},
		{"", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Canonical(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	for _, in := range []string{"K", "kelvin", "pm", "eV", "g/cm³", "kJ⋅mol⁻¹", "cm3", "°C"} {
		first, ok := Canonical(in)
		require.True(t, ok, in)
		second, ok := Canonical(first)
		require.True(t, ok, first)
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestParsedKey(t *testing.T) {
	v := 1.0
	tests := []struct {
		field string
		unit  string
		want  string
	}{
		{"melting_point", "kelvin", "melting_point_kelvin"},
		{"melting_point", "K", "melting_point_kelvin"},
		{"density", "g/cm³", "density_g_per_cm3"},
		{"first_ionisation_energy", "ev", "first_ionisation_energy_ev"},
		{"boiling_point", "°c", "boiling_point_degc"},
		{"energy", "kJ⋅mol⁻¹", "energy_kj_mol"},
		{"radius", "", "radius"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := Parsed{Value: &v, Unit: tt.unit}
			assert.Equal(t, tt.want, p.Key(tt.field))
		})
	}
}

func TestKeepNumeric(t *testing.T) {
	tests := map[string]string{
		"1234*":   "1234",
		"1e5*":    "1e5",
		"2.5E-3x": "2.5E-3",
		"3e":      "3",
		"e5":      "5",
		"12eV":    "12",
	}
	for in, want := range tests {
		assert.Equal(t, want, keepNumeric(in), in)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.008", 1.008, false},
		{"[1.00784, 1.00811]", (1.00784 + 1.00811) / 2, false},
		{"3.524(2)", 3.524, false},
		{"2.20 (Pauling Scale)", 2.20, false},
		{"1 2", 12, false},
		{"-0.5", -0.5, false},
		{"4-6", 5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1+1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Number(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12", 12, false},
		{"+12", 12, false},
		{".5", 0.5, false},
		{"1e-5", 1e-5, false},
		{"1.5e-3-2.5e-3", 2e-3, false},
		{"12–14", 13, false},
		{"(1,2,3)", 2, false},
		{"[10,20]", 15, false},
		{"1.2.3", 0, true},
		{"--1", 0, true},
		{"1-", 0, true},
		{"()", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumeric(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}
