// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crystals

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/pkg/types"
)

const copperCIF = `# Copper, fcc
data_Cu
_chemical_formula_sum 'Cu'
_cell_length_a 3.6149(2)
_cell_length_b 3.6149(2)
_cell_length_c 3.6149(2)
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
_symmetry_space_group_name_H-M 'F m -3 m'
_symmetry_Int_Tables_number 225
loop_
_atom_site_label
_atom_site_type_symbol
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
_atom_site_occupancy
Cu1 Cu 0.0 0.0 0.0 1.0
`

const graphiteCIF = `data_graphite
_cell_length_a 2.464
_cell_length_b 2.464
_cell_length_c 6.711
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 120
_space_group_name_H-M_alt 'P 63/m m c'
_space_group_IT_number 194
_publ_section_title
;
 The structure of graphite
;
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
C1 0 0 0.25
C2 1/3 2/3 0.25
`

func readCIF(t *testing.T, src string) *CIF {
	t.Helper()
	cif, err := ReadCIF(strings.NewReader(src))
	require.NoError(t, err)
	return cif
}

func TestReadCIF(t *testing.T) {
	cif := readCIF(t, graphiteCIF)

	assert.Equal(t, "graphite", cif.Name)
	v, ok := cif.Value("_space_group_name_H-M_alt")
	assert.True(t, ok)
	assert.Equal(t, "P 63/m m c", v)
	v, _ = cif.Value("_publ_section_title")
	assert.Equal(t, "The structure of graphite", v)

	loop, ok := cif.Loop("_atom_site_fract_y")
	require.True(t, ok)
	assert.Equal(t, 0, loop.Column("_atom_site_label"))
	assert.Equal(t, -1, loop.Column("_atom_site_occupancy"))
	assert.Equal(t, [][]string{{"C1", "0", "0", "0.25"}, {"C2", "1/3", "2/3", "0.25"}}, loop.Rows)

	a, err := readCIF(t, copperCIF).Float("_cell_length_a")
	require.NoError(t, err)
	assert.InDelta(t, 3.6149, a, 1e-12)
}

func TestReadCIFFirstBlockOnly(t *testing.T) {
	cif := readCIF(t, "data_one\n_cell_length_a 1\ndata_two\n_cell_length_a 2\n")
	assert.Equal(t, "one", cif.Name)
	assert.Equal(t, "1", cif.Items["_cell_length_a"])
}

func TestReadCIFQuoting(t *testing.T) {
	cif := readCIF(t, "data_q\n_journal_name 'O'Brien Letters'\n_note \"a # b\" # trailing comment\n")
	assert.Equal(t, "O'Brien Letters", cif.Items["_journal_name"])
	assert.Equal(t, "a # b", cif.Items["_note"])
}

func TestReadCIFErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no data block", "_cell_length_a 1\n", "no data block"},
		{"ragged loop", "data_x\nloop_\n_a\n_b\n1 2 3\n", "loop with 2 tags has 3 values"},
		{"tag without value", "data_x\n_a\n_b 1\n", "tag _a has no value"},
		{"unterminated text", "data_x\n_a\n;\nopen\n", "unterminated text field"},
		{"stray value", "data_x\nvalue\n", "unexpected token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCIF(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFloatMissing(t *testing.T) {
	cif := readCIF(t, "data_x\n_cell_length_a ?\n")
	_, err := cif.Float("_cell_length_a")
	assert.True(t, errors.Is(err, ErrMissing))
	_, err = cif.Float("_cell_length_b")
	assert.True(t, errors.Is(err, ErrMissing))
}

func TestSerialiseCopper(t *testing.T) {
	got, err := Serialise("Cu", "/home/user/data/cif/metals/fcc/Cu.cif", readCIF(t, copperCIF))
	require.NoError(t, err)

	a := 3.6149
	assert.Equal(t, "Cu", got.Name)
	assert.Equal(t, "data/cif/metals/fcc/Cu.cif", got.Source)
	assert.Equal(t, "Cu", got.ChemicalFormula)
	assert.Equal(t, types.LatticeParameters{A: a, B: a, C: a, Alpha: 90, Beta: 90, Gamma: 90}, got.LatticeParameters)
	assert.Equal(t, Cubic, got.LatticeSystem)
	assert.Equal(t, "face_centered", got.Centering)
	assert.Equal(t, "F m -3 m", got.SpaceGroup)
	assert.Equal(t, 225, got.SpaceGroupNumber)
	assert.InDelta(t, a*a*a, got.Volume, 1e-9)

	want := [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got.LatticeVectors[i][j], 1e-9, "vector %d component %d", i, j)
		}
	}

	require.Len(t, got.Atoms, 1)
	assert.Equal(t, types.Atom{Label: "Cu1", Element: "Cu", Coords: [3]float64{0, 0, 0}, Occupancy: 1}, got.Atoms[0])
	assert.Equal(t, types.Symmetry{
		InternationalSymbol: "Fm-3m",
		InternationalNumber: 225,
		Centering:           "face_centered",
		LatticeSystem:       Cubic,
	}, got.Symmetry)
}

func TestSerialiseGraphite(t *testing.T) {
	got, err := Serialise("graphite", "graphite.cif", readCIF(t, graphiteCIF))
	require.NoError(t, err)

	assert.Equal(t, Hexagonal, got.LatticeSystem)
	assert.Equal(t, "primitive", got.Centering)
	assert.Equal(t, "P63/mmc", got.Symmetry.InternationalSymbol)
	assert.Equal(t, 194, got.SpaceGroupNumber)
	assert.Equal(t, "C2", got.ChemicalFormula, "formula derived from atom sites")
	assert.Equal(t, "graphite.cif", got.Source)
	assert.InDelta(t, 2.464*2.464*6.711*math.Sqrt(3)/2, got.Volume, 1e-9)

	require.Len(t, got.Atoms, 2)
	assert.Equal(t, "C", got.Atoms[1].Element)
	assert.InDelta(t, 1.0/3, got.Atoms[1].Coords[0], 1e-12)
	assert.InDelta(t, 2.0/3, got.Atoms[1].Coords[1], 1e-12)

	// b lies in the xy plane at 120 degrees from a.
	assert.InDelta(t, -2.464/2, got.LatticeVectors[1][0], 1e-9)
	assert.InDelta(t, 2.464*math.Sqrt(3)/2, got.LatticeVectors[1][1], 1e-9)
	assert.InDelta(t, 6.711, got.LatticeVectors[2][2], 1e-9)
}

func TestSerialiseMissingAtoms(t *testing.T) {
	src := strings.SplitN(copperCIF, "loop_", 2)[0]
	_, err := Serialise("Cu", "Cu.cif", readCIF(t, src))
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLatticeSystem(t *testing.T) {
	tests := []struct {
		name string
		p    types.LatticeParameters
		want string
	}{
		{"cubic", types.LatticeParameters{A: 1, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 90}, Cubic},
		{"cubic within tolerance", types.LatticeParameters{A: 1, B: 1.0005, C: 1, Alpha: 90, Beta: 90.05, Gamma: 90}, Cubic},
		{"tetragonal", types.LatticeParameters{A: 1, B: 1, C: 2, Alpha: 90, Beta: 90, Gamma: 90}, Tetragonal},
		{"orthorhombic", types.LatticeParameters{A: 1, B: 2, C: 3, Alpha: 90, Beta: 90, Gamma: 90}, Orthorhombic},
		{"hexagonal", types.LatticeParameters{A: 1, B: 1, C: 2, Alpha: 90, Beta: 90, Gamma: 120}, Hexagonal},
		{"rhombohedral", types.LatticeParameters{A: 1, B: 1, C: 1, Alpha: 80, Beta: 80, Gamma: 80}, Rhombohedral},
		{"monoclinic", types.LatticeParameters{A: 1, B: 2, C: 3, Alpha: 90, Beta: 100, Gamma: 90}, Monoclinic},
		{"triclinic", types.LatticeParameters{A: 1, B: 2, C: 3, Alpha: 80, Beta: 85, Gamma: 95}, Triclinic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatticeSystem(tt.p); got != tt.want {
				t.Errorf("LatticeSystem(%+v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

func TestCentering(t *testing.T) {
	tests := map[string]string{
		"P 1":       "primitive",
		"I m -3 m":  "body_centered",
		"F d -3 m":  "face_centered",
		"C 1 2/m 1": "c_centered",
		"R -3 m":    "rhombohedral",
		"":          "",
		"X":         "",
	}
	for in, want := range tests {
		if got := Centering(in); got != want {
			t.Errorf("Centering(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrimSource(t *testing.T) {
	assert.Equal(t, "cif/a/b/c/cu.cif", trimSource(`C:\data\cif\a\b\c\cu.cif`))
	assert.Equal(t, "cu.cif", trimSource("cu.cif"))
}

func TestSerialiseDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"cu.cif":       copperCIF,
		"graphite.cif": graphiteCIF,
		"broken.cif":   "data_broken\n_cell_length_a 1\n",
		"notes.txt":    "ignored",
	}
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	var out bytes.Buffer
	got, err := SerialiseDir(context.Background(), dir, &out)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Contains(t, got, "cu")
	assert.Contains(t, got, "graphite")
	assert.Equal(t,
		"Processing crystal broken...\n"+
			"Could not serialise crystal broken due to _cell_length_b: missing value\n"+
			"Processing crystal cu...\n"+
			"Processing crystal graphite...\n",
		out.String())

	path, err := Write(t.TempDir(), got)
	require.NoError(t, err)
	var written map[string]types.Crystal
	require.NoError(t, fsutil.ReadJSON(path, &written))
	assert.Equal(t, got["cu"].LatticeParameters, written["cu"].LatticeParameters)
}

func TestSerialiseDirCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cu.cif"), []byte(copperCIF), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SerialiseDir(ctx, dir, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
