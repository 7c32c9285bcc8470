// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crystals serialises crystal structures read from CIF files into
// the records written to crystals.json.
package crystals

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// CrystalsFile is the stage output under the data directory.
const CrystalsFile = "crystals.json"

// tolerance is the relative tolerance for comparing lattice parameters.
const tolerance = 1e-3

// sourceParts is how many trailing path components a source keeps.
const sourceParts = 5

// Lattice systems.
const (
	Cubic        = "cubic"
	Tetragonal   = "tetragonal"
	Orthorhombic = "orthorhombic"
	Hexagonal    = "hexagonal"
	Rhombohedral = "rhombohedral"
	Monoclinic   = "monoclinic"
	Triclinic    = "triclinic"
)

var centerings = map[byte]string{
	'P': "primitive",
	'I': "body_centered",
	'F': "face_centered",
	'A': "a_centered",
	'B': "b_centered",
	'C': "c_centered",
	'R': "rhombohedral",
}

var (
	elementRe   = regexp.MustCompile(`^[A-Z][a-z]?`)
	separatorRe = regexp.MustCompile(`[/\\]`)
)

// Serialise builds the crystal record for one parsed CIF. name labels the
// record and path is recorded as its source.
func Serialise(name, path string, cif *CIF) (types.Crystal, error) {
	params, err := latticeParameters(cif)
	if err != nil {
		return types.Crystal{}, err
	}
	atoms, err := atomSites(cif)
	if err != nil {
		return types.Crystal{}, err
	}

	hm, _ := cif.Value("_space_group_name_h-m_alt", "_symmetry_space_group_name_h-m")
	number := 0
	if v, ok := cif.Value("_space_group_it_number", "_symmetry_int_tables_number"); ok {
		number, err = strconv.Atoi(v)
		if err != nil {
			return types.Crystal{}, fmt.Errorf("space group number %q: %w", v, err)
		}
	}

	system := LatticeSystem(params)
	centering := Centering(hm)
	formula, ok := cif.Value("_chemical_formula_sum")
	if !ok {
		formula = formulaOf(atoms)
	}

	vectors := LatticeVectors(params)
	return types.Crystal{
		Name:              name,
		Source:            trimSource(path),
		ChemicalFormula:   formula,
		LatticeParameters: params,
		LatticeSystem:     system,
		Centering:         centering,
		LatticeVectors:    vectors,
		Volume:            Volume(params),
		SpaceGroup:        hm,
		SpaceGroupNumber:  number,
		Atoms:             atoms,
		Symmetry: types.Symmetry{
			InternationalSymbol: strings.ReplaceAll(hm, " ", ""),
			InternationalNumber: number,
			Centering:           centering,
			LatticeSystem:       system,
		},
	}, nil
}

func latticeParameters(cif *CIF) (types.LatticeParameters, error) {
	tags := []string{
		"_cell_length_a", "_cell_length_b", "_cell_length_c",
		"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma",
	}
	var v [6]float64
	for i, tag := range tags {
		f, err := cif.Float(tag)
		if err != nil {
			return types.LatticeParameters{}, err
		}
		v[i] = f
	}
	return types.LatticeParameters{A: v[0], B: v[1], C: v[2], Alpha: v[3], Beta: v[4], Gamma: v[5]}, nil
}

func atomSites(cif *CIF) ([]types.Atom, error) {
	loop, ok := cif.Loop("_atom_site_fract_x")
	if !ok {
		return nil, fmt.Errorf("_atom_site_fract_x: %w", ErrMissing)
	}
	label := loop.Column("_atom_site_label")
	symbol := loop.Column("_atom_site_type_symbol")
	occupancy := loop.Column("_atom_site_occupancy")
	coords := [3]int{
		loop.Column("_atom_site_fract_x"),
		loop.Column("_atom_site_fract_y"),
		loop.Column("_atom_site_fract_z"),
	}
	for _, c := range coords {
		if c < 0 {
			return nil, fmt.Errorf("incomplete fractional coordinates: %w", ErrMissing)
		}
	}

	atoms := make([]types.Atom, 0, len(loop.Rows))
	for _, row := range loop.Rows {
		atom := types.Atom{Occupancy: 1}
		if label >= 0 {
			atom.Label = row[label]
		}
		if symbol >= 0 {
			atom.Element = elementRe.FindString(row[symbol])
		} else {
			atom.Element = elementRe.FindString(atom.Label)
		}
		for k, col := range coords {
			f, err := coordinate(row[col])
			if err != nil {
				return nil, fmt.Errorf("atom %s: %w", atom.Label, err)
			}
			atom.Coords[k] = f
		}
		if occupancy >= 0 && row[occupancy] != "?" && row[occupancy] != "." {
			f, err := coordinate(row[occupancy])
			if err != nil {
				return nil, fmt.Errorf("atom %s occupancy: %w", atom.Label, err)
			}
			atom.Occupancy = f
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

func approx(x, y float64) bool {
	return math.Abs(x-y) <= tolerance*math.Max(math.Abs(x), math.Abs(y))
}

// LatticeSystem classifies the cell by its lengths and angles.
func LatticeSystem(p types.LatticeParameters) string {
	right := 0
	for _, angle := range []float64{p.Alpha, p.Beta, p.Gamma} {
		if approx(angle, 90) {
			right++
		}
	}
	equalLengths := approx(p.A, p.B) && approx(p.B, p.C)
	equalAngles := approx(p.Alpha, p.Beta) && approx(p.Beta, p.Gamma)

	switch {
	case equalLengths && right == 3:
		return Cubic
	case equalLengths && equalAngles:
		return Rhombohedral
	case approx(p.A, p.B) && approx(p.Alpha, 90) && approx(p.Beta, 90) && approx(p.Gamma, 120):
		return Hexagonal
	case approx(p.A, p.B) && right == 3:
		return Tetragonal
	case right == 3:
		return Orthorhombic
	case right == 2:
		return Monoclinic
	default:
		return Triclinic
	}
}

// Centering reads the lattice centering from the first letter of a
// Hermann-Mauguin symbol. Unknown symbols yield "".
func Centering(hm string) string {
	hm = strings.TrimSpace(hm)
	if hm == "" {
		return ""
	}
	return centerings[strings.ToUpper(hm)[0]]
}

// LatticeVectors returns the cell vectors in Å with a along x and b in the
// xy plane. Components below 1e-10 are zeroed.
func LatticeVectors(p types.LatticeParameters) [3][3]float64 {
	ca, cb, cg := cosd(p.Alpha), cosd(p.Beta), cosd(p.Gamma)
	sg := math.Sin(p.Gamma * math.Pi / 180)

	cy := (ca - cb*cg) / sg
	cz := math.Sqrt(math.Max(0, 1-cb*cb-cy*cy))

	v := [3][3]float64{
		{p.A, 0, 0},
		{p.B * cg, p.B * sg, 0},
		{p.C * cb, p.C * cy, p.C * cz},
	}
	for i := range v {
		for j := range v[i] {
			if math.Abs(v[i][j]) < 1e-10 {
				v[i][j] = 0
			}
		}
	}
	return v
}

// Volume returns the unit cell volume in Å³.
func Volume(p types.LatticeParameters) float64 {
	ca, cb, cg := cosd(p.Alpha), cosd(p.Beta), cosd(p.Gamma)
	return p.A * p.B * p.C * math.Sqrt(math.Max(0, 1-ca*ca-cb*cb-cg*cg+2*ca*cb*cg))
}

func cosd(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}

// formulaOf counts elements in the asymmetric unit, weighted by occupancy,
// in alphabetical order.
func formulaOf(atoms []types.Atom) string {
	counts := make(map[string]float64)
	for _, a := range atoms {
		counts[a.Element] += a.Occupancy
	}
	elements := make([]string, 0, len(counts))
	for el := range counts {
		elements = append(elements, el)
	}
	sort.Strings(elements)

	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		n := counts[el]
		if approx(n, 1) {
			parts = append(parts, el)
			continue
		}
		parts = append(parts, el+strconv.FormatFloat(n, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

// trimSource keeps the last path components so records do not embed the
// machine-specific prefix.
func trimSource(path string) string {
	parts := separatorRe.Split(path, -1)
	if len(parts) > sourceParts {
		parts = parts[len(parts)-sourceParts:]
	}
	return strings.Join(parts, "/")
}

// SerialiseFile reads and serialises one CIF file. The record name is the
// file name without its extension.
func SerialiseFile(path string) (types.Crystal, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Crystal{}, err
	}
	defer f.Close()

	cif, err := ReadCIF(f)
	if err != nil {
		return types.Crystal{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Serialise(name, path, cif)
}

// SerialiseDir serialises every *.cif file in dir in name order, writing a
// progress line per file to w. Files that fail are reported and skipped.
func SerialiseDir(ctx context.Context, dir string, w io.Writer) (map[string]types.Crystal, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.cif"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make(map[string]types.Crystal, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		fmt.Fprintf(w, "Processing crystal %s...\n", name)

		crystal, err := SerialiseFile(path)
		if err != nil {
			fmt.Fprintf(w, "Could not serialise crystal %s due to %v\n", name, err)
			continue
		}
		out[name] = crystal
	}
	return out, nil
}

// Write stores crystals as <dataDir>/crystals.json keyed by name.
func Write(dataDir string, crystals map[string]types.Crystal) (string, error) {
	path := filepath.Join(dataDir, CrystalsFile)
	if err := fsutil.WriteJSON(path, crystals); err != nil {
		return "", err
	}
	return path, nil
}
