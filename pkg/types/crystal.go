// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LatticeParameters are the unit cell lengths (Å) and angles (degrees).
type LatticeParameters struct {
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
	C     float64 `json:"c" yaml:"c"`
	Alpha float64 `json:"α" yaml:"α"`
	Beta  float64 `json:"β" yaml:"β"`
	Gamma float64 `json:"γ" yaml:"γ"`
}

// Atom is one site of the asymmetric unit in fractional coordinates.
type Atom struct {
	Label     string     `json:"label" yaml:"label"`
	Element   string     `json:"element" yaml:"element"`
	Coords    [3]float64 `json:"coords_fractional" yaml:"coords_fractional"`
	Occupancy float64    `json:"occupancy" yaml:"occupancy"`
}

// Symmetry summarizes the space group of a crystal.
type Symmetry struct {
	InternationalSymbol string `json:"international_symbol" yaml:"international_symbol"`
	InternationalNumber int    `json:"international_number" yaml:"international_number"`
	Centering           string `json:"centering" yaml:"centering"`
	LatticeSystem       string `json:"lattice_system" yaml:"lattice_system"`
}

// Crystal is the serialised form of one crystal structure written to
// crystals.json.
type Crystal struct {
	Name              string            `json:"name" yaml:"name"`
	Source            string            `json:"source" yaml:"source"`
	ChemicalFormula   string            `json:"chemical_formula" yaml:"chemical_formula"`
	LatticeParameters LatticeParameters `json:"lattice_parameters" yaml:"lattice_parameters"`
	LatticeSystem     string            `json:"lattice_system" yaml:"lattice_system"`
	Centering         string            `json:"centering" yaml:"centering"`
	LatticeVectors    [3][3]float64     `json:"lattice_vectors" yaml:"lattice_vectors"`
	Volume            float64           `json:"volume" yaml:"volume"`
	SpaceGroup        string            `json:"space_group" yaml:"space_group"`
	SpaceGroupNumber  int               `json:"space_group_number" yaml:"space_group_number"`
	Atoms             []Atom            `json:"atoms" yaml:"atoms"`
	Symmetry          Symmetry          `json:"symmetry" yaml:"symmetry"`
}
