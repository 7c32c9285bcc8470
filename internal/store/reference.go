// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/pdiddy/periodic-table/pkg/types"
)

// groupNames are the IUPAC trivial names of the eighteen groups.
var groupNames = map[int]string{
	1:  "alkali metals",
	2:  "alkaline earth metals",
	3:  "scandium group",
	4:  "titanium group",
	5:  "vanadium group",
	6:  "chromium group",
	7:  "manganese group",
	8:  "iron group",
	9:  "cobalt group",
	10: "nickel group",
	11: "coinage metals",
	12: "zinc group",
	13: "boron group",
	14: "carbon group",
	15: "pnictogens",
	16: "chalcogens",
	17: "halogens",
	18: "noble gases",
}

// GroupName returns the trivial name of group n, or "group n" outside 1-18.
func GroupName(n int) string {
	if name, ok := groupNames[n]; ok {
		return name
	}
	return "group " + strconv.Itoa(n)
}

// BlockOf derives the s/p/d/f block from the group number. Lanthanides and
// actinides carry no group and fall in the f block; helium sits in group 18
// but fills an s orbital.
func BlockOf(group *int, atomicNumber int) string {
	if group == nil || *group == 0 {
		if (atomicNumber >= 57 && atomicNumber <= 71) || (atomicNumber >= 89 && atomicNumber <= 103) {
			return "f"
		}
		return ""
	}
	switch g := *group; {
	case atomicNumber == 2, g <= 2:
		return "s"
	case g <= 12:
		return "d"
	case g <= 18:
		return "p"
	default:
		return ""
	}
}

var subshellRe = regexp.MustCompile(`\d[spdfg]`)

// Orbitals lists the distinct subshells written out in an electron
// configuration, in order of appearance. A bracketed noble-gas core is not
// expanded: "[He]2s2 2p2" yields 2s and 2p.
func Orbitals(configuration string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range subshellRe.FindAllString(configuration, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// ensureReferences inserts the group, period and block rows e points at.
func ensureReferences(ctx context.Context, tx *sqlx.Tx, e *types.Element) error {
	if e.Period != nil {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO periods (number) VALUES (?)`, *e.Period); err != nil {
			return fmt.Errorf("inserting period: %w", err)
		}
	}
	if e.Group != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO groups (number, name) VALUES (?, ?)`, *e.Group, GroupName(*e.Group),
		); err != nil {
			return fmt.Errorf("inserting group: %w", err)
		}
	}
	if e.Block != "" {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO blocks (name) VALUES (?)`, e.Block); err != nil {
			return fmt.Errorf("inserting block: %w", err)
		}
	}
	return nil
}

// writeSets replaces the oxidation states and orbitals linked to e.
func writeSets(ctx context.Context, tx *sqlx.Tx, e *types.Element) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM element_oxidation_states WHERE atomic_number = ?`, e.AtomicNumber); err != nil {
		return fmt.Errorf("clearing oxidation states: %w", err)
	}
	for _, st := range e.OxidationStates {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO oxidation_states (state) VALUES (?)`, st); err != nil {
			return fmt.Errorf("inserting oxidation state: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO element_oxidation_states (atomic_number, oxidation_state_id)
			 SELECT ?, id FROM oxidation_states WHERE state = ?`, e.AtomicNumber, st,
		); err != nil {
			return fmt.Errorf("linking oxidation state: %w", err)
		}
	}

	orbitals := e.Orbitals
	if len(orbitals) == 0 {
		orbitals = Orbitals(e.ElectronConfiguration)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM element_orbitals WHERE atomic_number = ?`, e.AtomicNumber); err != nil {
		return fmt.Errorf("clearing orbitals: %w", err)
	}
	for _, o := range orbitals {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO orbitals (name) VALUES (?)`, o); err != nil {
			return fmt.Errorf("inserting orbital: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO element_orbitals (atomic_number, orbital_id)
			 SELECT ?, id FROM orbitals WHERE name = ?`, e.AtomicNumber, o,
		); err != nil {
			return fmt.Errorf("linking orbital: %w", err)
		}
	}
	return nil
}
