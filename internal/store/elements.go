// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pdiddy/periodic-table/pkg/types"
)

// ElementFilter holds the exact-match filters for ListElements. Nil and
// empty fields do not filter.
type ElementFilter struct {
	Name         string
	Symbol       string
	AtomicNumber *int
	Period       *int
	Group        *int

	// Limit caps the result count; zero uses the store default.
	Limit  int
	Offset int
}

// IsEmpty reports whether the filter has no conditions.
func (f ElementFilter) IsEmpty() bool {
	return f.Name == "" && f.Symbol == "" && f.AtomicNumber == nil && f.Period == nil && f.Group == nil
}

const elementSelect = `SELECT e.atomic_number, e.name, e.symbol, e.group_number, e.period,
	COALESCE(b.name, '') AS block,
	e.melting_point_kelvin, e.boiling_point_kelvin, e.atomic_mass_u, e.atomic_radius,
	e.electronegativity, e.electron_affinity, e.first_ionisation_energy,
	e.density, e.electron_configuration, e.classification,
	e.year_discovered, e.discovered_by,
	e.estimated_crustal_abundance, e.estimated_oceanic_abundance, e.estimated_universal_abundance,
	e.description
FROM elements e
LEFT JOIN blocks b ON b.id = e.block_id`

const elementInsert = `INSERT INTO elements (
	atomic_number, name, symbol, group_number, period, block_id,
	melting_point_kelvin, boiling_point_kelvin, atomic_mass_u, atomic_radius,
	electronegativity, electron_affinity, first_ionisation_energy,
	density, electron_configuration, classification,
	year_discovered, discovered_by,
	estimated_crustal_abundance, estimated_oceanic_abundance, estimated_universal_abundance,
	description
) VALUES (
	:atomic_number, :name, :symbol, :group_number, :period, (SELECT id FROM blocks WHERE name = :block),
	:melting_point_kelvin, :boiling_point_kelvin, :atomic_mass_u, :atomic_radius,
	:electronegativity, :electron_affinity, :first_ionisation_energy,
	:density, :electron_configuration, :classification,
	:year_discovered, :discovered_by,
	:estimated_crustal_abundance, :estimated_oceanic_abundance, :estimated_universal_abundance,
	:description
)`

const elementUpsert = elementInsert + `
ON CONFLICT(atomic_number) DO UPDATE SET
	name=excluded.name, symbol=excluded.symbol, group_number=excluded.group_number,
	period=excluded.period, block_id=excluded.block_id,
	melting_point_kelvin=excluded.melting_point_kelvin, boiling_point_kelvin=excluded.boiling_point_kelvin,
	atomic_mass_u=excluded.atomic_mass_u, atomic_radius=excluded.atomic_radius,
	electronegativity=excluded.electronegativity, electron_affinity=excluded.electron_affinity,
	first_ionisation_energy=excluded.first_ionisation_energy,
	density=excluded.density, electron_configuration=excluded.electron_configuration,
	classification=excluded.classification,
	year_discovered=excluded.year_discovered, discovered_by=excluded.discovered_by,
	estimated_crustal_abundance=excluded.estimated_crustal_abundance,
	estimated_oceanic_abundance=excluded.estimated_oceanic_abundance,
	estimated_universal_abundance=excluded.estimated_universal_abundance,
	description=excluded.description`

const elementUpdate = `UPDATE elements SET
	name=:name, symbol=:symbol, group_number=:group_number, period=:period,
	block_id=(SELECT id FROM blocks WHERE name = :block),
	melting_point_kelvin=:melting_point_kelvin, boiling_point_kelvin=:boiling_point_kelvin,
	atomic_mass_u=:atomic_mass_u, atomic_radius=:atomic_radius,
	electronegativity=:electronegativity, electron_affinity=:electron_affinity,
	first_ionisation_energy=:first_ionisation_energy,
	density=:density, electron_configuration=:electron_configuration, classification=:classification,
	year_discovered=:year_discovered, discovered_by=:discovered_by,
	estimated_crustal_abundance=:estimated_crustal_abundance,
	estimated_oceanic_abundance=:estimated_oceanic_abundance,
	estimated_universal_abundance=:estimated_universal_abundance,
	description=:description
WHERE atomic_number=:atomic_number`

// ListElements returns elements matching f ordered by atomic number.
func (s *Store) ListElements(ctx context.Context, f ElementFilter) ([]types.Element, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(elementSelect)
	qb.WriteString(` WHERE 1=1`)

	if f.Name != "" {
		qb.WriteString(` AND e.name = ?`)
		args = append(args, f.Name)
	}
	if f.Symbol != "" {
		qb.WriteString(` AND e.symbol = ?`)
		args = append(args, f.Symbol)
	}
	if f.AtomicNumber != nil {
		qb.WriteString(` AND e.atomic_number = ?`)
		args = append(args, *f.AtomicNumber)
	}
	if f.Period != nil {
		qb.WriteString(` AND e.period = ?`)
		args = append(args, *f.Period)
	}
	if f.Group != nil {
		qb.WriteString(` AND e.group_number = ?`)
		args = append(args, *f.Group)
	}

	qb.WriteString(` ORDER BY e.atomic_number LIMIT ? OFFSET ?`)
	args = append(args, s.limit(f.Limit), f.Offset)

	elements := []types.Element{}
	if err := s.db.SelectContext(ctx, &elements, qb.String(), args...); err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	if err := s.attachSets(ctx, elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// GetElement returns the element with the given atomic number.
func (s *Store) GetElement(ctx context.Context, atomicNumber int) (types.Element, error) {
	var e types.Element
	err := s.db.GetContext(ctx, &e, elementSelect+` WHERE e.atomic_number = ?`, atomicNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("element %d: %w", atomicNumber, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("querying element %d: %w", atomicNumber, err)
	}

	one := []types.Element{e}
	if err := s.attachSets(ctx, one); err != nil {
		return e, err
	}
	return one[0], nil
}

// CreateElement inserts e and returns the stored row.
func (s *Store) CreateElement(ctx context.Context, e types.Element) (types.Element, error) {
	if err := validateElement(&e); err != nil {
		return e, err
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		return writeElement(ctx, tx, &e, elementInsert)
	})
	if err != nil {
		return e, err
	}
	return s.GetElement(ctx, e.AtomicNumber)
}

// UpdateElement replaces the element with the given atomic number. The
// atomic number in e, when set, must match.
func (s *Store) UpdateElement(ctx context.Context, atomicNumber int, e types.Element) (types.Element, error) {
	if e.AtomicNumber == 0 {
		e.AtomicNumber = atomicNumber
	}
	if e.AtomicNumber != atomicNumber {
		return e, fmt.Errorf("%w: atomic number %d does not match %d", ErrInvalid, e.AtomicNumber, atomicNumber)
	}
	if err := validateElement(&e); err != nil {
		return e, err
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureReferences(ctx, tx, &e); err != nil {
			return err
		}
		res, err := tx.NamedExecContext(ctx, elementUpdate, e)
		if err != nil {
			return mapError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("element %d: %w", atomicNumber, ErrNotFound)
		}
		return writeSets(ctx, tx, &e)
	})
	if err != nil {
		return e, err
	}
	return s.GetElement(ctx, atomicNumber)
}

// DeleteElement removes an element with its isotopes and links.
func (s *Store) DeleteElement(ctx context.Context, atomicNumber int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM elements WHERE atomic_number = ?`, atomicNumber)
	if err != nil {
		return fmt.Errorf("deleting element %d: %w", atomicNumber, mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("element %d: %w", atomicNumber, ErrNotFound)
	}
	return nil
}

// IonisationEnergies returns the energies of one element ordered by
// ionisation number. ErrNotFound means neither energies nor the element
// exist.
func (s *Store) IonisationEnergies(ctx context.Context, atomicNumber int) ([]types.IonisationEnergy, error) {
	energies := []types.IonisationEnergy{}
	err := s.db.SelectContext(ctx, &energies,
		`SELECT atomic_number, ionisation_number, energy FROM ionisation_energies
		 WHERE atomic_number = ? ORDER BY ionisation_number`, atomicNumber)
	if err != nil {
		return nil, fmt.Errorf("querying ionisation energies: %w", err)
	}
	if len(energies) > 0 {
		return energies, nil
	}
	if _, err := s.GetElement(ctx, atomicNumber); err != nil {
		return nil, err
	}
	return energies, nil
}

func validateElement(e *types.Element) error {
	var missing []string
	if e.AtomicNumber <= 0 {
		missing = append(missing, "atomic_number")
	}
	if strings.TrimSpace(e.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(e.Symbol) == "" {
		missing = append(missing, "symbol")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}
	if e.Block == "" {
		e.Block = BlockOf(e.Group, e.AtomicNumber)
	}
	return nil
}

// writeElement runs query (insert or upsert) for e with its references
// and linked sets.
func writeElement(ctx context.Context, tx *sqlx.Tx, e *types.Element, query string) error {
	if err := ensureReferences(ctx, tx, e); err != nil {
		return err
	}
	if _, err := tx.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("writing element %d: %w", e.AtomicNumber, mapError(err))
	}
	return writeSets(ctx, tx, e)
}

type setRow struct {
	ID    int    `db:"id"`
	Value string `db:"value"`
}

// attachSets loads oxidation states and orbitals for elements in place.
func (s *Store) attachSets(ctx context.Context, elements []types.Element) error {
	if len(elements) == 0 {
		return nil
	}
	ids := make([]int, len(elements))
	index := make(map[int]int, len(elements))
	for i, e := range elements {
		ids[i] = e.AtomicNumber
		index[e.AtomicNumber] = i
		elements[i].OxidationStates = []string{}
		elements[i].Orbitals = []string{}
	}

	states, err := s.selectSet(ctx,
		`SELECT eo.atomic_number AS id, o.state AS value
		 FROM element_oxidation_states eo JOIN oxidation_states o ON o.id = eo.oxidation_state_id
		 WHERE eo.atomic_number IN (?) ORDER BY eo.atomic_number, o.state`, ids)
	if err != nil {
		return fmt.Errorf("loading oxidation states: %w", err)
	}
	for _, r := range states {
		i := index[r.ID]
		elements[i].OxidationStates = append(elements[i].OxidationStates, r.Value)
	}

	orbitals, err := s.selectSet(ctx,
		`SELECT eo.atomic_number AS id, o.name AS value
		 FROM element_orbitals eo JOIN orbitals o ON o.id = eo.orbital_id
		 WHERE eo.atomic_number IN (?) ORDER BY eo.atomic_number, o.id`, ids)
	if err != nil {
		return fmt.Errorf("loading orbitals: %w", err)
	}
	for _, r := range orbitals {
		i := index[r.ID]
		elements[i].Orbitals = append(elements[i].Orbitals, r.Value)
	}
	return nil
}

func (s *Store) selectSet(ctx context.Context, query string, ids []int) ([]setRow, error) {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, err
	}
	var rows []setRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) limit(n int) int {
	if n <= 0 {
		return s.maxResults
	}
	return n
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
