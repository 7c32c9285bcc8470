// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/periodic-table/pkg/types"
)

// IsotopeFilter holds the filters for ListIsotopes.
type IsotopeFilter struct {
	Isotope  string
	HalfLife string

	YearDiscovered    *int
	YearDiscoveredGTE *int
	YearDiscoveredLTE *int

	// Element matches an atomic number or a symbol.
	Element string

	Limit  int
	Offset int
}

const isotopeSelect = `SELECT i.id, i.isotope, i.element, e.symbol, i.atomic_mass, i.abundance,
	i.halflife, i.decay_modes, i.year_discovered
FROM isotopes i
JOIN elements e ON e.atomic_number = i.element`

const isotopeInsert = `INSERT INTO isotopes (isotope, element, atomic_mass, abundance, halflife, decay_modes, year_discovered)
VALUES (:isotope, :element, :atomic_mass, :abundance, :halflife, :decay_modes, :year_discovered)`

const isotopeUpsert = isotopeInsert + `
ON CONFLICT(isotope) DO UPDATE SET
	element=excluded.element, atomic_mass=excluded.atomic_mass, abundance=excluded.abundance,
	halflife=excluded.halflife, decay_modes=excluded.decay_modes, year_discovered=excluded.year_discovered`

// ListIsotopes returns isotopes matching f ordered by element then name.
func (s *Store) ListIsotopes(ctx context.Context, f IsotopeFilter) ([]types.Isotope, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(isotopeSelect)
	qb.WriteString(` WHERE 1=1`)

	if f.Isotope != "" {
		qb.WriteString(` AND i.isotope = ?`)
		args = append(args, f.Isotope)
	}
	if f.HalfLife != "" {
		qb.WriteString(` AND i.halflife = ?`)
		args = append(args, f.HalfLife)
	}
	if f.YearDiscovered != nil {
		qb.WriteString(` AND i.year_discovered = ?`)
		args = append(args, *f.YearDiscovered)
	}
	if f.YearDiscoveredGTE != nil {
		qb.WriteString(` AND i.year_discovered >= ?`)
		args = append(args, *f.YearDiscoveredGTE)
	}
	if f.YearDiscoveredLTE != nil {
		qb.WriteString(` AND i.year_discovered <= ?`)
		args = append(args, *f.YearDiscoveredLTE)
	}
	if f.Element != "" {
		if n, err := strconv.Atoi(f.Element); err == nil {
			qb.WriteString(` AND i.element = ?`)
			args = append(args, n)
		} else {
			qb.WriteString(` AND e.symbol = ?`)
			args = append(args, f.Element)
		}
	}

	qb.WriteString(` ORDER BY i.element, i.isotope LIMIT ? OFFSET ?`)
	args = append(args, s.limit(f.Limit), f.Offset)

	isotopes := []types.Isotope{}
	if err := s.db.SelectContext(ctx, &isotopes, qb.String(), args...); err != nil {
		return nil, fmt.Errorf("querying isotopes: %w", err)
	}
	return isotopes, nil
}

// GetIsotope returns the isotope with the given id.
func (s *Store) GetIsotope(ctx context.Context, id int64) (types.Isotope, error) {
	var iso types.Isotope
	err := s.db.GetContext(ctx, &iso, isotopeSelect+` WHERE i.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return iso, fmt.Errorf("isotope %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return iso, fmt.Errorf("querying isotope %d: %w", id, err)
	}
	return iso, nil
}

// CreateIsotope inserts iso and returns the stored row with its id.
func (s *Store) CreateIsotope(ctx context.Context, iso types.Isotope) (types.Isotope, error) {
	if err := validateIsotope(iso); err != nil {
		return iso, err
	}
	res, err := s.db.NamedExecContext(ctx, isotopeInsert, iso)
	if err != nil {
		return iso, fmt.Errorf("creating isotope %s: %w", iso.Isotope, mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return iso, fmt.Errorf("reading isotope id: %w", err)
	}
	return s.GetIsotope(ctx, id)
}

// UpdateIsotope replaces the isotope with the given id.
func (s *Store) UpdateIsotope(ctx context.Context, id int64, iso types.Isotope) (types.Isotope, error) {
	if err := validateIsotope(iso); err != nil {
		return iso, err
	}
	iso.ID = id
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE isotopes SET isotope=:isotope, element=:element, atomic_mass=:atomic_mass,
			abundance=:abundance, halflife=:halflife, decay_modes=:decay_modes,
			year_discovered=:year_discovered
		 WHERE id=:id`, iso)
	if err != nil {
		return iso, fmt.Errorf("updating isotope %d: %w", id, mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return iso, fmt.Errorf("isotope %d: %w", id, ErrNotFound)
	}
	return s.GetIsotope(ctx, id)
}

// DeleteIsotope removes the isotope with the given id.
func (s *Store) DeleteIsotope(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM isotopes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting isotope %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("isotope %d: %w", id, ErrNotFound)
	}
	return nil
}

func validateIsotope(iso types.Isotope) error {
	var missing []string
	if strings.TrimSpace(iso.Isotope) == "" {
		missing = append(missing, "isotope")
	}
	if iso.Element <= 0 {
		missing = append(missing, "element")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}
