// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/internal/ionisation"
	"github.com/pdiddy/periodic-table/pkg/types"
)

const (
	elementsFile   = "elements.json"
	ionisationFile = "ionisation.json"
)

var yearRe = regexp.MustCompile(`\b\d{4}\b`)

// IngestSummary holds counts from a populate run.
type IngestSummary struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int

	// Energies is the number of ionisation energies written.
	Energies int
}

// Total returns the number of elements and files processed.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any element failed to load.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest loads elements.json and, when present, ionisation.json from the
// data directory. Files whose modification time matches the last load are
// skipped. Each element is written in its own transaction. After any change
// the store is exported to index/export.yaml.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	changed, err := s.ingestElements(ctx, w, &summary)
	if err != nil {
		return summary, err
	}

	energies, err := s.ingestEnergies(ctx, w, &summary)
	if err != nil {
		return summary, err
	}
	summary.Energies = energies

	fmt.Fprintf(w, "\ninserted: %d, updated: %d, skipped: %d, failed: %d, energies: %d\n",
		summary.Inserted, summary.Updated, summary.Skipped, summary.Failed, summary.Energies)

	if changed || energies > 0 {
		if _, err := s.ExportYAML(ctx, ElementFilter{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

func (s *Store) ingestElements(ctx context.Context, w io.Writer, summary *IngestSummary) (bool, error) {
	path := filepath.Join(s.dataDir, elementsFile)
	modTime, unchanged, err := s.checkLoadStatus(ctx, path, elementsFile)
	if err != nil {
		return false, err
	}
	if unchanged {
		fmt.Fprintf(w, "skipped %s\n", elementsFile)
		summary.Skipped++
		return false, nil
	}

	var records map[string]types.ElementRecord
	if err := fsutil.ReadJSON(path, &records); err != nil {
		return false, fmt.Errorf("reading %s: %w", elementsFile, err)
	}

	ordered := make([]types.ElementRecord, 0, len(records))
	for _, rec := range records {
		ordered = append(ordered, rec)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].AtomicNumber < ordered[j].AtomicNumber })

	failed := 0
	for _, rec := range ordered {
		if err := ctx.Err(); err != nil {
			return true, err
		}

		inserted, err := s.ingestElement(ctx, rec)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed  %d %s: %v\n", rec.AtomicNumber, rec.Symbol, err)
			summary.Failed++
			failed++
		case inserted:
			fmt.Fprintf(w, "inserted %d %s (%d isotopes)\n", rec.AtomicNumber, rec.Symbol, len(rec.Isotopes))
			summary.Inserted++
		default:
			fmt.Fprintf(w, "updated %d %s (%d isotopes)\n", rec.AtomicNumber, rec.Symbol, len(rec.Isotopes))
			summary.Updated++
		}
	}

	// A partial load is retried in full next time.
	if failed == 0 {
		if err := s.recordLoadStatus(ctx, elementsFile, modTime); err != nil {
			return true, err
		}
	}
	return summary.Inserted+summary.Updated > 0, nil
}

// ingestElement upserts one element with its isotopes and reports whether
// the row was new.
func (s *Store) ingestElement(ctx context.Context, rec types.ElementRecord) (bool, error) {
	e := elementFromRecord(rec)
	if err := validateElement(&e); err != nil {
		return false, err
	}

	var inserted bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM elements WHERE atomic_number = ?`, e.AtomicNumber,
		); err != nil {
			return fmt.Errorf("checking element: %w", err)
		}
		inserted = count == 0

		if err := writeElement(ctx, tx, &e, elementUpsert); err != nil {
			return err
		}

		names := make([]string, 0, len(rec.Isotopes))
		for name := range rec.Isotopes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			iso := isotopeFromRecord(name, e.AtomicNumber, rec.Isotopes[name])
			if _, err := tx.NamedExecContext(ctx, isotopeUpsert, iso); err != nil {
				return fmt.Errorf("writing isotope %s: %w", name, mapError(err))
			}
		}
		return nil
	})
	return inserted, err
}

func (s *Store) ingestEnergies(ctx context.Context, w io.Writer, summary *IngestSummary) (int, error) {
	path := filepath.Join(s.dataDir, ionisationFile)
	modTime, unchanged, err := s.checkLoadStatus(ctx, path, ionisationFile)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if unchanged {
		fmt.Fprintf(w, "skipped %s\n", ionisationFile)
		summary.Skipped++
		return 0, nil
	}

	energies, err := ionisation.Load(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", ionisationFile, err)
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range energies {
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO ionisation_energies (atomic_number, ionisation_number, energy)
				 VALUES (:atomic_number, :ionisation_number, :energy)
				 ON CONFLICT(atomic_number, ionisation_number) DO UPDATE SET energy=excluded.energy`, e,
			); err != nil {
				return fmt.Errorf("writing ionisation energy %d/%d: %w", e.AtomicNumber, e.IonisationNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := s.recordLoadStatus(ctx, ionisationFile, modTime); err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "loaded %s (%d energies)\n", ionisationFile, len(energies))
	return len(energies), nil
}

// checkLoadStatus stats path and compares its modification time with the
// one recorded for source.
func (s *Store) checkLoadStatus(ctx context.Context, path, source string) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", source, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var stored string
	err = s.db.GetContext(ctx, &stored, `SELECT file_mod_time FROM load_status WHERE source = ?`, source)
	if errors.Is(err, sql.ErrNoRows) {
		return modTime, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("checking load status: %w", err)
	}
	return modTime, stored == modTime, nil
}

func (s *Store) recordLoadStatus(ctx context.Context, source, modTime string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO load_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		source, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating load status: %w", err)
	}
	return nil
}

func elementFromRecord(rec types.ElementRecord) types.Element {
	e := types.Element{
		AtomicNumber:              rec.AtomicNumber,
		Name:                      rec.Name,
		Symbol:                    rec.Symbol,
		MeltingPointKelvin:        rec.MeltingPointKelvin,
		BoilingPointKelvin:        rec.BoilingPointKelvin,
		AtomicMassU:               rec.AtomicWeight,
		AtomicRadius:              rec.AtomicRadiusPM,
		Electronegativity:         rec.Electronegativity,
		ElectronAffinity:          rec.ElectronAffinityEV,
		FirstIonisationEnergy:     rec.FirstIonisationEnergyEV,
		Density:                   rec.Density,
		ElectronConfiguration:     rec.ElectronConfiguration,
		Classification:            rec.ElementClassification,
		OxidationStates:           rec.OxidationStates,
		DiscoveredBy:              rec.DiscoveredBy,
		EstimatedCrustalAbundance: rec.EstimatedCrustalAbundance,
		EstimatedOceanicAbundance: rec.EstimatedOceanicAbundance,
		Description:               rec.Description,
	}
	if rec.Group > 0 {
		g := rec.Group
		e.Group = &g
	}
	if rec.Period > 0 {
		p := rec.Period
		e.Period = &p
	}
	if rec.YearDiscovered > 0 {
		y := rec.YearDiscovered
		e.YearDiscovered = &y
	}
	if v, ok := rec.Extra["estimated_universal_abundance"].(string); ok {
		e.EstimatedUniversalAbundance = v
	}
	e.Block = BlockOf(e.Group, e.AtomicNumber)
	return e
}

func isotopeFromRecord(name string, element int, rec types.IsotopeRecord) types.Isotope {
	iso := types.Isotope{
		Isotope:    name,
		Element:    element,
		AtomicMass: rec.AtomicMass,
		Abundance:  rec.Abundance,
		HalfLife:   rec.HalfLife,
		DecayModes: rec.DecayModes,
	}
	if m := yearRe.FindString(rec.Discovered); m != "" {
		y, _ := strconv.Atoi(m)
		iso.YearDiscovered = &y
	}
	return iso
}
