//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for periodic-table developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// dataDir is where the pipeline stages read and write.
const dataDir = "data"

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	filepath.Join(dataDir, "raw", "pubchem"),
	filepath.Join(dataDir, "cif"),
	filepath.Join(dataDir, "index"),
}

const (
	binDir  = "bin"
	binName = "periodic-table"
	cmdPkg  = "./cmd/periodic-table"
)

var binPath = filepath.Join(binDir, binName)

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints how many records each stage output holds.
func Stats() error {
	var elements map[string]types.ElementRecord
	var energies []types.IonisationEnergy
	var crystals map[string]types.Crystal

	outputs := map[string]struct {
		file  string
		value any
		count func() int
	}{
		"elements":   {"elements.json", &elements, func() int { return len(elements) }},
		"ionisation": {"ionisation.json", &energies, func() int { return len(energies) }},
		"crystals":   {"crystals.json", &crystals, func() int { return len(crystals) }},
	}
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o := outputs[name]
		path := filepath.Join(dataDir, o.file)
		if err := fsutil.ReadJSON(path, o.value); err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("%-12s not generated\n", name)
				continue
			}
			return err
		}
		fmt.Printf("%-12s %d records (%s)\n", name, o.count(), path)
	}
	return nil
}

// Pipeline runs the data stages against the default data directory.
type Pipeline mg.Namespace

// Scrape fetches every element from PubChem into data/elements.json.
func (Pipeline) Scrape() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "scrape", "--data-dir", dataDir)
}

// Ionisation scrapes ionisation energies into data/ionisation.json.
func (Pipeline) Ionisation() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "ionisation", "--data-dir", dataDir)
}

// Crystals serialises data/cif/*.cif into data/crystals.json.
func (Pipeline) Crystals() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "crystals", "--cif-dir", filepath.Join(dataDir, "cif"), "--data-dir", dataDir)
}

// Populate loads the scraped data into data/index/periodic.db.
func (Pipeline) Populate() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "populate", "--data-dir", dataDir)
}

// All runs every stage in order.
func (Pipeline) All() {
	mg.SerialDeps(Pipeline.Scrape, Pipeline.Ionisation, Pipeline.Populate)
}

// Serve starts the REST API on :8000.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve", "--data-dir", dataDir)
}
