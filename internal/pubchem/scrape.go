// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubchem

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/pkg/types"
)

const (
	// ElementsFile is the scrape output under the data directory.
	ElementsFile = "elements.json"

	rawDir = "raw/pubchem"

	// LastElement is the highest atomic number PubChem describes.
	LastElement = 118
)

// BatchResult holds the outcome of a scrape run.
type BatchResult struct {
	Parsed int
	Failed int

	// Elements is keyed by atomic number.
	Elements map[int]types.ElementRecord
}

// Total returns the number of elements attempted.
func (r BatchResult) Total() int {
	return r.Parsed + r.Failed
}

// HasFailures reports whether any element failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Scraper fetches and parses a range of elements.
type Scraper struct {
	client *Client
	parser *Parser
	delay  time.Duration
}

// NewScraper builds a Scraper from the scrape stage configuration. Raw
// responses are cached under <data_dir>/raw/pubchem when DataDir is set.
// Parse diagnostics go to diag.
func NewScraper(cfg types.ScrapeConfig, diag io.Writer) *Scraper {
	cacheDir := ""
	if cfg.DataDir != "" {
		cacheDir = filepath.Join(cfg.DataDir, rawDir)
	}
	return &Scraper{
		client: NewClient(nil, cfg.HTTPConfig, cacheDir),
		parser: NewParser(diag),
		delay:  cfg.RequestDelay,
	}
}

// ScrapeElement fetches and parses one element.
func (s *Scraper) ScrapeElement(ctx context.Context, atomicNumber int) (types.ElementRecord, error) {
	rec, err := s.client.Fetch(ctx, atomicNumber)
	if err != nil {
		return types.ElementRecord{}, err
	}
	return s.parser.Parse(rec)
}

// ScrapeRange scrapes atomic numbers from..to inclusive, writing one
// progress line per element to w. A failed element is reported and the
// run continues; only context cancellation stops it early.
func (s *Scraper) ScrapeRange(ctx context.Context, from, to int, w io.Writer) (BatchResult, error) {
	result := BatchResult{Elements: make(map[int]types.ElementRecord)}
	if from < 1 || to < from {
		return result, fmt.Errorf("invalid range %d..%d", from, to)
	}

	for n := from; n <= to; n++ {
		if n > from && s.delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := s.ScrapeElement(ctx, n)
		if err != nil {
			fmt.Fprintf(w, "Could not parse element %d due to %v\n", n, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "Parsed element %d\n", n)
		result.Elements[n] = rec
		result.Parsed++
	}
	return result, nil
}

// WriteElements writes the scraped records to <dataDir>/elements.json.
func WriteElements(dataDir string, elements map[int]types.ElementRecord) (string, error) {
	path := filepath.Join(dataDir, ElementsFile)
	if err := fsutil.WriteJSON(path, elements); err != nil {
		return "", err
	}
	return path, nil
}
