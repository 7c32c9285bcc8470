// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubchem scrapes element records from the PubChem PUG View API and
// normalizes them into the shape written to elements.json.
package pubchem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/internal/httputil"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// baseURL is the PUG View element endpoint. Tests point it at httptest.
var baseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug_view/data/element"

// ElementURL returns the PUG View JSON URL for an atomic number.
func ElementURL(atomicNumber int) string {
	return fmt.Sprintf("%s/%d/JSON/?response_type=display", baseURL, atomicNumber)
}

// Client fetches element records. Decoded records are cached in memory for
// the life of the client and, when CacheDir is set, raw responses are kept
// on disk as <CacheDir>/<n>.json and reused on later runs.
type Client struct {
	http     *http.Client
	cfg      types.HTTPConfig
	cacheDir string

	mu    sync.Mutex
	cache map[int]Record
}

// NewClient returns a Client. A nil httpClient uses one with cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.HTTPConfig, cacheDir string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		http:     httpClient,
		cfg:      cfg,
		cacheDir: cacheDir,
		cache:    make(map[int]Record),
	}
}

// mojibake is the UTF-8 encoding of a stray "Â" that PubChem emits before
// non-breaking spaces and degree signs.
var mojibake = []byte("Â")

// Fetch returns the record for atomicNumber from the memory cache, the disk
// cache, or the network, in that order.
func (c *Client) Fetch(ctx context.Context, atomicNumber int) (Record, error) {
	c.mu.Lock()
	rec, ok := c.cache[atomicNumber]
	c.mu.Unlock()
	if ok {
		return rec, nil
	}

	body, fromDisk, err := c.load(ctx, atomicNumber)
	if err != nil {
		return Record{}, err
	}

	var doc Document
	if err := json.Unmarshal(bytes.ReplaceAll(body, mojibake, nil), &doc); err != nil {
		return Record{}, fmt.Errorf("decoding element %d: %w", atomicNumber, err)
	}

	if !fromDisk && c.cacheDir != "" {
		if err := fsutil.WriteFile(c.cachePath(atomicNumber), body); err != nil {
			return Record{}, fmt.Errorf("caching element %d: %w", atomicNumber, err)
		}
	}

	c.mu.Lock()
	c.cache[atomicNumber] = doc.Record
	c.mu.Unlock()
	return doc.Record, nil
}

func (c *Client) load(ctx context.Context, atomicNumber int) ([]byte, bool, error) {
	if c.cacheDir != "" {
		body, err := os.ReadFile(c.cachePath(atomicNumber))
		if err == nil {
			return body, true, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("reading cache: %w", err)
		}
	}

	body, err := httputil.Get(ctx, c.http, ElementURL(atomicNumber), "application/json", c.cfg)
	if err != nil {
		return nil, false, fmt.Errorf("fetching element %d: %w", atomicNumber, err)
	}
	return body, false, nil
}

func (c *Client) cachePath(atomicNumber int) string {
	return filepath.Join(c.cacheDir, strconv.Itoa(atomicNumber)+".json")
}
