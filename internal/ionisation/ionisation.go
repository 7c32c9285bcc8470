// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ionisation scrapes successive ionisation energies of the elements
// from the Wikipedia data page.
package ionisation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/periodic-table/internal/fsutil"
	"github.com/pdiddy/periodic-table/internal/httputil"
	"github.com/pdiddy/periodic-table/internal/units"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// EnergiesFile is the stage output under the data directory.
const EnergiesFile = "ionisation.json"

var (
	ordinalRe  = regexp.MustCompile(`^(\d+)(?:st|nd|rd|th)$`)
	footnoteRe = regexp.MustCompile(`\[[^\]]*\]`)

	// cellReplacer drops thousands separators and estimate brackets.
	cellReplacer = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "\u2009", "", "(", "", ")", "")
)

// Fetch downloads the data page at url (IonisationDataSource when empty)
// and parses it.
func Fetch(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig) ([]types.IonisationEnergy, error) {
	if url == "" {
		url = types.IonisationDataSource
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	body, err := httputil.Get(ctx, client, url, "text/html", cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching ionisation energies: %w", err)
	}
	return Parse(bytes.NewReader(body))
}

// Parse reads every wikitable in the page. A header row whose cells are
// ordinals (1st, 2nd, ...) sets the column mapping for the rows below it;
// rows whose first cell is an atomic number yield one energy per numeric
// cell. When the page lists the same pair twice the first value is kept.
// Results are sorted by atomic number, then ionisation number.
func Parse(r io.Reader) ([]types.IonisationEnergy, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	type pair struct{ z, n int }
	seen := make(map[pair]bool)
	var out []types.IonisationEnergy

	doc.Find("table.wikitable").Each(func(_ int, table *goquery.Selection) {
		var cols map[int]int
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Children()
			if header := ordinalColumns(cells); len(header) > 0 {
				cols = header
				return
			}
			if cols == nil {
				return
			}

			z, err := strconv.Atoi(cellText(cells.First()))
			if err != nil || z < 1 {
				return
			}
			cells.Each(func(i int, cell *goquery.Selection) {
				n, ok := cols[i]
				if !ok {
					return
				}
				text := cellReplacer.Replace(cellText(cell))
				if text == "" {
					return
				}
				energy, err := units.Number(text)
				if err != nil {
					return
				}
				key := pair{z, n}
				if seen[key] {
					return
				}
				seen[key] = true
				out = append(out, types.IonisationEnergy{AtomicNumber: z, IonisationNumber: n, Energy: energy})
			})
		})
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].AtomicNumber != out[j].AtomicNumber {
			return out[i].AtomicNumber < out[j].AtomicNumber
		}
		return out[i].IonisationNumber < out[j].IonisationNumber
	})
	return out, nil
}

// ordinalColumns maps cell positions to ionisation numbers for a header
// row. Rows without ordinal cells yield nil.
func ordinalColumns(cells *goquery.Selection) map[int]int {
	var cols map[int]int
	cells.Each(func(i int, cell *goquery.Selection) {
		m := ordinalRe.FindStringSubmatch(cellText(cell))
		if m == nil {
			return
		}
		n, _ := strconv.Atoi(m[1])
		if cols == nil {
			cols = make(map[int]int)
		}
		cols[i] = n
	})
	return cols
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(footnoteRe.ReplaceAllString(s.Text(), ""))
}

// Write stores energies as <dataDir>/ionisation.json.
func Write(dataDir string, energies []types.IonisationEnergy) (string, error) {
	path := filepath.Join(dataDir, EnergiesFile)
	if err := fsutil.WriteJSON(path, energies); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads energies written by Write.
func Load(path string) ([]types.IonisationEnergy, error) {
	var energies []types.IonisationEnergy
	if err := fsutil.ReadJSON(path, &energies); err != nil {
		return nil, err
	}
	return energies, nil
}
