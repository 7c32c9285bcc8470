// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubchem

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/pdiddy/periodic-table/internal/units"
	"github.com/pdiddy/periodic-table/pkg/types"
)

var errUnknownHeading = errors.New("unknown heading")

// Fragment is the partial element record produced by one section handler.
// Nested maps (isotopes, elemental forms) merge key by key.
type Fragment map[string]any

// Parser turns PUG View records into element records. Values that cannot
// be read are reported to the diagnostic sink and left out.
type Parser struct {
	ext *units.Extractor

	mu   sync.Mutex
	diag io.Writer
}

// NewParser returns a Parser reporting to diag. A nil diag discards
// diagnostics.
func NewParser(diag io.Writer) *Parser {
	if diag == nil {
		diag = io.Discard
	}
	return &Parser{ext: units.New(diag), diag: diag}
}

// Parse walks every section of rec and decodes the merged fragments into
// an ElementRecord. The atomic number comes from the record number.
func (p *Parser) Parse(rec Record) (types.ElementRecord, error) {
	merged := Fragment{}
	p.walk(rec.Section, merged)
	fixFormatting(merged)
	merged["atomic_number"] = rec.RecordNumber

	var out types.ElementRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return out, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(merged)); err != nil {
		return out, fmt.Errorf("decoding element %d: %w", rec.RecordNumber, err)
	}
	return out, nil
}

// walk descends into inner sections and dispatches leaves by heading.
func (p *Parser) walk(sections []Section, into Fragment) {
	for _, s := range sections {
		if len(s.Section) > 0 {
			p.walk(s.Section, into)
			continue
		}
		if skipped[s.TOCHeading] {
			continue
		}
		h, ok := handlers[s.TOCHeading]
		if !ok {
			p.report("map section", s.TOCHeading, errUnknownHeading)
			continue
		}
		merge(into, h(p, s))
	}
}

func (p *Parser) report(action, input string, cause error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.diag, "Cannot %s %q due to %v\n", action, input, cause)
}

// merge copies src into dst, descending into nested maps so that two
// sections describing the same isotope combine.
func merge(dst, src Fragment) {
	mergeMaps(dst, src)
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

var (
	timesFixer = strings.NewReplacer("Ã\u0097", "×")
	strayFixer = strings.NewReplacer("Â", " ", "\u00a0", " ")

	// exponentRe matches a power of ten whose caret was lost: "×103",
	// "×10-3" or "×10⁻³". A bare "×100" is a factor, not 10^0.
	exponentRe  = regexp.MustCompile(`×10([-+−]?[1-9]\d*|[-+−]0|[⁻⁺]?[⁰¹²³⁴⁵⁶⁷⁸⁹]+)`)
	superscript = strings.NewReplacer(
		"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
		"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
		"⁻", "-", "⁺", "+", "−", "-",
	)
)

func fixExponent(s string) string {
	s = timesFixer.Replace(s)
	return exponentRe.ReplaceAllStringFunc(s, func(m string) string {
		return "×10^" + superscript.Replace(strings.TrimPrefix(m, "×10"))
	})
}

// fixFormatting repairs scientific notation in abundances and replaces
// stray encoding artifacts in every top-level string.
func fixFormatting(f Fragment) {
	for _, key := range []string{"estimated_crustal_abundance", "estimated_oceanic_abundance"} {
		if s, ok := f[key].(string); ok {
			f[key] = fixExponent(s)
		}
	}
	for k, v := range f {
		if s, ok := v.(string); ok {
			f[k] = strings.TrimSpace(strayFixer.Replace(s))
		}
	}
}

var parenRe = regexp.MustCompile(`\s*\(.*$`)

// snake lower-cases an information name, drops any parenthetical tail and
// joins words with underscores: "Van der Waals" -> "van_der_waals".
func snake(name string) string {
	s := parenRe.ReplaceAllString(name, "")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(",", "", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), "_")
}
