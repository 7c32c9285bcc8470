// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubchem

import (
	"strconv"
	"strings"
)

// Document is the top level of a PUG View element response.
type Document struct {
	Record Record `json:"Record"`
}

// Record is one compound or element page.
type Record struct {
	RecordType   string    `json:"RecordType"`
	RecordNumber int       `json:"RecordNumber"`
	RecordTitle  string    `json:"RecordTitle"`
	Section      []Section `json:"Section"`
}

// Section is a node of the PUG View table of contents. Leaf sections carry
// Information entries; inner sections carry child Sections.
type Section struct {
	TOCHeading  string        `json:"TOCHeading"`
	Description string        `json:"Description,omitempty"`
	Section     []Section     `json:"Section,omitempty"`
	Information []Information `json:"Information,omitempty"`
}

// Information is one sourced value within a section.
type Information struct {
	ReferenceNumber int    `json:"ReferenceNumber"`
	Name            string `json:"Name,omitempty"`
	Value           Value  `json:"Value"`
}

// Value holds either marked-up strings or numbers with a unit.
type Value struct {
	StringWithMarkup []Markup  `json:"StringWithMarkup,omitempty"`
	Number           []float64 `json:"Number,omitempty"`
	Unit             string    `json:"Unit,omitempty"`
}

// Markup is a string with (ignored) formatting annotations.
type Markup struct {
	String string `json:"String"`
}

// Text returns the first string of the value. Numeric values are rendered
// as the mean of the numbers followed by the unit.
func (v Value) Text() (string, bool) {
	if len(v.StringWithMarkup) > 0 {
		return strings.TrimSpace(v.StringWithMarkup[0].String), true
	}
	if len(v.Number) == 0 {
		return "", false
	}
	var sum float64
	for _, n := range v.Number {
		sum += n
	}
	return formatNumber(sum/float64(len(v.Number)), v.Unit), true
}

// Texts returns every string of the value, or every number with its unit.
func (v Value) Texts() []string {
	var out []string
	for _, m := range v.StringWithMarkup {
		out = append(out, strings.TrimSpace(m.String))
	}
	if len(out) > 0 {
		return out
	}
	for _, n := range v.Number {
		out = append(out, formatNumber(n, v.Unit))
	}
	return out
}

func formatNumber(n float64, unit string) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// firstText returns the first non-empty text among the section's entries.
func firstText(s Section) (string, bool) {
	for _, info := range s.Information {
		if t, ok := info.Value.Text(); ok && t != "" {
			return t, true
		}
	}
	return "", false
}
