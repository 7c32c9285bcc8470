// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubchem

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/periodic-table/internal/units"
)

// handler extracts the fields of one leaf section.
type handler func(p *Parser, s Section) Fragment

// handlers maps a PUG View TOC heading to its extraction.
var handlers = map[string]handler{
	"Element Symbol":         text("symbol"),
	"Element Name":           text("name"),
	"Ground Level":           text("ground_level"),
	"Electron Configuration": text("electron_configuration"),
	"Element Classification": text("element_classification"),
	"Description":            text("description"),
	"Element Period Number":  integer("period"),
	"Element Group Number":   integer("group"),

	"Estimated Crustal Abundance": text("estimated_crustal_abundance"),
	"Estimated Oceanic Abundance": text("estimated_oceanic_abundance"),

	"Melting Point":     measured("melting_point"),
	"Boiling Point":     measured("boiling_point"),
	"Ionization Energy": measured("first_ionisation_energy"),
	"Electron Affinity": measured("electron_affinity"),
	"Density":           density,

	"Atomic Weight":     atomicWeight,
	"Atomic Radius":     atomicRadius,
	"Electronegativity": electronegativity,
	"Oxidation States":  oxidationStates,

	"Uses":          paragraphs("uses"),
	"Sources":       paragraphs("sources"),
	"Element Forms": elementForms,

	"Isotope Mass and Abundance":        isotopeAbundance,
	"Atomic Mass, Half Life, and Decay": isotopeDecay,
}

// skipped headings carry nothing the element record keeps.
var skipped = map[string]bool{
	"InChI":                true,
	"InChI Key":            true,
	"Atomic Spectra":       true,
	"Physical Description": true,
	"History":              true,
}

func text(field string) handler {
	return func(_ *Parser, s Section) Fragment {
		v, ok := firstText(s)
		if !ok {
			return nil
		}
		return Fragment{field: v}
	}
}

func integer(field string) handler {
	return func(p *Parser, s Section) Fragment {
		v, ok := firstText(s)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			p.report("read integer from", v, err)
			return nil
		}
		return Fragment{field: n}
	}
}

// measured keys every parseable entry by field plus unit. The first entry
// for a given unit wins.
func measured(field string) handler {
	return func(p *Parser, s Section) Fragment {
		f := Fragment{}
		for _, info := range s.Information {
			raw, ok := info.Value.Text()
			if !ok {
				continue
			}
			parsed := p.ext.Extract(raw)
			if !parsed.OK() {
				continue
			}
			key := parsed.Key(field)
			if _, seen := f[key]; !seen {
				f[key] = *parsed.Value
			}
		}
		return f
	}
}

// density keeps the source text next to the unit-keyed values because the
// unit depends on phase.
func density(p *Parser, s Section) Fragment {
	f := measured("density")(p, s)
	if v, ok := firstText(s); ok {
		f["density"] = v
	}
	return f
}

func atomicWeight(p *Parser, s Section) Fragment {
	raw, ok := firstText(s)
	if !ok {
		return nil
	}
	v, err := units.Number(raw)
	if err != nil {
		p.report("convert number from", raw, err)
		return nil
	}
	return Fragment{"atomic_weight": v}
}

func atomicRadius(p *Parser, s Section) Fragment {
	f := Fragment{}
	for _, info := range s.Information {
		raw, ok := info.Value.Text()
		if !ok {
			continue
		}
		parsed := p.ext.Extract(raw)
		if !parsed.OK() {
			continue
		}
		name := "atomic_radius"
		if n := snake(info.Name); n != "" {
			name += "_" + n
		}
		f[parsed.Key(name)] = *parsed.Value
		if _, seen := f["atomic_radius_pm"]; !seen && parsed.Unit == "pm" {
			f["atomic_radius_pm"] = *parsed.Value
		}
	}
	return f
}

func electronegativity(p *Parser, s Section) Fragment {
	f := Fragment{}
	for _, info := range s.Information {
		raw, ok := info.Value.Text()
		if !ok {
			continue
		}
		v, err := units.Number(raw)
		if err != nil {
			p.report("convert number from", raw, err)
			continue
		}
		if n := snake(info.Name); n != "" {
			f["electronegativity_"+n] = v
		}
		if _, seen := f["electronegativity"]; !seen {
			f["electronegativity"] = v
		}
	}
	return f
}

func oxidationStates(_ *Parser, s Section) Fragment {
	v, ok := firstText(s)
	if !ok {
		return nil
	}
	var states []string
	for _, st := range strings.Split(v, ",") {
		if st = strings.TrimSpace(st); st != "" {
			states = append(states, st)
		}
	}
	sort.Strings(states)
	return Fragment{"oxidation_states": states}
}

func paragraphs(field string) handler {
	return func(_ *Parser, s Section) Fragment {
		var out []string
		for _, info := range s.Information {
			out = append(out, strings.Join(info.Value.Texts(), "\n"))
		}
		if len(out) == 0 {
			return nil
		}
		return Fragment{field: out}
	}
}

func elementForms(_ *Parser, s Section) Fragment {
	forms := map[string]any{}
	for _, info := range s.Information {
		if v, ok := info.Value.Text(); ok {
			forms[snake(info.Name)] = v
		}
	}
	return Fragment{"elemental_forms": forms}
}

// columns reads the Information entries of a tabular section as columns
// keyed by the snake-cased entry name.
func columns(s Section) map[string][]string {
	cols := make(map[string][]string, len(s.Information))
	for _, info := range s.Information {
		cols[snake(info.Name)] = info.Value.Texts()
	}
	return cols
}

func cell(col []string, i int) string {
	if i < len(col) {
		return strings.TrimSpace(col[i])
	}
	return ""
}

// number coerces a table cell; empty cells are absent without a report.
func (p *Parser) number(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	v, err := units.Number(raw)
	if err != nil {
		p.report("cast", raw, err)
		return 0, false
	}
	return v, true
}

func isotopeAbundance(p *Parser, s Section) Fragment {
	cols := columns(s)
	isotopes := map[string]any{}
	for i, name := range cols["isotope"] {
		iso := map[string]any{}
		if v, ok := p.number(cell(cols["abundance"], i)); ok {
			iso["abundance"] = v
		}
		if v, ok := p.number(cell(cols["atomic_mass"], i)); ok {
			iso["atomic_mass"] = v
		}
		isotopes[strings.TrimSpace(name)] = iso
	}
	return Fragment{"isotopes": isotopes}
}

// decayColumns maps the decay table's entry names to isotope fields.
var decayColumns = map[string]string{
	"Half Life and Uncertainty":                      "halflife",
	"Decay Modes, Intensities and Uncertainties [%]": "decay_modes",
	"Discovery Year":                                 "discovered",
}

func isotopeDecay(p *Parser, s Section) Fragment {
	var nuclides, masses []string
	cols := map[string][]string{}
	for _, info := range s.Information {
		switch info.Name {
		case "Nuclide":
			nuclides = info.Value.Texts()
		case "Atomic Mass and Uncertainty [u]":
			masses = info.Value.Texts()
		default:
			if field, ok := decayColumns[info.Name]; ok {
				cols[field] = info.Value.Texts()
			}
		}
	}

	isotopes := map[string]any{}
	for i, name := range nuclides {
		iso := map[string]any{}
		if v, ok := p.number(cell(masses, i)); ok {
			iso["atomic_mass"] = v
		}
		for field, col := range cols {
			if c := cell(col, i); c != "" {
				iso[field] = c
			}
		}
		isotopes[strings.TrimSpace(name)] = iso
	}
	return Fragment{"isotopes": isotopes}
}
