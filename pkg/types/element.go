// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the periodic-table
// pipeline: records produced by the scrapers, rows served by the API, and
// stage configuration.
package types

// ElementRecord is the normalized shape of one element as produced by the
// scrape stage and written to elements.json. Numeric fields carry the unit
// in their key (melting_point_kelvin) and are nil when the source value
// could not be parsed.
type ElementRecord struct {
	AtomicNumber          int    `json:"atomic_number" yaml:"atomic_number" mapstructure:"atomic_number"`
	Symbol                string `json:"symbol" yaml:"symbol" mapstructure:"symbol"`
	Name                  string `json:"name" yaml:"name" mapstructure:"name"`
	GroundLevel           string `json:"ground_level,omitempty" yaml:"ground_level,omitempty" mapstructure:"ground_level"`
	ElectronConfiguration string `json:"electron_configuration,omitempty" yaml:"electron_configuration,omitempty" mapstructure:"electron_configuration"`
	ElementClassification string `json:"element_classification,omitempty" yaml:"element_classification,omitempty" mapstructure:"element_classification"`
	Period                int    `json:"period,omitempty" yaml:"period,omitempty" mapstructure:"period"`
	Group                 int    `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`

	AtomicWeight            *float64 `json:"atomic_weight,omitempty" yaml:"atomic_weight,omitempty" mapstructure:"atomic_weight"`
	MeltingPointKelvin      *float64 `json:"melting_point_kelvin,omitempty" yaml:"melting_point_kelvin,omitempty" mapstructure:"melting_point_kelvin"`
	BoilingPointKelvin      *float64 `json:"boiling_point_kelvin,omitempty" yaml:"boiling_point_kelvin,omitempty" mapstructure:"boiling_point_kelvin"`
	FirstIonisationEnergyEV *float64 `json:"first_ionisation_energy_ev,omitempty" yaml:"first_ionisation_energy_ev,omitempty" mapstructure:"first_ionisation_energy_ev"`
	ElectronAffinityEV      *float64 `json:"electron_affinity_ev,omitempty" yaml:"electron_affinity_ev,omitempty" mapstructure:"electron_affinity_ev"`
	Electronegativity       *float64 `json:"electronegativity,omitempty" yaml:"electronegativity,omitempty" mapstructure:"electronegativity"`
	AtomicRadiusPM          *float64 `json:"atomic_radius_pm,omitempty" yaml:"atomic_radius_pm,omitempty" mapstructure:"atomic_radius_pm"`

	// Density keeps the source text because its unit varies with phase
	// (g/cm³ for solids, g/L for gases).
	Density string `json:"density,omitempty" yaml:"density,omitempty" mapstructure:"density"`

	OxidationStates           []string `json:"oxidation_states,omitempty" yaml:"oxidation_states,omitempty" mapstructure:"oxidation_states"`
	EstimatedCrustalAbundance string   `json:"estimated_crustal_abundance,omitempty" yaml:"estimated_crustal_abundance,omitempty" mapstructure:"estimated_crustal_abundance"`
	EstimatedOceanicAbundance string   `json:"estimated_oceanic_abundance,omitempty" yaml:"estimated_oceanic_abundance,omitempty" mapstructure:"estimated_oceanic_abundance"`
	Description               string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	YearDiscovered            int      `json:"year_discovered,omitempty" yaml:"year_discovered,omitempty" mapstructure:"year_discovered"`
	DiscoveredBy              string   `json:"discovered_by,omitempty" yaml:"discovered_by,omitempty" mapstructure:"discovered_by"`
	Uses                      []string `json:"uses,omitempty" yaml:"uses,omitempty" mapstructure:"uses"`
	Sources                   []string `json:"sources,omitempty" yaml:"sources,omitempty" mapstructure:"sources"`

	ElementalForms map[string]string        `json:"elemental_forms,omitempty" yaml:"elemental_forms,omitempty" mapstructure:"elemental_forms"`
	Isotopes       map[string]IsotopeRecord `json:"isotopes,omitempty" yaml:"isotopes,omitempty" mapstructure:"isotopes"`

	// Extra holds every other field the parser produced, keyed by field
	// name plus unit suffix.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" mapstructure:",remain"`
}

// IsotopeRecord is the scraped data for one nuclide, merged from the
// abundance and decay sections.
type IsotopeRecord struct {
	Abundance  *float64 `json:"abundance,omitempty" yaml:"abundance,omitempty" mapstructure:"abundance"`
	AtomicMass *float64 `json:"atomic_mass,omitempty" yaml:"atomic_mass,omitempty" mapstructure:"atomic_mass"`
	HalfLife   string   `json:"halflife,omitempty" yaml:"halflife,omitempty" mapstructure:"halflife"`
	DecayModes string   `json:"decay_modes,omitempty" yaml:"decay_modes,omitempty" mapstructure:"decay_modes"`
	Discovered string   `json:"discovered,omitempty" yaml:"discovered,omitempty" mapstructure:"discovered"`
}

// Element is a row of the elements table as served by the API.
type Element struct {
	AtomicNumber int    `json:"atomic_number" yaml:"atomic_number" db:"atomic_number"`
	Name         string `json:"name" yaml:"name" db:"name"`
	Symbol       string `json:"symbol" yaml:"symbol" db:"symbol"`
	Group        *int   `json:"group" yaml:"group" db:"group_number"`
	Period       *int   `json:"period" yaml:"period" db:"period"`
	Block        string `json:"block" yaml:"block" db:"block"`

	MeltingPointKelvin    *float64 `json:"melting_point_kelvin" yaml:"melting_point_kelvin" db:"melting_point_kelvin"`
	BoilingPointKelvin    *float64 `json:"boiling_point_kelvin" yaml:"boiling_point_kelvin" db:"boiling_point_kelvin"`
	AtomicMassU           *float64 `json:"atomic_mass_u" yaml:"atomic_mass_u" db:"atomic_mass_u"`
	AtomicRadius          *float64 `json:"atomic_radius" yaml:"atomic_radius" db:"atomic_radius"`
	Electronegativity     *float64 `json:"electronegativity" yaml:"electronegativity" db:"electronegativity"`
	ElectronAffinity      *float64 `json:"electron_affinity" yaml:"electron_affinity" db:"electron_affinity"`
	FirstIonisationEnergy *float64 `json:"first_ionisation_energy" yaml:"first_ionisation_energy" db:"first_ionisation_energy"`
	Density               string   `json:"density" yaml:"density" db:"density"`
	ElectronConfiguration string   `json:"electron_configuration" yaml:"electron_configuration" db:"electron_configuration"`
	Classification        string   `json:"classification" yaml:"classification" db:"classification"`
	OxidationStates       []string `json:"oxidation_states" yaml:"oxidation_states" db:"-"`
	Orbitals              []string `json:"orbitals" yaml:"orbitals" db:"-"`

	YearDiscovered              *int   `json:"year_discovered" yaml:"year_discovered" db:"year_discovered"`
	DiscoveredBy                string `json:"discovered_by" yaml:"discovered_by" db:"discovered_by"`
	EstimatedCrustalAbundance   string `json:"estimated_crustal_abundance" yaml:"estimated_crustal_abundance" db:"estimated_crustal_abundance"`
	EstimatedOceanicAbundance   string `json:"estimated_oceanic_abundance" yaml:"estimated_oceanic_abundance" db:"estimated_oceanic_abundance"`
	EstimatedUniversalAbundance string `json:"estimated_universal_abundance" yaml:"estimated_universal_abundance" db:"estimated_universal_abundance"`
	Description                 string `json:"description" yaml:"description" db:"description"`
}

// Isotope is a row of the isotopes table as served by the API.
type Isotope struct {
	ID             int64    `json:"id" yaml:"id" db:"id"`
	Isotope        string   `json:"isotope" yaml:"isotope" db:"isotope"`
	Element        int      `json:"element" yaml:"element" db:"element"`
	Symbol         string   `json:"symbol" yaml:"symbol" db:"symbol"`
	AtomicMass     *float64 `json:"atomic_mass" yaml:"atomic_mass" db:"atomic_mass"`
	Abundance      *float64 `json:"abundance" yaml:"abundance" db:"abundance"`
	HalfLife       string   `json:"halflife" yaml:"halflife" db:"halflife"`
	DecayModes     string   `json:"decay_modes" yaml:"decay_modes" db:"decay_modes"`
	YearDiscovered *int     `json:"year_discovered" yaml:"year_discovered" db:"year_discovered"`
}

// EnergyUnit is the unit of every IonisationEnergy.Energy.
const EnergyUnit = "kJ⋅mol⁻¹"

// IonisationDataSource is the page the ionisation stage scrapes.
const IonisationDataSource = "https://en.wikipedia.org/wiki/Ionization_energies_of_the_elements_(data_page)"

// IonisationEnergy is the energy needed to remove the n-th electron from an
// element, in EnergyUnit.
type IonisationEnergy struct {
	AtomicNumber     int     `json:"atomic_number" yaml:"atomic_number" db:"atomic_number"`
	IonisationNumber int     `json:"ionisation_number" yaml:"ionisation_number" db:"ionisation_number"`
	Energy           float64 `json:"energy" yaml:"energy" db:"energy"`
}
