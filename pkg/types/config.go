// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "periodic-table/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429 and 503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ScrapeConfig holds settings for the PubChem scrape stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// From and To bound the atomic numbers to scrape (inclusive).
	From int `json:"from" yaml:"from" mapstructure:"from"`
	To   int `json:"to" yaml:"to" mapstructure:"to"`

	// RequestDelay is the pause between consecutive element requests.
	// PubChem asks for no more than five requests per second.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// DataDir is the base directory for scraped data (contains raw/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// IonisationConfig holds settings for the ionisation energy stage.
type IonisationConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the data page to scrape (default IonisationDataSource).
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// DataDir is where ionisation.json is written.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// CrystalsConfig holds settings for the crystal serialisation stage.
type CrystalsConfig struct {
	// CIFDir is the directory of .cif files to serialise.
	CIFDir string `json:"cif_dir" yaml:"cif_dir" mapstructure:"cif_dir"`

	// DataDir is where crystals.json is written.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// StoreConfig holds settings for the relational store.
type StoreConfig struct {
	// DataDir is the base directory holding the JSON inputs and index/.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MaxResults is the default page size for list queries (default 200).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the REST API.
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	Debug        bool          `json:"debug" yaml:"debug" mapstructure:"debug"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development disables sampling so every entry is written.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`

	// OutputPaths are zap sink URLs or file paths (default stderr).
	OutputPaths []string `json:"output_paths" yaml:"output_paths" mapstructure:"output_paths"`
}

// Config groups all stage configurations.
type Config struct {
	Scrape     ScrapeConfig     `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Ionisation IonisationConfig `json:"ionisation" yaml:"ionisation" mapstructure:"ionisation"`
	Crystals   CrystalsConfig   `json:"crystals" yaml:"crystals" mapstructure:"crystals"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
