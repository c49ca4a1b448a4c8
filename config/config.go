package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/lookup"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/params"
	"gopkg.in/yaml.v3"
)

// Config represents the complete engine configuration
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup"`
}

// EngineConfig controls measure evaluation
type EngineConfig struct {
	Workers int `json:"workers" yaml:"workers"` // 0 means GOMAXPROCS
	// FailOnMissingData stops a run before calculating when required
	// market data is absent.
	FailOnMissingData bool `json:"fail_on_missing_data" yaml:"fail_on_missing_data"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ResultsFile string `json:"results_file,omitempty" yaml:"results_file,omitempty"`
}

// LookupConfig maps entities to curve names. Entity keys are standard ids
// ("Scheme~Value" or a bare value), curve maps are keyed by currency.
type LookupConfig struct {
	CurveGroup         string                       `json:"curve_group" yaml:"curve_group"`
	DiscountCurves     map[string]string            `json:"discount_curves,omitempty" yaml:"discount_curves,omitempty"`
	RepoSecurityGroups map[string]string            `json:"repo_security_groups,omitempty" yaml:"repo_security_groups,omitempty"`
	RepoIssuerGroups   map[string]string            `json:"repo_issuer_groups,omitempty" yaml:"repo_issuer_groups,omitempty"`
	RepoCurves         map[string]map[string]string `json:"repo_curves,omitempty" yaml:"repo_curves,omitempty"`
	IssuerGroups       map[string]string            `json:"issuer_groups,omitempty" yaml:"issuer_groups,omitempty"`
	IssuerCurves       map[string]map[string]string `json:"issuer_curves,omitempty" yaml:"issuer_curves,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}
	switch c.Journal.Type {
	case "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.ResultsFile == "" {
			return fmt.Errorf("journal results_file required for csv type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	if c.Lookup.CurveGroup == "" {
		return fmt.Errorf("lookup.curve_group is required")
	}
	if _, err := c.Lookup.RatesLookup(); err != nil {
		return err
	}
	if _, err := c.Lookup.LegalEntityLookup(); err != nil {
		return err
	}
	return nil
}

// Parameters returns the calculation parameters described by the lookup
// section.
func (c *Config) Parameters() (params.Parameters, error) {
	rates, err := c.Lookup.RatesLookup()
	if err != nil {
		return params.Parameters{}, err
	}
	legal, err := c.Lookup.LegalEntityLookup()
	if err != nil {
		return params.Parameters{}, err
	}
	return params.New(rates, legal)
}

func (l LookupConfig) curveID(name string) marketdata.CurveID {
	return marketdata.CurveIDOf(l.CurveGroup, name)
}

func (l LookupConfig) RatesLookup() (*lookup.DefaultRatesLookup, error) {
	curves := make(map[currency.Currency]marketdata.CurveID, len(l.DiscountCurves))
	for ccy, name := range l.DiscountCurves {
		c, err := currency.Parse(ccy)
		if err != nil {
			return nil, fmt.Errorf("lookup.discount_curves: %w", err)
		}
		curves[c] = l.curveID(name)
	}
	return lookup.NewRatesLookup(curves), nil
}

func (l LookupConfig) LegalEntityLookup() (*lookup.DefaultLegalEntityLookup, error) {
	var m lookup.LegalEntityMappings
	var err error

	if m.RepoSecurityGroups, err = groups[lookup.RepoGroup]("repo_security_groups", l.RepoSecurityGroups); err != nil {
		return nil, err
	}
	if m.RepoIssuerGroups, err = groups[lookup.RepoGroup]("repo_issuer_groups", l.RepoIssuerGroups); err != nil {
		return nil, err
	}
	if m.IssuerGroups, err = groups[lookup.LegalEntityGroup]("issuer_groups", l.IssuerGroups); err != nil {
		return nil, err
	}
	if m.RepoCurves, err = groupCurves[lookup.RepoGroup](l, "repo_curves", l.RepoCurves); err != nil {
		return nil, err
	}
	if m.IssuerCurves, err = groupCurves[lookup.LegalEntityGroup](l, "issuer_curves", l.IssuerCurves); err != nil {
		return nil, err
	}

	for id, g := range m.RepoSecurityGroups {
		if _, ok := m.RepoCurves[g]; !ok {
			return nil, fmt.Errorf("lookup.repo_security_groups: %s uses unknown repo group %s", id, g)
		}
	}
	for id, g := range m.RepoIssuerGroups {
		if _, ok := m.RepoCurves[g]; !ok {
			return nil, fmt.Errorf("lookup.repo_issuer_groups: %s uses unknown repo group %s", id, g)
		}
	}
	for id, g := range m.IssuerGroups {
		if _, ok := m.IssuerCurves[g]; !ok {
			return nil, fmt.Errorf("lookup.issuer_groups: %s uses unknown issuer group %s", id, g)
		}
	}
	return lookup.NewLegalEntityLookup(m), nil
}

func groups[G ~string](field string, in map[string]string) (map[marketdata.StandardID]G, error) {
	out := make(map[marketdata.StandardID]G, len(in))
	for k, g := range in {
		id, err := marketdata.ParseStandardID(k)
		if err != nil {
			return nil, fmt.Errorf("lookup.%s: %w", field, err)
		}
		out[id] = G(g)
	}
	return out, nil
}

func groupCurves[G ~string](l LookupConfig, field string, in map[string]map[string]string) (map[G]map[currency.Currency]marketdata.CurveID, error) {
	out := make(map[G]map[currency.Currency]marketdata.CurveID, len(in))
	for g, byCcy := range in {
		curves := make(map[currency.Currency]marketdata.CurveID, len(byCcy))
		for ccy, name := range byCcy {
			c, err := currency.Parse(ccy)
			if err != nil {
				return nil, fmt.Errorf("lookup.%s.%s: %w", field, g, err)
			}
			curves[c] = l.curveID(name)
		}
		out[G(g)] = curves
	}
	return out, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Engine: EngineConfig{Workers: 0},
		Log:    LogConfig{Level: "info"},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./measures.db",
		},
		Lookup: LookupConfig{
			CurveGroup:       "Default",
			DiscountCurves:   map[string]string{"USD": "USD-Disc", "EUR": "EUR-Disc", "GBP": "GBP-Disc"},
			RepoIssuerGroups: map[string]string{"OG-Ticker~US-GOVT": "GOVT1"},
			RepoCurves:       map[string]map[string]string{"GOVT1": {"USD": "USD-Repo"}},
			IssuerGroups:     map[string]string{"OG-Ticker~US-GOVT": "GOVT1"},
			IssuerCurves:     map[string]map[string]string{"GOVT1": {"USD": "USD-Gov"}},
		},
	}
}
