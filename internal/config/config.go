// Package config handles promptbench configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/HartBrook/promptbench/internal/tokens"
	"gopkg.in/yaml.v3"
)

// TokenizerConfig selects the counting strategy.
type TokenizerConfig struct {
	Strategy string `yaml:"strategy"`           // heuristic, bpe or runes
	Encoding string `yaml:"encoding,omitempty"` // BPE encoding, e.g. cl100k_base
}

// PricingConfig holds the input price used for cost projections.
// InputPerMTok is a pointer so an explicit 0 stays distinct from unset.
type PricingConfig struct {
	Model        string   `yaml:"model"`
	InputPerMTok *float64 `yaml:"input_per_mtok"` // USD per million input tokens
}

// PerMTok returns the input price, or DefaultInputPerMTok when unset.
func (p PricingConfig) PerMTok() float64 {
	if p.InputPerMTok == nil {
		return DefaultInputPerMTok
	}
	return *p.InputPerMTok
}

// ProjectionConfig describes how per-task savings scale to a project.
type ProjectionConfig struct {
	Phases          []int    `yaml:"phases"`
	PlansPerPhase   int      `yaml:"plans_per_phase"`
	SimpleTaskShare *float64 `yaml:"simple_task_share"` // share of tasks that only load the optimized file
}

// SimpleShare returns the simple task share, or DefaultSimpleTaskShare when unset.
func (p ProjectionConfig) SimpleShare() float64 {
	if p.SimpleTaskShare == nil {
		return DefaultSimpleTaskShare
	}
	return *p.SimpleTaskShare
}

// Float returns a pointer to v for the optional numeric fields.
func Float(v float64) *float64 { return &v }

// DiscoveryConfig controls which files directory arguments expand to.
type DiscoveryConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"` // .gitignore syntax
}

// Pair is one original prompt file and its optimized replacement.
type Pair struct {
	Name      string `yaml:"name"`
	Original  string `yaml:"original"`
	Optimized string `yaml:"optimized"`
	// Extended is loaded on top of Optimized only for complex tasks.
	Extended string `yaml:"extended,omitempty"`
}

// Fanout is one original prompt loaded Multiplier times, replaced by a
// shared base plus specialised components that are each loaded once.
type Fanout struct {
	Name       string   `yaml:"name"`
	Original   string   `yaml:"original"`
	Multiplier int      `yaml:"multiplier"` // defaults to one use per specialised component
	Components []string `yaml:"components"`
}

// Suite is a named group of pairs and fan-outs benchmarked together.
type Suite struct {
	Name    string   `yaml:"name"`
	Pairs   []Pair   `yaml:"pairs,omitempty"`
	Fanouts []Fanout `yaml:"fanouts,omitempty"`
}

// Config represents the promptbench configuration file.
type Config struct {
	Version    int              `yaml:"version"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Projection ProjectionConfig `yaml:"projection"`
	Discovery  DiscoveryConfig  `yaml:"discovery,omitempty"`
	Suites     []Suite          `yaml:"suites,omitempty"`
}

// Default values.
const (
	DefaultVersion         = 1
	DefaultModel           = "Sonnet"
	DefaultInputPerMTok    = 3.0
	DefaultPlansPerPhase   = 1
	DefaultSimpleTaskShare = 1.0
	DefaultExtension       = ".md"
)

// DefaultPhases are the project sizes projections are shown for.
var DefaultPhases = []int{10, 50}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Resolve loads the config that applies to projectRoot.
// An explicit path wins and must exist. Otherwise the project file, then the
// user file, is used; with neither present the defaults apply and path is "".
func Resolve(paths *Paths, explicit, projectRoot string) (cfg *Config, path string, err error) {
	if explicit != "" {
		cfg, err := LoadFrom(explicit)
		return cfg, explicit, err
	}

	for _, candidate := range []string{ProjectFile(projectRoot), paths.ConfigFile} {
		if _, statErr := os.Stat(candidate); statErr == nil {
			cfg, err := LoadFrom(candidate)
			return cfg, candidate, err
		}
	}

	return Default(), "", nil
}

// LoadFrom reads and validates config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, DefaultFileMode)
}

// Validate checks config for required fields and valid values.
func (c *Config) Validate() error {
	if !slices.Contains(tokens.Strategies, c.Tokenizer.Strategy) {
		return errors.ConfigInvalid(fmt.Sprintf("tokenizer.strategy %q must be one of %s",
			c.Tokenizer.Strategy, strings.Join(tokens.Strategies, ", ")))
	}
	if c.Tokenizer.Strategy == tokens.StrategyBPE && !slices.Contains(tokens.Encodings, c.Tokenizer.Encoding) {
		return errors.ConfigInvalid(fmt.Sprintf("tokenizer.encoding %q must be one of %s",
			c.Tokenizer.Encoding, strings.Join(tokens.Encodings, ", ")))
	}

	if c.Pricing.PerMTok() < 0 {
		return errors.ConfigInvalid("pricing.input_per_mtok must not be negative")
	}

	for _, p := range c.Projection.Phases {
		if p <= 0 {
			return errors.ConfigInvalid("projection.phases must be positive")
		}
	}
	if c.Projection.PlansPerPhase < 0 {
		return errors.ConfigInvalid("projection.plans_per_phase must not be negative")
	}
	if share := c.Projection.SimpleShare(); share < 0 || share > 1 {
		return errors.ConfigInvalid("projection.simple_task_share must be between 0 and 1")
	}

	for _, ext := range c.Discovery.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.ConfigInvalid(fmt.Sprintf("discovery.extensions entry %q must start with a dot", ext))
		}
	}

	seen := make(map[string]bool)
	for i, s := range c.Suites {
		if s.Name == "" {
			return errors.ConfigInvalid(fmt.Sprintf("suites[%d] has no name", i))
		}
		if seen[s.Name] {
			return errors.ConfigInvalid(fmt.Sprintf("duplicate suite name %q", s.Name))
		}
		seen[s.Name] = true
		for j, p := range s.Pairs {
			if p.Original == "" || p.Optimized == "" {
				return errors.ConfigInvalid(fmt.Sprintf("suite %q pair %d needs both original and optimized", s.Name, j))
			}
		}
		for j, f := range s.Fanouts {
			if f.Original == "" || len(f.Components) == 0 {
				return errors.ConfigInvalid(fmt.Sprintf("suite %q fanout %d needs an original and components", s.Name, j))
			}
			if f.Multiplier <= 0 {
				return errors.ConfigInvalid(fmt.Sprintf("suite %q fanout %d multiplier must be positive", s.Name, j))
			}
		}
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Tokenizer.Strategy == "" {
		c.Tokenizer.Strategy = tokens.StrategyHeuristic
	}
	if c.Tokenizer.Encoding == "" {
		c.Tokenizer.Encoding = tokens.DefaultEncoding
	}
	if c.Pricing.Model == "" {
		c.Pricing.Model = DefaultModel
	}
	if c.Pricing.InputPerMTok == nil {
		c.Pricing.InputPerMTok = Float(DefaultInputPerMTok)
	}
	if len(c.Projection.Phases) == 0 {
		c.Projection.Phases = append([]int(nil), DefaultPhases...)
	}
	if c.Projection.PlansPerPhase == 0 {
		c.Projection.PlansPerPhase = DefaultPlansPerPhase
	}
	if c.Projection.SimpleTaskShare == nil {
		c.Projection.SimpleTaskShare = Float(DefaultSimpleTaskShare)
	}
	if len(c.Discovery.Extensions) == 0 {
		c.Discovery.Extensions = []string{DefaultExtension}
	}
	if len(c.Suites) == 0 {
		c.Suites = DefaultSuites()
	}
	for i := range c.Suites {
		for j := range c.Suites[i].Pairs {
			p := &c.Suites[i].Pairs[j]
			if p.Name == "" {
				p.Name = PairName(p.Original)
			}
		}
		for j := range c.Suites[i].Fanouts {
			f := &c.Suites[i].Fanouts[j]
			if f.Name == "" {
				f.Name = PairName(f.Original)
			}
			if f.Multiplier == 0 {
				f.Multiplier = max(len(f.Components)-1, 1)
			}
		}
	}
}

// FindSuite returns the suite named name (case-insensitive), or nil.
func (c *Config) FindSuite(name string) *Suite {
	for i := range c.Suites {
		if strings.EqualFold(c.Suites[i].Name, name) {
			return &c.Suites[i]
		}
	}
	return nil
}
