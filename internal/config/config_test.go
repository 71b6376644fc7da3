package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HartBrook/promptbench/internal/errors"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config uses defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "valid full config",
			config: Config{
				Version:    1,
				Tokenizer:  TokenizerConfig{Strategy: "bpe", Encoding: "r50k_base"},
				Pricing:    PricingConfig{Model: "Opus", InputPerMTok: Float(15)},
				Projection: ProjectionConfig{Phases: []int{5}, PlansPerPhase: 3, SimpleTaskShare: Float(0.6)},
				Discovery:  DiscoveryConfig{Extensions: []string{".md", ".txt"}, Exclude: []string{"drafts/"}},
				Suites: []Suite{{
					Name:  "agents",
					Pairs: []Pair{{Original: "a.md", Optimized: "a-core.md"}},
				}},
			},
			wantErr: false,
		},
		{
			name:    "unknown strategy",
			config:  Config{Tokenizer: TokenizerConfig{Strategy: "sentencepiece"}},
			wantErr: true,
		},
		{
			name:    "unknown bpe encoding",
			config:  Config{Tokenizer: TokenizerConfig{Strategy: "bpe", Encoding: "gpt2"}},
			wantErr: true,
		},
		{
			name:    "bpe encoding without offline vocabulary",
			config:  Config{Tokenizer: TokenizerConfig{Strategy: "bpe", Encoding: "o200k_base"}},
			wantErr: true,
		},
		{
			name:    "encoding ignored for heuristic",
			config:  Config{Tokenizer: TokenizerConfig{Strategy: "heuristic", Encoding: "gpt2"}},
			wantErr: false,
		},
		{
			name:    "negative price",
			config:  Config{Pricing: PricingConfig{InputPerMTok: Float(-1)}},
			wantErr: true,
		},
		{
			name:    "zero phase",
			config:  Config{Projection: ProjectionConfig{Phases: []int{10, 0}}},
			wantErr: true,
		},
		{
			name:    "share above one",
			config:  Config{Projection: ProjectionConfig{SimpleTaskShare: Float(1.5)}},
			wantErr: true,
		},
		{
			name:    "extension without dot",
			config:  Config{Discovery: DiscoveryConfig{Extensions: []string{"md"}}},
			wantErr: true,
		},
		{
			name: "pair missing optimized",
			config: Config{Suites: []Suite{{
				Name:  "agents",
				Pairs: []Pair{{Original: "a.md"}},
			}}},
			wantErr: true,
		},
		{
			name: "suite with only fanouts",
			config: Config{Suites: []Suite{{
				Name:    "researchers",
				Fanouts: []Fanout{{Original: "r.md", Multiplier: 4, Components: []string{"base.md", "stack.md"}}},
			}}},
			wantErr: false,
		},
		{
			name: "fanout without components",
			config: Config{Suites: []Suite{{
				Name:    "researchers",
				Fanouts: []Fanout{{Original: "r.md", Multiplier: 4}},
			}}},
			wantErr: true,
		},
		{
			name: "fanout with negative multiplier",
			config: Config{Suites: []Suite{{
				Name:    "researchers",
				Fanouts: []Fanout{{Original: "r.md", Multiplier: -1, Components: []string{"base.md"}}},
			}}},
			wantErr: true,
		},
		{
			name: "suite without name",
			config: Config{Suites: []Suite{{
				Pairs: []Pair{{Original: "a.md", Optimized: "b.md"}},
			}}},
			wantErr: true,
		},
		{
			name: "duplicate suite names",
			config: Config{Suites: []Suite{
				{Name: "agents", Pairs: []Pair{{Original: "a.md", Optimized: "b.md"}}},
				{Name: "agents", Pairs: []Pair{{Original: "c.md", Optimized: "d.md"}}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.applyDefaults()
			err := tt.config.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
				} else if !errors.HasCode(err, errors.ErrConfigInvalid) {
					t.Errorf("Validate() error code = %v, want %s", err, errors.ErrConfigInvalid)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Version != DefaultVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, DefaultVersion)
	}
	if cfg.Tokenizer.Strategy != "heuristic" {
		t.Errorf("Strategy = %q, want heuristic", cfg.Tokenizer.Strategy)
	}
	if cfg.Tokenizer.Encoding != "cl100k_base" {
		t.Errorf("Encoding = %q, want cl100k_base", cfg.Tokenizer.Encoding)
	}
	if cfg.Pricing.PerMTok() != DefaultInputPerMTok {
		t.Errorf("InputPerMTok = %v, want %v", cfg.Pricing.PerMTok(), DefaultInputPerMTok)
	}
	if len(cfg.Projection.Phases) != 2 || cfg.Projection.Phases[0] != 10 || cfg.Projection.Phases[1] != 50 {
		t.Errorf("Phases = %v, want [10 50]", cfg.Projection.Phases)
	}
	if cfg.Projection.PlansPerPhase != 1 || cfg.Projection.SimpleShare() != 1.0 {
		t.Errorf("Projection = %+v, want one plan per phase, share 1.0", cfg.Projection)
	}
	if len(cfg.Discovery.Extensions) != 1 || cfg.Discovery.Extensions[0] != ".md" {
		t.Errorf("Extensions = %v, want [.md]", cfg.Discovery.Extensions)
	}
	if len(cfg.Suites) != 4 {
		t.Fatalf("Suites = %d, want 4 default suites", len(cfg.Suites))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestConfigDefaults_DoNotShareSlices(t *testing.T) {
	a := Default()
	a.Projection.Phases[0] = 99

	b := Default()
	if b.Projection.Phases[0] != 10 {
		t.Errorf("defaults were mutated through a shared slice: %v", b.Projection.Phases)
	}
}

func TestConfigDefaults_PairNames(t *testing.T) {
	cfg := &Config{Suites: []Suite{{
		Name:  "reviewers",
		Pairs: []Pair{{Original: "agents/code-reviewer.md", Optimized: "agents/code-reviewer-core.md"}},
	}}}

	cfg.applyDefaults()

	if got := cfg.Suites[0].Pairs[0].Name; got != "Code Reviewer" {
		t.Errorf("pair name = %q, want %q", got, "Code Reviewer")
	}
}

func TestLoadAndSave(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "promptbench.yaml")

	original := &Config{
		Tokenizer:  TokenizerConfig{Strategy: "runes"},
		Projection: ProjectionConfig{Phases: []int{3}, PlansPerPhase: 3, SimpleTaskShare: Float(0.6)},
		Suites: []Suite{{
			Name:  "agents",
			Pairs: []Pair{{Name: "Exec", Original: "a.md", Optimized: "a-core.md", Extended: "a-ext.md"}},
		}},
	}

	if err := SaveTo(original, configPath); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("Config file not created: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.Tokenizer.Strategy != "runes" {
		t.Errorf("Strategy = %q, want runes", loaded.Tokenizer.Strategy)
	}
	if loaded.Projection.SimpleShare() != 0.6 {
		t.Errorf("SimpleTaskShare = %v, want 0.6", loaded.Projection.SimpleShare())
	}
	if len(loaded.Suites) != 1 || loaded.Suites[0].Pairs[0].Extended != "a-ext.md" {
		t.Errorf("Suites = %+v, want the saved suite", loaded.Suites)
	}
}

func TestLoadFrom_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptbench.yaml")
	content := `version: 1
tokenizer:
  strategy: bpe
  encoding: r50k_base
pricing:
  model: Opus
  input_per_mtok: 15
discovery:
  exclude:
    - "*-draft.md"
suites:
  - name: Agents
    pairs:
      - original: agents/executor.md
        optimized: agents/executor-core.md
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Tokenizer.Encoding != "r50k_base" {
		t.Errorf("Encoding = %q, want r50k_base", cfg.Tokenizer.Encoding)
	}
	if cfg.Pricing.Model != "Opus" || cfg.Pricing.PerMTok() != 15 {
		t.Errorf("Pricing = %+v", cfg.Pricing)
	}
	if len(cfg.Discovery.Exclude) != 1 || cfg.Discovery.Exclude[0] != "*-draft.md" {
		t.Errorf("Exclude = %v", cfg.Discovery.Exclude)
	}
	if s := cfg.FindSuite("agents"); s == nil || s.Pairs[0].Name != "Executor" {
		t.Errorf("FindSuite(agents) = %+v", s)
	}
}

func TestLoadFrom_ExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptbench.yaml")
	content := `pricing:
  model: Local
  input_per_mtok: 0
projection:
  simple_task_share: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if got := cfg.Pricing.PerMTok(); got != 0 {
		t.Errorf("InputPerMTok = %v, want 0", got)
	}
	if got := cfg.Projection.SimpleShare(); got != 0 {
		t.Errorf("SimpleTaskShare = %v, want 0", got)
	}

	// Saving and reloading keeps the zeros.
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() after save error: %v", err)
	}
	if reloaded.Pricing.PerMTok() != 0 || reloaded.Projection.SimpleShare() != 0 {
		t.Errorf("reloaded = %+v / %+v, want zeros", reloaded.Pricing, reloaded.Projection)
	}
}

func TestLoadFrom_OmittedNumbersUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptbench.yaml")
	if err := os.WriteFile(path, []byte("pricing:\n  model: Opus\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if got := cfg.Pricing.PerMTok(); got != DefaultInputPerMTok {
		t.Errorf("InputPerMTok = %v, want %v", got, DefaultInputPerMTok)
	}
	if got := cfg.Projection.SimpleShare(); got != DefaultSimpleTaskShare {
		t.Errorf("SimpleTaskShare = %v, want %v", got, DefaultSimpleTaskShare)
	}
}

func TestLoadFrom_Fanouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptbench.yaml")
	content := `suites:
  - name: Researchers
    fanouts:
      - original: agents/gsd-project-researcher.md
        components:
          - agents/base.md
          - agents/stack.md
          - agents/features.md
      - name: Fixed
        original: agents/other.md
        multiplier: 6
        components: [agents/other-base.md]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	fanouts := cfg.Suites[0].Fanouts
	if len(fanouts) != 2 {
		t.Fatalf("Fanouts = %d, want 2", len(fanouts))
	}
	if fanouts[0].Name != "Gsd Project Researcher" {
		t.Errorf("Name = %q, want derived from the original", fanouts[0].Name)
	}
	if fanouts[0].Multiplier != 2 {
		t.Errorf("Multiplier = %d, want 2 (one per specialised component)", fanouts[0].Multiplier)
	}
	if fanouts[1].Multiplier != 6 {
		t.Errorf("Multiplier = %d, want 6", fanouts[1].Multiplier)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := LoadFrom("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("LoadFrom() expected error for nonexistent file")
	}
	if !errors.HasCode(err, errors.ErrConfigNotFound) {
		t.Errorf("LoadFrom() error = %v, want %s", err, errors.ErrConfigNotFound)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("suites: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if !errors.HasCode(err, errors.ErrConfigInvalid) {
		t.Errorf("LoadFrom() error = %v, want %s", err, errors.ErrConfigInvalid)
	}
}

func TestResolve(t *testing.T) {
	t.Run("defaults when nothing exists", func(t *testing.T) {
		paths := NewPathsWithOverrides(t.TempDir())
		cfg, path, err := Resolve(paths, "", t.TempDir())
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if path != "" {
			t.Errorf("path = %q, want empty", path)
		}
		if cfg.Tokenizer.Strategy != "heuristic" {
			t.Errorf("Strategy = %q, want heuristic", cfg.Tokenizer.Strategy)
		}
	})

	t.Run("project file wins over user file", func(t *testing.T) {
		paths := NewPathsWithOverrides(t.TempDir())
		project := t.TempDir()
		if err := SaveTo(&Config{Tokenizer: TokenizerConfig{Strategy: "runes"}}, paths.ConfigFile); err != nil {
			t.Fatal(err)
		}
		if err := SaveTo(&Config{Tokenizer: TokenizerConfig{Strategy: "bpe"}}, ProjectFile(project)); err != nil {
			t.Fatal(err)
		}

		cfg, path, err := Resolve(paths, "", project)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if path != ProjectFile(project) {
			t.Errorf("path = %q, want project file", path)
		}
		if cfg.Tokenizer.Strategy != "bpe" {
			t.Errorf("Strategy = %q, want bpe", cfg.Tokenizer.Strategy)
		}
	})

	t.Run("user file when no project file", func(t *testing.T) {
		paths := NewPathsWithOverrides(t.TempDir())
		if err := SaveTo(&Config{Tokenizer: TokenizerConfig{Strategy: "runes"}}, paths.ConfigFile); err != nil {
			t.Fatal(err)
		}

		cfg, path, err := Resolve(paths, "", t.TempDir())
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if path != paths.ConfigFile || cfg.Tokenizer.Strategy != "runes" {
			t.Errorf("Resolve() = %q, %q", path, cfg.Tokenizer.Strategy)
		}
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		paths := NewPathsWithOverrides(t.TempDir())
		_, _, err := Resolve(paths, filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
		if !errors.HasCode(err, errors.ErrConfigNotFound) {
			t.Errorf("Resolve() error = %v, want %s", err, errors.ErrConfigNotFound)
		}
	})
}
