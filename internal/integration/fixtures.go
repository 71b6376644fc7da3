package integration

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Fixture represents a test scenario loaded from YAML.
type Fixture struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Setup       FixtureSetup      `yaml:"setup"`
	Run         []string          `yaml:"run"`
	Assertions  FixtureAssertions `yaml:"assertions"`
}

// FixtureSetup defines the test environment setup.
type FixtureSetup struct {
	// Files maps project-relative paths to content.
	Files map[string]string `yaml:"files"`
	// Config is raw promptbench.yaml content for the project.
	Config string `yaml:"config"`
	// UserConfig is raw content for ~/.config/promptbench/config.yaml.
	UserConfig string `yaml:"user_config"`
}

// FixtureAssertions defines what to verify.
type FixtureAssertions struct {
	// ErrorCode expects the command to fail with this code; empty expects success.
	ErrorCode   string   `yaml:"error_code"`
	Contains    []string `yaml:"contains"`
	NotContains []string `yaml:"not_contains"`
	// JSON maps dotted paths (suites.0.totals.pairs) to expected values.
	JSON map[string]any `yaml:"json"`
}

// LoadFixture loads a fixture from a YAML file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}

	if err := fixture.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}

	return &fixture, nil
}

// Validate checks that the fixture has all required fields.
func (f *Fixture) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("missing required field: name")
	}
	if len(f.Run) == 0 {
		return fmt.Errorf("missing required field: run")
	}
	return nil
}

// LoadAllFixtures loads all fixtures from a directory.
func LoadAllFixtures(dir string) ([]*Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var fixtures []*Fixture
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".yaml" && filepath.Ext(name) != ".yml" {
			continue
		}

		fixture, err := LoadFixture(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, nil
}

// ApplySetup applies the fixture setup to a test environment.
func ApplySetup(env *TestEnv, setup FixtureSetup) error {
	if err := env.WriteFiles(setup.Files); err != nil {
		return err
	}

	if setup.Config != "" {
		if err := env.WriteFile("promptbench.yaml", setup.Config); err != nil {
			return err
		}
	}

	if setup.UserConfig != "" {
		if err := env.SetupUserConfig(setup.UserConfig); err != nil {
			return err
		}
	}

	return nil
}
