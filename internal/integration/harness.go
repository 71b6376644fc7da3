// Package integration provides integration testing utilities for promptbench.
package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HartBrook/promptbench/internal/cli"
	"github.com/HartBrook/promptbench/internal/config"
	"gopkg.in/yaml.v3"
)

// TestEnv provides an isolated test environment with overridden paths.
type TestEnv struct {
	t          *testing.T
	RootDir    string        // t.TempDir() root
	HomeDir    string        // Simulated $HOME
	ConfigDir  string        // ~/.config/promptbench
	ProjectDir string        // working directory commands run in
	Paths      *config.Paths // Configured paths pointing to temp dirs
}

// NewTestEnv creates an isolated test environment.
// All paths are configured to use temporary directories.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	rootDir := t.TempDir()
	homeDir := filepath.Join(rootDir, "home")
	configDir := filepath.Join(homeDir, ".config", "promptbench")
	projectDir := filepath.Join(rootDir, "project")

	for _, dir := range []string{configDir, projectDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return &TestEnv{
		t:          t,
		RootDir:    rootDir,
		HomeDir:    homeDir,
		ConfigDir:  configDir,
		ProjectDir: projectDir,
		Paths:      config.NewPathsWithOverrides(configDir),
	}
}

// WriteFile writes a file relative to the project directory.
func (e *TestEnv) WriteFile(relPath, content string) error {
	fullPath := filepath.Join(e.ProjectDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// WriteFiles writes every relPath -> content entry.
func (e *TestEnv) WriteFiles(files map[string]string) error {
	for relPath, content := range files {
		if err := e.WriteFile(relPath, content); err != nil {
			return err
		}
	}
	return nil
}

// SetupProjectConfig writes promptbench.yaml in the project directory.
func (e *TestEnv) SetupProjectConfig(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return e.WriteFile(config.ProjectFileName, string(data))
}

// SetupUserConfig writes raw YAML to ~/.config/promptbench/config.yaml.
func (e *TestEnv) SetupUserConfig(content string) error {
	return os.WriteFile(e.Paths.ConfigFile, []byte(content), 0644)
}

// Result is the outcome of one command run.
type Result struct {
	Output string
	Err    error
}

// Run executes promptbench with args in the project directory and captures
// everything the command writes.
func (e *TestEnv) Run(args ...string) Result {
	e.t.Helper()

	cmd := cli.NewRootCmdWithOverrides(e.Paths, e.ProjectDir)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return Result{Output: out.String(), Err: err}
}

// ProjectPath returns the absolute path of relPath in the project directory.
func (e *TestEnv) ProjectPath(relPath string) string {
	return filepath.Join(e.ProjectDir, relPath)
}
