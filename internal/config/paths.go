package config

import (
	"os"
	"path/filepath"
)

// File names and modes.
const (
	ProjectFileName = "promptbench.yaml"
	DefaultFileMode = 0644
)

// Paths provides all promptbench-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/promptbench
	ConfigFile string // ~/.config/promptbench/config.yaml
}

// NewPaths creates Paths under ~/.config.
// ~/.config is used on every platform so docs and configs stay portable.
func NewPaths() *Paths {
	return NewPathsWithOverrides(filepath.Join(os.Getenv("HOME"), ".config", "promptbench"))
}

// NewPathsWithOverrides allows overriding the config directory for testing.
func NewPathsWithOverrides(configDir string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}

// ProjectFile returns the project-level config path under root.
func ProjectFile(root string) string {
	return filepath.Join(root, ProjectFileName)
}
