package config

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSuites returns the suites used when a config defines none. They
// follow the tiered agent layout: <name>.md is the original, <name>-core.md
// the always-loaded optimized file and <name>-extended.md the retry-only
// supplement. The researcher suite replaces four runs of one large prompt
// with a shared base and four focused ones.
func DefaultSuites() []Suite {
	return []Suite{
		{
			Name: "Tiered agents",
			Pairs: []Pair{
				tieredAgent("Executor", "gsd-executor"),
				tieredAgent("Planner", "gsd-planner"),
				tieredAgent("Verifier", "gsd-verifier"),
			},
		},
		{
			Name: "Researcher architecture",
			Fanouts: []Fanout{{
				Name:       "Project Researcher",
				Original:   "agents/gsd-project-researcher.md",
				Multiplier: 4,
				Components: []string{
					"agents/gsd-project-researcher-base.md",
					"agents/gsd-project-researcher-stack.md",
					"agents/gsd-project-researcher-features.md",
					"agents/gsd-project-researcher-architecture.md",
					"agents/gsd-project-researcher-pitfalls.md",
				},
			}},
		},
		{
			Name: "Compact workflows",
			Pairs: []Pair{{
				Name:      "Execute-Phase Workflow",
				Original:  "get-shit-done/workflows/execute-phase.md",
				Optimized: "get-shit-done/workflows/execute-plan-compact.md",
			}},
		},
		{
			Name: "Minimal references",
			Pairs: []Pair{{
				Name:      "Checkpoints Reference",
				Original:  "get-shit-done/references/checkpoints.md",
				Optimized: "get-shit-done/references/checkpoints-minimal.md",
			}},
		},
	}
}

func tieredAgent(name, stem string) Pair {
	return Pair{
		Name:      name,
		Original:  "agents/" + stem + ".md",
		Optimized: "agents/" + stem + "-core.md",
		Extended:  "agents/" + stem + "-extended.md",
	}
}

// PairName derives a display name from a file path:
// "agents/code-reviewer.md" becomes "Code Reviewer".
func PairName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	if len(words) == 0 {
		return stem
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}
