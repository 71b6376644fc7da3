package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/HartBrook/promptbench/internal/bench"
	"github.com/HartBrook/promptbench/internal/config"
	"github.com/HartBrook/promptbench/internal/sections"
	"github.com/HartBrook/promptbench/internal/source"
	"github.com/HartBrook/promptbench/internal/tokens"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFileStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).FileStats("executor.md", tokens.Estimate{Tokens: 12345, Lines: 1000, Chars: 50000, TokensPerLine: 12.5})

	out := buf.String()
	assert.Contains(t, out, "executor.md")
	assert.Contains(t, out, "Lines:     1,000")
	assert.Contains(t, out, "Tokens:   12,345")
	assert.Contains(t, out, "Ratio:     12.50 tokens/line")
}

func TestCountTable(t *testing.T) {
	files := []bench.FileStats{
		{Path: "agents/a.md", Estimate: tokens.Estimate{Tokens: 1500, Lines: 100, TokensPerLine: 15}},
		{Path: "agents/b.md", Estimate: tokens.Estimate{Tokens: 500, Lines: 100, TokensPerLine: 5}},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).CountTable("heuristic", files)

	out := buf.String()
	assert.Contains(t, out, "Tokenizer: heuristic")
	assert.Contains(t, out, "agents/a.md")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "Total (2 files)")
	assert.Contains(t, out, "2,000")
	assert.Contains(t, out, "10.00")
}

func TestCountTable_SingleFileHasNoTotal(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).CountTable("runes", []bench.FileStats{{Path: "a.md"}})

	assert.NotContains(t, buf.String(), "Total")
}

func TestComparison(t *testing.T) {
	c := bench.Compare("Original", &source.Document{Path: "a.md", Content: strings.Repeat("abcd", 2000) + "\nx\n"},
		"Core", &source.Document{Path: "b.md", Content: strings.Repeat("abcd", 500) + "\n"}, tokens.RuneCounter{})

	var buf bytes.Buffer
	NewPrinter(&buf).Comparison(c)

	out := buf.String()
	assert.Contains(t, out, "TOKEN COMPARISON")
	assert.Contains(t, out, "Original: a.md")
	assert.Contains(t, out, "Core: b.md")
	assert.Contains(t, out, "DIFFERENCE (Original - Core)")
	assert.Contains(t, out, "Lines:  +1 (+50.0%)")
	assert.Contains(t, out, "Tokens: +1,500 (+75.0%)")
	assert.Contains(t, out, "Savings: 1,500 tokens")
}

func TestComparison_Increase(t *testing.T) {
	c := bench.Compare("a", &source.Document{Path: "a.md", Content: "abcd"},
		"b", &source.Document{Path: "b.md", Content: "abcdabcd"}, tokens.RuneCounter{})

	var buf bytes.Buffer
	NewPrinter(&buf).Comparison(c)

	assert.Contains(t, buf.String(), "Increase: 1 tokens")
}

func TestStrategies(t *testing.T) {
	first := &source.Document{Path: "a.md", Content: "hello world, hello world"}
	second := &source.Document{Path: "b.md", Content: "hello world"}
	rows := []StrategyRow{
		{Counter: "heuristic", Comparison: bench.Compare("Before", first, "After", second, tokens.HeuristicCounter{})},
		{Counter: "runes", Comparison: bench.Compare("Before", first, "After", second, tokens.RuneCounter{})},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Strategies(rows)

	out := buf.String()
	assert.Contains(t, out, "TOKENIZER COMPARISON")
	assert.Contains(t, out, "heuristic")
	assert.Contains(t, out, "runes")
	assert.Contains(t, out, "Before")
}

func benchResult() *bench.Result {
	est := func(n int) tokens.Estimate { return tokens.Estimate{Tokens: n} }
	exec := bench.PairResult{
		Name:      "Executor",
		Original:  bench.FileCount{Path: "e.md", Estimate: est(5000)},
		Optimized: bench.FileCount{Path: "e-core.md", Estimate: est(3000)},
		Extended:  &bench.FileCount{Path: "e-ext.md", Estimate: est(2500)},
	}
	plan := bench.PairResult{Name: "Planner", Skipped: "p.md not found"}
	totals := bench.Totals{Pairs: 1, Original: 5000, Optimized: 3000, Extended: 2500}
	return &bench.Result{
		Counter: "heuristic",
		Suites:  []bench.SuiteResult{{Name: "Tiered agents", Pairs: []bench.PairResult{exec, plan}, Totals: totals}},
		Totals:  totals,
	}
}

func TestBench(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Bench(benchResult())

	out := buf.String()
	assert.Contains(t, out, "TOKEN BENCHMARK (heuristic)")
	assert.Contains(t, out, "1. TIERED AGENTS")
	assert.Contains(t, out, "Extended")
	assert.Contains(t, out, "5,500")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Skipping Planner (p.md not found)")
	assert.Contains(t, out, "OVERHEAD: Combined (5,500) > Original (5,000)")
	assert.Contains(t, out, "Net overhead for complex tasks: +500 tokens (+10.0%)")
	assert.Contains(t, out, "Savings per simple task:")
	assert.Contains(t, out, "+2,000")
}

func TestBench_NoPairs(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Bench(&bench.Result{Counter: "runes", Suites: []bench.SuiteResult{{Name: "empty"}}})

	assert.Contains(t, buf.String(), "No pairs measured.")
}

func TestBench_Fanout(t *testing.T) {
	est := func(n int) tokens.Estimate { return tokens.Estimate{Tokens: n} }
	f := bench.FanoutResult{
		Name:       "Project Researcher",
		Original:   bench.FileCount{Path: "agents/researcher.md", Estimate: est(5000)},
		Multiplier: 4,
		Components: []bench.FileCount{
			{Path: "agents/researcher-base.md", Estimate: est(2000)},
			{Path: "agents/researcher-stack.md", Estimate: est(1000)},
			{Path: "agents/researcher-pitfalls.md", Missing: true},
		},
	}
	res := &bench.Result{
		Counter:      "runes",
		Suites:       []bench.SuiteResult{{Name: "Researcher architecture", Fanouts: []bench.FanoutResult{f}}},
		FanoutTotals: bench.FanoutTotals{Fanouts: 1, Original: 20000, Components: 3000},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Bench(res)

	out := buf.String()
	assert.Contains(t, out, "1. RESEARCHER ARCHITECTURE")
	assert.NotContains(t, out, "Optimized", "a suite of fan-outs has no pair table")
	assert.Contains(t, out, "Project Researcher")
	assert.Contains(t, out, "researcher-base.md")
	assert.Contains(t, out, "Original (researcher.md)")
	assert.Contains(t, out, "New total (3 components)")
	assert.Contains(t, out, "Old total (original ×4)")
	assert.Contains(t, out, "20,000")
	assert.Contains(t, out, "+17,000 tokens (85.0%)")
	assert.Contains(t, out, "Fan-out savings (1):")
	assert.Contains(t, out, "N/A")
}

func TestBench_FanoutSkipped(t *testing.T) {
	f := bench.FanoutResult{
		Name:       "Project Researcher",
		Original:   bench.FileCount{Path: "agents/researcher.md", Missing: true},
		Multiplier: 4,
		Skipped:    "agents/researcher.md not found",
	}
	res := &bench.Result{Counter: "runes", Suites: []bench.SuiteResult{{Name: "r", Fanouts: []bench.FanoutResult{f}}}}

	var buf bytes.Buffer
	NewPrinter(&buf).Bench(res)

	out := buf.String()
	assert.Contains(t, out, "Skipping Project Researcher (agents/researcher.md not found)")
	assert.NotContains(t, out, "New total")
	assert.NotContains(t, out, "Fan-out savings")
}

func TestProjections(t *testing.T) {
	proj := config.ProjectionConfig{Phases: []int{10, 50}, PlansPerPhase: 3, SimpleTaskShare: config.Float(0.6)}
	pricing := config.PricingConfig{Model: "Sonnet", InputPerMTok: config.Float(3)}
	rows := bench.Project(2000, proj, pricing)

	var buf bytes.Buffer
	NewPrinter(&buf).Projections(rows, proj, pricing)

	out := buf.String()
	assert.Contains(t, out, "Assuming 3 plans per phase, 60% simple tasks")
	assert.Contains(t, out, "Sonnet input pricing: $3.00/MTok")
	assert.Contains(t, out, "36,000")
	assert.Contains(t, out, "$0.11")
	assert.Contains(t, out, "180,000")
	assert.Contains(t, out, "$0.54")
}

func TestSections(t *testing.T) {
	doc := "intro\n## Setup\nInstall.\n## Usage\nRun.\n"
	b := sections.Measure(tokens.RuneCounter{}, doc, nil)
	b.CompareWith("## Usage\n")

	var buf bytes.Buffer
	NewPrinter(&buf).Sections("agent.md", b, true)

	out := buf.String()
	assert.Contains(t, out, "SECTIONS: agent.md")
	assert.Contains(t, out, "(preamble)")
	assert.Contains(t, out, "Setup")
	assert.Contains(t, out, "In other")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
	assert.Contains(t, out, "Document")
}

func TestSections_MissingTags(t *testing.T) {
	b := sections.Measure(tokens.HeuristicCounter{}, "<a>x</a>", []string{"a", "b"})

	var buf bytes.Buffer
	NewPrinter(&buf).Sections("x.md", b, false)

	assert.Contains(t, buf.String(), "<b> not found")
	assert.NotContains(t, buf.String(), "In other")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, benchResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "heuristic", decoded["counter"])
	assert.Contains(t, buf.String(), "\n  \"suites\"")
}

func TestPadLeft_Truncates(t *testing.T) {
	assert.Equal(t, "abc…", padLeft("abcdefgh", 4))
	assert.Equal(t, "ab  ", padLeft("ab", 4))
}
