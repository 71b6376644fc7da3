// Package bench measures original prompt files against their optimized
// replacements and projects the savings.
package bench

import (
	"context"
	"runtime"

	"github.com/HartBrook/promptbench/internal/config"
	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/HartBrook/promptbench/internal/logger"
	"github.com/HartBrook/promptbench/internal/source"
	"github.com/HartBrook/promptbench/internal/tokens"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileCount is the measurement of one file.
type FileCount struct {
	Path     string          `json:"path"`
	Estimate tokens.Estimate `json:"estimate"`
	Missing  bool            `json:"missing,omitempty"`
}

// PairResult is the measurement of one original/optimized pair.
type PairResult struct {
	Name      string     `json:"name"`
	Original  FileCount  `json:"original"`
	Optimized FileCount  `json:"optimized"`
	Extended  *FileCount `json:"extended,omitempty"`
	// Skipped holds the reason the pair was not counted.
	Skipped string `json:"skipped,omitempty"`
}

// Counted reports whether the pair contributes to totals.
func (p PairResult) Counted() bool {
	return p.Skipped == ""
}

// Stats compares the original with the optimized file alone (simple tasks).
func (p PairResult) Stats() tokens.TokenStats {
	return tokens.TokenStats{Before: p.Original.Estimate.Tokens, After: p.Optimized.Estimate.Tokens}
}

// ExtendedTokens returns the extended file's tokens, 0 if absent.
func (p PairResult) ExtendedTokens() int {
	if p.Extended == nil {
		return 0
	}
	return p.Extended.Estimate.Tokens
}

// Combined returns what a complex task loads: optimized plus extended.
func (p PairResult) Combined() int {
	return p.Optimized.Estimate.Tokens + p.ExtendedTokens()
}

// ComplexStats compares the original with optimized plus extended.
func (p PairResult) ComplexStats() tokens.TokenStats {
	return tokens.TokenStats{Before: p.Original.Estimate.Tokens, After: p.Combined()}
}

// Totals sums counted pairs.
type Totals struct {
	Pairs     int `json:"pairs"`
	Original  int `json:"original"`
	Optimized int `json:"optimized"`
	Extended  int `json:"extended"`
}

func (t *Totals) add(p PairResult) {
	if !p.Counted() {
		return
	}
	t.Pairs++
	t.Original += p.Original.Estimate.Tokens
	t.Optimized += p.Optimized.Estimate.Tokens
	t.Extended += p.ExtendedTokens()
}

// Combined returns optimized plus extended tokens.
func (t Totals) Combined() int {
	return t.Optimized + t.Extended
}

// Simple compares originals with optimized files alone.
func (t Totals) Simple() tokens.TokenStats {
	return tokens.TokenStats{Before: t.Original, After: t.Optimized}
}

// Complex compares originals with optimized plus extended files.
// A negative Saved is overhead.
func (t Totals) Complex() tokens.TokenStats {
	return tokens.TokenStats{Before: t.Original, After: t.Combined()}
}

// FanoutResult compares one original run Multiplier times with a shared
// base plus specialised components, each loaded once.
type FanoutResult struct {
	Name       string      `json:"name"`
	Original   FileCount   `json:"original"`
	Multiplier int         `json:"multiplier"`
	Components []FileCount `json:"components"`
	Skipped    string      `json:"skipped,omitempty"`
}

// Counted reports whether the fan-out contributes to totals.
func (f FanoutResult) Counted() bool {
	return f.Skipped == ""
}

// OriginalTotal returns the original's tokens times the multiplier.
func (f FanoutResult) OriginalTotal() int {
	return f.Original.Estimate.Tokens * f.Multiplier
}

// ComponentTotal sums the components that were found.
func (f FanoutResult) ComponentTotal() int {
	total := 0
	for _, c := range f.Components {
		total += c.Estimate.Tokens
	}
	return total
}

// Stats compares the repeated original with the components.
func (f FanoutResult) Stats() tokens.TokenStats {
	return tokens.TokenStats{Before: f.OriginalTotal(), After: f.ComponentTotal()}
}

// FanoutTotals sums counted fan-outs.
type FanoutTotals struct {
	Fanouts    int `json:"fanouts"`
	Original   int `json:"original"`
	Components int `json:"components"`
}

func (t *FanoutTotals) add(f FanoutResult) {
	if !f.Counted() {
		return
	}
	t.Fanouts++
	t.Original += f.OriginalTotal()
	t.Components += f.ComponentTotal()
}

// Stats compares repeated originals with their components.
func (t FanoutTotals) Stats() tokens.TokenStats {
	return tokens.TokenStats{Before: t.Original, After: t.Components}
}

// SuiteResult is the measurement of one suite.
type SuiteResult struct {
	Name    string         `json:"name"`
	Pairs   []PairResult   `json:"pairs"`
	Fanouts []FanoutResult `json:"fanouts,omitempty"`
	Totals  Totals         `json:"totals"`
}

// HasExtended reports whether any pair in the suite names an extended file.
func (s SuiteResult) HasExtended() bool {
	for _, p := range s.Pairs {
		if p.Extended != nil {
			return true
		}
	}
	return false
}

// Result is a complete benchmark run.
type Result struct {
	Counter      string        `json:"counter"`
	Suites       []SuiteResult `json:"suites"`
	Totals       Totals        `json:"totals"`
	FanoutTotals FanoutTotals  `json:"fanout_totals"`
}

// Run counts every pair and fan-out of suites with counter. Pairs whose
// original or optimized file is missing are skipped with a reason; a missing
// extended file counts as zero. Fan-outs are skipped when the original is
// missing and leave missing components out of the total. Any other read
// failure aborts the run. Work runs concurrently but results keep the
// configured order.
func Run(ctx context.Context, suites []config.Suite, counter tokens.Counter, reader source.Reader) (*Result, error) {
	log := logger.FromContext(ctx)

	result := &Result{Counter: counter.Name(), Suites: make([]SuiteResult, len(suites))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, s := range suites {
		s := s
		result.Suites[i] = SuiteResult{Name: s.Name, Pairs: make([]PairResult, len(s.Pairs))}
		if len(s.Fanouts) > 0 {
			result.Suites[i].Fanouts = make([]FanoutResult, len(s.Fanouts))
		}
		for j, fanout := range s.Fanouts {
			fanout := fanout
			slot := &result.Suites[i].Fanouts[j]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := measureFanout(fanout, counter, reader)
				if err != nil {
					return err
				}
				log.Debug("fanout measured",
					zap.String("suite", s.Name),
					zap.String("fanout", fanout.Name),
					zap.Int("original", res.OriginalTotal()),
					zap.Int("components", res.ComponentTotal()),
					zap.String("skipped", res.Skipped))
				*slot = res
				return nil
			})
		}
		for j, pair := range s.Pairs {
			pair := pair
			slot := &result.Suites[i].Pairs[j]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := measurePair(pair, counter, reader)
				if err != nil {
					return err
				}
				log.Debug("pair measured",
					zap.String("suite", s.Name),
					zap.String("pair", pair.Name),
					zap.Int("original", res.Original.Estimate.Tokens),
					zap.Int("optimized", res.Optimized.Estimate.Tokens),
					zap.String("skipped", res.Skipped))
				*slot = res
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range result.Suites {
		for _, p := range result.Suites[i].Pairs {
			result.Suites[i].Totals.add(p)
			result.Totals.add(p)
		}
		for _, f := range result.Suites[i].Fanouts {
			result.FanoutTotals.add(f)
		}
	}

	return result, nil
}

func measurePair(pair config.Pair, counter tokens.Counter, reader source.Reader) (PairResult, error) {
	res := PairResult{Name: pair.Name}

	var err error
	if res.Original, err = measureFile(pair.Original, counter, reader); err != nil {
		return res, err
	}
	if res.Optimized, err = measureFile(pair.Optimized, counter, reader); err != nil {
		return res, err
	}

	switch {
	case res.Original.Missing:
		res.Skipped = pair.Original + " not found"
	case res.Optimized.Missing:
		res.Skipped = pair.Optimized + " not found"
	}

	if pair.Extended != "" {
		ext, err := measureFile(pair.Extended, counter, reader)
		if err != nil {
			return res, err
		}
		res.Extended = &ext
	}

	return res, nil
}

func measureFanout(fanout config.Fanout, counter tokens.Counter, reader source.Reader) (FanoutResult, error) {
	res := FanoutResult{
		Name:       fanout.Name,
		Multiplier: fanout.Multiplier,
		Components: make([]FileCount, 0, len(fanout.Components)),
	}

	var err error
	if res.Original, err = measureFile(fanout.Original, counter, reader); err != nil {
		return res, err
	}
	if res.Original.Missing {
		res.Skipped = fanout.Original + " not found"
	}

	for _, path := range fanout.Components {
		c, err := measureFile(path, counter, reader)
		if err != nil {
			return res, err
		}
		res.Components = append(res.Components, c)
	}

	return res, nil
}

func measureFile(path string, counter tokens.Counter, reader source.Reader) (FileCount, error) {
	doc, err := reader.Read(path)
	if err != nil {
		if errors.HasCode(err, errors.ErrFileNotFound) {
			return FileCount{Path: path, Missing: true}, nil
		}
		return FileCount{}, err
	}
	return FileCount{Path: path, Estimate: tokens.Measure(counter, doc.Content)}, nil
}

// SkippedFanouts returns every skipped fan-out across suites.
func (r *Result) SkippedFanouts() []FanoutResult {
	var out []FanoutResult
	for _, s := range r.Suites {
		for _, f := range s.Fanouts {
			if !f.Counted() {
				out = append(out, f)
			}
		}
	}
	return out
}

// Skipped returns every skipped pair across suites.
func (r *Result) Skipped() []PairResult {
	var out []PairResult
	for _, s := range r.Suites {
		for _, p := range s.Pairs {
			if !p.Counted() {
				out = append(out, p)
			}
		}
	}
	return out
}
