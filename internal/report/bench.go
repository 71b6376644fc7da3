package report

import (
	"path/filepath"
	"strings"

	"github.com/HartBrook/promptbench/internal/bench"
	"github.com/HartBrook/promptbench/internal/config"
)

// Bench prints every suite of a benchmark run and the overall summary.
func (p *Printer) Bench(res *bench.Result) {
	p.banner("TOKEN BENCHMARK (" + res.Counter + ")")

	for i, s := range res.Suites {
		p.suite(i+1, s)
	}

	skipped, skippedFanouts := res.Skipped(), res.SkippedFanouts()
	if len(skipped)+len(skippedFanouts) > 0 {
		p.println()
		for _, s := range skipped {
			p.printf("%s Skipping %s (%s)\n", warn("⚠"), s.Name, s.Skipped)
		}
		for _, f := range skippedFanouts {
			p.printf("%s Skipping %s (%s)\n", warn("⚠"), f.Name, f.Skipped)
		}
	}

	p.summary(res.Totals, res.FanoutTotals)
}

func (p *Printer) suite(n int, s bench.SuiteResult) {
	p.println()
	p.println(heading(p.num.Sprintf("%d. %s", n, strings.ToUpper(s.Name))))

	if len(s.Pairs) > 0 || len(s.Fanouts) == 0 {
		p.pairs(s)
	}
	for _, f := range s.Fanouts {
		p.fanout(f)
	}
}

func (p *Printer) pairs(s bench.SuiteResult) {
	extended := s.HasExtended()

	header := padLeft("Name", 24) + " " + pad("Original", 10) + " " + pad("Optimized", 10)
	if extended {
		header += " " + pad("Extended", 10) + " " + pad("Combined", 10)
	}
	header += " " + pad("Simple %", 9)
	p.println(header)
	p.thinRule(len([]rune(header)))

	for _, pr := range s.Pairs {
		if !pr.Counted() {
			row := padLeft(pr.Name, 24) + " " + pad("N/A", 10) + " " + pad("N/A", 10)
			if extended {
				row += " " + pad("N/A", 10) + " " + pad("N/A", 10)
			}
			p.println(dim(row + " " + pad("N/A", 9)))
			continue
		}
		stats := pr.Stats()
		row := padLeft(pr.Name, 24) + " " + pad(p.n(stats.Before), 10) + " " + pad(p.n(stats.After), 10)
		if extended {
			row += " " + pad(p.n(pr.ExtendedTokens()), 10) + " " + pad(p.n(pr.Combined()), 10)
		}
		p.println(row + " " + p.percent(stats.PercentReduction(), 9))
	}

	t := s.Totals
	if t.Pairs == 0 {
		return
	}
	p.thinRule(len([]rune(header)))
	row := padLeft("TOTAL", 24) + " " + pad(p.n(t.Original), 10) + " " + pad(p.n(t.Optimized), 10)
	if extended {
		row += " " + pad(p.n(t.Extended), 10) + " " + pad(p.n(t.Combined()), 10)
	}
	p.println(bold(row) + " " + p.percent(t.Simple().PercentReduction(), 9))

	if extended {
		p.complexLine(t)
	}
}

// fanout prints the components of one fan-out against the repeated original.
func (p *Printer) fanout(f bench.FanoutResult) {
	const nameWidth = 40

	p.println()
	p.println(bold(f.Name))
	header := padLeft("Component", nameWidth) + " " + pad("Tokens", 10)
	p.println(header)
	p.thinRule(len([]rune(header)))

	for _, c := range f.Components {
		if c.Missing {
			p.println(dim(padLeft(filepath.Base(c.Path), nameWidth) + " " + pad("N/A", 10)))
			continue
		}
		p.println(padLeft(filepath.Base(c.Path), nameWidth) + " " + pad(p.n(c.Estimate.Tokens), 10))
	}
	p.thinRule(len([]rune(header)))

	original := padLeft("Original ("+filepath.Base(f.Original.Path)+")", nameWidth)
	if !f.Counted() {
		p.println(dim(original + " " + pad("N/A", 10)))
		return
	}
	p.println(original + " " + pad(p.n(f.Original.Estimate.Tokens), 10))
	p.thinRule(len([]rune(header)))

	p.println(padLeft(p.num.Sprintf("New total (%d components)", len(f.Components)), nameWidth) + " " + pad(p.n(f.ComponentTotal()), 10))
	p.println(padLeft(p.num.Sprintf("Old total (original ×%d)", f.Multiplier), nameWidth) + " " + pad(p.n(f.OriginalTotal()), 10))

	s := f.Stats()
	p.println()
	p.printf("%s %s tokens (%s)\n", padLeft("Savings", nameWidth), pad(p.signed(s.Saved()), 10), p.percent(s.PercentReduction(), 0))
}

// complexLine reports whether optimized plus extended files beat the originals.
func (p *Printer) complexLine(t bench.Totals) {
	c := t.Complex()
	p.println()
	if c.Saved() < 0 {
		p.printf("%s OVERHEAD: Combined (%s) > Original (%s)\n", warn("⚠"), p.n(t.Combined()), p.n(t.Original))
		p.printf("   Net overhead for complex tasks: %s tokens (%s)\n",
			p.signed(-c.Saved()), p.num.Sprintf("%+.1f%%", -c.PercentReduction()))
		return
	}
	p.printf("%s OPTIMIZED: Combined (%s) <= Original (%s)\n", good("✓"), p.n(t.Combined()), p.n(t.Original))
	p.printf("   Net savings for complex tasks: %s tokens (%s)\n",
		p.n(c.Saved()), p.num.Sprintf("%.1f%%", c.PercentReduction()))
}

func (p *Printer) summary(t bench.Totals, ft bench.FanoutTotals) {
	p.banner("SUMMARY")
	if ft.Fanouts > 0 {
		s := ft.Stats()
		p.printf("Fan-out savings (%d):        %s tokens (%s)\n", ft.Fanouts, pad(p.signed(s.Saved()), 10), p.num.Sprintf("%.1f%%", s.PercentReduction()))
	}
	if t.Pairs == 0 {
		p.println(dim("No pairs measured."))
		return
	}
	s := t.Simple()
	p.printf("Total original (%d pairs):  %s tokens\n", t.Pairs, pad(p.n(t.Original), 10))
	p.printf("Total optimized:            %s tokens\n", pad(p.n(t.Optimized), 10))
	p.printf("Savings per simple task:    %s tokens (%s)\n", pad(p.signed(s.Saved()), 10), p.num.Sprintf("%.1f%%", s.PercentReduction()))
	if t.Extended > 0 {
		p.printf("Total extended:             %s tokens\n", pad(p.n(t.Extended), 10))
		p.printf("Optimized + extended:       %s tokens\n", pad(p.n(t.Combined()), 10))
	}
}

// Projections prints savings scaled to whole projects.
func (p *Printer) Projections(rows []bench.Projection, proj config.ProjectionConfig, pricing config.PricingConfig) {
	p.banner("PROJECT PROJECTIONS")
	if proj.SimpleShare() < 1 || proj.PlansPerPhase > 1 {
		p.println(dim(p.num.Sprintf("Assuming %d plans per phase, %.0f%% simple tasks (optimized file only)",
			proj.PlansPerPhase, proj.SimpleShare()*100)))
	}
	p.println(dim(p.num.Sprintf("Cost at %s input pricing: $%.2f/MTok", pricing.Model, pricing.PerMTok())))
	p.println()

	header := pad("Phases", 8) + " " + pad("Tasks", 8) + " " + pad("Simple", 8) + " " + pad("Tokens saved", 14) + " " + pad("Cost", 10)
	p.println(header)
	p.thinRule(len(header))
	for _, r := range rows {
		p.printf("%s %s %s %s %s\n",
			pad(p.n(r.Phases), 8),
			pad(p.n(r.Tasks), 8),
			pad(p.n(r.SimpleTasks), 8),
			pad(p.n(r.TokensSaved), 14),
			pad(p.money(r.Cost), 10))
	}
}

// percent formats a reduction, green for savings and red for growth.
func (p *Printer) percent(v float64, width int) string {
	s := pad(p.num.Sprintf("%.1f%%", v), width)
	switch {
	case v > 0:
		return good(s)
	case v < 0:
		return bad(s)
	default:
		return s
	}
}
