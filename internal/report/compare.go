package report

import (
	"github.com/HartBrook/promptbench/internal/bench"
)

// Comparison prints both files and the difference between them.
func (p *Printer) Comparison(c bench.Comparison) {
	p.banner("TOKEN COMPARISON")

	p.FileStats(c.Label1+": "+c.First.File, c.First.Estimate)
	p.FileStats(c.Label2+": "+c.Second.File, c.Second.Estimate)

	stats := c.Stats()
	p.println()
	p.println(bold("DIFFERENCE (" + c.Label1 + " - " + c.Label2 + ")"))
	p.printf("   Lines:  %s (%s)\n", p.signed(c.LineDelta()), p.num.Sprintf("%+.1f%%", c.LinePercent()))
	p.printf("   Tokens: %s (%s)\n", p.signed(stats.Saved()), p.num.Sprintf("%+.1f%%", stats.PercentReduction()))
	p.println()

	switch stats.Direction() {
	case "savings":
		p.printf("   ➜ %s\n", good("Savings: "+p.n(stats.Saved())+" tokens"))
	case "increase":
		p.printf("   ➜ %s\n", bad("Increase: "+p.n(-stats.Saved())+" tokens"))
	default:
		p.printf("   ➜ %s\n", dim("No change"))
	}
}

// StrategyRow is one tokenizer's view of a comparison.
type StrategyRow struct {
	Counter    string
	Comparison bench.Comparison
}

// Strategies prints the same comparison under several tokenizers.
func (p *Printer) Strategies(rows []StrategyRow) {
	if len(rows) == 0 {
		return
	}
	first := rows[0].Comparison

	p.banner("TOKENIZER COMPARISON")
	p.printf("%s %s %s %s %s\n",
		padLeft("Tokenizer", 20),
		pad(first.Label1, 10),
		pad(first.Label2, 10),
		pad("Saved", 10),
		pad("Saved %", 9))
	p.thinRule(63)

	for _, r := range rows {
		s := r.Comparison.Stats()
		p.printf("%s %s %s %s %s\n",
			padLeft(r.Counter, 20),
			pad(p.n(s.Before), 10),
			pad(p.n(s.After), 10),
			pad(p.signed(s.Saved()), 10),
			pad(p.num.Sprintf("%.1f%%", s.PercentReduction()), 9))
	}
}
