package report

import (
	"github.com/HartBrook/promptbench/internal/bench"
	"github.com/HartBrook/promptbench/internal/tokens"
)

// FileStats prints the statistics block for one file.
func (p *Printer) FileStats(label string, e tokens.Estimate) {
	p.println()
	p.println(bold(label))
	p.printf("   Lines:  %s\n", pad(p.n(e.Lines), 8))
	p.printf("   Tokens: %s\n", pad(p.n(e.Tokens), 8))
	p.printf("   Ratio:  %s tokens/line\n", pad(p.num.Sprintf("%.2f", e.TokensPerLine), 8))
}

// CountTable prints one row per file followed by a total row.
func (p *Printer) CountTable(counter string, files []bench.FileStats) {
	const nameWidth = 40

	p.println(dim("Tokenizer: " + counter))
	p.println()
	p.printf("%s %s %s %s\n", padLeft("File", nameWidth), pad("Lines", 8), pad("Tokens", 10), pad("Tok/Line", 9))
	p.thinRule(nameWidth + 30)

	var total tokens.Estimate
	for _, f := range files {
		p.printf("%s %s %s %s\n",
			padLeft(f.Path, nameWidth),
			pad(p.n(f.Lines), 8),
			pad(p.n(f.Tokens), 10),
			pad(p.num.Sprintf("%.2f", f.TokensPerLine), 9))
		total.Tokens += f.Tokens
		total.Lines += f.Lines
		total.Chars += f.Chars
	}

	if len(files) > 1 {
		if total.Lines > 0 {
			total.TokensPerLine = float64(total.Tokens) / float64(total.Lines)
		}
		p.thinRule(nameWidth + 30)
		label := p.num.Sprintf("Total (%d files)", len(files))
		p.printf("%s %s %s %s\n",
			bold(padLeft(label, nameWidth)),
			pad(p.n(total.Lines), 8),
			bold(pad(p.n(total.Tokens), 10)),
			pad(p.num.Sprintf("%.2f", total.TokensPerLine), 9))
	}
}
