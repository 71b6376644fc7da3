package report

import (
	"github.com/HartBrook/promptbench/internal/sections"
)

// Sections prints a per-section breakdown of one document.
func (p *Printer) Sections(label string, b *sections.Breakdown, compared bool) {
	p.banner("SECTIONS: " + label)

	header := padLeft("Section", 36) + " " + pad("Lines", 7) + " " + pad("Tokens", 9) + " " + pad("Share", 7)
	if compared {
		header += " " + pad("In other", 9)
	}
	p.println(header)
	p.thinRule(len([]rune(header)))

	for _, r := range b.Rows {
		row := padLeft(r.Name, 36) + " " + pad(p.n(r.Estimate.Lines), 7) + " " + pad(p.n(r.Estimate.Tokens), 9) +
			" " + pad(p.num.Sprintf("%.1f%%", r.Share), 7)
		if compared {
			in := "-"
			if r.InOther != nil {
				in = "no"
				if *r.InOther {
					in = "yes"
				}
			}
			row += " " + pad(in, 9)
		}
		p.println(row)
	}

	p.thinRule(len([]rune(header)))
	p.printf("%s %s %s\n", padLeft("Sections total", 36), pad("", 7), pad(p.n(b.SectionTokens()), 9))
	p.printf("%s %s %s\n", bold(padLeft("Document", 36)), pad(p.n(b.Total.Lines), 7), bold(pad(p.n(b.Total.Tokens), 9)))

	for _, name := range b.Missing {
		p.printf("%s <%s> not found\n", warn("⚠"), name)
	}
}
