package sections

import "github.com/HartBrook/promptbench/internal/tokens"

// Row is one measured section.
type Row struct {
	Section
	Estimate tokens.Estimate
	// Share is the section's percentage of the whole document's tokens.
	Share float64
	// InOther is set by CompareWith.
	InOther *bool
}

// Breakdown is a document measured section by section.
type Breakdown struct {
	Total   tokens.Estimate
	Rows    []Row
	Missing []string // requested tags not found
}

// Measure counts each section of content with c. With tags it measures
// those tag blocks, otherwise the H2 sections.
func Measure(c tokens.Counter, content string, tags []string) *Breakdown {
	b := &Breakdown{Total: tokens.Measure(c, content)}

	var secs []Section
	if len(tags) == 0 {
		secs = Headings(content)
	} else {
		for _, name := range tags {
			s, ok := Tag(content, name)
			if !ok {
				b.Missing = append(b.Missing, name)
				continue
			}
			secs = append(secs, s)
		}
	}

	for _, s := range secs {
		est := tokens.Measure(c, s.Content)
		row := Row{Section: s, Estimate: est}
		if b.Total.Tokens > 0 {
			row.Share = float64(est.Tokens) / float64(b.Total.Tokens) * 100
		}
		b.Rows = append(b.Rows, row)
	}

	return b
}

// SectionTokens sums the tokens of all rows.
func (b *Breakdown) SectionTokens() int {
	sum := 0
	for _, r := range b.Rows {
		sum += r.Estimate.Tokens
	}
	return sum
}

// CompareWith marks each row with whether other has a matching section.
func (b *Breakdown) CompareWith(other string) {
	for i := range b.Rows {
		if b.Rows[i].Kind == KindPreamble {
			continue
		}
		present := Has(other, b.Rows[i].Section)
		b.Rows[i].InOther = &present
	}
}
