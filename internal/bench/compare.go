package bench

import (
	"encoding/json"
	"fmt"

	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/HartBrook/promptbench/internal/source"
	"github.com/HartBrook/promptbench/internal/tokens"
)

// FileStats is a measured document.
type FileStats struct {
	File string `json:"file"`
	Path string `json:"path"`
	tokens.Estimate
}

// NewFileStats measures doc with counter.
func NewFileStats(doc *source.Document, counter tokens.Counter) FileStats {
	return FileStats{File: doc.Name(), Path: doc.Path, Estimate: tokens.Measure(counter, doc.Content)}
}

// Difference summarises First minus Second.
type Difference struct {
	Tokens     int    `json:"tokens"`
	Lines      int    `json:"lines"`
	Percentage string `json:"percentage"`
	Direction  string `json:"direction"`
}

// Comparison is two measured documents, typically before and after an edit.
type Comparison struct {
	Label1 string
	Label2 string
	First  FileStats
	Second FileStats
}

// differenceKey is the JSON key holding the Difference next to the labels.
const differenceKey = "difference"

// ValidateLabels checks that two labels can key a comparison's JSON object.
// Labels must be non-empty, distinct and not collide with "difference".
func ValidateLabels(label1, label2 string) error {
	switch {
	case label1 == "" || label2 == "":
		return errors.LabelInvalid("labels must not be empty")
	case label1 == label2:
		return errors.LabelInvalid(fmt.Sprintf("both labels are %q", label1))
	case label1 == differenceKey || label2 == differenceKey:
		return errors.LabelInvalid(fmt.Sprintf("%q is reserved", differenceKey))
	}
	return nil
}

// Compare measures both documents with counter.
func Compare(label1 string, first *source.Document, label2 string, second *source.Document, counter tokens.Counter) Comparison {
	return Comparison{
		Label1: label1,
		Label2: label2,
		First:  NewFileStats(first, counter),
		Second: NewFileStats(second, counter),
	}
}

// Stats compares token counts.
func (c Comparison) Stats() tokens.TokenStats {
	return tokens.TokenStats{Before: c.First.Tokens, After: c.Second.Tokens}
}

// LineDelta returns First lines minus Second lines.
func (c Comparison) LineDelta() int {
	return c.First.Lines - c.Second.Lines
}

// LinePercent returns the line delta relative to First, 0 when First is empty.
func (c Comparison) LinePercent() float64 {
	if c.First.Lines == 0 {
		return 0
	}
	return float64(c.LineDelta()) / float64(c.First.Lines) * 100
}

// Difference returns the summary used in JSON output.
func (c Comparison) Difference() Difference {
	s := c.Stats()
	return Difference{
		Tokens:     s.Saved(),
		Lines:      c.LineDelta(),
		Percentage: fmt.Sprintf("%.1f%%", s.PercentReduction()),
		Direction:  s.Direction(),
	}
}

// MarshalJSON keys both documents by their labels next to a "difference"
// entry. Labels that would overwrite one another are rejected.
func (c Comparison) MarshalJSON() ([]byte, error) {
	if err := ValidateLabels(c.Label1, c.Label2); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		c.Label1:      c.First,
		c.Label2:      c.Second,
		differenceKey: c.Difference(),
	})
}
