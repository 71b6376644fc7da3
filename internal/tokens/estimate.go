// Package tokens estimates and counts tokens in prompt documents.
package tokens

import (
	"regexp"
	"unicode/utf8"
)

// Heuristic weights. Changing any of these breaks comparability with
// previously recorded measurements.
const (
	wordWeight        = 1.0
	punctuationWeight = 0.7
	lineWeight        = 0.5
	codeWordWeight    = 0.2
)

var (
	// wordPattern matches runs of letters, digits (any script) and underscores.
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

	// punctuationPattern matches single runes that are neither word runes nor whitespace.
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\t\n\v\f\r\x{1c}-\x{1f}\x{85}\p{Z}]`)

	// codeBlockPattern matches fenced code blocks, shortest first.
	codeBlockPattern = regexp.MustCompile("(?s)```.*?```")
)

// Estimate is the token estimate for a single text.
type Estimate struct {
	Tokens        int     `json:"tokens"`
	Lines         int     `json:"lines"`
	Chars         int     `json:"chars"`
	TokensPerLine float64 `json:"tokens_per_line"`
}

// NewEstimate builds an Estimate for text around an already computed token count.
func NewEstimate(text string, tokenCount int) Estimate {
	lines := CountLines(text)
	e := Estimate{
		Tokens: tokenCount,
		Lines:  lines,
		Chars:  utf8.RuneCountInString(text),
	}
	if lines > 0 {
		e.TokensPerLine = float64(tokenCount) / float64(lines)
	}
	return e
}

// EstimateHeuristic approximates what a BPE tokenizer would produce for text.
//
// Words weigh 1.0, punctuation 0.7 and each line 0.5. Words inside fenced
// code blocks add another 0.2 each on top of being counted as words. The sum
// is truncated.
func EstimateHeuristic(text string) Estimate {
	return NewEstimate(text, heuristicCount(text))
}

func heuristicCount(text string) int {
	if text == "" {
		return 0
	}

	total := float64(len(wordPattern.FindAllStringIndex(text, -1))) * wordWeight
	total += float64(len(punctuationPattern.FindAllStringIndex(text, -1))) * punctuationWeight
	total += float64(CountLines(text)) * lineWeight

	for _, block := range codeBlockPattern.FindAllString(text, -1) {
		total += float64(len(wordPattern.FindAllStringIndex(block, -1))) * codeWordWeight
	}

	return int(total)
}

// CountLines returns the number of lines in text. A trailing terminator does
// not open a new line, so "a\n" and "a" are both one line and "" is zero.
// "\r\n" counts as a single terminator.
func CountLines(text string) int {
	lines := 0
	open := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isLineBreak(r) {
			open = true
			continue
		}
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		lines++
		open = false
	}
	if open {
		lines++
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
