// Package sections splits prompt documents into measurable sections.
package sections

import (
	"regexp"
	"strings"
)

// Kind says how a section was delimited.
type Kind string

const (
	KindPreamble Kind = "preamble"
	KindHeading  Kind = "heading"
	KindTag      Kind = "tag"
)

// Section is a named span of a document.
type Section struct {
	Name    string
	Kind    Kind
	Content string // raw text, delimiters included
}

// h2Pattern matches markdown H2 headers (## Header). The separator is
// horizontal whitespace only so a bare "##" never swallows the next line.
var h2Pattern = regexp.MustCompile(`(?m)^##[ \t]+(\S.*)$`)

// fencePattern matches a line opening or closing a fenced code block.
var fencePattern = regexp.MustCompile("(?m)^ {0,3}(```|~~~)")

// headingMatches returns the H2 matches in content that sit outside fenced
// code blocks.
func headingMatches(content string) [][]int {
	all := h2Pattern.FindAllStringSubmatchIndex(content, -1)
	if len(all) == 0 {
		return nil
	}

	type span struct{ start, end int }
	var fenced []span
	var open string
	openAt := -1
	for _, f := range fencePattern.FindAllStringSubmatchIndex(content, -1) {
		marker := content[f[2]:f[3]]
		switch {
		case openAt < 0:
			open, openAt = marker, f[0]
		case marker == open:
			fenced = append(fenced, span{openAt, f[1]})
			openAt = -1
		}
	}
	if openAt >= 0 {
		fenced = append(fenced, span{openAt, len(content)})
	}

	out := all[:0]
	for _, m := range all {
		inside := false
		for _, sp := range fenced {
			if m[0] >= sp.start && m[0] < sp.end {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, m)
		}
	}
	return out
}

// Headings splits markdown by H2 headers. Text before the first header is
// returned as a preamble section when it is not blank. Lines inside fenced
// code blocks are never headers.
func Headings(content string) []Section {
	var out []Section
	if content == "" {
		return out
	}

	matches := headingMatches(content)
	if len(matches) == 0 {
		if strings.TrimSpace(content) != "" {
			out = append(out, Section{Name: "(preamble)", Kind: KindPreamble, Content: content})
		}
		return out
	}

	if pre := content[:matches[0][0]]; strings.TrimSpace(pre) != "" {
		out = append(out, Section{Name: "(preamble)", Kind: KindPreamble, Content: pre})
	}

	for i, match := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		out = append(out, Section{
			Name:    strings.TrimSpace(content[match[2]:match[3]]),
			Kind:    KindHeading,
			Content: content[match[0]:end],
		})
	}

	return out
}

// Tag returns the first <name>...</name> block in content, tags included.
func Tag(content, name string) (Section, bool) {
	re, err := regexp.Compile(`(?s)<` + regexp.QuoteMeta(name) + `>.*?</` + regexp.QuoteMeta(name) + `>`)
	if err != nil {
		return Section{}, false
	}
	m := re.FindString(content)
	if m == "" {
		return Section{}, false
	}
	return Section{Name: name, Kind: KindTag, Content: m}, true
}

// Has reports whether other contains a section matching s: the opening tag
// for tag sections, a same-named H2 header (case-insensitive) for headings.
func Has(other string, s Section) bool {
	switch s.Kind {
	case KindTag:
		return strings.Contains(other, "<"+s.Name+">")
	case KindHeading:
		for _, h := range Headings(other) {
			if h.Kind == KindHeading && strings.EqualFold(h.Name, s.Name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
