// Package report renders measurements as terminal text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formats accepted by commands with --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

const ruleWidth = 75

// Printer writes human-readable reports to w.
type Printer struct {
	w   io.Writer
	num *message.Printer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, num: message.NewPrinter(language.English)}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// n formats an integer with thousands separators.
func (p *Printer) n(v int) string {
	return p.num.Sprintf("%d", v)
}

// signed formats an integer with an explicit sign and thousands separators.
func (p *Printer) signed(v int) string {
	if v > 0 {
		return "+" + p.n(v)
	}
	return p.n(v)
}

// money formats a dollar amount.
func (p *Printer) money(v float64) string {
	if v < 0.01 && v > -0.01 && v != 0 {
		return p.num.Sprintf("$%.4f", v)
	}
	return p.num.Sprintf("$%.2f", v)
}

// banner prints a ruled section title.
func (p *Printer) banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	p.println()
	p.println(dim(rule))
	p.println(heading(title))
	p.println(dim(rule))
}

// thinRule prints a separator of width.
func (p *Printer) thinRule(width int) {
	p.println(dim(strings.Repeat("─", width)))
}

// pad right-aligns s in width columns. Colour is applied after padding so
// escape codes never count toward the width.
func pad(s string, width int) string {
	return fmt.Sprintf("%*s", width, s)
}

// padLeft left-aligns s in width columns, truncating long values.
func padLeft(s string, width int) string {
	if r := []rune(s); len(r) > width {
		s = string(r[:width-1]) + "…"
	}
	return fmt.Sprintf("%-*s", width, s)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
