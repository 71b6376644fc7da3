package cli

import (
	"github.com/HartBrook/promptbench/internal/report"
	"github.com/HartBrook/promptbench/internal/sections"
	"github.com/HartBrook/promptbench/internal/tokens"
	"github.com/spf13/cobra"
)

type sectionsOptions struct {
	tags    []string
	against string
	format  string
}

// sectionsReport is the JSON shape of sections output.
type sectionsReport struct {
	File     string          `json:"file"`
	Counter  string          `json:"counter"`
	Total    tokens.Estimate `json:"total"`
	Sections []sectionJSON   `json:"sections"`
	Missing  []string        `json:"missing,omitempty"`
}

type sectionJSON struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Tokens  int     `json:"tokens"`
	Lines   int     `json:"lines"`
	Share   float64 `json:"share"`
	InOther *bool   `json:"in_other,omitempty"`
}

// NewSectionsCmd creates the sections command.
func NewSectionsCmd(rt *app) *cobra.Command {
	opts := &sectionsOptions{}

	cmd := &cobra.Command{
		Use:   "sections FILE",
		Short: "Break a prompt file down by section",
		Long: `Shows where a prompt's tokens go.

By default the file is split at markdown H2 headers (## Title). With --tags,
the named XML-style blocks (<role>...</role>) are measured instead. With
--against, each section is checked for a counterpart in another file, which
shows what an optimized prompt dropped.`,
		Example: `  promptbench sections agents/gsd-executor.md
  promptbench sections agents/gsd-executor.md --tags role,execution_flow,deviation_rules
  promptbench sections agents/gsd-executor.md --against agents/gsd-executor-core.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(cmd, rt, opts, args[0])
		},
	}

	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, "Measure these <tag> blocks instead of H2 sections")
	cmd.Flags().StringVar(&opts.against, "against", "", "Mark which sections also exist in this file")
	cmd.Flags().StringVar(&opts.format, "format", report.FormatText, "Output format: text or json")

	return cmd
}

func runSections(cmd *cobra.Command, rt *app, opts *sectionsOptions, path string) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	if err := rt.load(cmd.Context()); err != nil {
		return err
	}

	doc, err := rt.reader().Read(path)
	if err != nil {
		return err
	}

	b := sections.Measure(rt.counter, doc.Content, opts.tags)

	if opts.against != "" {
		other, err := rt.reader().Read(opts.against)
		if err != nil {
			return err
		}
		b.CompareWith(other.Content)
	}

	out := cmd.OutOrStdout()
	if opts.format == report.FormatJSON {
		r := sectionsReport{
			File:     doc.Path,
			Counter:  rt.counter.Name(),
			Total:    b.Total,
			Sections: make([]sectionJSON, 0, len(b.Rows)),
			Missing:  b.Missing,
		}
		for _, row := range b.Rows {
			r.Sections = append(r.Sections, sectionJSON{
				Name:    row.Name,
				Kind:    string(row.Kind),
				Tokens:  row.Estimate.Tokens,
				Lines:   row.Estimate.Lines,
				Share:   row.Share,
				InOther: row.InOther,
			})
		}
		return report.WriteJSON(out, r)
	}

	report.NewPrinter(out).Sections(doc.Name(), b, opts.against != "")
	return nil
}
