package cli

import (
	"github.com/HartBrook/promptbench/internal/bench"
	"github.com/HartBrook/promptbench/internal/report"
	"github.com/HartBrook/promptbench/internal/tokens"
	"github.com/spf13/cobra"
)

type compareOptions struct {
	label1        string
	label2        string
	format        string
	allTokenizers bool
}

// NewCompareCmd creates the compare command.
func NewCompareCmd(rt *app) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare FILE1 FILE2",
		Short: "Compare token counts of two files",
		Long: `Compares two files, typically a prompt before and after optimization.

Differences are FILE1 minus FILE2, so a positive difference is a saving.
Use --all-tokenizers to see how much the estimate depends on the tokenizer.`,
		Example: `  promptbench compare agents/gsd-executor.md agents/gsd-executor-core.md
  promptbench compare old.md new.md --label1 Before --label2 After
  promptbench compare old.md new.md --all-tokenizers
  promptbench compare old.md new.md --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, rt, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.label1, "label1", "File 1", "Label for the first file")
	cmd.Flags().StringVar(&opts.label2, "label2", "File 2", "Label for the second file")
	cmd.Flags().StringVar(&opts.format, "format", report.FormatText, "Output format: text or json")
	cmd.Flags().BoolVar(&opts.allTokenizers, "all-tokenizers", false, "Show the comparison under every tokenizer")

	return cmd
}

func runCompare(cmd *cobra.Command, rt *app, opts *compareOptions, path1, path2 string) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	if err := bench.ValidateLabels(opts.label1, opts.label2); err != nil {
		return err
	}
	if err := rt.load(cmd.Context()); err != nil {
		return err
	}

	first, err := rt.reader().Read(path1)
	if err != nil {
		return err
	}
	second, err := rt.reader().Read(path2)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	c := bench.Compare(opts.label1, first, opts.label2, second, rt.counter)

	if !opts.allTokenizers {
		if opts.format == report.FormatJSON {
			return report.WriteJSON(out, c)
		}
		report.NewPrinter(out).Comparison(c)
		return nil
	}

	counters, err := allCounters(rt.encoding)
	if err != nil {
		return err
	}
	rows := make([]report.StrategyRow, 0, len(counters))
	byName := make(map[string]bench.Comparison, len(counters))
	for _, counter := range counters {
		cc := bench.Compare(opts.label1, first, opts.label2, second, counter)
		rows = append(rows, report.StrategyRow{Counter: counter.Name(), Comparison: cc})
		byName[counter.Name()] = cc
	}

	if opts.format == report.FormatJSON {
		return report.WriteJSON(out, byName)
	}
	p := report.NewPrinter(out)
	p.Comparison(c)
	p.Strategies(rows)
	return nil
}

// allCounters returns one counter per strategy, BPE using encoding.
func allCounters(encoding string) ([]tokens.Counter, error) {
	counters := make([]tokens.Counter, 0, len(tokens.Strategies))
	for _, s := range tokens.Strategies {
		c, err := tokens.NewCounter(s, encoding)
		if err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}
	return counters, nil
}
