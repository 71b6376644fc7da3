package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/HartBrook/promptbench/internal/bench"
	"github.com/HartBrook/promptbench/internal/report"
	"github.com/HartBrook/promptbench/internal/source"
	"github.com/HartBrook/promptbench/internal/tokens"
	"github.com/spf13/cobra"
)

type countOptions struct {
	watch  bool
	format string
}

// countReport is the JSON shape of count output.
type countReport struct {
	Counter string            `json:"counter"`
	Files   []bench.FileStats `json:"files"`
	Total   tokens.Estimate   `json:"total"`
}

// NewCountCmd creates the count command.
func NewCountCmd(rt *app) *cobra.Command {
	opts := &countOptions{}

	cmd := &cobra.Command{
		Use:   "count PATH|GLOB|DIR...",
		Short: "Count tokens in prompt files",
		Long: `Counts tokens, lines and characters of each file.

Arguments may be files, glob patterns or directories. Directories are searched
for the extensions in discovery.extensions (default .md), skipping hidden
directories and anything matched by discovery.exclude.`,
		Example: `  promptbench count agents/gsd-executor.md
  promptbench count 'agents/*.md'
  promptbench count agents --tokenizer bpe
  promptbench count agents/gsd-planner-core.md --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, rt, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-count files as they change until interrupted")
	cmd.Flags().StringVar(&opts.format, "format", report.FormatText, "Output format: text or json")

	return cmd
}

func runCount(cmd *cobra.Command, rt *app, opts *countOptions, args []string) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := rt.load(ctx); err != nil {
		return err
	}

	files, err := source.Resolve(args, source.ResolveOptions{
		Root:       rt.workDir,
		Extensions: rt.cfg.Discovery.Extensions,
		Exclude:    rt.cfg.Discovery.Exclude,
	})
	if err != nil {
		return err
	}

	reader := rt.reader()
	stats := make([]bench.FileStats, 0, len(files))
	for _, path := range files {
		doc, err := reader.Read(path)
		if err != nil {
			return err
		}
		stats = append(stats, bench.NewFileStats(doc, rt.counter))
	}

	out := cmd.OutOrStdout()
	if opts.format == report.FormatJSON {
		if err := report.WriteJSON(out, newCountReport(rt.counter.Name(), stats)); err != nil {
			return err
		}
	} else {
		report.NewPrinter(out).CountTable(rt.counter.Name(), stats)
	}

	if !opts.watch {
		return nil
	}
	return watchFiles(ctx, cmd, rt, files, opts.format)
}

func newCountReport(counter string, files []bench.FileStats) countReport {
	r := countReport{Counter: counter, Files: files}
	for _, f := range files {
		r.Total.Tokens += f.Tokens
		r.Total.Lines += f.Lines
		r.Total.Chars += f.Chars
	}
	if r.Total.Lines > 0 {
		r.Total.TokensPerLine = float64(r.Total.Tokens) / float64(r.Total.Lines)
	}
	return r
}

// watchFiles re-counts each file as it changes until ctx is cancelled.
func watchFiles(ctx context.Context, cmd *cobra.Command, rt *app, files []string, format string) error {
	full := make([]string, len(files))
	for i, f := range files {
		full[i] = f
		if rt.workDir != "" && !filepath.IsAbs(f) {
			full[i] = filepath.Join(rt.workDir, f)
		}
	}

	changes, err := source.Watch(ctx, full)
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == report.FormatText {
		fmt.Fprintln(out)
		fmt.Fprintln(out, dim(fmt.Sprintf("Watching %d file(s). Press Ctrl+C to stop.", len(files))))
	}

	for path := range changes {
		doc, err := rt.reader().Read(path)
		if err != nil {
			// Editors that save by rename briefly remove the file.
			printWarning(cmd, "%v", err)
			continue
		}
		if err := printChange(out, format, bench.NewFileStats(doc, rt.counter)); err != nil {
			return err
		}
	}
	return nil
}

func printChange(out io.Writer, format string, stats bench.FileStats) error {
	if format == report.FormatJSON {
		return report.WriteJSON(out, stats)
	}
	label := fmt.Sprintf("%s %s", info(time.Now().Format("15:04:05")), stats.Path)
	report.NewPrinter(out).FileStats(label, stats.Estimate)
	return nil
}

func validateFormat(format string) error {
	switch format {
	case report.FormatText, report.FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (use text or json)", format)
	}
}
