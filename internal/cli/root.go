// Package cli implements the promptbench command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/HartBrook/promptbench/internal/config"
	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/HartBrook/promptbench/internal/logger"
	"github.com/HartBrook/promptbench/internal/source"
	"github.com/HartBrook/promptbench/internal/tokens"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	info = color.New(color.FgCyan).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

type globalOptions struct {
	tokenizer  string
	encoding   string
	configPath string
	verbose    bool
	noColor    bool
}

// app is what subcommands run with once flags and config are resolved.
type app struct {
	opts *globalOptions

	// paths locates the user config; tests point it at a temp dir.
	paths *config.Paths
	// workDir is where the project config is looked up; empty means cwd.
	workDir string

	cfg        *config.Config
	configPath string
	encoding   string
	counter    tokens.Counter
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{opts: &globalOptions{}, paths: config.NewPaths()})
}

// NewRootCmdWithOverrides creates the root command with a fixed user config
// location and working directory. Relative arguments resolve against workDir.
func NewRootCmdWithOverrides(paths *config.Paths, workDir string) *cobra.Command {
	return newRootCmd(&app{opts: &globalOptions{}, paths: paths, workDir: workDir})
}

func newRootCmd(rt *app) *cobra.Command {
	opts := rt.opts

	rootCmd := &cobra.Command{
		Use:   "promptbench",
		Short: "Measure and compare token usage of prompt files",
		Long: `Promptbench estimates how many tokens prompt and instruction files cost.

It counts files with a fast word/punctuation heuristic, a real BPE vocabulary
or a simple rune ratio, compares optimized prompts against their originals,
and projects what the savings are worth across a project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			l, err := logger.New(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), l))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.FromContext(cmd.Context()).Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.tokenizer, "tokenizer", "", "Counting strategy: heuristic, bpe or runes (default from config, else heuristic)")
	flags.StringVar(&opts.encoding, "encoding", "", "BPE encoding: cl100k_base, p50k_base or r50k_base")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ./promptbench.yaml, then ~/.config/promptbench/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewCountCmd(rt))
	rootCmd.AddCommand(NewCompareCmd(rt))
	rootCmd.AddCommand(NewBenchCmd(rt))
	rootCmd.AddCommand(NewSectionsCmd(rt))
	rootCmd.AddCommand(NewInitCmd(rt))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// load resolves config and builds the counter. Flags override config.
func (rt *app) load(ctx context.Context) error {
	workDir := rt.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}

	cfg, path, err := config.Resolve(rt.paths, rt.opts.configPath, workDir)
	if err != nil {
		return err
	}

	strategy := cfg.Tokenizer.Strategy
	if rt.opts.tokenizer != "" {
		strategy = rt.opts.tokenizer
	}
	encoding := cfg.Tokenizer.Encoding
	if rt.opts.encoding != "" {
		encoding = rt.opts.encoding
	}

	counter, err := tokens.NewCounter(strategy, encoding)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("configuration resolved",
		zap.String("config", path),
		zap.String("counter", counter.Name()),
		zap.String("workdir", workDir))

	rt.cfg = cfg
	rt.configPath = path
	rt.encoding = encoding
	rt.counter = counter
	return nil
}

// reader reads documents relative to the working directory.
func (rt *app) reader() source.FileReader {
	return source.FileReader{Root: rt.workDir}
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "promptbench %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		return err
	}
	return nil
}

// printError prints an error with its hint, if it carries one.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
	if be, ok := errors.As(err); ok && be.Hint != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", dim(be.Hint))
	}
}

// printSuccess prints a success message.
func printSuccess(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}
