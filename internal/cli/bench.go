package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/HartBrook/promptbench/internal/bench"
	"github.com/HartBrook/promptbench/internal/config"
	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/HartBrook/promptbench/internal/logger"
	"github.com/HartBrook/promptbench/internal/report"
	"github.com/HartBrook/promptbench/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type benchOptions struct {
	suite         string
	root          string
	format        string
	phases        []int
	plansPerPhase int
	simpleShare   float64
	price         float64
}

// benchReport is the JSON shape of bench output.
type benchReport struct {
	*bench.Result
	Projections []bench.Projection `json:"projections,omitempty"`
}

// NewBenchCmd creates the bench command.
func NewBenchCmd(rt *app) *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark optimized prompts against their originals",
		Long: `Counts every original/optimized pair in the configured suites and shows
the savings per suite, the overhead of loading extended files for complex
tasks, and what the savings add up to across a project.

Suites may also hold fan-outs: one original prompt run several times,
replaced by a shared base plus specialised prompts each loaded once.

Suites come from the config file; without one, the built-in agent,
researcher, workflow and reference suites are used. Pairs whose original or
optimized file is missing are skipped. Relative paths resolve against --root, which defaults
to the directory of the config file (or the working directory).`,
		Example: `  promptbench bench
  promptbench bench --suite "Tiered agents" --tokenizer bpe
  promptbench bench --plans-per-phase 3 --simple-share 0.6
  promptbench bench --root ~/src/prompts --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, rt, opts)
		},
	}

	cmd.Flags().StringVar(&opts.suite, "suite", "", "Only run the named suite")
	cmd.Flags().StringVar(&opts.root, "root", "", "Directory relative pair paths resolve against")
	cmd.Flags().StringVar(&opts.format, "format", report.FormatText, "Output format: text or json")
	cmd.Flags().IntSliceVar(&opts.phases, "phases", nil, "Project sizes to project savings for (default from config, 10,50)")
	cmd.Flags().IntVar(&opts.plansPerPhase, "plans-per-phase", 0, "Tasks per phase (default from config, 1)")
	cmd.Flags().Float64Var(&opts.simpleShare, "simple-share", 0, "Share of tasks that load only the optimized file (default from config, 1.0)")
	cmd.Flags().Float64Var(&opts.price, "price", 0, "Input price in USD per million tokens (default from config, 3.0)")

	return cmd
}

func runBench(cmd *cobra.Command, rt *app, opts *benchOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := rt.load(ctx); err != nil {
		return err
	}

	suites := rt.cfg.Suites
	if opts.suite != "" {
		s := rt.cfg.FindSuite(opts.suite)
		if s == nil {
			return errors.New(errors.ErrConfigInvalid,
				fmt.Sprintf("no suite named %q", opts.suite),
				"Available suites: "+suiteNames(rt.cfg.Suites))
		}
		suites = []config.Suite{*s}
	}

	proj, pricing, err := projectionSettings(cmd, rt.cfg, opts)
	if err != nil {
		return err
	}

	root := benchRoot(rt, opts.root)
	logger.FromContext(ctx).Debug("running benchmark",
		zap.String("root", root),
		zap.Int("suites", len(suites)),
		zap.String("counter", rt.counter.Name()))

	res, err := bench.Run(ctx, suites, rt.counter, source.FileReader{Root: root})
	if err != nil {
		return err
	}

	var projections []bench.Projection
	if res.Totals.Pairs > 0 {
		projections = bench.Project(res.Totals.Simple().Saved(), proj, pricing)
	}

	out := cmd.OutOrStdout()
	if opts.format == report.FormatJSON {
		return report.WriteJSON(out, benchReport{Result: res, Projections: projections})
	}

	p := report.NewPrinter(out)
	p.Bench(res)
	if len(projections) > 0 {
		p.Projections(projections, proj, pricing)
	}
	return nil
}

// projectionSettings applies projection flags that were set on top of config.
func projectionSettings(cmd *cobra.Command, cfg *config.Config, opts *benchOptions) (config.ProjectionConfig, config.PricingConfig, error) {
	proj := cfg.Projection
	pricing := cfg.Pricing
	flags := cmd.Flags()

	if flags.Changed("phases") {
		for _, p := range opts.phases {
			if p <= 0 {
				return proj, pricing, fmt.Errorf("--phases values must be positive")
			}
		}
		proj.Phases = opts.phases
	}
	if flags.Changed("plans-per-phase") {
		if opts.plansPerPhase <= 0 {
			return proj, pricing, fmt.Errorf("--plans-per-phase must be positive")
		}
		proj.PlansPerPhase = opts.plansPerPhase
	}
	if flags.Changed("simple-share") {
		if opts.simpleShare < 0 || opts.simpleShare > 1 {
			return proj, pricing, fmt.Errorf("--simple-share must be between 0 and 1")
		}
		proj.SimpleTaskShare = config.Float(opts.simpleShare)
	}
	if flags.Changed("price") {
		if opts.price < 0 {
			return proj, pricing, fmt.Errorf("--price must not be negative")
		}
		pricing.InputPerMTok = config.Float(opts.price)
	}

	return proj, pricing, nil
}

// benchRoot picks the directory relative pair paths resolve against: the
// flag, else the directory of a project or explicit config file, else the
// working directory.
func benchRoot(rt *app, flag string) string {
	if flag != "" {
		return flag
	}
	if rt.configPath != "" && rt.configPath != rt.paths.ConfigFile {
		return filepath.Dir(rt.configPath)
	}
	return rt.workDir
}

func suiteNames(suites []config.Suite) string {
	names := make([]string, len(suites))
	for i, s := range suites {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
