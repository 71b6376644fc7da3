package cli

import (
	"fmt"
	"os"

	"github.com/HartBrook/promptbench/internal/config"
	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/spf13/cobra"
)

type initOptions struct {
	force bool
}

// NewInitCmd creates the init command.
func NewInitCmd(rt *app) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter promptbench.yaml",
		Long: `Writes promptbench.yaml in the current directory with the default tokenizer,
pricing, projection settings and benchmark suites, ready to edit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, rt, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing promptbench.yaml")

	return cmd
}

func runInit(cmd *cobra.Command, rt *app, opts *initOptions) error {
	dir := rt.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	path := config.ProjectFile(dir)

	if _, err := os.Stat(path); err == nil && !opts.force {
		return errors.New(errors.ErrConfigInvalid,
			fmt.Sprintf("%s already exists", config.ProjectFileName),
			"Use --force to overwrite it")
	}

	if err := config.SaveTo(config.Default(), path); err != nil {
		return err
	}

	printSuccess(cmd, "Wrote %s", path)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Edit the suites to point at your prompt files, then run:")
	fmt.Fprintln(cmd.OutOrStdout(), "  "+info("promptbench bench"))
	return nil
}
