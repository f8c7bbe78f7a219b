package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/orchestrator"
)

// PhaseRunner runs the phases of the buildpack contract
type PhaseRunner interface {
	Detect(ctx context.Context, buildDir string) (string, error)
	Compile(ctx context.Context, buildDir, cacheDir, envDir string) error
	Release(ctx context.Context, buildDir string) error
}

// PhaseRunnerFactory builds the PhaseRunner for the command being executed.
// It is only called once a phase actually runs, so configuration is read at
// first use.
type PhaseRunnerFactory func(cmd *cobra.Command) (PhaseRunner, error)

func AddHelpFlag(cmd *cobra.Command, commandName string) {
	cmd.Flags().BoolP("help", "h", false, fmt.Sprintf("Help for '%s'", commandName))
}

func logError(logger logging.Logger, f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		err := f(cmd, args)
		if err != nil {
			if !orchestrator.IsSoftError(err) {
				logger.Error(err.Error())
			}
			return err
		}
		return nil
	}
}

// phaseArgs reports bad positional arguments as configuration errors
func phaseArgs(logger logging.Logger, validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			logger.Errorf("%s (usage: %s)", err, cmd.UseLine())
			return orchestrator.ConfigError(err)
		}
		return nil
	}
}
