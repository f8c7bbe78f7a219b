package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildpacks/meta-buildpack/internal/logging"
)

// Detect selects the buildpack and decorators for an app and prints the
// combined detection summary
func Detect(logger logging.Logger, newRunner PhaseRunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <build-dir>",
		Args:  phaseArgs(logger, cobra.ExactArgs(1)),
		Short: "Select the buildpack and decorators which apply to an app",
		Long: "Runs bin/detect of each buildpack in the configured order until one applies, then bin/decorate of every " +
			"buildpack. The choices are saved for the compile and release phases.",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			summary, err := runner.Detect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return err
		}),
	}

	AddHelpFlag(cmd, "detect")
	return cmd
}
