package commands

import (
	"github.com/spf13/cobra"

	"github.com/buildpacks/meta-buildpack/internal/logging"
)

// Release prints the release metadata of the buildpack chosen by detect
func Release(logger logging.Logger, newRunner PhaseRunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release <build-dir>",
		Args:  phaseArgs(logger, cobra.ExactArgs(1)),
		Short: "Release an app with the selected buildpack",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}
			return runner.Release(cmd.Context(), args[0])
		}),
	}

	AddHelpFlag(cmd, "release")
	return cmd
}
