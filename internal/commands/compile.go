package commands

import (
	"github.com/spf13/cobra"

	"github.com/buildpacks/meta-buildpack/internal/logging"
)

// Compile compiles an app with the buildpack and decorators chosen by detect
func Compile(logger logging.Logger, newRunner PhaseRunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <build-dir> <cache-dir> [<env-dir>]",
		Args:  phaseArgs(logger, cobra.RangeArgs(2, 3)),
		Short: "Compile an app with the selected buildpack, then each decorator",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			var envDir string
			if len(args) > 2 {
				envDir = args[2]
			}
			return runner.Compile(cmd.Context(), args[0], args[1], envDir)
		}),
	}

	AddHelpFlag(cmd, "compile")
	return cmd
}
