package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/heroku/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/commands"
	"github.com/buildpacks/meta-buildpack/internal/config"
	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/orchestrator"
	"github.com/buildpacks/meta-buildpack/internal/state"
	"github.com/buildpacks/meta-buildpack/internal/style"
)

// EnvVerbose turns on debug output where the platform cannot pass flags
const EnvVerbose = "META_BUILDPACK_VERBOSE"

// ConfigurableLogger defines behavior required by the MetaBuildpackCommand
type ConfigurableLogger interface {
	logging.Logger
	WantTime(f bool)
	WantQuiet(f bool)
	WantVerbose(f bool)
	WantLevel(level string) error
}

// NewMetaBuildpackCommand generates the meta-buildpack command. selfDir is the
// orchestrator's own buildpack directory; it holds the optional descriptor and
// is never run as a candidate.
func NewMetaBuildpackCommand(logger ConfigurableLogger, selfDir string) *cobra.Command {
	cobra.EnableCommandSorting = false
	descriptor := config.DefaultDescriptor()

	rootCmd := &cobra.Command{
		Use:   "meta-buildpack",
		Short: "Buildpack that runs the first matching buildpack plus every applicable decorator",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			err := errors.Errorf("unknown command %s for %s", style.Symbol(args[0]), style.Symbol(cmd.CommandPath()))
			logger.Error(err.Error())
			return orchestrator.ConfigError(err)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if flag, err := fs.GetBool("no-color"); err == nil && flag {
				color.Disable(true)
			}

			var err error
			descriptor, err = config.ReadDescriptor(selfDir, logger)
			if err != nil {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				logger.Error(err.Error())
				return orchestrator.ConfigError(err)
			}
			if err := logger.WantLevel(descriptor.LogLevel); err != nil {
				logger.Warnf("%s, using 'info'", err)
			}
			logger.WantTime(descriptor.Timestamps)

			if flag, err := fs.GetBool("timestamps"); err == nil && fs.Changed("timestamps") {
				logger.WantTime(flag)
			}
			if flag, err := fs.GetBool("quiet"); err == nil && flag {
				logger.WantQuiet(flag)
			}
			if verbose, _ := strconv.ParseBool(os.Getenv(EnvVerbose)); verbose {
				logger.WantVerbose(true)
			}
			if flag, err := fs.GetBool("verbose"); err == nil && flag {
				logger.WantVerbose(flag)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("timestamps", false, "Enable timestamps in output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Show less output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show more output")

	commands.AddHelpFlag(rootCmd, "meta-buildpack")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		logger.Errorf("%s (usage: %s)", err, cmd.UseLine())
		return orchestrator.ConfigError(err)
	})

	newRunner := func(cmd *cobra.Command) (commands.PhaseRunner, error) {
		cfg, err := config.FromEnv()
		if err != nil {
			return nil, orchestrator.ConfigError(err)
		}

		store := state.NewStore(descriptor.StateFile, logger)
		if logger.IsVerbose() {
			logger.Debugf("Running %s from %s", style.Symbol(cmd.Name()), style.Symbol(selfDir))
			logger.Debugf("Using state file %s", style.Symbol(store.Path()))
			logger.Debugf("Buildpack order: %s", style.List(cfg.BuildpackOrder))
		}

		return orchestrator.New(orchestrator.Options{
			Config: cfg,
			Self:   selfDir,
			Logger: logger,
			Runner: buildpack.NewExecRunner(cmd.OutOrStdout(), cmd.ErrOrStderr()),
			Store:  store,
		}), nil
	}

	rootCmd.AddCommand(commands.Detect(logger, newRunner))
	rootCmd.AddCommand(commands.Compile(logger, newRunner))
	rootCmd.AddCommand(commands.Release(logger, newRunner))

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetErr(logger.Writer())

	return rootCmd
}

// SelfDir returns the buildpack directory the program was started from, that
// is the parent of the bin/ directory holding it. The program name is used when
// it is a path so that a symlinked bin/detect resolves to its own buildpack.
func SelfDir(argv0 string) (string, error) {
	exe := argv0
	if !strings.ContainsRune(exe, filepath.Separator) {
		var err error
		if exe, err = os.Executable(); err != nil {
			return "", errors.Wrap(err, "locating executable")
		}
	}

	binDir, err := filepath.Abs(filepath.Dir(exe))
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", style.Symbol(exe))
	}

	if resolved, err := filepath.EvalSymlinks(binDir); err == nil {
		binDir = resolved
	}
	return filepath.Dir(binDir), nil
}

// Args returns the command line arguments for the root command. When the
// program runs as bin/detect, bin/compile or bin/release, its name selects the
// subcommand.
func Args(osArgs []string) []string {
	if len(osArgs) == 0 {
		return nil
	}

	switch name := filepath.Base(osArgs[0]); name {
	case buildpack.Detect, buildpack.Compile, buildpack.Release:
		return append([]string{name}, osArgs[1:]...)
	}
	return osArgs[1:]
}
