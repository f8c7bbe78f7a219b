package main

import (
	"os"

	"github.com/heroku/color"

	"github.com/buildpacks/meta-buildpack/cmd"
	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/orchestrator"
)

func main() {
	logger := logging.NewLogWithWriter(os.Stderr)
	if _, isTerm := logging.IsTerminal(os.Stderr); !isTerm {
		color.Disable(true)
	}

	selfDir, err := cmd.SelfDir(os.Args[0])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(orchestrator.CodeConfig)
	}

	rootCmd := cmd.NewMetaBuildpackCommand(logger, selfDir)
	rootCmd.SetArgs(cmd.Args(os.Args))

	os.Exit(orchestrator.ExitCode(rootCmd.Execute()))
}
