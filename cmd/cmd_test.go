package cmd_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/meta-buildpack/cmd"
	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/config"
	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/orchestrator"
	h "github.com/buildpacks/meta-buildpack/testhelpers"
)

func TestMetaBuildpackCommand(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "MetaBuildpackCommand", testMetaBuildpackCommand, spec.Report(report.Terminal{}))
}

func testMetaBuildpackCommand(t *testing.T, when spec.G, it spec.S) {
	when("#Args", func() {
		it("uses the program name as the subcommand when installed as an entry point", func() {
			h.AssertEq(t, cmd.Args([]string{"/buildpacks/meta/bin/detect", "/tmp/app"}), []string{"detect", "/tmp/app"})
			h.AssertEq(t, cmd.Args([]string{"bin/compile", "/tmp/app", "/tmp/cache"}), []string{"compile", "/tmp/app", "/tmp/cache"})
			h.AssertEq(t, cmd.Args([]string{"release", "/tmp/app"}), []string{"release", "/tmp/app"})
		})

		it("passes the arguments on otherwise", func() {
			h.AssertEq(t, cmd.Args([]string{"/usr/bin/meta-buildpack", "detect", "/tmp/app"}), []string{"detect", "/tmp/app"})
			h.AssertEq(t, cmd.Args([]string{"bin/decorate", "/tmp/app"}), []string{"/tmp/app"})
		})

		it("handles an empty command line", func() {
			h.AssertEq(t, len(cmd.Args(nil)), 0)
		})
	})

	when("#SelfDir", func() {
		it("is the parent of the bin directory", func() {
			root := h.TempDir(t, "meta-buildpack-self")
			path := h.WriteEntrypoint(t, root, "detect", "exit 0")

			dir, err := cmd.SelfDir(path)
			h.AssertNil(t, err)
			h.AssertEq(t, dir, root)
		})

		it("follows a symlinked bin directory", func() {
			h.SkipUnlessPOSIX(t)
			root := h.TempDir(t, "meta-buildpack-self")
			target := filepath.Join(root, "target")
			h.WriteEntrypoint(t, target, "detect", "exit 0")

			link := filepath.Join(root, "link")
			h.AssertNil(t, os.MkdirAll(link, 0755))
			h.AssertNil(t, os.Symlink(filepath.Join(target, "bin"), filepath.Join(link, "bin")))

			dir, err := cmd.SelfDir(filepath.Join(link, "bin", "detect"))
			h.AssertNil(t, err)
			h.AssertEq(t, dir, target)
		})
	})

	when("running the phases", func() {
		var (
			root      string
			self      string
			appDir    string
			cacheDir  string
			statePath string
			stdout    bytes.Buffer
			stderr    bytes.Buffer
			buildCmd  string
		)

		dirOf := func(identity string) string {
			return filepath.Join(root, buildpack.DirName(identity))
		}

		run := func(args ...string) error {
			h.AssertNil(t, os.Setenv(config.EnvBuildCmd, buildCmd))
			logger := logging.NewLogWithWriter(&stderr)
			command := cmd.NewMetaBuildpackCommand(logger, self)
			command.SetArgs(args)
			command.SetOut(&stdout)
			return command.Execute()
		}

		it.Before(func() {
			h.SkipUnlessPOSIX(t)
			stdout.Reset()
			stderr.Reset()

			root = h.TempDir(t, "meta-buildpack-root")
			appDir = h.TempDir(t, "meta-buildpack-app")
			cacheDir = h.TempDir(t, "meta-buildpack-cache")
			statePath = filepath.Join(appDir, ".meta-buildpack.state")

			self = dirOf("meta")
			h.WriteEntrypoint(t, self, buildpack.Detect, "echo meta")
			h.AssertNil(t, os.WriteFile(filepath.Join(self, config.DescriptorFile),
				[]byte(fmt.Sprintf("state-file = %q\n", statePath)), 0644))

			h.WriteEntrypoint(t, dirOf("ruby"), buildpack.Detect, "exit 1")
			h.WriteEntrypoint(t, dirOf("ruby"), buildpack.Decorate, "exit 1")

			h.WriteEntrypoint(t, dirOf("go"), buildpack.Detect, "echo go")
			h.WriteEntrypoint(t, dirOf("go"), buildpack.Compile, `echo go >> "$1/compiled"`)
			h.WriteEntrypoint(t, dirOf("go"), buildpack.Release, "printf '%s\\n' '---' 'default_process_types:' '  web: ./app'")

			h.WriteEntrypoint(t, dirOf("newrelic"), buildpack.Detect, "echo newrelic")
			h.WriteEntrypoint(t, dirOf("newrelic"), buildpack.Decorate, "echo newrelic")
			h.WriteEntrypoint(t, dirOf("newrelic"), buildpack.Compile, `echo newrelic >> "$1/compiled"`)

			buildCmd = fmt.Sprintf("/tmp/lifecycle/builder -buildpacksDir=%s -buildpackOrder=meta,ruby,go,newrelic", root)
		})

		it.After(func() {
			h.AssertNil(t, os.Unsetenv(config.EnvBuildCmd))
		})

		it("detects, compiles and releases with the selected buildpack and decorators", func() {
			h.AssertNil(t, run("detect", appDir))
			h.AssertEq(t, stdout.String(), "go (with decorator newrelic)\n")
			h.AssertContains(t, stderr.String(), "[meta-buildpack] Selected buildpack 'go'")

			raw, err := os.ReadFile(statePath)
			h.AssertNil(t, err)
			var saved map[string]interface{}
			h.AssertNil(t, json.Unmarshal(raw, &saved))
			h.AssertEq(t, saved["buildpack_name"], "go")
			h.AssertEq(t, saved["buildpack_path"], buildpack.DirName("go"))

			stdout.Reset()
			h.AssertNil(t, run("compile", appDir, cacheDir))
			compiled, err := os.ReadFile(filepath.Join(appDir, "compiled"))
			h.AssertNil(t, err)
			h.AssertEq(t, string(compiled), "go\nnewrelic\n")

			stdout.Reset()
			h.AssertNil(t, run("release", appDir))
			h.AssertEq(t, stdout.String(), "---\ndefault_process_types:\n  web: ./app\n")
		})

		it("never runs its own entry points", func() {
			h.AssertNil(t, run("detect", appDir))
			h.AssertNotContains(t, stdout.String(), "meta")
		})

		it("passes on the exit code of a failing compile", func() {
			h.WriteEntrypoint(t, dirOf("newrelic"), buildpack.Compile, "echo 'agent download failed' >&2\nexit 7")

			h.AssertNil(t, run("detect", appDir))
			err := run("compile", appDir, cacheDir)
			h.AssertEq(t, orchestrator.ExitCode(err), 7)
			h.AssertContains(t, stderr.String(), "agent download failed")
			h.AssertContains(t, stderr.String(), "compile of 'newrelic' failed, passing on exit code '7'")
		})

		when("no buildpack applies", func() {
			it("exits with the no buildpack code and writes no state", func() {
				buildCmd = fmt.Sprintf("/tmp/lifecycle/builder -buildpacksDir=%s -buildpackOrder=meta,ruby", root)

				err := run("detect", appDir)
				h.AssertEq(t, orchestrator.ExitCode(err), orchestrator.CodeNoBuildpack)
				h.AssertEq(t, stdout.String(), "")
				h.AssertPathDoesNotExist(t, statePath)
			})
		})

		when("a candidate has no detect entry point", func() {
			it("skips it", func() {
				buildCmd = fmt.Sprintf("/tmp/lifecycle/builder -buildpacksDir=%s -buildpackOrder=missing,go", root)

				h.AssertNil(t, run("detect", appDir))
				h.AssertEq(t, stdout.String(), "go (no decorators apply)\n")
				h.AssertContains(t, stderr.String(), "bin/detect' not found")
			})
		})

		when("BUILD_CMD is not set", func() {
			it("fails with the config code", func() {
				buildCmd = ""
				h.AssertNil(t, os.Unsetenv(config.EnvBuildCmd))

				logger := logging.NewLogWithWriter(&stderr)
				command := cmd.NewMetaBuildpackCommand(logger, self)
				command.SetArgs([]string{"detect", appDir})
				command.SetOut(&stdout)

				err := command.Execute()
				h.AssertEq(t, orchestrator.ExitCode(err), orchestrator.CodeConfig)
				h.AssertContains(t, stderr.String(), "'BUILD_CMD'")
			})
		})

		when("the command line is not understood", func() {
			it("fails an unknown command with the config code", func() {
				err := run("stage", appDir)
				h.AssertEq(t, orchestrator.ExitCode(err), orchestrator.CodeConfig)
				h.AssertContains(t, stderr.String(), "unknown command 'stage'")
			})

			it("fails an unknown flag with the config code", func() {
				err := run("detect", "--bogus", appDir)
				h.AssertEq(t, orchestrator.ExitCode(err), orchestrator.CodeConfig)
				h.AssertContains(t, stderr.String(), "unknown flag: --bogus")
				h.AssertPathDoesNotExist(t, statePath)
			})
		})

		when("META_BUILDPACK_VERBOSE is set", func() {
			it("logs debug output", func() {
				h.AssertNil(t, os.Setenv(cmd.EnvVerbose, "true"))
				defer os.Unsetenv(cmd.EnvVerbose)

				h.AssertNil(t, run("detect", appDir))
				h.AssertContains(t, stderr.String(), "DEBUG: Using state file '"+statePath+"'")
				h.AssertContains(t, stderr.String(), "DEBUG: Buildpack order: 'meta', 'ruby', 'go', 'newrelic'")
			})
		})

		when("--quiet is given", func() {
			it("only logs warnings and errors", func() {
				h.AssertNil(t, run("detect", "--quiet", appDir))
				h.AssertEq(t, strings.Contains(stderr.String(), "Selected buildpack"), false)
				h.AssertEq(t, stdout.String(), "go (with decorator newrelic)\n")
				h.AssertNotContains(t, stderr.String(), "Using state file")
			})
		})
	})
}
