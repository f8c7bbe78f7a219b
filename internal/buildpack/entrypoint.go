package buildpack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// Entry points defined by the buildpack contract
const (
	Detect   = "detect"
	Decorate = "decorate"
	Compile  = "compile"
	Release  = "release"
)

// ErrMissingEntrypoint matches every MissingEntrypointError
var ErrMissingEntrypoint = errors.New("entry point not found")

// MissingEntrypointError is returned when an entry point could not be started
// at all: it is absent, not executable, or not a valid executable.
type MissingEntrypointError struct {
	Path string
	Err  error
}

func (e *MissingEntrypointError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Path, e.Err)
}

func (e *MissingEntrypointError) Unwrap() error {
	return e.Err
}

func (e *MissingEntrypointError) Is(target error) bool {
	return target == ErrMissingEntrypoint
}

// FailedError is returned when an entry point ran and exited non-zero.
type FailedError struct {
	Path string
	Code int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Path, e.Code)
}

// ExitCode is the status of the failed entry point
func (e *FailedError) ExitCode() int {
	return e.Code
}

//go:generate mockgen -package testmocks -destination ../../testmocks/mock_runner.go github.com/buildpacks/meta-buildpack/internal/buildpack Runner

// Runner invokes buildpack entry points.
type Runner interface {
	// Output runs the entry point and returns what it wrote to stdout.
	Output(ctx context.Context, dir, entrypoint string, args ...string) (string, error)
	// Run runs the entry point, passing its output through.
	Run(ctx context.Context, dir, entrypoint string, args ...string) error
}

// EntrypointPath returns the path of an entry point inside a buildpack directory
func EntrypointPath(dir, entrypoint string) string {
	return filepath.Join(dir, "bin", entrypoint)
}

// ExecRunner runs entry points as child processes, one at a time.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{
		Stdout: stdout,
		Stderr: stderr,
	}
}

func (r *ExecRunner) Output(ctx context.Context, dir, entrypoint string, args ...string) (string, error) {
	path := EntrypointPath(dir, entrypoint)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), classify(path, err)
	}
	return stdout.String(), nil
}

func (r *ExecRunner) Run(ctx context.Context, dir, entrypoint string, args ...string) error {
	path := EntrypointPath(dir, entrypoint)

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return classify(path, err)
	}
	return nil
}

func classify(path string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			// terminated by a signal
			code = 1
		}
		return &FailedError{Path: path, Code: code}
	}
	return &MissingEntrypointError{Path: path, Err: err}
}
