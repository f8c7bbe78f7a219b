package orchestrator

import (
	"github.com/pkg/errors"
)

// Exit codes of the phases. A failing wrapped entry point exits with its own
// status instead.
const (
	CodeNoBuildpack = 1
	CodeMalformed   = 2
	CodeConfig      = 3
)

// ErrNoBuildpack is returned by detect when no candidate applies
var ErrNoBuildpack = errors.New("no other buildpack selected")

// Error ends a phase with a specific exit code.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) ExitCode() int {
	return e.Code
}

// SoftError ends a phase whose cause has already been reported.
type SoftError struct {
	Err error
}

func (e *SoftError) Error() string {
	return e.Err.Error()
}

func (e *SoftError) Unwrap() error {
	return e.Err
}

func IsSoftError(err error) bool {
	var soft *SoftError
	return errors.As(err, &soft)
}

// ConfigError ends a phase because configuration or saved state is missing or malformed
func ConfigError(err error) error {
	return &Error{Code: CodeConfig, Err: err}
}

// ExitCode returns the process exit status for the result of a phase
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return 1
}
