// Package orchestrator implements the detect, compile and release phases of
// the meta buildpack. Each phase runs in its own process; detect records its
// choices in the state store and the later phases replay them.
package orchestrator

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/config"
	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/state"
	"github.com/buildpacks/meta-buildpack/internal/style"
)

// StateStore persists detect's decisions between phases
type StateStore interface {
	SaveSelection(sel state.Selection) error
	Selection() (state.Selection, bool, error)
	SaveDecorators(decorators []state.Decorator) error
	Decorators() ([]state.Decorator, bool, error)
}

type Options struct {
	Config config.Config
	// Self is the orchestrator's own buildpack directory
	Self   string
	Logger logging.Logger
	Runner buildpack.Runner
	Store  StateStore
}

// Orchestrator runs one phase. It is built once per process from explicit
// options and holds no state of its own between calls.
type Orchestrator struct {
	config config.Config
	self   string
	logger logging.Logger
	runner buildpack.Runner
	store  StateStore
}

func New(opts Options) *Orchestrator {
	return &Orchestrator{
		config: opts.Config,
		self:   opts.Self,
		logger: opts.Logger,
		runner: opts.Runner,
		store:  opts.Store,
	}
}

// Candidates resolves the configured buildpack order
func (o *Orchestrator) Candidates() []buildpack.Candidate {
	return buildpack.Resolve(o.config.BuildpackOrder, o.config.BuildpacksDir, o.self)
}

func (o *Orchestrator) loadSelection() (state.Selection, error) {
	sel, found, err := o.store.Selection()
	if err != nil {
		return state.Selection{}, ConfigError(errors.Wrap(err, "loading selected buildpack"))
	}
	if !found {
		return state.Selection{}, ConfigError(errors.New("no buildpack was selected during detect"))
	}
	return sel, nil
}

// invoke runs an entry point of a buildpack chosen during detect. Any failure
// is fatal: a missing entry point ends with CodeMalformed, a failing one with
// its own exit status.
func (o *Orchestrator) invoke(ctx context.Context, entrypoint, name, dirName string, args ...string) error {
	dir := buildpack.Locate(o.config.BuildpacksDir, dirName)

	err := o.runner.Run(ctx, dir, entrypoint, args...)
	if err == nil {
		return nil
	}

	var failed *buildpack.FailedError
	if errors.As(err, &failed) {
		o.logger.Errorf("%s of %s failed, passing on exit code %s", entrypoint, style.Symbol(name), style.Code(failed.Code))
		return &SoftError{Err: err}
	}

	if errors.Is(err, buildpack.ErrMissingEntrypoint) {
		return &Error{Code: CodeMalformed, Err: errors.Wrapf(err, "running %s of %s", entrypoint, style.Symbol(name))}
	}

	return errors.Wrapf(err, "running %s of %s", entrypoint, style.Symbol(name))
}

func trimName(out string) string {
	return strings.TrimRight(out, "\r\n")
}
