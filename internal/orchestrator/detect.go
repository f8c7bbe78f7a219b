package orchestrator

import (
	"context"

	"github.com/pkg/errors"

	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/config"
	"github.com/buildpacks/meta-buildpack/internal/state"
	"github.com/buildpacks/meta-buildpack/internal/style"
)

// Detect selects the first candidate whose detect entry point succeeds, then
// every candidate whose decorate entry point succeeds, and records both. It
// returns the line to print as this buildpack's detect output.
func (o *Orchestrator) Detect(ctx context.Context, buildDir string) (string, error) {
	if err := o.config.Require(config.KeyBuildpacksDir, config.KeyBuildpackOrder); err != nil {
		return "", ConfigError(err)
	}

	candidates := o.Candidates()
	o.logger.Debugf("Detecting among %d candidate(s) in %s", len(candidates), style.Symbol(o.config.BuildpacksDir))

	sel, err := o.detectBuildpack(ctx, buildDir, candidates)
	if err != nil {
		return "", err
	}

	decorators, err := o.detectDecorators(ctx, buildDir, candidates)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(decorators))
	for _, d := range decorators {
		names = append(names, d.Name)
	}
	return Summary(sel.Name, names), nil
}

func (o *Orchestrator) detectBuildpack(ctx context.Context, buildDir string, candidates []buildpack.Candidate) (state.Selection, error) {
	for _, c := range candidates {
		out, err := o.runner.Output(ctx, c.Path, buildpack.Detect, buildDir)
		if err != nil {
			if errors.Is(err, buildpack.ErrMissingEntrypoint) {
				o.logger.Infof("%s not found", style.Symbol(buildpack.EntrypointPath(c.Path, buildpack.Detect)))
			} else {
				o.logger.Debugf("Buildpack %s does not apply: %s", style.Symbol(c.Identity), err)
			}
			continue
		}

		sel := state.Selection{Name: trimName(out), Path: c.DirName}
		o.logger.Infof("Selected buildpack %s", style.Symbol(sel.Name))

		if err := o.store.SaveSelection(sel); err != nil {
			return state.Selection{}, ConfigError(errors.Wrap(err, "saving selected buildpack"))
		}
		return sel, nil
	}

	return state.Selection{}, &Error{Code: CodeNoBuildpack, Err: ErrNoBuildpack}
}

// detectDecorators probes every candidate, including the selected one.
// Failures only mean the candidate does not decorate this app.
func (o *Orchestrator) detectDecorators(ctx context.Context, buildDir string, candidates []buildpack.Candidate) ([]state.Decorator, error) {
	decorators := []state.Decorator{}
	for _, c := range candidates {
		out, err := o.runner.Output(ctx, c.Path, buildpack.Decorate, buildDir)
		if err != nil {
			continue
		}

		d := state.Decorator{Name: trimName(out), Path: c.DirName}
		o.logger.Infof("Selected decorator %s", style.Symbol(d.Name))
		decorators = append(decorators, d)
	}

	if err := o.store.SaveDecorators(decorators); err != nil {
		return nil, ConfigError(errors.Wrap(err, "saving decorators"))
	}
	return decorators, nil
}
