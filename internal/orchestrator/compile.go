package orchestrator

import (
	"context"

	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/config"
	"github.com/buildpacks/meta-buildpack/internal/style"
)

// Compile runs the compile entry point of the buildpack selected during
// detect, then of each decorator in the order they were found. The first
// failure stops the phase. Every compile gets the same three arguments.
func (o *Orchestrator) Compile(ctx context.Context, buildDir, cacheDir, envDir string) error {
	if err := o.config.Require(config.KeyBuildpacksDir); err != nil {
		return ConfigError(err)
	}

	sel, err := o.loadSelection()
	if err != nil {
		return err
	}

	decorators, _, err := o.store.Decorators()
	if err != nil {
		return ConfigError(err)
	}

	if err := o.compile(ctx, sel.Name, sel.Path, buildDir, cacheDir, envDir); err != nil {
		return err
	}

	for _, d := range decorators {
		if err := o.compile(ctx, d.Name, d.Path, buildDir, cacheDir, envDir); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) compile(ctx context.Context, name, dirName, buildDir, cacheDir, envDir string) error {
	o.logger.Info(style.Step("Compiling with %s", style.Symbol(name)))

	return o.invoke(ctx, buildpack.Compile, name, dirName, buildDir, cacheDir, envDir)
}
