package orchestrator

import (
	"context"

	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/config"
)

// Release runs the release entry point of the selected buildpack only;
// decorators take no part in release.
func (o *Orchestrator) Release(ctx context.Context, buildDir string) error {
	if err := o.config.Require(config.KeyBuildpacksDir); err != nil {
		return ConfigError(err)
	}

	sel, err := o.loadSelection()
	if err != nil {
		return err
	}

	o.logger.Debugf("Releasing with %s", sel.Name)
	return o.invoke(ctx, buildpack.Release, sel.Name, sel.Path, buildDir)
}
