package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/state"
	"github.com/buildpacks/meta-buildpack/internal/style"
)

// DescriptorFile is looked up in the orchestrator's own directory
const DescriptorFile = "meta-buildpack.toml"

// Descriptor holds settings shipped alongside the orchestrator
type Descriptor struct {
	StateFile  string `toml:"state-file"`
	LogLevel   string `toml:"log-level"`
	Timestamps bool   `toml:"timestamps"`
}

func DefaultDescriptor() Descriptor {
	return Descriptor{
		StateFile: state.DefaultFile,
		LogLevel:  "info",
	}
}

// ReadDescriptor reads <dir>/meta-buildpack.toml over the defaults. A missing
// file is not an error.
func ReadDescriptor(dir string, logger logging.Logger) (Descriptor, error) {
	descriptor := DefaultDescriptor()
	if dir == "" {
		return descriptor, nil
	}

	path := filepath.Join(dir, DescriptorFile)
	md, err := toml.DecodeFile(path, &descriptor)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDescriptor(), nil
		}
		return Descriptor{}, errors.Wrapf(err, "reading descriptor %s", style.Symbol(path))
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Ignoring unexpected key(s) in %s: %s", style.Symbol(path), ParseUndecodedKeys(undecoded))
	}

	if descriptor.StateFile == "" {
		descriptor.StateFile = state.DefaultFile
	}
	if descriptor.LogLevel == "" {
		descriptor.LogLevel = "info"
	}

	return descriptor, nil
}
