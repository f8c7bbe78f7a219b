// Package config reads the builder command line handed to the buildpack
// through the environment, and the orchestrator's optional descriptor.
package config

import (
	"fmt"
	"os"
	"strings"

	shell "github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"github.com/buildpacks/meta-buildpack/internal/style"
)

const (
	// EnvBuildCmd holds the platform's builder command line
	EnvBuildCmd = "BUILD_CMD"

	KeyBuildpacksDir  = "buildpacksDir"
	KeyBuildpackOrder = "buildpackOrder"

	builderSuffix = "/builder"
)

// Config is the parsed builder command line
type Config struct {
	// Builder is the first word of the command line
	Builder        string
	BuildpacksDir  string
	BuildpackOrder []string
	// Args holds every -key=value pair, including the ones above
	Args map[string]string
}

// MalformedError describes a builder command line which could not be parsed
type MalformedError struct {
	BuildCmd string
	Reason   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s is malformed: %s (found %s)", EnvBuildCmd, e.Reason, style.Symbol(e.BuildCmd))
}

// MissingArgumentsError lists every required argument absent from the command line
type MissingArgumentsError struct {
	Keys []string
}

func (e *MissingArgumentsError) Error() string {
	flags := make([]string, 0, len(e.Keys))
	for _, k := range e.Keys {
		flags = append(flags, "-"+k)
	}
	return fmt.Sprintf("%s is missing argument(s) %s", EnvBuildCmd, style.List(flags))
}

// FromEnv parses the command line held by BUILD_CMD
func FromEnv() (Config, error) {
	buildCmd, ok := os.LookupEnv(EnvBuildCmd)
	if !ok {
		return Config{}, errors.Errorf("environment variable %s is expected to be set to the builder command line", style.Symbol(EnvBuildCmd))
	}
	return Parse(buildCmd)
}

// Parse parses a builder command line of the form
// `<path>/builder -key=value -key=value ...`. Words are split with shell
// quoting rules; nothing is expanded, so values such as buildpack URLs are
// kept as written.
func Parse(buildCmd string) (Config, error) {
	words, err := shell.Split(buildCmd)
	if err != nil {
		return Config{}, &MalformedError{BuildCmd: buildCmd, Reason: err.Error()}
	}

	if len(words) < 1 || !strings.HasSuffix(words[0], builderSuffix) {
		return Config{}, &MalformedError{BuildCmd: buildCmd, Reason: "expected the builder command line"}
	}

	cfg := Config{
		Builder: words[0],
		Args:    map[string]string{},
	}

	for _, word := range words[1:] {
		if !strings.HasPrefix(word, "-") {
			return Config{}, &MalformedError{BuildCmd: buildCmd, Reason: fmt.Sprintf("argument %s does not start with a dash (-)", style.Symbol(word))}
		}
		parts := strings.SplitN(strings.TrimLeft(word, "-"), "=", 2)
		if len(parts) != 2 {
			return Config{}, &MalformedError{BuildCmd: buildCmd, Reason: fmt.Sprintf("argument %s is not of the form -key=value", style.Symbol(word))}
		}
		cfg.Args[parts[0]] = parts[1]
	}

	cfg.BuildpacksDir = cfg.Args[KeyBuildpacksDir]
	cfg.BuildpackOrder = splitOrder(cfg.Args[KeyBuildpackOrder])

	return cfg, nil
}

// Require fails when any of keys is absent, naming all of them
func (c Config) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := c.Args[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &MissingArgumentsError{Keys: missing}
	}
	return nil
}

func splitOrder(order string) []string {
	var identities []string
	for _, identity := range strings.Split(order, ",") {
		if identity = strings.TrimSpace(identity); identity != "" {
			identities = append(identities, identity)
		}
	}
	return identities
}
