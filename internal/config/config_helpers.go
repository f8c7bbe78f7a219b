package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/buildpacks/meta-buildpack/internal/style"
)

// ParseUndecodedKeys renders the top-level keys toml could not map onto a struct
func ParseUndecodedKeys(undecodedKeys []toml.Key) string {
	unusedKeys := map[string]interface{}{}
	for _, key := range undecodedKeys {
		unusedKeys[strings.Split(key.String(), ".")[0]] = nil
	}

	var errorKeys []string
	for errorKey := range unusedKeys {
		errorKeys = append(errorKeys, errorKey)
	}
	sort.Strings(errorKeys)
	return style.List(errorKeys)
}
