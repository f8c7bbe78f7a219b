// Package state persists the decisions made while detecting so that the
// compile and release phases, which run as separate processes, select the
// same buildpacks.
package state

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/buildpacks/meta-buildpack/internal/logging"
	"github.com/buildpacks/meta-buildpack/internal/style"
)

// DefaultFile is the state file name, relative to the build's working directory.
const DefaultFile = ".meta-buildpack.state"

// Keys of the persisted record
const (
	KeyBuildpackName = "buildpack_name"
	KeyBuildpackPath = "buildpack_path"
	KeyDecorators    = "decorators"
)

// Selection is the primary buildpack chosen by detect.
type Selection struct {
	Name string
	// Path is the buildpack's directory name relative to the buildpacks root.
	Path string
}

// Decorator is a buildpack whose decorate entry point applied.
type Decorator struct {
	Name string `json:"decorator_name"`
	Path string `json:"decorator_path"`
}

// Record is the whole persisted aggregate. Fields are kept raw so that a
// save only touches the key it names.
type Record map[string]json.RawMessage

// Store is a JSON file holding one Record. It assumes a single writer.
type Store struct {
	path   string
	logger logging.Logger
}

func NewStore(path string, logger logging.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the location of the state file
func (s *Store) Path() string {
	return s.path
}

// Load reads the full record. A missing or unreadable file yields an empty record.
func (s *Store) Load() Record {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debugf("No saved state at %s: %s", style.Symbol(s.path), err)
		return Record{}
	}

	record := Record{}
	if err := json.Unmarshal(contents, &record); err != nil || record == nil {
		s.logger.Debugf("Ignoring unreadable state at %s", style.Symbol(s.path))
		return Record{}
	}
	return record
}

// Save merges a single key into the persisted record.
func (s *Store) Save(key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding state value %s", style.Symbol(key))
	}

	record := s.Load()
	record[key] = encoded

	contents, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}
	if err := os.WriteFile(s.path, contents, 0644); err != nil {
		return errors.Wrapf(err, "writing state file %s", style.Symbol(s.path))
	}
	return nil
}

// Get decodes the value saved under key into out. It returns false, after
// warning, when the key was never saved.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	raw, ok := s.Load()[key]
	if !ok || string(raw) == "null" {
		s.logger.Warnf("Saved state is missing value for %s", style.Symbol(key))
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "decoding state value %s", style.Symbol(key))
	}
	return true, nil
}

// SaveSelection records the primary buildpack.
func (s *Store) SaveSelection(sel Selection) error {
	if err := s.Save(KeyBuildpackName, sel.Name); err != nil {
		return err
	}
	return s.Save(KeyBuildpackPath, sel.Path)
}

// Selection returns the primary buildpack recorded by detect. The boolean is
// false when either half of the selection is missing.
func (s *Store) Selection() (Selection, bool, error) {
	var sel Selection

	found, err := s.Get(KeyBuildpackName, &sel.Name)
	if err != nil || !found {
		return Selection{}, false, err
	}

	found, err = s.Get(KeyBuildpackPath, &sel.Path)
	if err != nil || !found {
		return Selection{}, false, err
	}

	return sel, true, nil
}

// SaveDecorators records the decorators in scan order. An empty list is
// saved as such rather than omitted.
func (s *Store) SaveDecorators(decorators []Decorator) error {
	if decorators == nil {
		decorators = []Decorator{}
	}
	return s.Save(KeyDecorators, decorators)
}

// Decorators returns the recorded decorators.
func (s *Store) Decorators() ([]Decorator, bool, error) {
	decorators := []Decorator{}
	found, err := s.Get(KeyDecorators, &decorators)
	if err != nil || !found {
		return []Decorator{}, false, err
	}
	return decorators, true, nil
}
