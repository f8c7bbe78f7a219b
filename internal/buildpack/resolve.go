package buildpack

import (
	"os"
	"path/filepath"
)

// Candidate is a buildpack from the configured order, located on disk.
type Candidate struct {
	Identity string
	// DirName is the hashed directory name relative to the buildpacks root.
	DirName string
	Path    string
}

// Resolve maps each identity in order to its directory under root. The
// orchestrator's own directory (self) is left out so it never invokes itself.
// Directories are not checked for existence.
func Resolve(order []string, root, self string) []Candidate {
	candidates := make([]Candidate, 0, len(order))
	for _, identity := range order {
		name := DirName(identity)
		path := filepath.Join(root, name)
		if self != "" && sameDir(path, self) {
			continue
		}
		candidates = append(candidates, Candidate{
			Identity: identity,
			DirName:  name,
			Path:     path,
		})
	}
	return candidates
}

// Locate returns the directory of a previously resolved candidate.
func Locate(root, dirName string) string {
	return filepath.Join(root, dirName)
}

// sameDir reports whether a and b name the same directory, following
// symlinks. Paths which do not exist are compared as cleaned absolute paths.
func sameDir(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(infoA, infoB)
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
