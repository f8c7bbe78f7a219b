package orchestrator

import (
	"strings"
	"unicode/utf8"
)

const (
	maxNoteLength = 128
	// the platform rejects detect output of this length or more
	maxDetectOutput = 255
	ellipsis        = "..."
)

// Summary renders what detect prints: the primary buildpack's name followed
// by a note naming the decorators.
func Summary(name string, decorators []string) string {
	note := decoratorNote(decorators)

	if len(name)+1+len(note) >= maxDetectOutput {
		keep := maxDetectOutput - 1 - len(note) - 1 - len(ellipsis)
		if keep < 0 {
			keep = 0
		}
		for keep > 0 && !utf8.RuneStart(name[keep]) {
			keep--
		}
		name = name[:keep] + ellipsis
	}

	return name + " " + note
}

func decoratorNote(decorators []string) string {
	switch len(decorators) {
	case 0:
		return "(no decorators apply)"
	case 1:
		if note := "(with decorator " + decorators[0] + ")"; len(note) <= maxNoteLength {
			return note
		}
		// a single long name collapses too, keeping the note within maxNoteLength
		return "(with decorator)"
	default:
		if note := "(with decorators " + strings.Join(decorators, ", ") + ")"; len(note) <= maxNoteLength {
			return note
		}
		return "(with decorators)"
	}
}
