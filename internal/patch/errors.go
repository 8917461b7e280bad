package patch

import (
	"fmt"
	"unicode/utf8"
)

// DiffError is the fatal error class for patch parsing and application.
// A DiffError aborts the whole patch; nothing is written to the provider
// once one is raised at parse time.
type DiffError struct {
	msg string
}

func (e *DiffError) Error() string { return e.msg }

func diffErrorf(format string, a ...any) *DiffError {
	return &DiffError{msg: fmt.Sprintf(format, a...)}
}

// IsDiffError reports whether err is a fatal patch error as opposed to an
// I/O failure from the file provider.
func IsDiffError(err error) bool {
	_, ok := err.(*DiffError)
	return ok
}

// warningContextLimit caps how much of the unmatched context text is carried
// in a Warning; enough for the agent to recognize the chunk, not the whole
// file.
const warningContextLimit = 240

// Warning records a chunk that could not be confidently located. The chunk
// is skipped; the rest of the patch proceeds.
type Warning struct {
	Path       string
	ChunkIndex int
	Message    string
	Context    string
	BestScore  float64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: chunk %d: %s (best similarity %.2f)", w.Path, w.ChunkIndex, w.Message, w.BestScore)
}

func truncateContext(s string) string {
	if len(s) <= warningContextLimit {
		return s
	}
	cut := warningContextLimit
	// Back up to a rune boundary so the warning text stays valid UTF-8.
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
