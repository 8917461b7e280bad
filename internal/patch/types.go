// Package patch implements parsing and application of V4A-format patches:
// sentinel-delimited Add/Update/Delete blocks with unified-diff-like chunks,
// located in the target file by fuzzy context matching.
package patch

// ActionType identifies the kind of file operation in a patch.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Chunk is a contiguous delete+insert span inside an Update action.
// OrigIndex is the 0-based offset into the original file's line array at
// which DelLines begins. Chunks are resolved once against the original
// lines and applied in ascending OrigIndex order.
type Chunk struct {
	OrigIndex int
	DelLines  []string
	InsLines  []string
}

// Action is a single file operation within a Patch.
type Action struct {
	Type     ActionType
	NewFile  *string // Add only: full new content
	Chunks   []Chunk // Update only
	MovePath string  // Update only: rename target
}

// Patch is the parsed form of a patch text. Each path appears in Actions at
// most once; Order preserves declaration order for application.
type Patch struct {
	Actions  map[string]*Action
	Order    []string
	Warnings []Warning
}

// FileChange is the resolved change for one path, carrying enough state to
// revert it.
type FileChange struct {
	Type       ActionType
	OldContent *string
	NewContent *string
	MovePath   string
}

// Commit is the file-level change set derived from a Patch against a
// snapshot of original file contents, ready for sequential application.
type Commit struct {
	Changes map[string]FileChange
	Order   []string
}
