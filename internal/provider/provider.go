// Package provider defines the narrow file-access contract the patch engine
// depends on. The engine never touches the host's storage directly; it opens
// one file at a time, streams content updates into it, and either saves or
// reverts. Disk and Memory are the two shipped implementations.
package provider

import "context"

// OpenOptions controls how Open treats a missing file.
type OpenOptions struct {
	// Create allows opening a path that does not exist yet; its original
	// content is the empty string and SaveChanges will create it.
	Create bool
}

// FileOpsResult describes the outcome of SaveChanges for one file.
type FileOpsResult struct {
	// FinalContent is the content actually persisted, which may differ from
	// the last Update if the host post-processed it.
	FinalContent *string
	// Deleted marks a path removed as part of the operation (the old side of
	// a move).
	Deleted bool
	// UserEdits carries host-side modifications made while the file was
	// open, if the implementation tracks them.
	UserEdits *string
}

// Provider is the file collaborator supplied by the host. At most one file
// is open at a time; Open, Update, SaveChanges or RevertChanges, then Reset
// form one editing cycle.
type Provider interface {
	// Open begins an editing cycle for path.
	Open(ctx context.Context, path string, opts OpenOptions) error
	// Update replaces the pending content of the open file. final=false is a
	// streaming preview update; final=true is the content SaveChanges will
	// persist.
	Update(ctx context.Context, content string, final bool) error
	// SaveChanges persists the pending content of the open file.
	SaveChanges(ctx context.Context) (FileOpsResult, error)
	// RevertChanges discards the pending content of the open file and, if it
	// was already saved within this cycle, restores the original.
	RevertChanges(ctx context.Context) error
	// Reset ends the editing cycle without touching storage.
	Reset()
	// OriginalContent returns the open file's content as of Open.
	OriginalContent() string

	// DeleteFile removes a path from storage. It does not require an open
	// cycle.
	DeleteFile(ctx context.Context, path string) error
	// ReadFile returns a path's current content and whether it exists.
	ReadFile(path string) (string, bool, error)
}
