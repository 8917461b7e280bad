package patch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kvit-s/kvit-patch/internal/provider"
)

// Status distinguishes a fully-applied patch from one where chunks were
// skipped on warnings.
type Status string

const (
	StatusApplied Status = "applied"
	StatusPartial Status = "partial"
)

// FileResult describes what happened to one path.
type FileResult struct {
	Action ActionType
	// Deleted marks paths removed, including the old side of a move.
	Deleted bool
	// Content is the final persisted content for created/updated paths.
	Content *string
	// MovePath is set on the old path of a move, naming its new location.
	MovePath string
}

// Result is the outcome of one Apply call. It retains the executed commit so
// Revert can undo it on explicit denial.
type Result struct {
	Status   Status
	Fuzz     int
	Warnings []Warning
	Files    map[string]FileResult
	Order    []string

	commit *Commit
}

// Engine applies patch text through a Provider. It is stateless between
// calls; each Apply owns its transaction via the returned Result.
type Engine struct {
	// SimilarityThreshold overrides DefaultSimilarityThreshold when > 0.
	SimilarityThreshold float64
	// Strict turns the first unmatched-context warning into a fatal error.
	Strict bool

	log *zap.Logger
}

// NewEngine returns an Engine logging through log. A nil log disables
// logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Apply parses and applies patch text. Parse-time fatals return before any
// provider mutation. A failure or cancellation mid-execution triggers a
// best-effort revert of the already-applied changes before the error is
// returned.
func (e *Engine) Apply(ctx context.Context, prov provider.Provider, text string) (*Result, error) {
	orig, err := e.snapshot(prov, text)
	if err != nil {
		return nil, err
	}

	p, fuzz, err := Parse(text, orig, Options{
		SimilarityThreshold: e.SimilarityThreshold,
		Strict:              e.Strict,
	})
	if err != nil {
		return nil, err
	}

	commit, err := ToCommit(p, orig)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Status:   StatusApplied,
		Fuzz:     fuzz,
		Warnings: p.Warnings,
		Files:    map[string]FileResult{},
		commit:   commit,
	}
	if len(p.Warnings) > 0 {
		res.Status = StatusPartial
	}

	var applied []string
	for _, path := range commit.Order {
		if err := ctx.Err(); err != nil {
			e.revertSteps(prov, commit, applied)
			return nil, err
		}
		if err := e.executeChange(ctx, prov, path, commit.Changes[path], res); err != nil {
			e.revertSteps(prov, commit, applied)
			return nil, err
		}
		applied = append(applied, path)
	}

	e.log.Info("patch applied",
		zap.Int("files", len(commit.Order)),
		zap.Int("fuzz", fuzz),
		zap.Int("warnings", len(p.Warnings)),
		zap.String("status", string(res.Status)))
	return res, nil
}

// Revert undoes a fully-applied Result, for the host's denial flow.
func (e *Engine) Revert(ctx context.Context, prov provider.Provider, res *Result) error {
	if res == nil || res.commit == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.revertSteps(prov, res.commit, res.commit.Order)
	res.commit = nil
	return nil
}

// snapshot reads the current content of every path the patch references, so
// parsing and chunk application run against one consistent view.
func (e *Engine) snapshot(prov provider.Provider, text string) (map[string]string, error) {
	orig := map[string]string{}
	for _, path := range IdentifyFilesNeeded(text) {
		content, exists, err := prov.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if exists {
			orig[path] = content
		}
	}
	// Added paths are read too so "File already exists" is caught at parse
	// time.
	for _, path := range IdentifyFilesAdded(text) {
		content, exists, err := prov.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if exists {
			orig[path] = content
		}
	}
	return orig, nil
}

func (e *Engine) executeChange(ctx context.Context, prov provider.Provider, path string, change FileChange, res *Result) error {
	record := func(p string, fr FileResult) {
		res.Files[p] = fr
		res.Order = append(res.Order, p)
	}

	switch change.Type {
	case ActionDelete:
		if err := prov.DeleteFile(ctx, path); err != nil {
			return err
		}
		record(path, FileResult{Action: ActionDelete, Deleted: true})

	case ActionAdd:
		if err := writeThrough(ctx, prov, path, *change.NewContent, true); err != nil {
			return err
		}
		record(path, FileResult{Action: ActionAdd, Content: change.NewContent})

	case ActionUpdate:
		if change.MovePath != "" {
			// Move: create the new path, then drop the old one.
			if err := writeThrough(ctx, prov, change.MovePath, *change.NewContent, true); err != nil {
				return err
			}
			if err := prov.DeleteFile(ctx, path); err != nil {
				// The move is half done and this change is not yet in the
				// revert set; remove the new path here so the workspace is
				// unchanged when the error propagates.
				if derr := prov.DeleteFile(ctx, change.MovePath); derr != nil {
					e.log.Warn("move cleanup failed",
						zap.String("path", change.MovePath), zap.Error(derr))
				}
				return err
			}
			record(change.MovePath, FileResult{Action: ActionAdd, Content: change.NewContent})
			record(path, FileResult{Action: ActionUpdate, Deleted: true, MovePath: change.MovePath})
			return nil
		}
		if err := writeThrough(ctx, prov, path, *change.NewContent, false); err != nil {
			return err
		}
		record(path, FileResult{Action: ActionUpdate, Content: change.NewContent})

	default:
		return fmt.Errorf("unknown change type %q for %s", change.Type, path)
	}
	return nil
}

// revertSteps replays the inverse of the named applied changes in reverse
// order. Each step is best-effort: a failed revert is logged but does not
// mask the original error.
func (e *Engine) revertSteps(prov provider.Provider, commit *Commit, applied []string) {
	ctx := context.Background()
	for i := len(applied) - 1; i >= 0; i-- {
		path := applied[i]
		change := commit.Changes[path]
		var err error
		switch change.Type {
		case ActionDelete:
			err = writeThrough(ctx, prov, path, *change.OldContent, true)
		case ActionAdd:
			err = prov.DeleteFile(ctx, path)
		case ActionUpdate:
			if change.MovePath != "" {
				if derr := prov.DeleteFile(ctx, change.MovePath); derr != nil {
					e.log.Warn("revert step failed",
						zap.String("path", change.MovePath), zap.Error(derr))
				}
				err = writeThrough(ctx, prov, path, *change.OldContent, true)
			} else {
				err = writeThrough(ctx, prov, path, *change.OldContent, false)
			}
		}
		if err != nil {
			e.log.Warn("revert step failed", zap.String("path", path), zap.Error(err))
		}
	}
}

// writeThrough runs one full provider editing cycle for path.
func writeThrough(ctx context.Context, prov provider.Provider, path, content string, create bool) error {
	if err := prov.Open(ctx, path, provider.OpenOptions{Create: create}); err != nil {
		return err
	}
	defer prov.Reset()
	if err := prov.Update(ctx, content, true); err != nil {
		return err
	}
	if _, err := prov.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}
