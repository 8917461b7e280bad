package tools

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/kvit-s/kvit-patch/internal/config"
	"github.com/kvit-s/kvit-patch/internal/patch"
	"github.com/kvit-s/kvit-patch/internal/provider"
	"github.com/kvit-s/kvit-patch/internal/renderer"
)

// ApplyPatchTool applies a V4A-format patch to the workspace.
type ApplyPatchTool struct {
	cfg *config.Config
	log *zap.Logger
}

// NewApplyPatchTool creates a new ApplyPatchTool
func NewApplyPatchTool(cfg *config.Config, log *zap.Logger) *ApplyPatchTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplyPatchTool{cfg: cfg, log: log}
}

type applyPatchArgs struct {
	Patch string `json:"patch"`
}

func (t *ApplyPatchTool) Name() string {
	return "apply_patch"
}

func (t *ApplyPatchTool) Description() string {
	return "Apply a V4A-format patch (Add/Update/Delete file blocks with context-line chunks) to the workspace."
}

func (t *ApplyPatchTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"patch": map[string]any{
				"type":        "string",
				"description": "Complete patch in V4A format, from '*** Begin Patch' to '*** End Patch'.",
			},
		},
		"required": []string{"patch"},
	}
}

func (t *ApplyPatchTool) PromptSection() string {
	return "### apply_patch - Apply V4A Patches\n\n" +
		"**Usage:** `apply_patch {\"patch\": \"<V4A patch>\"}`\n\n" +
		"**Format:**\n" +
		"```\n" +
		"*** Begin Patch\n" +
		"*** Update File: src/main.py\n" +
		"@@ def calculate():\n" +
		"     x = 1\n" +
		"-    return x + 1\n" +
		"+    return x + 2\n" +
		"     # done\n" +
		"*** End Patch\n" +
		"```\n\n" +
		"**Markers:**\n" +
		"- `*** Begin Patch` / `*** End Patch` - wrap the entire patch\n" +
		"- `*** Add File: path` - create a file (every body line starts with `+`)\n" +
		"- `*** Update File: path` - modify a file\n" +
		"- `*** Move to: path` - rename target, directly after an Update line\n" +
		"- `*** Delete File: path` - remove a file\n" +
		"- `@@ scope` - optional function/class name to locate the change\n" +
		"- `*** End of File` - anchor the preceding chunk at the file's tail\n\n" +
		"**Line Prefixes:**\n" +
		"- ` ` (space) - context line (should match file content)\n" +
		"- `-` - line to remove\n" +
		"- `+` - line to add\n\n" +
		"**Rules:**\n" +
		"1. Include 2-3 lines of context before and after changes\n" +
		"2. Chunks whose context cannot be located are skipped and reported as warnings\n" +
		"3. One action per file path per patch"
}

func (t *ApplyPatchTool) Check(ctx context.Context, args json.RawMessage) error {
	var a applyPatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return SemanticErrorf("invalid arguments: %v", err)
	}
	if strings.TrimSpace(a.Patch) == "" {
		return SemanticError("patch must not be empty")
	}
	if max := t.cfg.Engine.MaxPatchSizeKB * 1024; len(a.Patch) > max {
		return SemanticErrorf("patch too large: %d bytes (limit %d KB)", len(a.Patch), t.cfg.Engine.MaxPatchSizeKB)
	}
	return nil
}

func (t *ApplyPatchTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var a applyPatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}

	prov, err := provider.NewDisk(t.cfg.Workspace.Root)
	if err != nil {
		return nil, RuntimeErrorf("workspace: %v", err)
	}

	// Snapshot referenced files so the result can carry per-file diffs.
	before := map[string]string{}
	for _, path := range patch.IdentifyFilesNeeded(a.Patch) {
		if content, exists, rerr := prov.ReadFile(path); rerr == nil && exists {
			before[path] = content
		}
	}

	engine := patch.NewEngine(t.log)
	engine.SimilarityThreshold = t.cfg.Engine.SimilarityThreshold
	engine.Strict = t.cfg.Engine.Strict

	res, err := engine.Apply(ctx, prov, a.Patch)
	if err != nil {
		if patch.IsDiffError(err) {
			// Malformed or mismatched patch text; nothing was changed.
			return nil, SemanticErrorWithDetails(err.Error(), map[string]any{
				"applied": false,
			})
		}
		return nil, RuntimeErrorf("apply patch: %v", err)
	}

	files := make([]map[string]any, 0, len(res.Order))
	var diffs strings.Builder
	for _, path := range res.Order {
		fr := res.Files[path]
		entry := map[string]any{
			"path":   path,
			"action": string(fr.Action),
		}
		if fr.Deleted {
			entry["deleted"] = true
		}
		if fr.MovePath != "" {
			entry["moved_to"] = fr.MovePath
		}
		if fr.Content != nil {
			if d, derr := renderer.UnifiedDiff(before[path], *fr.Content, path); derr == nil {
				diffs.WriteString(d)
			}
		}
		files = append(files, entry)
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.String())
	}

	return map[string]any{
		"success":  true,
		"status":   string(res.Status),
		"fuzz":     res.Fuzz,
		"files":    files,
		"diff":     diffs.String(),
		"warnings": warnings,
	}, nil
}
