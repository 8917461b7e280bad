package patch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kvit-s/kvit-patch/internal/provider"
)

// Previewer renders an incremental preview of a patch while its text is
// still streaming in. It scans the available prefix for the first action
// marker and pushes non-final content updates through the provider; it never
// runs the full parser and never persists anything. Malformed or truncated
// prefixes are tolerated silently.
type Previewer struct {
	prov provider.Provider
	log  *zap.Logger

	opened bool
	path   string
}

// NewPreviewer returns a Previewer rendering through prov. A nil log
// disables logging.
func NewPreviewer(prov provider.Provider, log *zap.Logger) *Previewer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Previewer{prov: prov, log: log}
}

// Feed processes the patch text received so far. It is cumulative: pass the
// whole prefix each time, not the delta.
func (pv *Previewer) Feed(ctx context.Context, prefix string) {
	lines := splitLines(prefix)
	// The last line is complete only if the prefix ends at a line break.
	if len(lines) > 0 && !strings.HasSuffix(prefix, "\n") && !strings.HasSuffix(prefix, "\r") {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		t := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(t, addMarker):
			path := strings.TrimSpace(t[len(addMarker):])
			pv.ensureOpen(ctx, path, true)
			pv.renderAdd(ctx, lines[i+1:])
			return
		case strings.HasPrefix(t, updateMarker):
			path := strings.TrimSpace(t[len(updateMarker):])
			pv.ensureOpen(ctx, path, false)
			return
		case strings.HasPrefix(t, deleteMarker):
			path := strings.TrimSpace(t[len(deleteMarker):])
			pv.ensureOpen(ctx, path, false)
			return
		}
	}
}

// Discard drops the preview without persisting anything.
func (pv *Previewer) Discard(ctx context.Context) {
	if !pv.opened {
		return
	}
	if err := pv.prov.RevertChanges(ctx); err != nil {
		pv.log.Debug("preview discard failed", zap.String("path", pv.path), zap.Error(err))
	}
	pv.opened = false
	pv.path = ""
}

func (pv *Previewer) ensureOpen(ctx context.Context, path string, create bool) {
	if pv.opened && pv.path == path {
		return
	}
	if pv.opened {
		pv.Discard(ctx)
	}
	if err := pv.prov.Open(ctx, path, provider.OpenOptions{Create: create}); err != nil {
		pv.log.Debug("preview open failed", zap.String("path", path), zap.Error(err))
		return
	}
	pv.opened = true
	pv.path = path
}

func (pv *Previewer) renderAdd(ctx context.Context, lines []string) {
	if !pv.opened {
		return
	}
	var content []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "+") {
			break
		}
		content = append(content, line[1:])
	}
	if len(content) == 0 {
		return
	}
	if err := pv.prov.Update(ctx, strings.Join(content, "\n"), false); err != nil {
		pv.log.Debug("preview update failed", zap.String("path", pv.path), zap.Error(err))
	}
}
