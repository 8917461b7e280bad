package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Disk is the workspace-backed Provider. Every path is resolved against and
// confined to the workspace root; writes are atomic (temp file + rename).
type Disk struct {
	root string

	open     bool
	path     string // resolved absolute path
	relPath  string
	original string
	pending  string
	isNew    bool
	saved    bool
}

// NewDisk returns a Disk provider rooted at root.
func NewDisk(root string) (*Disk, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	return &Disk{root: abs}, nil
}

// resolve confines a patch path to the workspace root.
func (d *Disk) resolve(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(d.root, abs)
	}
	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(d.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes workspace root: %s", path)
	}
	return abs, nil
}

func (d *Disk) Open(ctx context.Context, path string, opts OpenOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.open {
		return fmt.Errorf("file already open: %s", d.relPath)
	}
	abs, err := d.resolve(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(abs)
	switch {
	case err == nil:
		d.original = string(data)
		d.isNew = false
	case os.IsNotExist(err) && opts.Create:
		d.original = ""
		d.isNew = true
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}

	d.open = true
	d.path = abs
	d.relPath = path
	d.pending = d.original
	d.saved = false
	return nil
}

func (d *Disk) Update(ctx context.Context, content string, final bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.open {
		return fmt.Errorf("no open file")
	}
	d.pending = content
	return nil
}

func (d *Disk) SaveChanges(ctx context.Context) (FileOpsResult, error) {
	if err := ctx.Err(); err != nil {
		return FileOpsResult{}, err
	}
	if !d.open {
		return FileOpsResult{}, fmt.Errorf("no open file")
	}
	if err := writeFileAtomic(d.path, d.pending, d.isNew); err != nil {
		return FileOpsResult{}, fmt.Errorf("save %s: %w", d.relPath, err)
	}
	d.saved = true
	content := d.pending
	return FileOpsResult{FinalContent: &content}, nil
}

func (d *Disk) RevertChanges(ctx context.Context) error {
	if !d.open {
		return nil
	}
	defer d.Reset()
	if !d.saved {
		return nil
	}
	if d.isNew {
		if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("revert %s: %w", d.relPath, err)
		}
		return nil
	}
	if err := writeFileAtomic(d.path, d.original, false); err != nil {
		return fmt.Errorf("revert %s: %w", d.relPath, err)
	}
	return nil
}

func (d *Disk) Reset() {
	d.open = false
	d.path = ""
	d.relPath = ""
	d.original = ""
	d.pending = ""
	d.isNew = false
	d.saved = false
}

func (d *Disk) OriginalContent() string { return d.original }

// Pending returns the open file's buffered content and whether a file is
// open. Nothing is on disk until SaveChanges.
func (d *Disk) Pending() (string, bool) {
	return d.pending, d.open
}

// OpenPath returns the workspace-relative path of the open file, if any.
func (d *Disk) OpenPath() (string, bool) {
	return d.relPath, d.open
}

func (d *Disk) DeleteFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (d *Disk) ReadFile(path string) (string, bool, error) {
	abs, err := d.resolve(path)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), true, nil
}

// writeFileAtomic writes content via a temp file and rename so readers never
// observe a partial file.
func writeFileAtomic(fullPath, content string, isNew bool) error {
	if isNew {
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(fullPath), ".patch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	info, _ := os.Stat(fullPath)
	if info != nil {
		_ = os.Chmod(tempPath, info.Mode())
	} else {
		_ = os.Chmod(tempPath, 0644)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		return fmt.Errorf("atomic rename failed: %w", err)
	}
	return nil
}
