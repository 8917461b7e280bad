package provider

import (
	"context"
	"fmt"
	"sort"
)

// Memory is a map-backed Provider for tests and dry runs. It mirrors Disk's
// editing-cycle semantics without touching storage.
type Memory struct {
	files map[string]string

	open     bool
	path     string
	original string
	pending  string
	isNew    bool
	saved    bool
}

// NewMemory returns a Memory provider seeded with the given files.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: map[string]string{}}
	for p, c := range files {
		m.files[p] = c
	}
	return m
}

func (m *Memory) Open(ctx context.Context, path string, opts OpenOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.open {
		return fmt.Errorf("file already open: %s", m.path)
	}
	content, exists := m.files[path]
	if !exists && !opts.Create {
		return fmt.Errorf("open %s: file does not exist", path)
	}
	m.open = true
	m.path = path
	m.original = content
	m.pending = content
	m.isNew = !exists
	m.saved = false
	return nil
}

func (m *Memory) Update(ctx context.Context, content string, final bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.open {
		return fmt.Errorf("no open file")
	}
	m.pending = content
	return nil
}

func (m *Memory) SaveChanges(ctx context.Context) (FileOpsResult, error) {
	if err := ctx.Err(); err != nil {
		return FileOpsResult{}, err
	}
	if !m.open {
		return FileOpsResult{}, fmt.Errorf("no open file")
	}
	m.files[m.path] = m.pending
	m.saved = true
	content := m.pending
	return FileOpsResult{FinalContent: &content}, nil
}

func (m *Memory) RevertChanges(ctx context.Context) error {
	if !m.open {
		return nil
	}
	defer m.Reset()
	if !m.saved {
		return nil
	}
	if m.isNew {
		delete(m.files, m.path)
		return nil
	}
	m.files[m.path] = m.original
	return nil
}

func (m *Memory) Reset() {
	m.open = false
	m.path = ""
	m.original = ""
	m.pending = ""
	m.isNew = false
	m.saved = false
}

func (m *Memory) OriginalContent() string { return m.original }

func (m *Memory) DeleteFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := m.files[path]; !exists {
		return fmt.Errorf("delete %s: file does not exist", path)
	}
	delete(m.files, path)
	return nil
}

func (m *Memory) ReadFile(path string) (string, bool, error) {
	content, exists := m.files[path]
	return content, exists, nil
}

// Pending returns the open file's pending content, for preview assertions.
func (m *Memory) Pending() (string, bool) {
	return m.pending, m.open
}

// Paths lists the stored paths in sorted order.
func (m *Memory) Paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
