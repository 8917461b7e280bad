package provider

import (
	"context"
	"testing"
)

func TestMemoryEditingCycle(t *testing.T) {
	m := NewMemory(map[string]string{"f.txt": "before"})
	ctx := context.Background()

	if err := m.Open(ctx, "f.txt", OpenOptions{}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if m.OriginalContent() != "before" {
		t.Errorf("OriginalContent = %q", m.OriginalContent())
	}
	if err := m.Update(ctx, "after", true); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	res, err := m.SaveChanges(ctx)
	if err != nil {
		t.Fatalf("SaveChanges() error = %v", err)
	}
	if res.FinalContent == nil || *res.FinalContent != "after" {
		t.Errorf("FinalContent = %v", res.FinalContent)
	}
	m.Reset()

	if content, _, _ := m.ReadFile("f.txt"); content != "after" {
		t.Errorf("f.txt = %q", content)
	}
}

func TestMemoryRevertRestoresOriginal(t *testing.T) {
	m := NewMemory(map[string]string{"f.txt": "original"})
	ctx := context.Background()

	m.Open(ctx, "f.txt", OpenOptions{})
	m.Update(ctx, "changed", true)
	m.SaveChanges(ctx)
	if err := m.RevertChanges(ctx); err != nil {
		t.Fatalf("RevertChanges() error = %v", err)
	}

	if content, _, _ := m.ReadFile("f.txt"); content != "original" {
		t.Errorf("f.txt = %q", content)
	}
}

func TestMemoryRevertRemovesCreated(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	m.Open(ctx, "new.txt", OpenOptions{Create: true})
	m.Update(ctx, "content", true)
	m.SaveChanges(ctx)
	m.RevertChanges(ctx)

	if _, exists, _ := m.ReadFile("new.txt"); exists {
		t.Error("created file should be gone after revert")
	}
}

func TestMemoryOpenMissingWithoutCreate(t *testing.T) {
	m := NewMemory(nil)
	if err := m.Open(context.Background(), "nope.txt", OpenOptions{}); err == nil {
		t.Error("Open() of missing file should fail")
	}
}

func TestMemoryDeleteMissing(t *testing.T) {
	m := NewMemory(nil)
	if err := m.DeleteFile(context.Background(), "nope.txt"); err == nil {
		t.Error("DeleteFile() of missing file should fail")
	}
}

func TestMemorySeedIsCopied(t *testing.T) {
	seed := map[string]string{"f.txt": "v1"}
	m := NewMemory(seed)
	seed["f.txt"] = "v2"

	if content, _, _ := m.ReadFile("f.txt"); content != "v1" {
		t.Errorf("f.txt = %q, want seed copy", content)
	}
}

func TestMemoryPaths(t *testing.T) {
	m := NewMemory(map[string]string{"b.txt": "", "a.txt": ""})
	paths := m.Paths()
	if len(paths) != 2 || paths[0] != "a.txt" || paths[1] != "b.txt" {
		t.Errorf("Paths() = %v", paths)
	}
}
