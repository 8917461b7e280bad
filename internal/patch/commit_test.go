package patch

import (
	"strings"
	"testing"
)

func TestToCommitUpdate(t *testing.T) {
	orig := map[string]string{"f.txt": "a\nb\nc"}
	p, _ := mustParse(t, "*** Begin Patch\n*** Update File: f.txt\n-b\n+B\n*** End Patch", orig)

	commit, err := ToCommit(p, orig)
	if err != nil {
		t.Fatalf("ToCommit() error = %v", err)
	}
	change := commit.Changes["f.txt"]
	if change.Type != ActionUpdate {
		t.Fatalf("change = %+v", change)
	}
	if change.OldContent == nil || *change.OldContent != "a\nb\nc" {
		t.Errorf("OldContent = %v", change.OldContent)
	}
	if change.NewContent == nil || *change.NewContent != "a\nB\nc" {
		t.Errorf("NewContent = %v", change.NewContent)
	}
}

func TestToCommitDeleteCarriesOldContent(t *testing.T) {
	orig := map[string]string{"gone.txt": "old content"}
	p, _ := mustParse(t, "*** Begin Patch\n*** Delete File: gone.txt\n*** End Patch", orig)

	commit, err := ToCommit(p, orig)
	if err != nil {
		t.Fatalf("ToCommit() error = %v", err)
	}
	change := commit.Changes["gone.txt"]
	if change.Type != ActionDelete || change.OldContent == nil || *change.OldContent != "old content" {
		t.Errorf("change = %+v", change)
	}
}

func TestToCommitMove(t *testing.T) {
	orig := map[string]string{"old.txt": "keep\nchange"}
	text := "*** Begin Patch\n" +
		"*** Update File: old.txt\n" +
		"*** Move to: new.txt\n" +
		" keep\n" +
		"-change\n" +
		"+changed\n" +
		"*** End Patch"
	p, _ := mustParse(t, text, orig)

	commit, err := ToCommit(p, orig)
	if err != nil {
		t.Fatalf("ToCommit() error = %v", err)
	}
	change := commit.Changes["old.txt"]
	if change.MovePath != "new.txt" {
		t.Errorf("MovePath = %q", change.MovePath)
	}
	if change.NewContent == nil || *change.NewContent != "keep\nchanged" {
		t.Errorf("NewContent = %v", change.NewContent)
	}
	if change.OldContent == nil || *change.OldContent != "keep\nchange" {
		t.Errorf("OldContent = %v", change.OldContent)
	}
}

func TestToCommitPreservesOrder(t *testing.T) {
	orig := map[string]string{"1.txt": "a", "2.txt": "b"}
	text := "*** Begin Patch\n" +
		"*** Delete File: 2.txt\n" +
		"*** Delete File: 1.txt\n" +
		"*** Add File: 3.txt\n" +
		"+x\n" +
		"*** End Patch"
	p, _ := mustParse(t, text, orig)

	commit, err := ToCommit(p, orig)
	if err != nil {
		t.Fatalf("ToCommit() error = %v", err)
	}
	want := []string{"2.txt", "1.txt", "3.txt"}
	if strings.Join(commit.Order, ",") != strings.Join(want, ",") {
		t.Errorf("Order = %v, want %v", commit.Order, want)
	}
}

func TestToCommitAddWithoutContent(t *testing.T) {
	empty := ""
	tests := []struct {
		name   string
		action *Action
	}{
		{name: "nil content", action: &Action{Type: ActionAdd}},
		{name: "empty content", action: &Action{Type: ActionAdd, NewFile: &empty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patch{
				Actions: map[string]*Action{"a.txt": tt.action},
				Order:   []string{"a.txt"},
			}
			if _, err := ToCommit(p, nil); err == nil || !IsDiffError(err) {
				t.Errorf("err = %v, want DiffError", err)
			}
		})
	}
}
