package renderer

import (
	"strings"
	"testing"
)

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("a\nb\nc\n", "a\nB\nc\n", "f.txt")
	if err != nil {
		t.Fatalf("UnifiedDiff() error = %v", err)
	}
	if !strings.Contains(diff, "-b") || !strings.Contains(diff, "+B") {
		t.Errorf("diff = %q", diff)
	}
	if !strings.Contains(diff, "f.txt") {
		t.Errorf("diff missing filename: %q", diff)
	}
}

func TestUnifiedDiffIdentical(t *testing.T) {
	diff, err := UnifiedDiff("same\n", "same\n", "f.txt")
	if err != nil {
		t.Fatalf("UnifiedDiff() error = %v", err)
	}
	if diff != "" {
		t.Errorf("diff = %q, want empty for identical content", diff)
	}
}

func TestColorizeDiffKeepsContent(t *testing.T) {
	in := "--- f.txt\n+++ f.txt\n@@ -1 +1 @@\n-old\n+new\n context\n"
	out := ColorizeDiff(in)
	for _, want := range []string{"old", "new", "context", "@@"} {
		if !strings.Contains(out, want) {
			t.Errorf("colorized diff lost %q", want)
		}
	}
}

func TestIntralineDiffKeepsText(t *testing.T) {
	out := IntralineDiff("return counter + 1", "return counter + 2")
	if !strings.Contains(out, "return counter + ") {
		t.Errorf("intraline diff = %q", out)
	}
}

func TestIntralineHint(t *testing.T) {
	hint, line, ok := IntralineHint("a\nreturn counter + 1\nc", "a\nreturn counter + 2\nc")
	if !ok || line != 2 {
		t.Fatalf("IntralineHint = (%q, %d, %v), want single-line hit at line 2", hint, line, ok)
	}
	if !strings.Contains(hint, "return counter + ") {
		t.Errorf("hint = %q", hint)
	}

	if _, _, ok := IntralineHint("a\nb", "a\nB\nc"); ok {
		t.Error("line-count change should not produce a hint")
	}
	if _, _, ok := IntralineHint("a\nb\nc", "A\nb\nC"); ok {
		t.Error("multi-line change should not produce a hint")
	}
	if _, _, ok := IntralineHint("same", "same"); ok {
		t.Error("identical content should not produce a hint")
	}
}

func TestSummary(t *testing.T) {
	out := Summary(1, 2, 3, 0, nil)
	if !strings.Contains(out, "created 1") || !strings.Contains(out, "modified 2") || !strings.Contains(out, "deleted 3") {
		t.Errorf("summary = %q", out)
	}
	if strings.Contains(out, "fuzz") {
		t.Errorf("summary should omit zero fuzz: %q", out)
	}

	withWarn := Summary(0, 1, 0, 101, []string{"chunk skipped"})
	if !strings.Contains(withWarn, "fuzz 101") || !strings.Contains(withWarn, "chunk skipped") {
		t.Errorf("summary = %q", withWarn)
	}
}
