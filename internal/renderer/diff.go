// Package renderer formats apply results for terminal display: unified diffs
// with intraline highlighting and a per-patch summary.
package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
	hunkColor   = color.New(color.FgCyan)
	headerColor = color.New(color.FgWhite, color.Bold)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// UnifiedDiff returns a plain unified diff between old and new content.
func UnifiedDiff(oldContent, newContent, filename string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: filename,
		ToFile:   filename,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// ColorizeDiff applies terminal colors to a unified diff, line by line.
func ColorizeDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			b.WriteString(headerColor.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkColor.Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addColor.Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(delColor.Sprint(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// IntralineDiff renders the character-level changes between two versions of
// one line span, for compact display of small edits.
func IntralineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(addColor.Sprint(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(delColor.Sprint(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// IntralineHint renders the character-level change of a single-line
// modification: when old and new content have the same line count and differ
// on exactly one line, it returns that line with intraline highlighting and
// its 1-based line number. Larger edits report ok=false; the unified diff
// already covers them.
func IntralineHint(oldContent, newContent string) (hint string, line int, ok bool) {
	oldLines := strings.Split(oldContent, "\n")
	newLines := strings.Split(newContent, "\n")
	if len(oldLines) != len(newLines) {
		return "", 0, false
	}
	changed := -1
	for i := range oldLines {
		if oldLines[i] != newLines[i] {
			if changed != -1 {
				return "", 0, false
			}
			changed = i
		}
	}
	if changed == -1 {
		return "", 0, false
	}
	return IntralineDiff(oldLines[changed], newLines[changed]), changed + 1, true
}

// Summary renders a boxed per-patch summary: file counts, fuzz, and any
// warnings.
func Summary(created, modified, deleted int, fuzz int, warnings []string) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("created %d  modified %d  deleted %d", created, modified, deleted))
	if fuzz > 0 {
		lines = append(lines, fmt.Sprintf("fuzz %d", fuzz))
	}
	for _, w := range warnings {
		lines = append(lines, warnStyle.Render("warning: "+w))
	}
	return summaryStyle.Render(strings.Join(lines, "\n"))
}
