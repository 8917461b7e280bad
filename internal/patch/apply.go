package patch

import "strings"

// ApplyChunks produces the new content of a file from its original content
// and the action's located chunks. Chunks must be strictly ascending and stay
// within the original line count; violations are fatal since they indicate a
// parser bug or a corrupted patch, not a fuzzy mismatch.
func ApplyChunks(originalContent string, action *Action, path string) (string, error) {
	origLines := strings.Split(originalContent, "\n")
	var destLines []string
	origIndex := 0

	for _, chunk := range action.Chunks {
		if chunk.OrigIndex > len(origLines) {
			return "", diffErrorf("%s: chunk.OrigIndex %d > len(lines) %d", path, chunk.OrigIndex, len(origLines))
		}
		if origIndex > chunk.OrigIndex {
			return "", diffErrorf("%s: chunk.OrigIndex %d < current index %d", path, chunk.OrigIndex, origIndex)
		}
		if chunk.OrigIndex+len(chunk.DelLines) > len(origLines) {
			return "", diffErrorf("%s: chunk deletes past end of file at line %d", path, chunk.OrigIndex)
		}

		destLines = append(destLines, origLines[origIndex:chunk.OrigIndex]...)
		destLines = append(destLines, PreserveEscaping(chunk.DelLines, chunk.InsLines)...)
		origIndex = chunk.OrigIndex + len(chunk.DelLines)
	}
	destLines = append(destLines, origLines[origIndex:]...)

	return strings.Join(destLines, "\n"), nil
}
