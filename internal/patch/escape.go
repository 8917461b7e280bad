package patch

import "strings"

// escapableChars are the characters some LLMs backslash-escape inside patch
// bodies as a leftover of string-literal encoding.
var escapableChars = []byte{'"', '\'', '`'}

// detectEscapedChars reports which quote/backtick characters the given lines
// consistently backslash-escape: the escaped form appears at least once and
// the bare form never does. A mixed style is treated as no convention.
func detectEscapedChars(lines []string) []byte {
	var out []byte
	for _, c := range escapableChars {
		escaped := false
		bare := false
		for _, line := range lines {
			for i := 0; i < len(line); i++ {
				if line[i] != c {
					continue
				}
				if i > 0 && line[i-1] == '\\' {
					escaped = true
				} else {
					bare = true
				}
			}
		}
		if escaped && !bare {
			out = append(out, c)
		}
	}
	return out
}

// applyEscapeStyle backslash-escapes the given characters in line, leaving
// already-escaped occurrences alone.
func applyEscapeStyle(line string, chars []byte) string {
	if len(chars) == 0 {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		needs := false
		for _, e := range chars {
			if c == e {
				needs = true
				break
			}
		}
		if needs && (i == 0 || line[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// PreserveEscaping matches the escaping convention of replaced text: when the
// deleted lines consistently backslash-escape quotes or backticks, the same
// escaping is applied to the inserted lines so both representations stay
// consistent. Purely cosmetic; line count is never changed.
func PreserveEscaping(delLines, insLines []string) []string {
	chars := detectEscapedChars(delLines)
	if len(chars) == 0 {
		return insLines
	}
	out := make([]string, len(insLines))
	for i, line := range insLines {
		out[i] = applyEscapeStyle(line, chars)
	}
	return out
}
