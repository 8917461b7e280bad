package patch

import "strings"

// asciiReplacements maps unicode punctuation that LLMs commonly substitute
// for ASCII back to the ASCII form, so context comparison is not defeated by
// smart quotes or dash variants.
var asciiReplacements = map[rune]string{
	' ': " ", // no-break space
	' ': " ", // narrow no-break space
	'—': "-", // em dash
	'–': "-", // en dash
	'―': "-", // horizontal bar
	'“': `"`,
	'”': `"`,
	'‘': "'",
	'’': "'",
	'•': "*", // bullet
	'·': "*", // middle dot
	'…': "...",
	'×': "x",
}

// canonical normalizes unicode quote/whitespace variants to ASCII. It is
// applied on both sides of every exact comparison in the context search and
// anchor matching.
func canonical(s string) string {
	var b strings.Builder
	changed := false
	for _, r := range s {
		if repl, ok := asciiReplacements[r]; ok {
			if !changed {
				b.Grow(len(s))
				changed = true
			}
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	if !changed {
		return s
	}
	return b.String()
}
