package patch

import "strings"

// Patch text sentinels and action markers.
const (
	beginSentinel = "*** Begin Patch"
	endSentinel   = "*** End Patch"
	addMarker     = "*** Add File: "
	deleteMarker  = "*** Delete File: "
	updateMarker  = "*** Update File: "
	moveMarker    = "*** Move to: "
	eofMarker     = "*** End of File"
)

// Options controls parser tolerance.
type Options struct {
	// SimilarityThreshold for the lowest-confidence context pass.
	// Zero means DefaultSimilarityThreshold.
	SimilarityThreshold float64
	// Strict promotes unmatched-context warnings to fatal errors.
	Strict bool
}

func (o Options) threshold() float64 {
	if o.SimilarityThreshold <= 0 {
		return DefaultSimilarityThreshold
	}
	return o.SimilarityThreshold
}

// Parse parses patch text against a snapshot of original file contents.
// It returns the parsed Patch, the accumulated fuzz total, and a fatal
// *DiffError for malformed input. Chunks whose context cannot be located
// are recorded as Warnings on the Patch and skipped unless Strict is set.
func Parse(text string, orig map[string]string, opts Options) (*Patch, int, error) {
	lines := stripWrapper(splitLines(text))

	hasBegin := len(lines) > 0 && strings.TrimSpace(lines[0]) == beginSentinel
	endIdx := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == endSentinel {
			endIdx = i
			break
		}
	}
	if hasBegin != (endIdx >= 0) {
		return nil, 0, diffErrorf("Invalid patch text - incomplete sentinels")
	}
	body := lines
	if hasBegin {
		body = lines[1:endIdx]
	}

	p := &parser{
		files:     orig,
		lines:     body,
		patch:     &Patch{Actions: map[string]*Action{}},
		threshold: opts.threshold(),
		strict:    opts.Strict,
	}
	if err := p.parse(); err != nil {
		return nil, 0, err
	}
	return p.patch, p.fuzz, nil
}

type parser struct {
	files     map[string]string
	lines     []string
	index     int
	patch     *Patch
	fuzz      int
	threshold float64
	strict    bool
}

func (p *parser) done(prefixes ...string) bool {
	if p.index >= len(p.lines) {
		return true
	}
	cl := p.lines[p.index]
	for _, pre := range prefixes {
		if strings.HasPrefix(cl, pre) {
			return true
		}
	}
	return false
}

func (p *parser) cur() string {
	if p.index >= len(p.lines) {
		return ""
	}
	return p.lines[p.index]
}

// readStr consumes the current line if it starts with prefix and returns the
// raw suffix.
func (p *parser) readStr(prefix string) (string, bool) {
	if p.index >= len(p.lines) {
		return "", false
	}
	cl := p.lines[p.index]
	if strings.HasPrefix(cl, prefix) {
		p.index++
		return cl[len(prefix):], true
	}
	return "", false
}

func (p *parser) parse() error {
	for p.index < len(p.lines) {
		if path, ok := p.readStr(updateMarker); ok {
			path = strings.TrimSpace(path)
			if err := p.checkDuplicate(path); err != nil {
				return err
			}
			moveTo, _ := p.readStr(moveMarker)
			text, exists := p.files[path]
			if !exists {
				return diffErrorf("Update File Error - Missing File: %s", path)
			}
			action, err := p.parseUpdate(path, text)
			if err != nil {
				return err
			}
			action.MovePath = strings.TrimSpace(moveTo)
			p.record(path, action)
			continue
		}

		if path, ok := p.readStr(deleteMarker); ok {
			path = strings.TrimSpace(path)
			if err := p.checkDuplicate(path); err != nil {
				return err
			}
			if _, exists := p.files[path]; !exists {
				return diffErrorf("Delete File Error - Missing File: %s", path)
			}
			p.record(path, &Action{Type: ActionDelete})
			continue
		}

		if path, ok := p.readStr(addMarker); ok {
			path = strings.TrimSpace(path)
			if err := p.checkDuplicate(path); err != nil {
				return err
			}
			if _, exists := p.files[path]; exists {
				return diffErrorf("Add File Error - File already exists: %s", path)
			}
			action, err := p.parseAdd(path)
			if err != nil {
				return err
			}
			p.record(path, action)
			continue
		}

		return diffErrorf("Unknown line while parsing: %s", p.cur())
	}
	return nil
}

func (p *parser) checkDuplicate(path string) error {
	if _, exists := p.patch.Actions[path]; exists {
		return diffErrorf("Duplicate action for file: %s", path)
	}
	return nil
}

func (p *parser) record(path string, action *Action) {
	p.patch.Actions[path] = action
	p.patch.Order = append(p.patch.Order, path)
}

func (p *parser) parseAdd(path string) (*Action, error) {
	var lines []string
	for !p.done(endSentinel, updateMarker, deleteMarker, addMarker) {
		s := p.lines[p.index]
		p.index++
		if !strings.HasPrefix(s, "+") {
			return nil, diffErrorf("Invalid Add File line (missing '+'): %s", s)
		}
		lines = append(lines, s[1:])
	}
	if len(lines) == 0 {
		return nil, diffErrorf("Add File Error - no content for: %s", path)
	}
	content := strings.Join(lines, "\n")
	return &Action{Type: ActionAdd, NewFile: &content}, nil
}

func (p *parser) parseUpdate(path, text string) (*Action, error) {
	action := &Action{Type: ActionUpdate}
	fileLines := strings.Split(text, "\n")
	index := 0   // cursor into fileLines
	section := 0 // chunk group counter within this action

	for !p.done(endSentinel, updateMarker, deleteMarker, addMarker, eofMarker) {
		anchor, hasMarker := p.readStr("@@ ")
		if !hasMarker && strings.TrimRight(p.cur(), " \t") == "@@" {
			p.index++
			hasMarker = true
		}
		if !hasMarker && section != 0 {
			return nil, diffErrorf("Invalid line in update section:\n%s", p.cur())
		}

		if a := strings.TrimSpace(anchor); a != "" {
			index = p.locateAnchor(fileLines, a, index)
		}

		context, chunks, endIdx, eof, err := peekSection(p.lines, p.index)
		if err != nil {
			return nil, err
		}

		newIndex, fuzz, best := findContext(fileLines, context, index, eof, p.threshold)
		if newIndex == -1 {
			ctxText := truncateContext(strings.Join(context, "\n"))
			if p.strict {
				return nil, diffErrorf("%s: context not found for chunk %d:\n%s", path, section, ctxText)
			}
			p.patch.Warnings = append(p.patch.Warnings, Warning{
				Path:       path,
				ChunkIndex: section,
				Message:    "context not found above similarity threshold; chunk skipped",
				Context:    ctxText,
				BestScore:  best,
			})
			p.index = endIdx
			section++
			continue
		}

		p.fuzz += fuzz
		for _, ch := range chunks {
			ch.OrigIndex += newIndex
			action.Chunks = append(action.Chunks, ch)
		}
		index = newIndex + len(context)
		p.index = endIdx
		section++
	}
	return action, nil
}

// locateAnchor advances the file cursor past an @@ anchor line. A match
// found only after trimming both sides costs one fuzz point. A missing
// anchor is not an error; the context window search still constrains the
// chunk.
func (p *parser) locateAnchor(fileLines []string, anchor string, index int) int {
	canon := canonical(anchor)
	seen := false
	for _, l := range fileLines[:index] {
		if canonical(l) == canon {
			seen = true
			break
		}
	}
	if !seen {
		for i := index; i < len(fileLines); i++ {
			if canonical(fileLines[i]) == canon {
				return i + 1
			}
		}
	}

	trimmed := strings.TrimSpace(canon)
	for _, l := range fileLines[:index] {
		if strings.TrimSpace(canonical(l)) == trimmed {
			return index
		}
	}
	for i := index; i < len(fileLines); i++ {
		if strings.TrimSpace(canonical(fileLines[i])) == trimmed {
			p.fuzz++
			return i + 1
		}
	}
	return index
}

// peekSection scans one chunk group: the interleaved context/delete/insert
// lines up to the next stop marker. It returns the "old" window (context +
// deleted lines) used for locating the group, the chunks relative to that
// window, the line index just past the group, and whether the group is
// EOF-anchored.
func peekSection(lines []string, index int) ([]string, []Chunk, int, bool, error) {
	var old, delLines, insLines []string
	var chunks []Chunk
	const (
		modeKeep = iota
		modeAdd
		modeDelete
	)
	mode := modeKeep
	origIndex := index

	flush := func() {
		if len(insLines) > 0 || len(delLines) > 0 {
			chunks = append(chunks, Chunk{
				OrigIndex: len(old) - len(delLines),
				DelLines:  append([]string{}, delLines...),
				InsLines:  append([]string{}, insLines...),
			})
		}
		delLines = nil
		insLines = nil
	}

	for index < len(lines) {
		raw := lines[index]
		if strings.HasPrefix(raw, "@@") ||
			strings.HasPrefix(raw, endSentinel) ||
			strings.HasPrefix(raw, updateMarker) ||
			strings.HasPrefix(raw, deleteMarker) ||
			strings.HasPrefix(raw, addMarker) ||
			strings.HasPrefix(raw, eofMarker) {
			break
		}
		if raw == "***" {
			break
		}
		if strings.HasPrefix(raw, "***") {
			return nil, nil, 0, false, diffErrorf("Invalid Line: %s", raw)
		}
		index++

		lastMode := mode
		var content string
		if raw == "" {
			mode = modeKeep
			content = ""
		} else {
			switch raw[0] {
			case '+':
				mode = modeAdd
				content = raw[1:]
			case '-':
				mode = modeDelete
				content = raw[1:]
			case ' ':
				mode = modeKeep
				content = raw[1:]
			default:
				// LLMs routinely drop the leading space on context lines;
				// tolerate the whole line as context.
				mode = modeKeep
				content = raw
			}
		}

		if mode == modeKeep && lastMode != mode {
			flush()
		}

		switch mode {
		case modeDelete:
			delLines = append(delLines, content)
			old = append(old, content)
		case modeAdd:
			insLines = append(insLines, content)
		case modeKeep:
			old = append(old, content)
		}
	}

	flush()

	if index < len(lines) && strings.TrimRight(lines[index], " \t") == eofMarker {
		index++
		return old, chunks, index, true, nil
	}
	if index == origIndex {
		return nil, nil, 0, false, diffErrorf("Nothing in this section")
	}
	return old, chunks, index, false, nil
}

// splitLines splits on \n, \r\n, and \r without keeping separators, the way
// Python's str.splitlines does. LLM output arrives with every newline
// convention.
func splitLines(s string) []string {
	var lines []string
	start := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			i++
			start = i
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			start = i
		default:
			i++
		}
	}
	if start != len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// stripWrapper drops leading shell/heredoc boilerplate (anything before the
// Begin sentinel or the first recognizable action/chunk marker) and trailing
// blank lines. If the End sentinel is present, everything after it (heredoc
// terminators, code fences) is cut as well.
func stripWrapper(lines []string) []string {
	start := 0
	for start < len(lines) {
		t := strings.TrimSpace(lines[start])
		if t == beginSentinel || isActionMarker(t) || strings.HasPrefix(t, "@@") {
			break
		}
		start++
	}
	if start == len(lines) {
		start = 0
	}
	out := lines[start:]

	for i, l := range out {
		if strings.TrimSpace(l) == endSentinel {
			out = out[:i+1]
			break
		}
	}
	end := len(out)
	for end > 0 && strings.TrimSpace(out[end-1]) == "" {
		end--
	}
	return out[:end]
}

func isActionMarker(line string) bool {
	return strings.HasPrefix(line, addMarker) ||
		strings.HasPrefix(line, deleteMarker) ||
		strings.HasPrefix(line, updateMarker)
}

// IdentifyFilesNeeded lists the paths a patch updates or deletes, so the
// caller can snapshot their contents before parsing.
func IdentifyFilesNeeded(text string) []string {
	var out []string
	for _, line := range stripWrapper(splitLines(text)) {
		if strings.HasPrefix(line, updateMarker) {
			out = append(out, strings.TrimSpace(line[len(updateMarker):]))
		} else if strings.HasPrefix(line, deleteMarker) {
			out = append(out, strings.TrimSpace(line[len(deleteMarker):]))
		}
	}
	return out
}

// IdentifyFilesAdded lists the paths a patch creates.
func IdentifyFilesAdded(text string) []string {
	var out []string
	for _, line := range stripWrapper(splitLines(text)) {
		if strings.HasPrefix(line, addMarker) {
			out = append(out, strings.TrimSpace(line[len(addMarker):]))
		}
	}
	return out
}
