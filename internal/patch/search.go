package patch

import "strings"

// DefaultSimilarityThreshold is the minimum normalized edit-distance
// similarity at which the lowest-confidence search pass accepts a match.
const DefaultSimilarityThreshold = 0.66

// Fuzz weights per search pass. The accumulated total tells the caller how
// much tolerance was needed to locate every chunk (0 = all exact).
const (
	fuzzRStrip     = 1
	fuzzStrip      = 100
	fuzzSimilarity = 1000
	fuzzEOFRetry   = 10_000
)

// findContextCore scans forward from start for the context window using
// escalating passes: exact (after unicode canonicalization), trailing-
// whitespace-insensitive, fully-whitespace-insensitive, then a normalized
// edit-distance similarity threshold. Returns the match index, the fuzz
// weight of the pass that succeeded, and the best similarity seen (1.0 for
// the non-similarity passes; the best observed window score on failure).
func findContextCore(lines, context []string, start int, threshold float64) (int, int, float64) {
	if len(context) == 0 {
		return start, 0, 1.0
	}
	if start < 0 {
		start = 0
	}

	for i := start; i+len(context) <= len(lines); i++ {
		if windowEqual(lines[i:i+len(context)], context, normCanonical) {
			return i, 0, 1.0
		}
	}
	for i := start; i+len(context) <= len(lines); i++ {
		if windowEqual(lines[i:i+len(context)], context, normRStrip) {
			return i, fuzzRStrip, 1.0
		}
	}
	for i := start; i+len(context) <= len(lines); i++ {
		if windowEqual(lines[i:i+len(context)], context, normStrip) {
			return i, fuzzStrip, 1.0
		}
	}

	target := strings.Join(context, "\n")
	best := 0.0
	for i := start; i+len(context) <= len(lines); i++ {
		score := SimilarityRatio(strings.Join(lines[i:i+len(context)], "\n"), target)
		if score > best {
			best = score
		}
		if score >= threshold {
			return i, fuzzSimilarity, score
		}
	}
	return -1, 0, best
}

// findContext locates a context window starting at start. EOF-anchored
// chunks are matched against the file's tail first; if that fails, a second
// forward sweep from start is attempted with an extra fuzz penalty so the
// fallback stays visible in diagnostics.
func findContext(lines, context []string, start int, eof bool, threshold float64) (int, int, float64) {
	if eof {
		tail := len(lines) - len(context)
		if tail < 0 {
			tail = 0
		}
		if idx, fuzz, score := findContextCore(lines, context, tail, threshold); idx != -1 {
			return idx, fuzz, score
		}
		idx, fuzz, score := findContextCore(lines, context, start, threshold)
		if idx != -1 {
			return idx, fuzz + fuzzEOFRetry, score
		}
		return -1, 0, score
	}
	return findContextCore(lines, context, start, threshold)
}

func windowEqual(window, context []string, norm func(string) string) bool {
	for i := range context {
		if norm(window[i]) != norm(context[i]) {
			return false
		}
	}
	return true
}

func normCanonical(s string) string { return canonical(s) }

func normRStrip(s string) string { return strings.TrimRight(canonical(s), " \t") }

func normStrip(s string) string { return strings.TrimSpace(canonical(s)) }
