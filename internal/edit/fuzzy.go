package edit

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"agentshell/internal/config"
)

// findFuzzy narrows the candidate line-windows of window with a
// subsequence-based pre-filter (sahilm/fuzzy, scored against a single-line
// flattening of each window) and then scores survivors with a normalized
// Levenshtein similarity ratio, accepting the best candidate at or above
// the configured threshold. Ties are broken by proximity to the start of
// window (which, since window already begins at the previous block's
// replacement end, favors the nearest candidate).
func findFuzzy(window, search string, base int) (Match, bool) {
	lines := strings.Split(window, "\n")
	searchLines := strings.Split(search, "\n")
	n := len(searchLines)
	if n == 0 || n > len(lines) {
		return Match{}, false
	}

	flatSearch := strings.Join(searchLines, " ")
	candidates := make([]string, 0, len(lines)-n+1)
	for start := 0; start+n <= len(lines); start++ {
		candidates = append(candidates, strings.Join(lines[start:start+n], " "))
	}
	if len(candidates) == 0 {
		return Match{}, false
	}

	// Pre-filter: only score candidates the subsequence matcher considers
	// plausible at all, which keeps the Levenshtein pass cheap on large
	// files. If the pre-filter finds nothing (e.g. the replaced text is too
	// different character-for-character), fall back to scoring every
	// window so a legitimate near-miss still has a chance to pass.
	prefiltered := fuzzy.Find(flatSearch, candidates)
	indexes := make([]int, 0, len(prefiltered))
	for _, m := range prefiltered {
		indexes = append(indexes, m.Index)
	}
	if len(indexes) == 0 {
		for i := range candidates {
			indexes = append(indexes, i)
		}
	}

	lineOffsets := make([]int, len(lines)+1)
	off := 0
	for i, l := range lines {
		lineOffsets[i] = off
		off += len(l) + 1
	}
	lineOffsets[len(lines)] = off

	bestScore := -1.0
	bestStart := -1
	for _, start := range indexes {
		score := levenshteinRatio(candidates[start], flatSearch)
		if score > bestScore || (score == bestScore && start < bestStart) {
			bestScore = score
			bestStart = start
		}
	}

	if bestStart == -1 || bestScore < config.FuzzyThreshold {
		return Match{}, false
	}

	s := lineOffsets[bestStart]
	e := lineOffsets[bestStart+n] - 1
	if e > len(window) {
		e = len(window)
	}
	return Match{Start: base + s, End: base + e, Level: MatchFuzzy}, true
}

// levenshteinRatio computes 1 - distance/max(len(a),len(b)), the fixed
// similarity metric the tolerance ladder's final rung decides against.
//
// No example repo in the reference pack imports a Levenshtein-distance
// library (confirmed by a full-tree search of _examples/), so this rung
// is implemented directly against the standard library rather than
// fabricating a dependency.
func levenshteinRatio(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshteinDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
