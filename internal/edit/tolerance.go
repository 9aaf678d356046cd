package edit

import (
	"regexp"
	"strings"
)

// MatchLevel names which rung of the tolerance ladder produced a match.
type MatchLevel int

const (
	MatchExact MatchLevel = iota + 1
	MatchTrailingWhitespace
	MatchCollapsedWhitespace
	MatchIndentTolerant
	MatchFuzzy
)

// Match is the result of successfully locating a block's search text in
// content: the byte offsets it occupies, the level of tolerance needed,
// and — for MatchIndentTolerant — the common indent to reapply to the
// replacement text.
type Match struct {
	Start, End int
	Level      MatchLevel
	Indent     string
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// FindMatch runs the five-level tolerance ladder against content, starting
// the search no earlier than minOffset (the previous block's replacement
// end, to preserve left-to-right ordering). It returns the first rung that
// succeeds.
func FindMatch(content, search string, minOffset int) (Match, bool) {
	if search == "" {
		return Match{}, false
	}
	window := content[minOffset:]

	if idx := strings.Index(window, search); idx != -1 {
		return Match{Start: minOffset + idx, End: minOffset + idx + len(search), Level: MatchExact}, true
	}

	if m, ok := findNormalized(window, search, normalizeTrailingWhitespace, minOffset); ok {
		m.Level = MatchTrailingWhitespace
		return m, true
	}

	if m, ok := findNormalized(window, search, collapseWhitespace, minOffset); ok {
		m.Level = MatchCollapsedWhitespace
		return m, true
	}

	if m, ok := findIndentTolerant(window, search, minOffset); ok {
		return m, true
	}

	if m, ok := findFuzzy(window, search, minOffset); ok {
		return m, true
	}

	return Match{}, false
}

func normalizeTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

// collapseWhitespace keeps leading indentation as a single space rather
// than dropping it, so indentation-only differences fall through to
// findIndentTolerant, which re-indents the replacement.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = whitespaceRun.ReplaceAllString(strings.TrimRight(l, " \t"), " ")
	}
	return strings.Join(lines, "\n")
}

// findNormalized slides a line-window over window, comparing the result of
// applying normalize to both sides. It returns byte offsets into the
// original (un-normalized) window text.
func findNormalized(window, search string, normalize func(string) string, base int) (Match, bool) {
	normSearch := normalize(search)
	searchLineCount := strings.Count(search, "\n") + 1

	lines := strings.Split(window, "\n")
	// lineOffsets[i] is the byte offset of lines[i] within window.
	lineOffsets := make([]int, len(lines)+1)
	off := 0
	for i, l := range lines {
		lineOffsets[i] = off
		off += len(l) + 1
	}
	lineOffsets[len(lines)] = off

	for start := 0; start+searchLineCount <= len(lines); start++ {
		candidate := strings.Join(lines[start:start+searchLineCount], "\n")
		if normalize(candidate) == normSearch {
			s := lineOffsets[start]
			e := lineOffsets[start+searchLineCount] - 1
			if e > len(window) {
				e = len(window)
			}
			return Match{Start: base + s, End: base + e}, true
		}
	}
	return Match{}, false
}

// findIndentTolerant allows every line of the candidate to differ from the
// search text by a uniform leading-whitespace prefix (added or removed).
func findIndentTolerant(window, search string, base int) (Match, bool) {
	searchLines := strings.Split(search, "\n")
	dedented := dedentLines(searchLines)

	lines := strings.Split(window, "\n")
	lineOffsets := make([]int, len(lines)+1)
	off := 0
	for i, l := range lines {
		lineOffsets[i] = off
		off += len(l) + 1
	}
	lineOffsets[len(lines)] = off

	for start := 0; start+len(searchLines) <= len(lines); start++ {
		candidateLines := lines[start : start+len(searchLines)]
		candidateDedented := dedentLines(candidateLines)
		if strings.Join(candidateDedented, "\n") != strings.Join(dedented, "\n") {
			continue
		}
		indent := leadingWhitespace(candidateLines[0])
		s := lineOffsets[start]
		e := lineOffsets[start+len(searchLines)] - 1
		if e > len(window) {
			e = len(window)
		}
		return Match{Start: base + s, End: base + e, Level: MatchIndentTolerant, Indent: indent}, true
	}
	return Match{}, false
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

func dedentLines(lines []string) []string {
	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(leadingWhitespace(l))
		if minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent <= 0 {
		return append([]string(nil), lines...)
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= minIndent {
			out[i] = l[minIndent:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}

// ReindentReplacement applies indent as a uniform prefix to every non-empty
// line of replacement, undoing the dedent FindMatch performed to locate an
// indent-tolerant match.
func ReindentReplacement(replacement, indent string) string {
	if indent == "" {
		return replacement
	}
	lines := strings.Split(replacement, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}
