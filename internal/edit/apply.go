package edit

import (
	"fmt"
	"strings"

	"agentshell/internal/apperr"
)

// applyBlocks applies blocks in order against before, each search
// constrained to start no earlier than the previous block's replacement
// end, and returns the resulting content. A block that cannot be matched
// at any tolerance level rejects the whole edit — no partial writes.
func applyBlocks(path, before string, blocks []Block) (string, error) {
	var out strings.Builder
	cursor := 0
	searchFrom := 0

	for i, b := range blocks {
		m, ok := FindMatch(before, b.Search, searchFrom)
		if !ok {
			return "", unmatchedBlockError(path, before, b, i)
		}

		out.WriteString(before[cursor:m.Start])
		replacement := b.Replace
		if m.Level == MatchIndentTolerant && m.Indent != "" {
			replacement = ReindentReplacement(replacement, m.Indent)
		}
		out.WriteString(replacement)

		cursor = m.End
		searchFrom = m.End
	}
	out.WriteString(before[cursor:])
	return out.String(), nil
}

// unmatchedBlockError builds the diagnostic the tolerance ladder's failure
// path returns: which block failed, the closest near-miss found by scoring
// every candidate window with the same Levenshtein ratio the fuzzy rung
// uses, and a unified diff of what was attempted.
func unmatchedBlockError(path, before string, b Block, blockIndex int) error {
	nearMiss := closestNearMiss(before, b.Search)
	attempted := Summarize(path, "", b.Search+"\n=======\n"+b.Replace)

	msg := fmt.Sprintf("block %d did not match any content in %q at any tolerance level", blockIndex+1, path)
	suggestion := "re-read the file and adjust the SEARCH text to match it exactly"
	if nearMiss != "" {
		suggestion = fmt.Sprintf("closest candidate in the file:\n%s", nearMiss)
	}
	suggestion += "\n\nattempted change:\n" + attempted.Unified

	return apperr.New(apperr.SearchBlockUnmatched, msg).WithSuggestion(suggestion)
}

// closestNearMiss scans line-windows the size of search and returns the one
// with the highest Levenshtein similarity, for diagnostic purposes only —
// it is not itself a match.
func closestNearMiss(content, search string) string {
	lines := strings.Split(content, "\n")
	searchLines := strings.Split(search, "\n")
	n := len(searchLines)
	if n == 0 || n > len(lines) {
		return ""
	}
	flatSearch := strings.Join(searchLines, " ")

	best := -1.0
	bestText := ""
	for start := 0; start+n <= len(lines); start++ {
		candidate := strings.Join(lines[start:start+n], "\n")
		score := levenshteinRatio(strings.Join(strings.Fields(candidate), " "), flatSearch)
		if score > best {
			best = score
			bestText = candidate
		}
	}
	return bestText
}
