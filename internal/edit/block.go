// Package edit implements the SEARCH/REPLACE file-edit engine: block
// parsing, the five-level matching tolerance ladder, the read-before-edit
// whitelist safety invariant, atomic writes, optional syntax sanity checks,
// and unified-diff summaries.
package edit

import (
	"strings"

	"agentshell/internal/apperr"
)

const (
	delimSearch  = "<<<<<<< SEARCH"
	delimDivider = "======="
	delimReplace = ">>>>>>> REPLACE"
)

// Block is one ordered SEARCH/REPLACE pair.
type Block struct {
	Search  string
	Replace string
}

// ParseBlocks splits text into an ordered sequence of SEARCH/REPLACE
// blocks. Each delimiter must appear alone on its own line; anything
// between SEARCH and the divider is the search text, and anything between
// the divider and REPLACE is the replacement text, verbatim.
func ParseBlocks(text string) ([]Block, error) {
	lines := strings.Split(text, "\n")
	var blocks []Block

	i := 0
	for i < len(lines) {
		if strings.TrimRight(lines[i], "\r") != delimSearch {
			i++
			continue
		}
		searchStart := i + 1
		dividerIdx := -1
		for j := searchStart; j < len(lines); j++ {
			if strings.TrimRight(lines[j], "\r") == delimDivider {
				dividerIdx = j
				break
			}
		}
		if dividerIdx == -1 {
			return nil, apperr.New(apperr.InvalidBlockFormat,
				"found SEARCH delimiter with no matching ======= divider")
		}
		replaceStart := dividerIdx + 1
		replaceEndIdx := -1
		for j := replaceStart; j < len(lines); j++ {
			if strings.TrimRight(lines[j], "\r") == delimReplace {
				replaceEndIdx = j
				break
			}
		}
		if replaceEndIdx == -1 {
			return nil, apperr.New(apperr.InvalidBlockFormat,
				"found ======= divider with no matching >>>>>>> REPLACE")
		}

		blocks = append(blocks, Block{
			Search:  strings.Join(lines[searchStart:dividerIdx], "\n"),
			Replace: strings.Join(lines[replaceStart:replaceEndIdx], "\n"),
		})
		i = replaceEndIdx + 1
	}

	if len(blocks) == 0 {
		return nil, apperr.New(apperr.InvalidBlockFormat,
			"no SEARCH/REPLACE blocks found; expected at least one <<<<<<< SEARCH ... ======= ... >>>>>>> REPLACE sequence")
	}
	return blocks, nil
}
