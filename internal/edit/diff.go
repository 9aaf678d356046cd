package edit

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// DiffSummary is the compact report every FileWriteOrEdit response carries:
// a unified diff plus the added/removed line counts and the file's new
// total line count.
type DiffSummary struct {
	Unified      string
	LinesAdded   int
	LinesRemoved int
	NewLineCount int
}

// Summarize renders a unified diff between before and after (promoting the
// teacher's otherwise-unused transitive go-udiff dependency to direct,
// exercised use) and derives the added/removed line counts from it.
func Summarize(path, before, after string) DiffSummary {
	unified := udiff.Unified(path+" (before)", path+" (after)", before, after)

	added, removed := 0, 0
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	newLineCount := strings.Count(after, "\n") + 1
	if after == "" {
		newLineCount = 0
	}

	return DiffSummary{
		Unified:      unified,
		LinesAdded:   added,
		LinesRemoved: removed,
		NewLineCount: newLineCount,
	}
}
