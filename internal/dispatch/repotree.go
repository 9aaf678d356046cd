package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	repoTreeMaxDepth   = 4
	repoTreeMaxEntries = 500
)

// renderRepoTree walks root to a bounded depth, rendering an indented
// listing capped at a hard entry count — the "abbreviated repository
// tree" Initialize returns. Hidden entries (dotfiles) are skipped, dirs
// sort before files, and a final line notes how many entries were dropped
// once the cap is hit.
func renderRepoTree(root string) string {
	var b strings.Builder
	remaining := repoTreeMaxEntries
	dropped := 0
	walkTree(root, root, 0, &b, &remaining, &dropped)
	if dropped > 0 {
		fmt.Fprintf(&b, "... (%d more entries omitted)\n", dropped)
	}
	return strings.TrimRight(b.String(), "\n")
}

func walkTree(root, dir string, depth int, b *strings.Builder, remaining, dropped *int) {
	if depth > repoTreeMaxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if *remaining <= 0 {
			*dropped++
			continue
		}
		*remaining--

		indent := strings.Repeat("  ", depth)
		full := filepath.Join(dir, name)
		if e.IsDir() {
			fmt.Fprintf(b, "%s%s/\n", indent, name)
			walkTree(root, full, depth+1, b, remaining, dropped)
		} else {
			fmt.Fprintf(b, "%s%s\n", indent, name)
		}
	}
}
