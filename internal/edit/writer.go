package edit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agentshell/internal/apperr"
	"agentshell/internal/session"
)

// atomicWrite writes content to path by writing a sibling temporary file in
// the same directory, fsyncing it, then renaming it over the destination —
// the write is never observably partial.
func atomicWrite(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".agentshell-write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func readExisting(path string) (content string, existed bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Result is what FileWriteOrEdit returns: whether the write applied, the
// diff summary, and any non-fatal warnings (e.g. syntax sanity checks).
type Result struct {
	Applied  bool
	Diff     DiffSummary
	Warnings []string
}

// FileWriteOrEdit is the Edit Engine's single entry point. percentageToChange
// greater than 50 treats contentOrBlocks as full new file contents;
// otherwise it is parsed as an ordered SEARCH/REPLACE block sequence.
func FileWriteOrEdit(s *session.SessionState, path string, percentageToChange float64, contentOrBlocks string) (Result, error) {
	if err := s.CheckWriteAllowed(path); err != nil {
		return Result{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, apperr.Newf(apperr.PathDenied, "cannot resolve %q: %v", path, err)
	}

	before, existed, err := readExisting(abs)
	if err != nil {
		return Result{}, apperr.Newf(apperr.PathNotFound, "cannot read %q: %v", abs, err)
	}

	if existed {
		if err := checkWhitelistCoverage(s, abs, before, percentageToChange, contentOrBlocks); err != nil {
			return Result{}, err
		}
	}

	var after string
	if percentageToChange > 50 {
		after = contentOrBlocks
	} else {
		blocks, err := ParseBlocks(contentOrBlocks)
		if err != nil {
			return Result{}, err
		}
		after, err = applyBlocks(abs, before, blocks)
		if err != nil {
			return Result{}, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Result{}, apperr.Newf(apperr.PathDenied, "cannot create parent directory for %q: %v", abs, err)
	}
	if err := atomicWrite(abs, after); err != nil {
		return Result{}, apperr.Newf(apperr.PathDenied, "failed to write %q: %v", abs, err)
	}

	refreshWhitelist(s, abs, after)

	var warnings []string
	if w := SyntaxWarning(abs, before, after); w != "" {
		warnings = append(warnings, w)
	}

	return Result{
		Applied:  true,
		Diff:     Summarize(abs, before, after),
		Warnings: warnings,
	}, nil
}

// checkWhitelistCoverage enforces the read-before-edit safety invariant: the
// on-disk content hash must match what was recorded at the last read, and
// every line region the edit touches must already be in the whitelist.
func checkWhitelistCoverage(s *session.SessionState, path, before string, percentageToChange float64, contentOrBlocks string) error {
	currentHash := contentHash(before)
	if s.ContentChanged(path, currentHash) {
		return apperr.Newf(apperr.FileChangedOnDisk,
			"%q has changed on disk since it was last read", path).
			WithSuggestion("call ReadFiles again before editing")
	}

	totalLines := strings.Count(before, "\n") + 1
	if percentageToChange > 50 {
		if !s.IsReadEnough(path, 1, totalLines) {
			return apperr.Newf(apperr.EditCoversUnreadLines,
				"a full-file rewrite of %q requires the whole file to have been read first", path).
				WithSuggestion("call ReadFiles on the whole file before rewriting it")
		}
		return nil
	}

	blocks, err := ParseBlocks(contentOrBlocks)
	if err != nil {
		return err
	}
	offset := 0
	for _, b := range blocks {
		m, ok := FindMatch(before, b.Search, offset)
		if !ok {
			continue // surfaced properly by applyBlocks; skip coverage check for an unmatched block
		}
		startLine := strings.Count(before[:m.Start], "\n") + 1
		endLine := strings.Count(before[:m.End], "\n") + 1
		if !s.IsReadEnough(path, startLine, endLine) {
			return apperr.Newf(apperr.EditCoversUnreadLines,
				"the edit to %q touches lines %d-%d, which have not been read", path, startLine, endLine).
				WithSuggestion("call ReadFiles on those lines before editing them")
		}
		offset = m.End
	}
	return nil
}

func refreshWhitelist(s *session.SessionState, path, after string) {
	totalLines := strings.Count(after, "\n") + 1
	s.AddRange(path, 1, totalLines, totalLines, contentHash(after))
}
