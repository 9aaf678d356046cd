package fileio

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"agentshell/internal/apperr"
	"agentshell/internal/config"
)

// FileResult is one file's content and bookkeeping, returned by ReadFiles.
type FileResult struct {
	Path          string
	Content       string
	TotalLines    int
	ReturnedStart int
	ReturnedEnd   int
	ContentSHA    string
}

// ReadFile resolves spec against the filesystem, rejecting binary content
// and oversized files, and returns the selected line range (optionally
// prefixed with right-aligned line numbers).
func ReadFile(spec PathSpec, showLineNumbers bool) (FileResult, error) {
	info, err := os.Stat(spec.Path)
	if err != nil {
		return FileResult{}, apperr.Newf(apperr.PathNotFound, "cannot stat %q: %v", spec.Path, err)
	}
	if info.IsDir() {
		return FileResult{}, apperr.Newf(apperr.PathNotFound, "%q is a directory, not a file", spec.Path)
	}
	if info.Size() > config.MaxFileBytes {
		return FileResult{}, apperr.Newf(apperr.FileTooLarge,
			"%q is %d bytes, exceeding the %d byte limit", spec.Path, info.Size(), config.MaxFileBytes).
			WithSuggestion("read the file in smaller line ranges")
	}

	raw, err := readBytes(spec.Path, info.Size())
	if err != nil {
		return FileResult{}, apperr.Newf(apperr.PathNotFound, "reading %q: %v", spec.Path, err)
	}
	if looksBinary(raw) {
		return FileResult{}, apperr.Newf(apperr.PathIsBinary, "%q appears to be a binary file", spec.Path).
			WithSuggestion("use ReadImage for image files, or inspect with a hex tool")
	}

	sum := sha256.Sum256(raw)
	sha := hex.EncodeToString(sum[:])

	lines := strings.Split(string(raw), "\n")
	total := len(lines)
	start, end := spec.Resolve(total)
	if start > total || start > end {
		return FileResult{}, apperr.Newf(apperr.PathNotFound,
			"requested range %d-%d is out of bounds for %q (%d lines)", start, end, spec.Path, total)
	}

	selected := lines[start-1 : end]
	var content string
	if showLineNumbers {
		content = formatWithLineNumbers(selected, start)
	} else {
		content = strings.Join(selected, "\n")
	}

	return FileResult{
		Path:          spec.Path,
		Content:       content,
		TotalLines:    total,
		ReturnedStart: start,
		ReturnedEnd:   end,
		ContentSHA:    sha,
	}, nil
}

// readBytes buffers small files and memory-maps files above the configured
// threshold, per the file I/O design's mmap wrapper requirement.
func readBytes(path string, size int64) ([]byte, error) {
	if size < config.MmapThresholdBytes || size == 0 {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// mmap can fail for legitimate reasons (e.g. a non-regular file,
		// or a filesystem that doesn't support it); fall back to a
		// buffered read rather than failing the whole operation.
		return os.ReadFile(path)
	}
	defer unix.Munmap(data)

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// looksBinary applies the conventional heuristic: a NUL byte within the
// first few KB marks the file as binary.
func looksBinary(data []byte) bool {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(data[:n], 0) != -1
}

func formatWithLineNumbers(lines []string, startLine int) string {
	var b strings.Builder
	width := len(fmt.Sprintf("%d", startLine+len(lines)-1))
	for i, l := range lines {
		fmt.Fprintf(&b, "%*d\t%s\n", width, startLine+i, l)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
