package fileio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentshell/internal/apperr"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestReadFile_FullContent(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.txt", "one\ntwo\nthree\n")

	spec, err := ParsePathSpec(path)
	if err != nil {
		t.Fatalf("ParsePathSpec error: %v", err)
	}
	res, err := ReadFile(spec, false)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if res.TotalLines != 4 { // trailing newline produces a final empty element
		t.Fatalf("TotalLines = %d, want 4", res.TotalLines)
	}
	if !strings.Contains(res.Content, "two") {
		t.Fatalf("expected content to contain 'two', got %q", res.Content)
	}
	if res.ContentSHA == "" {
		t.Fatalf("expected a non-empty content hash")
	}
}

func TestReadFile_LineRange(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.txt", "l1\nl2\nl3\nl4\nl5")

	spec, _ := ParsePathSpec(path + ":2-4")
	res, err := ReadFile(spec, false)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if res.Content != "l2\nl3\nl4" {
		t.Fatalf("Content = %q, want l2\\nl3\\nl4", res.Content)
	}
	if res.ReturnedStart != 2 || res.ReturnedEnd != 4 {
		t.Fatalf("range = (%d,%d), want (2,4)", res.ReturnedStart, res.ReturnedEnd)
	}
}

func TestReadFile_LineNumbers(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.txt", "alpha\nbeta")

	spec, _ := ParsePathSpec(path)
	res, err := ReadFile(spec, true)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(res.Content, "1\talpha") || !strings.Contains(res.Content, "2\tbeta") {
		t.Fatalf("expected numbered lines, got %q", res.Content)
	}
}

func TestReadFile_BinaryRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.dat")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02, 'x'}, 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	spec, _ := ParsePathSpec(path)
	_, err := ReadFile(spec, false)
	if err == nil {
		t.Fatalf("expected binary content to be rejected")
	}
	aerr, ok := apperr.As(err)
	if !ok || aerr.Kind != apperr.PathIsBinary {
		t.Fatalf("expected PathIsBinary, got %v", err)
	}
}

func TestReadFile_MissingPath(t *testing.T) {
	spec, _ := ParsePathSpec("/no/such/file.txt")
	_, err := ReadFile(spec, false)
	if err == nil {
		t.Fatalf("expected an error for a nonexistent path")
	}
}
