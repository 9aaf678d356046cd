package edit

import (
	"os"
	"path/filepath"
	"testing"

	"agentshell/internal/apperr"
	"agentshell/internal/session"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestFileWriteOrEdit_FullRewriteRequiresWholeFileRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\ntwo\nthree")

	s := session.NewSessionState("t1", dir, session.NewWcgw())
	_, err := FileWriteOrEdit(s, path, 100, "replaced entirely")
	if err == nil {
		t.Fatalf("expected EditCoversUnreadLines without a prior read")
	}
	aerr, ok := apperr.As(err)
	if !ok || aerr.Kind != apperr.EditCoversUnreadLines {
		t.Fatalf("expected EditCoversUnreadLines, got %v", err)
	}
}

func TestFileWriteOrEdit_FullRewriteSucceedsAfterRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\ntwo\nthree")

	s := session.NewSessionState("t1", dir, session.NewWcgw())
	s.AddRange(mustAbs(t, path), 1, 3, 3, sha256OfFile(t, path))

	res, err := FileWriteOrEdit(s, path, 100, "brand new contents")
	if err != nil {
		t.Fatalf("FileWriteOrEdit error: %v", err)
	}
	if !res.Applied {
		t.Fatalf("expected Applied=true")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "brand new contents" {
		t.Fatalf("file content = %q, want the new contents", got)
	}
}

func TestFileWriteOrEdit_BlockEditRequiresTouchedLinesRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")

	s := session.NewSessionState("t1", dir, session.NewWcgw())
	blocks := "<<<<<<< SEARCH\n\tprintln(\"hi\")\n=======\n\tprintln(\"bye\")\n>>>>>>> REPLACE\n"

	_, err := FileWriteOrEdit(s, path, 10, blocks)
	if err == nil {
		t.Fatalf("expected EditCoversUnreadLines without having read the touched lines")
	}
}

func TestFileWriteOrEdit_BlockEditAppliesAfterRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")

	abs := mustAbs(t, path)
	s := session.NewSessionState("t1", dir, session.NewWcgw())
	s.AddRange(abs, 1, 5, 5, sha256OfFile(t, path))

	blocks := "<<<<<<< SEARCH\n\tprintln(\"hi\")\n=======\n\tprintln(\"bye\")\n>>>>>>> REPLACE\n"
	res, err := FileWriteOrEdit(s, path, 10, blocks)
	if err != nil {
		t.Fatalf("FileWriteOrEdit error: %v", err)
	}
	if !res.Applied {
		t.Fatalf("expected Applied=true")
	}
	got, _ := os.ReadFile(path)
	if !contains(string(got), "bye") {
		t.Fatalf("expected edited content to contain 'bye', got %q", got)
	}
}

func TestFileWriteOrEdit_StaleHashRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "original")

	abs := mustAbs(t, path)
	s := session.NewSessionState("t1", dir, session.NewWcgw())
	s.AddRange(abs, 1, 1, 1, "stale-hash-not-matching-current-content")

	_, err := FileWriteOrEdit(s, path, 100, "new contents")
	if err == nil {
		t.Fatalf("expected FileChangedOnDisk for a stale hash")
	}
	aerr, ok := apperr.As(err)
	if !ok || aerr.Kind != apperr.FileChangedOnDisk {
		t.Fatalf("expected FileChangedOnDisk, got %v", err)
	}
}

func TestFileWriteOrEdit_ModeDenied(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "content")

	s := session.NewSessionState("t1", dir, session.NewArchitect())
	_, err := FileWriteOrEdit(s, path, 100, "new")
	if err == nil {
		t.Fatalf("expected ModeDenied in architect mode")
	}
}

func TestFileWriteOrEdit_NewFileNeedsNoWhitelist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	s := session.NewSessionState("t1", dir, session.NewWcgw())
	res, err := FileWriteOrEdit(s, path, 100, "fresh content")
	if err != nil {
		t.Fatalf("expected a brand new file to write without any prior read, got: %v", err)
	}
	if !res.Applied {
		t.Fatalf("expected Applied=true")
	}
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("filepath.Abs error: %v", err)
	}
	return abs
}

func sha256OfFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	return contentHash(string(data))
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
