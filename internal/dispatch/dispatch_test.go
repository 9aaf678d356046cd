package dispatch

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available on this host")
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestInitialize_ReadWriteBashRoundTrip(t *testing.T) {
	requireBash(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\nthree"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	d := New()
	defer d.Close()

	initResp, err := d.Initialize(InitializeRequest{
		WorkspacePath: dir,
		Mode:          ModeRequest{Kind: "wcgw"},
	})
	if err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	if initResp.ResolvedDir != dir {
		t.Fatalf("ResolvedDir = %q, want %q", initResp.ResolvedDir, dir)
	}
	if !contains(initResp.RepoTree, "a.txt") {
		t.Fatalf("expected repo tree to list a.txt, got %q", initResp.RepoTree)
	}

	bashResp, err := d.BashCommand(BashCommandRequest{
		ThreadID:       initResp.ThreadID,
		ActionJSON:     BashAction{Kind: ActionCommand, Command: "echo hi-from-dispatch"},
		WaitForSeconds: 3,
	})
	if err != nil {
		t.Fatalf("BashCommand error: %v", err)
	}
	if bashResp.Status != "idle" {
		t.Fatalf("expected idle status after a quick echo, got %q", bashResp.Status)
	}
	if !contains(bashResp.Output, "hi-from-dispatch") {
		t.Fatalf("expected output to contain echoed text, got %q", bashResp.Output)
	}

	readResp, err := d.ReadFiles(ReadFilesRequest{ThreadID: initResp.ThreadID, FilePaths: []string{"a.txt"}})
	if err != nil {
		t.Fatalf("ReadFiles error: %v", err)
	}
	if len(readResp.Files) != 1 || !contains(readResp.Files[0].Content, "two") {
		t.Fatalf("unexpected ReadFiles result: %+v", readResp)
	}

	editResp, err := d.FileWriteOrEdit(FileWriteOrEditRequest{
		ThreadID:                  initResp.ThreadID,
		FilePath:                  "a.txt",
		PercentageToChange:         100,
		TextOrSearchReplaceBlocks: "rewritten contents",
	})
	if err != nil {
		t.Fatalf("FileWriteOrEdit error: %v", err)
	}
	if !editResp.Applied {
		t.Fatalf("expected edit to be applied")
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile after edit: %v", err)
	}
	if string(got) != "rewritten contents" {
		t.Fatalf("file content = %q, want rewritten contents", got)
	}
}

func TestBashCommand_UnknownThreadRejected(t *testing.T) {
	d := New()
	defer d.Close()

	_, err := d.BashCommand(BashCommandRequest{ThreadID: "nope", ActionJSON: BashAction{Kind: ActionStatusCheck}})
	if err == nil {
		t.Fatalf("expected NotInitialized for an unregistered thread id")
	}
}

func TestFileWriteOrEdit_ModeDeniedInArchitect(t *testing.T) {
	requireBash(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("content"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	d := New()
	defer d.Close()

	initResp, err := d.Initialize(InitializeRequest{WorkspacePath: dir, Mode: ModeRequest{Kind: "architect"}})
	if err != nil {
		t.Fatalf("Initialize error: %v", err)
	}

	_, err = d.FileWriteOrEdit(FileWriteOrEditRequest{
		ThreadID:                  initResp.ThreadID,
		FilePath:                  "a.txt",
		PercentageToChange:         100,
		TextOrSearchReplaceBlocks: "new",
	})
	if err == nil {
		t.Fatalf("expected ModeDenied in architect mode")
	}

	_, err = d.BashCommand(BashCommandRequest{
		ThreadID:   initResp.ThreadID,
		ActionJSON: BashAction{Kind: ActionCommand, Command: "ls"},
	})
	if err == nil {
		t.Fatalf("expected ModeDenied for command execution in architect mode")
	}
}
