package shell

import (
	"os/exec"
	"testing"
	"time"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available on this host")
	}
}

func TestSpawnAndRunCommand(t *testing.T) {
	requireBash(t)
	dir := t.TempDir()

	e, err := Spawn(dir)
	if err != nil {
		t.Fatalf("Spawn error: %v", err)
	}
	defer e.Close()

	if !e.IsAlive() {
		t.Fatalf("expected a freshly spawned engine to be alive")
	}

	// Wait for the initial prompt before sending a command.
	e.AwaitPrompt(2 * time.Second)
	e.Reset()

	if err := e.SendLine("echo hello-agentshell"); err != nil {
		t.Fatalf("SendLine error: %v", err)
	}

	tail, completed, _ := e.AwaitPrompt(3 * time.Second)
	if !completed {
		t.Fatalf("expected command to complete within the wait window, tail=%q", tail)
	}
	if !contains(tail, "hello-agentshell") {
		t.Fatalf("expected tail to contain command output, got %q", tail)
	}
}

// TestSpawnAndRunCommand_OutputNotSubstringOfCommand guards against a
// false-positive completion that merely matched the echoed command line:
// "42" never appears in the command text itself, so a pass here proves
// the tail reflects the expression's actual evaluated output, and that the
// exit code harvested belongs to this command, not a stale leftover.
func TestSpawnAndRunCommand_OutputNotSubstringOfCommand(t *testing.T) {
	requireBash(t)
	dir := t.TempDir()

	e, err := Spawn(dir)
	if err != nil {
		t.Fatalf("Spawn error: %v", err)
	}
	defer e.Close()

	e.AwaitPrompt(2 * time.Second)
	e.Reset()

	if err := e.SendLine(`expr 6 \* 7`); err != nil {
		t.Fatalf("SendLine error: %v", err)
	}

	tail, completed, exitCode := e.AwaitPrompt(3 * time.Second)
	if !completed {
		t.Fatalf("expected command to complete within the wait window, tail=%q", tail)
	}
	if !contains(tail, "42") {
		t.Fatalf("expected tail to contain the evaluated result 42, got %q", tail)
	}
	if exitCode == nil || *exitCode != 0 {
		t.Fatalf("expected a harvested exit code of 0, got %v", exitCode)
	}
	if contains(tail, "__AGENTSHELL_EXIT__") {
		t.Fatalf("expected the out-of-band exit tag line to be stripped from the tail, got %q", tail)
	}
}

func TestSpawn_InvalidDirFails(t *testing.T) {
	requireBash(t)
	_, err := Spawn("/definitely/not/a/real/directory/xyz")
	if err == nil {
		t.Fatalf("expected Spawn against a nonexistent directory to fail")
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
