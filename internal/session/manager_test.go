package session

import (
	"testing"

	tu "agentshell/internal/testutil"
)

func TestManager_InitializeAndGet(t *testing.T) {
	tmp := t.TempDir()
	defer tu.WithEnv(t, "AGENTSHELL_STATE_HOME", tmp)()

	work := t.TempDir()
	m := NewManager()

	s, resumeNote, err := m.Initialize(InitializeOptions{
		WorkspacePath: work,
		Mode:          NewWcgw(),
	})
	if err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	if resumeNote != "" {
		t.Fatalf("expected no resume note on a fresh thread, got %q", resumeNote)
	}
	if s.ThreadID == "" {
		t.Fatalf("expected a generated thread id")
	}

	got, err := m.Get(s.ThreadID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != s {
		t.Fatalf("Get should return the same registered session")
	}
}

func TestManager_Get_NotInitialized(t *testing.T) {
	m := NewManager()
	if _, err := m.Get("nonexistent"); err == nil {
		t.Fatalf("expected NotInitialized error for an unregistered thread")
	}
}

func TestManager_InitializeWithResume(t *testing.T) {
	tmp := t.TempDir()
	defer tu.WithEnv(t, "AGENTSHELL_STATE_HOME", tmp)()

	work := t.TempDir()
	m := NewManager()

	s1, _, err := m.Initialize(InitializeOptions{ThreadID: "thread-x", WorkspacePath: work, Mode: NewWcgw()})
	if err != nil {
		t.Fatalf("first Initialize error: %v", err)
	}
	s1.AddRange("main.go", 1, 5, 5, "sha-1")
	if err := m.Snapshot("thread-x"); err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	m2 := NewManager()
	s2, resumeNote, err := m2.Initialize(InitializeOptions{ThreadID: "thread-x", WorkspacePath: work, Mode: NewWcgw(), Resume: true})
	if err != nil {
		t.Fatalf("resumed Initialize error: %v", err)
	}
	if resumeNote == "" {
		t.Fatalf("expected a resume note when a checkpoint exists")
	}
	if !s2.IsReadEnough("main.go", 1, 5) {
		t.Fatalf("expected whitelist to carry over on resume")
	}
}

func TestManager_Initialize_MissingWorkspaceRejected(t *testing.T) {
	tmp := t.TempDir()
	defer tu.WithEnv(t, "AGENTSHELL_STATE_HOME", tmp)()

	m := NewManager()
	_, _, err := m.Initialize(InitializeOptions{WorkspacePath: "/definitely/not/a/real/path/xyz", Mode: NewWcgw()})
	if err == nil {
		t.Fatalf("expected an error for a nonexistent workspace without CreateIfMissing")
	}
}
