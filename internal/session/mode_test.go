package session

import "testing"

func TestParseModeKind_Aliases(t *testing.T) {
	cases := map[string]ModeKind{
		"wcgw":        ModeWcgw,
		"Architect":   ModeArchitect,
		"code_writer": ModeCodeWriter,
		"code-writer": ModeCodeWriter,
		"code_write":  ModeCodeWriter,
	}
	for in, want := range cases {
		got, err := ParseModeKind(in)
		if err != nil {
			t.Fatalf("ParseModeKind(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseModeKind(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseModeKind("bogus"); err == nil {
		t.Fatalf("expected error for unknown mode name")
	}
}

func TestCheckCommandAllowed_Wcgw(t *testing.T) {
	m := NewWcgw()
	if err := m.CheckCommandAllowed("rm -rf /"); err != nil {
		t.Fatalf("wcgw should allow anything, got: %v", err)
	}
}

func TestCheckCommandAllowed_Architect(t *testing.T) {
	m := NewArchitect()
	if err := m.CheckCommandAllowed("ls"); err == nil {
		t.Fatalf("architect should deny all commands")
	}
}

func TestCheckCommandAllowed_CodeWriterPrefixes(t *testing.T) {
	m := NewCodeWriter(nil, []string{"git", "go"})
	if err := m.CheckCommandAllowed("git status"); err != nil {
		t.Fatalf("expected git status to be allowed, got: %v", err)
	}
	if err := m.CheckCommandAllowed("go test ./..."); err != nil {
		t.Fatalf("expected go test to be allowed, got: %v", err)
	}
	if err := m.CheckCommandAllowed("git status && rm -rf /"); err == nil {
		t.Fatalf("expected compound command with a disallowed segment to be denied")
	}
	if err := m.CheckCommandAllowed("gitlab-ci-lint"); err == nil {
		t.Fatalf("expected whole-token match, 'gitlab-ci-lint' must not match prefix 'git' by substring")
	}
}

func TestCheckCommandAllowed_CodeWriterAll(t *testing.T) {
	m := NewCodeWriterAll()
	if err := m.CheckCommandAllowed("anything at all; really"); err != nil {
		t.Fatalf("expected all-commands policy to allow everything, got: %v", err)
	}
}

func TestCheckWriteAllowed(t *testing.T) {
	m := NewCodeWriter([]string{"*.go", "/tmp/project/*.md"}, nil)
	if err := m.CheckWriteAllowed("main.go"); err != nil {
		t.Fatalf("expected main.go to match *.go, got: %v", err)
	}
	if err := m.CheckWriteAllowed("/tmp/project/README.md"); err != nil {
		t.Fatalf("expected README.md to match glob, got: %v", err)
	}
	if err := m.CheckWriteAllowed("secrets.env"); err == nil {
		t.Fatalf("expected secrets.env to be denied")
	}

	arch := NewArchitect()
	if err := arch.CheckWriteAllowed("main.go"); err == nil {
		t.Fatalf("architect must deny all writes")
	}

	wcgw := NewWcgw()
	if err := wcgw.CheckWriteAllowed("/anywhere/at/all"); err != nil {
		t.Fatalf("wcgw must allow all writes, got: %v", err)
	}
}

func TestSummary_NonEmpty(t *testing.T) {
	for _, m := range []ModePolicy{NewWcgw(), NewArchitect(), NewCodeWriterAll(), NewCodeWriter([]string{"*.go"}, []string{"go"})} {
		if m.Summary() == "" {
			t.Fatalf("Summary() must not be empty for %+v", m)
		}
	}
}
