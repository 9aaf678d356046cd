package session

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ModeKind names one of the three access-policy variants the distilled spec
// calls Wcgw, Architect, and CodeWriter.
type ModeKind string

const (
	ModeWcgw      ModeKind = "wcgw"
	ModeArchitect ModeKind = "architect"
	ModeCodeWriter ModeKind = "code_writer"
)

// ParseModeKind accepts the canonical name plus the hyphen/underscore
// aliases the original implementation tolerated for code_writer.
func ParseModeKind(s string) (ModeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wcgw":
		return ModeWcgw, nil
	case "architect":
		return ModeArchitect, nil
	case "code_writer", "code-writer", "code_write", "codewriter":
		return ModeCodeWriter, nil
	default:
		return "", fmt.Errorf("unknown mode name: %q", s)
	}
}

// ModePolicy is the immutable, session-wide access policy. It is a tagged
// variant in spirit: Kind selects which of the remaining fields apply.
type ModePolicy struct {
	Kind ModeKind `json:"kind"`

	// CodeWriter-only. WriteGlobsAll true means any path may be written;
	// otherwise WriteGlobs lists the allowed glob patterns.
	WriteGlobsAll bool     `json:"write_globs_all,omitempty"`
	WriteGlobs    []string `json:"write_globs,omitempty"`

	// CodeWriter-only. CommandsAll true means any command may run;
	// otherwise CommandPrefixes lists the allowed leading tokens.
	CommandsAll     bool     `json:"commands_all,omitempty"`
	CommandPrefixes []string `json:"command_prefixes,omitempty"`
}

// NewWcgw returns the unrestricted policy.
func NewWcgw() ModePolicy { return ModePolicy{Kind: ModeWcgw} }

// NewArchitect returns the read-only policy.
func NewArchitect() ModePolicy { return ModePolicy{Kind: ModeArchitect} }

// NewCodeWriterAll returns a CodeWriter policy with no write/command
// restrictions, used when the caller passes "all" for both fields.
func NewCodeWriterAll() ModePolicy {
	return ModePolicy{Kind: ModeCodeWriter, WriteGlobsAll: true, CommandsAll: true}
}

// NewCodeWriter returns a CodeWriter policy restricted to the given globs
// and command prefixes. A nil/empty slice for either is treated as "none".
func NewCodeWriter(writeGlobs, commandPrefixes []string) ModePolicy {
	return ModePolicy{Kind: ModeCodeWriter, WriteGlobs: writeGlobs, CommandPrefixes: commandPrefixes}
}

// shellSeparators splits a compound shell command into its leading-token
// segments, per the distilled spec's CheckCommandAllowed rule: the command
// is split on ;, &&, ||, and | and every non-empty leading token of every
// segment must match a configured prefix.
func shellSeparators(cmd string) []string {
	replaced := cmd
	for _, sep := range []string{"&&", "||", ";", "|"} {
		replaced = strings.ReplaceAll(replaced, sep, "\x00")
	}
	parts := strings.Split(replaced, "\x00")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// leadingToken returns the first whitespace-delimited token of segment.
func leadingToken(segment string) string {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// CheckCommandAllowed implements §4.1's CheckCommandAllowed rules. The
// REDESIGN FLAG resolution fixes CodeWriter prefix matching to whole-token
// comparison, not substring containment.
func (m ModePolicy) CheckCommandAllowed(cmd string) error {
	switch m.Kind {
	case ModeWcgw:
		return nil
	case ModeArchitect:
		return denied("command execution is not allowed in read-only mode")
	case ModeCodeWriter:
		if m.CommandsAll {
			return nil
		}
		for _, segment := range shellSeparators(cmd) {
			token := leadingToken(segment)
			if token == "" {
				continue
			}
			if !containsToken(m.CommandPrefixes, token) {
				return deniedf("command %q is not in the allowed prefix list for this mode", token)
			}
		}
		return nil
	default:
		return denied("unknown mode policy")
	}
}

// CheckWriteAllowed implements §4.1's CheckWriteAllowed rules.
func (m ModePolicy) CheckWriteAllowed(path string) error {
	switch m.Kind {
	case ModeWcgw:
		return nil
	case ModeArchitect:
		return denied("file writes are not allowed in read-only mode")
	case ModeCodeWriter:
		if m.WriteGlobsAll {
			return nil
		}
		clean := filepath.Clean(path)
		for _, g := range m.WriteGlobs {
			if ok, _ := filepath.Match(g, clean); ok {
				return nil
			}
			// Also try matching against the base name, so globs like
			// "*.go" work regardless of how the glob was anchored.
			if ok, _ := filepath.Match(g, filepath.Base(clean)); ok {
				return nil
			}
		}
		return deniedf("path %q does not match any allowed write glob", path)
	default:
		return denied("unknown mode policy")
	}
}

// Summary renders the human-readable banner Initialize returns.
func (m ModePolicy) Summary() string {
	switch m.Kind {
	case ModeWcgw:
		return "Mode: wcgw — unrestricted shell and file access."
	case ModeArchitect:
		return "Mode: architect — read-only; commands and file writes are denied."
	case ModeCodeWriter:
		cmds := "all commands"
		if !m.CommandsAll {
			cmds = fmt.Sprintf("commands prefixed with %v", m.CommandPrefixes)
		}
		globs := "any path"
		if !m.WriteGlobsAll {
			globs = fmt.Sprintf("paths matching %v", m.WriteGlobs)
		}
		return fmt.Sprintf("Mode: code_writer — %s allowed; writes restricted to %s.", cmds, globs)
	default:
		return "Mode: unknown"
	}
}

func containsToken(list []string, token string) bool {
	for _, t := range list {
		if t == token {
			return true
		}
	}
	return false
}

func denied(msg string) error {
	return &modeDeniedError{msg: msg}
}

func deniedf(format string, args ...any) error {
	return &modeDeniedError{msg: fmt.Sprintf(format, args...)}
}

// modeDeniedError is a package-local marker returned by ModePolicy's
// checks; SessionState.CheckCommandAllowed and CheckWriteAllowed
// (policy.go) map it to apperr.ModeDenied.
type modeDeniedError struct{ msg string }

func (e *modeDeniedError) Error() string { return e.msg }

// IsModeDenied reports whether err was produced by a mode-policy check.
func IsModeDenied(err error) bool {
	_, ok := err.(*modeDeniedError)
	return ok
}
