package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"agentshell/internal/apperr"
)

// Manager is the process-wide registry of live sessions, keyed by thread
// id. Its mutex guards only map access; a SessionState's own fields are
// guarded by the per-thread mutex internal/dispatch holds across each
// operation.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*SessionState
}

// NewManager returns an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*SessionState)}
}

// InitializeOptions configures an Initialize call.
type InitializeOptions struct {
	ThreadID      string
	WorkspacePath string
	Mode          ModePolicy
	Resume        bool
	CreateIfMissing bool
}

// Initialize resolves the workspace directory, assigns or generates a
// thread id, optionally restores a prior checkpoint, and registers the
// resulting SessionState. It does not itself spawn a shell; callers wire
// the returned state into internal/shell separately, matching the
// dependency order of C1 beneath C3.
func (m *Manager) Initialize(opts InitializeOptions) (*SessionState, string, error) {
	threadID := opts.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	dir, err := resolveWorkspace(opts.WorkspacePath, opts.CreateIfMissing)
	if err != nil {
		return nil, "", err
	}

	var resumeNote string
	var state *SessionState

	if opts.Resume {
		prior, loadErr := LoadCheckpoint(threadID)
		if loadErr != nil {
			return nil, "", loadErr
		}
		if prior != nil {
			prior.WorkingDir = dir
			prior.Mode = opts.Mode
			prior.Initialized = true
			state = prior
			resumeNote = fmt.Sprintf("resumed %d whitelisted file(s) from prior checkpoint", len(prior.Whitelist))
		}
	}
	if state == nil {
		state = NewSessionState(threadID, dir, opts.Mode)
	}

	m.mu.Lock()
	m.sessions[threadID] = state
	m.mu.Unlock()

	if err := SaveCheckpoint(state); err != nil {
		return nil, "", err
	}
	return state, resumeNote, nil
}

// Get returns the session for threadID, or NotInitialized if no Initialize
// call has registered it in this process.
func (m *Manager) Get(threadID string) (*SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[threadID]
	if !ok || !s.Initialized {
		return nil, apperr.Newf(apperr.NotInitialized, "no initialized session for thread %q", threadID).
			WithSuggestion("call Initialize before any other operation")
	}
	return s, nil
}

// Snapshot persists the current state of threadID's session to disk.
func (m *Manager) Snapshot(threadID string) error {
	s, err := m.Get(threadID)
	if err != nil {
		return err
	}
	return SaveCheckpoint(s)
}

// Restore reloads threadID's session from its on-disk checkpoint, replacing
// whatever is currently registered in memory for it.
func (m *Manager) Restore(threadID string) (*SessionState, error) {
	s, err := LoadCheckpoint(threadID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.Newf(apperr.NotInitialized, "no checkpoint found for thread %q", threadID)
	}
	m.mu.Lock()
	m.sessions[threadID] = s
	m.mu.Unlock()
	return s, nil
}

// Drop removes threadID from the registry without touching its checkpoint
// file on disk.
func (m *Manager) Drop(threadID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, threadID)
}

func resolveWorkspace(path string, createIfMissing bool) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		path = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) && createIfMissing {
			if mkErr := os.MkdirAll(abs, 0o755); mkErr != nil {
				return "", mkErr
			}
			return abs, nil
		}
		return "", apperr.Newf(apperr.PathNotFound, "workspace path %q does not exist", abs)
	}
	if !info.IsDir() {
		return "", apperr.Newf(apperr.PathNotFound, "workspace path %q is not a directory", abs)
	}
	return abs, nil
}
