// Package dispatch is the glue layer: it translates the six external
// operations into calls across internal/session, internal/shell,
// internal/fileio, internal/edit and internal/contextsave, enforcing mode
// checks before every mutating call and serializing operations per thread
// id so that, within one thread, operations complete in the order
// dispatched.
package dispatch

import (
	"path/filepath"
	"sync"

	"agentshell/internal/apperr"
	"agentshell/internal/fileio"
	"agentshell/internal/session"
	"agentshell/internal/shell"
	"agentshell/internal/system"
)

// threadSession pairs one thread's persisted SessionState with its live
// Shell Engine (if Initialize has spawned one) behind a mutex that is held
// across a whole operation, per the concurrency model's ordering guarantee.
type threadSession struct {
	mu     sync.Mutex
	state  *session.SessionState
	engine *shell.Engine
}

// Dispatcher is the process-wide entry point operation handlers are called
// through. It owns the session registry, the file-read cache, and the map
// of live per-thread shell engines.
type Dispatcher struct {
	manager *session.Manager
	cache   *fileio.Cache

	mu      sync.Mutex
	threads map[string]*threadSession
}

// New returns a ready Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		manager: session.NewManager(),
		cache:   fileio.NewCache(),
		threads: make(map[string]*threadSession),
	}
}

// Close releases background resources (the file cache's watcher, and every
// live shell engine).
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.threads {
		if t.engine != nil {
			_ = t.engine.Close()
		}
	}
	return d.cache.Close()
}

// acquire locks and returns the threadSession for threadID, failing with
// NotInitialized if Initialize has not registered it. The caller must call
// the returned unlock func exactly once.
func (d *Dispatcher) acquire(threadID string) (*threadSession, func(), error) {
	d.mu.Lock()
	t, ok := d.threads[threadID]
	d.mu.Unlock()
	if !ok {
		return nil, nil, apperr.Newf(apperr.NotInitialized, "no initialized session for thread %q", threadID).
			WithSuggestion("call Initialize before any other operation")
	}
	t.mu.Lock()
	return t, t.mu.Unlock, nil
}

// register installs a freshly initialized thread session, replacing any
// prior engine for the same thread id (Initialize always spawns a new
// shell; a live PTY cannot survive a process restart).
func (d *Dispatcher) register(threadID string, state *session.SessionState, engine *shell.Engine) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.threads[threadID]; ok && prev.engine != nil {
		_ = prev.engine.Close()
	}
	d.threads[threadID] = &threadSession{state: state, engine: engine}
}

func logOp(name string, threadID string) {
	system.Logger.Info("dispatch", "op", name, "thread_id", threadID)
}

// resolveInWorkspace joins a caller-supplied path onto the session's
// working directory when it isn't already absolute, so that file paths in
// requests are interpreted relative to the workspace rather than this
// process's own working directory.
func resolveInWorkspace(workingDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDir, path)
}
