package session

import "time"

// CommandStatus is the shell engine's command state machine. The original
// implementation models this as a Rust sum type; here the Phase field
// selects the active variant and the other fields are meaningful only for
// the phase that fills them in.
type CommandStatus struct {
	Phase CommandPhase `json:"phase"`

	// Running/Pending: the command text currently executing.
	Command string `json:"command,omitempty"`

	// Running/Pending: when the command started, for timeout accounting.
	StartedAt time.Time `json:"started_at,omitempty"`

	// Pending: the output collected so far, returned to the caller while
	// the command keeps running in the background.
	PartialOutput string `json:"partial_output,omitempty"`

	// Interrupted: the signal escalation level already attempted.
	InterruptLevel InterruptLevel `json:"interrupt_level,omitempty"`

	// Idle: exit status of the last completed command, if any.
	LastExitCode *int `json:"last_exit_code,omitempty"`
}

// CommandPhase enumerates the four command states named by the distilled
// spec's concurrency model.
type CommandPhase string

const (
	PhaseIdle        CommandPhase = "idle"
	PhaseRunning     CommandPhase = "running"
	PhasePending     CommandPhase = "pending"
	PhaseInterrupted CommandPhase = "interrupted"
)

// InterruptLevel tracks how far the cancellation escalation ladder has
// progressed for a command currently being torn down.
type InterruptLevel int

const (
	InterruptNone InterruptLevel = iota
	InterruptSoft                // SIGINT sent
	InterruptHard                // SIGTERM sent
	InterruptKill                // SIGKILL sent
)

// ReadRange is an inclusive 1-based line range recorded against a file's
// whitelist entry.
type ReadRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FileWhitelistEntry is the read-before-edit bookkeeping for one file: every
// line range a ReadFiles call has exposed to the caller, the file's total
// line count as of the most recent read, and a content hash establishing
// that the file hasn't changed on disk since.
type FileWhitelistEntry struct {
	Ranges     []ReadRange `json:"ranges"`
	TotalLines int         `json:"total_lines"`
	ContentSHA string      `json:"content_sha256"`
}

// SessionState is the complete persisted state of one conversation thread:
// its working directory, mode policy, command state machine, and the
// read-before-edit whitelist. The struct itself carries no
// synchronization; internal/dispatch serializes access per thread.
type SessionState struct {
	ThreadID   string            `json:"thread_id"`
	WorkingDir string            `json:"working_dir"`
	Mode       ModePolicy        `json:"mode"`
	Command    CommandStatus     `json:"command"`
	Whitelist  map[string]*FileWhitelistEntry `json:"whitelist"`

	// Initialized is set by NewSessionState and by a resumed
	// Manager.Initialize; Manager.Get rejects with NotInitialized while
	// this is false.
	Initialized bool `json:"initialized"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionState returns a freshly Initialize-d, empty session for the
// given thread, mode and working directory.
func NewSessionState(threadID, workingDir string, mode ModePolicy) *SessionState {
	now := time.Now()
	return &SessionState{
		ThreadID:    threadID,
		WorkingDir:  workingDir,
		Mode:        mode,
		Command:     CommandStatus{Phase: PhaseIdle},
		Whitelist:   make(map[string]*FileWhitelistEntry),
		Initialized: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
