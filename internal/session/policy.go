package session

import (
	"time"

	"agentshell/internal/apperr"
)

// CheckCommandAllowed wraps ModePolicy.CheckCommandAllowed, translating the
// package-local denial marker into an apperr.ModeDenied at the session
// boundary so callers only ever see the closed error-kind set.
func (s *SessionState) CheckCommandAllowed(cmd string) error {
	if err := s.Mode.CheckCommandAllowed(cmd); err != nil {
		return apperr.New(apperr.ModeDenied, err.Error())
	}
	return nil
}

// CheckWriteAllowed wraps ModePolicy.CheckWriteAllowed the same way.
func (s *SessionState) CheckWriteAllowed(path string) error {
	if err := s.Mode.CheckWriteAllowed(path); err != nil {
		return apperr.New(apperr.ModeDenied, err.Error())
	}
	return nil
}

// BeginCommand transitions the command state machine from Idle to Running.
// It returns CommandAlreadyRunning if a command is already in flight.
func (s *SessionState) BeginCommand(cmd string) error {
	if s.Command.Phase != PhaseIdle {
		return apperr.Newf(apperr.CommandAlreadyRunning,
			"a command is already %s for this session", s.Command.Phase).
			WithSuggestion("send a StatusCheck or cancel action before starting a new command")
	}
	s.Command = CommandStatus{Phase: PhaseRunning, Command: cmd, StartedAt: time.Now()}
	return nil
}

// MarkPending transitions Running to Pending, stashing the output collected
// so far so StatusCheck can return it without blocking again.
func (s *SessionState) MarkPending(partialOutput string) {
	s.Command.Phase = PhasePending
	s.Command.PartialOutput = partialOutput
}

// MarkIdle transitions back to Idle, recording the exit code of the
// command that just finished.
func (s *SessionState) MarkIdle(exitCode int) {
	s.Command = CommandStatus{Phase: PhaseIdle, LastExitCode: &exitCode}
}

// MarkInterrupted transitions to Interrupted at the given escalation level.
func (s *SessionState) MarkInterrupted(level InterruptLevel) {
	s.Command.Phase = PhaseInterrupted
	s.Command.InterruptLevel = level
}
