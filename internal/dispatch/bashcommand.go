package dispatch

import (
	"fmt"
	"time"

	"agentshell/internal/apperr"
	"agentshell/internal/config"
	"agentshell/internal/session"
)

// BashCommand dispatches one ShellCommand action against a thread's live
// shell engine: starting a command, polling a pending one, or forwarding
// raw input, per the command state machine in §4.3.
func (d *Dispatcher) BashCommand(req BashCommandRequest) (BashCommandResponse, error) {
	t, unlock, err := d.acquire(req.ThreadID)
	if err != nil {
		return BashCommandResponse{}, err
	}
	defer unlock()
	logOp("BashCommand", req.ThreadID)

	if !t.engine.IsAlive() {
		return BashCommandResponse{}, apperr.Newf(apperr.ShellDied, "shell for thread %q has exited", req.ThreadID).
			WithSuggestion("call Initialize to start a new session")
	}

	waitFor := req.WaitForSeconds
	if waitFor <= 0 {
		waitFor = float64(config.CommandTimeout)
	}
	wait := time.Duration(waitFor * float64(time.Second))

	switch req.ActionJSON.Kind {
	case ActionCommand:
		return d.dispatchCommand(t, req.ActionJSON.Command, wait)
	case ActionStatusCheck:
		return d.dispatchStatusCheck(t, wait)
	case ActionSendText:
		if err := t.engine.Send([]byte(req.ActionJSON.Text)); err != nil {
			return BashCommandResponse{}, err
		}
		return d.currentStatus(t, 0)
	case ActionSendSpecials:
		return d.dispatchSendSpecials(t, req.ActionJSON.Specials)
	case ActionSendAscii:
		raw := make([]byte, len(req.ActionJSON.AsciiCodes))
		for i, c := range req.ActionJSON.AsciiCodes {
			raw[i] = byte(c)
		}
		if err := t.engine.Send(raw); err != nil {
			return BashCommandResponse{}, err
		}
		return d.currentStatus(t, 0)
	default:
		return BashCommandResponse{}, apperr.Newf(apperr.InvalidBlockFormat, "unknown bash action kind %q", req.ActionJSON.Kind)
	}
}

func (d *Dispatcher) dispatchCommand(t *threadSession, command string, wait time.Duration) (BashCommandResponse, error) {
	if err := t.state.CheckCommandAllowed(command); err != nil {
		return BashCommandResponse{}, err
	}
	if err := t.state.BeginCommand(command); err != nil {
		if aerr, ok := apperr.As(err); ok {
			aerr.Message += "; current output:\n" + t.engine.Tail()
		}
		return BashCommandResponse{}, err
	}

	// Wipe the idle prompt the previous command left on screen before
	// dispatching this one: otherwise the very first poll below would see
	// that stale prompt and report this command complete before it has
	// run at all.
	t.engine.Reset()

	// PROMPT_COMMAND (installed at spawn) already echoes the tagged exit
	// line ahead of every redisplayed prompt, so the command is sent as-is.
	if err := t.engine.SendLine(command); err != nil {
		return BashCommandResponse{}, err
	}

	return d.awaitAndSettle(t, wait)
}

func (d *Dispatcher) dispatchStatusCheck(t *threadSession, wait time.Duration) (BashCommandResponse, error) {
	switch t.state.Command.Phase {
	case session.PhaseRunning, session.PhasePending, session.PhaseInterrupted:
	default:
		return d.currentStatus(t, 0)
	}
	return d.awaitAndSettle(t, wait)
}

// awaitAndSettle samples the engine for up to wait, transitioning the
// command state machine to Idle (with the harvested exit code) or Pending
// depending on whether the prompt reappeared in time.
func (d *Dispatcher) awaitAndSettle(t *threadSession, wait time.Duration) (BashCommandResponse, error) {
	tail, completed, exitCode := t.engine.AwaitPrompt(wait)

	if !t.engine.IsAlive() {
		return BashCommandResponse{}, apperr.Newf(apperr.ShellDied, "shell exited while running a command").
			WithSuggestion("call Initialize to start a new session")
	}

	if completed {
		code := 0
		if exitCode != nil {
			code = *exitCode
		}
		t.state.MarkIdle(code)
	} else {
		t.state.MarkPending(tail)
	}

	return d.statusResponse(t, tail)
}

func (d *Dispatcher) dispatchSendSpecials(t *threadSession, names []string) (BashCommandResponse, error) {
	for _, name := range names {
		if err := t.engine.SendSpecialKey(name); err != nil {
			return BashCommandResponse{}, err
		}
		switch name {
		case "Ctrl-c":
			if err := t.engine.Interrupt(session.InterruptSoft); err != nil {
				return BashCommandResponse{}, err
			}
			t.state.MarkInterrupted(session.InterruptSoft)
		case "Ctrl-z":
			t.state.MarkIdle(0)
		}
	}
	return d.currentStatus(t, 0)
}

// currentStatus re-samples the engine's current tail without waiting for
// (or forwarding) anything new — used after actions that are always
// permitted regardless of the command phase.
func (d *Dispatcher) currentStatus(t *threadSession, wait time.Duration) (BashCommandResponse, error) {
	tail, _, _ := t.engine.AwaitPrompt(wait)
	return d.statusResponse(t, tail)
}

func (d *Dispatcher) statusResponse(t *threadSession, tail string) (BashCommandResponse, error) {
	status := "idle"
	var exitCode *int
	switch t.state.Command.Phase {
	case session.PhasePending:
		status = "pending"
	case session.PhaseInterrupted:
		status = "interrupted"
	case session.PhaseRunning:
		status = "pending"
	default:
		status = "idle"
		exitCode = t.state.Command.LastExitCode
	}

	procs, _ := t.engine.ForegroundProcesses()
	prompt := fmt.Sprintf(config.PromptSentinel, t.state.WorkingDir)

	return BashCommandResponse{
		Status:              status,
		Output:              tail,
		ExitCode:            exitCode,
		ForegroundProcesses: procs,
		Prompt:              prompt,
		Cwd:                 t.state.WorkingDir,
	}, nil
}
