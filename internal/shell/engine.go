// Package shell owns the child shell process attached to a pseudo-terminal:
// spawning it, feeding its output into a terminal emulator, detecting
// command completion against the prompt sentinel, and exposing the
// cancellation escalation ladder.
package shell

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/xpty"

	"agentshell/internal/apperr"
	"agentshell/internal/config"
	"agentshell/internal/session"
	"agentshell/internal/system"
	"agentshell/internal/term"
)

// Engine is one child shell's live state: its PTY, the emulator it feeds,
// and the bookkeeping needed to detect completion and harvest exit codes.
// The dispatch path and the reader goroutine share it via mu; the reader
// holds mu only for the brief window needed to append bytes and advance
// the emulator, per the concurrency model.
type Engine struct {
	mu sync.Mutex

	pty xpty.Pty
	cmd *exec.Cmd

	screen *term.Screen
	dir    string

	alive      bool
	deathErr   error
	lastExit   *int
	exitBuffer strings.Builder
}

// Spawn starts a new bash child process rooted at dir and begins draining
// its PTY output into a fresh terminal emulator.
func Spawn(dir string) (*Engine, error) {
	pty, cmd, err := spawnBash(dir, config.TermCols, config.TermRows)
	if err != nil {
		return nil, apperr.Newf(apperr.ShellDied, "failed to spawn shell: %v", err)
	}
	e := &Engine{
		pty:    pty,
		cmd:    cmd,
		screen: term.New(config.TermCols, config.TermRows),
		dir:    dir,
		alive:  true,
	}
	go e.readLoop()
	return e, nil
}

// readLoop continuously drains the PTY into the emulator until EOF or a
// read error, at which point the engine is marked dead.
func (e *Engine) readLoop() {
	buf := make([]byte, 8192)
	for {
		n, err := e.pty.Read(buf)
		if n > 0 {
			e.ingest(buf[:n])
		}
		if err != nil {
			e.mu.Lock()
			e.alive = false
			e.deathErr = err
			e.mu.Unlock()
			system.Logger.Warn("shell pty reader exiting", "dir", e.dir, "err", err)
			return
		}
	}
}

// ingest feeds a chunk to the emulator and scans it for the tagged
// exit-status line, holding mu only for this brief window.
func (e *Engine) ingest(chunk []byte) {
	e.mu.Lock()
	e.screen.Feed(chunk)
	e.exitBuffer.Write(chunk)
	e.scanExitTag()
	e.mu.Unlock()
}

// scanExitTag looks for a complete ExitStatusTag line in the accumulated
// buffer, records the parsed code, and trims the buffer so it doesn't grow
// without bound across a long-lived session.
func (e *Engine) scanExitTag() {
	raw := e.exitBuffer.String()
	idx := strings.LastIndex(raw, config.ExitStatusTag)
	if idx == -1 {
		if e.exitBuffer.Len() > 4096 {
			e.exitBuffer.Reset()
		}
		return
	}
	rest := raw[idx+len(config.ExitStatusTag):]
	end := strings.IndexAny(rest, "\r\n")
	if end == -1 {
		return // tag seen but code not fully flushed yet
	}
	code, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err == nil {
		e.lastExit = &code
	}
	e.exitBuffer.Reset()
}

// IsAlive reports whether the reader loop is still attached to a live PTY.
func (e *Engine) IsAlive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alive
}

// deadErr returns the ShellDied error for ops attempted after the reader
// observed EOF or an error.
func (e *Engine) deadErr() error {
	return apperr.Newf(apperr.ShellDied, "shell process exited: %v", e.deathErr).
		WithSuggestion("call Initialize to start a new session")
}

// Send writes raw bytes to the PTY, e.g. a command line or special-key
// sequence. It is permitted regardless of the command state machine's
// current phase.
func (e *Engine) Send(data []byte) error {
	e.mu.Lock()
	if !e.alive {
		err := e.deadErr()
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()
	if _, err := e.pty.Write(data); err != nil {
		e.mu.Lock()
		e.alive = false
		e.deathErr = err
		e.mu.Unlock()
		return e.deadErr()
	}
	return nil
}

// SendLine writes command followed by a newline, the normal way a new
// command is dispatched to the shell.
func (e *Engine) SendLine(command string) error {
	return e.Send([]byte(command + "\n"))
}

// SendSpecialKey resolves name to its byte sequence and writes it.
func (e *Engine) SendSpecialKey(name string) error {
	b, err := SpecialKeyBytes(name)
	if err != nil {
		return apperr.New(apperr.InvalidBlockFormat, err.Error())
	}
	return e.Send(b)
}

// Reset clears the terminal emulator and the harvested-exit-code state
// left over from the previous command. Callers must invoke it before
// dispatching a new command: without it, the idle prompt line the
// previous command left on screen would immediately satisfy
// PromptReady's sentinel check on the very first poll, reporting
// completion before the new command has produced any output at all.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.lastExit = nil
	e.exitBuffer.Reset()
	e.mu.Unlock()
	e.screen.Clear()
}

// AwaitPrompt blocks, sampling the emulator via short sleeps (never holding
// mu across the wait), until either the sentinel reappears or waitFor
// elapses. It returns (tail, completed, exitCode).
func (e *Engine) AwaitPrompt(waitFor time.Duration) (tail string, completed bool, exitCode *int) {
	deadline := time.Now().Add(waitFor)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if e.screen.PromptReady() {
			e.mu.Lock()
			code := e.lastExit
			e.mu.Unlock()
			return e.Tail(), true, code
		}
		if !e.IsAlive() {
			return e.Tail(), true, nil
		}
		if time.Now().After(deadline) {
			return e.Tail(), false, nil
		}
		<-ticker.C
	}
}

// Tail returns the rendered, ANSI-stripped output tail capped at the
// ambient configuration's maximum output size, with a truncation marker
// prepended if the cap was hit. The out-of-band exit-status line and any
// redisplayed prompt sentinel line are erased first — they are this
// engine's own completion-detection bookkeeping, never caller-visible
// output.
func (e *Engine) Tail() string {
	out := stripNoiseLines(e.screen.RenderTail(0))
	if len(out) <= config.MaxOutputChars {
		return out
	}
	return "...[truncated]...\n" + out[len(out)-config.MaxOutputChars:]
}

// stripNoiseLines drops the tagged exit-status line and any line that is
// just a redisplayed prompt sentinel from a rendered tail.
func stripNoiseLines(tail string) string {
	lines := strings.Split(tail, "\n")
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.Contains(l, config.ExitStatusTag) {
			continue
		}
		if strings.Contains(l, config.PromptSentinelPrefix) && strings.Contains(l, config.PromptSentinelSuffix) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// Interrupt sends the one signal for level to the shell's process group
// (InterruptSoft SIGINT, InterruptHard SIGTERM, InterruptKill SIGKILL),
// then sleeps for the configured wait of that level. It does not move on
// to the next level by itself; each level is a separate call.
func (e *Engine) Interrupt(level session.InterruptLevel) error {
	e.mu.Lock()
	pid := e.cmd.Process.Pid
	e.mu.Unlock()

	var sig syscall.Signal
	var wait time.Duration
	switch level {
	case session.InterruptSoft:
		sig, wait = syscall.SIGINT, time.Duration(config.SoftCancelWaitMillis)*time.Millisecond
	case session.InterruptHard:
		sig, wait = syscall.SIGTERM, time.Duration(config.HardCancelWaitMillis)*time.Millisecond
	case session.InterruptKill:
		sig, wait = syscall.SIGKILL, time.Duration(config.HardCancelWaitMillis)*time.Millisecond
	default:
		return fmt.Errorf("unknown interrupt level %v", level)
	}
	if err := syscall.Kill(-pid, sig); err != nil {
		_ = syscall.Kill(pid, sig)
	}
	time.Sleep(wait)
	return nil
}

// Resize propagates a terminal resize to both the PTY and the emulator.
func (e *Engine) Resize(cols, rows int) error {
	if err := e.pty.Resize(cols, rows); err != nil {
		return err
	}
	e.screen.Resize(cols, rows)
	return nil
}

// Close terminates the child process and releases the PTY.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.alive = false
	e.mu.Unlock()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	return e.pty.Close()
}
