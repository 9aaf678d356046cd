// Package term wraps the virtual terminal emulator the shell engine feeds
// PTY bytes into, exposing just the tail-rendering and cursor queries the
// dispatch layer needs rather than the emulator's full screen-buffer API.
package term

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/vt"

	"agentshell/internal/config"
)

// Screen is a mutex-guarded wrapper around a vt.Emulator. The shell
// engine's PTY reader goroutine calls Feed; operation handlers call
// RenderTail/CursorPosition/Clear from the dispatch goroutine. The mutex is
// held only for the duration of each call, never across I/O.
type Screen struct {
	mu         sync.Mutex
	emu        *vt.Emulator
	cols, rows int
}

// New returns a Screen sized cols x rows, defaulting to the ambient
// configuration's terminal size when either dimension is zero.
func New(cols, rows int) *Screen {
	if cols <= 0 {
		cols = config.TermCols
	}
	if rows <= 0 {
		rows = config.TermRows
	}
	return &Screen{emu: vt.NewEmulator(cols, rows), cols: cols, rows: rows}
}

// Feed ingests raw PTY bytes, advancing the emulator's internal state. It
// tolerates being handed a chunk that splits an escape sequence across
// calls, since that tolerance lives in the emulator itself.
func (s *Screen) Feed(data []byte) {
	if len(data) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.emu.Write(data)
}

// RenderTail returns the last maxLines non-empty lines of the emulator's
// rendered screen, with ANSI escapes fully stripped. maxLines <= 0 returns
// every non-empty line.
func (s *Screen) RenderTail(maxLines int) string {
	s.mu.Lock()
	rendered := s.emu.Render()
	s.mu.Unlock()

	plain := ansi.Strip(rendered)
	lines := strings.Split(plain, "\n")

	nonEmpty := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimRight(l, " \t") != "" {
			nonEmpty = append(nonEmpty, strings.TrimRight(l, " \t"))
		}
	}
	if maxLines > 0 && len(nonEmpty) > maxLines {
		nonEmpty = nonEmpty[len(nonEmpty)-maxLines:]
	}
	return strings.Join(nonEmpty, "\n")
}

// CursorPosition returns the emulator's current cursor column and row.
func (s *Screen) CursorPosition() (col, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.emu.CursorPosition()
	return pos.X, pos.Y
}

// Clear resets the emulator's screen content without resizing it.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emu = vt.NewEmulator(s.cols, s.rows)
}

// Resize recreates the emulator at the new dimensions. The previous
// screen's content is not carried over; callers that need that are
// expected to re-feed recent scrollback themselves.
func (s *Screen) Resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = cols, rows
	s.emu = vt.NewEmulator(cols, rows)
}

// ContainsSentinel reports whether the rendered tail contains the prompt
// sentinel prefix/suffix pair anywhere at all. It is a coarse, row-blind
// check; PromptReady is what the shell engine actually gates completion
// on, since a stale sentinel left over from a previous command also
// satisfies this.
func (s *Screen) ContainsSentinel() bool {
	tail := s.RenderTail(5)
	return strings.Contains(tail, config.PromptSentinelPrefix) && strings.Contains(tail, config.PromptSentinelSuffix)
}

// PromptReady reports whether the shell has settled on a fresh prompt
// line: the row immediately above the cursor renders the full sentinel,
// the cursor itself rests at column 0, and the row the cursor is on is
// still blank. The spawned PS1 ends in a literal newline for exactly this
// reason — it leaves the cursor on a fresh blank line once the prompt has
// been fully redisplayed, rather than sitting mid-line right after it, so
// this is checkable without guessing at display widths. Checking the
// cursor position (not just substring-containment over recent lines)
// means a sentinel-shaped previous prompt still sitting in scrollback, or
// a command that echoes sentinel-shaped text of its own, can't be
// mistaken for genuine completion.
func (s *Screen) PromptReady() bool {
	s.mu.Lock()
	rendered := s.emu.Render()
	pos := s.emu.CursorPosition()
	s.mu.Unlock()

	if pos.X != 0 {
		return false
	}
	lines := strings.Split(ansi.Strip(rendered), "\n")
	row := pos.Y
	if row <= 0 || row >= len(lines) {
		return false
	}
	promptLine := strings.TrimRight(lines[row-1], " \t")
	if !strings.Contains(promptLine, config.PromptSentinelPrefix) || !strings.Contains(promptLine, config.PromptSentinelSuffix) {
		return false
	}
	return strings.TrimRight(lines[row], " \t") == ""
}
