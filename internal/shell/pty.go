package shell

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/x/xpty"

	"agentshell/internal/config"
)

// spawnBash starts bash attached to a fresh pseudo-terminal rooted at dir,
// with history disabled, PS1 set to the deterministic sentinel, and
// PROMPT_COMMAND echoing an out-of-band exit-status line before every
// prompt, so the
// reader goroutine can detect completion and harvest $? without scraping
// ordinary output. PS1 carries a trailing literal newline so the cursor
// settles at column 0 of a fresh blank line once the prompt is fully
// redisplayed, rather than right after it — the column-0 signal
// PromptReady gates completion on.
func spawnBash(dir string, cols, rows int) (xpty.Pty, *exec.Cmd, error) {
	pty, err := xpty.NewPty(cols, rows)
	if err != nil {
		return nil, nil, fmt.Errorf("allocate pty: %w", err)
	}

	cmd := exec.Command("bash", "--noprofile", "--norc")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"HISTFILE=/dev/null",
		"HISTSIZE=0",
		"TERM=xterm-256color",
		fmt.Sprintf("PS1=%s\n", fmt.Sprintf(config.PromptSentinel, dir)),
		fmt.Sprintf("PROMPT_COMMAND=echo \"%s$?\"", config.ExitStatusTag),
	)

	if err := pty.Start(cmd); err != nil {
		_ = pty.Close()
		return nil, nil, fmt.Errorf("start bash: %w", err)
	}
	return pty, cmd, nil
}
