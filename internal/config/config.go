// Package config holds the process-wide, immutable ambient configuration:
// timeouts, output caps, the prompt sentinel, the fuzzy-match threshold, and
// the root directory session state is persisted under. Every value has a
// compiled-in default and an environment-variable override consulted once at
// process start, mirroring the RUST_LOG-style single-string knobs named by
// the distilled spec's External Interfaces section.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const product = "agentshell"

// Defaults, overridable via environment variables at process start.
var (
	// CommandTimeout is the short-wait window before a Running command
	// transitions to Pending if the prompt hasn't reappeared.
	CommandTimeout = envDuration("AGENTSHELL_COMMAND_TIMEOUT_SECONDS", 5)

	// MaxOutputChars bounds the rendered tail returned to callers.
	MaxOutputChars = envInt("AGENTSHELL_MAX_OUTPUT_CHARS", 10_000)

	// MaxFileBytes is the read-size ceiling before FileTooLarge is raised.
	MaxFileBytes = envInt64("AGENTSHELL_MAX_FILE_BYTES", 10*1024*1024)

	// MmapThresholdBytes is the size above which ReadFiles memory-maps
	// instead of buffering the read.
	MmapThresholdBytes = envInt64("AGENTSHELL_MMAP_THRESHOLD_BYTES", 256*1024)

	// FuzzyThreshold is the minimum Levenshtein similarity ratio accepted
	// by tolerance level 5 of the edit engine.
	FuzzyThreshold = envFloat("AGENTSHELL_FUZZY_THRESHOLD", 0.85)

	// TermCols/TermRows size the virtual screen the terminal emulator
	// maintains for each shell session.
	TermCols = envInt("AGENTSHELL_TERM_COLS", 200)
	TermRows = envInt("AGENTSHELL_TERM_ROWS", 50)

	// SoftCancelWaitMillis is the wait after SIGINT; HardCancelWaitMillis
	// is the wait after SIGTERM or SIGKILL.
	SoftCancelWaitMillis = envInt("AGENTSHELL_SOFT_CANCEL_MS", 200)
	HardCancelWaitMillis = envInt("AGENTSHELL_HARD_CANCEL_MS", 1000)

	// LogLevel mirrors the RUST_LOG convention the distilled spec names.
	LogLevel = envString("AGENTSHELL_LOG", "info")
)

// PromptSentinel is the deterministic completion marker installed into every
// child shell. It is chosen to be implausible in ordinary command output.
const PromptSentinel = "◉ %s──➤ "

// PromptSentinelPrefix/Suffix let callers detect the sentinel without
// re-deriving the format string.
const (
	PromptSentinelPrefix = "◉ "
	PromptSentinelSuffix = "──➤ "
)

// ExitStatusTag prefixes the out-of-band line the shell engine uses to
// harvest $? without it being confused for program output.
const ExitStatusTag = "__AGENTSHELL_EXIT__:"

// StateHome returns the root directory under which per-thread session
// checkpoints are written, honoring AGENTSHELL_STATE_HOME if set.
func StateHome() (string, error) {
	if v := strings.TrimSpace(os.Getenv("AGENTSHELL_STATE_HOME")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", herr
		}
		base = home
	}
	return filepath.Join(base, product), nil
}

// BashStateDir returns StateHome()/bash_state, creating it if necessary.
func BashStateDir() (string, error) {
	home, err := StateHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "bash_state")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// ContextSaveDir returns StateHome()/context_saves, creating it if necessary.
func ContextSaveDir() (string, error) {
	home, err := StateHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "context_saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, defSeconds int) int {
	return envInt(key, defSeconds)
}
