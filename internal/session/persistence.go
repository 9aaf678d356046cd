package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"agentshell/internal/config"
)

// checkpointPath returns the deterministic path a thread's checkpoint is
// stored at, matching the layout the persistence design names.
func checkpointPath(threadID string) (string, error) {
	dir, err := config.BashStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, threadID+"_bash_state.json"), nil
}

// flockedFile opens path, takes an advisory exclusive (or shared, for reads)
// flock on it, and returns the open file for the caller to read/write and
// eventually close. The lock is released when the file is closed.
func flockedFile(path string, flag int, how int) (*os.File, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	return f, nil
}

// SaveCheckpoint serializes s (minus anything unexported, which is to say
// the live shell, which SessionState never holds) to its deterministic path
// under an exclusive advisory lock.
func SaveCheckpoint(s *SessionState) error {
	path, err := checkpointPath(s.ThreadID)
	if err != nil {
		return err
	}
	f, err := flockedFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, unix.LOCK_EX)
	if err != nil {
		return err
	}
	defer f.Close()
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// LoadCheckpoint reads the persisted state for threadID, if any, under a
// shared advisory lock. It returns (nil, nil) if no checkpoint exists yet.
func LoadCheckpoint(threadID string) (*SessionState, error) {
	path, err := checkpointPath(threadID)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return nil, nil
	}
	f, err := flockedFile(path, os.O_RDONLY, unix.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	var s SessionState
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	return &s, nil
}
