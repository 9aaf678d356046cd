package shell

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ForegroundProcess describes one process in the shell's foreground process
// group, reported alongside the output tail so callers can distinguish
// "still computing" from "waiting on interactive input".
type ForegroundProcess struct {
	PID     int    `json:"pid"`
	Command string `json:"command"`
}

// ForegroundProcesses lists the processes in the PTY's foreground process
// group: on Linux it reads /proc directly, falling back to shelling out to
// ps on other Unixes.
func (e *Engine) ForegroundProcesses() ([]ForegroundProcess, error) {
	pgid, err := e.foregroundPgid()
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "linux" {
		return foregroundProcessesLinux(pgid)
	}
	return foregroundProcessesPS(pgid)
}

// foregroundPgid returns the process group id currently controlling the
// PTY's slave side, which is the shell itself when idle or the job it
// launched into the foreground when running one.
func (e *Engine) foregroundPgid() (int, error) {
	f, ok := e.pty.(interface{ Fd() uintptr })
	if !ok {
		e.mu.Lock()
		pid := e.cmd.Process.Pid
		e.mu.Unlock()
		return pid, nil
	}
	pgid, err := unix.IoctlGetInt(int(f.Fd()), unix.TIOCGPGRP)
	if err != nil {
		e.mu.Lock()
		pid := e.cmd.Process.Pid
		e.mu.Unlock()
		return pid, nil
	}
	return pgid, nil
}

func foregroundProcessesLinux(pgid int) ([]ForegroundProcess, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	var out []ForegroundProcess
	for _, ent := range entries {
		pid, err := strconv.Atoi(ent.Name())
		if err != nil {
			continue
		}
		statPath := filepath.Join("/proc", ent.Name(), "stat")
		data, err := os.ReadFile(statPath)
		if err != nil {
			continue
		}
		fields := strings.Fields(string(data))
		if len(fields) < 5 {
			continue
		}
		// field[4] is pgrp per the proc(5) stat layout (pid, comm, state, ppid, pgrp, ...)
		procPgid, err := strconv.Atoi(fields[4])
		if err != nil || procPgid != pgid {
			continue
		}
		comm := strings.TrimSuffix(strings.TrimPrefix(fields[1], "("), ")")
		out = append(out, ForegroundProcess{PID: pid, Command: comm})
	}
	return out, nil
}

func foregroundProcessesPS(pgid int) ([]ForegroundProcess, error) {
	out, err := exec.Command("ps", "-o", "pid,comm", "-g", strconv.Itoa(pgid)).Output()
	if err != nil {
		return nil, fmt.Errorf("ps fallback failed: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	var procs []ForegroundProcess
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		procs = append(procs, ForegroundProcess{PID: pid, Command: strings.Join(fields[1:], " ")})
	}
	return procs, nil
}
