// Package system carries the ambient, cross-cutting concerns the core
// components depend on but that are not themselves a component: the shared
// structured logger. It never writes to stdout, which is reserved for the
// protocol the caller of this module owns.
package system

import (
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger for every operation handler.
// It prints to stderr with timestamps enabled.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
})

func init() {
	Logger.SetLevel(parseLevel(os.Getenv("AGENTSHELL_LOG")))
}

func parseLevel(v string) clog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	case "fatal":
		return clog.FatalLevel
	default:
		return clog.InfoLevel
	}
}
