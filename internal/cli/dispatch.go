package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"agentshell/internal/apperr"
	"agentshell/internal/dispatch"
	"agentshell/internal/system"
)

func init() {
	rootCmd.AddCommand(dispatchCmd)
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "read newline-delimited JSON operation requests from stdin, write results to stdout",
	Long: "dispatch is glue for manual and integration testing: each input line is " +
		`{"op": "<OperationName>", "payload": <operation-specific JSON>}` +
		", one of Initialize, BashCommand, ReadFiles, FileWriteOrEdit, ContextSave, ReadImage. " +
		"Each output line echoes the op, plus either a result or a structured error.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDispatchLoop(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

type envelope struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

type reply struct {
	Op     string        `json:"op"`
	Result any           `json:"result,omitempty"`
	Error  *apperr.Error `json:"error,omitempty"`
}

func runDispatchLoop(in io.Reader, out io.Writer) error {
	d := dispatch.New()
	defer d.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			_ = enc.Encode(reply{Error: apperr.Newf(apperr.InvalidBlockFormat, "malformed request line: %v", err)})
			continue
		}

		result, opErr := handle(d, env)
		r := reply{Op: env.Op, Result: result}
		if opErr != nil {
			system.Logger.Warn("dispatch op failed", "op", env.Op, "err", opErr)
			if aerr, ok := apperr.As(opErr); ok {
				r.Error = aerr
			} else {
				r.Error = apperr.Newf(apperr.PathDenied, "%v", opErr)
			}
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("read request stream: %w", err)
	}
	return nil
}

func handle(d *dispatch.Dispatcher, env envelope) (any, error) {
	switch env.Op {
	case "Initialize":
		var req dispatch.InitializeRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, apperr.Newf(apperr.InvalidBlockFormat, "bad Initialize payload: %v", err)
		}
		return d.Initialize(req)
	case "BashCommand":
		var req dispatch.BashCommandRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, apperr.Newf(apperr.InvalidBlockFormat, "bad BashCommand payload: %v", err)
		}
		return d.BashCommand(req)
	case "ReadFiles":
		var req dispatch.ReadFilesRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, apperr.Newf(apperr.InvalidBlockFormat, "bad ReadFiles payload: %v", err)
		}
		return d.ReadFiles(req)
	case "FileWriteOrEdit":
		var req dispatch.FileWriteOrEditRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, apperr.Newf(apperr.InvalidBlockFormat, "bad FileWriteOrEdit payload: %v", err)
		}
		return d.FileWriteOrEdit(req)
	case "ContextSave":
		var req dispatch.ContextSaveRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, apperr.Newf(apperr.InvalidBlockFormat, "bad ContextSave payload: %v", err)
		}
		return d.ContextSave(req)
	case "ReadImage":
		var req dispatch.ReadImageRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, apperr.Newf(apperr.InvalidBlockFormat, "bad ReadImage payload: %v", err)
		}
		return d.ReadImage(req)
	default:
		return nil, apperr.Newf(apperr.InvalidBlockFormat, "unknown op %q", env.Op)
	}
}
