package dispatch

import (
	"agentshell/internal/edit"
	"agentshell/internal/session"
	"agentshell/internal/shell"
)

// ModeRequest is the wire shape of the `mode` field on Initialize: a kind
// name plus the CodeWriter-only restriction lists.
type ModeRequest struct {
	Kind            string   `json:"kind"`
	WriteGlobsAll   bool     `json:"write_globs_all,omitempty"`
	WriteGlobs      []string `json:"write_globs,omitempty"`
	CommandsAll     bool     `json:"commands_all,omitempty"`
	CommandPrefixes []string `json:"command_prefixes,omitempty"`
}

// InitializeRequest is `Initialize { type, workspace_path?, mode,
// initial_files?, thread_id? }`.
type InitializeRequest struct {
	Type             string      `json:"type"`
	WorkspacePath    string      `json:"workspace_path,omitempty"`
	Mode             ModeRequest `json:"mode"`
	InitialFiles     []string    `json:"initial_files,omitempty"`
	ThreadID         string      `json:"thread_id,omitempty"`
	Resume           bool        `json:"resume,omitempty"`
	CreateIfMissing  bool        `json:"create_if_missing,omitempty"`
}

// InitializeResponse is `{ resolved_dir, mode_summary, repo_tree,
// initial_contents, resume_note? }`.
type InitializeResponse struct {
	ThreadID        string           `json:"thread_id"`
	ResolvedDir     string           `json:"resolved_dir"`
	ModeSummary     string           `json:"mode_summary"`
	RepoTree        string           `json:"repo_tree"`
	InitialContents []FileReadResult `json:"initial_contents"`
	ResumeNote      string           `json:"resume_note,omitempty"`
}

// BashAction is the wire shape of `action_json`, a tagged union over the
// five ShellCommand variants named by the data model.
type BashAction struct {
	Kind       string   `json:"kind"`
	Command    string   `json:"command,omitempty"`
	Text       string   `json:"text,omitempty"`
	Specials   []string `json:"specials,omitempty"`
	AsciiCodes []int    `json:"ascii_codes,omitempty"`
}

const (
	ActionCommand      = "command"
	ActionStatusCheck  = "status_check"
	ActionSendText     = "send_text"
	ActionSendSpecials = "send_specials"
	ActionSendAscii    = "send_ascii"
)

// BashCommandRequest is `BashCommand { action_json, thread_id,
// wait_for_seconds? }`.
type BashCommandRequest struct {
	ActionJSON     BashAction `json:"action_json"`
	ThreadID       string     `json:"thread_id"`
	WaitForSeconds float64    `json:"wait_for_seconds,omitempty"`
}

// BashCommandResponse is `{ status, output, exit_code?,
// foreground_processes?, prompt, cwd }`.
type BashCommandResponse struct {
	Status              string                     `json:"status"`
	Output              string                     `json:"output"`
	ExitCode            *int                       `json:"exit_code,omitempty"`
	ForegroundProcesses []shell.ForegroundProcess  `json:"foreground_processes,omitempty"`
	Prompt              string                     `json:"prompt"`
	Cwd                 string                     `json:"cwd"`
}

// ReadFilesRequest is `ReadFiles { file_paths, show_line_numbers_reason? }`,
// extended with an explicit thread id: the whitelist an edit later checks
// coverage against belongs to a specific session, so a read must say which
// one it is extending.
type ReadFilesRequest struct {
	ThreadID             string   `json:"thread_id"`
	FilePaths            []string `json:"file_paths"`
	ShowLineNumbersReason string  `json:"show_line_numbers_reason,omitempty"`
}

// FileReadResult is one entry of ReadFiles' `files` array.
type FileReadResult struct {
	Path           string             `json:"path"`
	Content        string             `json:"content"`
	TotalLines     int                `json:"total_lines"`
	ReturnedRanges []session.ReadRange `json:"returned_ranges"`
}

// ReadFilesResponse is `{ files: [...] }`.
type ReadFilesResponse struct {
	Files []FileReadResult `json:"files"`
}

// FileWriteOrEditRequest is `FileWriteOrEdit { file_path,
// percentage_to_change, text_or_search_replace_blocks, thread_id }`.
type FileWriteOrEditRequest struct {
	ThreadID                  string  `json:"thread_id"`
	FilePath                  string  `json:"file_path"`
	PercentageToChange         float64 `json:"percentage_to_change"`
	TextOrSearchReplaceBlocks string  `json:"text_or_search_replace_blocks"`
}

// FileWriteOrEditResponse is `{ applied, diff_summary, warnings }`.
type FileWriteOrEditResponse struct {
	Applied     bool            `json:"applied"`
	DiffSummary edit.DiffSummary `json:"diff_summary"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// ContextSaveRequest is `ContextSave { id, project_root_path, description,
// relevant_file_globs }`.
type ContextSaveRequest struct {
	ID                string   `json:"id"`
	ProjectRootPath   string   `json:"project_root_path"`
	Description       string   `json:"description"`
	RelevantFileGlobs []string `json:"relevant_file_globs"`
}

// ContextSaveResponse is `{ saved_path }`.
type ContextSaveResponse struct {
	SavedPath string `json:"saved_path"`
}

// ReadImageRequest is `ReadImage { file_path }`.
type ReadImageRequest struct {
	FilePath string `json:"file_path"`
}

// ReadImageResponse is `{ mime, base64 }`.
type ReadImageResponse struct {
	Mime   string `json:"mime"`
	Base64 string `json:"base64"`
}
