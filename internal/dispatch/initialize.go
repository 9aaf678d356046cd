package dispatch

import (
	"time"

	"agentshell/internal/apperr"
	"agentshell/internal/config"
	"agentshell/internal/session"
	"agentshell/internal/shell"
	"agentshell/internal/store"
)

// buildMode translates the wire ModeRequest into a session.ModePolicy,
// normalizing caller-supplied glob/prefix lists the way the rest of this
// module's list-shaped config inputs are normalized.
func buildMode(req ModeRequest) (session.ModePolicy, error) {
	kind, err := session.ParseModeKind(req.Kind)
	if err != nil {
		return session.ModePolicy{}, apperr.Newf(apperr.ModeDenied, "%v", err)
	}
	switch kind {
	case session.ModeWcgw:
		return session.NewWcgw(), nil
	case session.ModeArchitect:
		return session.NewArchitect(), nil
	case session.ModeCodeWriter:
		if req.WriteGlobsAll && req.CommandsAll {
			return session.NewCodeWriterAll(), nil
		}
		globs := store.NormalizeStrings(req.WriteGlobs)
		prefixes := store.NormalizeStrings(req.CommandPrefixes)
		policy := session.NewCodeWriter(globs, prefixes)
		policy.WriteGlobsAll = req.WriteGlobsAll
		policy.CommandsAll = req.CommandsAll
		return policy, nil
	default:
		return session.ModePolicy{}, apperr.Newf(apperr.ModeDenied, "unsupported mode %q", req.Kind)
	}
}

// Initialize resolves the workspace, assigns/loads the session, spawns its
// shell engine, and returns the resolved directory, mode banner, an
// abbreviated repo tree, and any eagerly-read initial file contents.
func (d *Dispatcher) Initialize(req InitializeRequest) (InitializeResponse, error) {
	mode, err := buildMode(req.Mode)
	if err != nil {
		return InitializeResponse{}, err
	}

	state, resumeNote, err := d.manager.Initialize(session.InitializeOptions{
		ThreadID:        req.ThreadID,
		WorkspacePath:   req.WorkspacePath,
		Mode:            mode,
		Resume:          req.Resume,
		CreateIfMissing: req.CreateIfMissing,
	})
	if err != nil {
		return InitializeResponse{}, err
	}
	logOp("Initialize", state.ThreadID)

	engine, err := shell.Spawn(state.WorkingDir)
	if err != nil {
		return InitializeResponse{}, err
	}
	// Drain the initial banner/prompt so the very first BashCommand isn't
	// racing the shell's own startup output.
	engine.AwaitPrompt(time.Duration(config.CommandTimeout) * time.Second)

	d.register(state.ThreadID, state, engine)

	var initial []FileReadResult
	if len(req.InitialFiles) > 0 {
		resp, err := d.readFilesLocked(state, req.InitialFiles, "")
		if err != nil {
			return InitializeResponse{}, err
		}
		initial = resp.Files
	}

	return InitializeResponse{
		ThreadID:        state.ThreadID,
		ResolvedDir:     state.WorkingDir,
		ModeSummary:     mode.Summary(),
		RepoTree:        renderRepoTree(state.WorkingDir),
		InitialContents: initial,
		ResumeNote:      resumeNote,
	}, nil
}
