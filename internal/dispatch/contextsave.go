package dispatch

import "agentshell/internal/contextsave"

// ContextSave writes a self-contained text file capturing a description and
// the contents of every file matched by the given globs, under the
// ambient context-save directory. It has no session/mode affinity: it is a
// read-only sweep over the filesystem plus one new file write to a
// dedicated, always-writable directory.
func (d *Dispatcher) ContextSave(req ContextSaveRequest) (ContextSaveResponse, error) {
	logOp("ContextSave", "")
	path, err := contextsave.Save(contextsave.Request{
		ID:                req.ID,
		ProjectRootPath:   req.ProjectRootPath,
		Description:       req.Description,
		RelevantFileGlobs: req.RelevantFileGlobs,
	})
	if err != nil {
		return ContextSaveResponse{}, err
	}
	return ContextSaveResponse{SavedPath: path}, nil
}
