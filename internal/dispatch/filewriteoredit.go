package dispatch

import "agentshell/internal/edit"

// FileWriteOrEdit applies a full rewrite or an ordered SEARCH/REPLACE block
// sequence to a file, enforcing the mode and read-before-edit checks, then
// invalidates any cached read of the file so a later ReadFiles sees the new
// content rather than a stale cache entry.
func (d *Dispatcher) FileWriteOrEdit(req FileWriteOrEditRequest) (FileWriteOrEditResponse, error) {
	t, unlock, err := d.acquire(req.ThreadID)
	if err != nil {
		return FileWriteOrEditResponse{}, err
	}
	defer unlock()
	logOp("FileWriteOrEdit", req.ThreadID)

	path := resolveInWorkspace(t.state.WorkingDir, req.FilePath)
	result, err := edit.FileWriteOrEdit(t.state, path, req.PercentageToChange, req.TextOrSearchReplaceBlocks)
	if err != nil {
		return FileWriteOrEditResponse{}, err
	}
	d.cache.Invalidate(path)

	return FileWriteOrEditResponse{
		Applied:     result.Applied,
		DiffSummary: result.Diff,
		Warnings:    result.Warnings,
	}, nil
}
