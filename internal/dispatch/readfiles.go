package dispatch

import (
	"path/filepath"

	"agentshell/internal/fileio"
	"agentshell/internal/session"
)

// ReadFiles resolves each requested path (optionally carrying a
// ":start-end" line range), serves it from cache when possible, and
// extends the session's read-before-edit whitelist with the ranges
// actually returned.
func (d *Dispatcher) ReadFiles(req ReadFilesRequest) (ReadFilesResponse, error) {
	t, unlock, err := d.acquire(req.ThreadID)
	if err != nil {
		return ReadFilesResponse{}, err
	}
	defer unlock()
	logOp("ReadFiles", req.ThreadID)
	return d.readFilesLocked(t.state, req.FilePaths, req.ShowLineNumbersReason)
}

func (d *Dispatcher) readFilesLocked(s *session.SessionState, rawPaths []string, showLineNumbersReason string) (ReadFilesResponse, error) {
	showLineNumbers := showLineNumbersReason != ""

	var out []FileReadResult
	for _, raw := range rawPaths {
		spec, err := fileio.ParsePathSpec(raw)
		if err != nil {
			return ReadFilesResponse{}, err
		}
		spec.Path = resolveInWorkspace(s.WorkingDir, spec.Path)

		result, hit := d.cache.Get(spec, showLineNumbers)
		if !hit {
			result, err = fileio.ReadFile(spec, showLineNumbers)
			if err != nil {
				return ReadFilesResponse{}, err
			}
			d.cache.Put(spec, showLineNumbers, result)
		}

		abs, err := filepath.Abs(result.Path)
		if err != nil {
			return ReadFilesResponse{}, err
		}
		s.AddRange(abs, result.ReturnedStart, result.ReturnedEnd, result.TotalLines, result.ContentSHA)

		out = append(out, FileReadResult{
			Path:           result.Path,
			Content:        result.Content,
			TotalLines:     result.TotalLines,
			ReturnedRanges: []session.ReadRange{{Start: result.ReturnedStart, End: result.ReturnedEnd}},
		})
	}
	return ReadFilesResponse{Files: out}, nil
}
