// Package contextsave implements ContextSave: writing a single
// self-contained text file capturing a task description plus the contents
// of every file matched by a set of globs, for a caller to hand off
// context between sessions.
package contextsave

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agentshell/internal/apperr"
	"agentshell/internal/config"
)

// Request mirrors the external ContextSave operation's fields.
type Request struct {
	ID                string
	ProjectRootPath   string
	Description       string
	RelevantFileGlobs []string
}

const maxFilesPerGlob = 1000

// Save resolves every glob (relative ones against ProjectRootPath), reads
// the matched files, and writes one text file under the context-save
// directory named after id. It returns the path written to.
func Save(req Request) (string, error) {
	dir, err := config.ContextSaveDir()
	if err != nil {
		return "", apperr.Newf(apperr.PathDenied, "cannot resolve context save directory: %v", err)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# Context Save: %s\n\n", req.ID)
	if req.Description != "" {
		fmt.Fprintf(&body, "%s\n\n", req.Description)
	}

	var warnings []string
	for _, pattern := range req.RelevantFileGlobs {
		finalGlob := pattern
		if !filepath.IsAbs(finalGlob) && req.ProjectRootPath != "" {
			finalGlob = filepath.Join(req.ProjectRootPath, finalGlob)
		}

		matches, err := filepath.Glob(finalGlob)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid glob %q: %v", pattern, err))
			continue
		}

		found := 0
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("could not read %q: %v", m, err))
				continue
			}
			fmt.Fprintf(&body, "## %s\n\n```\n%s\n```\n\n", m, string(data))
			found++
			if found >= maxFilesPerGlob {
				warnings = append(warnings, fmt.Sprintf("reached the %d file limit for glob %q", maxFilesPerGlob, pattern))
				break
			}
		}
		if found == 0 {
			warnings = append(warnings, fmt.Sprintf("no files found for glob %q", pattern))
		}
	}

	if len(warnings) > 0 {
		body.WriteString("## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&body, "- %s\n", w)
		}
	}

	savedPath := filepath.Join(dir, req.ID+".md")
	if err := os.WriteFile(savedPath, []byte(body.String()), 0o644); err != nil {
		return "", apperr.Newf(apperr.PathDenied, "cannot write context save file: %v", err)
	}
	return savedPath, nil
}
