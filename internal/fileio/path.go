// Package fileio implements the file read/cache component: range-aware
// reads, binary detection, a cache keyed on path+mtime+size with
// filesystem-watcher-driven invalidation, and base64 image reads.
package fileio

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSpec is one ReadFiles argument: a path, optionally suffixed with a
// 1-based inclusive ":start-end" line range where either endpoint may be
// omitted (":5-" means "from line 5 to EOF", ":-20" means "from line 1 to
// 20", ":-" means "the whole file").
type PathSpec struct {
	Path  string
	Start int // 0 means unset (defaults to 1)
	End   int // 0 means unset (defaults to the file's last line)
}

// ParsePathSpec splits the optional trailing ":start-end" off raw.
func ParsePathSpec(raw string) (PathSpec, error) {
	idx := strings.LastIndex(raw, ":")
	if idx == -1 {
		return PathSpec{Path: raw}, nil
	}
	// ":-" selects the whole file. Otherwise a Windows-style drive letter
	// ("C:\...") or a path with no digits after the final colon is not a
	// range suffix; treat the whole string as the path in that case.
	suffix := raw[idx+1:]
	if suffix == "-" {
		return PathSpec{Path: raw[:idx]}, nil
	}
	if suffix == "" || !strings.ContainsAny(suffix, "0123456789") {
		return PathSpec{Path: raw}, nil
	}

	path := raw[:idx]
	start, end, err := parseRange(suffix)
	if err != nil {
		return PathSpec{}, fmt.Errorf("path %q: %w", raw, err)
	}
	return PathSpec{Path: path, Start: start, End: end}, nil
}

func parseRange(spec string) (start, end int, err error) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q, expected start-end", spec)
	}
	if parts[0] != "" {
		start, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range start %q: %w", parts[0], err)
		}
	}
	if parts[1] != "" {
		end, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
	}
	if start != 0 && end != 0 && start > end {
		return 0, 0, fmt.Errorf("range start %d is after end %d", start, end)
	}
	return start, end, nil
}

// Resolve fills in the default start/end against totalLines.
func (p PathSpec) Resolve(totalLines int) (start, end int) {
	start, end = p.Start, p.End
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = totalLines
	}
	if end > totalLines {
		end = totalLines
	}
	if start < 1 {
		start = 1
	}
	return start, end
}
