package session

import "sort"

// AddRange records that lines [start, end] (inclusive, 1-based) of path have
// been shown to the caller, merging overlapping/adjacent ranges so the
// whitelist stays compact. totalLines and contentSHA refresh the entry's
// bookkeeping to the state observed by this read.
func (s *SessionState) AddRange(path string, start, end int, totalLines int, contentSHA string) {
	entry := s.Whitelist[path]
	if entry == nil {
		entry = &FileWhitelistEntry{}
		s.Whitelist[path] = entry
	}
	entry.TotalLines = totalLines
	entry.ContentSHA = contentSHA
	entry.Ranges = mergeRanges(append(entry.Ranges, ReadRange{Start: start, End: end}))
}

// mergeRanges sorts and coalesces overlapping or touching ranges.
func mergeRanges(ranges []ReadRange) []ReadRange {
	if len(ranges) == 0 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	out := []ReadRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// coveredLines returns the count of distinct lines covered by ranges.
func coveredLines(ranges []ReadRange) int {
	total := 0
	for _, r := range ranges {
		if r.End >= r.Start {
			total += r.End - r.Start + 1
		}
	}
	return total
}

// GetPercentageRead returns the fraction of path's total lines that have
// been read, in [0, 1]. A file with no whitelist entry, or zero total
// lines, reads as 0.
func (s *SessionState) GetPercentageRead(path string) float64 {
	entry := s.Whitelist[path]
	if entry == nil || entry.TotalLines <= 0 {
		return 0
	}
	covered := coveredLines(entry.Ranges)
	if covered > entry.TotalLines {
		covered = entry.TotalLines
	}
	return float64(covered) / float64(entry.TotalLines)
}

// IsReadEnough reports whether [start, end] lies entirely within ranges
// already recorded for path. An unrecorded file is never read enough.
func (s *SessionState) IsReadEnough(path string, start, end int) bool {
	entry := s.Whitelist[path]
	if entry == nil {
		return false
	}
	return isCovered(entry.Ranges, start, end)
}

func isCovered(ranges []ReadRange, start, end int) bool {
	for _, r := range ranges {
		if r.Start <= start && end <= r.End {
			return true
		}
	}
	// Fall back to checking coverage across multiple merged ranges: since
	// AddRange keeps ranges merged and non-overlapping, a gap-free span
	// from start to end must appear as one entry if it's truly covered,
	// but tolerate slightly fragmented input by walking sorted ranges.
	sorted := append([]ReadRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	cursor := start
	for _, r := range sorted {
		if r.Start > cursor {
			break
		}
		if r.End >= cursor {
			cursor = r.End + 1
		}
		if cursor > end {
			return true
		}
	}
	return false
}

// GetUnreadRanges returns the sub-ranges of [start, end] that have not yet
// been recorded as read for path, in ascending order. An empty result means
// the whole span is covered.
func (s *SessionState) GetUnreadRanges(path string, start, end int) []ReadRange {
	entry := s.Whitelist[path]
	if entry == nil {
		return []ReadRange{{Start: start, End: end}}
	}
	sorted := append([]ReadRange(nil), entry.Ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var gaps []ReadRange
	cursor := start
	for _, r := range sorted {
		if r.End < cursor {
			continue
		}
		if r.Start > end {
			break
		}
		if r.Start > cursor {
			gaps = append(gaps, ReadRange{Start: cursor, End: r.Start - 1})
		}
		if r.End+1 > cursor {
			cursor = r.End + 1
		}
		if cursor > end {
			break
		}
	}
	if cursor <= end {
		gaps = append(gaps, ReadRange{Start: cursor, End: end})
	}
	return gaps
}

// ContentChanged reports whether path's on-disk content hash differs from
// the hash recorded at the last read, i.e. FileChangedOnDisk applies.
func (s *SessionState) ContentChanged(path, currentSHA string) bool {
	entry := s.Whitelist[path]
	if entry == nil {
		return false
	}
	return entry.ContentSHA != currentSHA
}
