package output

import "github.com/dl/hypergrep/internal/scan"

// Result aggregates the matched lines found in a single file.
type Result struct {
	FilePath string
	SeqNum   int
	Records  []scan.Record
	// Count holds the distinct-line count for -c mode without building
	// Records. When zero, len(Records) is used instead.
	Count int
	// Matched is set in -l mode, where scanning stops at the first hit and
	// no Records are built.
	Matched bool
	Err     error
}

// HasMatch returns true if this result has at least one matched line.
func (r *Result) HasMatch() bool {
	return r.Matched || r.Count > 0 || len(r.Records) > 0
}

// MatchCount returns the number of matched lines in this result.
func (r *Result) MatchCount() int {
	if r.Count > 0 {
		return r.Count
	}
	return len(r.Records)
}
