// Package pattern wraps a set of PCRE2 patterns compiled into the matching
// engine. A compiled Set is immutable and its read-only automaton can be
// shared across concurrent scans of different files.
package pattern

import (
	"fmt"
	"sort"

	"go.elara.ws/pcre"
)

// Event is one raw engine match: the id of the pattern that fired and the
// start/end byte offsets of the match within the scanned buffer.
type Event struct {
	Pattern int
	Start   int
	End     int
}

// CompileError reports which pattern failed to compile and why.
type CompileError struct {
	Index   int // position in the pattern list
	Pattern string
	Err     error // engine diagnostic
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Options control how patterns are compiled.
type Options struct {
	IgnoreCase bool
}

// Set holds one compiled engine handle per pattern. Pattern ids are the
// indices into the original pattern list.
type Set struct {
	res   []*pcre.Regexp
	exprs []string
}

// Compile compiles each pattern through the engine. On a malformed pattern it
// fails with a *CompileError naming the offender; nothing is leaked.
func Compile(patterns []string, opts Options) (*Set, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns provided")
	}

	var copts pcre.CompileOption
	if opts.IgnoreCase {
		copts |= pcre.Caseless
	}

	s := &Set{
		res:   make([]*pcre.Regexp, 0, len(patterns)),
		exprs: patterns,
	}
	for i, p := range patterns {
		re, err := pcre.CompileOpts(p, copts)
		if err != nil {
			s.Close()
			return nil, &CompileError{Index: i, Pattern: p, Err: err}
		}
		s.res = append(s.res, re)
	}
	return s, nil
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	return len(s.exprs)
}

// Expr returns the source text of pattern id.
func (s *Set) Expr(id int) string {
	return s.exprs[id]
}

// Scan runs every pattern over buf and returns all matches as Events sorted
// by start offset, ties broken by pattern id. Scanning is read-only on the
// compiled handles, so a Set may serve multiple goroutines at once.
func (s *Set) Scan(buf []byte) ([]Event, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	var events []Event
	for id, re := range s.res {
		for _, loc := range re.FindAllIndex(buf, -1) {
			events = append(events, Event{Pattern: id, Start: loc[0], End: loc[1]})
		}
	}
	if len(events) == 0 {
		return nil, nil
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Start != events[j].Start {
			return events[i].Start < events[j].Start
		}
		return events[i].Pattern < events[j].Pattern
	})
	return events, nil
}

// Match reports whether any pattern matches buf, stopping at the first hit.
func (s *Set) Match(buf []byte) bool {
	for _, re := range s.res {
		if re.Match(buf) {
			return true
		}
	}
	return false
}

// Close releases the compiled engine handles. The Set must not be used after.
func (s *Set) Close() {
	for _, re := range s.res {
		re.Close()
	}
	s.res = nil
}
