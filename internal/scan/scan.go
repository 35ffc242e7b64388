// Package scan drives a chunked pattern search over a byte stream: it pulls
// bounded windows from the chunk reader, hands them to the compiled pattern
// set, resolves the raw match offsets back to absolute line numbers, and
// delivers each matched line to the caller in file order.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dl/hypergrep/internal/chunk"
	"github.com/dl/hypergrep/internal/lineindex"
	"github.com/dl/hypergrep/internal/pattern"
)

// Handler receives one delivery per matched (line, pattern) pair, in strictly
// ascending line order. line is only valid for the duration of the call - the
// bytes alias the scan buffer and are overwritten by the next chunk. A
// non-nil error aborts the scan and is returned to the caller unchanged.
type Handler func(lineNum, patternID int, line []byte) error

// Record is one matched line in batch mode.
type Record struct {
	Line int    `json:"line_number"`
	Text string `json:"text"`
}

// EngineError wraps a failure reported by the matching engine mid-scan.
// Deliveries made before the failure remain valid.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("scan engine: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// errStop aborts a scan early from inside a handler without reporting an
// error to the caller. Used by Match.
var errStop = errors.New("stop scan")

// Options tune a Driver.
type Options struct {
	// ChunkSize bounds the scan window. Lines longer than this are still
	// handled whole; the window grows for their duration. Zero means
	// chunk.DefaultSize.
	ChunkSize int
}

// Driver runs scans against one compiled pattern set. The set is borrowed,
// not owned: the caller closes it, and may share it across several Drivers
// running concurrently. All per-scan state lives on the stack of each Scan
// call, so one Driver is safe for concurrent use.
type Driver struct {
	set       *pattern.Set
	chunkSize int
}

// New creates a Driver over a compiled pattern set.
func New(set *pattern.Set, opts Options) *Driver {
	size := opts.ChunkSize
	if size <= 0 {
		size = chunk.DefaultSize
	}
	return &Driver{set: set, chunkSize: size}
}

// Scan streams src through the pattern set and invokes h once per matched
// (line, pattern) pair. A line matched several times by the same pattern is
// delivered once for it. Line numbers are 1-based and contiguous across the
// whole stream regardless of chunk size.
//
// Cancellation is honored between chunks: every delivery made before ctx is
// done stands, and none happen after. Scan does not close src.
func (d *Driver) Scan(ctx context.Context, src io.Reader, h Handler) error {
	cr, err := chunk.NewReader(src, d.chunkSize)
	if err != nil {
		return err
	}
	ix := lineindex.New()
	seen := make([]bool, d.set.Len())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ck, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		events, err := d.set.Scan(ck.Data)
		if err != nil {
			return &EngineError{Err: err}
		}

		ix.SetChunk(ck.Data)
		curLine := 0
		for _, ev := range events {
			// A zero-width match at the very end of the buffer sits past the
			// last line; there is no line for it to belong to.
			if ev.Start >= len(ck.Data) {
				continue
			}
			ln := ix.Resolve(ev.Start)
			if ln.Num != curLine {
				curLine = ln.Num
				clear(seen)
			}
			if seen[ev.Pattern] {
				continue
			}
			seen[ev.Pattern] = true
			if err := h(ln.Num, ev.Pattern, ln.Text); err != nil {
				return err
			}
		}
		ix.Advance()
	}
}

// Collect runs a batch scan and returns every matched line once, in file
// order, no matter how many patterns hit it.
func (d *Driver) Collect(ctx context.Context, src io.Reader) ([]Record, error) {
	var records []Record
	last := 0
	err := d.Scan(ctx, src, func(lineNum, _ int, line []byte) error {
		if lineNum == last {
			return nil
		}
		last = lineNum
		records = append(records, Record{Line: lineNum, Text: string(line)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Lines is Collect without line numbers: just the matched line texts.
func (d *Driver) Lines(ctx context.Context, src io.Reader) ([]string, error) {
	records, err := d.Collect(ctx, src)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Text
	}
	return lines, nil
}

// Count returns the number of distinct matched lines.
func (d *Driver) Count(ctx context.Context, src io.Reader) (int, error) {
	count, last := 0, 0
	err := d.Scan(ctx, src, func(lineNum, _ int, _ []byte) error {
		if lineNum != last {
			last = lineNum
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Match reports whether src contains at least one match, stopping at the
// first hit instead of scanning to EOF.
func (d *Driver) Match(ctx context.Context, src io.Reader) (bool, error) {
	found := false
	err := d.Scan(ctx, src, func(int, int, []byte) error {
		found = true
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return false, err
	}
	return found, nil
}
