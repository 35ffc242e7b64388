// Package lineindex resolves byte offsets within a chunk to 1-based line
// numbers and line contents, carrying the line count across chunks so that
// numbering stays contiguous over a whole file.
package lineindex

import "bytes"

// Line is a resolved line: its absolute 1-based number, its byte range within
// the current chunk, and its text with the terminator (and any '\r' before
// it) stripped.
type Line struct {
	Num   int
	Start int
	End   int // exclusive, before the terminator
	Text  []byte
}

// newlineByte avoids allocating []byte{'\n'} on every bytes.Count call.
var newlineByte = []byte{'\n'}

// Indexer walks one chunk at a time. Resolve offsets must be fed in ascending
// order within a chunk - the cursor only moves forward. For nearby offsets it
// walks line by line; for large gaps it jumps directly to the target using
// newline counting plus backward/forward scans.
type Indexer struct {
	data      []byte
	base      int // completed lines before the current chunk
	lineNum   int // 1-based number of the line at lineStart
	lineStart int
	lineEnd   int // index of the '\n', or len(data)
}

// New creates an Indexer with the line counter at zero.
func New() *Indexer {
	return &Indexer{}
}

// SetChunk points the cursor at a new chunk. The chunk is assumed to start at
// a line boundary (the chunk reader guarantees this).
func (ix *Indexer) SetChunk(data []byte) {
	end := len(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		end = i
	}
	ix.data = data
	ix.lineNum = ix.base + 1
	ix.lineStart = 0
	ix.lineEnd = end
}

// Advance closes out the current chunk, adding its complete lines to the
// running counter. Call it once per chunk, after all Resolve calls.
func (ix *Indexer) Advance() {
	ix.base += bytes.Count(ix.data, newlineByte)
	ix.data = nil
}

// Lines reports the cumulative number of completed lines, including chunks
// already advanced past.
func (ix *Indexer) Lines() int {
	return ix.base
}

// Resolve returns the line containing byte offset pos of the current chunk.
// An offset landing exactly on a line terminator belongs to the line the
// terminator ends. pos must be >= the pos of the previous Resolve call.
func (ix *Indexer) Resolve(pos int) Line {
	if pos <= ix.lineEnd {
		return ix.line()
	}

	// Small gap: walking is cheaper than Count + LastIndexByte.
	if pos-ix.lineEnd <= 256 {
		for pos > ix.lineEnd && ix.lineEnd < len(ix.data) {
			ix.lineStart = ix.lineEnd + 1
			ix.lineNum++
			if i := bytes.IndexByte(ix.data[ix.lineStart:], '\n'); i >= 0 {
				ix.lineEnd = ix.lineStart + i
			} else {
				ix.lineEnd = len(ix.data)
			}
		}
		return ix.line()
	}

	// Large gap: count the skipped newlines, then rebuild the line bounds
	// around pos. A pos sitting on a '\n' resolves to the line it terminates:
	// the backward scan excludes pos itself and the forward scan finds it.
	gapStart := ix.lineEnd
	ix.lineNum += bytes.Count(ix.data[gapStart:pos], newlineByte)

	start := ix.lineStart
	if i := bytes.LastIndexByte(ix.data[gapStart:pos], '\n'); i >= 0 {
		start = gapStart + i + 1
	}
	end := len(ix.data)
	if i := bytes.IndexByte(ix.data[pos:], '\n'); i >= 0 {
		end = pos + i
	}

	ix.lineStart = start
	ix.lineEnd = end
	return ix.line()
}

func (ix *Indexer) line() Line {
	text := ix.data[ix.lineStart:ix.lineEnd]
	// Two-byte terminators: the '\r' is part of the terminator, not the text.
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return Line{
		Num:   ix.lineNum,
		Start: ix.lineStart,
		End:   ix.lineEnd,
		Text:  text,
	}
}
