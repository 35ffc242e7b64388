// Package chunk reads a byte stream in bounded-size windows that always end
// on a line boundary, so downstream scanning never sees a split line.
package chunk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Chunk is one window of the source. Data contains only whole lines: it ends
// with '\n' on every chunk except possibly the last one before EOF. Offset is
// the byte position of Data[0] within the source.
type Chunk struct {
	Data   []byte
	Offset int64
}

// ReadError wraps an I/O failure from the underlying source.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("chunk read: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Reader yields successive Chunks from an io.Reader. The trailing
// unterminated bytes of each read are carried over and prepended to the next
// chunk, so a line (and any match inside it) is always presented whole.
// Lines longer than the chunk size grow the window instead of being truncated.
//
// Two buffers are alternated between calls: the chunk returned by Next stays
// valid until the following Next call.
type Reader struct {
	src    io.Reader
	bufs   [2][]byte
	cur    int
	carry  []byte // tail of the previously returned buffer
	offset int64  // absolute offset of the next chunk's first byte
	eof    bool
}

// DefaultSize is the chunk size used when the caller does not pick one.
const DefaultSize = 64 * 1024

// NewReader creates a Reader over src with the given maximum chunk size.
func NewReader(src io.Reader, maxSize int) (*Reader, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxSize)
	}
	return &Reader{
		src:  src,
		bufs: [2][]byte{make([]byte, 0, maxSize), make([]byte, 0, maxSize)},
	}, nil
}

// Next returns the next chunk, or io.EOF when the source is exhausted.
// On a *ReadError the reader is left at the last whole-chunk boundary; no
// partially read bytes leak into later chunks.
func (r *Reader) Next() (Chunk, error) {
	if r.eof && len(r.carry) == 0 {
		return Chunk{}, io.EOF
	}

	buf := r.bufs[r.cur][:0]
	buf = append(buf, r.carry...)
	r.carry = nil

	for {
		for len(buf) < cap(buf) && !r.eof {
			n, err := r.src.Read(buf[len(buf):cap(buf):cap(buf)])
			buf = buf[:len(buf)+n]
			if err != nil {
				if errors.Is(err, io.EOF) {
					r.eof = true
					break
				}
				return Chunk{}, &ReadError{Err: err}
			}
		}
		if r.eof || bytes.IndexByte(buf, '\n') >= 0 {
			break
		}
		// A single line overflows the window: grow and keep reading rather
		// than truncate it.
		grown := make([]byte, len(buf), cap(buf)*2)
		copy(grown, buf)
		buf = grown
	}
	r.bufs[r.cur] = buf

	if len(buf) == 0 {
		return Chunk{}, io.EOF
	}

	data := buf
	if !r.eof {
		// Cut at the last newline; the unterminated tail rides along to the
		// next chunk.
		last := bytes.LastIndexByte(buf, '\n')
		data = buf[:last+1]
		r.carry = buf[last+1:]
	}

	ck := Chunk{Data: data, Offset: r.offset}
	r.offset += int64(len(data))
	r.cur = 1 - r.cur
	return ck, nil
}

// Offset reports the absolute byte offset of the next chunk's first byte,
// i.e. how much of the source has been emitted so far.
func (r *Reader) Offset() int64 {
	return r.offset
}
