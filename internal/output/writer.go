package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to stdout, using writev for batching.
type Writer struct {
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

// Write writes the given bytes to stdout using writev.
func (w *Writer) Write(data []byte) error {
	for len(data) > 0 {
		iovs := [][]byte{data}
		n, err := unix.Writev(w.fd, iovs)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// OrderedWriter receives results from a channel and writes them in sequence
// order, so output is deterministic even with parallel workers.
type OrderedWriter struct {
	writer    *Writer
	formatter Formatter
	multiFile bool
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w *Writer, f Formatter, multiFile bool) *OrderedWriter {
	return &OrderedWriter{
		writer:    w,
		formatter: f,
		multiFile: multiFile,
	}
}

// WriteOrdered consumes results from the channel, buffering out-of-order
// results and writing them in sequence-number order. onMatch is invoked once
// per result that contains at least one match; onErr once per failed result.
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onMatch func(), onErr func(Result)) {
	nextSeq := 1
	pending := make(map[int]Result)
	var buf []byte

	emit := func(r Result) {
		if r.Err != nil {
			if onErr != nil {
				onErr(r)
			}
			return
		}
		if r.HasMatch() && onMatch != nil {
			onMatch()
		}
		buf = ow.formatter.Format(buf[:0], r, ow.multiFile)
		ow.writer.Write(buf)
	}

	for r := range results {
		if r.SeqNum != nextSeq {
			pending[r.SeqNum] = r
			continue
		}
		emit(r)
		nextSeq++
		for {
			next, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			emit(next)
			nextSeq++
		}
	}

	// Anything left arrived with gaps (workers aborted); flush in order.
	for len(pending) > 0 {
		if next, ok := pending[nextSeq]; ok {
			delete(pending, nextSeq)
			emit(next)
		}
		nextSeq++
	}
}
