// Package input opens byte sources for scanning: plain files, gzip files and
// stdin, all surfaced as one streaming Source type.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"
)

// peekSize is how many leading bytes are inspected for the binary heuristic.
const peekSize = 8192

// Source is an open, readable input. Close releases the decompressor (when
// present) and the underlying file; it is safe to call on every exit path.
type Source struct {
	Path string

	r    io.Reader
	br   *bufio.Reader // raw file bytes, for sniffing
	zr   *gzip.Reader
	file *os.File
}

func (s *Source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Close releases all resources held by the source.
func (s *Source) Close() error {
	var err error
	if s.zr != nil {
		err = s.zr.Close()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Binary reports whether the source looks like binary data: a NUL byte in the
// first 8KB, the same heuristic GNU grep uses. Gzip sources are never treated
// as binary - the compressed framing would always trip the check.
func (s *Source) Binary() bool {
	if s.zr != nil {
		return false
	}
	head, _ := s.br.Peek(peekSize)
	return bytes.IndexByte(head, 0) >= 0
}

// Open opens path for sequential scanning. Files starting with the gzip magic
// are decompressed transparently, matching how compressed logs are usually
// searched in place.
func Open(path string) (*Source, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)

	f := os.NewFile(uintptr(fd), path)
	br := bufio.NewReaderSize(f, peekSize)

	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return &Source{Path: path, r: zr, br: br, zr: zr, file: f}, nil
	}

	return &Source{Path: path, r: br, br: br, file: f}, nil
}

// Stdin wraps standard input as a Source. Closing it does not close the
// process's stdin.
func Stdin() *Source {
	br := bufio.NewReaderSize(os.Stdin, peekSize)
	return &Source{Path: "(stdin)", r: br, br: br}
}
