// Package walker discovers candidate files under one or more roots,
// honoring .gitignore rules and skipping files that cannot contain text.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileEntry is one file discovered during traversal.
type FileEntry struct {
	Path string
}

// WalkOptions configures traversal behavior.
type WalkOptions struct {
	NoIgnore bool // do not honor .gitignore files
	Hidden   bool // descend into dot-directories and report dot-files
}

// WalkError wraps a traversal failure for one path; the walk continues.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("walk %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Walk traverses roots and sends discovered files on the returned channel.
// Explicitly named files are always reported, even when hidden or ignored.
// Errors go to the second channel; both close when the walk completes.
func Walk(roots []string, opts WalkOptions) (<-chan FileEntry, <-chan error) {
	fileCh := make(chan FileEntry, 256)
	errCh := make(chan error, 16)

	go func() {
		defer close(fileCh)
		defer close(errCh)

		for _, root := range roots {
			info, err := os.Stat(root)
			if err != nil {
				errCh <- &WalkError{Path: root, Err: err}
				continue
			}
			if !info.IsDir() {
				fileCh <- FileEntry{Path: root}
				continue
			}
			walkDir(root, opts, fileCh, errCh)
		}
	}()

	return fileCh, errCh
}

func walkDir(root string, opts WalkOptions, fileCh chan<- FileEntry, errCh chan<- error) {
	ignores := newIgnoreStack()
	if !opts.NoIgnore {
		ignores.push(root)
	}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errCh <- &WalkError{Path: path, Err: err}
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if skipDir(name, opts.Hidden) {
				return fs.SkipDir
			}
			if !opts.NoIgnore {
				if ignores.isIgnored(path, true) {
					return fs.SkipDir
				}
				ignores.push(path)
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !opts.Hidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if IsBinaryExtension(name) {
			return nil
		}
		if !opts.NoIgnore && ignores.isIgnored(path, false) {
			return nil
		}

		fileCh <- FileEntry{Path: path}
		return nil
	})
}

// skipDir reports whether a directory should be pruned from the walk.
func skipDir(name string, hidden bool) bool {
	if !hidden && strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "__pycache__":
		return true
	}
	return false
}
