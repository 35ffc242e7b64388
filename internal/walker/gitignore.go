package walker

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreStack tracks .gitignore rules as the walk descends. Each layer is a
// directory that carried a .gitignore. Layers for directories the walk has
// left are pruned lazily: before any check, layers whose directory is not an
// ancestor of the queried path are popped.
type ignoreStack struct {
	layers []ignoreLayer
}

type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

func newIgnoreStack() *ignoreStack {
	return &ignoreStack{}
}

// push loads .gitignore from dir, if present, and pushes a layer for it.
// Directories without one get no layer.
func (s *ignoreStack) push(dir string) {
	parser, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return
	}
	s.layers = append(s.layers, ignoreLayer{dir: dir, parser: parser})
}

// isIgnored checks path against every layer still in scope.
func (s *ignoreStack) isIgnored(path string, isDir bool) bool {
	s.prune(path)
	for _, layer := range s.layers {
		rel, err := filepath.Rel(layer.dir, path)
		if err != nil {
			continue
		}
		checkPath := rel
		if isDir {
			checkPath = rel + "/"
		}
		if layer.parser.MatchesPath(checkPath) {
			return true
		}
	}
	return false
}

// prune drops layers whose directory no longer contains path.
func (s *ignoreStack) prune(path string) {
	for len(s.layers) > 0 {
		top := s.layers[len(s.layers)-1]
		if strings.HasPrefix(path, top.dir+string(filepath.Separator)) || path == top.dir {
			return
		}
		s.layers = s.layers[:len(s.layers)-1]
	}
}
