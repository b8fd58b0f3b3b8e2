package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tabio/pkg/model"
)

// SearchPath associates a prefix with a directory.
type SearchPath struct {
	Prefix string `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	Dir    string `mapstructure:"dir" json:"dir" yaml:"dir"`
}

// SearchPaths resolves "prefix:file" names against directories registered for
// the session. The empty prefix holds directories searched for plain names.
type SearchPaths struct {
	paths []SearchPath
}

func NewSearchPaths() *SearchPaths {
	return &SearchPaths{}
}

// Add registers directories for prefix. A directory may also be a list
// separated by the OS path list separator.
func (s *SearchPaths) Add(prefix string, dirs ...string) {
	for _, dir := range dirs {
		for _, d := range filepath.SplitList(dir) {
			s.paths = append(s.paths, SearchPath{Prefix: prefix, Dir: d})
		}
	}
}

// All returns every registered pair in registration order.
func (s *SearchPaths) All() []SearchPath {
	return append([]SearchPath{}, s.paths...)
}

// Paths returns the directories registered for prefix.
func (s *SearchPaths) Paths(prefix string) []string {
	var dirs []string
	for _, p := range s.paths {
		if p.Prefix == prefix {
			dirs = append(dirs, p.Dir)
		}
	}
	return dirs
}

// Expand returns the path of the first existing file named by a "prefix:file"
// name in the directories of the prefix.
func (s *SearchPaths) Expand(name string) (string, error) {
	prefix, file := "", name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		prefix, file = name[:i], name[i+1:]
	}
	dirs := s.Paths(prefix)
	if len(dirs) == 0 {
		return "", fmt.Errorf("%w: unknown prefix %q", model.ErrNotFound, prefix)
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, file)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not on the search path", model.ErrNotFound, file)
}

// Find returns name itself when it exists and expands it otherwise.
func (s *SearchPaths) Find(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	return s.Expand(name)
}
