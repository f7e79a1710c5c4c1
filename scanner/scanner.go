// Package scanner collects the source files a query run will visit.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner walks a directory tree and gathers the files matching a set
// of extensions, skipping ignored path fragments.
type Scanner struct {
	rootDir    string
	extensions []string
	ignore     []string
}

// New returns a Scanner rooted at rootDir. With no extensions every
// file matches.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Ignore adds path fragments to skip. A directory whose path contains
// a fragment is pruned whole.
func (s *Scanner) Ignore(fragments ...string) *Scanner {
	for _, f := range fragments {
		if f != "" {
			s.ignore = append(s.ignore, f)
		}
	}
	return s
}

// Scan returns the matching file paths in sorted order.
func (s *Scanner) Scan() ([]string, error) {
	var files []string
	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if s.ignored(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.isTargetFile(path) && !s.ignored(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}

func (s *Scanner) ignored(path string) bool {
	for _, fragment := range s.ignore {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}
