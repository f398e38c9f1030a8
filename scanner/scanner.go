// Package scanner finds the files of a Dart project a run should look at.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSkipDirs are tool and build directories a Dart project never
// keeps analyzable sources in.
var DefaultSkipDirs = []string{".dart_tool", ".git", "build", ".pub-cache"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir  string
	suffixes []string
	skipDirs map[string]bool
}

// New returns a scanner for files under rootDir ending in one of suffixes.
// Without suffixes every file matches.
func New(rootDir string, suffixes ...string) *Scanner {
	s := &Scanner{
		rootDir:  rootDir,
		suffixes: suffixes,
		skipDirs: make(map[string]bool),
	}
	for _, d := range DefaultSkipDirs {
		s.skipDirs[d] = true
	}
	return s
}

// SkipDir adds directory names that are not descended into.
func (s *Scanner) SkipDir(names ...string) *Scanner {
	for _, n := range names {
		s.skipDirs[n] = true
	}
	return s
}

// Scan returns the matching files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.rootDir && s.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.isTargetFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Dirs returns every directory Scan would descend into, root included.
func (s *Scanner) Dirs() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.rootDir && s.skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.suffixes) == 0 {
		return true
	}

	for _, suffix := range s.suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
