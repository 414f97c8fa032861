package loader

import (
	"path/filepath"
	"strings"
)

// shouldSkipFile checks if a file should be skipped
func (s *Service) shouldSkipFile(path string) bool {
	if strings.HasSuffix(strings.ToLower(path), "_test.go") {
		return true
	}
	if filepath.Ext(path) != ".go" {
		return true
	}
	return false
}

// inSkippedDir checks every directory between root and path against the
// skip rules.
func (s *Service) inSkippedDir(root, path string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}

	dir := root
	for _, name := range strings.Split(rel, string(filepath.Separator)) {
		dir = filepath.Join(dir, name)
		if s.shouldSkipDir(dir) {
			return true
		}
	}
	return false
}

// shouldSkipDir checks if a directory should be skipped
func (s *Service) shouldSkipDir(path string) bool {
	name := filepath.Base(path)

	if !s.parseVendor && name == "vendor" {
		return true
	}
	if name == "docs" {
		return true
	}
	if len(name) > 1 && name[0] == '.' && name != ".." {
		return true
	}

	if s.excludes != nil {
		if _, ok := s.excludes[path]; ok {
			return true
		}
	}

	return false
}

// skipPackageByPrefix checks if a package should be skipped based on prefix
func (s *Service) skipPackageByPrefix(pkgpath string) bool {
	if len(s.packagePrefix) == 0 {
		return false
	}
	for _, prefix := range s.packagePrefix {
		if strings.HasPrefix(pkgpath, prefix) {
			return false
		}
	}
	return true
}
