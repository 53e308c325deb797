package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover resolves files and directories into the sorted list of test
// documents to load. Directories are walked for files named test*.yml or
// test*.yaml; explicit file paths are taken verbatim.
func Discover(paths []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}

	add := func(path string) {
		if !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsTestDocument(filepath.Base(path)) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsTestDocument reports whether a file name matches the discovery pattern.
func IsTestDocument(name string) bool {
	if !strings.HasPrefix(name, "test") {
		return false
	}
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}
