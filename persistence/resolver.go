package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/surroundaustralia/rdfx/graph"
)

// PrepareFilesList expands paths into a concrete ordered collection of
// candidate RDF files. A bare file path becomes a one-element entry; a
// directory is expanded by globbing each recognized extension in format
// table order. Order of matches within one extension is
// filesystem-dependent and not guaranteed. Anything that is neither
// file nor directory is an argument error.
func PrepareFilesList(paths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an accessible file or directory: %v", ErrInvalidArgument, p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		for _, ending := range graph.FileEndings() {
			matches, err := doublestar.FilepathGlob(filepath.Join(p, "*."+ending))
			if err != nil {
				return nil, fmt.Errorf("glob %q in %q: %w", ending, p, err)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	return files, nil
}
