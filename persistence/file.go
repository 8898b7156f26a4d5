package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/surroundaustralia/rdfx/graph"
)

// FileBackend persists graphs as files inside one sandbox directory
// bound at construction. File names are trusted input: the original
// design does not guard against traversal outside the sandbox, and
// neither does this one (open hardening item, not a contract).
type FileBackend struct {
	dir string
}

// NewFile binds a backend to a directory, creating it if absent.
func NewFile(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, invalidConfigf("file backend requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sandbox directory %q: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the sandbox directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

var _ Backend = (*FileBackend)(nil)

// Write encodes the graph to <dir>/<name>.<suffix>.
func (b *FileBackend) Write(_ context.Context, g *graph.Graph, name string, format graph.Format, comments []string) (string, error) {
	f, err := normalizeFormat(format)
	if err != nil {
		return "", err
	}
	doc, err := EncodeDocument(g, f, comments)
	if err != nil {
		Observe("file", "write", err)
		return "", err
	}
	path := filepath.Join(b.dir, name+"."+f.Suffix())
	err = os.WriteFile(path, []byte(doc), 0o644)
	Observe("file", "write", err)
	if err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}

// Read resolves the same path Write composes. A name that already
// carries a recognized RDF extension is used as-is, and its extension
// supplies the format when none is given.
func (b *FileBackend) Read(_ context.Context, name string, format graph.Format) ([]string, *graph.Graph, error) {
	path, f, err := b.resolve(name, format)
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		Observe("file", "read", err)
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		return nil, nil, fmt.Errorf("read %q: %w", path, err)
	}
	comments, g, err := DecodeDocument(string(raw), f)
	Observe("file", "read", err)
	return comments, g, err
}

// AssetExists probes the resolved path; a name without a recognized
// extension is probed under every output suffix.
func (b *FileBackend) AssetExists(_ context.Context, name string) (bool, error) {
	var candidates []string
	if _, err := graph.GuessFormat(name); err == nil {
		candidates = []string{filepath.Join(b.dir, name)}
	} else {
		for _, f := range graph.Formats {
			candidates = append(candidates, filepath.Join(b.dir, name+"."+f.Suffix()))
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return true, nil
		} else if !os.IsNotExist(err) {
			return false, fmt.Errorf("stat %q: %w", path, err)
		}
	}
	return false, nil
}

func (b *FileBackend) resolve(name string, format graph.Format) (string, graph.Format, error) {
	if guessed, err := graph.GuessFormat(name); err == nil {
		f := guessed
		if format != "" {
			nf, err := normalizeFormat(format)
			if err != nil {
				return "", "", err
			}
			f = nf
		}
		return filepath.Join(b.dir, name), f, nil
	}
	if format == "" {
		return "", "", invalidConfigf("cannot detect format of %q; pass one explicitly", name)
	}
	f, err := normalizeFormat(format)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(b.dir, name+"."+f.Suffix()), f, nil
}
