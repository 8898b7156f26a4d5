// Package watch observes a directory tree for RDF file changes and
// emits debounced events, so a consumer sees one event per burst of
// writes rather than one per syscall.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/surroundaustralia/rdfx/graph"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 500
)

// Config configures RDF file watching.
type Config struct {
	// DebounceDelay is how long to wait for more changes before processing.
	DebounceDelay string `yaml:"debounce_delay"`

	// ExcludeDirs lists directory names to skip (e.g., [".git", "node_modules"]).
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// DefaultConfig returns default watch configuration.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: "500ms",
		ExcludeDirs:   []string{".git", "node_modules", "vendor"},
	}
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *Config) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// Event represents an RDF file change.
type Event struct {
	// Path is the file path relative to the watched directory.
	Path string

	// Operation is the type of change.
	Operation Operation

	// AbsPath is the absolute file path.
	AbsPath string

	// Format is the serialization guessed from the file name.
	Format graph.Format
}

// Operation indicates the type of file operation.
type Operation string

// OpCreate, OpModify, and OpDelete enumerate the file watch operation types.
const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Watcher watches for RDF file changes and emits events. Files whose
// extension is not a recognized RDF serialization are ignored, as are
// writes that leave the file content unchanged.
type Watcher struct {
	config   Config
	dir      string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	excludes map[string]bool

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Hash-based change detection
	hashMu sync.RWMutex
	hashes map[string]string

	events chan Event

	droppedEvents atomic.Int64
}

// New creates a watcher rooted at dir.
func New(config Config, dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	excludes := make(map[string]bool)
	if len(config.ExcludeDirs) == 0 {
		excludes[".git"] = true
		excludes["node_modules"] = true
		excludes["vendor"] = true
	} else {
		for _, d := range config.ExcludeDirs {
			excludes[d] = true
		}
	}

	return &Watcher{
		config:   config,
		dir:      dir,
		watcher:  fsw,
		logger:   logger,
		excludes: excludes,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of watch events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Dropped returns how many events were discarded because the consumer
// fell behind.
func (w *Watcher) Dropped() int64 {
	return w.droppedEvents.Load()
}

// Start begins watching the directory for changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	if err := w.addWatchesRecursive(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("RDF watcher started",
		"dir", w.dir,
		"debounce", w.config.GetDebounceDelay())

	return nil
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		// Skip excluded and hidden directories
		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && base != ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.config.GetDebounceDelay())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent records a raw fsnotify event for the next flush. New
// directories are added to the watch set immediately so files created
// inside them are not missed.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			base := filepath.Base(event.Name)
			if !w.excludes[base] && !strings.HasPrefix(base, ".") {
				_ = w.addWatchesRecursive(event.Name)
			}
			return
		}
	}

	if _, err := graph.GuessFormat(event.Name); err != nil {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] |= event.Op
	w.pendingMu.Unlock()
}

// flushPending converts accumulated raw events into watch events.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range pending {
		event, ok := w.classify(path, op)
		if !ok {
			continue
		}
		select {
		case w.events <- event:
		default:
			w.droppedEvents.Add(1)
			w.logger.Warn("Event channel full, dropping event", "path", path)
		}
	}
}

// classify turns a coalesced fsnotify op into a watch event, skipping
// writes whose content hash is unchanged.
func (w *Watcher) classify(path string, op fsnotify.Op) (Event, bool) {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		rel = path
	}
	format, err := graph.GuessFormat(path)
	if err != nil {
		return Event{}, false
	}

	if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			w.hashMu.Lock()
			delete(w.hashes, path)
			w.hashMu.Unlock()
			return Event{Path: rel, AbsPath: path, Operation: OpDelete, Format: format}, true
		}
	}

	hash, err := hashFile(path)
	if err != nil {
		return Event{}, false
	}

	w.hashMu.Lock()
	previous, seen := w.hashes[path]
	w.hashes[path] = hash
	w.hashMu.Unlock()

	if seen && previous == hash {
		return Event{}, false
	}

	operation := OpModify
	if !seen && op&fsnotify.Create != 0 {
		operation = OpCreate
	}
	return Event{Path: rel, AbsPath: path, Operation: operation, Format: format}, true
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
